package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinic-api/internal/handler"
	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/service/identity"
)

type Handler struct {
	identity identity.IdentityService
}

func NewHandler(identity identity.IdentityService) *Handler {
	return &Handler{identity: identity}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/login", h.Login)
}

type LoginResponse struct {
	Message string              `json:"message"`
	User    model.StaffResponse `json:"user"`
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	staff, err := h.identity.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, LoginResponse{
		Message: "Login successful",
		User:    model.NewStaffResponse(staff),
	})
}
