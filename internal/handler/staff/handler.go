package staff

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinic-api/internal/handler"
	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/service/coordinator"
	"github.com/jwalitptl/clinic-api/internal/service/identity"
)

type Handler struct {
	identity        identity.IdentityService
	coordinator     coordinator.CoordinatorService
	defaultPassword string
}

func NewHandler(identity identity.IdentityService, coordinator coordinator.CoordinatorService, defaultPassword string) *Handler {
	return &Handler{
		identity:        identity,
		coordinator:     coordinator,
		defaultPassword: defaultPassword,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/signup", h.Signup)

	staff := r.Group("/staff")
	{
		staff.GET("", h.ListStaff)
		staff.POST("/update", h.UpdateStaff)
		staff.DELETE("/:id", h.DeleteStaff)
	}
}

func (h *Handler) Signup(c *gin.Context) {
	var req model.SignupRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	id, err := h.identity.Register(c.Request.Context(), req.CustomID, req.StaffName, model.Role(req.Role), req.AvailableDays)
	if err != nil {
		_ = c.Error(err)
		return
	}

	msg := fmt.Sprintf("Account created successfully with ID %s and default password '%s'.", identity.NormalizeCode(req.CustomID), h.defaultPassword)
	c.JSON(http.StatusCreated, handler.NewCreatedResponse(msg, id))
}

func (h *Handler) UpdateStaff(c *gin.Context) {
	var req model.UpdateStaffRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	update := model.StaffUpdate{
		Code:          req.Username,
		Name:          req.Name,
		AvailableDays: req.AvailableDays,
	}
	if err := h.coordinator.RenameStaff(c.Request.Context(), req.ID, update); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, handler.NewMessageResponse("Staff updated successfully."))
}

func (h *Handler) DeleteStaff(c *gin.Context) {
	id, err := handler.ParamID(c, "id")
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := h.identity.Remove(c.Request.Context(), id); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, handler.NewMessageResponse("Staff member removed successfully."))
}

func (h *Handler) ListStaff(c *gin.Context) {
	staff, err := h.identity.List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	resp := make([]model.StaffResponse, 0, len(staff))
	for _, s := range staff {
		resp = append(resp, model.NewStaffResponse(s))
	}
	c.JSON(http.StatusOK, resp)
}
