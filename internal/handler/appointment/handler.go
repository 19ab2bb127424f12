package appointment

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinic-api/internal/handler"
	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/service/appointment"
	"github.com/jwalitptl/clinic-api/internal/service/coordinator"
)

type Handler struct {
	service     appointment.AppointmentService
	coordinator coordinator.CoordinatorService
}

func NewHandler(service appointment.AppointmentService, coordinator coordinator.CoordinatorService) *Handler {
	return &Handler{
		service:     service,
		coordinator: coordinator,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.GET("", h.ListAppointments)
		appointments.POST("", h.CreateAppointment)
		appointments.POST("/complete", h.CompleteAppointment)
	}
}

func (h *Handler) ListAppointments(c *gin.Context) {
	rows, err := h.service.ListResolved(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	id, err := h.service.Book(c.Request.Context(), req.PatientID, req.DoctorID, req.Date, req.Time)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewCreatedResponse("Appointment booked successfully.", id))
}

func (h *Handler) CompleteAppointment(c *gin.Context) {
	var req model.CompleteAppointmentRequest
	if !handler.BindJSON(c, &req) {
		return
	}

	if err := h.coordinator.CompleteAppointment(c.Request.Context(), req.AppointmentID, req.PatientID); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, handler.NewMessageResponse("Appointment and patient record deleted successfully."))
}
