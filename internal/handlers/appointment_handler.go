package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/agenda-facil/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-facil/internal/dto"
	"github.com/BruksfildServices01/agenda-facil/internal/httperr"
	"github.com/BruksfildServices01/agenda-facil/internal/httpresp"
	"github.com/BruksfildServices01/agenda-facil/internal/middleware"
	"github.com/BruksfildServices01/agenda-facil/internal/models"
)

// ======================================================
// USE CASES
// ======================================================

type AppointmentLister interface {
	Execute(ctx context.Context, profileID uint, filter domain.ListFilter) ([]dto.AppointmentListDTO, error)
}

type StatusUpdater interface {
	Execute(ctx context.Context, profileID, userID, appointmentID uint, to string) (*models.Appointment, error)
}

type DashboardReader interface {
	Execute(ctx context.Context, profileID uint) (*dto.DashboardDTO, error)
}

type ReminderLinker interface {
	Execute(ctx context.Context, profileID, appointmentID uint) (string, error)
}

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	list      AppointmentLister
	status    StatusUpdater
	dashboard DashboardReader
	reminder  ReminderLinker
}

func NewAppointmentHandler(
	list AppointmentLister,
	status StatusUpdater,
	dashboard DashboardReader,
	reminder ReminderLinker,
) *AppointmentHandler {
	return &AppointmentHandler{
		list:      list,
		status:    status,
		dashboard: dashboard,
		reminder:  reminder,
	}
}

type ListAppointmentsQuery struct {
	Date string `form:"date" binding:"omitempty,yyyymmdd"`
	From string `form:"from" binding:"omitempty,yyyymmdd"`
	To   string `form:"to" binding:"omitempty,yyyymmdd"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ======================================================
// LIST
// ======================================================

// List supports status, date, from/to, year/month, order and limit filters.
func (h *AppointmentHandler) List(c *gin.Context) {
	var q ListAppointmentsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida. Use AAAA-MM-DD.")
		return
	}

	filter := domain.ListFilter{
		Status: strings.TrimSpace(c.Query("status")),
		Date:   q.Date,
		From:   q.From,
		To:     q.To,
		Desc:   strings.EqualFold(c.Query("order"), "desc"),
	}

	if ys, ms := c.Query("year"), c.Query("month"); ys != "" || ms != "" {
		from, to, ok := monthRange(ys, ms)
		if !ok {
			httperr.BadRequest(c, "invalid_year_or_month", "Ano ou mês inválido.")
			return
		}
		filter.From, filter.To = from, to
	}

	if ls := c.Query("limit"); ls != "" {
		n, err := strconv.Atoi(ls)
		if err != nil || n < 0 {
			httperr.BadRequest(c, "invalid_limit", "Limite inválido.")
			return
		}
		filter.Limit = n
	}

	out, err := h.list.Execute(c.Request.Context(), middleware.ProfileID(c), filter)
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	httpresp.List(c, out)
}

func monthRange(yearStr, monthStr string) (string, string, bool) {
	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 2000 || year > 2100 {
		return "", "", false
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		return "", "", false
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return start.Format(domain.DateLayout), end.Format(domain.DateLayout), true
}

// ======================================================
// STATUS
// ======================================================

func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	ap, err := h.status.Execute(
		c.Request.Context(),
		middleware.ProfileID(c),
		middleware.UserID(c),
		id,
		strings.ToLower(strings.TrimSpace(req.Status)),
	)
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// DASHBOARD
// ======================================================

func (h *AppointmentHandler) Dashboard(c *gin.Context) {
	out, err := h.dashboard.Execute(c.Request.Context(), middleware.ProfileID(c))
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	httpresp.OK(c, out)
}

// ======================================================
// REMINDER (WhatsApp)
// ======================================================

func (h *AppointmentHandler) Reminder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	link, err := h.reminder.Execute(c.Request.Context(), middleware.ProfileID(c), id)
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	httpresp.OK(c, gin.H{"url": link})
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", fmt.Sprintf("ID inválido: %q.", c.Param("id")))
		return 0, false
	}
	return uint(id), true
}
