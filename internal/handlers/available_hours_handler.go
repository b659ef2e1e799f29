package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/agenda-facil/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-facil/internal/httperr"
	"github.com/BruksfildServices01/agenda-facil/internal/middleware"
	"github.com/BruksfildServices01/agenda-facil/internal/models"
)

type AvailableHoursHandler struct {
	db    *gorm.DB
	audit Auditor
}

func NewAvailableHoursHandler(db *gorm.DB, a Auditor) *AvailableHoursHandler {
	return &AvailableHoursHandler{db: db, audit: auditorOrNop(a)}
}

type CreateAvailableHourRequest struct {
	DayOfWeek       *int   `json:"day_of_week" binding:"required,min=0,max=6"`
	StartTime       string `json:"start_time" binding:"required,hhmm"`
	EndTime         string `json:"end_time" binding:"required,hhmm"`
	IntervalMinutes int    `json:"interval_minutes" binding:"required,min=1,max=720"`
}

func (h *AvailableHoursHandler) List(c *gin.Context) {
	var hours []models.AvailableHour
	if err := h.db.WithContext(c.Request.Context()).
		Where("profile_id = ?", middleware.ProfileID(c)).
		Order("day_of_week ASC, start_time ASC").
		Find(&hours).Error; err != nil {

		httperr.Unavailable(c, "store_unavailable", "Erro ao buscar horários.")
		return
	}

	c.JSON(http.StatusOK, hours)
}

func (h *AvailableHoursHandler) Create(c *gin.Context) {
	var req CreateAvailableHourRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	w := domain.Window{
		DayOfWeek: time.Weekday(*req.DayOfWeek),
		Start:     domain.MustClock(req.StartTime),
		End:       domain.MustClock(req.EndTime),
		Interval:  req.IntervalMinutes,
	}
	if err := w.Validate(); err != nil {
		httperr.BadRequest(c, "invalid_window", "O início deve ser antes do fim e o intervalo maior que zero.")
		return
	}

	hour := models.AvailableHour{
		ProfileID:       middleware.ProfileID(c),
		DayOfWeek:       *req.DayOfWeek,
		StartTime:       w.Start.String(),
		EndTime:         w.End.String(),
		IntervalMinutes: w.Interval,
		Active:          true,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&hour).Error; err != nil {
		httperr.Internal(c, "failed_to_save_available_hour", "Erro ao salvar horário.")
		return
	}

	writeAudit(h.audit, c, "available_hour_created", "available_hour", &hour.ID, req)
	c.JSON(http.StatusCreated, hour)
}

func (h *AvailableHoursHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return
	}

	db := h.db.WithContext(c.Request.Context())

	var hour models.AvailableHour
	if err := db.Where("id = ? AND profile_id = ?", id, middleware.ProfileID(c)).
		First(&hour).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "available_hour_not_found", "Horário não encontrado.")
			return
		}
		httperr.Unavailable(c, "store_unavailable", "Erro ao buscar horário.")
		return
	}

	if err := db.Delete(&hour).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_available_hour", "Erro ao remover horário.")
		return
	}

	writeAudit(h.audit, c, "available_hour_deleted", "available_hour", &hour.ID, nil)
	c.Status(http.StatusNoContent)
}
