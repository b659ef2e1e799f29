package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-facil/internal/httperr"
	"github.com/BruksfildServices01/agenda-facil/internal/middleware"
	"github.com/BruksfildServices01/agenda-facil/internal/models"
)

type ServiceHandler struct {
	db    *gorm.DB
	audit Auditor
}

func NewServiceHandler(db *gorm.DB, a Auditor) *ServiceHandler {
	return &ServiceHandler{db: db, audit: auditorOrNop(a)}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name            string  `json:"name" binding:"required,max=100"`
	DurationMinutes int     `json:"duration_minutes" binding:"required,min=1,max=1440"`
	Price           float64 `json:"price" binding:"min=0"`
}

type UpdateServiceRequest struct {
	Name            *string  `json:"name,omitempty" binding:"omitempty,min=1,max=100"`
	DurationMinutes *int     `json:"duration_minutes,omitempty" binding:"omitempty,min=1,max=1440"`
	Price           *float64 `json:"price,omitempty" binding:"omitempty,min=0"`
	Active          *bool    `json:"active,omitempty"`
}

// --------- Handlers ---------

func (h *ServiceHandler) List(c *gin.Context) {
	profileID := middleware.ProfileID(c)

	q := h.db.WithContext(c.Request.Context()).
		Where("profile_id = ?", profileID)

	switch strings.TrimSpace(c.Query("active")) {
	case "true":
		q = q.Where("active = ?", true)
	case "false":
		q = q.Where("active = ?", false)
	}

	if query := strings.ToLower(strings.TrimSpace(c.Query("query"))); query != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+query+"%")
	}

	var services []models.Service
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		httperr.Unavailable(c, "store_unavailable", "Erro ao listar serviços.")
		return
	}

	c.JSON(http.StatusOK, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	service := models.Service{
		ProfileID:       middleware.ProfileID(c),
		Name:            strings.TrimSpace(req.Name),
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		Active:          true,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&service).Error; err != nil {
		httperr.Internal(c, "failed_to_create_service", "Erro ao criar serviço.")
		return
	}

	writeAudit(h.audit, c, "service_created", "service", &service.ID, gin.H{"name": service.Name})
	c.JSON(http.StatusCreated, service)
}

func (h *ServiceHandler) find(c *gin.Context) (*models.Service, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "ID inválido.")
		return nil, false
	}

	var service models.Service
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND profile_id = ?", id, middleware.ProfileID(c)).
		First(&service).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "service_not_found", "Serviço não encontrado.")
			return nil, false
		}
		httperr.Unavailable(c, "store_unavailable", "Erro ao buscar serviço.")
		return nil, false
	}
	return &service, true
}

func (h *ServiceHandler) Update(c *gin.Context) {
	service, ok := h.find(c)
	if !ok {
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	if req.Name != nil {
		service.Name = strings.TrimSpace(*req.Name)
	}
	if req.DurationMinutes != nil {
		service.DurationMinutes = *req.DurationMinutes
	}
	if req.Price != nil {
		service.Price = *req.Price
	}
	if req.Active != nil {
		service.Active = *req.Active
	}

	// Select explícito grava também active=false
	if err := h.db.WithContext(c.Request.Context()).
		Model(service).
		Select("name", "duration_minutes", "price", "active").
		Updates(service).Error; err != nil {
		httperr.Internal(c, "failed_to_update_service", "Erro ao salvar serviço.")
		return
	}

	writeAudit(h.audit, c, "service_updated", "service", &service.ID, req)
	c.JSON(http.StatusOK, service)
}

// Delete removes a service, or deactivates it when appointments reference it.
func (h *ServiceHandler) Delete(c *gin.Context) {
	service, ok := h.find(c)
	if !ok {
		return
	}

	db := h.db.WithContext(c.Request.Context())

	var refs int64
	if err := db.Model(&models.Appointment{}).
		Where("service_id = ?", service.ID).
		Count(&refs).Error; err != nil {
		httperr.Unavailable(c, "store_unavailable", "Erro ao remover serviço.")
		return
	}

	if refs > 0 {
		if err := db.Model(service).Update("active", false).Error; err != nil {
			httperr.Internal(c, "failed_to_update_service", "Erro ao desativar serviço.")
			return
		}
		writeAudit(h.audit, c, "service_deactivated", "service", &service.ID, nil)
		c.JSON(http.StatusOK, gin.H{"deleted": false, "deactivated": true})
		return
	}

	if err := db.Delete(service).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_service", "Erro ao remover serviço.")
		return
	}

	writeAudit(h.audit, c, "service_deleted", "service", &service.ID, nil)
	c.JSON(http.StatusOK, gin.H{"deleted": true, "deactivated": false})
}
