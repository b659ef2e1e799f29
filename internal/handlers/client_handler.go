package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-facil/internal/httperr"
	"github.com/BruksfildServices01/agenda-facil/internal/httpresp"
	"github.com/BruksfildServices01/agenda-facil/internal/middleware"
	"github.com/BruksfildServices01/agenda-facil/internal/models"
)

// ClientSummary groups a provider's appointments by client phone.
type ClientSummary struct {
	ClientName   string `json:"client_name"`
	ClientPhone  string `json:"client_phone"`
	Appointments int64  `json:"appointments"`
	LastDate     string `json:"last_date"`
}

type ClientHandler struct {
	db *gorm.DB
}

func NewClientHandler(db *gorm.DB) *ClientHandler {
	return &ClientHandler{db: db}
}

// List returns the provider's clients, derived from their appointments.
func (h *ClientHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).
		Model(&models.Appointment{}).
		Select(`MAX(client_name) AS client_name,
			client_phone,
			COUNT(*) AS appointments,
			MAX(appointment_date) AS last_date`).
		Where("profile_id = ?", middleware.ProfileID(c))

	if query := strings.ToLower(strings.TrimSpace(c.Query("query"))); query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(client_name) LIKE ? OR client_phone LIKE ?", like, like)
	}

	var clients []ClientSummary
	if err := q.
		Group("client_phone").
		Order("last_date DESC").
		Scan(&clients).Error; err != nil {

		httperr.Unavailable(c, "failed_to_list_clients", "Erro ao listar clientes.")
		return
	}

	httpresp.List(c, clients)
}
