package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/agenda-facil/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-facil/internal/httperr"
	"github.com/BruksfildServices01/agenda-facil/internal/httpresp"
	infraRepo "github.com/BruksfildServices01/agenda-facil/internal/infra/repository"
	"github.com/BruksfildServices01/agenda-facil/internal/models"
	"github.com/BruksfildServices01/agenda-facil/internal/usecase/appointment"
)

////////////////////////////////////////////////////////
// USE CASES
////////////////////////////////////////////////////////

type Booker interface {
	Execute(ctx context.Context, in appointment.BookInput) (*models.Appointment, error)
}

type SlotFinder interface {
	Execute(ctx context.Context, slug, date string) (*appointment.AvailabilityResult, error)
}

type DateFinder interface {
	Execute(ctx context.Context, slug, from string, days int) ([]string, error)
}

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	profiles *infraRepo.ProfileGormRepository
	book     Booker
	slots    SlotFinder
	dates    DateFinder
}

func NewPublicHandler(db *gorm.DB, book Booker, slots SlotFinder, dates DateFinder) *PublicHandler {
	return &PublicHandler{
		profiles: infraRepo.NewProfileGormRepository(db),
		book:     book,
		slots:    slots,
		dates:    dates,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

// PublicBookRequest só valida o formato JSON: serviço, data e horário são
// checados pelo caso de uso, na ordem profissional > serviço > agenda.
type PublicBookRequest struct {
	ServiceID   uint   `json:"service_id"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	ClientName  string `json:"client_name" binding:"max=100"`
	ClientPhone string `json:"client_phone" binding:"max=20"`
}

type publicProfile struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Phone       string `json:"phone"`
	ServiceType string `json:"service_type"`
	Timezone    string `json:"timezone"`
	PhotoURL    string `json:"photo_url"`
}

////////////////////////////////////////////////////////
// PROFILE + SERVICES
////////////////////////////////////////////////////////

func (h *PublicHandler) Profile(c *gin.Context) {
	ctx := c.Request.Context()

	p, err := h.profiles.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			httperr.NotFound(c, domain.CodeNotFound, "Profissional não encontrado.")
			return
		}
		httperr.Unavailable(c, domain.CodeStoreUnavailable, "Serviço temporariamente indisponível.")
		return
	}

	services, err := h.profiles.ActiveServices(ctx, p.ID)
	if err != nil {
		httperr.Unavailable(c, domain.CodeStoreUnavailable, "Serviço temporariamente indisponível.")
		return
	}

	httpresp.OK(c, gin.H{
		"profile": publicProfile{
			Name:        p.Name,
			Slug:        p.Slug,
			Phone:       p.Phone,
			ServiceType: p.ServiceType,
			Timezone:    p.Timezone,
			PhotoURL:    p.PhotoURL,
		},
		"services": services,
	})
}

////////////////////////////////////////////////////////
// BOOKABLE DATES
////////////////////////////////////////////////////////

func (h *PublicHandler) Dates(c *gin.Context) {
	days := 0
	if ds := c.Query("days"); ds != "" {
		n, err := strconv.Atoi(ds)
		if err != nil || n <= 0 {
			httperr.BadRequest(c, "invalid_input", "Quantidade de dias inválida.")
			return
		}
		days = n
	}

	dates, err := h.dates.Execute(c.Request.Context(), c.Param("slug"), c.Query("from"), days)
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	httpresp.OK(c, gin.H{"dates": dates})
}

////////////////////////////////////////////////////////
// SLOTS
////////////////////////////////////////////////////////

func (h *PublicHandler) Slots(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "invalid_input", "Data obrigatória.")
		return
	}

	res, err := h.slots.Execute(c.Request.Context(), c.Param("slug"), date)
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	httpresp.OK(c, res)
}

////////////////////////////////////////////////////////
// BOOK
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	var req PublicBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c)
		return
	}

	ap, err := h.book.Execute(c.Request.Context(), appointment.BookInput{
		Slug:        c.Param("slug"),
		ServiceID:   req.ServiceID,
		Date:        req.Date,
		Time:        req.Time,
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
	})
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	httpresp.Created(c, ap)
}
