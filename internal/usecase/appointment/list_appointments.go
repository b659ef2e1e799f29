package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/agenda-facil/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-facil/internal/dto"
	"github.com/BruksfildServices01/agenda-facil/internal/httperr"
	"github.com/BruksfildServices01/agenda-facil/internal/models"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
	upcomingLimit    = 10
)

type ListAppointments struct {
	repo domain.Repository
}

func NewListAppointments(repo domain.Repository) *ListAppointments {
	return &ListAppointments{repo: repo}
}

func (uc *ListAppointments) Execute(
	ctx context.Context,
	profileID uint,
	filter domain.ListFilter,
) ([]dto.AppointmentListDTO, error) {

	if filter.Status != "" {
		if _, err := domain.ParseStatus(filter.Status); err != nil {
			return nil, err
		}
	}
	for _, d := range []string{filter.Date, filter.From, filter.To} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(domain.DateLayout, d); err != nil {
			return nil, httperr.ErrBusiness(domain.CodeInvalidInput)
		}
	}

	switch {
	case filter.Limit <= 0:
		filter.Limit = DefaultListLimit
	case filter.Limit > MaxListLimit:
		filter.Limit = MaxListLimit
	}

	appointments, err := uc.repo.ListAppointments(ctx, profileID, filter)
	if err != nil {
		return nil, httperr.Wrap(domain.CodeStoreUnavailable, err)
	}

	return toListDTO(appointments), nil
}

func toListDTO(appointments []models.Appointment) []dto.AppointmentListDTO {
	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		out = append(out, dto.AppointmentListDTO{
			ID:          ap.ID,
			Date:        ap.AppointmentDate,
			Time:        ap.AppointmentTime,
			Status:      ap.Status,
			ClientName:  ap.ClientName,
			ClientPhone: ap.ClientPhone,
			ServiceID:   ap.ServiceID,
			ServiceName: ap.Service.Name,
		})
	}
	return out
}
