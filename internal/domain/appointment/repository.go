package appointment

import (
	"context"

	"github.com/BruksfildServices01/agenda-facil/internal/models"
)

// ListFilter narrows a provider's appointment listing. Dates are YYYY-MM-DD.
type ListFilter struct {
	Status string
	Date   string
	From   string
	To     string

	ExcludeCancelled bool

	Desc  bool
	Limit int
}

type Repository interface {
	// -------- Directory --------
	GetProfileByID(
		ctx context.Context,
		id uint,
	) (*models.Profile, error)

	GetProfileBySlug(
		ctx context.Context,
		slug string,
	) (*models.Profile, error)

	// -------- Catalog --------
	GetService(
		ctx context.Context,
		profileID uint,
		serviceID uint,
	) (*models.Service, error)

	// -------- Availability --------
	ListAvailableHours(
		ctx context.Context,
		profileID uint,
	) ([]models.AvailableHour, error)

	ListTakenTimes(
		ctx context.Context,
		profileID uint,
		date string,
	) ([]string, error)

	// -------- Appointment (create) --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Appointment (state change) --------
	GetAppointmentForProfile(
		ctx context.Context,
		appointmentID uint,
		profileID uint,
	) (*models.Appointment, error)

	UpdateAppointmentStatus(
		ctx context.Context,
		ap *models.Appointment,
		from Status,
	) error

	// -------- Appointment (listing) --------
	ListAppointments(
		ctx context.Context,
		profileID uint,
		filter ListFilter,
	) ([]models.Appointment, error)

	CountAppointments(
		ctx context.Context,
		profileID uint,
		filter ListFilter,
	) (int64, error)
}
