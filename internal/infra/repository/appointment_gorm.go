package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/agenda-facil/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-facil/internal/models"
)

const uniqueViolation = "23505"

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// --------------------------------------------------
// Directory
// --------------------------------------------------

func (r *AppointmentGormRepository) GetProfileByID(
	ctx context.Context,
	id uint,
) (*models.Profile, error) {

	var p models.Profile
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *AppointmentGormRepository) GetProfileBySlug(
	ctx context.Context,
	slug string,
) (*models.Profile, error) {

	var p models.Profile
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// --------------------------------------------------
// Catalog
// --------------------------------------------------

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	profileID uint,
	serviceID uint,
) (*models.Service, error) {

	var s models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND profile_id = ?", serviceID, profileID).
		First(&s).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

// ListAvailableHours returns active windows in creation order.
func (r *AppointmentGormRepository) ListAvailableHours(
	ctx context.Context,
	profileID uint,
) ([]models.AvailableHour, error) {

	var hours []models.AvailableHour
	if err := r.db.WithContext(ctx).
		Where("profile_id = ? AND active = ?", profileID, true).
		Order("id ASC").
		Find(&hours).Error; err != nil {
		return nil, err
	}
	return hours, nil
}

func (r *AppointmentGormRepository) ListTakenTimes(
	ctx context.Context,
	profileID uint,
	date string,
) ([]string, error) {

	var times []string
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"profile_id = ? AND appointment_date = ? AND status IN ?",
			profileID, date, domain.ActiveStatuses(),
		).
		Pluck("appointment_time", &times).Error; err != nil {
		return nil, err
	}
	return times, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

// CreateAppointment relies on ux_appointments_active_slot to reject a second
// active booking for the same slot.
func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	err := r.db.WithContext(ctx).
		Omit("Profile", "Service").
		Create(ap).Error
	if err != nil && isUniqueViolation(err) {
		return domain.ErrSlotConflict
	}
	return err
}

func (r *AppointmentGormRepository) GetAppointmentForProfile(
	ctx context.Context,
	appointmentID uint,
	profileID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Service").
		Where("id = ? AND profile_id = ?", appointmentID, profileID).
		First(&ap).Error; err != nil {
		return nil, translate(err)
	}
	return &ap, nil
}

// UpdateAppointmentStatus writes the new status only if the row still holds
// from, so two concurrent transitions cannot both win.
func (r *AppointmentGormRepository) UpdateAppointmentStatus(
	ctx context.Context,
	ap *models.Appointment,
	from domain.Status,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND profile_id = ? AND status = ?", ap.ID, ap.ProfileID, string(from)).
		Updates(map[string]any{
			"status":       ap.Status,
			"confirmed_at": ap.ConfirmedAt,
			"cancelled_at": ap.CancelledAt,
			"completed_at": ap.CompletedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrStaleStatus
	}
	return nil
}

func (r *AppointmentGormRepository) filtered(
	ctx context.Context,
	profileID uint,
	f domain.ListFilter,
) *gorm.DB {

	q := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("profile_id = ?", profileID)

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.ExcludeCancelled {
		q = q.Where("status <> ?", string(domain.StatusCancelled))
	}
	if f.Date != "" {
		q = q.Where("appointment_date = ?", f.Date)
	}
	if f.From != "" {
		q = q.Where("appointment_date >= ?", f.From)
	}
	if f.To != "" {
		q = q.Where("appointment_date <= ?", f.To)
	}
	return q
}

func (r *AppointmentGormRepository) ListAppointments(
	ctx context.Context,
	profileID uint,
	f domain.ListFilter,
) ([]models.Appointment, error) {

	order := "appointment_date ASC, appointment_time ASC"
	if f.Desc {
		order = "appointment_date DESC, appointment_time DESC"
	}

	q := r.filtered(ctx, profileID, f).
		Preload("Service").
		Order(order)
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var apps []models.Appointment
	if err := q.Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) CountAppointments(
	ctx context.Context,
	profileID uint,
	f domain.ListFilter,
) (int64, error) {

	var n int64
	if err := r.filtered(ctx, profileID, f).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
