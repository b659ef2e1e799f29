package appointment

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/agenda-facil/internal/audit"
	domain "github.com/BruksfildServices01/agenda-facil/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-facil/internal/httperr"
	"github.com/BruksfildServices01/agenda-facil/internal/metrics"
	"github.com/BruksfildServices01/agenda-facil/internal/models"
)

// ======================================================
// INPUT
// ======================================================

// BookInput identifies the provider by ProfileID or, when zero, by Slug.
type BookInput struct {
	ProfileID uint
	Slug      string

	ServiceID uint

	Date string // YYYY-MM-DD
	Time string // HH:MM

	ClientName  string
	ClientPhone string
}

// ======================================================
// USE CASE
// ======================================================

type BookAppointment struct {
	repo    domain.Repository
	hold    SlotHolder
	audit   Auditor
	metrics *metrics.Metrics
	log     *zap.Logger

	Now func() time.Time
}

// NewBookAppointment wires the committer. hold and m may be nil.
func NewBookAppointment(
	repo domain.Repository,
	hold SlotHolder,
	auditor Auditor,
	m *metrics.Metrics,
	log *zap.Logger,
) *BookAppointment {
	if log == nil {
		log = zap.NewNop()
	}
	return &BookAppointment{
		repo:    repo,
		hold:    hold,
		audit:   auditorOrNop(auditor),
		metrics: m,
		log:     log,
		Now:     time.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *BookAppointment) Execute(
	ctx context.Context,
	in BookInput,
) (*models.Appointment, error) {

	ap, err := uc.execute(ctx, in)
	if err != nil {
		code := httperr.CodeOf(err)
		uc.metrics.Booking(code)
		if code == domain.CodeStoreUnavailable {
			uc.log.Error("booking failed", zap.String("slug", in.Slug), zap.Error(err))
		} else {
			uc.log.Warn("booking rejected",
				zap.String("slug", in.Slug),
				zap.Uint("profile_id", in.ProfileID),
				zap.String("date", in.Date),
				zap.String("time", in.Time),
				zap.String("code", code),
			)
		}
		return nil, err
	}

	uc.metrics.Booking("created")
	return ap, nil
}

func (uc *BookAppointment) execute(
	ctx context.Context,
	in BookInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// 1. Profissional
	// --------------------------------------------------
	profile, err := loadProfile(ctx, uc.repo, in.ProfileID, in.Slug)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2. Serviço (do profissional e ativo)
	// --------------------------------------------------
	service, err := uc.repo.GetService(ctx, profile.ID, in.ServiceID)
	if err != nil {
		return nil, storeErr(err, domain.CodeInvalidService)
	}
	if !service.Active {
		return nil, httperr.ErrBusiness(domain.CodeInvalidService)
	}

	// --------------------------------------------------
	// 3. Disponibilidade, recalculada no servidor
	// --------------------------------------------------
	loc := location(profile)

	date, err := domain.ParseDate(in.Date, loc)
	if err != nil {
		return nil, httperr.ErrBusiness(domain.CodeInvalidInput)
	}
	clock, err := domain.ParseClock(in.Time)
	if err != nil {
		return nil, httperr.ErrBusiness(domain.CodeInvalidInput)
	}

	windows, err := loadWindows(ctx, uc.repo, profile.ID)
	if err != nil {
		return nil, err
	}

	today := uc.Now().In(loc)
	if !domain.IsDateBookable(date, today, windows) || !domain.IsOnGrid(date, clock, windows) {
		return nil, httperr.ErrBusiness(domain.CodeOutsideAvailability)
	}

	dateStr := date.Format(domain.DateLayout)
	timeStr := clock.String()

	// --------------------------------------------------
	// 4. Horário ocupado
	// --------------------------------------------------
	taken, err := loadTaken(ctx, uc.repo, profile.ID, dateStr)
	if err != nil {
		return nil, err
	}
	if taken.Has(clock) {
		return nil, httperr.ErrBusiness(domain.CodeSlotTaken)
	}

	// --------------------------------------------------
	// 5. Dados do cliente
	// --------------------------------------------------
	name := strings.TrimSpace(in.ClientName)
	phone := strings.TrimSpace(in.ClientPhone)
	if name == "" || phone == "" {
		return nil, httperr.ErrBusiness(domain.CodeInvalidInput)
	}

	// --------------------------------------------------
	// 6. Reserva temporária do horário (Redis, opcional)
	// --------------------------------------------------
	if uc.hold != nil {
		ok, release, err := uc.hold.Acquire(ctx, profile.ID, dateStr, timeStr)
		switch {
		case err != nil:
			// o índice único no banco continua garantindo exclusividade
			uc.log.Warn("slot hold unavailable", zap.Error(err))
		case !ok:
			uc.audit.Dispatch(conflictEvent(profile.ID, dateStr, timeStr))
			return nil, httperr.ErrBusiness(domain.CodeSlotTaken)
		default:
			defer release()
		}
	}

	// --------------------------------------------------
	// 7. Criação (status inicial centralizado)
	// --------------------------------------------------
	ap := &models.Appointment{
		ProfileID:       profile.ID,
		ServiceID:       service.ID,
		AppointmentDate: dateStr,
		AppointmentTime: timeStr,
		ClientName:      name,
		ClientPhone:     phone,
		Status:          string(domain.InitialStatus()),
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		if errors.Is(err, domain.ErrSlotConflict) {
			uc.audit.Dispatch(conflictEvent(profile.ID, dateStr, timeStr))
			return nil, httperr.ErrBusiness(domain.CodeSlotTaken)
		}
		return nil, httperr.Wrap(domain.CodeStoreUnavailable, err)
	}
	ap.Service = *service

	// --------------------------------------------------
	// 8. Auditoria
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		ProfileID: profile.ID,
		Action:    "appointment_created",
		Entity:    "appointment",
		EntityID:  &ap.ID,
		Metadata: map[string]any{
			"date":       dateStr,
			"time":       timeStr,
			"service_id": service.ID,
		},
	})

	return ap, nil
}

func conflictEvent(profileID uint, date, clock string) audit.Event {
	return audit.Event{
		ProfileID: profileID,
		Action:    "appointment_conflict",
		Entity:    "appointment",
		Metadata: map[string]any{
			"date": date,
			"time": clock,
		},
	}
}
