package appointment

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/agenda-facil/internal/audit"
	domain "github.com/BruksfildServices01/agenda-facil/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-facil/internal/httperr"
	"github.com/BruksfildServices01/agenda-facil/internal/metrics"
	"github.com/BruksfildServices01/agenda-facil/internal/models"
)

type UpdateStatus struct {
	repo    domain.Repository
	audit   Auditor
	metrics *metrics.Metrics
	log     *zap.Logger

	Now func() time.Time
}

func NewUpdateStatus(
	repo domain.Repository,
	auditor Auditor,
	m *metrics.Metrics,
	log *zap.Logger,
) *UpdateStatus {
	if log == nil {
		log = zap.NewNop()
	}
	return &UpdateStatus{
		repo:    repo,
		audit:   auditorOrNop(auditor),
		metrics: m,
		log:     log,
		Now:     time.Now,
	}
}

// Execute moves an appointment owned by profileID to the requested status.
func (uc *UpdateStatus) Execute(
	ctx context.Context,
	profileID uint,
	userID uint,
	appointmentID uint,
	to string,
) (*models.Appointment, error) {

	target, err := domain.ParseStatus(to)
	if err != nil {
		return nil, err
	}

	profile, err := loadProfile(ctx, uc.repo, profileID, "")
	if err != nil {
		return nil, err
	}

	ap, err := uc.repo.GetAppointmentForProfile(ctx, appointmentID, profile.ID)
	if err != nil {
		return nil, storeErr(err, domain.CodeNotFound)
	}

	from := domain.Status(ap.Status)
	now := uc.Now().In(location(profile))
	if err := domain.Transition(ap, target, now); err != nil {
		uc.metrics.Transition(string(target), "rejected")
		return nil, err
	}

	if err := uc.repo.UpdateAppointmentStatus(ctx, ap, from); err != nil {
		if errors.Is(err, domain.ErrStaleStatus) {
			uc.metrics.Transition(string(target), "rejected")
			return nil, httperr.ErrBusiness(domain.CodeInvalidTransition)
		}
		uc.log.Error("status update failed", zap.Uint("appointment_id", ap.ID), zap.Error(err))
		return nil, httperr.Wrap(domain.CodeStoreUnavailable, err)
	}
	uc.metrics.Transition(string(target), "ok")

	uc.audit.Dispatch(audit.Event{
		ProfileID: profile.ID,
		UserID:    &userID,
		Action:    "appointment_status_changed",
		Entity:    "appointment",
		EntityID:  &ap.ID,
		Metadata: map[string]any{
			"from": from,
			"to":   target,
		},
	})

	return ap, nil
}
