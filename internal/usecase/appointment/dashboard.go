package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/agenda-facil/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-facil/internal/dto"
	"github.com/BruksfildServices01/agenda-facil/internal/httperr"
	"github.com/BruksfildServices01/agenda-facil/internal/timezone"
)

type Dashboard struct {
	repo domain.Repository
	Now  func() time.Time
}

func NewDashboard(repo domain.Repository) *Dashboard {
	return &Dashboard{repo: repo, Now: time.Now}
}

// Execute summarizes the provider's agenda: appointments today and in the
// current Sunday-started week, pending total, and the next ten non-cancelled.
func (uc *Dashboard) Execute(
	ctx context.Context,
	profileID uint,
) (*dto.DashboardDTO, error) {

	profile, err := loadProfile(ctx, uc.repo, profileID, "")
	if err != nil {
		return nil, err
	}

	today := timezone.Today(profile.Timezone, uc.Now())
	weekStart := today.AddDate(0, 0, -int(today.Weekday()))
	weekEnd := weekStart.AddDate(0, 0, 6)

	todayStr := today.Format(domain.DateLayout)

	week, err := uc.repo.ListAppointments(ctx, profile.ID, domain.ListFilter{
		From: weekStart.Format(domain.DateLayout),
		To:   weekEnd.Format(domain.DateLayout),
	})
	if err != nil {
		return nil, httperr.Wrap(domain.CodeStoreUnavailable, err)
	}

	pending, err := uc.repo.CountAppointments(ctx, profile.ID, domain.ListFilter{
		Status: string(domain.StatusPending),
	})
	if err != nil {
		return nil, httperr.Wrap(domain.CodeStoreUnavailable, err)
	}

	next, err := uc.repo.ListAppointments(ctx, profile.ID, domain.ListFilter{
		From:             todayStr,
		ExcludeCancelled: true,
		Limit:            upcomingLimit,
	})
	if err != nil {
		return nil, httperr.Wrap(domain.CodeStoreUnavailable, err)
	}

	out := &dto.DashboardDTO{
		Week:    len(week),
		Pending: pending,
	}
	for _, ap := range week {
		if ap.AppointmentDate == todayStr {
			out.Today++
		}
	}

	out.Upcoming = toListDTO(next)

	return out, nil
}
