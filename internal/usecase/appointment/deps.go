package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/agenda-facil/internal/audit"
	domain "github.com/BruksfildServices01/agenda-facil/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-facil/internal/httperr"
	"github.com/BruksfildServices01/agenda-facil/internal/models"
	"github.com/BruksfildServices01/agenda-facil/internal/timezone"
)

// Auditor receives fire-and-forget audit events.
type Auditor interface {
	Dispatch(ev audit.Event)
}

// SlotHolder reserves a slot for the duration of a booking commit.
type SlotHolder interface {
	Acquire(ctx context.Context, profileID uint, date, clock string) (bool, func(), error)
}

type nopAuditor struct{}

func (nopAuditor) Dispatch(audit.Event) {}

func auditorOrNop(a Auditor) Auditor {
	if a == nil {
		return nopAuditor{}
	}
	return a
}

// storeErr maps repository failures onto business errors.
func storeErr(err error, notFoundCode string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return httperr.ErrBusiness(notFoundCode)
	}
	return httperr.Wrap(domain.CodeStoreUnavailable, err)
}

func loadProfile(
	ctx context.Context,
	repo domain.Repository,
	profileID uint,
	slug string,
) (*models.Profile, error) {

	var (
		profile *models.Profile
		err     error
	)
	if profileID != 0 {
		profile, err = repo.GetProfileByID(ctx, profileID)
	} else {
		profile, err = repo.GetProfileBySlug(ctx, slug)
	}
	if err != nil {
		return nil, storeErr(err, domain.CodeNotFound)
	}
	return profile, nil
}

func loadWindows(
	ctx context.Context,
	repo domain.Repository,
	profileID uint,
) ([]domain.Window, error) {

	hours, err := repo.ListAvailableHours(ctx, profileID)
	if err != nil {
		return nil, httperr.Wrap(domain.CodeStoreUnavailable, err)
	}
	return domain.WindowsFromModels(hours), nil
}

func loadTaken(
	ctx context.Context,
	repo domain.Repository,
	profileID uint,
	date string,
) (domain.TakenTimes, error) {

	times, err := repo.ListTakenTimes(ctx, profileID, date)
	if err != nil {
		return nil, httperr.Wrap(domain.CodeStoreUnavailable, err)
	}

	taken := make(domain.TakenTimes, len(times))
	for _, t := range times {
		if c, err := domain.ParseClock(t); err == nil {
			taken[c] = struct{}{}
		}
	}
	return taken, nil
}

func location(p *models.Profile) *time.Location {
	return timezone.Location(p.Timezone)
}
