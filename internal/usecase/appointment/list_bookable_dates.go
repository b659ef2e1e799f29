package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/agenda-facil/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-facil/internal/httperr"
)

const (
	DefaultDateRange = 31
	MaxDateRange     = 62
)

type ListBookableDates struct {
	repo domain.Repository
	Now  func() time.Time
}

func NewListBookableDates(repo domain.Repository) *ListBookableDates {
	return &ListBookableDates{repo: repo, Now: time.Now}
}

// Execute returns the bookable dates in [from, from+days). An empty from
// starts at today in the provider's timezone.
func (uc *ListBookableDates) Execute(
	ctx context.Context,
	slug string,
	from string,
	days int,
) ([]string, error) {

	if days <= 0 {
		days = DefaultDateRange
	}
	if days > MaxDateRange {
		return nil, httperr.ErrBusiness(domain.CodeInvalidInput)
	}

	profile, err := loadProfile(ctx, uc.repo, 0, slug)
	if err != nil {
		return nil, err
	}

	loc := location(profile)
	today := uc.Now().In(loc)

	start := domain.Day(today)
	if from != "" {
		start, err = domain.ParseDate(from, loc)
		if err != nil {
			return nil, httperr.ErrBusiness(domain.CodeInvalidInput)
		}
	}

	windows, err := loadWindows(ctx, uc.repo, profile.ID)
	if err != nil {
		return nil, err
	}

	dates := []string{}
	for i := 0; i < days; i++ {
		d := start.AddDate(0, 0, i)
		if domain.IsDateBookable(d, today, windows) {
			dates = append(dates, d.Format(domain.DateLayout))
		}
	}
	return dates, nil
}
