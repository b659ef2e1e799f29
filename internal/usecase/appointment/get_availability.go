package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/agenda-facil/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-facil/internal/httperr"
)

type AvailabilityResult struct {
	Date  string   `json:"date"`
	Slots []string `json:"slots"`
}

type GetAvailability struct {
	repo domain.Repository
	Now  func() time.Time
}

func NewGetAvailability(repo domain.Repository) *GetAvailability {
	return &GetAvailability{repo: repo, Now: time.Now}
}

// Execute lists free slots for one date. Dates that are not bookable yield
// an empty list rather than an error.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	slug string,
	dateStr string,
) (*AvailabilityResult, error) {

	profile, err := loadProfile(ctx, uc.repo, 0, slug)
	if err != nil {
		return nil, err
	}

	loc := location(profile)
	date, err := domain.ParseDate(dateStr, loc)
	if err != nil {
		return nil, httperr.ErrBusiness(domain.CodeInvalidInput)
	}

	out := &AvailabilityResult{
		Date:  date.Format(domain.DateLayout),
		Slots: []string{},
	}

	windows, err := loadWindows(ctx, uc.repo, profile.ID)
	if err != nil {
		return nil, err
	}
	if !domain.IsDateBookable(date, uc.Now().In(loc), windows) {
		return out, nil
	}

	taken, err := loadTaken(ctx, uc.repo, profile.ID, out.Date)
	if err != nil {
		return nil, err
	}

	for _, c := range domain.GenerateSlots(date, windows, taken) {
		out.Slots = append(out.Slots, c.String())
	}
	return out, nil
}
