package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/agenda-facil/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-facil/internal/httperr"
	"github.com/BruksfildServices01/agenda-facil/internal/notify"
)

type ReminderLink struct {
	repo domain.Repository
}

func NewReminderLink(repo domain.Repository) *ReminderLink {
	return &ReminderLink{repo: repo}
}

// Execute builds the WhatsApp reminder link for one of the provider's appointments.
func (uc *ReminderLink) Execute(
	ctx context.Context,
	profileID uint,
	appointmentID uint,
) (string, error) {

	ap, err := uc.repo.GetAppointmentForProfile(ctx, appointmentID, profileID)
	if err != nil {
		return "", storeErr(err, domain.CodeNotFound)
	}

	date, err := domain.ParseDate(ap.AppointmentDate, time.UTC)
	if err != nil {
		return "", httperr.Wrap(domain.CodeStoreUnavailable, err)
	}

	link, err := notify.ReminderLink(ap.ClientPhone, ap.ClientName, date, ap.AppointmentTime)
	if err != nil {
		return "", httperr.Wrap(domain.CodeInvalidInput, err)
	}
	return link, nil
}
