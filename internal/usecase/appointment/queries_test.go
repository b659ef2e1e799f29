package appointment

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/agenda-facil/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-facil/internal/httperr"
)

// ======================================================
// Disponibilidade
// ======================================================

func TestGetAvailability(t *testing.T) {
	repo := newFakeRepo()
	repo.seed(modelsAppointment(1, "2024-06-10", "10:00", domain.StatusConfirmed))
	repo.seed(modelsAppointment(1, "2024-06-10", "10:30", domain.StatusCancelled))

	uc := NewGetAvailability(repo)
	uc.Now = sunday09

	res, err := uc.Execute(context.Background(), "ana", "2024-06-10")
	require.NoError(t, err)

	assert.Equal(t, "2024-06-10", res.Date)
	assert.Equal(t, []string{"09:00", "09:30", "10:30", "11:00", "11:30"}, res.Slots)
}

func TestGetAvailability_NotBookable(t *testing.T) {
	uc := NewGetAvailability(newFakeRepo())
	uc.Now = sunday09

	for _, date := range []string{"2024-06-11", "2024-06-03"} {
		res, err := uc.Execute(context.Background(), "ana", date)
		require.NoError(t, err)
		assert.NotNil(t, res.Slots)
		assert.Empty(t, res.Slots)
	}
}

func TestGetAvailability_Errors(t *testing.T) {
	uc := NewGetAvailability(newFakeRepo())
	uc.Now = sunday09

	_, err := uc.Execute(context.Background(), "ninguem", "2024-06-10")
	assert.True(t, httperr.IsBusiness(err, domain.CodeNotFound))

	_, err = uc.Execute(context.Background(), "ana", "amanha")
	assert.True(t, httperr.IsBusiness(err, domain.CodeInvalidInput))
}

func TestListBookableDates(t *testing.T) {
	uc := NewListBookableDates(newFakeRepo())
	uc.Now = sunday09

	dates, err := uc.Execute(context.Background(), "ana", "", 15)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-06-10", "2024-06-17"}, dates)

	dates, err = uc.Execute(context.Background(), "ana", "2024-06-01", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-06-10"}, dates, "past Mondays are skipped")

	_, err = uc.Execute(context.Background(), "ana", "", MaxDateRange+1)
	assert.True(t, httperr.IsBusiness(err, domain.CodeInvalidInput))
}

// ======================================================
// Status
// ======================================================

func TestUpdateStatus(t *testing.T) {
	repo := newFakeRepo()
	ap := repo.seed(modelsAppointment(1, "2024-06-10", "09:00", domain.StatusPending))
	a := &recordingAuditor{}

	uc := NewUpdateStatus(repo, a, nil, nil)
	uc.Now = sunday09

	got, err := uc.Execute(context.Background(), 1, 10, ap.ID, "confirmed")
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), got.Status)
	require.NotNil(t, got.ConfirmedAt)
	assert.Equal(t, []string{"appointment_status_changed"}, a.actions())

	got, err = uc.Execute(context.Background(), 1, 10, ap.ID, "completed")
	require.NoError(t, err)
	assert.NotNil(t, got.CompletedAt)

	_, err = uc.Execute(context.Background(), 1, 10, ap.ID, "cancelled")
	assert.True(t, httperr.IsBusiness(err, domain.CodeInvalidTransition))
}

func TestUpdateStatus_Rejections(t *testing.T) {
	repo := newFakeRepo()
	ap := repo.seed(modelsAppointment(1, "2024-06-10", "09:00", domain.StatusConfirmed))
	uc := NewUpdateStatus(repo, nil, nil, nil)

	_, err := uc.Execute(context.Background(), 1, 10, ap.ID, "cancelled")
	assert.True(t, httperr.IsBusiness(err, domain.CodeInvalidTransition))

	_, err = uc.Execute(context.Background(), 1, 10, ap.ID, "arquivado")
	assert.True(t, httperr.IsBusiness(err, domain.CodeInvalidInput))

	_, err = uc.Execute(context.Background(), 2, 20, ap.ID, "completed")
	assert.True(t, httperr.IsBusiness(err, domain.CodeNotFound))

	repo.updateErr = domain.ErrStaleStatus
	_, err = uc.Execute(context.Background(), 1, 10, ap.ID, "completed")
	assert.True(t, httperr.IsBusiness(err, domain.CodeInvalidTransition))

	repo.updateErr = errBoom
	_, err = uc.Execute(context.Background(), 1, 10, ap.ID, "completed")
	assert.True(t, httperr.IsBusiness(err, domain.CodeStoreUnavailable))
}

// ======================================================
// Listagem e painel
// ======================================================

func TestListAppointments(t *testing.T) {
	repo := newFakeRepo()
	repo.seed(modelsAppointment(1, "2024-06-17", "09:00", domain.StatusPending))
	repo.seed(modelsAppointment(1, "2024-06-10", "09:00", domain.StatusConfirmed))
	repo.seed(modelsAppointment(1, "2024-06-10", "10:00", domain.StatusPending))
	repo.seed(modelsAppointment(2, "2024-06-10", "10:00", domain.StatusPending))

	uc := NewListAppointments(repo)

	all, err := uc.Execute(context.Background(), 1, domain.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "2024-06-10", all[0].Date)
	assert.Equal(t, "09:00", all[0].Time)
	assert.Equal(t, "Corte", all[0].ServiceName)

	pending, err := uc.Execute(context.Background(), 1, domain.ListFilter{Status: "pending", Desc: true})
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "2024-06-17", pending[0].Date)

	_, err = uc.Execute(context.Background(), 1, domain.ListFilter{Status: "x"})
	assert.True(t, httperr.IsBusiness(err, domain.CodeInvalidInput))

	_, err = uc.Execute(context.Background(), 1, domain.ListFilter{From: "junho"})
	assert.True(t, httperr.IsBusiness(err, domain.CodeInvalidInput))
}

func TestDashboard(t *testing.T) {
	repo := newFakeRepo()
	// semana de 09/06 (domingo) a 15/06
	repo.seed(modelsAppointment(1, "2024-06-09", "09:00", domain.StatusConfirmed))
	repo.seed(modelsAppointment(1, "2024-06-09", "10:00", domain.StatusCancelled))
	repo.seed(modelsAppointment(1, "2024-06-10", "09:00", domain.StatusPending))
	repo.seed(modelsAppointment(1, "2024-06-20", "09:00", domain.StatusPending))
	repo.seed(modelsAppointment(1, "2024-06-01", "09:00", domain.StatusPending))

	uc := NewDashboard(repo)
	uc.Now = sunday09

	d, err := uc.Execute(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 2, d.Today)
	assert.Equal(t, 3, d.Week)
	assert.Equal(t, int64(3), d.Pending)

	require.Len(t, d.Upcoming, 3)
	assert.Equal(t, "2024-06-09", d.Upcoming[0].Date)
	assert.Equal(t, "2024-06-20", d.Upcoming[2].Date)
}

func TestReminderLink(t *testing.T) {
	repo := newFakeRepo()
	ap := repo.seed(modelsAppointment(1, "2024-06-10", "09:30", domain.StatusConfirmed))

	link, err := NewReminderLink(repo).Execute(context.Background(), 1, ap.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, "https://wa.me/5511999990000?text="))
	assert.Contains(t, link, "10%2F06")

	_, err = NewReminderLink(repo).Execute(context.Background(), 2, ap.ID)
	assert.True(t, httperr.IsBusiness(err, domain.CodeNotFound))
}
