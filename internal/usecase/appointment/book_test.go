package appointment

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/agenda-facil/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-facil/internal/httperr"
)

func newBook(repo *fakeRepo, hold SlotHolder, a Auditor) *BookAppointment {
	uc := NewBookAppointment(repo, hold, a, nil, nil)
	uc.Now = sunday09
	return uc
}

func validInput() BookInput {
	return BookInput{
		Slug:        "ana",
		ServiceID:   1,
		Date:        "2024-06-10",
		Time:        "09:30",
		ClientName:  "  Carla  ",
		ClientPhone: "(11) 99999-0000",
	}
}

func TestBook_Success(t *testing.T) {
	repo := newFakeRepo()
	a := &recordingAuditor{}

	ap, err := newBook(repo, nil, a).Execute(context.Background(), validInput())
	require.NoError(t, err)

	assert.NotZero(t, ap.ID)
	assert.Equal(t, uint(1), ap.ProfileID)
	assert.Equal(t, "2024-06-10", ap.AppointmentDate)
	assert.Equal(t, "09:30", ap.AppointmentTime)
	assert.Equal(t, "Carla", ap.ClientName)
	assert.Equal(t, string(domain.StatusPending), ap.Status)
	assert.Equal(t, "Corte", ap.Service.Name)
	assert.Equal(t, []string{"appointment_created"}, a.actions())
}

func TestBook_ByProfileID(t *testing.T) {
	repo := newFakeRepo()

	in := validInput()
	in.Slug = ""
	in.ProfileID = 1

	_, err := newBook(repo, nil, nil).Execute(context.Background(), in)
	assert.NoError(t, err)
}

func TestBook_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*BookInput)
		code   string
	}{
		{"unknown provider", func(in *BookInput) { in.Slug = "ninguem" }, domain.CodeNotFound},
		{"unknown service", func(in *BookInput) { in.ServiceID = 99 }, domain.CodeInvalidService},
		{"inactive service", func(in *BookInput) { in.ServiceID = 2 }, domain.CodeInvalidService},
		{"service of another provider", func(in *BookInput) { in.ServiceID = 3 }, domain.CodeInvalidService},
		{"weekday without window", func(in *BookInput) { in.Date = "2024-06-11" }, domain.CodeOutsideAvailability},
		{"past date", func(in *BookInput) { in.Date = "2024-06-03" }, domain.CodeOutsideAvailability},
		{"off grid", func(in *BookInput) { in.Time = "09:15" }, domain.CodeOutsideAvailability},
		{"at window end", func(in *BookInput) { in.Time = "12:00" }, domain.CodeOutsideAvailability},
		{"empty name", func(in *BookInput) { in.ClientName = "   " }, domain.CodeInvalidInput},
		{"empty phone", func(in *BookInput) { in.ClientPhone = "" }, domain.CodeInvalidInput},
		{"malformed date", func(in *BookInput) { in.Date = "10/06/2024" }, domain.CodeInvalidInput},
		{"malformed time", func(in *BookInput) { in.Time = "9h" }, domain.CodeInvalidInput},
		{"time with seconds", func(in *BookInput) { in.Time = "09:30:45" }, domain.CodeInvalidInput},
		{"missing service", func(in *BookInput) { in.ServiceID = 0 }, domain.CodeInvalidService},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeRepo()
			in := validInput()
			tc.mutate(&in)

			_, err := newBook(repo, nil, nil).Execute(context.Background(), in)
			require.Error(t, err)
			assert.Equal(t, tc.code, httperr.CodeOf(err))
			assert.Empty(t, repo.appointments)
		})
	}
}

func TestBook_CheckOrder(t *testing.T) {
	t.Run("provider is checked before date format", func(t *testing.T) {
		in := validInput()
		in.Slug = "ninguem"
		in.Date = "10/06/2024"

		_, err := newBook(newFakeRepo(), nil, nil).Execute(context.Background(), in)
		assert.True(t, httperr.IsBusiness(err, domain.CodeNotFound))
	})

	t.Run("service is checked before time format", func(t *testing.T) {
		in := validInput()
		in.ServiceID = 0
		in.Time = "9h"

		_, err := newBook(newFakeRepo(), nil, nil).Execute(context.Background(), in)
		assert.True(t, httperr.IsBusiness(err, domain.CodeInvalidService))
	})

	t.Run("service is checked before availability", func(t *testing.T) {
		in := validInput()
		in.ServiceID = 2
		in.Time = "09:15"

		_, err := newBook(newFakeRepo(), nil, nil).Execute(context.Background(), in)
		assert.True(t, httperr.IsBusiness(err, domain.CodeInvalidService))
	})

	t.Run("availability is checked before client data", func(t *testing.T) {
		in := validInput()
		in.Date = "2024-06-11"
		in.ClientName = ""

		_, err := newBook(newFakeRepo(), nil, nil).Execute(context.Background(), in)
		assert.True(t, httperr.IsBusiness(err, domain.CodeOutsideAvailability))
	})

	t.Run("taken slot is checked before client data", func(t *testing.T) {
		repo := newFakeRepo()
		_, err := newBook(repo, nil, nil).Execute(context.Background(), validInput())
		require.NoError(t, err)

		in := validInput()
		in.ClientName = ""
		_, err = newBook(repo, nil, nil).Execute(context.Background(), in)
		assert.True(t, httperr.IsBusiness(err, domain.CodeSlotTaken))
	})
}

func TestBook_SlotTaken(t *testing.T) {
	repo := newFakeRepo()
	a := &recordingAuditor{}
	uc := newBook(repo, nil, a)

	_, err := uc.Execute(context.Background(), validInput())
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), validInput())
	assert.True(t, httperr.IsBusiness(err, domain.CodeSlotTaken))
	assert.Len(t, repo.appointments, 1)
}

func TestBook_CancelledFreesSlot(t *testing.T) {
	repo := newFakeRepo()
	repo.seed(modelsAppointment(1, "2024-06-10", "09:30", domain.StatusCancelled))

	_, err := newBook(repo, nil, nil).Execute(context.Background(), validInput())
	assert.NoError(t, err)
}

func TestBook_StoreConflictIsSlotTaken(t *testing.T) {
	repo := newFakeRepo()
	repo.createErr = domain.ErrSlotConflict
	a := &recordingAuditor{}

	_, err := newBook(repo, nil, a).Execute(context.Background(), validInput())
	assert.True(t, httperr.IsBusiness(err, domain.CodeSlotTaken))
	assert.Equal(t, []string{"appointment_conflict"}, a.actions())
}

func TestBook_StoreFailure(t *testing.T) {
	t.Run("on create", func(t *testing.T) {
		repo := newFakeRepo()
		repo.createErr = errBoom

		_, err := newBook(repo, nil, nil).Execute(context.Background(), validInput())
		assert.True(t, httperr.IsBusiness(err, domain.CodeStoreUnavailable))
		assert.ErrorIs(t, err, errBoom)
	})

	t.Run("on availability read", func(t *testing.T) {
		repo := newFakeRepo()
		repo.hoursErr = errBoom

		_, err := newBook(repo, nil, nil).Execute(context.Background(), validInput())
		assert.True(t, httperr.IsBusiness(err, domain.CodeStoreUnavailable))
	})
}

func TestBook_SlotHold(t *testing.T) {
	t.Run("held elsewhere", func(t *testing.T) {
		repo := newFakeRepo()
		a := &recordingAuditor{}

		_, err := newBook(repo, &stubHold{ok: false}, a).Execute(context.Background(), validInput())
		assert.True(t, httperr.IsBusiness(err, domain.CodeSlotTaken))
		assert.Empty(t, repo.appointments)
		assert.Equal(t, []string{"appointment_conflict"}, a.actions())
	})

	t.Run("acquired and released", func(t *testing.T) {
		hold := &stubHold{ok: true}

		_, err := newBook(newFakeRepo(), hold, nil).Execute(context.Background(), validInput())
		require.NoError(t, err)
		assert.Equal(t, 1, hold.released)
	})

	t.Run("hold backend down", func(t *testing.T) {
		_, err := newBook(newFakeRepo(), &stubHold{err: errBoom}, nil).Execute(context.Background(), validInput())
		assert.NoError(t, err)
	})
}

func TestBook_ConcurrentAttemptsYieldOneAppointment(t *testing.T) {
	repo := newFakeRepo()
	uc := newBook(repo, nil, nil)

	const attempts = 20

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ok      int
		taken   int
		unknown []error
	)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), validInput())

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case httperr.IsBusiness(err, domain.CodeSlotTaken):
				taken++
			default:
				unknown = append(unknown, err)
			}
		}()
	}
	wg.Wait()

	assert.Empty(t, unknown)
	assert.Equal(t, 1, ok)
	assert.Equal(t, attempts-1, taken)
	assert.Len(t, repo.appointments, 1)
}
