package appointment

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/BruksfildServices01/agenda-facil/internal/audit"
	domain "github.com/BruksfildServices01/agenda-facil/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-facil/internal/models"
)

// fakeRepo is an in-memory domain.Repository. CreateAppointment enforces the
// active-slot uniqueness the database index provides.
type fakeRepo struct {
	mu sync.Mutex

	profiles     map[uint]*models.Profile
	services     map[uint]*models.Service
	hours        []models.AvailableHour
	appointments []*models.Appointment
	nextID       uint

	createErr error
	hoursErr  error
	updateErr error
}

func newFakeRepo() *fakeRepo {
	r := &fakeRepo{
		profiles: map[uint]*models.Profile{},
		services: map[uint]*models.Service{},
	}

	r.profiles[1] = &models.Profile{ID: 1, UserID: 10, Name: "Ana Souza", Slug: "ana", Timezone: "UTC"}
	r.profiles[2] = &models.Profile{ID: 2, UserID: 20, Name: "Bia", Slug: "bia", Timezone: "UTC"}

	r.services[1] = &models.Service{ID: 1, ProfileID: 1, Name: "Corte", DurationMinutes: 30, Active: true}
	r.services[2] = &models.Service{ID: 2, ProfileID: 1, Name: "Barba", DurationMinutes: 30, Active: false}
	r.services[3] = &models.Service{ID: 3, ProfileID: 2, Name: "Escova", DurationMinutes: 60, Active: true}

	// Segunda 09:00-12:00 a cada 30 minutos
	r.hours = []models.AvailableHour{
		{ID: 1, ProfileID: 1, DayOfWeek: int(time.Monday), StartTime: "09:00", EndTime: "12:00", IntervalMinutes: 30, Active: true},
	}
	return r
}

func (r *fakeRepo) GetProfileByID(_ context.Context, id uint) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeRepo) GetProfileBySlug(_ context.Context, slug string) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.profiles {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeRepo) GetService(_ context.Context, profileID, serviceID uint) (*models.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.services[serviceID]
	if !ok || s.ProfileID != profileID {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeRepo) ListAvailableHours(_ context.Context, profileID uint) ([]models.AvailableHour, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.hoursErr != nil {
		return nil, r.hoursErr
	}
	var out []models.AvailableHour
	for _, h := range r.hours {
		if h.ProfileID == profileID && h.Active {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListTakenTimes(_ context.Context, profileID uint, date string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []string
	for _, ap := range r.appointments {
		if ap.ProfileID == profileID && ap.AppointmentDate == date && domain.Status(ap.Status).BlocksSlot() {
			out = append(out, ap.AppointmentTime)
		}
	}
	return out, nil
}

func (r *fakeRepo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		return r.createErr
	}
	for _, other := range r.appointments {
		if other.ProfileID == ap.ProfileID &&
			other.AppointmentDate == ap.AppointmentDate &&
			other.AppointmentTime == ap.AppointmentTime &&
			domain.Status(other.Status).BlocksSlot() {
			return domain.ErrSlotConflict
		}
	}

	r.nextID++
	ap.ID = r.nextID
	cp := *ap
	r.appointments = append(r.appointments, &cp)
	return nil
}

func (r *fakeRepo) GetAppointmentForProfile(_ context.Context, appointmentID, profileID uint) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ap := range r.appointments {
		if ap.ID == appointmentID && ap.ProfileID == profileID {
			cp := *ap
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeRepo) UpdateAppointmentStatus(_ context.Context, ap *models.Appointment, from domain.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.updateErr != nil {
		return r.updateErr
	}
	for _, stored := range r.appointments {
		if stored.ID == ap.ID && stored.ProfileID == ap.ProfileID {
			if stored.Status != string(from) {
				return domain.ErrStaleStatus
			}
			*stored = *ap
			return nil
		}
	}
	return domain.ErrStaleStatus
}

func (r *fakeRepo) match(profileID uint, f domain.ListFilter) []models.Appointment {
	var out []models.Appointment
	for _, ap := range r.appointments {
		switch {
		case ap.ProfileID != profileID,
			f.Status != "" && ap.Status != f.Status,
			f.ExcludeCancelled && ap.Status == string(domain.StatusCancelled),
			f.Date != "" && ap.AppointmentDate != f.Date,
			f.From != "" && ap.AppointmentDate < f.From,
			f.To != "" && ap.AppointmentDate > f.To:
			continue
		}
		cp := *ap
		if s, ok := r.services[ap.ServiceID]; ok {
			cp.Service = *s
		}
		out = append(out, cp)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a := out[i].AppointmentDate + out[i].AppointmentTime
		b := out[j].AppointmentDate + out[j].AppointmentTime
		if f.Desc {
			return a > b
		}
		return a < b
	})
	return out
}

func (r *fakeRepo) ListAppointments(_ context.Context, profileID uint, f domain.ListFilter) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := r.match(profileID, f)
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *fakeRepo) CountAppointments(_ context.Context, profileID uint, f domain.ListFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return int64(len(r.match(profileID, f))), nil
}

func (r *fakeRepo) seed(ap models.Appointment) *models.Appointment {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	ap.ID = r.nextID
	r.appointments = append(r.appointments, &ap)
	return &ap
}

// --------------------------------------------------
// collaborators
// --------------------------------------------------

type recordingAuditor struct {
	mu     sync.Mutex
	events []audit.Event
}

func (a *recordingAuditor) Dispatch(ev audit.Event) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, ev)
}

func (a *recordingAuditor) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]string, 0, len(a.events))
	for _, ev := range a.events {
		out = append(out, ev.Action)
	}
	return out
}

type stubHold struct {
	ok       bool
	err      error
	released int
}

func (h *stubHold) Acquire(context.Context, uint, string, string) (bool, func(), error) {
	if h.err != nil || !h.ok {
		return h.ok, func() {}, h.err
	}
	return true, func() { h.released++ }, nil
}

var errBoom = errors.New("boom")

// sunday09 is the day before the Monday used throughout the tests.
func sunday09() time.Time {
	return time.Date(2024, 6, 9, 12, 0, 0, 0, time.UTC)
}

func modelsAppointment(profileID uint, date, clock string, st domain.Status) models.Appointment {
	return models.Appointment{
		ProfileID:       profileID,
		ServiceID:       1,
		AppointmentDate: date,
		AppointmentTime: clock,
		ClientName:      "Cliente",
		ClientPhone:     "11999990000",
		Status:          string(st),
	}
}
