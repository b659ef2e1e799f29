package appointment

import "errors"

// Business error codes surfaced by the booking engine.
const (
	CodeNotFound            = "not_found"
	CodeInvalidService      = "invalid_service"
	CodeOutsideAvailability = "outside_availability"
	CodeSlotTaken           = "slot_taken"
	CodeInvalidInput        = "invalid_input"
	CodeInvalidTransition   = "invalid_transition"
	CodeStoreUnavailable    = "store_unavailable"
)

var (
	// ErrNotFound is returned by repositories when the row does not exist
	// (or is not visible to the requesting profile).
	ErrNotFound = errors.New("record not found")

	// ErrSlotConflict is returned by CreateAppointment when the store rejects
	// a second active appointment for the same provider, date and time.
	ErrSlotConflict = errors.New("slot already booked")

	// ErrStaleStatus is returned by UpdateAppointmentStatus when the row no
	// longer holds the status the transition was computed from.
	ErrStaleStatus = errors.New("appointment status changed concurrently")
)
