package appointment

import (
	"fmt"
	"time"

	"github.com/BruksfildServices01/agenda-facil/internal/models"
)

// Window is a recurring weekly period during which a provider accepts bookings.
type Window struct {
	DayOfWeek time.Weekday
	Start     Clock
	End       Clock
	Interval  int // minutes
}

func (w Window) Validate() error {
	if w.DayOfWeek < time.Sunday || w.DayOfWeek > time.Saturday {
		return fmt.Errorf("day_of_week out of range: %d", w.DayOfWeek)
	}
	if w.Start >= w.End {
		return fmt.Errorf("start %s must be before end %s", w.Start, w.End)
	}
	if w.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %d", w.Interval)
	}
	return nil
}

func WindowFromModel(h models.AvailableHour) (Window, error) {
	start, err := ParseClock(h.StartTime)
	if err != nil {
		return Window{}, err
	}
	end, err := ParseClock(h.EndTime)
	if err != nil {
		return Window{}, err
	}

	w := Window{
		DayOfWeek: time.Weekday(h.DayOfWeek),
		Start:     start,
		End:       end,
		Interval:  h.IntervalMinutes,
	}
	return w, w.Validate()
}

// WindowsFromModels converts stored hours, dropping inactive or malformed rows.
// Order is preserved.
func WindowsFromModels(hours []models.AvailableHour) []Window {
	out := make([]Window, 0, len(hours))
	for _, h := range hours {
		if !h.Active {
			continue
		}
		w, err := WindowFromModel(h)
		if err != nil {
			continue
		}
		out = append(out, w)
	}
	return out
}

// TakenTimes is the set of times already occupied on a date.
type TakenTimes map[Clock]struct{}

func NewTakenTimes(times ...Clock) TakenTimes {
	t := make(TakenTimes, len(times))
	for _, c := range times {
		t[c] = struct{}{}
	}
	return t
}

func (t TakenTimes) Has(c Clock) bool {
	_, ok := t[c]
	return ok
}

// GenerateSlots lists the bookable times of date. Windows for other weekdays
// are ignored; each matching window contributes start, start+interval, ...
// while strictly before its end. Results follow window order and are not
// re-sorted across windows.
func GenerateSlots(date time.Time, windows []Window, taken TakenTimes) []Clock {
	slots := []Clock{}
	weekday := date.Weekday()

	for _, w := range windows {
		if w.DayOfWeek != weekday || w.Interval <= 0 {
			continue
		}
		for cur := w.Start; cur < w.End; cur += Clock(w.Interval) {
			if taken.Has(cur) {
				continue
			}
			slots = append(slots, cur)
		}
	}

	return slots
}

// IsDateBookable reports whether date is today or later (calendar days, in
// date's location) and has at least one window on its weekday.
func IsDateBookable(date, today time.Time, windows []Window) bool {
	if Day(date).Before(Day(today.In(date.Location()))) {
		return false
	}
	weekday := date.Weekday()
	for _, w := range windows {
		if w.DayOfWeek == weekday {
			return true
		}
	}
	return false
}

// IsOnGrid reports whether t is one of the times GenerateSlots would produce
// for date when nothing is taken.
func IsOnGrid(date time.Time, t Clock, windows []Window) bool {
	for _, c := range GenerateSlots(date, windows, nil) {
		if c == t {
			return true
		}
	}
	return false
}
