package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	DateLayout      = "2006-01-02"
	ClockLayout     = "15:04"
	TimeLabelLayout = "3:04 PM"
	DisplayLayout   = "Monday, January 2, 2006"
)

// Weekday keys used by WeeklySchedule, Monday first.
var WeekdayKeys = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// DaySchedule is one weekday of a provider's recurring template.
type DaySchedule struct {
	Enabled bool   `bson:"enabled" json:"enabled"`
	Start   string `bson:"start" json:"start"` // "HH:MM"
	End     string `bson:"end" json:"end"`     // "HH:MM"
}

// WeeklySchedule maps a lowercase weekday name to its DaySchedule.
type WeeklySchedule map[string]DaySchedule

// DefaultWeeklySchedule is Monday to Friday, 09:00 to 17:00, with weekends disabled.
func DefaultWeeklySchedule() WeeklySchedule {
	ws := make(WeeklySchedule, len(WeekdayKeys))
	for _, day := range WeekdayKeys {
		ws[day] = DaySchedule{
			Enabled: day != "saturday" && day != "sunday",
			Start:   "09:00",
			End:     "17:00",
		}
	}
	return ws
}

// ForWeekday returns the entry for wd, if the template has one.
func (ws WeeklySchedule) ForWeekday(wd time.Weekday) (DaySchedule, bool) {
	day, ok := ws[WeekdayKey(wd)]
	return day, ok
}

// WeekdayKey returns the lowercase English weekday name.
func WeekdayKey(wd time.Weekday) string {
	return strings.ToLower(wd.String())
}

// IsWeekdayKey reports whether key names a weekday.
func IsWeekdayKey(key string) bool {
	for _, day := range WeekdayKeys {
		if day == key {
			return true
		}
	}
	return false
}

type BlockedDate struct {
	Date   string `bson:"date" json:"date"`
	Reason string `bson:"reason" json:"reason"`
}

// ReservedSlot is a claim on one provider/date/time. Time is a 12-hour label
// such as "9:00 AM" and is the unit of uniqueness.
type ReservedSlot struct {
	Date      string `bson:"date" json:"date"`
	Time      string `bson:"time" json:"time"`
	BookingID string `bson:"bookingId" json:"bookingId,omitempty"`
}

// Availability is the per-provider aggregate of template, exceptions and
// reserved slots. There is exactly one per provider.
type Availability struct {
	ID             string         `bson:"id" json:"id"`
	ProviderID     string         `bson:"providerId" json:"providerId"`
	WeeklySchedule WeeklySchedule `bson:"weeklySchedule" json:"weeklySchedule"`
	AvailableDates []string       `bson:"availableDates" json:"availableDates"`
	BlockedDates   []BlockedDate  `bson:"blockedDates" json:"blockedDates"`
	BookedSlots    []ReservedSlot `bson:"bookedSlots" json:"bookedSlots,omitempty"`
	Version        int            `bson:"version" json:"-"`
	CreatedAt      time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// NewDefaultAvailability builds an unsaved record with the default template.
func NewDefaultAvailability(id, providerID string, now time.Time) *Availability {
	return &Availability{
		ID:             id,
		ProviderID:     providerID,
		WeeklySchedule: DefaultWeeklySchedule(),
		AvailableDates: []string{},
		BlockedDates:   []BlockedDate{},
		BookedSlots:    []ReservedSlot{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// IsBlocked reports whether date is in BlockedDates.
func (a *Availability) IsBlocked(date string) bool {
	for _, b := range a.BlockedDates {
		if b.Date == date {
			return true
		}
	}
	return false
}

// HasAvailableOverride reports whether date is an explicit AvailableOverride.
func (a *Availability) HasAvailableOverride(date string) bool {
	for _, d := range a.AvailableDates {
		if d == date {
			return true
		}
	}
	return false
}

// IsReserved reports whether (date, time) is currently claimed.
func (a *Availability) IsReserved(date, timeLabel string) bool {
	for _, s := range a.BookedSlots {
		if s.Date == date && s.Time == timeLabel {
			return true
		}
	}
	return false
}

// IsDateBookable is the coarse yes/no used when a booking is created or
// rescheduled. Blocked dates always lose; a non-empty override list replaces
// the weekly template entirely; otherwise the weekday's enabled flag decides.
func (a *Availability) IsDateBookable(date string) (bool, error) {
	day, err := ParseDate(date)
	if err != nil {
		return false, err
	}
	if a.IsBlocked(date) {
		return false, nil
	}
	if len(a.AvailableDates) > 0 {
		return a.HasAvailableOverride(date), nil
	}
	entry, ok := a.WeeklySchedule.ForWeekday(day.Weekday())
	return ok && entry.Enabled, nil
}

// PublicView strips booking ids from the reserved slots.
func (a *Availability) PublicView() *Availability {
	view := *a
	view.BookedSlots = make([]ReservedSlot, 0, len(a.BookedSlots))
	for _, s := range a.BookedSlots {
		view.BookedSlots = append(view.BookedSlots, ReservedSlot{Date: s.Date, Time: s.Time})
	}
	return &view
}

// OwnerView omits the reserved-slot ledger.
func (a *Availability) OwnerView() *Availability {
	view := *a
	view.BookedSlots = nil
	return &view
}

// Slot is one generated hourly slot for a date.
type Slot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", date)
	}
	return t, nil
}

// ParseClock parses "HH:MM" into hour and minute.
func ParseClock(clock string) (int, int, error) {
	t, err := time.Parse(ClockLayout, clock)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q: expected HH:MM", clock)
	}
	return t.Hour(), t.Minute(), nil
}

// FormatTimeLabel renders a whole hour as a 12-hour label, e.g. 13 -> "1:00 PM".
func FormatTimeLabel(hour int) string {
	return time.Date(2000, 1, 1, hour, 0, 0, 0, time.UTC).Format(TimeLabelLayout)
}

// ValidateTimeLabel checks that label is a 12-hour label such as "9:00 AM".
func ValidateTimeLabel(label string) error {
	t, err := time.Parse(TimeLabelLayout, label)
	if err != nil || t.Format(TimeLabelLayout) != label {
		return fmt.Errorf("invalid time %q: expected a label like 9:00 AM", label)
	}
	return nil
}

// DisplayDate renders a date the way confirmations show it.
func DisplayDate(date string) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return t.Format(DisplayLayout), nil
}

// UniqueDates returns dates de-duplicated and sorted.
func UniqueDates(dates []string) []string {
	seen := make(map[string]struct{}, len(dates))
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// AvailabilityUpdate is the partial body of PUT /availability. Weekdays in
// WeeklySchedule are merged into the template; nil slices leave the stored
// list untouched.
type AvailabilityUpdate struct {
	WeeklySchedule map[string]DaySchedule `json:"weeklySchedule"`
	AvailableDates *[]string              `json:"availableDates"`
	BlockedDates   *[]BlockedDate         `json:"blockedDates"`
}
