package availability

import (
	"appointly/models"
)

// GenerateSlots lists the hourly slots of rec's weekly template for date.
//
// Only the template is consulted: date overrides do not open or close slot
// generation, blocked dates yield no slots at all, and a disabled or missing
// weekday yields none either. Slots cover whole hours in [start, end); the
// minute part of the template times is ignored, so "09:30" to "17:00" produces
// the same slots as "09:00" to "17:00".
func GenerateSlots(rec *models.Availability, date string) ([]models.Slot, error) {
	day, err := models.ParseDate(date)
	if err != nil {
		return nil, err
	}

	slots := []models.Slot{}
	if rec.IsBlocked(date) {
		return slots, nil
	}
	entry, ok := rec.WeeklySchedule.ForWeekday(day.Weekday())
	if !ok || !entry.Enabled {
		return slots, nil
	}

	startHour, _, err := models.ParseClock(entry.Start)
	if err != nil {
		return nil, err
	}
	endHour, _, err := models.ParseClock(entry.End)
	if err != nil {
		return nil, err
	}

	for h := startHour; h < endHour; h++ {
		label := models.FormatTimeLabel(h)
		slots = append(slots, models.Slot{
			Time:      label,
			Available: !rec.IsReserved(date, label),
		})
	}
	return slots, nil
}
