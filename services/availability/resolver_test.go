package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appointly/models"
)

func mondayTemplate() *models.Availability {
	return models.NewDefaultAvailability("a1", "p1", time.Now())
}

func TestGenerateSlotsMondayTemplate(t *testing.T) {
	slots, err := GenerateSlots(mondayTemplate(), "2025-03-10")
	require.NoError(t, err)

	want := []string{"9:00 AM", "10:00 AM", "11:00 AM", "12:00 PM", "1:00 PM", "2:00 PM", "3:00 PM", "4:00 PM"}
	require.Len(t, slots, len(want))
	for i, s := range slots {
		assert.Equal(t, want[i], s.Time)
		assert.True(t, s.Available)
	}
}

func TestGenerateSlotsMarksReserved(t *testing.T) {
	rec := mondayTemplate()
	rec.BookedSlots = []models.ReservedSlot{{Date: "2025-03-10", Time: "10:00 AM", BookingID: "b1"}}

	slots, err := GenerateSlots(rec, "2025-03-10")
	require.NoError(t, err)
	require.Len(t, slots, 8)
	for _, s := range slots {
		assert.Equal(t, s.Time != "10:00 AM", s.Available, s.Time)
	}
}

func TestGenerateSlotsBlockedDateIsEmpty(t *testing.T) {
	rec := mondayTemplate()
	rec.BlockedDates = []models.BlockedDate{{Date: "2025-03-10", Reason: "training"}}
	rec.AvailableDates = []string{"2025-03-10"}

	slots, err := GenerateSlots(rec, "2025-03-10")
	require.NoError(t, err)
	assert.Empty(t, slots)
	assert.NotNil(t, slots)
}

func TestGenerateSlotsDisabledOrMissingDay(t *testing.T) {
	rec := mondayTemplate()

	slots, err := GenerateSlots(rec, "2025-03-15") // Saturday
	require.NoError(t, err)
	assert.Empty(t, slots)

	delete(rec.WeeklySchedule, "monday")
	slots, err = GenerateSlots(rec, "2025-03-10")
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGenerateSlotsIgnoresOverridesAndMinutes(t *testing.T) {
	rec := mondayTemplate()
	// Overrides do not drive generation: a Monday outside the list still has slots.
	rec.AvailableDates = []string{"2025-03-12"}
	rec.WeeklySchedule["monday"] = models.DaySchedule{Enabled: true, Start: "09:30", End: "11:45"}

	slots, err := GenerateSlots(rec, "2025-03-10")
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "9:00 AM", slots[0].Time)
	assert.Equal(t, "10:00 AM", slots[1].Time)
}

func TestGenerateSlotsBadDate(t *testing.T) {
	_, err := GenerateSlots(mondayTemplate(), "2025-13-01")
	assert.Error(t, err)
}
