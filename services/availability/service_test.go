package availability

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	availabilityRepo "appointly/database/repository/availability"
	"appointly/database/repository/memory"
	"appointly/models"
	"appointly/utils"
)

func newService(t *testing.T) (*DefaultAvailabilityService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	return NewDefaultAvailabilityService(store.Availability(), nil, zap.NewNop()), store
}

func newCachedService(t *testing.T) (*DefaultAvailabilityService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	store := memory.NewStore()
	cache := NewRedisSlotCache(client, time.Minute, zap.NewNop())
	return NewDefaultAvailabilityService(store.Availability(), cache, zap.NewNop()), mr
}

func availableTimes(slots []models.Slot) []string {
	var out []string
	for _, s := range slots {
		if s.Available {
			out = append(out, s.Time)
		}
	}
	return out
}

func TestGetMyAvailabilityCreatesDefaultOnce(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	first, err := svc.GetMyAvailability(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, first.WeeklySchedule["monday"].Enabled)
	assert.False(t, first.WeeklySchedule["sunday"].Enabled)

	second, err := svc.GetMyAvailability(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	_, err = store.Availability().GetByProvider(ctx, "p1")
	assert.NoError(t, err)
}

func TestGetPublicAvailabilityDoesNotPersistDefault(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	rec, err := svc.GetPublicAvailability(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, rec.WeeklySchedule["friday"].Enabled)

	_, err = store.Availability().GetByProvider(ctx, "p1")
	assert.Error(t, err)
}

func TestSlotsWithoutRecord(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	slots, err := svc.GetSlots(ctx, "p1", "2025-03-16") // Sunday
	require.NoError(t, err)
	assert.Empty(t, slots)

	slots, err = svc.GetSlots(ctx, "p1", "2025-03-10")
	require.NoError(t, err)
	assert.Len(t, slots, 8)
}

func TestClaimThenReleaseFlipsAvailability(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.ClaimSlot(ctx, "p1", "2025-03-10", "10:00 AM", "b1"))

	slots, err := svc.GetSlots(ctx, "p1", "2025-03-10")
	require.NoError(t, err)
	require.Len(t, slots, 8)
	assert.NotContains(t, availableTimes(slots), "10:00 AM")
	assert.Len(t, availableTimes(slots), 7)

	require.NoError(t, svc.ReleaseSlot(ctx, "p1", "2025-03-10", "10:00 AM", ""))
	slots, err = svc.GetSlots(ctx, "p1", "2025-03-10")
	require.NoError(t, err)
	assert.Len(t, availableTimes(slots), 8)

	// Releasing again is a no-op.
	assert.NoError(t, svc.ReleaseSlot(ctx, "p1", "2025-03-10", "10:00 AM", ""))
}

func TestClaimSlotTwiceConflicts(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.ClaimSlot(ctx, "p1", "2025-03-10", "9:00 AM", "b1"))
	err := svc.ClaimSlot(ctx, "p1", "2025-03-10", "9:00 AM", "b2")
	require.Error(t, err)
	assert.Equal(t, utils.KindConflict, utils.KindOf(err))
}

func TestConcurrentClaimsExactlyOneWins(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	const n = 32

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			err := svc.ClaimSlot(ctx, "p1", "2025-03-10", "2:00 PM", fmt.Sprintf("b%d", i))
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else if utils.KindOf(err) == utils.KindConflict {
				conflicts++
			}
		}(i)
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, conflicts)

	rec, err := store.Availability().GetByProvider(ctx, "p1")
	require.NoError(t, err)
	matching := 0
	for _, s := range rec.BookedSlots {
		if s.Date == "2025-03-10" && s.Time == "2:00 PM" {
			matching++
		}
	}
	assert.Equal(t, 1, matching)
}

func TestClaimSlotValidation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	cases := []struct{ provider, date, time, booking string }{
		{"", "2025-03-10", "9:00 AM", "b1"},
		{"p1", "2025/03/10", "9:00 AM", "b1"},
		{"p1", "2025-03-10", "09:00", "b1"},
		{"p1", "2025-03-10", "9:00 AM", ""},
	}
	for _, tc := range cases {
		err := svc.ClaimSlot(ctx, tc.provider, tc.date, tc.time, tc.booking)
		assert.Equal(t, utils.KindValidation, utils.KindOf(err), "%+v", tc)
	}
}

func TestUpdateAvailabilityMerges(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	available := []string{"2025-03-20", "2025-03-18", "2025-03-20"}
	blocked := []models.BlockedDate{{Date: "2025-03-11", Reason: "a"}, {Date: "2025-03-11", Reason: "b"}}
	rec, err := svc.UpdateAvailability(ctx, "p1", models.AvailabilityUpdate{
		WeeklySchedule: map[string]models.DaySchedule{
			"saturday": {Enabled: true, Start: "10:00", End: "14:00"},
		},
		AvailableDates: &available,
		BlockedDates:   &blocked,
	})
	require.NoError(t, err)

	assert.Equal(t, models.DaySchedule{Enabled: true, Start: "10:00", End: "14:00"}, rec.WeeklySchedule["saturday"])
	assert.True(t, rec.WeeklySchedule["monday"].Enabled, "untouched weekdays keep their entry")
	assert.Equal(t, []string{"2025-03-18", "2025-03-20"}, rec.AvailableDates)
	require.Len(t, rec.BlockedDates, 1)
	assert.Equal(t, "b", rec.BlockedDates[0].Reason)

	// Omitted lists are left alone.
	rec, err = svc.UpdateAvailability(ctx, "p1", models.AvailabilityUpdate{
		WeeklySchedule: map[string]models.DaySchedule{"monday": {Enabled: false}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03-18", "2025-03-20"}, rec.AvailableDates)
	assert.False(t, rec.WeeklySchedule["monday"].Enabled)
	assert.Equal(t, "09:00", rec.WeeklySchedule["monday"].Start)
}

func TestUpdateAvailabilityValidation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	bad := []string{"March 3"}

	cases := []models.AvailabilityUpdate{
		{WeeklySchedule: map[string]models.DaySchedule{"funday": {Enabled: true, Start: "09:00", End: "17:00"}}},
		{WeeklySchedule: map[string]models.DaySchedule{"monday": {Enabled: true, Start: "17:00", End: "09:00"}}},
		{WeeklySchedule: map[string]models.DaySchedule{"monday": {Enabled: true, Start: "9am", End: "17:00"}}},
		{AvailableDates: &bad},
	}
	for i, req := range cases {
		_, err := svc.UpdateAvailability(ctx, "p1", req)
		assert.Equal(t, utils.KindValidation, utils.KindOf(err), "case %d", i)
	}
}

func TestBlockedDateViaUpdateEmptiesSlots(t *testing.T) {
	svc, _ := newCachedService(t)
	ctx := context.Background()

	slots, err := svc.GetSlots(ctx, "p1", "2025-03-10")
	require.NoError(t, err)
	require.Len(t, slots, 8)

	blocked := []models.BlockedDate{{Date: "2025-03-10", Reason: "off"}}
	_, err = svc.UpdateAvailability(ctx, "p1", models.AvailabilityUpdate{BlockedDates: &blocked})
	require.NoError(t, err)

	slots, err = svc.GetSlots(ctx, "p1", "2025-03-10")
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestRedisCacheInvalidatedOnClaim(t *testing.T) {
	svc, mr := newCachedService(t)
	ctx := context.Background()

	_, err := svc.GetSlots(ctx, "p1", "2025-03-10")
	require.NoError(t, err)
	assert.True(t, mr.Exists(utils.SlotCacheKey("p1")))
	assert.NotEmpty(t, mr.HGet(utils.SlotCacheKey("p1"), "2025-03-10"))

	require.NoError(t, svc.ClaimSlot(ctx, "p1", "2025-03-10", "10:00 AM", "b1"))
	assert.Empty(t, mr.HGet(utils.SlotCacheKey("p1"), "2025-03-10"))

	slots, err := svc.GetSlots(ctx, "p1", "2025-03-10")
	require.NoError(t, err)
	assert.NotContains(t, availableTimes(slots), "10:00 AM")
}

func TestRedisCacheFailureFallsBack(t *testing.T) {
	svc, mr := newCachedService(t)
	ctx := context.Background()
	mr.Close()

	slots, err := svc.GetSlots(ctx, "p1", "2025-03-10")
	require.NoError(t, err)
	assert.Len(t, slots, 8)
}

// claimAfterRead lets a writer commit between the reader's record load and
// its cache write.
type claimAfterRead struct {
	availabilityRepo.AvailabilityRepository
	once  sync.Once
	claim func()
}

func (r *claimAfterRead) GetByProvider(ctx context.Context, providerID string) (*models.Availability, error) {
	rec, err := r.AvailabilityRepository.GetByProvider(ctx, providerID)
	r.once.Do(r.claim)
	return rec, err
}

func TestRedisCacheDropsListComputedBeforeClaim(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	ctx := context.Background()

	store := memory.NewStore()
	cache := NewRedisSlotCache(client, time.Minute, zap.NewNop())
	writer := NewDefaultAvailabilityService(store.Availability(), cache, zap.NewNop())
	repo := &claimAfterRead{
		AvailabilityRepository: store.Availability(),
		claim: func() {
			require.NoError(t, writer.ClaimSlot(ctx, "p1", "2025-03-10", "10:00 AM", "b1"))
		},
	}
	reader := NewDefaultAvailabilityService(repo, cache, zap.NewNop())

	slots, err := reader.GetSlots(ctx, "p1", "2025-03-10")
	require.NoError(t, err)
	assert.Contains(t, availableTimes(slots), "10:00 AM")
	assert.Empty(t, mr.HGet(utils.SlotCacheKey("p1"), "2025-03-10"))

	slots, err = reader.GetSlots(ctx, "p1", "2025-03-10")
	require.NoError(t, err)
	assert.NotContains(t, availableTimes(slots), "10:00 AM")
	assert.NotEmpty(t, mr.HGet(utils.SlotCacheKey("p1"), "2025-03-10"))
}

func TestRedisCacheSetRequiresCurrentGeneration(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	ctx := context.Background()
	cache := NewRedisSlotCache(client, time.Minute, zap.NewNop())
	slots := []models.Slot{{Time: "9:00 AM", Available: true}}

	gen, ok := cache.Generation(ctx, "p1")
	require.True(t, ok)
	assert.Equal(t, int64(0), gen)

	cache.Invalidate(ctx, "p1", "2025-03-10")
	cache.Set(ctx, "p1", "2025-03-10", gen, slots)
	_, hit := cache.Get(ctx, "p1", "2025-03-10")
	assert.False(t, hit)

	gen, ok = cache.Generation(ctx, "p1")
	require.True(t, ok)
	assert.Equal(t, int64(1), gen)
	cache.Set(ctx, "p1", "2025-03-10", gen, slots)
	got, hit := cache.Get(ctx, "p1", "2025-03-10")
	require.True(t, hit)
	assert.Equal(t, slots, got)
}
