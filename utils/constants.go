// File: utils/constants.go
package utils

// SlotCachePrefix is the prefix used for Redis slot cache keys.
const SlotCachePrefix = "slots:"

// SlotGenerationPrefix keys the per-provider counter bumped on every slot
// cache invalidation.
const SlotGenerationPrefix = "slotgen:"

// BookingEventTask is the asynq task type carrying booking lifecycle events.
const BookingEventTask = "booking:event"

// NotificationsQueue is the asynq queue booking events are enqueued on.
const NotificationsQueue = "notifications"
