package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"appointly/models"
	"appointly/utils"
)

const TypeBookingEvent = utils.BookingEventTask

// NewBookingEventTask wraps a lifecycle event for the notifications queue.
func NewBookingEventTask(event models.BookingEvent) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(event)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeBookingEvent, b)
	opts := []asynq.Option{
		asynq.Queue(utils.NotificationsQueue),
		asynq.MaxRetry(5),
		asynq.TaskID(fmt.Sprintf("%s:%s:%d", event.BookingID, event.Type, event.OccurredAt.UnixNano())),
	}
	return task, opts, nil
}

// ParseBookingEvent decodes the payload of a booking:event task.
func ParseBookingEvent(task *asynq.Task) (models.BookingEvent, error) {
	var event models.BookingEvent
	if err := json.Unmarshal(task.Payload(), &event); err != nil {
		return models.BookingEvent{}, fmt.Errorf("invalid booking event payload: %w", err)
	}
	return event, nil
}
