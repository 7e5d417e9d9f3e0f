package worker

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"appointly/config"
	"appointly/services/notification"
	"appointly/services/tasks"
	"appointly/utils"
)

// QueueRedisOpt is the asynq connection for the notifications queue.
func QueueRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// StartEventWorker consumes booking:event tasks in the background and hands
// each one to deliverer. The returned server must be shut down by the caller.
func StartEventWorker(deliverer notification.Deliverer, logger *zap.Logger) *asynq.Server {
	srv := asynq.NewServer(
		QueueRedisOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				utils.NotificationsQueue: 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeBookingEvent, HandleBookingEvent(deliverer, logger))

	go func() {
		logger.Info("starting booking event worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Start(mux)
			if err == nil {
				return
			}
			logger.Warn("event worker failed to start", zap.Int("attempt", attempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Error("event worker giving up after max attempts")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv
}

// HandleBookingEvent decodes a task and delivers it. Malformed payloads are
// skipped rather than retried.
func HandleBookingEvent(deliverer notification.Deliverer, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		event, err := tasks.ParseBookingEvent(task)
		if err != nil {
			logger.Warn("dropping malformed booking event", zap.Error(err))
			return asynq.SkipRetry
		}
		if err := deliverer.Deliver(ctx, event); err != nil {
			logger.Error("booking event delivery failed",
				zap.String("bookingID", event.BookingID),
				zap.String("type", string(event.Type)),
				zap.Error(err))
			return err
		}
		return nil
	}
}
