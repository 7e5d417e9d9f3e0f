package notification

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"appointly/models"
	"appointly/services/tasks"
)

// AsynqNotifier enqueues booking events onto the notifications queue.
type AsynqNotifier struct {
	client *asynq.Client
	logger *zap.Logger
}

func NewAsynqNotifier(redisOpt asynq.RedisConnOpt, logger *zap.Logger) *AsynqNotifier {
	return &AsynqNotifier{
		client: asynq.NewClient(redisOpt),
		logger: logger,
	}
}

func (n *AsynqNotifier) Publish(ctx context.Context, event models.BookingEvent) error {
	task, opts, err := tasks.NewBookingEventTask(event)
	if err != nil {
		return fmt.Errorf("failed to build booking event task: %w", err)
	}
	info, err := n.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return fmt.Errorf("failed to enqueue booking event: %w", err)
	}
	n.logger.Debug("booking event enqueued",
		zap.String("taskID", info.ID),
		zap.String("bookingID", event.BookingID),
		zap.String("type", string(event.Type)))
	return nil
}

func (n *AsynqNotifier) Close() error {
	return n.client.Close()
}

// LogDeliverer records events in the log. It stands in for the email and
// push collaborators, which live outside this service.
type LogDeliverer struct {
	Logger *zap.Logger
}

func (d LogDeliverer) Deliver(_ context.Context, event models.BookingEvent) error {
	d.Logger.Info("booking event delivered",
		zap.String("type", string(event.Type)),
		zap.String("bookingID", event.BookingID),
		zap.String("customerID", event.CustomerID),
		zap.String("providerID", event.ProviderID),
		zap.String("status", string(event.Status)))
	return nil
}
