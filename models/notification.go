package models

import "time"

type BookingEventType string

const (
	EventBookingCreated     BookingEventType = "created"
	EventBookingAccepted    BookingEventType = "accepted"
	EventBookingDeclined    BookingEventType = "declined"
	EventBookingCancelled   BookingEventType = "cancelled"
	EventBookingRescheduled BookingEventType = "rescheduled"
	EventBookingCompleted   BookingEventType = "completed"
	EventStatusOverridden   BookingEventType = "status_overridden"
)

// BookingEvent is handed to the outbound notification collaborator.
type BookingEvent struct {
	Type       BookingEventType `json:"type"`
	BookingID  string           `json:"bookingId"`
	CustomerID string           `json:"customerId"`
	ProviderID string           `json:"providerId"`
	Status     BookingStatus    `json:"status"`
	Date       string           `json:"date"`
	Time       string           `json:"time"`
	Reason     string           `json:"reason,omitempty"`
	ActorID    string           `json:"actorId"`
	OccurredAt time.Time        `json:"occurredAt"`
}
