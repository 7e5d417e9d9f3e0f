package models

import "time"

type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
	// StatusUpcoming is accepted from stored data but never assigned.
	StatusUpcoming BookingStatus = "upcoming"
)

const DefaultDurationMinutes = 60

// AllStatuses is the allowed-status set.
var AllStatuses = []BookingStatus{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusUpcoming}

func (s BookingStatus) Valid() bool {
	for _, v := range AllStatuses {
		if v == s {
			return true
		}
	}
	return false
}

func (s BookingStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Live reports whether at most one booking per provider slot may be in s.
func (s BookingStatus) Live() bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusUpcoming
}

type Pricing struct {
	ServiceCost float64 `bson:"serviceCost" json:"serviceCost"`
	PlatformFee float64 `bson:"platformFee" json:"platformFee"`
	Tax         float64 `bson:"tax" json:"tax"`
	Total       float64 `bson:"total" json:"total"`
}

// Booking is a customer's appointment with a provider.
type Booking struct {
	ID                 string        `bson:"id" json:"id"`
	CustomerID         string        `bson:"customerId" json:"customerId"`
	ProviderID         string        `bson:"providerId" json:"providerId"`
	ServiceID          string        `bson:"serviceId,omitempty" json:"serviceId,omitempty"`
	ServiceName        string        `bson:"serviceName,omitempty" json:"serviceName,omitempty"` // snapshot at booking time
	Date               string        `bson:"date" json:"date"`                                   // "YYYY-MM-DD"
	DisplayDate        string        `bson:"displayDate" json:"displayDate"`                     // e.g. "Monday, March 10, 2025"
	Time               string        `bson:"time" json:"time"`                                   // e.g. "9:00 AM"
	Duration           int           `bson:"duration" json:"duration"`                           // minutes
	Location           string        `bson:"location,omitempty" json:"location,omitempty"`
	Status             BookingStatus `bson:"status" json:"status"`
	Pricing            Pricing       `bson:"pricing" json:"pricing"`
	Notes              string        `bson:"notes,omitempty" json:"notes,omitempty"`
	HasReview          bool          `bson:"hasReview" json:"hasReview"`
	CancellationReason string        `bson:"cancellationReason,omitempty" json:"cancellationReason,omitempty"`
	Version            int           `bson:"version" json:"-"`
	CreatedAt          time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time     `bson:"updatedAt" json:"updatedAt"`
}

func (b *Booking) CanCancel() bool {
	switch b.Status {
	case StatusPending, StatusConfirmed, StatusUpcoming:
		return true
	}
	return false
}

func (b *Booking) CanReschedule() bool {
	return b.CanCancel()
}

func (b *Booking) CanReview() bool {
	return b.Status == StatusCompleted && !b.HasReview
}

// HoldsSlot reports whether the booking still owns its reserved slot.
func (b *Booking) HoldsSlot() bool {
	return b.Status != StatusCancelled
}

// BookingInput is the customer-supplied body of POST /bookings.
type BookingInput struct {
	ProviderID  string  `json:"providerId"`
	ServiceID   string  `json:"serviceId"`
	ServiceName string  `json:"serviceName"`
	Date        string  `json:"date"`
	DisplayDate string  `json:"displayDate"`
	Time        string  `json:"time"`
	Duration    int     `json:"duration"`
	Location    string  `json:"location"`
	Pricing     Pricing `json:"pricing"`
	Notes       string  `json:"notes"`
}

// BookingUpdate is the set of fields a conditional booking write replaces.
// Nil fields are left untouched.
type BookingUpdate struct {
	Status             *BookingStatus
	CancellationReason *string
	Date               *string
	DisplayDate        *string
	Time               *string
	HasReview          *bool
}

// BookingStatusResult is the compact response for lifecycle actions.
type BookingStatusResult struct {
	ID     string        `json:"id"`
	Status BookingStatus `json:"status"`
}

// RescheduleInput is the body of PUT /bookings/:id/reschedule.
type RescheduleInput struct {
	Date        string `json:"date"`
	Time        string `json:"time"`
	DisplayDate string `json:"displayDate"`
}
