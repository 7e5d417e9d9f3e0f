package models

import "time"

type Review struct {
	ID         string    `bson:"id" json:"id"`
	BookingID  string    `bson:"bookingId" json:"bookingId"` // unique
	CustomerID string    `bson:"customerId" json:"customerId"`
	ProviderID string    `bson:"providerId" json:"providerId"`
	ServiceID  string    `bson:"serviceId,omitempty" json:"serviceId,omitempty"`
	Rating     int       `bson:"rating" json:"rating"`
	Comment    string    `bson:"comment" json:"comment"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}

type ReviewInput struct {
	BookingID string `json:"bookingId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

// ServiceRating is the aggregate kept on the service catalogue entry.
type ServiceRating struct {
	ServiceID   string  `bson:"id" json:"serviceId"`
	Rating      float64 `bson:"rating" json:"rating"`
	ReviewCount int     `bson:"reviewCount" json:"reviewCount"`
}
