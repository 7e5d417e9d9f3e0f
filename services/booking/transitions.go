package booking

import (
	"appointly/models"
)

type Action string

const (
	ActionAccept     Action = "accept"
	ActionDecline    Action = "decline"
	ActionCancel     Action = "cancel"
	ActionReschedule Action = "reschedule"
	ActionComplete   Action = "complete"
)

// transition is one row of the lifecycle table. An empty To leaves the
// status unchanged.
type transition struct {
	Actor models.Role
	From  []models.BookingStatus
	To    models.BookingStatus
}

var liveStatuses = []models.BookingStatus{models.StatusPending, models.StatusConfirmed, models.StatusUpcoming}

var transitions = map[Action]transition{
	ActionAccept:     {Actor: models.RoleProvider, From: []models.BookingStatus{models.StatusPending}, To: models.StatusConfirmed},
	ActionDecline:    {Actor: models.RoleProvider, From: []models.BookingStatus{models.StatusPending}, To: models.StatusCancelled},
	ActionCancel:     {Actor: models.RoleCustomer, From: liveStatuses, To: models.StatusCancelled},
	ActionReschedule: {Actor: models.RoleCustomer, From: liveStatuses},
	ActionComplete:   {Actor: models.RoleProvider, From: []models.BookingStatus{models.StatusConfirmed}, To: models.StatusCompleted},
}

// Allows reports whether action may be applied to a booking in status.
func Allows(action Action, status models.BookingStatus) bool {
	t, ok := transitions[action]
	if !ok {
		return false
	}
	for _, from := range t.From {
		if from == status {
			return true
		}
	}
	return false
}

// isParty reports whether actor is the booking's party for role.
func isParty(b *models.Booking, actor models.Actor, role models.Role) bool {
	switch role {
	case models.RoleProvider:
		return actor.ID != "" && actor.ID == b.ProviderID
	case models.RoleCustomer:
		return actor.ID != "" && actor.ID == b.CustomerID
	}
	return false
}
