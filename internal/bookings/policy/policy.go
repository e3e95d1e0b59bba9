// Package policy holds the authorization and lifecycle rules for bookings.
// Every function is pure: it inspects the actor and the booking and returns
// either nil or a typed error, performing no I/O.
package policy

import (
	"fmt"

	"campusnest/pkg/auth"
	apperrors "campusnest/pkg/errors"
	"campusnest/pkg/model"
)

// transitions is the full status graph. A status absent from the map is
// terminal.
var transitions = map[model.BookingStatus][]model.BookingStatus{
	model.StatusPending:  {model.StatusAccepted, model.StatusRejected, model.StatusCancelled},
	model.StatusAccepted: {model.StatusTerminated},
}

// Transition reports whether from -> to is a legal lifecycle edge. Illegal
// edges yield a Conflict naming both states so the caller can surface the
// actual disagreement.
func Transition(from, to model.BookingStatus) error {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return nil
		}
	}
	return apperrors.Conflict(fmt.Sprintf("Cannot move booking from %q to %q", from, to))
}

// CanCreate restricts booking creation to students.
func CanCreate(actor auth.Actor) error {
	if actor.Role != model.RoleStudent {
		return apperrors.Forbidden("Only students can create bookings")
	}
	return nil
}

// CanView allows either party of the booking and nobody else.
func CanView(actor auth.Actor, b *model.Booking) error {
	if actor.ID == b.StudentID || actor.ID == b.OwnerID {
		return nil
	}
	return apperrors.Forbidden("You are not a party to this booking")
}

// CanDecide allows only the owning party to accept or reject.
func CanDecide(actor auth.Actor, b *model.Booking) error {
	if !actor.Role.IsOwner() {
		return apperrors.Forbidden("Only owners can decide on bookings")
	}
	if actor.ID != b.OwnerID {
		return apperrors.Forbidden("You do not own this booking's service")
	}
	return nil
}

// CanCancel allows only the booking's student to cancel.
func CanCancel(actor auth.Actor, b *model.Booking) error {
	if actor.Role != model.RoleStudent {
		return apperrors.Forbidden("Only students can cancel bookings")
	}
	if actor.ID != b.StudentID {
		return apperrors.Forbidden("This booking belongs to another student")
	}
	return nil
}

// CanRemoveCustomer allows only the owning party to terminate an active
// booking.
func CanRemoveCustomer(actor auth.Actor, b *model.Booking) error {
	if !actor.Role.IsOwner() {
		return apperrors.Forbidden("Only owners can remove customers")
	}
	if actor.ID != b.OwnerID {
		return apperrors.Forbidden("You do not own this booking's service")
	}
	return nil
}

// CanPay allows only the booking's student to record a payment.
func CanPay(actor auth.Actor, b *model.Booking) error {
	if actor.Role != model.RoleStudent {
		return apperrors.Forbidden("Only students can pay for bookings")
	}
	if actor.ID != b.StudentID {
		return apperrors.Forbidden("This booking belongs to another student")
	}
	return nil
}

// CanRecordPayment gates the unpaid -> paid flip. Payment is only meaningful
// while the booking is accepted, and it happens at most once.
func CanRecordPayment(b *model.Booking) error {
	if b.PaymentStatus == model.PaymentPaid {
		return apperrors.Conflict("Booking is already paid")
	}
	if b.Status != model.StatusAccepted {
		return apperrors.Conflict(fmt.Sprintf("Cannot pay for a booking in status %q", b.Status))
	}
	return nil
}
