package model

import "time"

type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusAccepted   BookingStatus = "accepted"
	StatusRejected   BookingStatus = "rejected"
	StatusCancelled  BookingStatus = "cancelled"
	StatusTerminated BookingStatus = "terminated"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected, StatusCancelled, StatusTerminated:
		return true
	}
	return false
}

// Terminal reports whether no further status transition can leave s.
func (s BookingStatus) Terminal() bool {
	switch s {
	case StatusRejected, StatusCancelled, StatusTerminated:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

// BookingDetails carries the kind-specific request fields. Hostel bookings
// require a check-in date, mess bookings a start date; duration is a
// free-form string for every kind.
type BookingDetails struct {
	CheckInDate *time.Time `json:"check_in_date,omitempty" bson:"check_in_date,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty" bson:"start_date,omitempty"`
	Duration    string     `json:"duration" bson:"duration" validate:"required,min=1,max=100"`
}

// PaymentDetails stores the gateway identifiers the client reports after a
// checkout. They are opaque here; no verification happens server-side.
type PaymentDetails struct {
	PaymentID string    `json:"payment_id" bson:"payment_id" validate:"required"`
	OrderID   string    `json:"order_id" bson:"order_id" validate:"required"`
	Signature string    `json:"signature,omitempty" bson:"signature,omitempty"`
	Amount    float64   `json:"amount" bson:"amount" validate:"required,gt=0"`
	PaidAt    time.Time `json:"paid_at" bson:"paid_at"`
}

// Booking ties a student, an owner and a catalog reference together with
// the lifecycle status and the orthogonal payment dimension. The owner id
// is copied from the service at creation time and never re-derived.
type Booking struct {
	ID            string          `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	StudentID     string          `json:"student_id" bson:"student_id" validate:"required"`
	OwnerID       string          `json:"owner_id" bson:"owner_id" validate:"required"`
	ServiceType   ServiceType     `json:"service_type" bson:"service_type" validate:"required,oneof=hostel mess gym"`
	ServiceID     string          `json:"service_id" bson:"service_id" validate:"required,mongodb"`
	Details       BookingDetails  `json:"booking_details" bson:"booking_details"`
	Status        BookingStatus   `json:"status" bson:"status" validate:"required,oneof=pending accepted rejected cancelled terminated"`
	PaymentStatus PaymentStatus   `json:"payment_status" bson:"payment_status" validate:"required,oneof=unpaid paid"`
	Payment       *PaymentDetails `json:"payment_details,omitempty" bson:"payment_details,omitempty"`
	ReceiptNumber string          `json:"receipt_number,omitempty" bson:"receipt_number,omitempty"`
	CreatedAt     time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" bson:"updated_at"`
}

// Ref returns the tagged-union reference of the booked service.
func (b *Booking) Ref() ServiceRef {
	return ServiceRef{Type: b.ServiceType, ID: b.ServiceID}
}

// BookingView is a booking enriched with a snapshot of the referenced
// service. ServiceDetails is nil when the service no longer exists; the
// booking itself is history and survives the deletion.
type BookingView struct {
	Booking        `bson:",inline"`
	ServiceDetails *ServiceSnapshot `json:"service_details,omitempty" bson:"-"`
}
