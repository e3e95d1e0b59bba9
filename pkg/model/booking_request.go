package model

// BookingRequest is the create payload. The owner id is resolved from the
// referenced service, never taken from the client.
type BookingRequest struct {
	ServiceType ServiceType    `json:"service_type" validate:"required,oneof=hostel mess gym"`
	ServiceID   string         `json:"service_id" validate:"required,mongodb"`
	Details     BookingDetails `json:"booking_details"`
}

// DecisionRequest carries the owner's accept/reject verdict on a pending
// booking.
type DecisionRequest struct {
	Status BookingStatus `json:"status" validate:"required,oneof=accepted rejected"`
}

// PaymentRequest records a completed checkout against an accepted booking.
type PaymentRequest struct {
	PaymentStatus PaymentStatus  `json:"payment_status" validate:"required,oneof=paid"`
	Payment       PaymentDetails `json:"payment_details"`
}
