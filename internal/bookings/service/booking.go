package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	bookingserrors "campusnest/internal/bookings/errors"
	"campusnest/internal/bookings/events"
	"campusnest/internal/bookings/policy"
	"campusnest/internal/bookings/repository"
	"campusnest/internal/bookings/validator"
	"campusnest/pkg/auth"
	"campusnest/pkg/config"
	apperrors "campusnest/pkg/errors"
	"campusnest/pkg/model"
	"campusnest/pkg/sanitizer"
)

// ServiceFinder is the slice of the catalog the booking flow depends on:
// resolving a service reference to its current owner and display fields.
type ServiceFinder interface {
	FindService(ctx context.Context, ref model.ServiceRef) (*model.ServiceSnapshot, error)
}

type BookingService interface {
	Create(ctx context.Context, actor *auth.Actor, req *model.BookingRequest) (*model.Booking, error)
	GetByID(ctx context.Context, actor *auth.Actor, id string) (*model.BookingView, error)
	List(ctx context.Context, actor *auth.Actor, status model.BookingStatus, limit int, offset int64) ([]*model.BookingView, int64, error)
	Decide(ctx context.Context, actor *auth.Actor, id string, req *model.DecisionRequest) (*model.Booking, error)
	Cancel(ctx context.Context, actor *auth.Actor, id string) (*model.Booking, error)
	RemoveCustomer(ctx context.Context, actor *auth.Actor, id string) (*model.Booking, error)
	Pay(ctx context.Context, actor *auth.Actor, id string, req *model.PaymentRequest) (*model.Booking, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	catalog   ServiceFinder
	validator *validator.BookingValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	catalog ServiceFinder,
	bookingValidator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		catalog:   catalog,
		validator: bookingValidator,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, actor *auth.Actor, req *model.BookingRequest) (*model.Booking, error) {
	if actor == nil {
		return nil, apperrors.Unauthorized("Authentication required")
	}
	if err := policy.CanCreate(*actor); err != nil {
		return nil, err
	}

	req.Details.Duration = sanitizer.SanitizeDisplayText(req.Details.Duration)
	if err := s.validator.ValidateRequest(req); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "student_id", actor.ID, "error", err)
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	snapshot, err := s.catalog.FindService(ctx, model.ServiceRef{Type: req.ServiceType, ID: req.ServiceID})
	if err != nil {
		return nil, err
	}
	if !snapshot.Availability {
		return nil, apperrors.Conflict("Service is not currently available for booking")
	}

	booking := &model.Booking{
		StudentID:     actor.ID,
		OwnerID:       snapshot.OwnerID,
		ServiceType:   req.ServiceType,
		ServiceID:     req.ServiceID,
		Details:       req.Details,
		Status:        model.StatusPending,
		PaymentStatus: model.PaymentUnpaid,
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		s.cfg.Log.Error("Failed to create booking", "student_id", actor.ID, "error", err)
		return nil, apperrors.Internal("Failed to create booking", err)
	}

	s.publisher.Publish(ctx, events.EventBookingCreated, booking)
	s.cfg.Log.Info("Booking created",
		"id", booking.ID,
		"student_id", booking.StudentID,
		"owner_id", booking.OwnerID,
		"service_type", booking.ServiceType,
		"service_id", booking.ServiceID,
	)
	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, actor *auth.Actor, id string) (*model.BookingView, error) {
	if actor == nil {
		return nil, apperrors.Unauthorized("Authentication required")
	}

	booking, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.CanView(*actor, booking); err != nil {
		return nil, err
	}

	return s.enrich(ctx, booking), nil
}

func (s *bookingService) List(ctx context.Context, actor *auth.Actor, status model.BookingStatus, limit int, offset int64) ([]*model.BookingView, int64, error) {
	if actor == nil {
		return nil, 0, apperrors.Unauthorized("Authentication required")
	}
	if status != "" && !listableStatus(status) {
		return nil, 0, apperrors.InvalidInput("Unknown status filter: " + string(status))
	}

	findByParty := s.repo.FindByStudent
	countByParty := s.repo.CountByStudent
	if actor.Role.IsOwner() {
		findByParty = s.repo.FindByOwner
		countByParty = s.repo.CountByOwner
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = countByParty(ctx, actor.ID, status)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "actor_id", actor.ID, "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = findByParty(ctx, actor.ID, status, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "actor_id", actor.ID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	views := make([]*model.BookingView, 0, len(bookings))
	for _, b := range bookings {
		views = append(views, s.enrich(ctx, b))
	}
	return views, count, nil
}

func (s *bookingService) Decide(ctx context.Context, actor *auth.Actor, id string, req *model.DecisionRequest) (*model.Booking, error) {
	if actor == nil {
		return nil, apperrors.Unauthorized("Authentication required")
	}
	if err := s.validator.ValidateDecision(req); err != nil {
		return nil, apperrors.Validation("Decision validation failed", map[string]any{"error": err.Error()})
	}

	booking, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.CanDecide(*actor, booking); err != nil {
		return nil, err
	}

	eventType := events.EventBookingAccepted
	if req.Status == model.StatusRejected {
		eventType = events.EventBookingRejected
	}
	return s.transition(ctx, booking, req.Status, eventType)
}

func (s *bookingService) Cancel(ctx context.Context, actor *auth.Actor, id string) (*model.Booking, error) {
	if actor == nil {
		return nil, apperrors.Unauthorized("Authentication required")
	}

	booking, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.CanCancel(*actor, booking); err != nil {
		return nil, err
	}

	return s.transition(ctx, booking, model.StatusCancelled, events.EventBookingCancelled)
}

func (s *bookingService) RemoveCustomer(ctx context.Context, actor *auth.Actor, id string) (*model.Booking, error) {
	if actor == nil {
		return nil, apperrors.Unauthorized("Authentication required")
	}

	booking, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.CanRemoveCustomer(*actor, booking); err != nil {
		return nil, err
	}

	return s.transition(ctx, booking, model.StatusTerminated, events.EventBookingTerminated)
}

func (s *bookingService) Pay(ctx context.Context, actor *auth.Actor, id string, req *model.PaymentRequest) (*model.Booking, error) {
	if actor == nil {
		return nil, apperrors.Unauthorized("Authentication required")
	}
	if err := s.validator.ValidatePayment(req); err != nil {
		return nil, apperrors.Validation("Payment validation failed", map[string]any{"error": err.Error()})
	}

	booking, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.CanPay(*actor, booking); err != nil {
		return nil, err
	}
	if err := policy.CanRecordPayment(booking); err != nil {
		return nil, err
	}

	payment := req.Payment
	if payment.PaidAt.IsZero() {
		payment.PaidAt = time.Now().UTC().Truncate(time.Millisecond)
	}
	receiptNumber := "RCP-" + uuid.NewString()

	if err := s.repo.RecordPayment(ctx, booking.ID, &payment, receiptNumber); err != nil {
		if errors.Is(err, bookingserrors.ErrStaleState) {
			return nil, apperrors.Conflict("Booking state changed while recording payment, please retry")
		}
		s.cfg.Log.Error("Failed to record payment", "id", booking.ID, "error", err)
		return nil, apperrors.Internal("Failed to record payment", err)
	}

	booking.PaymentStatus = model.PaymentPaid
	booking.Payment = &payment
	booking.ReceiptNumber = receiptNumber

	s.publisher.Publish(ctx, events.EventBookingPaid, booking)
	s.cfg.Log.Info("Payment recorded",
		"id", booking.ID,
		"receipt_number", receiptNumber,
		"amount", payment.Amount,
	)
	return booking, nil
}

// --- Helpers ---

func (s *bookingService) fetch(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}
	return booking, nil
}

// transition applies a lifecycle edge with a conditional write. The status
// observed at read time is the expected value; a concurrent change surfaces
// as a conflict rather than a lost update.
func (s *bookingService) transition(ctx context.Context, booking *model.Booking, to model.BookingStatus, eventType string) (*model.Booking, error) {
	if err := policy.Transition(booking.Status, to); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, booking.ID, booking.Status, to); err != nil {
		if errors.Is(err, bookingserrors.ErrStaleState) {
			return nil, apperrors.Conflict("Booking state changed concurrently, please retry")
		}
		s.cfg.Log.Error("Failed to update booking status", "id", booking.ID, "to", to, "error", err)
		return nil, apperrors.Internal("Failed to update booking", err)
	}

	booking.Status = to
	s.publisher.Publish(ctx, eventType, booking)
	s.cfg.Log.Info("Booking status updated", "id", booking.ID, "status", to)
	return booking, nil
}

// enrich attaches the current service snapshot to a booking. A missing
// service leaves the details nil: the booking is history and outlives the
// listing it referenced.
func (s *bookingService) enrich(ctx context.Context, booking *model.Booking) *model.BookingView {
	view := &model.BookingView{Booking: *booking}

	snapshot, err := s.catalog.FindService(ctx, booking.Ref())
	if err != nil {
		appErr := apperrors.AsAppError(err)
		if appErr.Code != apperrors.CodeNotFound {
			s.cfg.Log.Warn("Failed to load service details for booking",
				"id", booking.ID,
				"service_type", booking.ServiceType,
				"service_id", booking.ServiceID,
				"error", err,
			)
		}
		return view
	}

	view.ServiceDetails = snapshot
	return view
}

func listableStatus(s model.BookingStatus) bool {
	switch s {
	case model.StatusPending, model.StatusAccepted, model.StatusRejected, model.StatusCancelled:
		return true
	}
	return false
}
