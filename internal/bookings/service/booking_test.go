package service

import (
	"context"
	"strings"
	"testing"
	"time"

	bookingserrors "campusnest/internal/bookings/errors"
	"campusnest/internal/bookings/events"
	"campusnest/internal/bookings/validator"
	"campusnest/pkg/auth"
	apperrors "campusnest/pkg/errors"
	"campusnest/pkg/logger"
	"campusnest/pkg/model"

	"campusnest/pkg/config"
)

type mockRepo struct {
	CreateFunc         func(ctx context.Context, booking *model.Booking) error
	FindByIDFunc       func(ctx context.Context, id string) (*model.Booking, error)
	FindByStudentFunc  func(ctx context.Context, studentID string, status model.BookingStatus, limit int, offset int64) ([]*model.Booking, error)
	CountByStudentFunc func(ctx context.Context, studentID string, status model.BookingStatus) (int64, error)
	FindByOwnerFunc    func(ctx context.Context, ownerID string, status model.BookingStatus, limit int, offset int64) ([]*model.Booking, error)
	CountByOwnerFunc   func(ctx context.Context, ownerID string, status model.BookingStatus) (int64, error)
	UpdateStatusFunc   func(ctx context.Context, id string, from, to model.BookingStatus) error
	RecordPaymentFunc  func(ctx context.Context, id string, payment *model.PaymentDetails, receiptNumber string) error
}

func (m *mockRepo) Create(ctx context.Context, b *model.Booking) error {
	return m.CreateFunc(ctx, b)
}

func (m *mockRepo) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	return m.FindByIDFunc(ctx, id)
}

func (m *mockRepo) FindByStudent(ctx context.Context, studentID string, status model.BookingStatus, limit int, offset int64) ([]*model.Booking, error) {
	return m.FindByStudentFunc(ctx, studentID, status, limit, offset)
}

func (m *mockRepo) CountByStudent(ctx context.Context, studentID string, status model.BookingStatus) (int64, error) {
	return m.CountByStudentFunc(ctx, studentID, status)
}

func (m *mockRepo) FindByOwner(ctx context.Context, ownerID string, status model.BookingStatus, limit int, offset int64) ([]*model.Booking, error) {
	return m.FindByOwnerFunc(ctx, ownerID, status, limit, offset)
}

func (m *mockRepo) CountByOwner(ctx context.Context, ownerID string, status model.BookingStatus) (int64, error) {
	return m.CountByOwnerFunc(ctx, ownerID, status)
}

func (m *mockRepo) UpdateStatus(ctx context.Context, id string, from, to model.BookingStatus) error {
	return m.UpdateStatusFunc(ctx, id, from, to)
}

func (m *mockRepo) RecordPayment(ctx context.Context, id string, payment *model.PaymentDetails, receiptNumber string) error {
	return m.RecordPaymentFunc(ctx, id, payment, receiptNumber)
}

type mockFinder struct {
	FindServiceFunc func(ctx context.Context, ref model.ServiceRef) (*model.ServiceSnapshot, error)
}

func (m *mockFinder) FindService(ctx context.Context, ref model.ServiceRef) (*model.ServiceSnapshot, error) {
	return m.FindServiceFunc(ctx, ref)
}

type recordingPublisher struct {
	published []string
}

func (p *recordingPublisher) Publish(_ context.Context, eventType string, _ *model.Booking) {
	p.published = append(p.published, eventType)
}

func (p *recordingPublisher) Close() error { return nil }

const (
	testBookingID = "64f1a2b3c4d5e6f708192a3b"
	testServiceID = "507f1f77bcf86cd799439011"
)

func newTestService(repo *mockRepo, finder *mockFinder) (BookingService, *recordingPublisher) {
	cfg := &config.Config{
		Log: logger.New(logger.Config{Level: "error", Format: "text"}),
	}
	pub := &recordingPublisher{}
	v := validator.NewBookingValidator(cfg.Log)
	return NewBookingService(repo, finder, v, pub, cfg), pub
}

func availableHostel() *mockFinder {
	return &mockFinder{
		FindServiceFunc: func(_ context.Context, ref model.ServiceRef) (*model.ServiceSnapshot, error) {
			return &model.ServiceSnapshot{
				Type:         ref.Type,
				ID:           ref.ID,
				OwnerID:      "owner-1",
				Name:         "Sunrise Hostel",
				Availability: true,
			}, nil
		},
	}
}

func pendingBooking() *model.Booking {
	return &model.Booking{
		ID:            testBookingID,
		StudentID:     "student-1",
		OwnerID:       "owner-1",
		ServiceType:   model.ServiceHostel,
		ServiceID:     testServiceID,
		Details:       model.BookingDetails{Duration: "6 months"},
		Status:        model.StatusPending,
		PaymentStatus: model.PaymentUnpaid,
	}
}

func acceptedBooking() *model.Booking {
	b := pendingBooking()
	b.Status = model.StatusAccepted
	return b
}

func findReturning(b *model.Booking) *mockRepo {
	return &mockRepo{
		FindByIDFunc: func(_ context.Context, _ string) (*model.Booking, error) {
			copied := *b
			return &copied, nil
		},
		UpdateStatusFunc: func(_ context.Context, _ string, _, _ model.BookingStatus) error {
			return nil
		},
		RecordPaymentFunc: func(_ context.Context, _ string, _ *model.PaymentDetails, _ string) error {
			return nil
		},
	}
}

func wantAppCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != code {
		t.Fatalf("expected code %s, got %s (%s)", code, appErr.Code, appErr.Message)
	}
}

var (
	student  = &auth.Actor{ID: "student-1", Role: model.RoleStudent}
	stranger = &auth.Actor{ID: "student-2", Role: model.RoleStudent}
	owner    = &auth.Actor{ID: "owner-1", Role: model.RoleHostelOwner}
	rival    = &auth.Actor{ID: "owner-2", Role: model.RoleHostelOwner}
)

func TestCreate(t *testing.T) {
	now := time.Now()
	req := func() *model.BookingRequest {
		return &model.BookingRequest{
			ServiceType: model.ServiceHostel,
			ServiceID:   testServiceID,
			Details: model.BookingDetails{
				CheckInDate: &now,
				Duration:    "6 months",
			},
		}
	}

	t.Run("happy path", func(t *testing.T) {
		var created *model.Booking
		repo := &mockRepo{
			CreateFunc: func(_ context.Context, b *model.Booking) error {
				b.ID = testBookingID
				created = b
				return nil
			},
		}
		svc, pub := newTestService(repo, availableHostel())

		booking, err := svc.Create(context.Background(), student, req())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if booking.Status != model.StatusPending {
			t.Errorf("expected pending status, got %s", booking.Status)
		}
		if booking.PaymentStatus != model.PaymentUnpaid {
			t.Errorf("expected unpaid, got %s", booking.PaymentStatus)
		}
		if booking.StudentID != "student-1" {
			t.Errorf("expected student id from actor, got %s", booking.StudentID)
		}
		if booking.OwnerID != "owner-1" {
			t.Errorf("expected owner id resolved from service, got %s", booking.OwnerID)
		}
		if created == nil {
			t.Fatal("expected repository create to be called")
		}
		if len(pub.published) != 1 || pub.published[0] != events.EventBookingCreated {
			t.Errorf("expected created event, got %v", pub.published)
		}
	})

	t.Run("owner cannot create", func(t *testing.T) {
		svc, _ := newTestService(&mockRepo{}, availableHostel())
		_, err := svc.Create(context.Background(), owner, req())
		wantAppCode(t, err, apperrors.CodeForbidden)
	})

	t.Run("nil actor", func(t *testing.T) {
		svc, _ := newTestService(&mockRepo{}, availableHostel())
		_, err := svc.Create(context.Background(), nil, req())
		wantAppCode(t, err, apperrors.CodeUnauthorized)
	})

	t.Run("hostel without check-in date", func(t *testing.T) {
		svc, _ := newTestService(&mockRepo{}, availableHostel())
		r := req()
		r.Details.CheckInDate = nil
		_, err := svc.Create(context.Background(), student, r)
		wantAppCode(t, err, apperrors.CodeValidation)
	})

	t.Run("service not found", func(t *testing.T) {
		finder := &mockFinder{
			FindServiceFunc: func(_ context.Context, _ model.ServiceRef) (*model.ServiceSnapshot, error) {
				return nil, apperrors.NotFound("Hostel room")
			},
		}
		svc, _ := newTestService(&mockRepo{}, finder)
		_, err := svc.Create(context.Background(), student, req())
		wantAppCode(t, err, apperrors.CodeNotFound)
	})

	t.Run("service unavailable", func(t *testing.T) {
		finder := &mockFinder{
			FindServiceFunc: func(_ context.Context, ref model.ServiceRef) (*model.ServiceSnapshot, error) {
				return &model.ServiceSnapshot{Type: ref.Type, ID: ref.ID, OwnerID: "owner-1"}, nil
			},
		}
		svc, _ := newTestService(&mockRepo{}, finder)
		_, err := svc.Create(context.Background(), student, req())
		wantAppCode(t, err, apperrors.CodeConflict)
	})
}

func TestGetByID(t *testing.T) {
	t.Run("party sees enriched view", func(t *testing.T) {
		svc, _ := newTestService(findReturning(pendingBooking()), availableHostel())

		view, err := svc.GetByID(context.Background(), student, testBookingID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if view.ServiceDetails == nil {
			t.Fatal("expected service details to be attached")
		}
		if view.ServiceDetails.Name != "Sunrise Hostel" {
			t.Errorf("unexpected snapshot name: %s", view.ServiceDetails.Name)
		}
	})

	t.Run("deleted service omits details", func(t *testing.T) {
		finder := &mockFinder{
			FindServiceFunc: func(_ context.Context, _ model.ServiceRef) (*model.ServiceSnapshot, error) {
				return nil, apperrors.NotFound("Hostel room")
			},
		}
		svc, _ := newTestService(findReturning(pendingBooking()), finder)

		view, err := svc.GetByID(context.Background(), owner, testBookingID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if view.ServiceDetails != nil {
			t.Error("expected nil service details for a deleted service")
		}
	})

	t.Run("stranger is forbidden", func(t *testing.T) {
		svc, _ := newTestService(findReturning(pendingBooking()), availableHostel())
		_, err := svc.GetByID(context.Background(), stranger, testBookingID)
		wantAppCode(t, err, apperrors.CodeForbidden)
	})

	t.Run("unknown id", func(t *testing.T) {
		repo := &mockRepo{
			FindByIDFunc: func(_ context.Context, _ string) (*model.Booking, error) {
				return nil, bookingserrors.ErrNotFound
			},
		}
		svc, _ := newTestService(repo, availableHostel())
		_, err := svc.GetByID(context.Background(), student, testBookingID)
		wantAppCode(t, err, apperrors.CodeNotFound)
	})
}

func TestList(t *testing.T) {
	t.Run("student sees own bookings", func(t *testing.T) {
		var askedStudent string
		repo := &mockRepo{
			FindByStudentFunc: func(_ context.Context, studentID string, _ model.BookingStatus, _ int, _ int64) ([]*model.Booking, error) {
				askedStudent = studentID
				return []*model.Booking{pendingBooking()}, nil
			},
			CountByStudentFunc: func(_ context.Context, _ string, _ model.BookingStatus) (int64, error) {
				return 1, nil
			},
		}
		svc, _ := newTestService(repo, availableHostel())

		views, total, err := svc.List(context.Background(), student, "", 20, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if askedStudent != "student-1" {
			t.Errorf("expected query scoped to actor, got %s", askedStudent)
		}
		if total != 1 || len(views) != 1 {
			t.Fatalf("expected one booking, got %d (total %d)", len(views), total)
		}
		if views[0].ServiceDetails == nil {
			t.Error("expected enriched view")
		}
	})

	t.Run("owner scoped by owner id", func(t *testing.T) {
		var askedOwner string
		repo := &mockRepo{
			FindByOwnerFunc: func(_ context.Context, ownerID string, status model.BookingStatus, _ int, _ int64) ([]*model.Booking, error) {
				askedOwner = ownerID
				if status != model.StatusPending {
					t.Errorf("expected pending filter, got %q", status)
				}
				return nil, nil
			},
			CountByOwnerFunc: func(_ context.Context, _ string, _ model.BookingStatus) (int64, error) {
				return 0, nil
			},
		}
		svc, _ := newTestService(repo, availableHostel())

		_, _, err := svc.List(context.Background(), owner, model.StatusPending, 20, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if askedOwner != "owner-1" {
			t.Errorf("expected query scoped to owner, got %s", askedOwner)
		}
	})

	t.Run("terminated is not a listable filter", func(t *testing.T) {
		svc, _ := newTestService(&mockRepo{}, availableHostel())
		_, _, err := svc.List(context.Background(), student, model.StatusTerminated, 20, 0)
		wantAppCode(t, err, apperrors.CodeInvalidInput)
	})

	t.Run("garbage filter", func(t *testing.T) {
		svc, _ := newTestService(&mockRepo{}, availableHostel())
		_, _, err := svc.List(context.Background(), student, "archived", 20, 0)
		wantAppCode(t, err, apperrors.CodeInvalidInput)
	})
}

func TestDecide(t *testing.T) {
	t.Run("owner accepts pending", func(t *testing.T) {
		repo := findReturning(pendingBooking())
		var from, to model.BookingStatus
		repo.UpdateStatusFunc = func(_ context.Context, _ string, f, tt model.BookingStatus) error {
			from, to = f, tt
			return nil
		}
		svc, pub := newTestService(repo, availableHostel())

		booking, err := svc.Decide(context.Background(), owner, testBookingID, &model.DecisionRequest{Status: model.StatusAccepted})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if from != model.StatusPending || to != model.StatusAccepted {
			t.Errorf("expected pending->accepted write, got %s->%s", from, to)
		}
		if booking.Status != model.StatusAccepted {
			t.Errorf("expected accepted, got %s", booking.Status)
		}
		if len(pub.published) != 1 || pub.published[0] != events.EventBookingAccepted {
			t.Errorf("expected accepted event, got %v", pub.published)
		}
	})

	t.Run("owner rejects pending", func(t *testing.T) {
		svc, pub := newTestService(findReturning(pendingBooking()), availableHostel())

		booking, err := svc.Decide(context.Background(), owner, testBookingID, &model.DecisionRequest{Status: model.StatusRejected})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if booking.Status != model.StatusRejected {
			t.Errorf("expected rejected, got %s", booking.Status)
		}
		if len(pub.published) != 1 || pub.published[0] != events.EventBookingRejected {
			t.Errorf("expected rejected event, got %v", pub.published)
		}
	})

	t.Run("other owner forbidden", func(t *testing.T) {
		svc, _ := newTestService(findReturning(pendingBooking()), availableHostel())
		_, err := svc.Decide(context.Background(), rival, testBookingID, &model.DecisionRequest{Status: model.StatusAccepted})
		wantAppCode(t, err, apperrors.CodeForbidden)
	})

	t.Run("student cannot decide", func(t *testing.T) {
		svc, _ := newTestService(findReturning(pendingBooking()), availableHostel())
		_, err := svc.Decide(context.Background(), student, testBookingID, &model.DecisionRequest{Status: model.StatusAccepted})
		wantAppCode(t, err, apperrors.CodeForbidden)
	})

	t.Run("already accepted", func(t *testing.T) {
		svc, _ := newTestService(findReturning(acceptedBooking()), availableHostel())
		_, err := svc.Decide(context.Background(), owner, testBookingID, &model.DecisionRequest{Status: model.StatusAccepted})
		wantAppCode(t, err, apperrors.CodeConflict)
	})

	t.Run("invalid decision status", func(t *testing.T) {
		svc, _ := newTestService(findReturning(pendingBooking()), availableHostel())
		_, err := svc.Decide(context.Background(), owner, testBookingID, &model.DecisionRequest{Status: model.StatusCancelled})
		wantAppCode(t, err, apperrors.CodeValidation)
	})

	t.Run("concurrent transition surfaces conflict", func(t *testing.T) {
		repo := findReturning(pendingBooking())
		repo.UpdateStatusFunc = func(_ context.Context, _ string, _, _ model.BookingStatus) error {
			return bookingserrors.ErrStaleState
		}
		svc, pub := newTestService(repo, availableHostel())

		_, err := svc.Decide(context.Background(), owner, testBookingID, &model.DecisionRequest{Status: model.StatusAccepted})
		wantAppCode(t, err, apperrors.CodeConflict)
		if len(pub.published) != 0 {
			t.Errorf("no event should be published on a failed write, got %v", pub.published)
		}
	})
}

func TestCancel(t *testing.T) {
	t.Run("student cancels pending", func(t *testing.T) {
		svc, pub := newTestService(findReturning(pendingBooking()), availableHostel())

		booking, err := svc.Cancel(context.Background(), student, testBookingID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if booking.Status != model.StatusCancelled {
			t.Errorf("expected cancelled, got %s", booking.Status)
		}
		if len(pub.published) != 1 || pub.published[0] != events.EventBookingCancelled {
			t.Errorf("expected cancelled event, got %v", pub.published)
		}
	})

	t.Run("owner cannot cancel", func(t *testing.T) {
		svc, _ := newTestService(findReturning(pendingBooking()), availableHostel())
		_, err := svc.Cancel(context.Background(), owner, testBookingID)
		wantAppCode(t, err, apperrors.CodeForbidden)
	})

	t.Run("accepted cannot be cancelled", func(t *testing.T) {
		svc, _ := newTestService(findReturning(acceptedBooking()), availableHostel())
		_, err := svc.Cancel(context.Background(), student, testBookingID)
		wantAppCode(t, err, apperrors.CodeConflict)
	})
}

func TestRemoveCustomer(t *testing.T) {
	t.Run("owner terminates accepted", func(t *testing.T) {
		svc, pub := newTestService(findReturning(acceptedBooking()), availableHostel())

		booking, err := svc.RemoveCustomer(context.Background(), owner, testBookingID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if booking.Status != model.StatusTerminated {
			t.Errorf("expected terminated, got %s", booking.Status)
		}
		if len(pub.published) != 1 || pub.published[0] != events.EventBookingTerminated {
			t.Errorf("expected terminated event, got %v", pub.published)
		}
	})

	t.Run("pending cannot be terminated", func(t *testing.T) {
		svc, _ := newTestService(findReturning(pendingBooking()), availableHostel())
		_, err := svc.RemoveCustomer(context.Background(), owner, testBookingID)
		wantAppCode(t, err, apperrors.CodeConflict)
	})

	t.Run("student cannot remove", func(t *testing.T) {
		svc, _ := newTestService(findReturning(acceptedBooking()), availableHostel())
		_, err := svc.RemoveCustomer(context.Background(), student, testBookingID)
		wantAppCode(t, err, apperrors.CodeForbidden)
	})
}

func TestPay(t *testing.T) {
	paymentReq := func() *model.PaymentRequest {
		return &model.PaymentRequest{
			PaymentStatus: model.PaymentPaid,
			Payment: model.PaymentDetails{
				PaymentID: "pay_abc123",
				OrderID:   "order_xyz789",
				Amount:    4500,
			},
		}
	}

	t.Run("student pays accepted booking", func(t *testing.T) {
		repo := findReturning(acceptedBooking())
		var gotReceipt string
		repo.RecordPaymentFunc = func(_ context.Context, _ string, payment *model.PaymentDetails, receiptNumber string) error {
			gotReceipt = receiptNumber
			if payment.PaidAt.IsZero() {
				t.Error("expected paid_at to be stamped")
			}
			return nil
		}
		svc, pub := newTestService(repo, availableHostel())

		booking, err := svc.Pay(context.Background(), student, testBookingID, paymentReq())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if booking.PaymentStatus != model.PaymentPaid {
			t.Errorf("expected paid, got %s", booking.PaymentStatus)
		}
		if !strings.HasPrefix(gotReceipt, "RCP-") {
			t.Errorf("expected RCP- receipt prefix, got %q", gotReceipt)
		}
		if booking.ReceiptNumber != gotReceipt {
			t.Errorf("returned booking should carry the stamped receipt")
		}
		if booking.Status != model.StatusAccepted {
			t.Errorf("payment must not change lifecycle status, got %s", booking.Status)
		}
		if len(pub.published) != 1 || pub.published[0] != events.EventBookingPaid {
			t.Errorf("expected paid event, got %v", pub.published)
		}
	})

	t.Run("pending booking cannot be paid", func(t *testing.T) {
		svc, _ := newTestService(findReturning(pendingBooking()), availableHostel())
		_, err := svc.Pay(context.Background(), student, testBookingID, paymentReq())
		wantAppCode(t, err, apperrors.CodeConflict)
	})

	t.Run("double payment", func(t *testing.T) {
		paid := acceptedBooking()
		paid.PaymentStatus = model.PaymentPaid
		paid.ReceiptNumber = "RCP-existing"
		svc, _ := newTestService(findReturning(paid), availableHostel())
		_, err := svc.Pay(context.Background(), student, testBookingID, paymentReq())
		wantAppCode(t, err, apperrors.CodeConflict)
	})

	t.Run("owner cannot pay", func(t *testing.T) {
		svc, _ := newTestService(findReturning(acceptedBooking()), availableHostel())
		_, err := svc.Pay(context.Background(), owner, testBookingID, paymentReq())
		wantAppCode(t, err, apperrors.CodeForbidden)
	})

	t.Run("missing gateway ids", func(t *testing.T) {
		svc, _ := newTestService(findReturning(acceptedBooking()), availableHostel())
		req := paymentReq()
		req.Payment.PaymentID = ""
		_, err := svc.Pay(context.Background(), student, testBookingID, req)
		wantAppCode(t, err, apperrors.CodeValidation)
	})

	t.Run("concurrent payment surfaces conflict", func(t *testing.T) {
		repo := findReturning(acceptedBooking())
		repo.RecordPaymentFunc = func(_ context.Context, _ string, _ *model.PaymentDetails, _ string) error {
			return bookingserrors.ErrStaleState
		}
		svc, _ := newTestService(repo, availableHostel())
		_, err := svc.Pay(context.Background(), student, testBookingID, paymentReq())
		wantAppCode(t, err, apperrors.CodeConflict)
	})
}
