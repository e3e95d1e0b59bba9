package policy

import (
	"testing"

	"campusnest/pkg/auth"
	apperrors "campusnest/pkg/errors"
	"campusnest/pkg/model"
)

func assertCode(t *testing.T, err error, wantCode string) {
	t.Helper()
	if wantCode == "" {
		if err != nil {
			t.Fatalf("expected nil error, got %v", err)
		}
		return
	}
	if err == nil {
		t.Fatalf("expected %s error, got nil", wantCode)
	}
	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("expected *AppError, got %T", err)
	}
	if appErr.Code != wantCode {
		t.Fatalf("expected code %s, got %s (%s)", wantCode, appErr.Code, appErr.Message)
	}
}

func TestTransition(t *testing.T) {
	tests := []struct {
		name     string
		from     model.BookingStatus
		to       model.BookingStatus
		wantCode string
	}{
		{"pending to accepted", model.StatusPending, model.StatusAccepted, ""},
		{"pending to rejected", model.StatusPending, model.StatusRejected, ""},
		{"pending to cancelled", model.StatusPending, model.StatusCancelled, ""},
		{"accepted to terminated", model.StatusAccepted, model.StatusTerminated, ""},
		{"pending to terminated", model.StatusPending, model.StatusTerminated, apperrors.CodeConflict},
		{"accepted to accepted", model.StatusAccepted, model.StatusAccepted, apperrors.CodeConflict},
		{"accepted to cancelled", model.StatusAccepted, model.StatusCancelled, apperrors.CodeConflict},
		{"rejected to accepted", model.StatusRejected, model.StatusAccepted, apperrors.CodeConflict},
		{"cancelled to accepted", model.StatusCancelled, model.StatusAccepted, apperrors.CodeConflict},
		{"terminated to pending", model.StatusTerminated, model.StatusPending, apperrors.CodeConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertCode(t, Transition(tt.from, tt.to), tt.wantCode)
		})
	}
}

func TestPartyChecks(t *testing.T) {
	booking := &model.Booking{
		StudentID: "student-1",
		OwnerID:   "owner-1",
	}

	student := auth.Actor{ID: "student-1", Role: model.RoleStudent}
	otherStudent := auth.Actor{ID: "student-2", Role: model.RoleStudent}
	owner := auth.Actor{ID: "owner-1", Role: model.RoleHostelOwner}
	otherOwner := auth.Actor{ID: "owner-2", Role: model.RoleHostelOwner}

	tests := []struct {
		name     string
		check    func(auth.Actor, *model.Booking) error
		actor    auth.Actor
		wantCode string
	}{
		{"view by student", CanView, student, ""},
		{"view by owner", CanView, owner, ""},
		{"view by stranger", CanView, otherStudent, apperrors.CodeForbidden},

		{"decide by owner", CanDecide, owner, ""},
		{"decide by other owner", CanDecide, otherOwner, apperrors.CodeForbidden},
		{"decide by student", CanDecide, student, apperrors.CodeForbidden},

		{"cancel by student", CanCancel, student, ""},
		{"cancel by other student", CanCancel, otherStudent, apperrors.CodeForbidden},
		{"cancel by owner", CanCancel, owner, apperrors.CodeForbidden},

		{"remove customer by owner", CanRemoveCustomer, owner, ""},
		{"remove customer by other owner", CanRemoveCustomer, otherOwner, apperrors.CodeForbidden},
		{"remove customer by student", CanRemoveCustomer, student, apperrors.CodeForbidden},

		{"pay by student", CanPay, student, ""},
		{"pay by other student", CanPay, otherStudent, apperrors.CodeForbidden},
		{"pay by owner", CanPay, owner, apperrors.CodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertCode(t, tt.check(tt.actor, booking), tt.wantCode)
		})
	}
}

func TestCanCreate(t *testing.T) {
	if err := CanCreate(auth.Actor{ID: "s1", Role: model.RoleStudent}); err != nil {
		t.Fatalf("student should be able to create: %v", err)
	}
	assertCode(t, CanCreate(auth.Actor{ID: "o1", Role: model.RoleGymOwner}), apperrors.CodeForbidden)
}

func TestCanRecordPayment(t *testing.T) {
	tests := []struct {
		name     string
		booking  model.Booking
		wantCode string
	}{
		{"accepted unpaid", model.Booking{Status: model.StatusAccepted, PaymentStatus: model.PaymentUnpaid}, ""},
		{"already paid", model.Booking{Status: model.StatusAccepted, PaymentStatus: model.PaymentPaid}, apperrors.CodeConflict},
		{"still pending", model.Booking{Status: model.StatusPending, PaymentStatus: model.PaymentUnpaid}, apperrors.CodeConflict},
		{"cancelled", model.Booking{Status: model.StatusCancelled, PaymentStatus: model.PaymentUnpaid}, apperrors.CodeConflict},
		{"terminated", model.Booking{Status: model.StatusTerminated, PaymentStatus: model.PaymentUnpaid}, apperrors.CodeConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertCode(t, CanRecordPayment(&tt.booking), tt.wantCode)
		})
	}
}
