//go:build integration

package testutil

import (
	"testing"
	"time"

	"campusnest/pkg/auth"
	"campusnest/pkg/model"
)

// TokenFor mints a bearer token for the given identity, signed with the
// same secret the server under test was started with.
func (e *TestEnv) TokenFor(t *testing.T, userID string, role model.Role) string {
	t.Helper()

	token, err := auth.NewTokenManager(e.JWTSecret, time.Hour).GenerateToken(userID, role)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return token
}

func ValidHostelRoom() *model.HostelRoom {
	return &model.HostelRoom{
		Name:         "Sunrise Hostel Block A",
		Address:      "14 College Road, Pune 411005",
		RentPerMonth: 8500,
		Capacity:     2,
		RoomType:     "double",
		Amenities:    []string{"wifi", "laundry"},
		Availability: true,
	}
}

func ValidMess() *model.Mess {
	return &model.Mess{
		Name:         "Annapurna Mess",
		Address:      "22 MG Road, Pune 411001",
		MonthlyPrice: 3200,
		MealsPerDay:  2,
		MessType:     "veg",
		Availability: true,
	}
}

func ValidGym() *model.Gym {
	return &model.Gym{
		Name:         "Iron Works Gym",
		Address:      "5 FC Road, Pune 411004",
		MonthlyFee:   1500,
		Equipment:    []string{"treadmill", "free weights"},
		Timings:      "6am-10pm",
		Availability: true,
	}
}

func HostelBookingRequest(serviceID string) *model.BookingRequest {
	checkIn := time.Now().AddDate(0, 0, 7).UTC().Truncate(time.Second)
	return &model.BookingRequest{
		ServiceType: model.ServiceHostel,
		ServiceID:   serviceID,
		Details: model.BookingDetails{
			CheckInDate: &checkIn,
			Duration:    "6 months",
		},
	}
}

func GymBookingRequest(serviceID string) *model.BookingRequest {
	return &model.BookingRequest{
		ServiceType: model.ServiceGym,
		ServiceID:   serviceID,
		Details: model.BookingDetails{
			Duration: "3 months",
		},
	}
}

func ValidPaymentRequest() *model.PaymentRequest {
	return &model.PaymentRequest{
		PaymentStatus: model.PaymentPaid,
		Payment: model.PaymentDetails{
			PaymentID: "pay_integration_001",
			OrderID:   "order_integration_001",
			Amount:    8500,
		},
	}
}
