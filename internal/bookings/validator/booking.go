package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"campusnest/pkg/logger"
	"campusnest/pkg/model"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	return &BookingValidator{
		validate: validator.New(),
		logger:   log,
	}
}

// ValidateRequest checks the create payload, including the kind-specific
// detail fields: hostel bookings need a check-in date, mess bookings a start
// date. Gym bookings carry only the duration.
func (v *BookingValidator) ValidateRequest(req *model.BookingRequest) error {
	if err := v.validateStruct(req); err != nil {
		return err
	}

	var detailErrs ValidationErrors

	switch req.ServiceType {
	case model.ServiceHostel:
		if req.Details.CheckInDate == nil {
			detailErrs = append(detailErrs, ValidationError{
				Field:   "check_in_date",
				Message: "check_in_date is required for hostel bookings",
			})
		}
	case model.ServiceMess:
		if req.Details.StartDate == nil {
			detailErrs = append(detailErrs, ValidationError{
				Field:   "start_date",
				Message: "start_date is required for mess bookings",
			})
		}
	}

	if len(detailErrs) > 0 {
		return detailErrs
	}
	return nil
}

func (v *BookingValidator) ValidateDecision(req *model.DecisionRequest) error {
	return v.validateStruct(req)
}

func (v *BookingValidator) ValidatePayment(req *model.PaymentRequest) error {
	return v.validateStruct(req)
}

func (v *BookingValidator) validateStruct(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "gt":
			message = fmt.Sprintf("%s must be greater than %s", err.Field(), err.Param())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
