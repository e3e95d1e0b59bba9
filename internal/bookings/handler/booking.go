package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"campusnest/internal/bookings/service"
	"campusnest/pkg/auth"
	apperrors "campusnest/pkg/errors"
	httputil "campusnest/pkg/http"
	"campusnest/pkg/logger"
	"campusnest/pkg/model"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	booking, err := h.service.Create(r.Context(), auth.ActorFrom(r.Context()), &req)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	view, err := h.service.GetByID(r.Context(), auth.ActorFrom(r.Context()), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, view); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	status := model.BookingStatus(r.URL.Query().Get("status"))

	views, total, err := h.service.List(r.Context(), auth.ActorFrom(r.Context()), status, limit, offset)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WritePaginated(w, views, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "error", err)
	}
}

// Decide handles the owner's accept/reject verdict on a pending booking.
func (h *BookingHandler) Decide(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req model.DecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Decide", apperrors.InvalidInput("Invalid request body"))
		return
	}

	booking, err := h.service.Decide(r.Context(), auth.ActorFrom(r.Context()), ps.ByName("id"), &req)
	if err != nil {
		h.writeError(w, "Decide", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Decide", "error", err)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.Cancel(r.Context(), auth.ActorFrom(r.Context()), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Cancel", "error", err)
	}
}

func (h *BookingHandler) RemoveCustomer(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.RemoveCustomer(r.Context(), auth.ActorFrom(r.Context()), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "RemoveCustomer", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "RemoveCustomer", "error", err)
	}
}

func (h *BookingHandler) Pay(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req model.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Pay", apperrors.InvalidInput("Invalid request body"))
		return
	}

	booking, err := h.service.Pay(r.Context(), auth.ActorFrom(r.Context()), ps.ByName("id"), &req)
	if err != nil {
		h.writeError(w, "Pay", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Pay", "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings", h.List)
	router.GET("/api/v1/bookings/:id", h.GetByID)
	router.PUT("/api/v1/bookings/:id", h.Decide)
	router.PUT("/api/v1/bookings/:id/cancel", h.Cancel)
	router.PUT("/api/v1/bookings/:id/remove-customer", h.RemoveCustomer)
	router.PUT("/api/v1/bookings/:id/payment", h.Pay)
}
