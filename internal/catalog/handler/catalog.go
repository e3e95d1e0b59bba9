package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"campusnest/internal/catalog/service"
	"campusnest/pkg/auth"
	apperrors "campusnest/pkg/errors"
	httputil "campusnest/pkg/http"
	"campusnest/pkg/logger"
	"campusnest/pkg/model"
)

type CatalogHandler struct {
	service service.CatalogService
	log     *logger.Logger
}

func NewCatalogHandler(service service.CatalogService, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		log:     log,
	}
}

type availabilityRequest struct {
	Availability bool `json:"availability"`
}

func (h *CatalogHandler) CreateHostel(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var room model.HostelRoom
	if err := json.NewDecoder(r.Body).Decode(&room); err != nil {
		h.writeError(w, "CreateHostel", apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.CreateHostel(r.Context(), auth.ActorFrom(r.Context()), &room); err != nil {
		h.writeError(w, "CreateHostel", err)
		return
	}

	if err := httputil.WriteCreated(w, room); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateHostel", "error", err)
	}
}

func (h *CatalogHandler) CreateMess(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var mess model.Mess
	if err := json.NewDecoder(r.Body).Decode(&mess); err != nil {
		h.writeError(w, "CreateMess", apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.CreateMess(r.Context(), auth.ActorFrom(r.Context()), &mess); err != nil {
		h.writeError(w, "CreateMess", err)
		return
	}

	if err := httputil.WriteCreated(w, mess); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateMess", "error", err)
	}
}

func (h *CatalogHandler) CreateGym(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var gym model.Gym
	if err := json.NewDecoder(r.Body).Decode(&gym); err != nil {
		h.writeError(w, "CreateGym", apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.CreateGym(r.Context(), auth.ActorFrom(r.Context()), &gym); err != nil {
		h.writeError(w, "CreateGym", err)
		return
	}

	if err := httputil.WriteCreated(w, gym); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateGym", "error", err)
	}
}

// browse and get are shared across the three kinds; the route closes over
// the service type.
func (h *CatalogHandler) browse(t model.ServiceType) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		limit, offset, err := httputil.ExtractLimitOffset(r)
		if err != nil {
			h.writeError(w, "Browse", err)
			return
		}

		snapshots, total, err := h.service.Browse(r.Context(), t, limit, offset)
		if err != nil {
			h.writeError(w, "Browse", err)
			return
		}

		if err := httputil.WritePaginated(w, snapshots, total, limit, offset); err != nil {
			h.log.Error("failed to write paginated response", "handler", "Browse", "error", err)
		}
	}
}

func (h *CatalogHandler) get(t model.ServiceType) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ref := model.ServiceRef{Type: t, ID: ps.ByName("id")}

		snapshot, err := h.service.Get(r.Context(), ref)
		if err != nil {
			h.writeError(w, "Get", err)
			return
		}

		if err := httputil.WriteSuccess(w, snapshot); err != nil {
			h.log.Error("failed to write success response", "handler", "Get", "error", err)
		}
	}
}

func (h *CatalogHandler) setAvailability(t model.ServiceType) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		var req availabilityRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.writeError(w, "SetAvailability", apperrors.InvalidInput("Invalid request body"))
			return
		}

		ref := model.ServiceRef{Type: t, ID: ps.ByName("id")}
		if err := h.service.SetAvailability(r.Context(), auth.ActorFrom(r.Context()), ref, req.Availability); err != nil {
			h.writeError(w, "SetAvailability", err)
			return
		}

		if err := httputil.WriteSuccess(w, map[string]any{"availability": req.Availability}); err != nil {
			h.log.Error("failed to write success response", "handler", "SetAvailability", "error", err)
		}
	}
}

func (h *CatalogHandler) deleteListing(t model.ServiceType) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ref := model.ServiceRef{Type: t, ID: ps.ByName("id")}

		if err := h.service.DeleteListing(r.Context(), auth.ActorFrom(r.Context()), ref); err != nil {
			h.writeError(w, "DeleteListing", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *CatalogHandler) MyListings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "MyListings", err)
		return
	}

	snapshots, total, err := h.service.MyListings(r.Context(), auth.ActorFrom(r.Context()), limit, offset)
	if err != nil {
		h.writeError(w, "MyListings", err)
		return
	}

	if err := httputil.WritePaginated(w, snapshots, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "MyListings", "error", err)
	}
}

func (h *CatalogHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}

func (h *CatalogHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/hostels", h.CreateHostel)
	router.GET("/api/v1/hostels", h.browse(model.ServiceHostel))
	router.GET("/api/v1/hostels/:id", h.get(model.ServiceHostel))
	router.PUT("/api/v1/hostels/:id/availability", h.setAvailability(model.ServiceHostel))
	router.DELETE("/api/v1/hostels/:id", h.deleteListing(model.ServiceHostel))

	router.POST("/api/v1/messes", h.CreateMess)
	router.GET("/api/v1/messes", h.browse(model.ServiceMess))
	router.GET("/api/v1/messes/:id", h.get(model.ServiceMess))
	router.PUT("/api/v1/messes/:id/availability", h.setAvailability(model.ServiceMess))
	router.DELETE("/api/v1/messes/:id", h.deleteListing(model.ServiceMess))

	router.POST("/api/v1/gyms", h.CreateGym)
	router.GET("/api/v1/gyms", h.browse(model.ServiceGym))
	router.GET("/api/v1/gyms/:id", h.get(model.ServiceGym))
	router.PUT("/api/v1/gyms/:id/availability", h.setAvailability(model.ServiceGym))
	router.DELETE("/api/v1/gyms/:id", h.deleteListing(model.ServiceGym))

	router.GET("/api/v1/listings/mine", h.MyListings)
}
