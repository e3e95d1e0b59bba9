package service

import (
	"context"
	"errors"
	"sync"

	catalogerrors "campusnest/internal/catalog/errors"
	"campusnest/internal/catalog/repository"
	"campusnest/internal/catalog/validator"
	"campusnest/pkg/auth"
	"campusnest/pkg/config"
	apperrors "campusnest/pkg/errors"
	"campusnest/pkg/model"
	"campusnest/pkg/sanitizer"
)

type CatalogService interface {
	CreateHostel(ctx context.Context, actor *auth.Actor, room *model.HostelRoom) error
	CreateMess(ctx context.Context, actor *auth.Actor, mess *model.Mess) error
	CreateGym(ctx context.Context, actor *auth.Actor, gym *model.Gym) error

	// Get resolves a tagged-union reference to a display snapshot.
	Get(ctx context.Context, ref model.ServiceRef) (*model.ServiceSnapshot, error)

	Browse(ctx context.Context, t model.ServiceType, limit int, offset int64) ([]*model.ServiceSnapshot, int64, error)
	MyListings(ctx context.Context, actor *auth.Actor, limit int, offset int64) ([]*model.ServiceSnapshot, int64, error)
	SetAvailability(ctx context.Context, actor *auth.Actor, ref model.ServiceRef, available bool) error
	DeleteListing(ctx context.Context, actor *auth.Actor, ref model.ServiceRef) error

	// FindService is the lookup the booking flow depends on: it returns the
	// current owner, availability and display fields of the referenced
	// service, or NotFound if the reference no longer resolves.
	FindService(ctx context.Context, ref model.ServiceRef) (*model.ServiceSnapshot, error)
}

type catalogService struct {
	repo      repository.CatalogRepository
	validator *validator.ListingValidator
	cfg       *config.Config
}

func NewCatalogService(repo repository.CatalogRepository, v *validator.ListingValidator, cfg *config.Config) CatalogService {
	return &catalogService{
		repo:      repo,
		validator: v,
		cfg:       cfg,
	}
}

func (s *catalogService) CreateHostel(ctx context.Context, actor *auth.Actor, room *model.HostelRoom) error {
	if err := requireOwnerRole(actor, model.ServiceHostel); err != nil {
		return err
	}

	room.ID = ""
	room.OwnerID = actor.ID
	room.Name = sanitizer.SanitizeDisplayText(room.Name)
	room.Address = sanitizer.SanitizeDisplayText(room.Address)
	room.Amenities = sanitizer.SanitizeSlice(room.Amenities, sanitizer.SanitizeDisplayText)
	sanitizeImages(room.Images)

	if err := s.validator.ValidateHostel(room); err != nil {
		return apperrors.Validation("Listing validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.CreateHostel(ctx, room); err != nil {
		s.cfg.Log.Error("Failed to create hostel listing", "owner_id", actor.ID, "error", err)
		return apperrors.Internal("Failed to create listing", err)
	}

	s.cfg.Log.Info("Hostel listing created", "id", room.ID, "owner_id", actor.ID)
	return nil
}

func (s *catalogService) CreateMess(ctx context.Context, actor *auth.Actor, mess *model.Mess) error {
	if err := requireOwnerRole(actor, model.ServiceMess); err != nil {
		return err
	}

	mess.ID = ""
	mess.OwnerID = actor.ID
	mess.Name = sanitizer.SanitizeDisplayText(mess.Name)
	mess.Address = sanitizer.SanitizeDisplayText(mess.Address)
	sanitizeImages(mess.Images)

	if err := s.validator.ValidateMess(mess); err != nil {
		return apperrors.Validation("Listing validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.CreateMess(ctx, mess); err != nil {
		s.cfg.Log.Error("Failed to create mess listing", "owner_id", actor.ID, "error", err)
		return apperrors.Internal("Failed to create listing", err)
	}

	s.cfg.Log.Info("Mess listing created", "id", mess.ID, "owner_id", actor.ID)
	return nil
}

func (s *catalogService) CreateGym(ctx context.Context, actor *auth.Actor, gym *model.Gym) error {
	if err := requireOwnerRole(actor, model.ServiceGym); err != nil {
		return err
	}

	gym.ID = ""
	gym.OwnerID = actor.ID
	gym.Name = sanitizer.SanitizeDisplayText(gym.Name)
	gym.Address = sanitizer.SanitizeDisplayText(gym.Address)
	gym.Timings = sanitizer.SanitizeDisplayText(gym.Timings)
	gym.Equipment = sanitizer.SanitizeSlice(gym.Equipment, sanitizer.SanitizeDisplayText)
	sanitizeImages(gym.Images)

	if err := s.validator.ValidateGym(gym); err != nil {
		return apperrors.Validation("Listing validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.CreateGym(ctx, gym); err != nil {
		s.cfg.Log.Error("Failed to create gym listing", "owner_id", actor.ID, "error", err)
		return apperrors.Internal("Failed to create listing", err)
	}

	s.cfg.Log.Info("Gym listing created", "id", gym.ID, "owner_id", actor.ID)
	return nil
}

func (s *catalogService) Get(ctx context.Context, ref model.ServiceRef) (*model.ServiceSnapshot, error) {
	return s.FindService(ctx, ref)
}

func (s *catalogService) FindService(ctx context.Context, ref model.ServiceRef) (*model.ServiceSnapshot, error) {
	if !ref.Type.Valid() {
		return nil, apperrors.InvalidInput("unknown service type: " + string(ref.Type))
	}
	if ref.ID == "" {
		return nil, apperrors.InvalidInput("service ID cannot be empty")
	}

	snapshot, err := s.repo.FindSnapshot(ctx, ref)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Service", ref.ID)
		}
		if errors.Is(err, catalogerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid service ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve service", err)
	}

	return snapshot, nil
}

func (s *catalogService) Browse(ctx context.Context, t model.ServiceType, limit int, offset int64) ([]*model.ServiceSnapshot, int64, error) {
	if !t.Valid() {
		return nil, 0, apperrors.InvalidInput("unknown service type: " + string(t))
	}

	var count int64
	var snapshots []*model.ServiceSnapshot
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountAvailable(ctx, t)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count listings", "service_type", t, "error", errCount)
			errCount = apperrors.Internal("Failed to count listings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		snapshots, errFind = s.repo.ListAvailable(ctx, t, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list listings", "service_type", t, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve listings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return snapshots, count, nil
}

func (s *catalogService) MyListings(ctx context.Context, actor *auth.Actor, limit int, offset int64) ([]*model.ServiceSnapshot, int64, error) {
	t, err := serviceTypeForOwner(actor)
	if err != nil {
		return nil, 0, err
	}

	snapshots, findErr := s.repo.ListByOwner(ctx, t, actor.ID, limit, offset)
	if findErr != nil {
		s.cfg.Log.Error("Failed to list own listings", "owner_id", actor.ID, "error", findErr)
		return nil, 0, apperrors.Internal("Failed to retrieve listings", findErr)
	}

	count, countErr := s.repo.CountByOwner(ctx, t, actor.ID)
	if countErr != nil {
		s.cfg.Log.Error("Failed to count own listings", "owner_id", actor.ID, "error", countErr)
		return nil, 0, apperrors.Internal("Failed to count listings", countErr)
	}

	return snapshots, count, nil
}

func (s *catalogService) SetAvailability(ctx context.Context, actor *auth.Actor, ref model.ServiceRef, available bool) error {
	if err := requireOwnerRole(actor, ref.Type); err != nil {
		return err
	}

	matched, err := s.repo.SetAvailability(ctx, ref, actor.ID, available)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid service ID format")
		}
		s.cfg.Log.Error("Failed to update availability", "service_id", ref.ID, "error", err)
		return apperrors.Internal("Failed to update availability", err)
	}
	if !matched {
		// Either the listing does not exist or it belongs to someone else;
		// the caller cannot tell which.
		return apperrors.NotFoundWithID("Listing", ref.ID)
	}

	s.cfg.Log.Info("Listing availability updated",
		"service_type", ref.Type,
		"service_id", ref.ID,
		"available", available,
	)
	return nil
}

func (s *catalogService) DeleteListing(ctx context.Context, actor *auth.Actor, ref model.ServiceRef) error {
	if err := requireOwnerRole(actor, ref.Type); err != nil {
		return err
	}

	deleted, err := s.repo.Delete(ctx, ref, actor.ID)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid service ID format")
		}
		s.cfg.Log.Error("Failed to delete listing", "service_id", ref.ID, "error", err)
		return apperrors.Internal("Failed to delete listing", err)
	}
	if !deleted {
		return apperrors.NotFoundWithID("Listing", ref.ID)
	}

	s.cfg.Log.Info("Listing deleted", "service_type", ref.Type, "service_id", ref.ID)
	return nil
}

func requireOwnerRole(actor *auth.Actor, t model.ServiceType) error {
	if !t.Valid() {
		return apperrors.InvalidInput("unknown service type: " + string(t))
	}
	if actor == nil || actor.Role != model.OwnerRoleFor(t) {
		return apperrors.Forbidden("only the matching owner role can manage this listing type")
	}
	return nil
}

func serviceTypeForOwner(actor *auth.Actor) (model.ServiceType, error) {
	if actor == nil {
		return "", apperrors.Forbidden("authentication required")
	}
	switch actor.Role {
	case model.RoleHostelOwner:
		return model.ServiceHostel, nil
	case model.RoleMessOwner:
		return model.ServiceMess, nil
	case model.RoleGymOwner:
		return model.ServiceGym, nil
	}
	return "", apperrors.Forbidden("only owner accounts have listings")
}

func sanitizeImages(images []model.Image) {
	for i := range images {
		images[i].URL = sanitizer.SanitizeURL(images[i].URL)
	}
}
