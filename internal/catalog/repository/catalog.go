package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	catalogerrors "campusnest/internal/catalog/errors"
	"campusnest/pkg/config"
	"campusnest/pkg/model"
)

const (
	HostelCollection = "HostelRooms"
	MessCollection   = "Messes"
	GymCollection    = "Gyms"
)

// CollectionFor maps a service type to its backing collection. The three
// kinds are separate collections on purpose; there is no shared base
// document.
func CollectionFor(t model.ServiceType) (string, bool) {
	switch t {
	case model.ServiceHostel:
		return HostelCollection, true
	case model.ServiceMess:
		return MessCollection, true
	case model.ServiceGym:
		return GymCollection, true
	}
	return "", false
}

type CatalogRepository interface {
	CreateHostel(ctx context.Context, room *model.HostelRoom) error
	CreateMess(ctx context.Context, mess *model.Mess) error
	CreateGym(ctx context.Context, gym *model.Gym) error

	// FindSnapshot resolves a tagged-union reference to a display snapshot
	// of the referenced document, whichever collection it lives in.
	FindSnapshot(ctx context.Context, ref model.ServiceRef) (*model.ServiceSnapshot, error)

	ListByOwner(ctx context.Context, t model.ServiceType, ownerID string, limit int, offset int64) ([]*model.ServiceSnapshot, error)
	CountByOwner(ctx context.Context, t model.ServiceType, ownerID string) (int64, error)
	ListAvailable(ctx context.Context, t model.ServiceType, limit int, offset int64) ([]*model.ServiceSnapshot, error)
	CountAvailable(ctx context.Context, t model.ServiceType) (int64, error)

	// SetAvailability flips the bookability gate. The filter asserts the
	// owner so a forged id cannot touch someone else's listing.
	SetAvailability(ctx context.Context, ref model.ServiceRef, ownerID string, available bool) (bool, error)
	Delete(ctx context.Context, ref model.ServiceRef, ownerID string) (bool, error)
}

type mongoCatalogRepository struct {
	cfg *config.Config
	db  *mongo.Database
}

func NewMongoCatalogRepository(cfg *config.Config) CatalogRepository {
	return &mongoCatalogRepository{
		cfg: cfg,
		db:  cfg.Client.Mongo.Database(cfg.MongoDatabaseName),
	}
}

func (r *mongoCatalogRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoCatalogRepository) CreateHostel(ctx context.Context, room *model.HostelRoom) error {
	id, err := r.insert(ctx, HostelCollection, room, func() { stampNew(&room.CreatedAt, &room.UpdatedAt) })
	if err != nil {
		return err
	}
	room.ID = id
	return nil
}

func (r *mongoCatalogRepository) CreateMess(ctx context.Context, mess *model.Mess) error {
	id, err := r.insert(ctx, MessCollection, mess, func() { stampNew(&mess.CreatedAt, &mess.UpdatedAt) })
	if err != nil {
		return err
	}
	mess.ID = id
	return nil
}

func (r *mongoCatalogRepository) CreateGym(ctx context.Context, gym *model.Gym) error {
	id, err := r.insert(ctx, GymCollection, gym, func() { stampNew(&gym.CreatedAt, &gym.UpdatedAt) })
	if err != nil {
		return err
	}
	gym.ID = id
	return nil
}

func stampNew(createdAt, updatedAt *time.Time) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	*createdAt = now
	*updatedAt = now
}

func (r *mongoCatalogRepository) insert(ctx context.Context, collection string, doc any, stamp func()) (string, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	stamp()
	result, err := r.db.Collection(collection).InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to create listing: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex(), nil
	}
	return "", nil
}

func (r *mongoCatalogRepository) FindSnapshot(ctx context.Context, ref model.ServiceRef) (*model.ServiceSnapshot, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	collection, ok := CollectionFor(ref.Type)
	if !ok {
		return nil, fmt.Errorf("unknown service type: %s", ref.Type)
	}

	objectID, err := primitive.ObjectIDFromHex(ref.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", catalogerrors.ErrInvalidID, ref.ID)
	}

	result := r.db.Collection(collection).FindOne(ctx, bson.M{"_id": objectID})

	snapshot, err := decodeSnapshot(ref.Type, result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, catalogerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find service: %w", err)
	}
	return snapshot, nil
}

// decodeSnapshot decodes the raw result into the kind-specific struct and
// projects it. This is the single place the type switch lives.
func decodeSnapshot(t model.ServiceType, result *mongo.SingleResult) (*model.ServiceSnapshot, error) {
	switch t {
	case model.ServiceHostel:
		var room model.HostelRoom
		if err := result.Decode(&room); err != nil {
			return nil, err
		}
		return room.Snapshot(), nil
	case model.ServiceMess:
		var mess model.Mess
		if err := result.Decode(&mess); err != nil {
			return nil, err
		}
		return mess.Snapshot(), nil
	case model.ServiceGym:
		var gym model.Gym
		if err := result.Decode(&gym); err != nil {
			return nil, err
		}
		return gym.Snapshot(), nil
	}
	return nil, fmt.Errorf("unknown service type: %s", t)
}

func (r *mongoCatalogRepository) ListByOwner(ctx context.Context, t model.ServiceType, ownerID string, limit int, offset int64) ([]*model.ServiceSnapshot, error) {
	return r.list(ctx, t, bson.M{"owner_id": ownerID}, limit, offset)
}

func (r *mongoCatalogRepository) CountByOwner(ctx context.Context, t model.ServiceType, ownerID string) (int64, error) {
	return r.count(ctx, t, bson.M{"owner_id": ownerID})
}

func (r *mongoCatalogRepository) ListAvailable(ctx context.Context, t model.ServiceType, limit int, offset int64) ([]*model.ServiceSnapshot, error) {
	return r.list(ctx, t, bson.M{"availability": true}, limit, offset)
}

func (r *mongoCatalogRepository) CountAvailable(ctx context.Context, t model.ServiceType) (int64, error) {
	return r.count(ctx, t, bson.M{"availability": true})
}

func (r *mongoCatalogRepository) list(ctx context.Context, t model.ServiceType, filter bson.M, limit int, offset int64) ([]*model.ServiceSnapshot, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	collection, ok := CollectionFor(t)
	if !ok {
		return nil, fmt.Errorf("unknown service type: %s", t)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.db.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	defer cursor.Close(ctx)

	snapshots := []*model.ServiceSnapshot{}
	for cursor.Next(ctx) {
		snapshot, err := decodeCursorSnapshot(t, cursor)
		if err != nil {
			return nil, fmt.Errorf("failed to decode service: %w", err)
		}
		snapshots = append(snapshots, snapshot)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate services: %w", err)
	}

	return snapshots, nil
}

func decodeCursorSnapshot(t model.ServiceType, cursor *mongo.Cursor) (*model.ServiceSnapshot, error) {
	switch t {
	case model.ServiceHostel:
		var room model.HostelRoom
		if err := cursor.Decode(&room); err != nil {
			return nil, err
		}
		return room.Snapshot(), nil
	case model.ServiceMess:
		var mess model.Mess
		if err := cursor.Decode(&mess); err != nil {
			return nil, err
		}
		return mess.Snapshot(), nil
	case model.ServiceGym:
		var gym model.Gym
		if err := cursor.Decode(&gym); err != nil {
			return nil, err
		}
		return gym.Snapshot(), nil
	}
	return nil, fmt.Errorf("unknown service type: %s", t)
}

func (r *mongoCatalogRepository) count(ctx context.Context, t model.ServiceType, filter bson.M) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	collection, ok := CollectionFor(t)
	if !ok {
		return 0, fmt.Errorf("unknown service type: %s", t)
	}

	count, err := r.db.Collection(collection).CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count services: %w", err)
	}
	return count, nil
}

func (r *mongoCatalogRepository) SetAvailability(ctx context.Context, ref model.ServiceRef, ownerID string, available bool) (bool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	collection, ok := CollectionFor(ref.Type)
	if !ok {
		return false, fmt.Errorf("unknown service type: %s", ref.Type)
	}

	objectID, err := primitive.ObjectIDFromHex(ref.ID)
	if err != nil {
		return false, fmt.Errorf("%w: %s", catalogerrors.ErrInvalidID, ref.ID)
	}

	filter := bson.M{"_id": objectID, "owner_id": ownerID}
	update := bson.M{"$set": bson.M{
		"availability": available,
		"updated_at":   time.Now().UTC().Truncate(time.Millisecond),
	}}

	result, err := r.db.Collection(collection).UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to update availability: %w", err)
	}
	return result.MatchedCount > 0, nil
}

func (r *mongoCatalogRepository) Delete(ctx context.Context, ref model.ServiceRef, ownerID string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	collection, ok := CollectionFor(ref.Type)
	if !ok {
		return false, fmt.Errorf("unknown service type: %s", ref.Type)
	}

	objectID, err := primitive.ObjectIDFromHex(ref.ID)
	if err != nil {
		return false, fmt.Errorf("%w: %s", catalogerrors.ErrInvalidID, ref.ID)
	}

	result, err := r.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": objectID, "owner_id": ownerID})
	if err != nil {
		return false, fmt.Errorf("failed to delete listing: %w", err)
	}
	return result.DeletedCount > 0, nil
}
