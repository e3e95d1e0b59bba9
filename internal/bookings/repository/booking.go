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

	bookingserrors "campusnest/internal/bookings/errors"
	"campusnest/pkg/config"
	"campusnest/pkg/model"
)

const (
	CollectionName = "Bookings"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindByStudent(ctx context.Context, studentID string, status model.BookingStatus, limit int, offset int64) ([]*model.Booking, error)
	CountByStudent(ctx context.Context, studentID string, status model.BookingStatus) (int64, error)
	FindByOwner(ctx context.Context, ownerID string, status model.BookingStatus, limit int, offset int64) ([]*model.Booking, error)
	CountByOwner(ctx context.Context, ownerID string, status model.BookingStatus) (int64, error)
	UpdateStatus(ctx context.Context, id string, from, to model.BookingStatus) error
	RecordPayment(ctx context.Context, id string, payment *model.PaymentDetails, receiptNumber string) error
}

type mongoBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoBookingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	booking.CreatedAt = now
	booking.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, booking)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	var booking model.Booking
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

func (r *mongoBookingRepository) FindByStudent(ctx context.Context, studentID string, status model.BookingStatus, limit int, offset int64) ([]*model.Booking, error) {
	return r.findByParty(ctx, bson.M{"student_id": studentID}, status, limit, offset)
}

func (r *mongoBookingRepository) CountByStudent(ctx context.Context, studentID string, status model.BookingStatus) (int64, error) {
	return r.countByParty(ctx, bson.M{"student_id": studentID}, status)
}

func (r *mongoBookingRepository) FindByOwner(ctx context.Context, ownerID string, status model.BookingStatus, limit int, offset int64) ([]*model.Booking, error) {
	return r.findByParty(ctx, bson.M{"owner_id": ownerID}, status, limit, offset)
}

func (r *mongoBookingRepository) CountByOwner(ctx context.Context, ownerID string, status model.BookingStatus) (int64, error) {
	return r.countByParty(ctx, bson.M{"owner_id": ownerID}, status)
}

func (r *mongoBookingRepository) findByParty(ctx context.Context, filter bson.M, status model.BookingStatus, limit int, offset int64) ([]*model.Booking, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	if status != "" {
		filter["status"] = status
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingRepository) countByParty(ctx context.Context, filter bson.M, status model.BookingStatus) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	if status != "" {
		filter["status"] = status
	}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

// UpdateStatus flips the lifecycle status with a conditional write: the
// filter asserts the expected current status, so a concurrent transition
// makes MatchedCount zero instead of silently overwriting. Callers that
// already observed the booking translate ErrStaleState into a conflict.
func (r *mongoBookingRepository) UpdateStatus(ctx context.Context, id string, from, to model.BookingStatus) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	filter := bson.M{
		"_id":    objectID,
		"status": from,
	}
	update := bson.M{
		"$set": bson.M{
			"status":     to,
			"updated_at": time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	if result.MatchedCount == 0 {
		return bookingserrors.ErrStaleState
	}
	return nil
}

// RecordPayment stamps the payment fields and flips payment_status in one
// conditional write. The filter asserts the booking is still accepted and
// unpaid, which makes the receipt stamp a one-shot.
func (r *mongoBookingRepository) RecordPayment(ctx context.Context, id string, payment *model.PaymentDetails, receiptNumber string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	filter := bson.M{
		"_id":            objectID,
		"status":         model.StatusAccepted,
		"payment_status": model.PaymentUnpaid,
	}
	update := bson.M{
		"$set": bson.M{
			"payment_status":  model.PaymentPaid,
			"payment_details": payment,
			"receipt_number":  receiptNumber,
			"updated_at":      time.Now().UTC().Truncate(time.Millisecond),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to record payment: %w", err)
	}

	if result.MatchedCount == 0 {
		return bookingserrors.ErrStaleState
	}
	return nil
}
