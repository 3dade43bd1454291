package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitgate/database"
	"fitgate/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingRepo implements BookingRepository using MongoDB. It holds
// a handle on the subscriptions collection as well, because the insert
// and the class debit commit together.
type MongoBookingRepo struct {
	coll    *mongo.Collection
	subColl *mongo.Collection
}

// NewMongoBookingRepo creates a new BookingRepository backed by MongoDB.
func NewMongoBookingRepo() BookingRepository {
	repo := &MongoBookingRepo{
		coll:    database.Collection("bookings"),
		subColl: database.Collection("subscriptions"),
	}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// ensureIndexes creates the lookup indexes plus the partial unique
// index that backs the one-CONFIRMED-booking-per-(user,slot,date)
// invariant at the storage layer.
func (r *MongoBookingRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "scheduleId", Value: 1}, {Key: "bookingDate", Value: 1}, {Key: "status", Value: 1}}},
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "scheduleId", Value: 1}, {Key: "bookingDate", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": models.BookingConfirmed}),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// CountConfirmed counts CONFIRMED bookings for one slot occurrence.
func (r *MongoBookingRepo) CountConfirmed(scheduleID, bookingDate string) (int64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"scheduleId":  scheduleID,
		"bookingDate": bookingDate,
		"status":      models.BookingConfirmed,
	}
	count, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings for schedule %s on %s: %w", scheduleID, bookingDate, err)
	}
	return count, nil
}

// HasConfirmed reports whether the user already booked the slot occurrence.
func (r *MongoBookingRepo) HasConfirmed(userID, scheduleID, bookingDate string) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"userId":      userID,
		"scheduleId":  scheduleID,
		"bookingDate": bookingDate,
		"status":      models.BookingConfirmed,
	}
	count, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check existing booking: %w", err)
	}
	return count > 0, nil
}

// GetByIDForUser retrieves a booking owned by the given user.
func (r *MongoBookingRepo) GetByIDForUser(bookingID, userID string) (*models.Booking, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var booking models.Booking
	err := r.coll.FindOne(ctx, bson.M{"id": bookingID, "userId": userID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking %s: %w", bookingID, err)
	}
	return &booking, nil
}

// debitFilter guards the class debit: only an entry with a positive
// balance matches, so concurrent debits can never push it negative.
func debitFilter(subscriptionID string) bson.M {
	return bson.M{"id": subscriptionID, "classesRemaining": bson.M{"$gt": 0}}
}

var (
	debitUpdate  = bson.M{"$inc": bson.M{"classesRemaining": -1}}
	creditUpdate = bson.M{"$inc": bson.M{"classesRemaining": 1}}
)

func statusUpdate(status string) bson.M {
	return bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now()}}
}

// CreateWithDebit inserts the booking and debits one class atomically.
// On a replica set both writes commit in one multi-document
// transaction; on a standalone deployment (sessions unavailable) it
// debits first and compensates with a credit if the insert fails.
func (r *MongoBookingRepo) CreateWithDebit(ctx context.Context, booking *models.Booking, subscriptionID string) error {
	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return r.createWithDebitCompensating(ctx, booking, subscriptionID)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		res, err := r.subColl.UpdateOne(sc, debitFilter(subscriptionID), debitUpdate)
		if err != nil {
			return fmt.Errorf("debit class failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrInsufficientCredits
		}

		if _, err := r.coll.InsertOne(sc, booking); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return ErrDuplicateBooking
			}
			return fmt.Errorf("insert booking failed: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		if errors.Is(err, ErrInsufficientCredits) || errors.Is(err, ErrDuplicateBooking) {
			return err
		}
		return fmt.Errorf("booking transaction failed: %w", err)
	}
	return nil
}

// createWithDebitCompensating is the saga fallback: debit, insert, and
// re-credit when the insert does not go through.
func (r *MongoBookingRepo) createWithDebitCompensating(ctx context.Context, booking *models.Booking, subscriptionID string) error {
	res, err := r.subColl.UpdateOne(ctx, debitFilter(subscriptionID), debitUpdate)
	if err != nil {
		return fmt.Errorf("debit class failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrInsufficientCredits
	}

	if _, err := r.coll.InsertOne(ctx, booking); err != nil {
		_, creditErr := r.subColl.UpdateOne(ctx, bson.M{"id": subscriptionID}, creditUpdate)
		if creditErr != nil {
			return fmt.Errorf("insert booking failed (%v) and compensating credit failed: %w", err, creditErr)
		}
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateBooking
		}
		return fmt.Errorf("insert booking failed: %w", err)
	}
	return nil
}

// SetStatus transitions a booking's status.
func (r *MongoBookingRepo) SetStatus(bookingID, status string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": bookingID}, statusUpdate(status))
	if err != nil {
		return fmt.Errorf("failed to update booking %s status: %w", bookingID, err)
	}
	if result.MatchedCount == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// CancelWithCredit flips the booking to CANCELLED and credits one class
// back to the subscription atomically. On a replica set both writes
// commit in one multi-document transaction; on a standalone deployment
// it cancels first and restores CONFIRMED if the credit fails.
func (r *MongoBookingRepo) CancelWithCredit(ctx context.Context, bookingID, subscriptionID string) error {
	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return r.cancelWithCreditCompensating(ctx, bookingID, subscriptionID)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		res, err := r.coll.UpdateOne(sc, bson.M{"id": bookingID}, statusUpdate(models.BookingCancelled))
		if err != nil {
			return fmt.Errorf("cancel booking failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrBookingNotFound
		}

		if _, err := r.subColl.UpdateOne(sc, bson.M{"id": subscriptionID}, creditUpdate); err != nil {
			return fmt.Errorf("credit class failed: %w", err)
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			return err
		}
		return fmt.Errorf("cancel transaction failed: %w", err)
	}
	return nil
}

// cancelWithCreditCompensating is the saga fallback: cancel, credit,
// and restore the CONFIRMED status when the credit does not go through.
func (r *MongoBookingRepo) cancelWithCreditCompensating(ctx context.Context, bookingID, subscriptionID string) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": bookingID}, statusUpdate(models.BookingCancelled))
	if err != nil {
		return fmt.Errorf("cancel booking failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrBookingNotFound
	}

	if _, err := r.subColl.UpdateOne(ctx, bson.M{"id": subscriptionID}, creditUpdate); err != nil {
		if _, restoreErr := r.coll.UpdateOne(ctx, bson.M{"id": bookingID}, statusUpdate(models.BookingConfirmed)); restoreErr != nil {
			return fmt.Errorf("credit class failed (%v) and restoring booking failed: %w", err, restoreErr)
		}
		return fmt.Errorf("credit class failed: %w", err)
	}
	return nil
}

// detailPipeline joins the schedule and its location onto bookings
// matching the filter, sorted by bookingDate ascending.
func detailPipeline(match bson.M) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "schedules",
			"localField":   "scheduleId",
			"foreignField": "id",
			"as":           "schedule",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$schedule", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "locations",
			"localField":   "schedule.locationId",
			"foreignField": "id",
			"as":           "location",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$location", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "bookingDate", Value: 1},
			{Key: "schedule.startTime", Value: 1},
		}}},
	}
}

func (r *MongoBookingRepo) findDetailed(match bson.M) ([]models.BookingDetail, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	cursor, err := r.coll.Aggregate(ctx, detailPipeline(match))
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.BookingDetail
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

// FindConfirmedByUser returns the user's CONFIRMED bookings, soonest first.
func (r *MongoBookingRepo) FindConfirmedByUser(userID string) ([]models.BookingDetail, error) {
	return r.findDetailed(bson.M{
		"userId": userID,
		"status": models.BookingConfirmed,
	})
}

// FindConfirmedForUserOnDate returns the user's CONFIRMED bookings for
// one calendar date.
func (r *MongoBookingRepo) FindConfirmedForUserOnDate(userID, bookingDate string) ([]models.BookingDetail, error) {
	return r.findDetailed(bson.M{
		"userId":      userID,
		"bookingDate": bookingDate,
		"status":      models.BookingConfirmed,
	})
}
