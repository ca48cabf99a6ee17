package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/ridershift/internal/domain/models"
	"github.com/mamadbah2/ridershift/internal/repository"
)

// InsertShift stores a new shift entry.
func (r *MongoDBRepository) InsertShift(ctx context.Context, entry models.ShiftEntry) error {
	if _, err := r.db.Collection(shiftsCollection).InsertOne(ctx, entry); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to insert shift entry: %w", err)
	}
	return nil
}

// GetShift loads one entry by id.
func (r *MongoDBRepository) GetShift(ctx context.Context, id string) (models.ShiftEntry, error) {
	var entry models.ShiftEntry
	if err := r.findByID(ctx, shiftsCollection, id, &entry); err != nil {
		return models.ShiftEntry{}, err
	}
	return entry, nil
}

// ListShifts returns entries matching the filter, newest first.
func (r *MongoDBRepository) ListShifts(ctx context.Context, filter models.ShiftFilter) ([]models.ShiftEntry, error) {
	query := bson.M{}
	if filter.RiderID != "" {
		query["rider_id"] = filter.RiderID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if !filter.From.IsZero() || !filter.To.IsZero() {
		dateRange := bson.M{}
		if !filter.From.IsZero() {
			dateRange["$gte"] = filter.From
		}
		if !filter.To.IsZero() {
			dateRange["$lt"] = filter.To
		}
		query["entry_date"] = dateRange
	}
	if !filter.ClosedFrom.IsZero() || !filter.ClosedTo.IsZero() {
		closedRange := bson.M{}
		if !filter.ClosedFrom.IsZero() {
			closedRange["$gte"] = filter.ClosedFrom
		}
		if !filter.ClosedTo.IsZero() {
			closedRange["$lt"] = filter.ClosedTo
		}
		query["closed_at"] = closedRange
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cursor, err := r.db.Collection(shiftsCollection).Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("find shift entries: %w", err)
	}

	entries := make([]models.ShiftEntry, 0)
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("decode shift entries: %w", err)
	}
	return entries, nil
}

// UpdateShift replaces the entry when the stored version still equals
// expectedVersion.
func (r *MongoDBRepository) UpdateShift(ctx context.Context, entry models.ShiftEntry, expectedVersion int) error {
	res, err := r.db.Collection(shiftsCollection).ReplaceOne(ctx,
		bson.M{"_id": entry.ID, "version": expectedVersion},
		entry)
	if err != nil {
		return fmt.Errorf("replace shift entry %s: %w", entry.ID, err)
	}
	if res.MatchedCount == 1 {
		return nil
	}

	found, err := r.exists(ctx, shiftsCollection, entry.ID)
	if err != nil {
		return err
	}
	if !found {
		return repository.ErrNotFound
	}
	return repository.ErrConflict
}
