package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/ridershift/internal/domain/models"
	"github.com/mamadbah2/ridershift/internal/repository"
)

// InsertDue stores a new due.
func (r *MongoDBRepository) InsertDue(ctx context.Context, due models.Due) error {
	if _, err := r.db.Collection(duesCollection).InsertOne(ctx, due); err != nil {
		return fmt.Errorf("failed to insert due: %w", err)
	}
	return nil
}

// GetDue loads one due by id.
func (r *MongoDBRepository) GetDue(ctx context.Context, id string) (models.Due, error) {
	var due models.Due
	if err := r.findByID(ctx, duesCollection, id, &due); err != nil {
		return models.Due{}, err
	}
	return due, nil
}

// ListDues returns dues matching the filter, newest first.
func (r *MongoDBRepository) ListDues(ctx context.Context, filter models.DueFilter) ([]models.Due, error) {
	query := bson.M{}
	if filter.RiderID != "" {
		query["rider_id"] = filter.RiderID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	cursor, err := r.db.Collection(duesCollection).Find(ctx, query,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find dues: %w", err)
	}

	dues := make([]models.Due, 0)
	if err := cursor.All(ctx, &dues); err != nil {
		return nil, fmt.Errorf("decode dues: %w", err)
	}
	return dues, nil
}

// SetDueStatus overwrites the status of a due.
func (r *MongoDBRepository) SetDueStatus(ctx context.Context, id string, status models.DueStatus, at time.Time) error {
	set := bson.M{"status": status}
	if status == models.DuePaid {
		set["paid_at"] = at
	}

	res, err := r.db.Collection(duesCollection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update due %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
