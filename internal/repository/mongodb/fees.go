package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/ridershift/internal/domain/models"
)

type feeDocument struct {
	ID                 string `bson:"_id"`
	models.FeeSchedule `bson:",inline"`
}

// GetFeeSchedule loads the singleton schedule. repository.ErrNotFound means no
// administrator has saved one yet.
func (r *MongoDBRepository) GetFeeSchedule(ctx context.Context) (models.FeeSchedule, error) {
	var doc feeDocument
	if err := r.findByID(ctx, feesCollection, models.FeeScheduleID, &doc); err != nil {
		return models.FeeSchedule{}, err
	}
	return doc.FeeSchedule, nil
}

// SaveFeeSchedule upserts the singleton schedule.
func (r *MongoDBRepository) SaveFeeSchedule(ctx context.Context, schedule models.FeeSchedule) error {
	doc := feeDocument{ID: models.FeeScheduleID, FeeSchedule: schedule}
	_, err := r.db.Collection(feesCollection).ReplaceOne(ctx,
		bson.M{"_id": models.FeeScheduleID},
		doc,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save fee schedule: %w", err)
	}
	return nil
}
