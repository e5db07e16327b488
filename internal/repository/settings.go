package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// UpsertSettings merges the supplied fields into the single settings
// document, creating it on first write.
func (s *Store) UpsertSettings(ctx context.Context, fields bson.M) error {
	fields = stripImmutable(fields)
	_, err := s.db.Collection(collSettings).UpdateOne(
		ctx,
		bson.M{},
		bson.M{"$set": fields},
		options.UpdateOne().SetUpsert(true),
	)
	return err
}

func (s *Store) GetSettings(ctx context.Context) (bson.M, error) {
	settings := bson.M{}
	err := s.db.Collection(collSettings).FindOne(ctx, bson.M{}).Decode(&settings)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return settings, ErrNotFound
	}
	return settings, err
}
