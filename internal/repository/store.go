package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
	ErrInvalid  = errors.New("invalid input")
)

const (
	collUsers        = "users"
	collTransactions = "transactions"
	collInventory    = "inventory"
	collBooks        = "books"
	collMessages     = "messages"
	collBuses        = "buses"
	collCourses      = "courses"
	collSystemLogs   = "system_logs"
	collSettings     = "settings"
	collLogoutLogs   = "logout_logs"
)

// Store issues declarative collection operations and trusts the server for
// indexing, durability, and per-document atomicity.
type Store struct {
	db *mongo.Database
}

func NewStore(db *mongo.Database) *Store {
	return &Store{db: db}
}

func (s *Store) insertOne(ctx context.Context, coll string, doc any) (string, error) {
	result, err := s.db.Collection(coll).InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}
	id, ok := result.InsertedID.(bson.ObjectID)
	if !ok {
		return "", errors.New("unexpected inserted id type")
	}
	return id.Hex(), nil
}

func (s *Store) updateByID(ctx context.Context, coll, id string, fields bson.M) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}
	result, err := s.db.Collection(coll).UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) deleteByID(ctx context.Context, coll, id string) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}
	result, err := s.db.Collection(coll).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) findPage(ctx context.Context, coll string, filter bson.M, skip, limit int64, out any) error {
	opts := options.Find().SetSkip(skip).SetLimit(limit)
	cursor, err := s.db.Collection(coll).Find(ctx, filter, opts)
	if err != nil {
		return err
	}
	return cursor.All(ctx, out)
}

func parseObjectID(id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.ObjectID{}, fmt.Errorf("%w: malformed id %q", ErrInvalid, id)
	}
	return oid, nil
}

// stripImmutable removes client-supplied identifier fields from a partial
// update so a merge can never rewrite a document's _id.
func stripImmutable(fields bson.M) bson.M {
	delete(fields, "_id")
	delete(fields, "id")
	return fields
}
