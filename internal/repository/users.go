package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"schoolhub/internal/model"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// CreateUser validates the candidate, checks username and email uniqueness in
// a single combined lookup, and inserts the record. The caller supplies the
// password already hashed.
func (s *Store) CreateUser(ctx context.Context, user model.User) (string, error) {
	if user.Username == "" {
		return "", fmt.Errorf("%w: missing required field username", ErrInvalid)
	}
	if user.PasswordHash == "" {
		return "", fmt.Errorf("%w: missing required field password", ErrInvalid)
	}
	if user.Email == "" {
		return "", fmt.Errorf("%w: missing required field email", ErrInvalid)
	}
	if !user.Role.Valid() {
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalid, user.Role)
	}
	if !emailPattern.MatchString(user.Email) {
		return "", fmt.Errorf("%w: malformed email", ErrInvalid)
	}

	count, err := s.db.Collection(collUsers).CountDocuments(ctx, bson.M{
		"$or": bson.A{
			bson.M{"username": user.Username},
			bson.M{"email": user.Email},
		},
	})
	if err != nil {
		return "", err
	}
	if count > 0 {
		return "", fmt.Errorf("%w: username or email taken", ErrConflict)
	}

	now := time.Now().UTC()
	user.ID = bson.ObjectID{}
	user.IsActive = true
	user.CreatedAt = now
	user.UpdatedAt = now
	return s.insertOne(ctx, collUsers, user)
}

func (s *Store) GetUserByID(ctx context.Context, id string) (model.User, error) {
	var user model.User
	oid, err := parseObjectID(id)
	if err != nil {
		return user, err
	}
	err = s.db.Collection(collUsers).FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return user, ErrNotFound
	}
	return user, err
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	var user model.User
	err := s.db.Collection(collUsers).FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return user, ErrNotFound
	}
	return user, err
}

func (s *Store) ListUsersByRole(ctx context.Context, role model.Role, skip, limit int64) ([]model.User, error) {
	users := []model.User{}
	err := s.findPage(ctx, collUsers, bson.M{"role": role}, skip, limit, &users)
	return users, err
}

// ListUsers serves the student and employee listings; the caller pins or
// omits the role in the filter.
func (s *Store) ListUsers(ctx context.Context, filter bson.M, skip, limit int64) ([]model.User, error) {
	if filter == nil {
		filter = bson.M{}
	}
	users := []model.User{}
	err := s.findPage(ctx, collUsers, filter, skip, limit, &users)
	return users, err
}

// ListActiveStaff returns every active user holding a payroll-eligible role.
func (s *Store) ListActiveStaff(ctx context.Context) ([]model.User, error) {
	cursor, err := s.db.Collection(collUsers).Find(ctx, bson.M{
		"is_active": true,
		"role":      bson.M{"$in": model.StaffRoles},
	})
	if err != nil {
		return nil, err
	}
	users := []model.User{}
	err = cursor.All(ctx, &users)
	return users, err
}

// UpdateUser applies a permissive partial merge: only supplied fields are
// overwritten and no re-validation runs against the merged document, except
// that a supplied role must be one of the known values. The extraFilter pins
// the match beyond the id (e.g. role=student for the student endpoints).
func (s *Store) UpdateUser(ctx context.Context, id string, fields bson.M, extraFilter bson.M) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}
	fields = stripImmutable(fields)
	if role, ok := fields["role"]; ok {
		value, _ := role.(string)
		if !model.Role(value).Valid() {
			return fmt.Errorf("%w: unknown role %q", ErrInvalid, value)
		}
	}
	fields["updated_at"] = time.Now().UTC()

	filter := bson.M{"_id": oid}
	for key, value := range extraFilter {
		filter[key] = value
	}
	result, err := s.db.Collection(collUsers).UpdateOne(ctx, filter, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteUser archives (flips is_active) or physically removes a user. Both
// paths report ErrNotFound when nothing matched.
func (s *Store) DeleteUser(ctx context.Context, id string, archive bool, extraFilter bson.M) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}
	filter := bson.M{"_id": oid}
	for key, value := range extraFilter {
		filter[key] = value
	}

	if archive {
		result, err := s.db.Collection(collUsers).UpdateOne(ctx, filter, bson.M{"$set": bson.M{"is_active": false}})
		if err != nil {
			return err
		}
		if result.MatchedCount == 0 {
			return ErrNotFound
		}
		return nil
	}

	result, err := s.db.Collection(collUsers).DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) SetLastLogin(ctx context.Context, id string, at time.Time) error {
	oid, err := parseObjectID(id)
	if err != nil {
		return err
	}
	_, err = s.db.Collection(collUsers).UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"last_login": at}})
	return err
}

func (s *Store) CountUsersByRole(ctx context.Context, role model.Role) (int64, error) {
	return s.db.Collection(collUsers).CountDocuments(ctx, bson.M{"role": role})
}
