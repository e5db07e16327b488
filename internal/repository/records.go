package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"schoolhub/internal/model"
)

// Inventory

func (s *Store) CreateInventoryItem(ctx context.Context, item model.InventoryItem) (string, error) {
	item.ID = bson.ObjectID{}
	return s.insertOne(ctx, collInventory, item)
}

func (s *Store) UpdateInventoryItem(ctx context.Context, id string, fields bson.M) error {
	return s.updateByID(ctx, collInventory, id, stripImmutable(fields))
}

func (s *Store) DeleteInventoryItem(ctx context.Context, id string) error {
	return s.deleteByID(ctx, collInventory, id)
}

func (s *Store) ListInventory(ctx context.Context, skip, limit int64) ([]model.InventoryItem, error) {
	items := []model.InventoryItem{}
	err := s.findPage(ctx, collInventory, bson.M{}, skip, limit, &items)
	return items, err
}

// Books

func (s *Store) CreateBook(ctx context.Context, book model.Book) (string, error) {
	book.ID = bson.ObjectID{}
	return s.insertOne(ctx, collBooks, book)
}

func (s *Store) UpdateBook(ctx context.Context, id string, fields bson.M) error {
	return s.updateByID(ctx, collBooks, id, stripImmutable(fields))
}

func (s *Store) DeleteBook(ctx context.Context, id string) error {
	return s.deleteByID(ctx, collBooks, id)
}

func (s *Store) ListBooks(ctx context.Context, skip, limit int64) ([]model.Book, error) {
	books := []model.Book{}
	err := s.findPage(ctx, collBooks, bson.M{}, skip, limit, &books)
	return books, err
}

// Buses

func (s *Store) CreateBus(ctx context.Context, bus model.Bus) (string, error) {
	bus.ID = bson.ObjectID{}
	return s.insertOne(ctx, collBuses, bus)
}

func (s *Store) UpdateBus(ctx context.Context, id string, fields bson.M) error {
	return s.updateByID(ctx, collBuses, id, stripImmutable(fields))
}

func (s *Store) DeleteBus(ctx context.Context, id string) error {
	return s.deleteByID(ctx, collBuses, id)
}

func (s *Store) ListBuses(ctx context.Context, skip, limit int64) ([]model.Bus, error) {
	buses := []model.Bus{}
	err := s.findPage(ctx, collBuses, bson.M{}, skip, limit, &buses)
	return buses, err
}

// Courses

func (s *Store) CreateCourse(ctx context.Context, course model.Course) (string, error) {
	course.ID = bson.ObjectID{}
	return s.insertOne(ctx, collCourses, course)
}

func (s *Store) UpdateCourse(ctx context.Context, id string, fields bson.M) error {
	return s.updateByID(ctx, collCourses, id, stripImmutable(fields))
}

func (s *Store) DeleteCourse(ctx context.Context, id string) error {
	return s.deleteByID(ctx, collCourses, id)
}

func (s *Store) ListCourses(ctx context.Context, skip, limit int64) ([]model.Course, error) {
	courses := []model.Course{}
	err := s.findPage(ctx, collCourses, bson.M{}, skip, limit, &courses)
	return courses, err
}

func (s *Store) CountCourses(ctx context.Context) (int64, error) {
	return s.db.Collection(collCourses).CountDocuments(ctx, bson.M{})
}

// Messages. Sending only persists the record; the SMS/email gateway is an
// external collaborator.

func (s *Store) InsertMessage(ctx context.Context, msg model.Message) (string, error) {
	msg.ID = bson.ObjectID{}
	return s.insertOne(ctx, collMessages, msg)
}

func (s *Store) CountUnreadMessages(ctx context.Context) (int64, error) {
	return s.db.Collection(collMessages).CountDocuments(ctx, bson.M{"status": "unread"})
}

// System logs

func (s *Store) InsertSystemLog(ctx context.Context, entry model.SystemLog) (string, error) {
	entry.ID = bson.ObjectID{}
	return s.insertOne(ctx, collSystemLogs, entry)
}

func (s *Store) CountUnreadNotifications(ctx context.Context) (int64, error) {
	return s.db.Collection(collSystemLogs).CountDocuments(ctx, bson.M{"severity": "unread"})
}

// Logout audit trail

func (s *Store) InsertLogout(ctx context.Context, userID string) (string, error) {
	oid, err := parseObjectID(userID)
	if err != nil {
		return "", err
	}
	record := model.LogoutRecord{
		UserID:     oid,
		LogoutTime: time.Now().UTC(),
	}
	return s.insertOne(ctx, collLogoutLogs, record)
}
