package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"schoolhub/internal/auth"
	"schoolhub/internal/crypto"
	"schoolhub/internal/model"
	"schoolhub/internal/repository"
)

type fakeDirectory struct {
	users      map[string]model.User // keyed by hex id
	byUsername map[string]string
	lastLogin  map[string]time.Time
	logouts    []string
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		users:      map[string]model.User{},
		byUsername: map[string]string{},
		lastLogin:  map[string]time.Time{},
	}
}

func (f *fakeDirectory) add(username, password string, role model.Role) model.User {
	hash, err := crypto.HashPassword(password)
	if err != nil {
		panic(err)
	}
	user := model.User{
		ID:           bson.NewObjectID(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	f.users[user.ID.Hex()] = user
	f.byUsername[username] = user.ID.Hex()
	return user
}

func (f *fakeDirectory) GetUserByUsername(_ context.Context, username string) (model.User, error) {
	id, ok := f.byUsername[username]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return f.users[id], nil
}

func (f *fakeDirectory) GetUserByID(_ context.Context, id string) (model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return user, nil
}

func (f *fakeDirectory) SetLastLogin(_ context.Context, id string, at time.Time) error {
	f.lastLogin[id] = at
	return nil
}

func (f *fakeDirectory) InsertLogout(_ context.Context, userID string) (string, error) {
	f.logouts = append(f.logouts, userID)
	return bson.NewObjectID().Hex(), nil
}

func newTestAuth(dir UserDirectory) *Auth {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewAuth(dir, "test-secret", "test-issuer", 30*time.Minute, nil, log)
}

func TestLoginSuccess(t *testing.T) {
	dir := newFakeDirectory()
	alice := dir.add("alice", "longenough1", model.RoleStudent)
	svc := newTestAuth(dir)

	token, user, err := svc.Login(context.Background(), "alice", "longenough1")
	if err != nil {
		t.Fatalf("login error: %v", err)
	}
	if user.ID != alice.ID {
		t.Fatalf("expected alice back")
	}

	claims, err := auth.ParseToken("test-secret", token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.Subject != alice.ID.Hex() {
		t.Fatalf("expected subject %s, got %s", alice.ID.Hex(), claims.Subject)
	}
	if claims.Role != "student" {
		t.Fatalf("expected role student, got %s", claims.Role)
	}
	if _, ok := dir.lastLogin[alice.ID.Hex()]; !ok {
		t.Fatalf("expected last-login refresh")
	}
}

func TestLoginFailuresIndistinguishable(t *testing.T) {
	dir := newFakeDirectory()
	dir.add("alice", "longenough1", model.RoleStudent)
	svc := newTestAuth(dir)

	_, _, wrongPassword := svc.Login(context.Background(), "alice", "wrong")
	_, _, unknownUser := svc.Login(context.Background(), "nobody", "anything")

	if !errors.Is(wrongPassword, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPassword)
	}
	if !errors.Is(unknownUser, ErrInvalidCredentials) {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", unknownUser)
	}
	if wrongPassword.Error() != unknownUser.Error() {
		t.Fatalf("the two failures must be indistinguishable")
	}
}

func TestResolveBearer(t *testing.T) {
	dir := newFakeDirectory()
	alice := dir.add("alice", "longenough1", model.RoleStudent)
	svc := newTestAuth(dir)

	token, _, err := svc.Login(context.Background(), "alice", "longenough1")
	if err != nil {
		t.Fatalf("login error: %v", err)
	}

	user, err := svc.ResolveBearer(context.Background(), token)
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}
	if user.ID != alice.ID {
		t.Fatalf("expected alice back")
	}
}

func TestResolveBearerDeletedSubject(t *testing.T) {
	dir := newFakeDirectory()
	alice := dir.add("alice", "longenough1", model.RoleStudent)
	svc := newTestAuth(dir)

	token, _, err := svc.Login(context.Background(), "alice", "longenough1")
	if err != nil {
		t.Fatalf("login error: %v", err)
	}

	// The directory, not the token payload, is the source of truth.
	delete(dir.users, alice.ID.Hex())

	if _, err := svc.ResolveBearer(context.Background(), token); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestResolveBearerRejectsGarbage(t *testing.T) {
	svc := newTestAuth(newFakeDirectory())
	if _, err := svc.ResolveBearer(context.Background(), "not-a-token"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestLogoutWritesAudit(t *testing.T) {
	dir := newFakeDirectory()
	alice := dir.add("alice", "longenough1", model.RoleStudent)
	svc := newTestAuth(dir)

	token, _, err := svc.Login(context.Background(), "alice", "longenough1")
	if err != nil {
		t.Fatalf("login error: %v", err)
	}

	logoutID, err := svc.Logout(context.Background(), alice, token)
	if err != nil {
		t.Fatalf("logout error: %v", err)
	}
	if logoutID == "" {
		t.Fatalf("expected a logout record id")
	}
	if len(dir.logouts) != 1 || dir.logouts[0] != alice.ID.Hex() {
		t.Fatalf("expected one audit record for alice")
	}

	// Without a denylist the token stays valid for its full lifetime.
	if _, err := svc.ResolveBearer(context.Background(), token); err != nil {
		t.Fatalf("token should remain valid after logout: %v", err)
	}
}

func TestAuthorize(t *testing.T) {
	admin := model.User{Role: model.RoleAdmin}
	student := model.User{Role: model.RoleStudent}

	if !Authorize(admin, model.RoleAdmin, model.RoleSupport) {
		t.Fatalf("admin should pass the admin/support gate")
	}
	if Authorize(student, model.RoleAdmin, model.RoleSupport) {
		t.Fatalf("student must not pass the admin/support gate")
	}
	if Authorize(student) {
		t.Fatalf("empty allow-set must deny")
	}
}
