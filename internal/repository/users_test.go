package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"schoolhub/internal/crypto"
	"schoolhub/internal/db"
	"schoolhub/internal/model"
	"schoolhub/internal/repository"
)

// openTestStore connects to the database named by MONGO_TEST_URI and hands
// back a store over a throwaway database. Tests skip when no test server is
// reachable.
func openTestStore(t *testing.T) *repository.Store {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	name := fmt.Sprintf("schoolhub_test_%d", time.Now().UnixNano())
	client, database, err := db.Connect(ctx, uri, name)
	if err != nil {
		t.Skipf("mongo not reachable: %v", err)
	}
	t.Cleanup(func() {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = database.Drop(cleanupCtx)
		_ = client.Disconnect(cleanupCtx)
	})

	return repository.NewStore(database)
}

func testUser(username string, role model.Role) model.User {
	hash, err := crypto.HashPassword("longenough1")
	if err != nil {
		panic(err)
	}
	return model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		FirstName:    "Test",
		LastName:     "User",
		Role:         role,
	}
}

func TestCreateUserAndConflicts(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	id, err := store.CreateUser(ctx, testUser("alice", model.RoleStudent))
	if err != nil {
		t.Fatalf("create error: %v", err)
	}

	user, err := store.GetUserByID(ctx, id)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if !user.IsActive {
		t.Fatalf("new users must be active")
	}
	if user.PasswordHash == "longenough1" {
		t.Fatalf("stored digest must not equal the plaintext")
	}
	if user.CreatedAt.IsZero() || user.UpdatedAt.IsZero() {
		t.Fatalf("expected creation timestamps")
	}

	// Same username, different email.
	dup := testUser("alice", model.RoleStudent)
	dup.Email = "other@example.com"
	if _, err := store.CreateUser(ctx, dup); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate username, got %v", err)
	}

	// Same email, different username.
	dup = testUser("bob", model.RoleStudent)
	dup.Email = "alice@example.com"
	if _, err := store.CreateUser(ctx, dup); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate email, got %v", err)
	}
}

func TestCreateUserValidation(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	cases := map[string]model.User{
		"missing username": {Email: "a@x.com", PasswordHash: "digest", Role: model.RoleStudent},
		"missing password": {Username: "u", Email: "a@x.com", Role: model.RoleStudent},
		"missing email":    {Username: "u", PasswordHash: "digest", Role: model.RoleStudent},
		"unknown role":     {Username: "u", Email: "a@x.com", PasswordHash: "digest", Role: "principal"},
		"malformed email":  {Username: "u", Email: "not-an-email", PasswordHash: "digest", Role: model.RoleStudent},
	}
	for name, candidate := range cases {
		if _, err := store.CreateUser(ctx, candidate); !errors.Is(err, repository.ErrInvalid) {
			t.Fatalf("%s: expected ErrInvalid, got %v", name, err)
		}
	}
}

func TestGetUserByUsername(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, err := store.CreateUser(ctx, testUser("carol", model.RoleTeacher)); err != nil {
		t.Fatalf("create error: %v", err)
	}

	user, err := store.GetUserByUsername(ctx, "carol")
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if user.Role != model.RoleTeacher {
		t.Fatalf("expected teacher, got %s", user.Role)
	}

	if _, err := store.GetUserByUsername(ctx, "nobody"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteUserArchiveAndPhysical(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	id, err := store.CreateUser(ctx, testUser("dave", model.RoleStudent))
	if err != nil {
		t.Fatalf("create error: %v", err)
	}

	// Archive keeps the record retrievable with is_active=false.
	if err := store.DeleteUser(ctx, id, true, nil); err != nil {
		t.Fatalf("archive error: %v", err)
	}
	user, err := store.GetUserByID(ctx, id)
	if err != nil {
		t.Fatalf("archived user must stay retrievable: %v", err)
	}
	if user.IsActive {
		t.Fatalf("archived user must be inactive")
	}

	// Physical delete removes it.
	if err := store.DeleteUser(ctx, id, false, nil); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	if _, err := store.GetUserByID(ctx, id); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after physical delete, got %v", err)
	}
	if err := store.DeleteUser(ctx, id, false, nil); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on repeat delete, got %v", err)
	}
	if err := store.DeleteUser(ctx, bson.NewObjectID().Hex(), true, nil); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound archiving a missing user, got %v", err)
	}
}

func TestListUsersByRolePagination(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := store.CreateUser(ctx, testUser(fmt.Sprintf("student%d", i), model.RoleStudent)); err != nil {
			t.Fatalf("create error: %v", err)
		}
	}
	if _, err := store.CreateUser(ctx, testUser("teacher0", model.RoleTeacher)); err != nil {
		t.Fatalf("create error: %v", err)
	}

	page, err := store.ListUsersByRole(ctx, model.RoleStudent, 0, 3)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(page) != 3 {
		t.Fatalf("expected 3 students on first page, got %d", len(page))
	}

	rest, err := store.ListUsersByRole(ctx, model.RoleStudent, 3, 3)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(rest) != 2 {
		t.Fatalf("expected 2 students on second page, got %d", len(rest))
	}
}

func TestUpdateUserPartialMerge(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	id, err := store.CreateUser(ctx, testUser("erin", model.RoleSupport))
	if err != nil {
		t.Fatalf("create error: %v", err)
	}

	// Only supplied fields are overwritten.
	if err := store.UpdateUser(ctx, id, bson.M{"department": "facilities"}, nil); err != nil {
		t.Fatalf("update error: %v", err)
	}
	user, err := store.GetUserByID(ctx, id)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if user.Department != "facilities" {
		t.Fatalf("expected department update")
	}
	if user.Username != "erin" || user.Role != model.RoleSupport {
		t.Fatalf("untouched fields must survive the merge")
	}

	if err := store.UpdateUser(ctx, id, bson.M{"role": "principal"}, nil); !errors.Is(err, repository.ErrInvalid) {
		t.Fatalf("expected ErrInvalid for unknown role, got %v", err)
	}
	if err := store.UpdateUser(ctx, bson.NewObjectID().Hex(), bson.M{"department": "x"}, nil); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.UpdateUser(ctx, "garbage", bson.M{"department": "x"}, nil); !errors.Is(err, repository.ErrInvalid) {
		t.Fatalf("expected ErrInvalid for malformed id, got %v", err)
	}
}

func TestFinancialAggregations(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	owner := bson.NewObjectID()
	seed := []model.Transaction{
		{UserID: owner, Amount: 1000, TransactionType: "income", Category: "fees", Date: time.Now(), PaymentMethod: "card", Status: "completed"},
		{UserID: owner, Amount: 250, TransactionType: "income", Category: "fees", Date: time.Now(), PaymentMethod: "card", Status: "completed"},
		{UserID: owner, Amount: 400, TransactionType: "expense", Category: "supplies", Date: time.Now(), PaymentMethod: "card", Status: "completed"},
	}
	if _, err := store.InsertTransactions(ctx, seed); err != nil {
		t.Fatalf("insert error: %v", err)
	}

	income, err := store.SumIncome(ctx)
	if err != nil {
		t.Fatalf("sum error: %v", err)
	}
	if income != 1250 {
		t.Fatalf("expected income 1250, got %f", income)
	}

	summary, err := store.FinancialSummary(ctx)
	if err != nil {
		t.Fatalf("summary error: %v", err)
	}
	if summary.TotalIncome != 1250 || summary.TotalExpenses != 400 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestSettingsUpsert(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, err := store.GetSettings(ctx); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound before first write, got %v", err)
	}

	if err := store.UpsertSettings(ctx, bson.M{"school_name": "Northside High", "max_class_size": 30}); err != nil {
		t.Fatalf("upsert error: %v", err)
	}
	if err := store.UpsertSettings(ctx, bson.M{"maintenance_mode": true}); err != nil {
		t.Fatalf("merge error: %v", err)
	}

	settings, err := store.GetSettings(ctx)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if settings["school_name"] != "Northside High" {
		t.Fatalf("expected merged settings to keep earlier fields: %+v", settings)
	}
	if settings["maintenance_mode"] != true {
		t.Fatalf("expected merged maintenance_mode: %+v", settings)
	}
}
