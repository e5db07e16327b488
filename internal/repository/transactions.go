package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"schoolhub/internal/model"
)

func (s *Store) InsertTransaction(ctx context.Context, txn model.Transaction) (string, error) {
	return s.insertOne(ctx, collTransactions, txn)
}

// InsertTransactions bulk-inserts a payroll run. No dedup key exists, so the
// same batch inserted twice produces duplicate records.
func (s *Store) InsertTransactions(ctx context.Context, txns []model.Transaction) (int, error) {
	if len(txns) == 0 {
		return 0, nil
	}
	docs := make([]any, len(txns))
	for i, txn := range txns {
		docs[i] = txn
	}
	result, err := s.db.Collection(collTransactions).InsertMany(ctx, docs)
	if err != nil {
		return 0, err
	}
	return len(result.InsertedIDs), nil
}

func (s *Store) ListTransactionsByType(ctx context.Context, transactionType string, skip, limit int64) ([]model.Transaction, error) {
	txns := []model.Transaction{}
	err := s.findPage(ctx, collTransactions, bson.M{"transaction_type": transactionType}, skip, limit, &txns)
	return txns, err
}

// SumIncome totals income-typed transaction amounts for the dashboard.
func (s *Store) SumIncome(ctx context.Context) (float64, error) {
	cursor, err := s.db.Collection(collTransactions).Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "transaction_type", Value: "income"}}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$amount"}}},
		}}},
	})
	if err != nil {
		return 0, err
	}
	var results []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}

// FinancialSummary computes total income and expenses in one grouped pass
// with conditional sums.
func (s *Store) FinancialSummary(ctx context.Context) (model.FinancialSummary, error) {
	cursor, err := s.db.Collection(collTransactions).Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total_income", Value: bson.D{{Key: "$sum", Value: bson.D{{Key: "$cond", Value: bson.A{
				bson.D{{Key: "$eq", Value: bson.A{"$transaction_type", "income"}}}, "$amount", 0,
			}}}}}},
			{Key: "total_expenses", Value: bson.D{{Key: "$sum", Value: bson.D{{Key: "$cond", Value: bson.A{
				bson.D{{Key: "$eq", Value: bson.A{"$transaction_type", "expense"}}}, "$amount", 0,
			}}}}}},
		}}},
	})
	if err != nil {
		return model.FinancialSummary{}, err
	}
	var results []model.FinancialSummary
	if err := cursor.All(ctx, &results); err != nil {
		return model.FinancialSummary{}, err
	}
	if len(results) == 0 {
		return model.FinancialSummary{}, nil
	}
	return results[0], nil
}
