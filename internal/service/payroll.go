package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"schoolhub/internal/model"
)

type PayrollStore interface {
	ListActiveStaff(ctx context.Context) ([]model.User, error)
	InsertTransactions(ctx context.Context, txns []model.Transaction) (int, error)
}

type Payroll struct {
	store PayrollStore
	log   *slog.Logger
}

func NewPayroll(store PayrollStore, log *slog.Logger) *Payroll {
	return &Payroll{store: store, log: log}
}

// Process synthesizes one salary transaction per active staff member for the
// period and bulk-inserts the batch, returning the count inserted. There is
// no dedup key: running the same period twice duplicates the records.
func (p *Payroll) Process(ctx context.Context, period time.Time) (int, error) {
	staff, err := p.store.ListActiveStaff(ctx)
	if err != nil {
		return 0, err
	}

	txns := make([]model.Transaction, 0, len(staff))
	for _, employee := range staff {
		txns = append(txns, model.Transaction{
			UserID:          employee.ID,
			Amount:          employee.Salary,
			TransactionType: "salary",
			Description:     fmt.Sprintf("Salary for %s", period.Format("January 2006")),
			Date:            period,
			Category:        "payroll",
			PaymentMethod:   "bank_transfer",
			Status:          "processed",
			InvoiceNumber:   uuid.NewString(),
		})
	}

	inserted, err := p.store.InsertTransactions(ctx, txns)
	if err != nil {
		return 0, err
	}
	p.log.Info("payroll processed", "period", period.Format("2006-01"), "employees", inserted)
	return inserted, nil
}
