package attendance

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// NewTransaction is the input for recording a bonus or deduction.
type NewTransaction struct {
	EmployeeID EmployeeID
	Type       TransactionType
	Amount     decimal.Decimal
	Reason     string
}

func (n NewTransaction) Validate() error {
	if n.EmployeeID == "" {
		return invalid("employee_id", "is required")
	}
	if n.Type != TxBonus && n.Type != TxDeduction {
		return invalid("type", "must be 'bonus' or 'deduction'")
	}
	if !n.Amount.IsPositive() {
		return invalid("amount", "must be positive")
	}
	return nil
}

// AddTransaction records an adjustment for an existing employee.
func (s *Service) AddTransaction(ctx context.Context, in NewTransaction, now time.Time) (Transaction, error) {
	if err := in.Validate(); err != nil {
		return Transaction{}, err
	}
	if _, err := s.GetEmployee(ctx, in.EmployeeID); err != nil {
		return Transaction{}, err
	}

	tx := Transaction{
		ID:         TransactionID(s.ids()),
		EmployeeID: in.EmployeeID,
		At:         now,
		Type:       in.Type,
		Amount:     in.Amount,
		Reason:     strings.TrimSpace(in.Reason),
	}
	if err := s.store.AppendTransaction(ctx, tx); err != nil {
		return Transaction{}, err
	}
	return tx, nil
}

// ListTransactions returns an employee's adjustments, oldest first.
func (s *Service) ListTransactions(ctx context.Context, employeeID EmployeeID) ([]Transaction, error) {
	return s.store.ListTransactions(ctx, employeeID)
}
