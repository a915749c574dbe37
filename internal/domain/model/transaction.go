package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is a supplier payment submitted to the history pipeline.
type Transaction struct {
	occurredAt time.Time
	supplier   string
	amount     decimal.Decimal
}

// NewTransaction validates and creates a Transaction stamped with the current time.
func NewTransaction(supplier string, amount decimal.Decimal) (Transaction, error) {
	return NewTransactionAt(supplier, amount, time.Now())
}

// NewTransactionAt validates and creates a Transaction stamped with at.
func NewTransactionAt(supplier string, amount decimal.Decimal, at time.Time) (Transaction, error) {
	supplier, err := requireText("supplier", supplier)
	if err != nil {
		return Transaction{}, err
	}
	if err := requirePositive(amount); err != nil {
		return Transaction{}, err
	}
	return Transaction{
		supplier:   supplier,
		amount:     amount,
		occurredAt: at.UTC(),
	}, nil
}

func (t Transaction) Supplier() string        { return t.supplier }
func (t Transaction) Amount() decimal.Decimal { return t.amount }
func (t Transaction) OccurredAt() time.Time   { return t.occurredAt }

// HistoryEntry is the slice of a past record the history scorer reads.
type HistoryEntry struct {
	Amount decimal.Decimal
	Risk   int
}

// TransactionRecord is the stored form of a scored transaction. Records are
// append-only and never mutated.
type TransactionRecord struct {
	recordedAt time.Time
	supplier   string
	amount     decimal.Decimal
	risk       int
	id         uuid.UUID
}

// NewTransactionRecord binds a final risk score to a transaction.
func NewTransactionRecord(tx Transaction, risk int) (*TransactionRecord, error) {
	if risk < 0 || risk > 100 {
		return nil, fmt.Errorf("risk score must be between 0 and 100, got %d", risk)
	}
	return &TransactionRecord{
		id:         uuid.New(),
		supplier:   tx.Supplier(),
		amount:     tx.Amount(),
		risk:       risk,
		recordedAt: tx.OccurredAt(),
	}, nil
}

// ReconstructTransactionRecord rebuilds a record from persisted data (no validation).
func ReconstructTransactionRecord(
	id uuid.UUID,
	supplier string,
	amount decimal.Decimal,
	risk int,
	recordedAt time.Time,
) *TransactionRecord {
	return &TransactionRecord{
		id:         id,
		supplier:   supplier,
		amount:     amount,
		risk:       risk,
		recordedAt: recordedAt,
	}
}

func (r *TransactionRecord) ID() uuid.UUID           { return r.id }
func (r *TransactionRecord) Supplier() string        { return r.supplier }
func (r *TransactionRecord) Amount() decimal.Decimal { return r.amount }
func (r *TransactionRecord) Risk() int               { return r.risk }
func (r *TransactionRecord) RecordedAt() time.Time   { return r.recordedAt }

// HistoryEntry projects the record onto what the history scorer reads.
func (r *TransactionRecord) HistoryEntry() HistoryEntry {
	return HistoryEntry{Amount: r.amount, Risk: r.risk}
}
