package sqlite

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/supplyshield/riskengine/internal/domain/model"
	"github.com/supplyshield/riskengine/internal/domain/valueobject"
	"github.com/supplyshield/riskengine/pkg/events"
)

// Seq is the insertion order; every list is ordered by it.
type transactionRow struct {
	RecordedAt time.Time
	ID         string          `gorm:"uniqueIndex;size:36;not null"`
	Supplier   string          `gorm:"index:idx_transaction_supplier_seq,priority:1;not null"`
	Amount     decimal.Decimal `gorm:"type:text;not null"`
	Seq        uint            `gorm:"primarykey;autoIncrement;index:idx_transaction_supplier_seq,priority:2"`
	Risk       int             `gorm:"not null"`
}

func (transactionRow) TableName() string {
	return "transaction_record"
}

type alertRow struct {
	CreatedAt time.Time
	ID        string `gorm:"uniqueIndex;size:36;not null"`
	Supplier  string `gorm:"not null"`
	Message   string `gorm:"not null"`
	Seq       uint   `gorm:"primarykey;autoIncrement"`
	Score     int    `gorm:"not null"`
}

func (alertRow) TableName() string {
	return "alert"
}

type financingRow struct {
	AssessedAt  time.Time
	ID          string          `gorm:"uniqueIndex;size:36;not null"`
	InvoiceNo   string          `gorm:"not null"`
	Amount      decimal.Decimal `gorm:"type:text;not null"`
	Supplier    string          `gorm:"not null"`
	Buyer       string          `gorm:"not null"`
	Lender      string          `gorm:"not null"`
	Fingerprint string          `gorm:"index;size:64;not null"`
	Verdict     string          `gorm:"size:8;not null"`
	Seq         uint            `gorm:"primarykey;autoIncrement"`
	RawScore    int             `gorm:"not null"`
	FinalScore  int             `gorm:"not null"`
	Duplicate   bool            `gorm:"not null"`
}

func (financingRow) TableName() string {
	return "financing_assessment"
}

// PublishedAt stays nil until the relay hands the entry to the broker.
type outboxRow struct {
	CreatedAt     time.Time
	PublishedAt   *time.Time `gorm:"index"`
	ID            string     `gorm:"uniqueIndex;size:36;not null"`
	AggregateID   string     `gorm:"size:36;not null"`
	AggregateType string     `gorm:"not null"`
	EventType     string     `gorm:"not null"`
	PartitionKey  string     `gorm:"not null"`
	Payload       []byte     `gorm:"not null"`
	Seq           uint       `gorm:"primarykey;autoIncrement"`
}

func (outboxRow) TableName() string {
	return "outbox"
}

var migrateModels = []any{
	&transactionRow{},
	&alertRow{},
	&financingRow{},
	&outboxRow{},
}

func fromTransactionRecord(r *model.TransactionRecord) *transactionRow {
	return &transactionRow{
		ID:         r.ID().String(),
		Supplier:   r.Supplier(),
		Amount:     r.Amount(),
		Risk:       r.Risk(),
		RecordedAt: r.RecordedAt(),
	}
}

func (r transactionRow) toModel() (*model.TransactionRecord, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, err
	}
	return model.ReconstructTransactionRecord(id, r.Supplier, r.Amount, r.Risk, r.RecordedAt.UTC()), nil
}

func fromAlert(a *model.Alert) *alertRow {
	return &alertRow{
		ID:        a.ID().String(),
		Supplier:  a.Supplier(),
		Score:     a.Score(),
		Message:   a.Message(),
		CreatedAt: a.CreatedAt(),
	}
}

func (r alertRow) toModel() (*model.Alert, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, err
	}
	return model.ReconstructAlert(id, r.Supplier, r.Score, r.Message, r.CreatedAt.UTC()), nil
}

func fromFinancingAssessment(a *model.FinancingAssessment) *financingRow {
	event := a.Event()
	return &financingRow{
		ID:          a.ID().String(),
		InvoiceNo:   event.InvoiceNumber(),
		Amount:      event.Amount(),
		Supplier:    event.Supplier(),
		Buyer:       event.Buyer(),
		Lender:      event.Lender(),
		Fingerprint: a.Fingerprint().String(),
		RawScore:    a.RawScore(),
		FinalScore:  a.FinalScore(),
		Verdict:     a.Verdict().String(),
		Duplicate:   a.Duplicate(),
		AssessedAt:  a.AssessedAt(),
	}
}

func (r financingRow) toModel() (*model.FinancingAssessment, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return nil, err
	}
	fingerprint, err := valueobject.FingerprintFromString(r.Fingerprint)
	if err != nil {
		return nil, err
	}
	verdict, err := valueobject.VerdictFromString(r.Verdict)
	if err != nil {
		return nil, err
	}
	return model.ReconstructFinancingAssessment(
		id, r.InvoiceNo, r.Amount, r.Supplier, r.Buyer, r.Lender,
		fingerprint, r.RawScore, r.FinalScore, verdict, r.Duplicate, r.AssessedAt.UTC(),
	), nil
}

func fromOutboxEntry(e events.OutboxEntry) *outboxRow {
	return &outboxRow{
		ID:            e.ID.String(),
		AggregateID:   e.AggregateID.String(),
		AggregateType: e.AggregateType,
		EventType:     e.EventType,
		PartitionKey:  e.PartitionKey,
		Payload:       e.Payload,
		CreatedAt:     e.CreatedAt,
	}
}

func (r outboxRow) toEntry() (events.OutboxEntry, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return events.OutboxEntry{}, err
	}
	aggregateID, err := uuid.Parse(r.AggregateID)
	if err != nil {
		return events.OutboxEntry{}, err
	}
	return events.OutboxEntry{
		ID:            id,
		AggregateID:   aggregateID,
		AggregateType: r.AggregateType,
		EventType:     r.EventType,
		PartitionKey:  r.PartitionKey,
		Payload:       r.Payload,
		CreatedAt:     r.CreatedAt.UTC(),
		PublishedAt:   r.PublishedAt,
	}, nil
}
