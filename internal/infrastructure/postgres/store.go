package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/supplyshield/riskengine/internal/domain/errs"
	"github.com/supplyshield/riskengine/internal/domain/model"
	"github.com/supplyshield/riskengine/internal/domain/valueobject"
	"github.com/supplyshield/riskengine/pkg/events"
	pgutil "github.com/supplyshield/riskengine/pkg/postgres"
)

// Store implements port.Store using PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new PostgreSQL-backed store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return errs.NewStorage("ping", err)
	}
	return nil
}

// Close releases the pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// LoadHistory returns the supplier's records, oldest first.
func (s *Store) LoadHistory(ctx context.Context, supplier string) ([]model.HistoryEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT amount, risk FROM transactions WHERE supplier = $1 ORDER BY seq`,
		supplier,
	)
	if err != nil {
		return nil, errs.NewStorage("load history", err)
	}
	defer rows.Close()

	var history []model.HistoryEntry
	for rows.Next() {
		var h model.HistoryEntry
		if err := rows.Scan(&h.Amount, &h.Risk); err != nil {
			return nil, errs.NewStorage("load history", err)
		}
		history = append(history, h)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.NewStorage("load history", err)
	}
	return history, nil
}

// AppendTransaction stores the record, its alert when present, and the outbox
// entries for evts in one transaction.
func (s *Store) AppendTransaction(ctx context.Context, record *model.TransactionRecord, alert *model.Alert, evts ...events.DomainEvent) error {
	err := pgutil.WithTransaction(ctx, s.pool, func(tx pgx.Tx) error {
		if err := insertTransaction(ctx, tx, record); err != nil {
			return err
		}
		if alert != nil {
			if err := insertAlert(ctx, tx, alert); err != nil {
				return err
			}
		}
		return writeOutbox(ctx, tx, evts)
	})
	if err != nil {
		return errs.NewStorage("append transaction", err)
	}
	return nil
}

// ListTransactions returns every record, oldest first.
func (s *Store) ListTransactions(ctx context.Context) ([]*model.TransactionRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, supplier, amount, risk, recorded_at FROM transactions ORDER BY seq`,
	)
	if err != nil {
		return nil, errs.NewStorage("list transactions", err)
	}
	defer rows.Close()

	var records []*model.TransactionRecord
	for rows.Next() {
		var (
			id         uuid.UUID
			supplier   string
			amount     decimal.Decimal
			risk       int
			recordedAt time.Time
		)
		if err := rows.Scan(&id, &supplier, &amount, &risk, &recordedAt); err != nil {
			return nil, errs.NewStorage("list transactions", err)
		}
		records = append(records, model.ReconstructTransactionRecord(id, supplier, amount, risk, recordedAt.UTC()))
	}
	if err := rows.Err(); err != nil {
		return nil, errs.NewStorage("list transactions", err)
	}
	return records, nil
}

// AppendAlert stores a standalone alert.
func (s *Store) AppendAlert(ctx context.Context, alert *model.Alert) error {
	if err := insertAlert(ctx, s.pool, alert); err != nil {
		return errs.NewStorage("append alert", err)
	}
	return nil
}

// ListAlerts returns alerts, most recent first.
func (s *Store) ListAlerts(ctx context.Context) ([]*model.Alert, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, supplier, score, message, created_at FROM alerts ORDER BY seq DESC`,
	)
	if err != nil {
		return nil, errs.NewStorage("list alerts", err)
	}
	defer rows.Close()

	var alerts []*model.Alert
	for rows.Next() {
		var (
			id        uuid.UUID
			supplier  string
			score     int
			message   string
			createdAt time.Time
		)
		if err := rows.Scan(&id, &supplier, &score, &message, &createdAt); err != nil {
			return nil, errs.NewStorage("list alerts", err)
		}
		alerts = append(alerts, model.ReconstructAlert(id, supplier, score, message, createdAt.UTC()))
	}
	if err := rows.Err(); err != nil {
		return nil, errs.NewStorage("list alerts", err)
	}
	return alerts, nil
}

// SaveFinancingAssessment appends a financing assessment and the outbox entries
// for evts in one transaction.
func (s *Store) SaveFinancingAssessment(ctx context.Context, a *model.FinancingAssessment, evts ...events.DomainEvent) error {
	event := a.Event()
	err := pgutil.WithTransaction(ctx, s.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO financing_assessments (
				id, invoice_no, amount, supplier, buyer, lender,
				fingerprint, raw_score, final_score, verdict, duplicate, assessed_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			a.ID(),
			event.InvoiceNumber(),
			event.Amount(),
			event.Supplier(),
			event.Buyer(),
			event.Lender(),
			a.Fingerprint().String(),
			a.RawScore(),
			a.FinalScore(),
			a.Verdict().String(),
			a.Duplicate(),
			a.AssessedAt(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert financing assessment: %w", err)
		}
		return writeOutbox(ctx, tx, evts)
	})
	if err != nil {
		return errs.NewStorage("save financing assessment", err)
	}
	return nil
}

// ListFinancingAssessments returns up to limit assessments, most recent first.
func (s *Store) ListFinancingAssessments(ctx context.Context, limit int) ([]*model.FinancingAssessment, error) {
	rows, err := s.pool.Query(ctx, financingSelect+` ORDER BY seq DESC LIMIT $1`, limit)
	if err != nil {
		return nil, errs.NewStorage("list financing assessments", err)
	}
	defer rows.Close()

	var out []*model.FinancingAssessment
	for rows.Next() {
		a, err := scanFinancingAssessment(rows)
		if err != nil {
			return nil, errs.NewStorage("list financing assessments", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.NewStorage("list financing assessments", err)
	}
	return out, nil
}

// ReplayFinancingAssessments streams every assessment to fn, oldest first.
// An error from fn stops the replay and is returned unchanged.
func (s *Store) ReplayFinancingAssessments(ctx context.Context, fn func(*model.FinancingAssessment) error) error {
	rows, err := s.pool.Query(ctx, financingSelect+` ORDER BY seq`)
	if err != nil {
		return errs.NewStorage("replay financing assessments", err)
	}
	defer rows.Close()

	for rows.Next() {
		a, err := scanFinancingAssessment(rows)
		if err != nil {
			return errs.NewStorage("replay financing assessments", err)
		}
		if err := fn(a); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return errs.NewStorage("replay financing assessments", err)
	}
	return nil
}

// FetchUnpublished returns up to batchSize unpublished outbox entries, oldest
// first.
func (s *Store) FetchUnpublished(ctx context.Context, batchSize int) ([]events.OutboxEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, aggregate_id, aggregate_type, event_type, partition_key, payload, created_at
		FROM outbox
		WHERE published_at IS NULL
		ORDER BY seq
		LIMIT $1`, batchSize)
	if err != nil {
		return nil, errs.NewStorage("fetch outbox", err)
	}
	defer rows.Close()

	var entries []events.OutboxEntry
	for rows.Next() {
		var e events.OutboxEntry
		if err := rows.Scan(&e.ID, &e.AggregateID, &e.AggregateType, &e.EventType, &e.PartitionKey, &e.Payload, &e.CreatedAt); err != nil {
			return nil, errs.NewStorage("fetch outbox", err)
		}
		e.CreatedAt = e.CreatedAt.UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.NewStorage("fetch outbox", err)
	}
	return entries, nil
}

// MarkPublished stamps the given outbox entries as relayed.
func (s *Store) MarkPublished(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := s.pool.Exec(ctx,
		`UPDATE outbox SET published_at = now() WHERE id = ANY($1) AND published_at IS NULL`, ids,
	); err != nil {
		return errs.NewStorage("mark outbox published", err)
	}
	return nil
}

const financingSelect = `
	SELECT id, invoice_no, amount, supplier, buyer, lender,
		fingerprint, raw_score, final_score, verdict, duplicate, assessed_at
	FROM financing_assessments`

func scanFinancingAssessment(row pgx.Row) (*model.FinancingAssessment, error) {
	var (
		id                         uuid.UUID
		invoiceNo, supplier        string
		buyer, lender              string
		amount                     decimal.Decimal
		fingerprintStr, verdictStr string
		rawScore, finalScore       int
		duplicate                  bool
		assessedAt                 time.Time
	)
	err := row.Scan(
		&id, &invoiceNo, &amount, &supplier, &buyer, &lender,
		&fingerprintStr, &rawScore, &finalScore, &verdictStr, &duplicate, &assessedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan financing assessment: %w", err)
	}

	fingerprint, err := valueobject.FingerprintFromString(fingerprintStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fingerprint: %w", err)
	}
	verdict, err := valueobject.VerdictFromString(verdictStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse verdict: %w", err)
	}

	return model.ReconstructFinancingAssessment(
		id, invoiceNo, amount, supplier, buyer, lender,
		fingerprint, rawScore, finalScore, verdict, duplicate, assessedAt.UTC(),
	), nil
}

func insertTransaction(ctx context.Context, q pgutil.Querier, record *model.TransactionRecord) error {
	_, err := q.Exec(ctx,
		`INSERT INTO transactions (id, supplier, amount, risk, recorded_at) VALUES ($1, $2, $3, $4, $5)`,
		record.ID(), record.Supplier(), record.Amount(), record.Risk(), record.RecordedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

func insertAlert(ctx context.Context, q pgutil.Querier, alert *model.Alert) error {
	_, err := q.Exec(ctx,
		`INSERT INTO alerts (id, supplier, score, message, created_at) VALUES ($1, $2, $3, $4, $5)`,
		alert.ID(), alert.Supplier(), alert.Score(), alert.Message(), alert.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert alert: %w", err)
	}
	return nil
}

func writeOutbox(ctx context.Context, tx pgx.Tx, evts []events.DomainEvent) error {
	entries, err := events.NewOutboxEntries(evts...)
	if err != nil {
		return err
	}
	for _, e := range entries {
		_, err := tx.Exec(ctx, `
			INSERT INTO outbox (id, aggregate_id, aggregate_type, event_type, partition_key, payload, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			e.ID, e.AggregateID, e.AggregateType, e.EventType, e.PartitionKey, e.Payload, e.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert outbox event: %w", err)
		}
	}
	return nil
}
