package sqlite

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/supplyshield/riskengine/internal/domain/errs"
	"github.com/supplyshield/riskengine/internal/domain/model"
	"github.com/supplyshield/riskengine/pkg/events"
)

const replayBatchSize = 500

// Store implements port.Store on an embedded SQLite database through gorm.
type Store struct {
	db     *gorm.DB
	logger *slog.Logger
}

// New opens the database at path, creating parent directories as needed. An
// empty path opens a private in-memory database.
func New(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var dsn string
	if path == "" {
		// a unique name keeps separate in-memory stores apart while letting the
		// pool's connections share one database
		dsn = fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	} else {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, fs.ModePerm); err != nil {
				return nil, fmt.Errorf("failed to create data dir: %w", err)
			}
		}
		dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 gormlogger.Discard,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	if path == "" {
		// the in-memory database is dropped once its last connection closes
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	}
	if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return nil, fmt.Errorf("failed to enable gorm tracing: %w", err)
	}

	for _, m := range migrateModels {
		logger.Debug("migrating table", "model", fmt.Sprintf("%T", m))
		if err := db.AutoMigrate(m); err != nil {
			return nil, fmt.Errorf("failed to migrate sqlite schema: %w", err)
		}
	}

	return &Store{db: db, logger: logger}, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errs.NewStorage("ping", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return errs.NewStorage("ping", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// LoadHistory returns the supplier's records, oldest first.
func (s *Store) LoadHistory(ctx context.Context, supplier string) ([]model.HistoryEntry, error) {
	var rows []transactionRow
	result := s.db.WithContext(ctx).
		Where("supplier = ?", supplier).
		Order("seq").
		Find(&rows)
	if result.Error != nil {
		return nil, errs.NewStorage("load history", result.Error)
	}

	history := make([]model.HistoryEntry, 0, len(rows))
	for _, r := range rows {
		history = append(history, model.HistoryEntry{Amount: r.Amount, Risk: r.Risk})
	}
	return history, nil
}

// AppendTransaction stores the record, its alert when present, and the outbox
// entries for evts in one transaction.
func (s *Store) AppendTransaction(ctx context.Context, record *model.TransactionRecord, alert *model.Alert, evts ...events.DomainEvent) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if result := tx.Create(fromTransactionRecord(record)); result.Error != nil {
			return fmt.Errorf("failed to insert transaction: %w", result.Error)
		}
		if alert != nil {
			if result := tx.Create(fromAlert(alert)); result.Error != nil {
				return fmt.Errorf("failed to insert alert: %w", result.Error)
			}
		}
		return writeOutbox(tx, evts)
	})
	if err != nil {
		return errs.NewStorage("append transaction", err)
	}
	return nil
}

// ListTransactions returns every record, oldest first.
func (s *Store) ListTransactions(ctx context.Context) ([]*model.TransactionRecord, error) {
	var rows []transactionRow
	if result := s.db.WithContext(ctx).Order("seq").Find(&rows); result.Error != nil {
		return nil, errs.NewStorage("list transactions", result.Error)
	}

	records := make([]*model.TransactionRecord, 0, len(rows))
	for _, r := range rows {
		rec, err := r.toModel()
		if err != nil {
			return nil, errs.NewStorage("list transactions", err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// AppendAlert stores a standalone alert.
func (s *Store) AppendAlert(ctx context.Context, alert *model.Alert) error {
	if result := s.db.WithContext(ctx).Create(fromAlert(alert)); result.Error != nil {
		return errs.NewStorage("append alert", result.Error)
	}
	return nil
}

// ListAlerts returns alerts, most recent first.
func (s *Store) ListAlerts(ctx context.Context) ([]*model.Alert, error) {
	var rows []alertRow
	if result := s.db.WithContext(ctx).Order("seq DESC").Find(&rows); result.Error != nil {
		return nil, errs.NewStorage("list alerts", result.Error)
	}

	alerts := make([]*model.Alert, 0, len(rows))
	for _, r := range rows {
		a, err := r.toModel()
		if err != nil {
			return nil, errs.NewStorage("list alerts", err)
		}
		alerts = append(alerts, a)
	}
	return alerts, nil
}

// SaveFinancingAssessment appends a financing assessment and the outbox entries
// for evts in one transaction.
func (s *Store) SaveFinancingAssessment(ctx context.Context, a *model.FinancingAssessment, evts ...events.DomainEvent) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if result := tx.Create(fromFinancingAssessment(a)); result.Error != nil {
			return fmt.Errorf("failed to insert financing assessment: %w", result.Error)
		}
		return writeOutbox(tx, evts)
	})
	if err != nil {
		return errs.NewStorage("save financing assessment", err)
	}
	return nil
}

// ListFinancingAssessments returns up to limit assessments, most recent first.
func (s *Store) ListFinancingAssessments(ctx context.Context, limit int) ([]*model.FinancingAssessment, error) {
	var rows []financingRow
	result := s.db.WithContext(ctx).Order("seq DESC").Limit(limit).Find(&rows)
	if result.Error != nil {
		return nil, errs.NewStorage("list financing assessments", result.Error)
	}

	out := make([]*model.FinancingAssessment, 0, len(rows))
	for _, r := range rows {
		a, err := r.toModel()
		if err != nil {
			return nil, errs.NewStorage("list financing assessments", err)
		}
		out = append(out, a)
	}
	return out, nil
}

// errStopReplay carries a callback error out of FindInBatches.
type errStopReplay struct{ err error }

func (e errStopReplay) Error() string { return e.err.Error() }

// ReplayFinancingAssessments streams every assessment to fn, oldest first, in
// batches. An error from fn stops the replay and is returned unchanged.
func (s *Store) ReplayFinancingAssessments(ctx context.Context, fn func(*model.FinancingAssessment) error) error {
	var batch []financingRow
	result := s.db.WithContext(ctx).FindInBatches(&batch, replayBatchSize, func(_ *gorm.DB, _ int) error {
		for _, r := range batch {
			a, err := r.toModel()
			if err != nil {
				return err
			}
			if err := fn(a); err != nil {
				return errStopReplay{err: err}
			}
		}
		return nil
	})
	if result.Error != nil {
		var stop errStopReplay
		if errors.As(result.Error, &stop) {
			return stop.err
		}
		return errs.NewStorage("replay financing assessments", result.Error)
	}
	return nil
}

// FetchUnpublished returns up to batchSize unpublished outbox entries, oldest
// first.
func (s *Store) FetchUnpublished(ctx context.Context, batchSize int) ([]events.OutboxEntry, error) {
	var rows []outboxRow
	result := s.db.WithContext(ctx).
		Where("published_at IS NULL").
		Order("seq").
		Limit(batchSize).
		Find(&rows)
	if result.Error != nil {
		return nil, errs.NewStorage("fetch outbox", result.Error)
	}

	entries := make([]events.OutboxEntry, 0, len(rows))
	for _, r := range rows {
		e, err := r.toEntry()
		if err != nil {
			return nil, errs.NewStorage("fetch outbox", err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// MarkPublished stamps the given outbox entries as relayed.
func (s *Store) MarkPublished(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, id.String())
	}
	result := s.db.WithContext(ctx).
		Model(&outboxRow{}).
		Where("id IN ? AND published_at IS NULL", keys).
		Update("published_at", time.Now().UTC())
	if result.Error != nil {
		return errs.NewStorage("mark outbox published", result.Error)
	}
	return nil
}

func writeOutbox(tx *gorm.DB, evts []events.DomainEvent) error {
	if len(evts) == 0 {
		return nil
	}
	entries, err := events.NewOutboxEntries(evts...)
	if err != nil {
		return err
	}
	rows := make([]*outboxRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, fromOutboxEntry(e))
	}
	if result := tx.Create(rows); result.Error != nil {
		return fmt.Errorf("failed to insert outbox event: %w", result.Error)
	}
	return nil
}
