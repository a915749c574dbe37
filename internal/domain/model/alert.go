package model

import (
	"time"

	"github.com/google/uuid"
)

// Alert is raised when a history-pipeline score reaches the alert threshold.
type Alert struct {
	createdAt time.Time
	supplier  string
	message   string
	score     int
	id        uuid.UUID
}

// NewAlert creates an Alert for a supplier.
func NewAlert(supplier string, score int, message string, at time.Time) *Alert {
	return &Alert{
		id:        uuid.New(),
		supplier:  supplier,
		score:     score,
		message:   message,
		createdAt: at.UTC(),
	}
}

// ReconstructAlert rebuilds an Alert from persisted data.
func ReconstructAlert(id uuid.UUID, supplier string, score int, message string, createdAt time.Time) *Alert {
	return &Alert{
		id:        id,
		supplier:  supplier,
		score:     score,
		message:   message,
		createdAt: createdAt,
	}
}

func (a *Alert) ID() uuid.UUID        { return a.id }
func (a *Alert) Supplier() string     { return a.supplier }
func (a *Alert) Score() int           { return a.score }
func (a *Alert) Message() string      { return a.message }
func (a *Alert) CreatedAt() time.Time { return a.createdAt }
