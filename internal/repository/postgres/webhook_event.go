package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/dtroode/hypecard-server/internal/model"
)

var _ model.WebhookEventStore = (*WebhookEventRepository)(nil)

// WebhookEventRepository writes the webhook audit trail through database/sql.
type WebhookEventRepository struct {
	db *sql.DB
}

func NewWebhookEventRepository(db *sql.DB) *WebhookEventRepository {
	return &WebhookEventRepository{db: db}
}

// OpenSQL exposes the pool as a *sql.DB sharing the same connections.
func OpenSQL(conn *Connection) *sql.DB {
	return stdlib.OpenDBFromPool(conn.Pool)
}

func (r *WebhookEventRepository) Create(ctx context.Context, event model.WebhookEvent) error {
	const query = `
        INSERT INTO webhook_events (
            id, provider, event_type, user_id, payload, signature_valid, archive_key, processing_error, processed_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    `

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}

	// jsonb rejects malformed bodies; those are kept only in the archive.
	var payload any
	if json.Valid(event.Payload) {
		payload = string(event.Payload)
	}

	_, err := r.db.ExecContext(ctx, query,
		event.ID, event.Provider, event.EventType, event.UserID, payload,
		event.SignatureValid, event.ArchiveKey, event.ProcessingError, event.ProcessedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create webhook event: %w", err)
	}
	return nil
}
