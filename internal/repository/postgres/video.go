package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/hypecard-server/internal/model"
)

var _ model.VideoStore = (*VideoRepository)(nil)

const freeTierSlotConstraint = "videos_free_tier_slot_key"

type VideoRepository struct {
	db *Connection
}

func NewVideoRepository(db *Connection) *VideoRepository {
	return &VideoRepository{db: db}
}

const videoColumns = `id, user_id, form_type, name, COALESCE(role, ''), COALESCE(tagline, ''),
	COALESCE(description, ''), COALESCE(avatar, ''), provider_video_id, video_url, stream_url,
	download_url, status, free_tier_slot, created_at, updated_at`

func (r *VideoRepository) Create(ctx context.Context, record model.VideoRecord) (model.VideoRecord, error) {
	query := `INSERT INTO videos (
			user_id, form_type, name, role, tagline, description, avatar,
			provider_video_id, video_url, stream_url, download_url, status, free_tier_slot
		) VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), $8, $9, $10, $11, $12, $13)
		RETURNING ` + videoColumns

	saved, err := scanVideo(r.db.QueryRow(ctx, query,
		record.UserID, record.FormType, record.Name, record.Role, record.Tagline, record.Description, record.Avatar,
		record.ProviderVideoID, record.VideoURL, record.StreamURL, record.DownloadURL, record.Status, record.FreeTierSlot,
	))
	if err != nil {
		if isUniqueViolation(err, freeTierSlotConstraint) {
			return model.VideoRecord{}, model.ErrFreeTierSlotTaken
		}
		return model.VideoRecord{}, fmt.Errorf("failed to create video: %w", err)
	}

	return saved, nil
}

func (r *VideoRepository) GetByID(ctx context.Context, id int64) (model.VideoRecord, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE id = $1`

	record, err := scanVideo(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.VideoRecord{}, model.ErrNotFound
		}
		return model.VideoRecord{}, fmt.Errorf("failed to get video by id: %w", err)
	}

	return record, nil
}

func (r *VideoRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]model.VideoRecord, error) {
	query := `SELECT ` + videoColumns + ` FROM videos WHERE user_id = $1 ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query videos by user id: %w", err)
	}
	defer rows.Close()

	records := make([]model.VideoRecord, 0)
	for rows.Next() {
		record, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate videos: %w", err)
	}

	return records, nil
}

func (r *VideoRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM videos WHERE user_id = $1`, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count videos: %w", err)
	}
	return count, nil
}

// UpdateProviderState writes status and URLs. The statement itself keeps URLs
// monotonic and only lets processing records move.
func (r *VideoRepository) UpdateProviderState(ctx context.Context, record model.VideoRecord) error {
	query := `UPDATE videos SET
			video_url = CASE WHEN video_url = '' THEN $2 ELSE video_url END,
			stream_url = CASE WHEN stream_url = '' THEN $3 ELSE stream_url END,
			download_url = CASE WHEN download_url = '' THEN $4 ELSE download_url END,
			status = CASE WHEN status = 'processing' THEN $5 ELSE status END,
			updated_at = NOW()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, record.ID, record.VideoURL, record.StreamURL, record.DownloadURL, record.Status)
	if err != nil {
		return fmt.Errorf("failed to update video provider state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *VideoRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func scanVideo(row pgx.Row) (model.VideoRecord, error) {
	var v model.VideoRecord
	err := row.Scan(
		&v.ID, &v.UserID, &v.FormType, &v.Name, &v.Role, &v.Tagline, &v.Description, &v.Avatar,
		&v.ProviderVideoID, &v.VideoURL, &v.StreamURL, &v.DownloadURL, &v.Status, &v.FreeTierSlot,
		&v.CreatedAt, &v.UpdatedAt,
	)
	return v, err
}
