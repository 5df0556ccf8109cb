package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/campus-resource-service/internal/domain"
)

const notificationColumns = `id, recipient_id, recipient_kind, title, message, category, related_id, read, created_at`

// NotificationRepository encapsulates notification persistence.
type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) error
	CreateBatch(ctx context.Context, notifications []domain.Notification) ([]domain.Notification, error)
	ListByRecipient(ctx context.Context, recipientID string, kind domain.RecipientKind, limit, offset int) ([]domain.Notification, int, error)
	MarkRead(ctx context.Context, id, recipientID string) (*domain.Notification, error)
	MarkAllRead(ctx context.Context, recipientID string, kind domain.RecipientKind) error
	Delete(ctx context.Context, id, recipientID string) error
}

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository instantiates repository.
func NewNotificationRepository(pool *pgxpool.Pool) NotificationRepository {
	return &notificationRepository{pool: pool}
}

func (r *notificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	const query = `
        INSERT INTO notifications (recipient_id, recipient_kind, title, message, category, related_id)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, read, created_at`
	return r.pool.QueryRow(ctx, query,
		notification.RecipientID,
		notification.RecipientKind,
		notification.Title,
		notification.Message,
		notification.Category,
		notification.RelatedID,
	).Scan(&notification.ID, &notification.Read, &notification.CreatedAt)
}

// CreateBatch inserts all rows in a single pgx batch round-trip and returns
// the stored records with generated ids and timestamps.
func (r *notificationRepository) CreateBatch(ctx context.Context, notifications []domain.Notification) ([]domain.Notification, error) {
	if len(notifications) == 0 {
		return nil, nil
	}

	const query = `
        INSERT INTO notifications (recipient_id, recipient_kind, title, message, category, related_id)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, read, created_at`

	batch := &pgx.Batch{}
	for _, n := range notifications {
		batch.Queue(query, n.RecipientID, n.RecipientKind, n.Title, n.Message, n.Category, n.RelatedID)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close() //nolint:errcheck

	stored := make([]domain.Notification, len(notifications))
	copy(stored, notifications)
	for i := range stored {
		if err := results.QueryRow().Scan(&stored[i].ID, &stored[i].Read, &stored[i].CreatedAt); err != nil {
			return nil, err
		}
	}
	return stored, nil
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID string, kind domain.RecipientKind, limit, offset int) ([]domain.Notification, int, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE recipient_id=$1 AND recipient_kind=$2`,
		recipientID, kind,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	const query = `
        SELECT ` + notificationColumns + `
        FROM notifications
        WHERE recipient_id=$1 AND recipient_kind=$2
        ORDER BY created_at DESC
        LIMIT $3 OFFSET $4`
	rows, err := r.pool.Query(ctx, query, recipientID, kind, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(
			&n.ID,
			&n.RecipientID,
			&n.RecipientKind,
			&n.Title,
			&n.Message,
			&n.Category,
			&n.RelatedID,
			&n.Read,
			&n.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		result = append(result, n)
	}
	return result, total, rows.Err()
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, recipientID string) (*domain.Notification, error) {
	const query = `
        UPDATE notifications SET read=TRUE
        WHERE id=$1 AND recipient_id=$2
        RETURNING ` + notificationColumns
	var n domain.Notification
	if err := r.pool.QueryRow(ctx, query, id, recipientID).Scan(
		&n.ID,
		&n.RecipientID,
		&n.RecipientKind,
		&n.Title,
		&n.Message,
		&n.Category,
		&n.RelatedID,
		&n.Read,
		&n.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, recipientID string, kind domain.RecipientKind) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE notifications SET read=TRUE WHERE recipient_id=$1 AND recipient_kind=$2 AND NOT read`,
		recipientID, kind,
	)
	return err
}

func (r *notificationRepository) Delete(ctx context.Context, id, recipientID string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM notifications WHERE id=$1 AND recipient_id=$2`, id, recipientID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
