package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/campus-resource-service/internal/domain"
)

// NoticeRepository encapsulates notice persistence, including audience rows.
type NoticeRepository interface {
	Create(ctx context.Context, notice *domain.Notice) error
	GetByID(ctx context.Context, id string) (*domain.Notice, error)
	ListForCohort(ctx context.Context, cohort domain.Cohort, limit, offset int) ([]domain.Notice, error)
	Delete(ctx context.Context, id string) error
}

type noticeRepository struct {
	pool *pgxpool.Pool
}

// NewNoticeRepository instantiates repository.
func NewNoticeRepository(pool *pgxpool.Pool) NoticeRepository {
	return &noticeRepository{pool: pool}
}

func (r *noticeRepository) Create(ctx context.Context, notice *domain.Notice) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const query = `
        INSERT INTO notices (title, content, priority, posted_by, attachment_file_id, attachment_url, expires_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`
	if err := tx.QueryRow(ctx, query,
		notice.Title,
		notice.Content,
		notice.Priority,
		notice.PostedBy,
		notice.AttachmentFileID,
		notice.AttachmentURL,
		notice.ExpiresAt,
	).Scan(&notice.ID, &notice.CreatedAt); err != nil {
		return err
	}

	for _, cohort := range notice.Audience {
		if _, err := tx.Exec(ctx,
			`INSERT INTO notice_audience (notice_id, course_id, semester) VALUES ($1,$2,$3)`,
			notice.ID, cohort.CourseID, cohort.Semester,
		); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *noticeRepository) GetByID(ctx context.Context, id string) (*domain.Notice, error) {
	const query = `
        SELECT id, title, content, priority, posted_by, attachment_file_id, attachment_url, expires_at, created_at
        FROM notices WHERE id=$1`
	var notice domain.Notice
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&notice.ID,
		&notice.Title,
		&notice.Content,
		&notice.Priority,
		&notice.PostedBy,
		&notice.AttachmentFileID,
		&notice.AttachmentURL,
		&notice.ExpiresAt,
		&notice.CreatedAt,
	); err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `SELECT course_id, semester FROM notice_audience WHERE notice_id=$1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var cohort domain.Cohort
		if err := rows.Scan(&cohort.CourseID, &cohort.Semester); err != nil {
			return nil, err
		}
		notice.Audience = append(notice.Audience, cohort)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &notice, nil
}

func (r *noticeRepository) ListForCohort(ctx context.Context, cohort domain.Cohort, limit, offset int) ([]domain.Notice, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT n.id, n.title, n.content, n.priority, n.posted_by, n.attachment_file_id, n.attachment_url, n.expires_at, n.created_at
        FROM notices n
        JOIN notice_audience a ON a.notice_id = n.id
        WHERE a.course_id=$1 AND a.semester=$2 AND n.expires_at > NOW()
        ORDER BY n.priority, n.created_at DESC
        LIMIT $3 OFFSET $4`
	rows, err := r.pool.Query(ctx, query, cohort.CourseID, cohort.Semester, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Notice
	for rows.Next() {
		var notice domain.Notice
		if err := rows.Scan(
			&notice.ID,
			&notice.Title,
			&notice.Content,
			&notice.Priority,
			&notice.PostedBy,
			&notice.AttachmentFileID,
			&notice.AttachmentURL,
			&notice.ExpiresAt,
			&notice.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, notice)
	}
	return result, rows.Err()
}

func (r *noticeRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM notices WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
