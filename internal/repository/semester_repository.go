package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/campus-resource-service/internal/domain"
)

// SemesterRepository encapsulates semester persistence.
type SemesterRepository interface {
	Create(ctx context.Context, semester *domain.Semester) error
	Update(ctx context.Context, semester *domain.Semester) error
	GetByID(ctx context.Context, id string) (*domain.Semester, error)
	List(ctx context.Context) ([]domain.Semester, error)
	Delete(ctx context.Context, id string) error
}

type semesterRepository struct {
	pool *pgxpool.Pool
}

// NewSemesterRepository instantiates repository.
func NewSemesterRepository(pool *pgxpool.Pool) SemesterRepository {
	return &semesterRepository{pool: pool}
}

func (r *semesterRepository) Create(ctx context.Context, semester *domain.Semester) error {
	const query = `
        INSERT INTO semesters (name, code)
        VALUES ($1,$2)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query, semester.Name, semester.Code).
		Scan(&semester.ID, &semester.CreatedAt, &semester.UpdatedAt)
}

func (r *semesterRepository) Update(ctx context.Context, semester *domain.Semester) error {
	const query = `UPDATE semesters SET name=$1, code=$2, updated_at=NOW() WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, semester.Name, semester.Code, semester.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *semesterRepository) GetByID(ctx context.Context, id string) (*domain.Semester, error) {
	const query = `SELECT id, name, code, created_at, updated_at FROM semesters WHERE id=$1`
	var semester domain.Semester
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&semester.ID,
		&semester.Name,
		&semester.Code,
		&semester.CreatedAt,
		&semester.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &semester, nil
}

func (r *semesterRepository) List(ctx context.Context) ([]domain.Semester, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, code, created_at, updated_at FROM semesters ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Semester
	for rows.Next() {
		var semester domain.Semester
		if err := rows.Scan(&semester.ID, &semester.Name, &semester.Code, &semester.CreatedAt, &semester.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, semester)
	}
	return result, rows.Err()
}

func (r *semesterRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM semesters WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
