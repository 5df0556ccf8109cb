package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/campus-resource-service/internal/domain"
)

// CourseRepository encapsulates course persistence.
type CourseRepository interface {
	Create(ctx context.Context, course *domain.Course) error
	Update(ctx context.Context, course *domain.Course) error
	GetByID(ctx context.Context, id string) (*domain.Course, error)
	GetByCode(ctx context.Context, code string) (*domain.Course, error)
	List(ctx context.Context) ([]domain.Course, error)
	Delete(ctx context.Context, id string) error
}

type courseRepository struct {
	pool *pgxpool.Pool
}

// NewCourseRepository instantiates repository.
func NewCourseRepository(pool *pgxpool.Pool) CourseRepository {
	return &courseRepository{pool: pool}
}

func (r *courseRepository) Create(ctx context.Context, course *domain.Course) error {
	const query = `
        INSERT INTO courses (name, code, coordinator_id)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		course.Name,
		course.Code,
		course.CoordinatorID,
	).Scan(&course.ID, &course.CreatedAt, &course.UpdatedAt)
}

func (r *courseRepository) Update(ctx context.Context, course *domain.Course) error {
	const query = `
        UPDATE courses SET name=$1, code=$2, coordinator_id=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query, course.Name, course.Code, course.CoordinatorID, course.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *courseRepository) GetByID(ctx context.Context, id string) (*domain.Course, error) {
	return r.fetchSingle(ctx, `SELECT id, name, code, coordinator_id, created_at, updated_at FROM courses WHERE id=$1`, id)
}

func (r *courseRepository) GetByCode(ctx context.Context, code string) (*domain.Course, error) {
	return r.fetchSingle(ctx, `SELECT id, name, code, coordinator_id, created_at, updated_at FROM courses WHERE code=$1`, code)
}

func (r *courseRepository) List(ctx context.Context) ([]domain.Course, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, code, coordinator_id, created_at, updated_at FROM courses ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Course
	for rows.Next() {
		var course domain.Course
		if err := rows.Scan(&course.ID, &course.Name, &course.Code, &course.CoordinatorID, &course.CreatedAt, &course.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, course)
	}
	return result, rows.Err()
}

func (r *courseRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM courses WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *courseRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Course, error) {
	var course domain.Course
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&course.ID,
		&course.Name,
		&course.Code,
		&course.CoordinatorID,
		&course.CreatedAt,
		&course.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &course, nil
}
