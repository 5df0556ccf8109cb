package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/campus-resource-service/internal/domain"
)

const subjectColumns = `id, name, code, faculty_id, course_id, semester, created_at, updated_at`

// SubjectRepository encapsulates subject persistence.
type SubjectRepository interface {
	Create(ctx context.Context, subject *domain.Subject) error
	Update(ctx context.Context, subject *domain.Subject) error
	GetByID(ctx context.Context, id string) (*domain.Subject, error)
	GetByCode(ctx context.Context, code string) (*domain.Subject, error)
	List(ctx context.Context) ([]domain.Subject, error)
	ListByFaculty(ctx context.Context, facultyID string) ([]domain.Subject, error)
	ListByCohort(ctx context.Context, cohort domain.Cohort) ([]domain.Subject, error)
	Delete(ctx context.Context, id string) error
}

type subjectRepository struct {
	pool *pgxpool.Pool
}

// NewSubjectRepository instantiates repository.
func NewSubjectRepository(pool *pgxpool.Pool) SubjectRepository {
	return &subjectRepository{pool: pool}
}

func (r *subjectRepository) Create(ctx context.Context, subject *domain.Subject) error {
	const query = `
        INSERT INTO subjects (name, code, faculty_id, course_id, semester)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		subject.Name,
		subject.Code,
		subject.FacultyID,
		subject.CourseID,
		subject.Semester,
	).Scan(&subject.ID, &subject.CreatedAt, &subject.UpdatedAt)
}

func (r *subjectRepository) Update(ctx context.Context, subject *domain.Subject) error {
	const query = `
        UPDATE subjects SET name=$1, code=$2, faculty_id=$3, course_id=$4, semester=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		subject.Name,
		subject.Code,
		subject.FacultyID,
		subject.CourseID,
		subject.Semester,
		subject.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *subjectRepository) GetByID(ctx context.Context, id string) (*domain.Subject, error) {
	return r.fetchSingle(ctx, `SELECT `+subjectColumns+` FROM subjects WHERE id=$1`, id)
}

func (r *subjectRepository) GetByCode(ctx context.Context, code string) (*domain.Subject, error) {
	return r.fetchSingle(ctx, `SELECT `+subjectColumns+` FROM subjects WHERE code=$1`, code)
}

func (r *subjectRepository) List(ctx context.Context) ([]domain.Subject, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+subjectColumns+` FROM subjects ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSubjects(rows)
}

func (r *subjectRepository) ListByFaculty(ctx context.Context, facultyID string) ([]domain.Subject, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+subjectColumns+` FROM subjects WHERE faculty_id=$1 ORDER BY code`, facultyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSubjects(rows)
}

func (r *subjectRepository) ListByCohort(ctx context.Context, cohort domain.Cohort) ([]domain.Subject, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+subjectColumns+` FROM subjects WHERE course_id=$1 AND semester=$2 ORDER BY code`, cohort.CourseID, cohort.Semester)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSubjects(rows)
}

func (r *subjectRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM subjects WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *subjectRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Subject, error) {
	var subject domain.Subject
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&subject.ID,
		&subject.Name,
		&subject.Code,
		&subject.FacultyID,
		&subject.CourseID,
		&subject.Semester,
		&subject.CreatedAt,
		&subject.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &subject, nil
}

func scanSubjects(rows pgx.Rows) ([]domain.Subject, error) {
	var result []domain.Subject
	for rows.Next() {
		var subject domain.Subject
		if err := rows.Scan(
			&subject.ID,
			&subject.Name,
			&subject.Code,
			&subject.FacultyID,
			&subject.CourseID,
			&subject.Semester,
			&subject.CreatedAt,
			&subject.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, subject)
	}
	return result, rows.Err()
}
