package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/campus-resource-service/internal/domain"
)

const submissionColumns = `id, assignment_id, student_id, file_id, file_url, subject_id, submitted_at, modified`

// SubmissionRepository encapsulates assignment submission persistence.
type SubmissionRepository interface {
	Create(ctx context.Context, submission *domain.AssignmentSubmission) error
	Update(ctx context.Context, submission *domain.AssignmentSubmission) error
	GetByID(ctx context.Context, id string) (*domain.AssignmentSubmission, error)
	GetByAssignmentAndStudent(ctx context.Context, assignmentID, studentID string) (*domain.AssignmentSubmission, error)
	ListByAssignment(ctx context.Context, assignmentID string) ([]domain.AssignmentSubmission, error)
	CountByAssignment(ctx context.Context, assignmentID string) (int, error)
	SubmittedStudentIDs(ctx context.Context, assignmentID string) (map[string]struct{}, error)
	Delete(ctx context.Context, id string) error
}

type submissionRepository struct {
	pool *pgxpool.Pool
}

// NewSubmissionRepository instantiates repository.
func NewSubmissionRepository(pool *pgxpool.Pool) SubmissionRepository {
	return &submissionRepository{pool: pool}
}

func (r *submissionRepository) Create(ctx context.Context, submission *domain.AssignmentSubmission) error {
	const query = `
        INSERT INTO assignment_submissions (assignment_id, student_id, file_id, file_url, subject_id)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, submitted_at`
	return r.pool.QueryRow(ctx, query,
		submission.AssignmentID,
		submission.StudentID,
		submission.FileID,
		submission.FileURL,
		submission.SubjectID,
	).Scan(&submission.ID, &submission.SubmittedAt)
}

func (r *submissionRepository) Update(ctx context.Context, submission *domain.AssignmentSubmission) error {
	const query = `
        UPDATE assignment_submissions SET file_id=$1, file_url=$2, modified=$3, submitted_at=NOW()
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query,
		submission.FileID,
		submission.FileURL,
		submission.Modified,
		submission.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *submissionRepository) GetByID(ctx context.Context, id string) (*domain.AssignmentSubmission, error) {
	return r.fetchSingle(ctx, `SELECT `+submissionColumns+` FROM assignment_submissions WHERE id=$1`, id)
}

func (r *submissionRepository) GetByAssignmentAndStudent(ctx context.Context, assignmentID, studentID string) (*domain.AssignmentSubmission, error) {
	const query = `SELECT ` + submissionColumns + ` FROM assignment_submissions WHERE assignment_id=$1 AND student_id=$2`
	var submission domain.AssignmentSubmission
	if err := r.pool.QueryRow(ctx, query, assignmentID, studentID).Scan(
		&submission.ID,
		&submission.AssignmentID,
		&submission.StudentID,
		&submission.FileID,
		&submission.FileURL,
		&submission.SubjectID,
		&submission.SubmittedAt,
		&submission.Modified,
	); err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *submissionRepository) ListByAssignment(ctx context.Context, assignmentID string) ([]domain.AssignmentSubmission, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+submissionColumns+` FROM assignment_submissions WHERE assignment_id=$1 ORDER BY submitted_at`, assignmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AssignmentSubmission
	for rows.Next() {
		var submission domain.AssignmentSubmission
		if err := rows.Scan(
			&submission.ID,
			&submission.AssignmentID,
			&submission.StudentID,
			&submission.FileID,
			&submission.FileURL,
			&submission.SubjectID,
			&submission.SubmittedAt,
			&submission.Modified,
		); err != nil {
			return nil, err
		}
		result = append(result, submission)
	}
	return result, rows.Err()
}

func (r *submissionRepository) CountByAssignment(ctx context.Context, assignmentID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM assignment_submissions WHERE assignment_id=$1`, assignmentID).Scan(&count)
	return count, err
}

func (r *submissionRepository) SubmittedStudentIDs(ctx context.Context, assignmentID string) (map[string]struct{}, error) {
	rows, err := r.pool.Query(ctx, `SELECT student_id FROM assignment_submissions WHERE assignment_id=$1`, assignmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

func (r *submissionRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM assignment_submissions WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *submissionRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.AssignmentSubmission, error) {
	var submission domain.AssignmentSubmission
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&submission.ID,
		&submission.AssignmentID,
		&submission.StudentID,
		&submission.FileID,
		&submission.FileURL,
		&submission.SubjectID,
		&submission.SubmittedAt,
		&submission.Modified,
	); err != nil {
		return nil, err
	}
	return &submission, nil
}
