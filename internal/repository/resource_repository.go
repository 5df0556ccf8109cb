package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/campus-resource-service/internal/domain"
)

const resourceColumns = `id, title, type, file_id, file_url, subject_id, semester, course_id,
               year, due_date, uploaded_by, created_at, updated_at`

// ResourceFilter captures listing parameters. Query matches the title
// case-insensitively; SubjectIDs restricts to a subject set (used to scope
// search to the caller's subjects).
type ResourceFilter struct {
	CourseID     *string
	Semester     *int
	SubjectID    *string
	SubjectIDs   []string
	Type         *domain.ResourceType
	UploadedBy   *string
	Query        *string
	CreatedAfter *time.Time
	DueAfter     *time.Time
	Limit        int
	Offset       int
}

// ResourceRepository encapsulates resource persistence.
type ResourceRepository interface {
	Create(ctx context.Context, resource *domain.Resource) error
	Update(ctx context.Context, resource *domain.Resource) error
	GetByID(ctx context.Context, id string) (*domain.Resource, error)
	ListWithFilter(ctx context.Context, filter ResourceFilter) ([]domain.Resource, error)
	ListBySubject(ctx context.Context, subjectID string) ([]domain.Resource, error)
	CountByUploader(ctx context.Context, uploaderID string) (map[domain.ResourceType]int, error)
	Delete(ctx context.Context, id string) error
}

type resourceRepository struct {
	pool *pgxpool.Pool
}

// NewResourceRepository instantiates repository.
func NewResourceRepository(pool *pgxpool.Pool) ResourceRepository {
	return &resourceRepository{pool: pool}
}

func (r *resourceRepository) Create(ctx context.Context, resource *domain.Resource) error {
	const query = `
        INSERT INTO resources (title, type, file_id, file_url, subject_id, semester, course_id, year, due_date, uploaded_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		resource.Title,
		resource.Type,
		resource.FileID,
		resource.FileURL,
		resource.SubjectID,
		resource.Semester,
		resource.CourseID,
		resource.Year,
		resource.DueDate,
		resource.UploadedBy,
	).Scan(&resource.ID, &resource.CreatedAt, &resource.UpdatedAt)
}

func (r *resourceRepository) Update(ctx context.Context, resource *domain.Resource) error {
	const query = `
        UPDATE resources SET title=$1, type=$2, file_id=$3, file_url=$4, subject_id=$5, semester=$6,
            course_id=$7, year=$8, due_date=$9, updated_at=NOW()
        WHERE id=$10`
	cmd, err := r.pool.Exec(ctx, query,
		resource.Title,
		resource.Type,
		resource.FileID,
		resource.FileURL,
		resource.SubjectID,
		resource.Semester,
		resource.CourseID,
		resource.Year,
		resource.DueDate,
		resource.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *resourceRepository) GetByID(ctx context.Context, id string) (*domain.Resource, error) {
	const query = `SELECT ` + resourceColumns + ` FROM resources WHERE id=$1`
	var resource domain.Resource
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&resource.ID,
		&resource.Title,
		&resource.Type,
		&resource.FileID,
		&resource.FileURL,
		&resource.SubjectID,
		&resource.Semester,
		&resource.CourseID,
		&resource.Year,
		&resource.DueDate,
		&resource.UploadedBy,
		&resource.CreatedAt,
		&resource.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &resource, nil
}

func (r *resourceRepository) ListWithFilter(ctx context.Context, filter ResourceFilter) ([]domain.Resource, error) {
	base := `SELECT ` + resourceColumns + ` FROM resources`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.CourseID != nil {
		args = append(args, *filter.CourseID)
		clauses = append(clauses, fmt.Sprintf("course_id=$%d", len(args)))
	}
	if filter.Semester != nil {
		args = append(args, *filter.Semester)
		clauses = append(clauses, fmt.Sprintf("semester=$%d", len(args)))
	}
	if filter.SubjectID != nil {
		args = append(args, *filter.SubjectID)
		clauses = append(clauses, fmt.Sprintf("subject_id=$%d", len(args)))
	}
	if len(filter.SubjectIDs) > 0 {
		args = append(args, filter.SubjectIDs)
		clauses = append(clauses, fmt.Sprintf("subject_id = ANY($%d)", len(args)))
	}
	if filter.Type != nil {
		args = append(args, *filter.Type)
		clauses = append(clauses, fmt.Sprintf("type=$%d", len(args)))
	}
	if filter.UploadedBy != nil {
		args = append(args, *filter.UploadedBy)
		clauses = append(clauses, fmt.Sprintf("uploaded_by=$%d", len(args)))
	}
	if filter.Query != nil {
		args = append(args, "%"+*filter.Query+"%")
		clauses = append(clauses, fmt.Sprintf("title ILIKE $%d", len(args)))
	}
	if filter.CreatedAfter != nil {
		args = append(args, *filter.CreatedAfter)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.DueAfter != nil {
		args = append(args, *filter.DueAfter)
		clauses = append(clauses, fmt.Sprintf("due_date >= $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanResources(rows)
}

func (r *resourceRepository) ListBySubject(ctx context.Context, subjectID string) ([]domain.Resource, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+resourceColumns+` FROM resources WHERE subject_id=$1`, subjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanResources(rows)
}

func (r *resourceRepository) CountByUploader(ctx context.Context, uploaderID string) (map[domain.ResourceType]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT type, COUNT(*) FROM resources WHERE uploaded_by=$1 GROUP BY type`, uploaderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.ResourceType]int)
	for rows.Next() {
		var resourceType domain.ResourceType
		var count int
		if err := rows.Scan(&resourceType, &count); err != nil {
			return nil, err
		}
		counts[resourceType] = count
	}
	return counts, rows.Err()
}

func (r *resourceRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM resources WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanResources(rows pgx.Rows) ([]domain.Resource, error) {
	var result []domain.Resource
	for rows.Next() {
		var resource domain.Resource
		if err := rows.Scan(
			&resource.ID,
			&resource.Title,
			&resource.Type,
			&resource.FileID,
			&resource.FileURL,
			&resource.SubjectID,
			&resource.Semester,
			&resource.CourseID,
			&resource.Year,
			&resource.DueDate,
			&resource.UploadedBy,
			&resource.CreatedAt,
			&resource.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, resource)
	}
	return result, rows.Err()
}
