package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/campus-resource-service/internal/domain"
)

const userColumns = `
        id, name, email, password_hash, mobile_number, role, is_active,
        reset_token_hash, reset_expires_at,
        roll_number, course_id, session_label, semester,
        faculty_code, department, designation,
        created_at, updated_at`

// UserRepository defines persistence access for all account variants.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByResetTokenHash(ctx context.Context, hash string) (*domain.User, error)
	ExistsStudent(ctx context.Context, email, rollNumber string) (bool, error)
	ExistsFaculty(ctx context.Context, email, facultyCode string) (bool, error)
	ListStudentsByCohort(ctx context.Context, cohort domain.Cohort, activeOnly bool) ([]domain.User, error)
	ListInactive(ctx context.Context) ([]domain.User, error)
	SetActive(ctx context.Context, id string, active bool) error
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (name, email, password_hash, mobile_number, role, is_active,
                           roll_number, course_id, session_label, semester,
                           faculty_code, department, designation)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.MobileNumber,
		user.Role,
		user.IsActive,
		user.RollNumber,
		user.CourseID,
		user.SessionLabel,
		user.Semester,
		user.FacultyCode,
		user.Department,
		user.Designation,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET name=$1, email=$2, password_hash=$3, mobile_number=$4, is_active=$5,
            reset_token_hash=$6, reset_expires_at=$7,
            roll_number=$8, course_id=$9, session_label=$10, semester=$11,
            faculty_code=$12, department=$13, designation=$14, updated_at=NOW()
        WHERE id=$15`

	cmd, err := r.pool.Exec(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.MobileNumber,
		user.IsActive,
		user.ResetTokenHash,
		user.ResetExpiresAt,
		user.RollNumber,
		user.CourseID,
		user.SessionLabel,
		user.Semester,
		user.FacultyCode,
		user.Department,
		user.Designation,
		user.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.fetchSingle(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.fetchSingle(ctx, `SELECT `+userColumns+` FROM users WHERE email=$1`, email)
}

func (r *userRepository) GetByResetTokenHash(ctx context.Context, hash string) (*domain.User, error) {
	return r.fetchSingle(ctx, `SELECT `+userColumns+` FROM users WHERE reset_token_hash=$1`, hash)
}

func (r *userRepository) ExistsStudent(ctx context.Context, email, rollNumber string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE email=$1 OR roll_number=$2)`
	var exists bool
	err := r.pool.QueryRow(ctx, query, email, rollNumber).Scan(&exists)
	return exists, err
}

func (r *userRepository) ExistsFaculty(ctx context.Context, email, facultyCode string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM users WHERE email=$1 OR faculty_code=$2)`
	var exists bool
	err := r.pool.QueryRow(ctx, query, email, facultyCode).Scan(&exists)
	return exists, err
}

func (r *userRepository) ListStudentsByCohort(ctx context.Context, cohort domain.Cohort, activeOnly bool) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE role='student' AND course_id=$1 AND semester=$2`
	if activeOnly {
		query += ` AND is_active`
	}
	rows, err := r.pool.Query(ctx, query, cohort.CourseID, cohort.Semester)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func (r *userRepository) ListInactive(ctx context.Context) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users WHERE NOT is_active ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func (r *userRepository) SetActive(ctx context.Context, id string, active bool) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE users SET is_active=$1, updated_at=NOW() WHERE id=$2`, active, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.MobileNumber,
		&user.Role,
		&user.IsActive,
		&user.ResetTokenHash,
		&user.ResetExpiresAt,
		&user.RollNumber,
		&user.CourseID,
		&user.SessionLabel,
		&user.Semester,
		&user.FacultyCode,
		&user.Department,
		&user.Designation,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func scanUsers(rows pgx.Rows) ([]domain.User, error) {
	var result []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.PasswordHash,
			&user.MobileNumber,
			&user.Role,
			&user.IsActive,
			&user.ResetTokenHash,
			&user.ResetExpiresAt,
			&user.RollNumber,
			&user.CourseID,
			&user.SessionLabel,
			&user.Semester,
			&user.FacultyCode,
			&user.Department,
			&user.Designation,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	return result, rows.Err()
}
