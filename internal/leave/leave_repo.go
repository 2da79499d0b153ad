package leave

import (
	"context"
	"database/sql"
	"time"

	"leavehub/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveApplication) error
	FindAllByCompany(ctx context.Context, companyID string) ([]LeaveApplication, error)
	FindAllByEmployee(ctx context.Context, companyID, employeeID string) ([]LeaveApplication, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveApplication, error)
	LockEmployee(ctx context.Context, companyID, employeeID string) error
	HasOverlappingPeriod(ctx context.Context, companyID, employeeID string, startDate, endDate time.Time, excludeID *string) (bool, error)
	UpdateDecision(ctx context.Context, l *LeaveApplication) (int64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, l *LeaveApplication) error {
	if r.tx != nil {
		query := `
			INSERT INTO leave_applications (
				id, company_id, employee_id, leave_type_id,
				start_date, end_date, first_day_half, last_day_half,
				total_days, reason, status, applied_at, created_by,
				created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		`
		_, err := r.tx.ExecContext(ctx, query,
			l.ID, l.CompanyID, l.EmployeeID, l.LeaveTypeID,
			l.StartDate, l.EndDate, l.FirstDayHalf, l.LastDayHalf,
			l.TotalDays, l.Reason, l.Status, l.AppliedAt, l.CreatedBy,
		)
		return err
	}
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]LeaveApplication, error) {
	var leaves []LeaveApplication
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("start_date DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindAllByEmployee(ctx context.Context, companyID, employeeID string) ([]LeaveApplication, error) {
	var leaves []LeaveApplication
	err := r.db.WithContext(ctx).
		Scopes(tenant.EmployeeScope(companyID, employeeID)).
		Order("start_date DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveApplication, error) {
	if r.tx != nil {
		return r.findByIDTx(ctx, companyID, id)
	}

	var l LeaveApplication
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&l, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *repository) findByIDTx(ctx context.Context, companyID, id string) (*LeaveApplication, error) {
	query := `
		SELECT id, company_id, employee_id, leave_type_id,
			start_date, end_date, first_day_half, last_day_half,
			total_days, reason, status, applied_at, created_by,
			approved_by, approved_at, comments
		FROM leave_applications
		WHERE company_id = $1 AND id = $2 AND deleted_at IS NULL
		FOR UPDATE
	`

	var (
		l          LeaveApplication
		approvedBy uuid.NullUUID
		approvedAt sql.NullTime
		comments   sql.NullString
	)
	err := r.tx.QueryRowContext(ctx, query, companyID, id).Scan(
		&l.ID, &l.CompanyID, &l.EmployeeID, &l.LeaveTypeID,
		&l.StartDate, &l.EndDate, &l.FirstDayHalf, &l.LastDayHalf,
		&l.TotalDays, &l.Reason, &l.Status, &l.AppliedAt, &l.CreatedBy,
		&approvedBy, &approvedAt, &comments,
	)
	if err == sql.ErrNoRows {
		return nil, gorm.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}

	if approvedBy.Valid {
		l.ApprovedBy = &approvedBy.UUID
	}
	if approvedAt.Valid {
		l.ApprovedAt = &approvedAt.Time
	}
	if comments.Valid {
		l.Comments = &comments.String
	}
	return &l, nil
}

// LockEmployee takes a row lock on the employee so submissions and
// decisions for the same employee serialize. Must run inside a tx.
func (r *repository) LockEmployee(ctx context.Context, companyID, employeeID string) error {
	query := `
		SELECT id FROM employees
		WHERE company_id = $1 AND id = $2 AND deleted_at IS NULL
		FOR UPDATE
	`
	var locked uuid.UUID
	err := r.tx.QueryRowContext(ctx, query, companyID, employeeID).Scan(&locked)
	if err == sql.ErrNoRows {
		return gorm.ErrRecordNotFound
	}
	return err
}

func (r *repository) HasOverlappingPeriod(ctx context.Context, companyID, employeeID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
	if r.tx != nil {
		query := `
			SELECT COUNT(1) FROM leave_applications
			WHERE company_id = $1 AND employee_id = $2
				AND status IN ('PENDING', 'APPROVED')
				AND deleted_at IS NULL
				AND NOT (end_date < $3 OR start_date > $4)
				AND ($5::uuid IS NULL OR id <> $5::uuid)
		`
		var count int64
		err := r.tx.QueryRowContext(ctx, query, companyID, employeeID, startDate, endDate, excludeID).Scan(&count)
		return count > 0, err
	}

	db := r.db.WithContext(ctx).
		Model(&LeaveApplication{}).
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID).
		Where("status IN ?", []string{StatusPending, StatusApproved}).
		Where("NOT (end_date < ? OR start_date > ?)", startDate, endDate)

	if excludeID != nil && *excludeID != "" {
		db = db.Where("id <> ?", *excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}

// UpdateDecision moves a pending application to its terminal state. The
// status guard in the WHERE clause makes the transition monotonic: zero
// rows affected means the application was already decided or cancelled.
func (r *repository) UpdateDecision(ctx context.Context, l *LeaveApplication) (int64, error) {
	query := `
		UPDATE leave_applications
		SET status = $3, approved_by = $4, approved_at = $5, comments = $6, updated_at = NOW()
		WHERE company_id = $1 AND id = $2 AND status = 'PENDING' AND deleted_at IS NULL
	`

	exec := r.execer()
	res, err := exec.ExecContext(ctx, query,
		l.CompanyID, l.ID, l.Status, l.ApprovedBy, l.ApprovedAt, l.Comments,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		panic(err)
	}
	return sqlDB
}
