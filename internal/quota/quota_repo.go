package quota

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// QuotaWithType is the read model for the ledger listing endpoint.
type QuotaWithType struct {
	LeaveQuota
	LeaveTypeName string
}

type LeaveTypeRef struct {
	ID               string
	DefaultQuotaDays float64
}

//go:generate mockgen -source=quota_repo.go -destination=mock/quota_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	CreateIfAbsent(ctx context.Context, q *LeaveQuota) (bool, error)
	FindByKey(ctx context.Context, companyID, employeeID, leaveTypeID string, year int) (*LeaveQuota, error)
	FindAllByEmployee(ctx context.Context, companyID, employeeID string, year int) ([]QuotaWithType, error)
	AddUsed(ctx context.Context, companyID, employeeID, leaveTypeID string, year int, days float64) (int64, error)
	SubtractUsed(ctx context.Context, companyID, employeeID, leaveTypeID string, year int, days float64) (int64, error)
	ListLeaveTypes(ctx context.Context, companyID string) ([]LeaveTypeRef, error)
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

// CreateIfAbsent inserts a ledger row unless the (company, employee, type,
// year) key already exists. Returns false when the row was already there,
// which makes provisioning idempotent.
func (r *repository) CreateIfAbsent(ctx context.Context, q *LeaveQuota) (bool, error) {
	query := `
		INSERT INTO leave_quotas (id, company_id, employee_id, leave_type_id, year, total_quota, used_quota, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		ON CONFLICT (company_id, employee_id, leave_type_id, year) DO NOTHING
	`
	res, err := r.execer().ExecContext(ctx, query,
		q.ID, q.CompanyID, q.EmployeeID, q.LeaveTypeID, q.Year,
		q.TotalQuota, q.UsedQuota,
	)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *repository) FindByKey(ctx context.Context, companyID, employeeID, leaveTypeID string, year int) (*LeaveQuota, error) {
	if r.tx != nil {
		query := `
			SELECT id, company_id, employee_id, leave_type_id, year, total_quota, used_quota
			FROM leave_quotas
			WHERE company_id = $1 AND employee_id = $2 AND leave_type_id = $3 AND year = $4
		`
		var q LeaveQuota
		err := r.tx.QueryRowContext(ctx, query, companyID, employeeID, leaveTypeID, year).Scan(
			&q.ID, &q.CompanyID, &q.EmployeeID, &q.LeaveTypeID, &q.Year,
			&q.TotalQuota, &q.UsedQuota,
		)
		if err == sql.ErrNoRows {
			return nil, gorm.ErrRecordNotFound
		}
		if err != nil {
			return nil, err
		}
		return &q, nil
	}

	var q LeaveQuota
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Where("employee_id = ?", employeeID).
		Where("leave_type_id = ?", leaveTypeID).
		Where("year = ?", year).
		First(&q).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *repository) FindAllByEmployee(ctx context.Context, companyID, employeeID string, year int) ([]QuotaWithType, error) {
	var rows []QuotaWithType
	err := r.db.WithContext(ctx).
		Model(&LeaveQuota{}).
		Select("leave_quotas.*, leave_types.name AS leave_type_name").
		Joins("JOIN leave_types ON leave_types.id = leave_quotas.leave_type_id").
		Where("leave_quotas.company_id = ?", companyID).
		Where("leave_quotas.employee_id = ?", employeeID).
		Where("leave_quotas.year = ?", year).
		Order("leave_types.name ASC").
		Scan(&rows).Error
	return rows, err
}

// AddUsed is the compare-and-swap debit. The WHERE clause guarantees the
// invariant used_quota <= total_quota; zero rows affected means either an
// over-draw attempt or a missing row, which the service disambiguates.
func (r *repository) AddUsed(ctx context.Context, companyID, employeeID, leaveTypeID string, year int, days float64) (int64, error) {
	query := `
		UPDATE leave_quotas
		SET used_quota = used_quota + $5, updated_at = NOW()
		WHERE company_id = $1 AND employee_id = $2 AND leave_type_id = $3 AND year = $4
			AND used_quota + $5 <= total_quota
	`
	res, err := r.execer().ExecContext(ctx, query, companyID, employeeID, leaveTypeID, year, days)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SubtractUsed reverses consumption, floored at zero.
func (r *repository) SubtractUsed(ctx context.Context, companyID, employeeID, leaveTypeID string, year int, days float64) (int64, error) {
	query := `
		UPDATE leave_quotas
		SET used_quota = GREATEST(used_quota - $5, 0), updated_at = NOW()
		WHERE company_id = $1 AND employee_id = $2 AND leave_type_id = $3 AND year = $4
	`
	res, err := r.execer().ExecContext(ctx, query, companyID, employeeID, leaveTypeID, year, days)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *repository) ListLeaveTypes(ctx context.Context, companyID string) ([]LeaveTypeRef, error) {
	var refs []LeaveTypeRef
	err := r.db.WithContext(ctx).
		Table("leave_types").
		Select("id::text AS id, default_quota_days").
		Where("company_id = ?", companyID).
		Where("deleted_at IS NULL").
		Scan(&refs).Error
	return refs, err
}

func (r *repository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return sqlDBFrom(r.db)
}

func sqlDBFrom(db *gorm.DB) *sql.DB {
	sqlDB, err := db.DB()
	if err != nil {
		// The pool is always reachable for a connected gorm.DB; this
		// only trips on a misconfigured test double.
		panic(err)
	}
	return sqlDB
}
