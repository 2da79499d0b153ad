package leavetype

import (
	"context"
	"database/sql"

	"leavehub/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leavetype_repo.go -destination=mock/leavetype_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, lt *LeaveType) error
	FindAllByCompany(ctx context.Context, companyID string) ([]LeaveType, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveType, error)
	Update(ctx context.Context, lt *LeaveType) error
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

func (r *repository) Create(ctx context.Context, lt *LeaveType) error {
	if r.tx != nil {
		query := `
			INSERT INTO leave_types (
				id, company_id, name, default_quota_days, created_at, updated_at
			) VALUES ($1, $2, $3, $4, NOW(), NOW())
		`
		_, err := r.tx.ExecContext(ctx, query,
			lt.ID, lt.CompanyID, lt.Name, lt.DefaultQuotaDays,
		)
		return err
	}
	return r.db.WithContext(ctx).Create(lt).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]LeaveType, error) {
	var types []LeaveType
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("name ASC").
		Find(&types).Error
	return types, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*LeaveType, error) {
	if r.tx != nil {
		return r.findByIDTx(ctx, companyID, id)
	}

	var lt LeaveType
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&lt, "id = ?", id).Error
	return &lt, err
}

// findByIDTx locks the row so an update inside the transaction cannot
// race a concurrent write.
func (r *repository) findByIDTx(ctx context.Context, companyID, id string) (*LeaveType, error) {
	query := `
		SELECT id, company_id, name, default_quota_days, created_at, updated_at
		FROM leave_types
		WHERE company_id = $1 AND id = $2 AND deleted_at IS NULL
		FOR UPDATE
	`

	var lt LeaveType
	err := r.tx.QueryRowContext(ctx, query, companyID, id).Scan(
		&lt.ID, &lt.CompanyID, &lt.Name, &lt.DefaultQuotaDays,
		&lt.CreatedAt, &lt.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, gorm.ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &lt, nil
}

func (r *repository) Update(ctx context.Context, lt *LeaveType) error {
	if r.tx != nil {
		query := `
			UPDATE leave_types
			SET name = $3, default_quota_days = $4, updated_at = NOW()
			WHERE company_id = $1 AND id = $2 AND deleted_at IS NULL
		`
		_, err := r.tx.ExecContext(ctx, query,
			lt.CompanyID, lt.ID, lt.Name, lt.DefaultQuotaDays,
		)
		return err
	}
	return r.db.WithContext(ctx).Save(lt).Error
}
