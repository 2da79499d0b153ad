package quota

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	quotaerrors "leavehub/internal/quota/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const QuotaEmployeeKeyPrefix = "leave_quotas:employee:"

func GetQuotaEmployeeKey(companyID, employeeID string, year int) string {
	return fmt.Sprintf("%s%s:%s:%d", QuotaEmployeeKeyPrefix, companyID, employeeID, year)
}

// Ledger is the authoritative record of leave entitlement and consumption.
// Debit and Credit take the caller's transaction so a status change and its
// ledger mutation commit or roll back together; the leave lifecycle is the
// only caller of either.
//
//go:generate mockgen -source=quota_service.go -destination=mock/quota_service_mock.go -package=mock
type Ledger interface {
	GetRemaining(ctx context.Context, tx *sql.Tx, companyID, employeeID, leaveTypeID string, year int) (float64, error)
	Debit(ctx context.Context, tx *sql.Tx, companyID, employeeID, leaveTypeID string, year int, days float64) error
	Credit(ctx context.Context, tx *sql.Tx, companyID, employeeID, leaveTypeID string, year int, days float64) error
	Provision(ctx context.Context, companyID, employeeID string, year int) error
	GetByEmployee(ctx context.Context, companyID, employeeID string, year int) ([]QuotaResponse, error)
	InvalidateCache(ctx context.Context, companyID, employeeID string, year int)
}

type ledger struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewLedger(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Ledger {
	l := zap.L().Named("quota.ledger")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("quota.ledger")
	}
	return &ledger{repo: repo, rdb: rdb, sf: &singleflight.Group{}, logger: l}
}

func (s *ledger) GetRemaining(ctx context.Context, tx *sql.Tx, companyID, employeeID, leaveTypeID string, year int) (float64, error) {
	repo := s.repo
	if tx != nil {
		repo = s.repo.WithTx(tx)
	}

	q, err := repo.FindByKey(ctx, companyID, employeeID, leaveTypeID, year)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, quotaerrors.ErrQuotaNotFound
		}
		return 0, err
	}
	return q.TotalQuota - q.UsedQuota, nil
}

func (s *ledger) Debit(ctx context.Context, tx *sql.Tx, companyID, employeeID, leaveTypeID string, year int, days float64) error {
	if days <= 0 {
		return quotaerrors.ErrInvalidAmount
	}

	repo := s.repo
	if tx != nil {
		repo = s.repo.WithTx(tx)
	}

	rows, err := repo.AddUsed(ctx, companyID, employeeID, leaveTypeID, year, days)
	if err != nil {
		return err
	}
	if rows > 0 {
		s.logger.Info("quota debited",
			zap.String("employee_id", employeeID),
			zap.String("leave_type_id", leaveTypeID),
			zap.Int("year", year),
			zap.Float64("days", days),
		)
		return nil
	}

	// The guarded update matched nothing: either the row is missing or
	// the debit would overdraw the balance.
	if _, err := repo.FindByKey(ctx, companyID, employeeID, leaveTypeID, year); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return quotaerrors.ErrQuotaNotFound
		}
		return err
	}
	return quotaerrors.ErrInsufficientBalance
}

func (s *ledger) Credit(ctx context.Context, tx *sql.Tx, companyID, employeeID, leaveTypeID string, year int, days float64) error {
	if days <= 0 {
		return quotaerrors.ErrInvalidAmount
	}

	repo := s.repo
	if tx != nil {
		repo = s.repo.WithTx(tx)
	}

	rows, err := repo.SubtractUsed(ctx, companyID, employeeID, leaveTypeID, year, days)
	if err != nil {
		return err
	}
	if rows == 0 {
		return quotaerrors.ErrQuotaNotFound
	}

	s.logger.Info("quota credited",
		zap.String("employee_id", employeeID),
		zap.String("leave_type_id", leaveTypeID),
		zap.Int("year", year),
		zap.Float64("days", days),
	)
	return nil
}

// Provision creates one zeroed ledger row per leave type for the given
// employee and year. Re-running it is a no-op per type, so duplicate
// onboarding events are harmless.
func (s *ledger) Provision(ctx context.Context, companyID, employeeID string, year int) error {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return quotaerrors.ErrInvalidEmployeeID
	}
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return quotaerrors.ErrInvalidEmployeeID
	}
	if year < 2000 {
		return quotaerrors.ErrInvalidYear
	}

	types, err := s.repo.ListLeaveTypes(ctx, companyID)
	if err != nil {
		return err
	}

	created := 0
	for _, ref := range types {
		typeUUID, err := uuid.Parse(ref.ID)
		if err != nil {
			return err
		}
		inserted, err := s.repo.CreateIfAbsent(ctx, &LeaveQuota{
			ID:          uuid.New(),
			CompanyID:   companyUUID,
			EmployeeID:  employeeUUID,
			LeaveTypeID: typeUUID,
			Year:        year,
			TotalQuota:  ref.DefaultQuotaDays,
			UsedQuota:   0,
		})
		if err != nil {
			return err
		}
		if inserted {
			created++
		}
	}

	s.logger.Info("quota provisioned",
		zap.String("company_id", companyID),
		zap.String("employee_id", employeeID),
		zap.Int("year", year),
		zap.Int("created", created),
		zap.Int("leave_types", len(types)),
	)

	s.InvalidateCache(ctx, companyID, employeeID, year)
	return nil
}

func (s *ledger) GetByEmployee(ctx context.Context, companyID, employeeID string, year int) ([]QuotaResponse, error) {
	cacheKey := GetQuotaEmployeeKey(companyID, employeeID, year)

	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			var resp []QuotaResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		rows, err := s.repo.FindAllByEmployee(ctx, companyID, employeeID, year)
		if err != nil {
			return nil, err
		}

		resp := mapToListResponse(rows)

		// Balances change on every approval, keep the TTL short.
		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, 5*time.Minute)
			}
		}

		return resp, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]QuotaResponse), nil
}

func (s *ledger) InvalidateCache(ctx context.Context, companyID, employeeID string, year int) {
	if s.rdb == nil {
		return
	}
	cacheKey := GetQuotaEmployeeKey(companyID, employeeID, year)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		log.Printf("ERROR: failed to invalidate cache for key %s: %v", cacheKey, err)
	}
}

func mapToResponse(q QuotaWithType) QuotaResponse {
	return QuotaResponse{
		ID:            q.ID.String(),
		CompanyID:     q.CompanyID.String(),
		EmployeeID:    q.EmployeeID.String(),
		LeaveTypeID:   q.LeaveTypeID.String(),
		LeaveTypeName: q.LeaveTypeName,
		Year:          q.Year,
		TotalQuota:    q.TotalQuota,
		UsedQuota:     q.UsedQuota,
		Remaining:     q.TotalQuota - q.UsedQuota,
	}
}

func mapToListResponse(rows []QuotaWithType) []QuotaResponse {
	resp := make([]QuotaResponse, len(rows))
	for i, q := range rows {
		resp[i] = mapToResponse(q)
	}
	return resp
}
