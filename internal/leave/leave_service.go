package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"leavehub/internal/events"
	leaveerrors "leavehub/internal/leave/errors"
	"leavehub/internal/messaging/kafka"
	"leavehub/internal/quota"
	quotaerrors "leavehub/internal/quota/errors"
	"leavehub/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// maxTxAttempts bounds the retry loop around serialization failures so a
// hot employee row cannot pin a request forever.
const maxTxAttempts = 3

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, companyID, actorID string, req *SubmitLeaveRequest) (*LeaveResponse, error)
	Decide(ctx context.Context, companyID, deciderID, leaveID string, req *DecideLeaveRequest) (*LeaveResponse, error)
	Cancel(ctx context.Context, companyID, actorID, leaveID string) (*LeaveResponse, error)
	GetAll(ctx context.Context, companyID string) ([]LeaveResponse, error)
	GetAllByEmployee(ctx context.Context, companyID, employeeID string) ([]LeaveResponse, error)
	GetByID(ctx context.Context, companyID, id string) (*LeaveResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	ledger quota.Ledger
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, ledger quota.Ledger, outbox kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{db: db, repo: repo, ledger: ledger, outbox: outbox, logger: l}
}

func (s *service) Submit(ctx context.Context, companyID, actorID string, req *SubmitLeaveRequest) (*LeaveResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return nil, leaveerrors.ErrInvalidCompanyID
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return nil, leaveerrors.ErrInvalidActorID
	}
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return nil, leaveerrors.ErrInvalidEmployeeID
	}
	leaveTypeUUID, err := uuid.Parse(req.LeaveTypeID)
	if err != nil {
		return nil, leaveerrors.ErrInvalidLeaveTypeID
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, leaveerrors.ErrInvalidDateFormat
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, leaveerrors.ErrInvalidDateFormat
	}
	startDate = toCalendarDay(startDate)
	endDate = toCalendarDay(endDate)
	if endDate.Before(startDate) {
		return nil, leaveerrors.ErrInvalidDateRange
	}

	totalDays := DaysBetweenInclusive(startDate, endDate, req.FirstDayHalf, req.LastDayHalf)
	if totalDays <= 0 {
		return nil, leaveerrors.ErrInvalidHalfDay
	}

	leave := &LeaveApplication{
		ID:           uuid.New(),
		CompanyID:    companyUUID,
		EmployeeID:   employeeUUID,
		LeaveTypeID:  leaveTypeUUID,
		StartDate:    startDate,
		EndDate:      endDate,
		FirstDayHalf: req.FirstDayHalf,
		LastDayHalf:  req.LastDayHalf,
		TotalDays:    totalDays,
		Reason:       req.Reason,
		Status:       StatusPending,
		AppliedAt:    time.Now().UTC(),
		CreatedBy:    actorUUID,
	}

	year := startDate.Year()

	err = s.withTxRetry(ctx, func(tx *sql.Tx) error {
		txRepo := s.repo.WithTx(tx)

		// Serializes all submissions and decisions for this employee.
		if err := txRepo.LockEmployee(ctx, companyID, req.EmployeeID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leaveerrors.ErrEmployeeNotInCompany
			}
			return err
		}

		overlaps, err := txRepo.HasOverlappingPeriod(ctx, companyID, req.EmployeeID, startDate, endDate, nil)
		if err != nil {
			return err
		}
		if overlaps {
			return leaveerrors.ErrLeaveOverlap
		}

		remaining, err := s.ledger.GetRemaining(ctx, tx, companyID, req.EmployeeID, req.LeaveTypeID, year)
		if err != nil {
			return err
		}
		if remaining < totalDays {
			return quotaerrors.ErrInsufficientBalance
		}

		return txRepo.Create(ctx, leave)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("leave application submitted",
		zap.String("leave_id", leave.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.Float64("total_days", totalDays),
	)

	resp := mapLeaveToResponse(leave)
	return &resp, nil
}

func (s *service) Decide(ctx context.Context, companyID, deciderID, leaveID string, req *DecideLeaveRequest) (*LeaveResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return nil, leaveerrors.ErrInvalidCompanyID
	}
	deciderUUID, err := uuid.Parse(deciderID)
	if err != nil {
		return nil, leaveerrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(leaveID); err != nil {
		return nil, leaveerrors.ErrLeaveNotFound
	}

	var decided *LeaveApplication

	err = s.withTxRetry(ctx, func(tx *sql.Tx) error {
		txRepo := s.repo.WithTx(tx)

		leave, err := txRepo.FindByIDAndCompany(ctx, companyID, leaveID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leaveerrors.ErrLeaveNotFound
			}
			return err
		}
		if leave.Status != StatusPending {
			return leaveerrors.ErrInvalidStatusTransition
		}

		if err := txRepo.LockEmployee(ctx, companyID, leave.EmployeeID.String()); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leaveerrors.ErrEmployeeNotInCompany
			}
			return err
		}

		// Balance is consumed at approval time only. A rejection never
		// touches the ledger.
		if req.Status == StatusApproved {
			err := s.ledger.Debit(ctx, tx,
				companyID,
				leave.EmployeeID.String(),
				leave.LeaveTypeID.String(),
				leave.StartDate.Year(),
				leave.TotalDays,
			)
			if err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		leave.Status = req.Status
		leave.ApprovedBy = &deciderUUID
		leave.ApprovedAt = &now
		leave.Comments = req.Comments

		rows, err := txRepo.UpdateDecision(ctx, leave)
		if err != nil {
			return err
		}
		if rows == 0 {
			return leaveerrors.ErrInvalidStatusTransition
		}

		if err := s.stageDecidedEvent(ctx, tx, leave, deciderID); err != nil {
			return err
		}

		decided = leave
		return nil
	})
	if err != nil {
		return nil, err
	}

	if decided.Status == StatusApproved {
		s.ledger.InvalidateCache(ctx, companyID, decided.EmployeeID.String(), decided.StartDate.Year())
	}

	s.logger.Info("leave application decided",
		zap.String("leave_id", leaveID),
		zap.String("status", decided.Status),
		zap.String("decided_by", deciderID),
	)

	resp := mapLeaveToResponse(decided)
	return &resp, nil
}

func (s *service) Cancel(ctx context.Context, companyID, actorID, leaveID string) (*LeaveResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return nil, leaveerrors.ErrInvalidCompanyID
	}
	if _, err := uuid.Parse(actorID); err != nil {
		return nil, leaveerrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(leaveID); err != nil {
		return nil, leaveerrors.ErrLeaveNotFound
	}

	var cancelled *LeaveApplication

	err := s.withTxRetry(ctx, func(tx *sql.Tx) error {
		txRepo := s.repo.WithTx(tx)

		leave, err := txRepo.FindByIDAndCompany(ctx, companyID, leaveID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return leaveerrors.ErrLeaveNotFound
			}
			return err
		}
		if leave.EmployeeID.String() != actorID {
			return leaveerrors.ErrNotRequestOwner
		}
		if leave.Status != StatusPending {
			return leaveerrors.ErrInvalidStatusTransition
		}

		// Nothing was debited while pending, so there is nothing to
		// return to the ledger.
		leave.Status = StatusCancelled

		rows, err := txRepo.UpdateDecision(ctx, leave)
		if err != nil {
			return err
		}
		if rows == 0 {
			return leaveerrors.ErrInvalidStatusTransition
		}

		cancelled = leave
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("leave application cancelled",
		zap.String("leave_id", leaveID),
		zap.String("employee_id", actorID),
	)

	resp := mapLeaveToResponse(cancelled)
	return &resp, nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]LeaveResponse, error) {
	leaves, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return mapLeavesToListResponse(leaves), nil
}

func (s *service) GetAllByEmployee(ctx context.Context, companyID, employeeID string) ([]LeaveResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, leaveerrors.ErrInvalidEmployeeID
	}
	leaves, err := s.repo.FindAllByEmployee(ctx, companyID, employeeID)
	if err != nil {
		return nil, err
	}
	return mapLeavesToListResponse(leaves), nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (*LeaveResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, leaveerrors.ErrLeaveNotFound
	}
	leave, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leaveerrors.ErrLeaveNotFound
		}
		return nil, err
	}
	resp := mapLeaveToResponse(leave)
	return &resp, nil
}

func (s *service) stageDecidedEvent(ctx context.Context, tx *sql.Tx, leave *LeaveApplication, deciderID string) error {
	payload, err := json.Marshal(events.LeaveDecidedEvent{
		EventType:   "leave.decided",
		LeaveID:     leave.ID.String(),
		CompanyID:   leave.CompanyID.String(),
		EmployeeID:  leave.EmployeeID.String(),
		LeaveTypeID: leave.LeaveTypeID.String(),
		Status:      leave.Status,
		TotalDays:   leave.TotalDays,
		DecidedBy:   deciderID,
		OccurredAt:  time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_application",
		AggregateID:   leave.ID.String(),
		EventType:     "leave.decided",
		Topic:         events.LeaveDecidedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

// withTxRetry runs fn inside a transaction and retries a bounded number of
// times when postgres reports a serialization failure or deadlock. Any
// other error aborts immediately.
func (s *service) withTxRetry(ctx context.Context, fn func(tx *sql.Tx) error) error {
	var lastErr error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}

		if err := fn(tx); err != nil {
			tx.Rollback()
			if !isRetryableTxError(err) {
				return err
			}
			lastErr = err
			s.logger.Warn("transaction conflict, retrying",
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			continue
		}

		if err := tx.Commit(); err != nil {
			if !isRetryableTxError(err) {
				return err
			}
			lastErr = err
			continue
		}
		return nil
	}

	s.logger.Warn("transaction retries exhausted", zap.Error(lastErr))
	return leaveerrors.ErrConcurrentUpdate
}

func isRetryableTxError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	// 40001 serialization_failure, 40P01 deadlock_detected.
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}

func mapLeaveToResponse(l *LeaveApplication) LeaveResponse {
	resp := LeaveResponse{
		ID:           l.ID.String(),
		CompanyID:    l.CompanyID.String(),
		EmployeeID:   l.EmployeeID.String(),
		LeaveTypeID:  l.LeaveTypeID.String(),
		StartDate:    l.StartDate.Format(dateLayout),
		EndDate:      l.EndDate.Format(dateLayout),
		FirstDayHalf: l.FirstDayHalf,
		LastDayHalf:  l.LastDayHalf,
		TotalDays:    l.TotalDays,
		Reason:       l.Reason,
		Status:       l.Status,
		AppliedAt:    l.AppliedAt.Format(time.RFC3339),
		CreatedBy:    l.CreatedBy.String(),
		Comments:     l.Comments,
	}
	if l.ApprovedBy != nil {
		v := l.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if l.ApprovedAt != nil {
		v := l.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	return resp
}

func mapLeavesToListResponse(leaves []LeaveApplication) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i := range leaves {
		resp[i] = mapLeaveToResponse(&leaves[i])
	}
	return resp
}
