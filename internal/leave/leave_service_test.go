package leave_test

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"leavehub/internal/leave"
	leaveerrors "leavehub/internal/leave/errors"
	"leavehub/internal/messaging/kafka"
	"leavehub/internal/quota"
	quotaerrors "leavehub/internal/quota/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeLeaveRepository struct {
	withTxFn               func(tx *sql.Tx) leave.Repository
	createFn               func(ctx context.Context, l *leave.LeaveApplication) error
	findAllByCompanyFn     func(ctx context.Context, companyID string) ([]leave.LeaveApplication, error)
	findAllByEmployeeFn    func(ctx context.Context, companyID, employeeID string) ([]leave.LeaveApplication, error)
	findByIDAndCompanyFn   func(ctx context.Context, companyID, id string) (*leave.LeaveApplication, error)
	lockEmployeeFn         func(ctx context.Context, companyID, employeeID string) error
	hasOverlappingPeriodFn func(ctx context.Context, companyID, employeeID string, startDate, endDate time.Time, excludeID *string) (bool, error)
	updateDecisionFn       func(ctx context.Context, l *leave.LeaveApplication) (int64, error)
}

func (f *fakeLeaveRepository) WithTx(tx *sql.Tx) leave.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeLeaveRepository) Create(ctx context.Context, l *leave.LeaveApplication) error {
	if f.createFn != nil {
		return f.createFn(ctx, l)
	}
	return nil
}

func (f *fakeLeaveRepository) FindAllByCompany(ctx context.Context, companyID string) ([]leave.LeaveApplication, error) {
	if f.findAllByCompanyFn != nil {
		return f.findAllByCompanyFn(ctx, companyID)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindAllByEmployee(ctx context.Context, companyID, employeeID string) ([]leave.LeaveApplication, error) {
	if f.findAllByEmployeeFn != nil {
		return f.findAllByEmployeeFn(ctx, companyID, employeeID)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*leave.LeaveApplication, error) {
	if f.findByIDAndCompanyFn != nil {
		return f.findByIDAndCompanyFn(ctx, companyID, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveRepository) LockEmployee(ctx context.Context, companyID, employeeID string) error {
	if f.lockEmployeeFn != nil {
		return f.lockEmployeeFn(ctx, companyID, employeeID)
	}
	return nil
}

func (f *fakeLeaveRepository) HasOverlappingPeriod(ctx context.Context, companyID, employeeID string, startDate, endDate time.Time, excludeID *string) (bool, error) {
	if f.hasOverlappingPeriodFn != nil {
		return f.hasOverlappingPeriodFn(ctx, companyID, employeeID, startDate, endDate, excludeID)
	}
	return false, nil
}

func (f *fakeLeaveRepository) UpdateDecision(ctx context.Context, l *leave.LeaveApplication) (int64, error) {
	if f.updateDecisionFn != nil {
		return f.updateDecisionFn(ctx, l)
	}
	return 1, nil
}

type fakeLedger struct {
	mu             sync.Mutex
	getRemainingFn func(ctx context.Context, tx *sql.Tx, companyID, employeeID, leaveTypeID string, year int) (float64, error)
	debitFn        func(ctx context.Context, tx *sql.Tx, companyID, employeeID, leaveTypeID string, year int, days float64) error
	creditFn       func(ctx context.Context, tx *sql.Tx, companyID, employeeID, leaveTypeID string, year int, days float64) error
	invalidated    []string
}

func (f *fakeLedger) GetRemaining(ctx context.Context, tx *sql.Tx, companyID, employeeID, leaveTypeID string, year int) (float64, error) {
	if f.getRemainingFn != nil {
		return f.getRemainingFn(ctx, tx, companyID, employeeID, leaveTypeID, year)
	}
	return 100, nil
}

func (f *fakeLedger) Debit(ctx context.Context, tx *sql.Tx, companyID, employeeID, leaveTypeID string, year int, days float64) error {
	if f.debitFn != nil {
		return f.debitFn(ctx, tx, companyID, employeeID, leaveTypeID, year, days)
	}
	return nil
}

func (f *fakeLedger) Credit(ctx context.Context, tx *sql.Tx, companyID, employeeID, leaveTypeID string, year int, days float64) error {
	if f.creditFn != nil {
		return f.creditFn(ctx, tx, companyID, employeeID, leaveTypeID, year, days)
	}
	return nil
}

func (f *fakeLedger) Provision(ctx context.Context, companyID, employeeID string, year int) error {
	return nil
}

func (f *fakeLedger) GetByEmployee(ctx context.Context, companyID, employeeID string, year int) ([]quota.QuotaResponse, error) {
	return nil, nil
}

func (f *fakeLedger) InvalidateCache(ctx context.Context, companyID, employeeID string, year int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated = append(f.invalidated, employeeID)
}

type fakeOutboxRepository struct {
	createFn func(ctx context.Context, event kafka.OutboxEvent) error
	created  []kafka.OutboxEvent
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	if f.createFn != nil {
		return f.createFn(ctx, event)
	}
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error   { return nil }
func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id, r string) error { return nil }

type leaveServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service leave.Service
	repo    *fakeLeaveRepository
	ledger  *fakeLedger
	outbox  *fakeOutboxRepository
}

func setupLeaveServiceTest(t *testing.T) *leaveServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeLeaveRepository{}
	ledger := &fakeLedger{}
	outbox := &fakeOutboxRepository{}
	svc := leave.NewService(db, repo, ledger, outbox)

	return &leaveServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
		ledger:  ledger,
		outbox:  outbox,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func pendingApplication(companyID, employeeID string) *leave.LeaveApplication {
	return &leave.LeaveApplication{
		ID:          uuid.New(),
		CompanyID:   uuid.MustParse(companyID),
		EmployeeID:  uuid.MustParse(employeeID),
		LeaveTypeID: uuid.New(),
		StartDate:   time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 6, 3, 0, 0, 0, 0, time.UTC),
		TotalDays:   3,
		Status:      leave.StatusPending,
		AppliedAt:   time.Date(2026, 5, 20, 9, 0, 0, 0, time.UTC),
		CreatedBy:   uuid.MustParse(employeeID),
	}
}

func TestLeaveService_Submit(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()
	leaveTypeID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		req := &leave.SubmitLeaveRequest{
			EmployeeID:   employeeID,
			LeaveTypeID:  leaveTypeID,
			StartDate:    "2026-03-01",
			EndDate:      "2026-03-03",
			FirstDayHalf: true,
			Reason:       "Family event",
		}

		locked := false
		deps.repo.lockEmployeeFn = func(ctx context.Context, cid, eid string) error {
			assert.Equal(t, companyID, cid)
			assert.Equal(t, employeeID, eid)
			locked = true
			return nil
		}
		deps.repo.hasOverlappingPeriodFn = func(ctx context.Context, cid, eid string, startDate, endDate time.Time, excludeID *string) (bool, error) {
			assert.True(t, locked, "overlap check must run under the employee lock")
			assert.Nil(t, excludeID)
			assert.Equal(t, "2026-03-01", startDate.Format("2006-01-02"))
			assert.Equal(t, "2026-03-03", endDate.Format("2006-01-02"))
			return false, nil
		}
		deps.ledger.getRemainingFn = func(ctx context.Context, tx *sql.Tx, cid, eid, ltid string, year int) (float64, error) {
			assert.NotNil(t, tx)
			assert.Equal(t, leaveTypeID, ltid)
			assert.Equal(t, 2026, year)
			return 10, nil
		}
		deps.repo.createFn = func(ctx context.Context, l *leave.LeaveApplication) error {
			assert.Equal(t, uuid.MustParse(companyID), l.CompanyID)
			assert.Equal(t, uuid.MustParse(employeeID), l.EmployeeID)
			assert.Equal(t, 2.5, l.TotalDays)
			assert.Equal(t, leave.StatusPending, l.Status)
			return nil
		}

		resp, err := deps.service.Submit(ctx, companyID, employeeID, req)

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusPending, resp.Status)
		assert.Equal(t, 2.5, resp.TotalDays)
		assert.Equal(t, employeeID, resp.EmployeeID)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative end before start", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		req := &leave.SubmitLeaveRequest{
			EmployeeID:  employeeID,
			LeaveTypeID: leaveTypeID,
			StartDate:   "2026-03-05",
			EndDate:     "2026-03-01",
		}

		_, err := deps.service.Submit(ctx, companyID, employeeID, req)

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateRange)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative half-day flags collapse single day to zero", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		req := &leave.SubmitLeaveRequest{
			EmployeeID:   employeeID,
			LeaveTypeID:  leaveTypeID,
			StartDate:    "2026-03-10",
			EndDate:      "2026-03-10",
			FirstDayHalf: true,
			LastDayHalf:  true,
		}

		_, err := deps.service.Submit(ctx, companyID, employeeID, req)

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidHalfDay)
	})

	t.Run("negative bad date format", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		req := &leave.SubmitLeaveRequest{
			EmployeeID:  employeeID,
			LeaveTypeID: leaveTypeID,
			StartDate:   "03/01/2026",
			EndDate:     "2026-03-03",
		}

		_, err := deps.service.Submit(ctx, companyID, employeeID, req)

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateFormat)
	})

	t.Run("negative overlapping period", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		req := &leave.SubmitLeaveRequest{
			EmployeeID:  employeeID,
			LeaveTypeID: leaveTypeID,
			StartDate:   "2026-03-01",
			EndDate:     "2026-03-03",
		}

		deps.repo.hasOverlappingPeriodFn = func(ctx context.Context, cid, eid string, s, e time.Time, x *string) (bool, error) {
			return true, nil
		}

		_, err := deps.service.Submit(ctx, companyID, employeeID, req)

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveOverlap)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative insufficient balance", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		req := &leave.SubmitLeaveRequest{
			EmployeeID:  employeeID,
			LeaveTypeID: leaveTypeID,
			StartDate:   "2026-03-01",
			EndDate:     "2026-03-03",
		}

		deps.ledger.getRemainingFn = func(ctx context.Context, tx *sql.Tx, cid, eid, ltid string, year int) (float64, error) {
			return 2.5, nil
		}

		_, err := deps.service.Submit(ctx, companyID, employeeID, req)

		assert.ErrorIs(t, err, quotaerrors.ErrInsufficientBalance)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative unknown employee", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		req := &leave.SubmitLeaveRequest{
			EmployeeID:  employeeID,
			LeaveTypeID: leaveTypeID,
			StartDate:   "2026-03-01",
			EndDate:     "2026-03-03",
		}

		deps.repo.lockEmployeeFn = func(ctx context.Context, cid, eid string) error {
			return gorm.ErrRecordNotFound
		}

		_, err := deps.service.Submit(ctx, companyID, employeeID, req)

		assert.ErrorIs(t, err, leaveerrors.ErrEmployeeNotInCompany)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveService_Decide(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()
	deciderID := uuid.New().String()

	t.Run("approve debits quota and stages event", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		app := pendingApplication(companyID, employeeID)

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*leave.LeaveApplication, error) {
			return app, nil
		}

		debited := false
		deps.ledger.debitFn = func(ctx context.Context, tx *sql.Tx, cid, eid, ltid string, year int, days float64) error {
			assert.NotNil(t, tx)
			assert.Equal(t, employeeID, eid)
			assert.Equal(t, app.LeaveTypeID.String(), ltid)
			assert.Equal(t, 2026, year)
			assert.Equal(t, 3.0, days)
			debited = true
			return nil
		}

		deps.repo.updateDecisionFn = func(ctx context.Context, l *leave.LeaveApplication) (int64, error) {
			assert.Equal(t, leave.StatusApproved, l.Status)
			assert.NotNil(t, l.ApprovedBy)
			assert.Equal(t, deciderID, l.ApprovedBy.String())
			assert.NotNil(t, l.ApprovedAt)
			return 1, nil
		}

		comments := "enjoy"
		resp, err := deps.service.Decide(ctx, companyID, deciderID, app.ID.String(), &leave.DecideLeaveRequest{
			Status:   leave.StatusApproved,
			Comments: &comments,
		})

		assert.NoError(t, err)
		assert.True(t, debited)
		assert.Equal(t, leave.StatusApproved, resp.Status)
		assert.Len(t, deps.outbox.created, 1)
		assert.Equal(t, "leave.decided", deps.outbox.created[0].EventType)
		assert.Equal(t, app.ID.String(), deps.outbox.created[0].AggregateID)
		assert.Equal(t, []string{employeeID}, deps.ledger.invalidated)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("reject never touches the ledger", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		app := pendingApplication(companyID, employeeID)

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*leave.LeaveApplication, error) {
			return app, nil
		}
		deps.ledger.debitFn = func(ctx context.Context, tx *sql.Tx, cid, eid, ltid string, year int, days float64) error {
			t.Fatal("rejection must not debit the quota")
			return nil
		}

		resp, err := deps.service.Decide(ctx, companyID, deciderID, app.ID.String(), &leave.DecideLeaveRequest{
			Status: leave.StatusRejected,
		})

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusRejected, resp.Status)
		assert.Len(t, deps.outbox.created, 1)
		assert.Empty(t, deps.ledger.invalidated)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative already decided", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		app := pendingApplication(companyID, employeeID)
		app.Status = leave.StatusApproved

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*leave.LeaveApplication, error) {
			return app, nil
		}

		_, err := deps.service.Decide(ctx, companyID, deciderID, app.ID.String(), &leave.DecideLeaveRequest{
			Status: leave.StatusRejected,
		})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusTransition)
		assert.Empty(t, deps.outbox.created)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative not found", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Decide(ctx, companyID, deciderID, uuid.New().String(), &leave.DecideLeaveRequest{
			Status: leave.StatusApproved,
		})

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative insufficient balance at approval", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		app := pendingApplication(companyID, employeeID)

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*leave.LeaveApplication, error) {
			return app, nil
		}
		deps.ledger.debitFn = func(ctx context.Context, tx *sql.Tx, cid, eid, ltid string, year int, days float64) error {
			return quotaerrors.ErrInsufficientBalance
		}

		_, err := deps.service.Decide(ctx, companyID, deciderID, app.ID.String(), &leave.DecideLeaveRequest{
			Status: leave.StatusApproved,
		})

		assert.ErrorIs(t, err, quotaerrors.ErrInsufficientBalance)
		assert.Empty(t, deps.outbox.created)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative lost race on status guard", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		app := pendingApplication(companyID, employeeID)

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*leave.LeaveApplication, error) {
			return app, nil
		}
		deps.repo.updateDecisionFn = func(ctx context.Context, l *leave.LeaveApplication) (int64, error) {
			return 0, nil
		}

		_, err := deps.service.Decide(ctx, companyID, deciderID, app.ID.String(), &leave.DecideLeaveRequest{
			Status: leave.StatusRejected,
		})

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusTransition)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveService_Cancel(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("owner cancels pending application", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		app := pendingApplication(companyID, employeeID)

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*leave.LeaveApplication, error) {
			return app, nil
		}
		deps.repo.updateDecisionFn = func(ctx context.Context, l *leave.LeaveApplication) (int64, error) {
			assert.Equal(t, leave.StatusCancelled, l.Status)
			return 1, nil
		}
		deps.ledger.creditFn = func(ctx context.Context, tx *sql.Tx, cid, eid, ltid string, year int, days float64) error {
			t.Fatal("cancelling a pending application must not touch the ledger")
			return nil
		}

		resp, err := deps.service.Cancel(ctx, companyID, employeeID, app.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusCancelled, resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative non-owner", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		app := pendingApplication(companyID, employeeID)

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*leave.LeaveApplication, error) {
			return app, nil
		}

		_, err := deps.service.Cancel(ctx, companyID, uuid.New().String(), app.ID.String())

		assert.ErrorIs(t, err, leaveerrors.ErrNotRequestOwner)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative already approved", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		app := pendingApplication(companyID, employeeID)
		app.Status = leave.StatusApproved

		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*leave.LeaveApplication, error) {
			return app, nil
		}

		_, err := deps.service.Cancel(ctx, companyID, employeeID, app.ID.String())

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidStatusTransition)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveService_TxRetry(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()
	leaveTypeID := uuid.New().String()

	req := &leave.SubmitLeaveRequest{
		EmployeeID:  employeeID,
		LeaveTypeID: leaveTypeID,
		StartDate:   "2026-03-01",
		EndDate:     "2026-03-03",
	}

	t.Run("recovers after one serialization failure", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectRollback()
		deps.sqlMock.ExpectBegin()
		deps.sqlMock.ExpectCommit()

		attempts := 0
		deps.repo.lockEmployeeFn = func(ctx context.Context, cid, eid string) error {
			attempts++
			if attempts == 1 {
				return &pgconn.PgError{Code: "40001"}
			}
			return nil
		}

		resp, err := deps.service.Submit(ctx, companyID, employeeID, req)

		assert.NoError(t, err)
		assert.Equal(t, 2, attempts)
		assert.Equal(t, leave.StatusPending, resp.Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("gives up after bounded attempts", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		for i := 0; i < 3; i++ {
			deps.sqlMock.ExpectBegin()
			deps.sqlMock.ExpectRollback()
		}

		attempts := 0
		deps.repo.lockEmployeeFn = func(ctx context.Context, cid, eid string) error {
			attempts++
			return &pgconn.PgError{Code: "40P01"}
		}

		_, err := deps.service.Submit(ctx, companyID, employeeID, req)

		assert.ErrorIs(t, err, leaveerrors.ErrConcurrentUpdate)
		assert.Equal(t, 3, attempts)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("non-retryable error is returned as-is", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		boom := errors.New("connection reset")
		deps.repo.lockEmployeeFn = func(ctx context.Context, cid, eid string) error {
			return boom
		}

		_, err := deps.service.Submit(ctx, companyID, employeeID, req)

		assert.ErrorIs(t, err, boom)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestLeaveService_GetByID(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	employeeID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		app := pendingApplication(companyID, employeeID)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, id string) (*leave.LeaveApplication, error) {
			assert.Equal(t, companyID, cid)
			return app, nil
		}

		resp, err := deps.service.GetByID(ctx, companyID, app.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, app.ID.String(), resp.ID)
		assert.Equal(t, "2026-06-01", resp.StartDate)
		assert.Equal(t, 3.0, resp.TotalDays)
	})

	t.Run("negative not found", func(t *testing.T) {
		deps := setupLeaveServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.GetByID(ctx, companyID, uuid.New().String())

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
	})
}
