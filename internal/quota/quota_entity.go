package quota

import (
	"time"

	"github.com/google/uuid"
)

// LeaveQuota is one ledger row: entitlement and consumption for a single
// employee, leave type and calendar year. Rows are never deleted.
type LeaveQuota struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_quota_key"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_quota_key"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_quota_key"`
	Year        int       `gorm:"type:int;not null;uniqueIndex:uq_leave_quota_key"`

	TotalQuota float64 `gorm:"type:numeric(5,1);not null;default:0"`
	UsedQuota  float64 `gorm:"type:numeric(5,1);not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
