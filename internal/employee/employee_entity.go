package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Employee struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index:idx_employees_company"`

	FullName   string    `gorm:"type:varchar(120);not null"`
	Email      string    `gorm:"type:varchar(120);not null;uniqueIndex:uq_employee_email"`
	Department string    `gorm:"type:varchar(60)"`
	Position   string    `gorm:"type:varchar(60)"`
	Role       string    `gorm:"type:varchar(20);not null;default:'employee'"`
	JoinDate   time.Time `gorm:"type:date;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_employees_deleted_at"`
}
