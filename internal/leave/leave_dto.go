package leave

type SubmitLeaveRequest struct {
	EmployeeID   string `json:"employee_id" binding:"omitempty,uuid"`
	LeaveTypeID  string `json:"leave_type_id" binding:"required,uuid"`
	StartDate    string `json:"start_date" binding:"required"`
	EndDate      string `json:"end_date" binding:"required"`
	FirstDayHalf bool   `json:"first_day_half"`
	LastDayHalf  bool   `json:"last_day_half"`
	Reason       string `json:"reason"`
}

type DecideLeaveRequest struct {
	Status   string  `json:"status" binding:"required,oneof=APPROVED REJECTED"`
	Comments *string `json:"comments"`
}

type LeaveResponse struct {
	ID           string  `json:"id"`
	CompanyID    string  `json:"company_id"`
	EmployeeID   string  `json:"employee_id"`
	LeaveTypeID  string  `json:"leave_type_id"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	FirstDayHalf bool    `json:"first_day_half"`
	LastDayHalf  bool    `json:"last_day_half"`
	TotalDays    float64 `json:"total_days"`
	Reason       string  `json:"reason"`
	Status       string  `json:"status"`
	AppliedAt    string  `json:"applied_at"`
	CreatedBy    string  `json:"created_by"`
	ApprovedBy   *string `json:"approved_by,omitempty"`
	ApprovedAt   *string `json:"approved_at,omitempty"`
	Comments     *string `json:"comments,omitempty"`
}
