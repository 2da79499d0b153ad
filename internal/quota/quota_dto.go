package quota

type QuotaResponse struct {
	ID            string  `json:"id"`
	CompanyID     string  `json:"company_id"`
	EmployeeID    string  `json:"employee_id"`
	LeaveTypeID   string  `json:"leave_type_id"`
	LeaveTypeName string  `json:"leave_type_name,omitempty"`
	Year          int     `json:"year"`
	TotalQuota    float64 `json:"total_quota"`
	UsedQuota     float64 `json:"used_quota"`
	Remaining     float64 `json:"remaining"`
}
