package leavetype

type CreateLeaveTypeRequest struct {
	Name             string  `json:"name" binding:"required"`
	DefaultQuotaDays float64 `json:"default_quota_days" binding:"required,gt=0"`
}

type UpdateLeaveTypeRequest struct {
	Name             string  `json:"name" binding:"required"`
	DefaultQuotaDays float64 `json:"default_quota_days" binding:"required,gt=0"`
}

type LeaveTypeResponse struct {
	ID               string  `json:"id"`
	CompanyID        string  `json:"company_id"`
	Name             string  `json:"name"`
	DefaultQuotaDays float64 `json:"default_quota_days"`
}
