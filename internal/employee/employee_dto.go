package employee

type CreateEmployeeRequest struct {
	FullName   string `json:"full_name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Department string `json:"department"`
	Position   string `json:"position"`
	Role       string `json:"role" binding:"omitempty,oneof=admin hr employee"`
	JoinDate   string `json:"join_date" binding:"required"`
}

type UpdateEmployeeRequest struct {
	FullName   string `json:"full_name" binding:"required"`
	Department string `json:"department"`
	Position   string `json:"position"`
	Role       string `json:"role" binding:"omitempty,oneof=admin hr employee"`
}

type EmployeeResponse struct {
	ID         string `json:"id"`
	CompanyID  string `json:"company_id"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Position   string `json:"position"`
	Role       string `json:"role"`
	JoinDate   string `json:"join_date"`
}
