package dto

import (
	"github.com/yukikurage/staffdesk/internal/models"
)

// EmployeeRequest is the body of POST and PUT /api/employees. On PUT,
// absent fields are kept.
type EmployeeRequest struct {
	Name       *string `json:"name"`
	Position   *string `json:"position"`
	Department *string `json:"department"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
	StartDate  *string `json:"startDate"`
}

// Employee builds the record to create.
func (r EmployeeRequest) Employee() models.Employee {
	return r.Patch().Apply(models.Employee{})
}

// Patch converts the request into an employee patch.
func (r EmployeeRequest) Patch() models.EmployeePatch {
	return models.EmployeePatch{
		Name:       r.Name,
		Position:   r.Position,
		Department: r.Department,
		Email:      r.Email,
		Phone:      r.Phone,
		StartDate:  r.StartDate,
	}
}

// EmployeeListResponse lists the directory and whether it can be edited.
type EmployeeListResponse struct {
	Employees []models.Employee `json:"employees"`
	Managed   bool              `json:"managed"`
}
