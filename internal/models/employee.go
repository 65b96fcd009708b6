package models

type Employee struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Position   string `json:"position" yaml:"position"`
	Department string `json:"department" yaml:"department"`
	Email      string `json:"email" yaml:"email"`
	Phone      string `json:"phone" yaml:"phone"`
	StartDate  string `json:"startDate" yaml:"startDate"`
}

// EmployeePatch is a partial employee update used in managed-employee mode.
type EmployeePatch struct {
	Name       *string
	Position   *string
	Department *string
	Email      *string
	Phone      *string
	StartDate  *string
}

func (p EmployeePatch) Apply(e Employee) Employee {
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Position != nil {
		e.Position = *p.Position
	}
	if p.Department != nil {
		e.Department = *p.Department
	}
	if p.Email != nil {
		e.Email = *p.Email
	}
	if p.Phone != nil {
		e.Phone = *p.Phone
	}
	if p.StartDate != nil {
		e.StartDate = *p.StartDate
	}
	return e
}
