package models

// LoginCredential is a static (or, in managed-employee mode, generated)
// login entry. Password holds either plaintext or a bcrypt hash.
type LoginCredential struct {
	ID         string  `json:"id" yaml:"id"`
	Email      string  `json:"email" yaml:"email"`
	Password   string  `json:"password" yaml:"password"`
	Role       Role    `json:"role" yaml:"role"`
	Name       string  `json:"name" yaml:"name"`
	EmployeeID *string `json:"employeeId" yaml:"employeeId"`
}
