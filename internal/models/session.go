package models

// Session is the profile of the currently authenticated actor.
type Session struct {
	UID        string  `json:"uid"`
	Email      string  `json:"email"`
	Name       string  `json:"name"`
	Role       Role    `json:"role"`
	EmployeeID *string `json:"employeeId"`
}

// Clone returns a deep copy so callers cannot alias the gate's state.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	if s.EmployeeID != nil {
		id := *s.EmployeeID
		out.EmployeeID = &id
	}
	return &out
}

// Owns reports whether the session belongs to the employee a task is assigned to.
func (s *Session) Owns(t Task) bool {
	return s != nil && s.EmployeeID != nil && *s.EmployeeID == t.AssignedTo
}
