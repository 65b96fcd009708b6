package models

import (
	"encoding/json"
	"fmt"
)

// Role is the closed set of personas that can hold a session.
type Role uint8

const (
	// RoleUnknown is the zero value; it never authorizes anything.
	RoleUnknown Role = iota
	RoleAdmin
	RoleEmployee
)

const (
	AdminDefaultView    = "/admin/dashboard"
	EmployeeDefaultView = "/employee/dashboard"
	RootView            = "/"
)

// ParseRole converts the persisted string form into a Role.
func ParseRole(s string) (Role, error) {
	switch s {
	case "admin":
		return RoleAdmin, nil
	case "employee":
		return RoleEmployee, nil
	default:
		return RoleUnknown, fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleEmployee:
		return "employee"
	default:
		return "unknown"
	}
}

// DefaultView is where a session with this role lands after login or when it
// asks for a view its role may not see.
func (r Role) DefaultView() string {
	switch r {
	case RoleAdmin:
		return AdminDefaultView
	case RoleEmployee:
		return EmployeeDefaultView
	default:
		return RootView
	}
}

func (r Role) CanManageTasks() bool { return r == RoleAdmin }

func (r Role) CanManageEmployees() bool { return r == RoleAdmin }

func (r Role) CanUpdateOwnTaskStatus() bool { return r == RoleEmployee }

func (r Role) MarshalJSON() ([]byte, error) {
	if r == RoleUnknown {
		return nil, fmt.Errorf("cannot encode unknown role")
	}
	return json.Marshal(r.String())
}

func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// UnmarshalYAML lets seed files spell roles the same way as JSON.
func (r *Role) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
