// Package authz decides, for a requested view and the current session,
// whether the view renders or the client is sent elsewhere.
package authz

import (
	"github.com/yukikurage/staffdesk/internal/models"
)

// LoginView is where requests without a session are sent.
const LoginView = "/login"

// Outcome is the result class of an authorization decision.
type Outcome int

const (
	Unauthenticated Outcome = iota
	AuthenticatedAuthorized
	AuthenticatedUnauthorized
)

func (o Outcome) String() string {
	switch o {
	case Unauthenticated:
		return "unauthenticated"
	case AuthenticatedAuthorized:
		return "authorized"
	case AuthenticatedUnauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// Route is a guarded view. An empty Allowed set admits any session.
type Route struct {
	Path    string
	Allowed []models.Role
}

// Admits reports whether role may see the route.
func (r Route) Admits(role models.Role) bool {
	if len(r.Allowed) == 0 {
		return true
	}
	for _, allowed := range r.Allowed {
		if allowed == role {
			return true
		}
	}
	return false
}

// Decision tells the caller whether to render. Redirect is empty when the
// view may render.
type Decision struct {
	Outcome  Outcome
	Redirect string
}

// Render reports whether the view should be shown.
func (d Decision) Render() bool {
	return d.Redirect == ""
}

// Decide authorizes session for route. The caller keeps the requested
// location when the outcome is Unauthenticated so it can return there after
// login.
func Decide(session *models.Session, route Route) Decision {
	if session == nil {
		return Decision{Outcome: Unauthenticated, Redirect: LoginView}
	}
	if !route.Admits(session.Role) {
		return Decision{Outcome: AuthenticatedUnauthorized, Redirect: session.Role.DefaultView()}
	}
	return Decision{Outcome: AuthenticatedAuthorized}
}

// DecideLogin authorizes the login view, which only renders without a session.
func DecideLogin(session *models.Session) Decision {
	if session == nil {
		return Decision{Outcome: Unauthenticated}
	}
	return Decision{Outcome: AuthenticatedUnauthorized, Redirect: session.Role.DefaultView()}
}

// Fallback is the destination for paths that match no view.
func Fallback(session *models.Session) string {
	if session == nil {
		return LoginView
	}
	return session.Role.DefaultView()
}

var (
	adminOnly    = []models.Role{models.RoleAdmin}
	employeeOnly = []models.Role{models.RoleEmployee}
)

// View paths, in gin pattern syntax.
const (
	RootPath              = models.RootView
	AdminDashboardPath    = models.AdminDefaultView
	AdminEmployeesPath    = "/admin/employees"
	AdminEmployeeAddPath  = "/admin/employees/add"
	AdminEmployeeEditPath = "/admin/employees/edit/:employeeId"
	AdminTasksPath        = "/admin/tasks"
	AdminTaskAddPath      = "/admin/tasks/add"
	AdminTaskEditPath     = "/admin/tasks/edit/:taskId"
	EmployeeDashboardPath = models.EmployeeDefaultView
	EmployeeTasksPath     = "/employee/tasks"
)

// Views is the table of guarded views.
var Views = []Route{
	{Path: RootPath},
	{Path: AdminDashboardPath, Allowed: adminOnly},
	{Path: AdminEmployeesPath, Allowed: adminOnly},
	{Path: AdminEmployeeAddPath, Allowed: adminOnly},
	{Path: AdminEmployeeEditPath, Allowed: adminOnly},
	{Path: AdminTasksPath, Allowed: adminOnly},
	{Path: AdminTaskAddPath, Allowed: adminOnly},
	{Path: AdminTaskEditPath, Allowed: adminOnly},
	{Path: EmployeeDashboardPath, Allowed: employeeOnly},
	{Path: EmployeeTasksPath, Allowed: employeeOnly},
}

// ViewFor returns the route registered under path.
func ViewFor(path string) (Route, bool) {
	for _, r := range Views {
		if r.Path == path {
			return r, true
		}
	}
	return Route{}, false
}
