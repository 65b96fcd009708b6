package constants

// Storage keys in the key-value store.
const (
	StorageKeyEmployees    = "employees"
	StorageKeyTasks        = "tasks"
	StorageKeyCurrentUser  = "currentUser"
	StorageKeyDynamicUsers = "dynamicAppUsers"
)

// Record id prefixes.
const (
	TaskIDPrefix       = "task_"
	EmployeeIDPrefix   = "emp_"
	CredentialIDPrefix = "user_"
)

// Session and context keys.
const (
	SessionCookieName   = "staffdesk_session"
	SessionKeyUID       = "uid"
	SessionKeyReturnTo  = "return_to"
	ContextKeySession   = "session"
	ContextKeyTask      = "task"
	ContextKeyRequestID = "request_id"
	HeaderRequestID     = "X-Request-ID"
)

// DefaultEmployeePassword is assigned to credentials created alongside
// employees in managed-employee mode.
const DefaultEmployeePassword = "password123"

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// MaxAIGeneratedTasks caps how many drafts one generation request may create.
const MaxAIGeneratedTasks = 20
