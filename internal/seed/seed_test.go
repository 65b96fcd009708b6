package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/staffdesk/internal/models"
)

func TestBuiltin(t *testing.T) {
	data := Builtin()

	require.Len(t, data.Employees, 5)
	require.Len(t, data.Tasks, 4)
	require.Len(t, data.Credentials, 6)

	admin := data.Credentials[0]
	assert.Equal(t, "admin@example.com", admin.Email)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.Nil(t, admin.EmployeeID)

	priya := data.Credentials[1]
	assert.Equal(t, models.RoleEmployee, priya.Role)
	require.NotNil(t, priya.EmployeeID)
	assert.Equal(t, "emp_101", *priya.EmployeeID)

	assert.Equal(t, "task_ls_2", data.Tasks[1].ID)
	assert.Equal(t, models.TaskStatusTodo, data.Tasks[1].Status)
}

func TestBuiltin_ReturnsIndependentCopies(t *testing.T) {
	a := Builtin()
	a.Tasks[0].Title = "changed"
	assert.NotEqual(t, "changed", Builtin().Tasks[0].Title)
}

func TestParse_RejectsUnknownRole(t *testing.T) {
	_, err := Parse([]byte("credentials:\n  - id: x\n    role: root\n"))
	assert.Error(t, err)
}

func TestParse_RejectsUnknownStatus(t *testing.T) {
	_, err := Parse([]byte("tasks:\n  - id: x\n    status: Blocked\n    priority: Low\n"))
	assert.Error(t, err)
}
