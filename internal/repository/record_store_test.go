package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/staffdesk/internal/constants"
	"github.com/yukikurage/staffdesk/internal/kvstore"
	"github.com/yukikurage/staffdesk/internal/models"
	"github.com/yukikurage/staffdesk/internal/testutil"
)

type RecordStoreTestSuite struct {
	suite.Suite
	kv    kvstore.Store
	store *RecordStore
}

func (suite *RecordStoreTestSuite) SetupTest() {
	db, err := testutil.NewInMemoryDB()
	suite.Require().NoError(err)

	suite.kv = kvstore.NewGormStore(db)
	suite.store = NewRecordStore(suite.kv, nil)

	counter := 0
	suite.store.newID = func(prefix string) (string, error) {
		counter++
		return fmt.Sprintf("%s%d", prefix, counter), nil
	}
}

func (suite *RecordStoreTestSuite) TestListTasks_SeedsWhenAbsent() {
	tasks, err := suite.store.ListTasks()
	suite.Require().NoError(err)
	suite.Len(tasks, 4)

	raw, ok, err := suite.kv.Get(constants.StorageKeyTasks)
	suite.Require().NoError(err)
	suite.True(ok)
	suite.Contains(raw, "task_ls_1")
}

func (suite *RecordStoreTestSuite) TestListTasks_EmptyListIsNotReseeded() {
	suite.Require().NoError(suite.kv.Set(constants.StorageKeyTasks, "[]"))

	tasks, err := suite.store.ListTasks()
	suite.Require().NoError(err)
	suite.Empty(tasks)
}

func (suite *RecordStoreTestSuite) TestListTasks_CorruptedValueReseeds() {
	suite.Require().NoError(suite.kv.Set(constants.StorageKeyTasks, "{not json"))

	tasks, err := suite.store.ListTasks()
	suite.Require().NoError(err)
	suite.Len(tasks, 4)
}

func (suite *RecordStoreTestSuite) TestListTasks_InvalidStatusCountsAsCorrupted() {
	suite.Require().NoError(suite.kv.Set(constants.StorageKeyTasks, `[{"id":"x","status":"Blocked","priority":"Low"}]`))

	tasks, err := suite.store.ListTasks()
	suite.Require().NoError(err)
	suite.Len(tasks, 4)
}

func (suite *RecordStoreTestSuite) TestDeleteSeedTaskScenario() {
	tasks, err := suite.store.ListTasks()
	suite.Require().NoError(err)
	suite.Len(tasks, 4)

	removed, err := suite.store.DeleteTask("task_ls_2")
	suite.Require().NoError(err)
	suite.True(removed)

	tasks, err = suite.store.ListTasks()
	suite.Require().NoError(err)
	suite.Len(tasks, 3)
	for _, t := range tasks {
		suite.NotEqual("task_ls_2", t.ID)
	}
}

func (suite *RecordStoreTestSuite) TestDeleteTask_Missing() {
	before, err := suite.store.ListTasks()
	suite.Require().NoError(err)

	removed, err := suite.store.DeleteTask("task_nope")
	suite.Require().NoError(err)
	suite.False(removed)

	after, err := suite.store.ListTasks()
	suite.Require().NoError(err)
	suite.Equal(before, after)
}

func (suite *RecordStoreTestSuite) TestCreateThenGetTask() {
	fields := models.Task{
		ID:          "ignored",
		Title:       "Prepare onboarding kit",
		Description: "Laptop, badge, accounts",
		AssignedTo:  "emp_105",
		DueDate:     "2025-09-01",
		Status:      models.TaskStatusTodo,
		Priority:    models.TaskPriorityHigh,
	}

	created, err := suite.store.CreateTask(fields)
	suite.Require().NoError(err)
	suite.Equal("task_1", created.ID)

	got, err := suite.store.GetTask(created.ID)
	suite.Require().NoError(err)

	expected := fields
	expected.ID = created.ID
	suite.Equal(expected, *got)

	tasks, err := suite.store.ListTasks()
	suite.Require().NoError(err)
	suite.Len(tasks, 5)
}

func (suite *RecordStoreTestSuite) TestCreateTask_BlankEnumsRoundTrip() {
	removed, err := suite.store.DeleteTask("task_ls_1")
	suite.Require().NoError(err)
	suite.Require().True(removed)

	fields := models.Task{Title: "no status", AssignedTo: "emp_101"}
	created, err := suite.store.CreateTask(fields)
	suite.Require().NoError(err)

	got, err := suite.store.GetTask(created.ID)
	suite.Require().NoError(err)
	expected := fields
	expected.ID = created.ID
	suite.Equal(expected, *got)

	tasks, err := suite.store.ListTasks()
	suite.Require().NoError(err)
	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	suite.Equal([]string{"task_ls_2", "task_ls_3", "task_ls_4", created.ID}, ids)
}

func (suite *RecordStoreTestSuite) TestCreateTask_UnknownEnumLeavesStorage() {
	before, err := suite.store.ListTasks()
	suite.Require().NoError(err)

	_, err = suite.store.CreateTask(models.Task{Title: "x", AssignedTo: "emp_101", Status: "Blocked"})
	suite.ErrorIs(err, ErrUnstorableTask)

	_, err = suite.store.CreateTask(models.Task{Title: "x", AssignedTo: "emp_101", Priority: "Urgent"})
	suite.ErrorIs(err, ErrUnstorableTask)

	after, err := suite.store.ListTasks()
	suite.Require().NoError(err)
	suite.Equal(before, after)
}

func (suite *RecordStoreTestSuite) TestUpdateTask_UnknownStatusLeavesStorage() {
	before, err := suite.store.ListTasks()
	suite.Require().NoError(err)

	status := models.TaskStatus("Blocked")
	_, err = suite.store.UpdateTask("task_ls_1", models.TaskPatch{Status: &status})
	suite.ErrorIs(err, ErrUnstorableTask)

	after, err := suite.store.ListTasks()
	suite.Require().NoError(err)
	suite.Equal(before, after)
}

func (suite *RecordStoreTestSuite) TestUpdateTask_MergesAndKeepsPathID() {
	before, err := suite.store.GetTask("task_ls_3")
	suite.Require().NoError(err)

	status := models.TaskStatusReview
	updated, err := suite.store.UpdateTask("task_ls_3", models.TaskPatch{Status: &status})
	suite.Require().NoError(err)

	suite.Equal("task_ls_3", updated.ID)
	suite.Equal(models.TaskStatusReview, updated.Status)
	suite.Equal(before.Title, updated.Title)
	suite.Equal(before.AssignedTo, updated.AssignedTo)
	suite.Equal(before.Priority, updated.Priority)

	reloaded, err := suite.store.GetTask("task_ls_3")
	suite.Require().NoError(err)
	suite.Equal(*updated, *reloaded)
}

func (suite *RecordStoreTestSuite) TestUpdateTask_MissingLeavesStorage() {
	_, err := suite.store.ListTasks()
	suite.Require().NoError(err)
	rawBefore, _, err := suite.kv.Get(constants.StorageKeyTasks)
	suite.Require().NoError(err)

	title := "x"
	_, err = suite.store.UpdateTask("task_missing", models.TaskPatch{Title: &title})
	suite.ErrorIs(err, ErrTaskNotFound)

	rawAfter, _, err := suite.kv.Get(constants.StorageKeyTasks)
	suite.Require().NoError(err)
	suite.Equal(rawBefore, rawAfter)
}

func (suite *RecordStoreTestSuite) TestGetTask_NotFound() {
	_, err := suite.store.GetTask("task_missing")
	suite.ErrorIs(err, ErrTaskNotFound)
}

func (suite *RecordStoreTestSuite) TestEmployees() {
	employees, err := suite.store.ListEmployees()
	suite.Require().NoError(err)
	suite.Len(employees, 5)

	e, err := suite.store.GetEmployee("emp_103")
	suite.Require().NoError(err)
	suite.Equal("Sneha Reddy", e.Name)

	_, err = suite.store.GetEmployee("emp_999")
	suite.ErrorIs(err, ErrEmployeeNotFound)
}

func (suite *RecordStoreTestSuite) TestSessionRoundTrip() {
	session, err := suite.store.GetSession()
	suite.Require().NoError(err)
	suite.Nil(session)

	empID := "emp_101"
	want := &models.Session{
		UID:        "user_priya_login",
		Email:      "priya.sharma@example.com",
		Name:       "Priya Sharma",
		Role:       models.RoleEmployee,
		EmployeeID: &empID,
	}
	suite.Require().NoError(suite.store.SetSession(want))

	got, err := suite.store.GetSession()
	suite.Require().NoError(err)
	suite.Equal(want, got)

	suite.Require().NoError(suite.store.SetSession(nil))
	got, err = suite.store.GetSession()
	suite.Require().NoError(err)
	suite.Nil(got)
}

func (suite *RecordStoreTestSuite) TestSession_CorruptedReadsAsNone() {
	for _, raw := range []string{"{oops", `{"uid":"x","role":"root"}`, `{"uid":"x"}`, "null"} {
		suite.Require().NoError(suite.kv.Set(constants.StorageKeyCurrentUser, raw))
		session, err := suite.store.GetSession()
		suite.Require().NoError(err, raw)
		suite.Nil(session, raw)
	}
}

func (suite *RecordStoreTestSuite) TestCreateAndDeleteEmployeeWithCredential() {
	employee, credential, err := suite.store.CreateEmployeeWithCredential(
		models.Employee{Name: "Rahul Mehta", Email: "rahul.mehta@example.com"},
		models.LoginCredential{Email: "rahul.mehta@example.com", Password: "password123", Role: models.RoleEmployee, Name: "Rahul Mehta"},
	)
	suite.Require().NoError(err)
	suite.Equal("emp_1", employee.ID)
	suite.Equal("user_2", credential.ID)
	suite.Require().NotNil(credential.EmployeeID)
	suite.Equal(employee.ID, *credential.EmployeeID)

	creds, err := suite.store.ListDynamicCredentials()
	suite.Require().NoError(err)
	suite.Len(creds, 1)

	removed, err := suite.store.DeleteEmployee(employee.ID)
	suite.Require().NoError(err)
	suite.True(removed)

	creds, err = suite.store.ListDynamicCredentials()
	suite.Require().NoError(err)
	suite.Empty(creds)

	removed, err = suite.store.DeleteEmployee(employee.ID)
	suite.Require().NoError(err)
	suite.False(removed)
}

func (suite *RecordStoreTestSuite) TestUpdateEmployee() {
	position := "Staff Engineer"
	updated, err := suite.store.UpdateEmployee("emp_101", models.EmployeePatch{Position: &position})
	suite.Require().NoError(err)
	suite.Equal("Staff Engineer", updated.Position)
	suite.Equal("Priya Sharma", updated.Name)

	_, err = suite.store.UpdateEmployee("emp_999", models.EmployeePatch{Position: &position})
	suite.ErrorIs(err, ErrEmployeeNotFound)
}

func (suite *RecordStoreTestSuite) TestUpdateEmployee_SyncsPairedCredential() {
	employee, _, err := suite.store.CreateEmployeeWithCredential(
		models.Employee{Name: "Rahul Mehta", Email: "rahul.mehta@example.com"},
		models.LoginCredential{Email: "rahul.mehta@example.com", Password: "password123", Role: models.RoleEmployee, Name: "Rahul Mehta"},
	)
	suite.Require().NoError(err)

	email := "r.mehta@example.com"
	_, err = suite.store.UpdateEmployee(employee.ID, models.EmployeePatch{Email: &email})
	suite.Require().NoError(err)

	creds, err := suite.store.ListDynamicCredentials()
	suite.Require().NoError(err)
	suite.Require().Len(creds, 1)
	suite.Equal("r.mehta@example.com", creds[0].Email)
	suite.Equal("Rahul Mehta", creds[0].Name)
	suite.Equal("password123", creds[0].Password)
}

func (suite *RecordStoreTestSuite) TestBootstrapAndReset() {
	suite.Require().NoError(suite.store.Bootstrap())
	for _, key := range []string{constants.StorageKeyEmployees, constants.StorageKeyTasks, constants.StorageKeyDynamicUsers} {
		_, ok, err := suite.kv.Get(key)
		suite.Require().NoError(err)
		suite.True(ok, key)
	}

	suite.Require().NoError(suite.store.Reset())
	_, ok, err := suite.kv.Get(constants.StorageKeyTasks)
	suite.Require().NoError(err)
	suite.False(ok)
}

func TestRecordStoreTestSuite(t *testing.T) {
	suite.Run(t, new(RecordStoreTestSuite))
}

// failingStore fails every call, standing in for an unreachable database.
type failingStore struct{}

var errBackend = errors.New("backend unavailable")

func (failingStore) Get(string) (string, bool, error) { return "", false, errBackend }
func (failingStore) Set(string, string) error         { return errBackend }
func (failingStore) Delete(string) error              { return errBackend }

func TestRecordStore_BackendErrorsPropagate(t *testing.T) {
	store := NewRecordStore(failingStore{}, nil)

	_, err := store.ListTasks()
	assert.ErrorIs(t, err, errBackend)

	_, err = store.GetSession()
	assert.ErrorIs(t, err, errBackend)

	assert.ErrorIs(t, store.SetSession(nil), errBackend)
}

func TestRecordStore_TaskJSONRoundTrip(t *testing.T) {
	kv := kvstore.NewMemoryStore()
	store := NewRecordStore(kv, nil)

	created, err := store.CreateTask(models.Task{
		Title:      "Quarterly taxes",
		AssignedTo: "emp_105",
		DueDate:    "2025-10-01",
		Status:     models.TaskStatusCompleted,
		Priority:   models.TaskPriorityLow,
	})
	require.NoError(t, err)

	raw, ok, err := kv.Get(constants.StorageKeyTasks)
	require.NoError(t, err)
	require.True(t, ok)

	var decoded []models.Task
	require.NoError(t, json.Unmarshal([]byte(raw), &decoded))
	require.Equal(t, *created, decoded[len(decoded)-1])
}
