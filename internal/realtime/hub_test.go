package realtime

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/staffdesk/internal/models"
)

type fakeClient struct {
	mu       sync.Mutex
	messages [][]byte
	closed   bool
}

func (c *fakeClient) Send(message []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, message)
	return true
}

func (c *fakeClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *fakeClient) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// blockingClient holds every Send until release is closed.
type blockingClient struct {
	entered chan struct{}
	release chan struct{}
}

func (c *blockingClient) Send([]byte) bool {
	c.entered <- struct{}{}
	<-c.release
	return true
}

func (c *blockingClient) Close() {}

func (c *fakeClient) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.messages)
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()
	a, b := &fakeClient{}, &fakeClient{}

	hub.Register("emp_101", a)
	hub.Register("emp_101", b)
	assert.Equal(t, 2, hub.Count("emp_101"))

	hub.Unregister("emp_101", a)
	hub.Unregister("emp_101", b)
	assert.Equal(t, 0, hub.Count("emp_101"))
	assert.NotContains(t, hub.clients, "emp_101")
}

func TestHub_PublishTaskEvent(t *testing.T) {
	hub := NewHub()
	admin, assignee, previous, bystander := &fakeClient{}, &fakeClient{}, &fakeClient{}, &fakeClient{}
	hub.Register(AdminAudience, admin)
	hub.Register("emp_105", assignee)
	hub.Register("emp_102", previous)
	hub.Register("emp_103", bystander)

	hub.PublishTaskEvent(models.TaskEvent{
		Type:             models.TaskEventUpdated,
		Task:             models.Task{ID: "task_ls_1", AssignedTo: "emp_105", Status: models.TaskStatusTodo, Priority: models.TaskPriorityHigh},
		PreviousAssignee: "emp_102",
	})

	assert.Equal(t, 1, admin.count())
	assert.Equal(t, 1, assignee.count())
	assert.Equal(t, 1, previous.count())
	assert.Equal(t, 0, bystander.count())

	var decoded models.TaskEvent
	require.NoError(t, json.Unmarshal(admin.messages[0], &decoded))
	assert.Equal(t, models.TaskEventUpdated, decoded.Type)
	assert.Equal(t, "task_ls_1", decoded.Task.ID)
}

func TestAudienceFor(t *testing.T) {
	id := "emp_101"
	assert.Equal(t, "", AudienceFor(nil))
	assert.Equal(t, AdminAudience, AudienceFor(&models.Session{Role: models.RoleAdmin}))
	assert.Equal(t, "emp_101", AudienceFor(&models.Session{Role: models.RoleEmployee, EmployeeID: &id}))
	assert.Equal(t, "", AudienceFor(&models.Session{Role: models.RoleEmployee}))
}

func TestHub_CloseAll(t *testing.T) {
	hub := NewHub()
	admin, employee := &fakeClient{}, &fakeClient{}
	hub.Register(AdminAudience, admin)
	hub.Register("emp_101", employee)

	hub.CloseAll()

	assert.True(t, admin.isClosed())
	assert.True(t, employee.isClosed())
	assert.Equal(t, 0, hub.Count(AdminAudience))
	assert.Equal(t, 0, hub.Count("emp_101"))

	hub.Unregister(AdminAudience, admin)
	hub.Broadcast(AdminAudience, []byte("{}"))
	assert.Equal(t, 0, admin.count())
}

func TestHub_SlowClientDoesNotBlockRegistration(t *testing.T) {
	hub := NewHub()
	slow := &blockingClient{entered: make(chan struct{}, 1), release: make(chan struct{})}
	hub.Register(AdminAudience, slow)

	done := make(chan struct{})
	go func() {
		defer close(done)
		hub.Broadcast(AdminAudience, []byte("{}"))
	}()
	<-slow.entered

	registered := make(chan struct{})
	go func() {
		hub.Register("emp_101", &fakeClient{})
		hub.Unregister(AdminAudience, slow)
		close(registered)
	}()

	select {
	case <-registered:
	case <-time.After(time.Second):
		t.Fatal("Register waited on a pending send")
	}
	assert.Equal(t, 1, hub.Count("emp_101"))

	close(slow.release)
	<-done
}
