package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/staffdesk/internal/kvstore"
	"github.com/yukikurage/staffdesk/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

func memoryOpener(store *repository.RecordStore) storeOpener {
	return func() (*repository.RecordStore, func() error, error) {
		return store, func() error { return nil }, nil
	}
}

func run(t *testing.T, store *repository.RecordStore, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(memoryOpener(store))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTasksCommand(t *testing.T) {
	store := repository.NewRecordStore(kvstore.NewMemoryStore(), nil)

	out, err := run(t, store, "tasks")
	require.NoError(t, err)
	assert.Contains(t, out, "task_ls_1")
	assert.Contains(t, out, "Amit Kumar")

	out, err = run(t, store, "tasks", "--status", "To Do")
	require.NoError(t, err)
	assert.Contains(t, out, "task_ls_2")
	assert.NotContains(t, out, "task_ls_1")

	_, err = run(t, store, "tasks", "--status", "Blocked")
	assert.Error(t, err)
}

func TestResetCommand(t *testing.T) {
	store := repository.NewRecordStore(kvstore.NewMemoryStore(), nil)
	_, err := store.DeleteTask("task_ls_1")
	require.NoError(t, err)

	_, err = run(t, store, "reset")
	require.Error(t, err)

	_, err = run(t, store, "reset", "--yes")
	require.NoError(t, err)

	tasks, err := store.ListTasks()
	require.NoError(t, err)
	assert.Len(t, tasks, 4)
}

func TestBootstrapCommand(t *testing.T) {
	store := repository.NewRecordStore(kvstore.NewMemoryStore(), nil)
	out, err := run(t, store, "bootstrap")
	require.NoError(t, err)
	assert.Contains(t, out, "bootstrapped")
}

func TestHashPasswordCommand(t *testing.T) {
	out, err := run(t, nil, "hash-password", "s3cret")
	require.NoError(t, err)

	hashed := bytes.TrimSpace([]byte(out))
	assert.NoError(t, bcrypt.CompareHashAndPassword(hashed, []byte("s3cret")))
}
