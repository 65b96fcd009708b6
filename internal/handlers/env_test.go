package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/staffdesk/internal/constants"
	"github.com/yukikurage/staffdesk/internal/kvstore"
	"github.com/yukikurage/staffdesk/internal/middleware"
	"github.com/yukikurage/staffdesk/internal/realtime"
	"github.com/yukikurage/staffdesk/internal/repository"
	"github.com/yukikurage/staffdesk/internal/seed"
	"github.com/yukikurage/staffdesk/internal/services"
	"github.com/yukikurage/staffdesk/internal/testutil"
)

type testEnv struct {
	store     *repository.RecordStore
	hub       *realtime.Hub
	auth      *services.AuthService
	tasks     *services.TaskService
	employees *services.EmployeeService
	dashboard *services.DashboardService
}

func newTestEnv(t *testing.T, managed bool) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	store := repository.NewRecordStore(kvstore.NewGormStore(db), nil)
	require.NoError(t, store.Bootstrap())

	creds := services.CombinedCredentials{Static: services.StaticCredentials(seed.Builtin().Credentials), Dynamic: store}
	auth, err := services.NewAuthService(store, store, creds)
	require.NoError(t, err)

	hub := realtime.NewHub()
	return testEnv{
		store:     store,
		hub:       hub,
		auth:      auth,
		tasks:     services.NewTaskService(store, store, hub, nil),
		employees: services.NewEmployeeService(store, creds, managed),
		dashboard: services.NewDashboardService(store, store),
	}
}

// router returns an engine with cookie sessions and the gate's session loaded.
func (e testEnv) router() *gin.Engine {
	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	r.Use(middleware.LoadSession(e.auth))
	return r
}

func (e testEnv) login(t *testing.T, email, password string) {
	t.Helper()
	_, err := e.auth.Login(email, password)
	require.NoError(t, err)
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, jsonBody(t, body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func jsonBody(t *testing.T, body any) *bytes.Reader {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	return bytes.NewReader(raw)
}
