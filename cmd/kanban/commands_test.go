package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"kanban_backend/internal/app/di"
	"kanban_backend/internal/app/router"
	"kanban_backend/internal/client/api"
	"kanban_backend/internal/client/board"
	"kanban_backend/internal/client/session"
	platformdb "kanban_backend/internal/platform/db"
	jwtmw "kanban_backend/internal/platform/jwt"
)

const testSecret = "cli-test-secret"

// startServer runs the real HTTP stack over an in-memory database.
func startServer(t *testing.T) string {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, platformdb.Migrate(db))

	settings := di.Settings{JWTSecret: testSecret, JWTTTL: time.Hour, BcryptCost: bcrypt.MinCost}
	_, err = di.NewUserUsecase(db, nil, settings).CreateUser(context.Background(), "JollyGuru", "password")
	require.NoError(t, err)

	engine, err := router.NewRouter(di.NewHandlers(db, nil, settings), router.Options{Verifier: jwtmw.NewVerifier(testSecret)})
	require.NoError(t, err)

	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)
	return srv.URL
}

func newTestApp(t *testing.T, server, password string) (*app, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	store := session.NewTokenStore(filepath.Join(t.TempDir(), "token"))
	a := newApp(server, store, strings.NewReader(""), out, func() ([]byte, error) {
		return []byte(password), nil
	})
	return a, out
}

func TestCLI_Workflow(t *testing.T) {
	server := startServer(t)
	a, out := newTestApp(t, server, "password")
	ctx := context.Background()

	run := func(args ...string) string {
		t.Helper()
		out.Reset()
		require.NoError(t, a.dispatch(ctx, args[0], args[1:]), out.String())
		return out.String()
	}

	assert.Contains(t, run("login", "JollyGuru"), "Logged in as JollyGuru")
	assert.True(t, a.store.LoggedIn(time.Now()))

	assert.Contains(t, run("create", "--name", "Write docs", "--description", "every endpoint", "--assignee", "1"), "Created ticket #1")

	boardOut := run("board")
	assert.Contains(t, boardOut, "Todo (1)")
	assert.Contains(t, boardOut, "Write docs")
	assert.Contains(t, boardOut, "@JollyGuru")

	assert.Contains(t, run("edit", "1", "--status", "Done", "--assignee", "unassigned"), "Updated ticket #1")

	showOut := run("show", "1")
	assert.Contains(t, showOut, "Done")
	assert.Contains(t, showOut, "Unassigned")

	assert.Contains(t, run("board", "--user", "unassigned"), "Done (1)")
	assert.Contains(t, run("users"), "JollyGuru")

	delOut := run("delete", "1")
	assert.Contains(t, delOut, "Deleted ticket #1")
	assert.Contains(t, delOut, "Done (0)")

	assert.Contains(t, run("logout"), "Logged out")
	out.Reset()
	assert.ErrorIs(t, a.dispatch(ctx, "board", nil), board.ErrNotLoggedIn)
}

func TestCLI_LoginFailure(t *testing.T) {
	server := startServer(t)
	a, _ := newTestApp(t, server, "wrong")

	err := a.dispatch(context.Background(), "login", []string{"JollyGuru"})
	assert.Equal(t, http.StatusUnauthorized, api.StatusOf(err))
	assert.False(t, a.store.LoggedIn(time.Now()), "no token saved on failure")
}

func TestCLI_CreateFailureShowsMessage(t *testing.T) {
	server := startServer(t)
	a, out := newTestApp(t, server, "password")
	ctx := context.Background()
	require.NoError(t, a.dispatch(ctx, "login", []string{"JollyGuru"}))

	out.Reset()
	err := a.dispatch(ctx, "create", []string{"--name", "missing description"})
	assert.Equal(t, http.StatusBadRequest, api.StatusOf(err))
	assert.Contains(t, out.String(), "Could not create ticket. Please try again.")
}

func TestCLI_Usage(t *testing.T) {
	a, out := newTestApp(t, "http://127.0.0.1:0", "")

	tests := []struct {
		name string
		cmd  string
		args []string
	}{
		{"unknown command", "frobnicate", nil},
		{"show without id", "show", nil},
		{"delete bad id", "delete", []string{"abc"}},
		{"bad assignee", "create", []string{"--assignee", "someone"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			err := a.dispatch(context.Background(), tt.cmd, tt.args)
			assert.ErrorIs(t, err, errUsage)
		})
	}
}
