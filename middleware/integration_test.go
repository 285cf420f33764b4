//go:build integration

package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"nitrojack/globals"
	"nitrojack/rdx"

	"github.com/julienschmidt/httprouter"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		panic(err)
	}

	rdx.Conn = redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", host, port.Port()),
	})

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func doAuthenticated(token string) *httptest.ResponseRecorder {
	next := func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusOK)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/posts/feed", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	Authenticate(next)(rec, req, nil)
	return rec
}

func TestAuthenticateHonorsLogout(t *testing.T) {
	token := signTestToken(t, "uSession001", "erin", time.Hour)
	require.NoError(t, rdx.RdxHset(globals.TokenHash, "uSession001", token))

	assert.Equal(t, http.StatusOK, doAuthenticated(token).Code)

	// logout deletes the hash entry; the still-unexpired token dies with it
	_, err := rdx.RdxHdel(globals.TokenHash, "uSession001")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, doAuthenticated(token).Code)
}

func TestAuthenticateRejectsSupersededToken(t *testing.T) {
	oldToken := signTestToken(t, "uSession002", "fred", time.Hour)
	require.NoError(t, rdx.RdxHset(globals.TokenHash, "uSession002", oldToken))

	newToken := signTestToken(t, "uSession002", "fred", 2*time.Hour)
	require.NoError(t, rdx.RdxHset(globals.TokenHash, "uSession002", newToken))

	assert.Equal(t, http.StatusUnauthorized, doAuthenticated(oldToken).Code)
	assert.Equal(t, http.StatusOK, doAuthenticated(newToken).Code)
}
