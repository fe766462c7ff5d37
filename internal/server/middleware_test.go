package server

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatecode/internal/accesscode"
	"gatecode/internal/session"
)

// fakeSessionManager implements session.Manager for middleware tests
type fakeSessionManager struct {
	getFunc func(ctx context.Context, sessionID string) (*session.Session, error)
	deleted []string
}

func (f *fakeSessionManager) Establish(ctx context.Context, role string) (*session.Session, error) {
	return nil, nil
}

func (f *fakeSessionManager) Get(ctx context.Context, sessionID string) (*session.Session, error) {
	if f.getFunc != nil {
		return f.getFunc(ctx, sessionID)
	}
	return nil, session.ErrSessionNotFound
}

func (f *fakeSessionManager) Delete(ctx context.Context, sessionID string) error {
	f.deleted = append(f.deleted, sessionID)
	return nil
}

func (f *fakeSessionManager) TTL() time.Duration { return time.Hour }

func liveSession(role string) *session.Session {
	now := time.Now()
	return &session.Session{
		ID:        "sess-1",
		LoggedIn:  true,
		Role:      role,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
}

func gatedRouter(sessions session.Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/main", RequireSession(sessions, slog.Default()), func(c *gin.Context) {
		c.String(http.StatusOK, "Welcome to MainPage")
	})
	return r
}

func TestRequireSessionValid(t *testing.T) {
	sessions := &fakeSessionManager{
		getFunc: func(ctx context.Context, sessionID string) (*session.Session, error) {
			require.Equal(t, "sess-1", sessionID)
			return liveSession("admin"), nil
		},
	}

	r := gatedRouter(sessions)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/main", nil)
	req.AddCookie(&http.Cookie{Name: accesscode.SessionCookie, Value: "sess-1"})
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Welcome to MainPage", w.Body.String())
}

func TestRequireSessionNoCookie(t *testing.T) {
	r := gatedRouter(&fakeSessionManager{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/main", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Unauthorized")
}

func TestRequireSessionExpired(t *testing.T) {
	sessions := &fakeSessionManager{
		getFunc: func(ctx context.Context, sessionID string) (*session.Session, error) {
			return nil, session.ErrSessionExpired
		},
	}

	r := gatedRouter(sessions)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/main", nil)
	req.AddCookie(&http.Cookie{Name: accesscode.SessionCookie, Value: "sess-1"})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) {
		assert.NotEmpty(t, c.GetString("request_id"))
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
