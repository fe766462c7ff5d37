package accesscode

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatecode/internal/session"
)

// fakeService implements Service for handler tests
type fakeService struct {
	issueFunc  func(ctx context.Context, role, paymentID string) (*AccessCode, error)
	verifyFunc func(ctx context.Context, code string) (*AccessCode, error)
}

func (f *fakeService) Issue(ctx context.Context, role, paymentID string) (*AccessCode, error) {
	return f.issueFunc(ctx, role, paymentID)
}

func (f *fakeService) Verify(ctx context.Context, code string) (*AccessCode, error) {
	return f.verifyFunc(ctx, code)
}

func (f *fakeService) ReapExpired(ctx context.Context) (int64, error) {
	return 0, nil
}

// fakeSessionManager implements session.Manager for handler tests
type fakeSessionManager struct {
	established  []string
	establishErr error
}

func (f *fakeSessionManager) Establish(ctx context.Context, role string) (*session.Session, error) {
	if f.establishErr != nil {
		return nil, f.establishErr
	}
	f.established = append(f.established, role)
	now := time.Now()
	return &session.Session{
		ID:        "sess-1",
		LoggedIn:  true,
		Role:      role,
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}, nil
}

func (f *fakeSessionManager) Get(ctx context.Context, sessionID string) (*session.Session, error) {
	return nil, session.ErrSessionNotFound
}

func (f *fakeSessionManager) Delete(ctx context.Context, sessionID string) error { return nil }

func (f *fakeSessionManager) TTL() time.Duration { return time.Hour }

func newTestRouter(svc Service, sessions session.Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(svc, sessions, false, slog.Default())

	r := gin.New()
	r.POST("/generate-test-code", h.GenerateTestCode)
	r.GET("/generate-test-code", h.GenerateTestCode)
	r.GET("/verify-code/:code", h.VerifyCode)
	return r
}

func TestVerifyCodeEstablishesSession(t *testing.T) {
	sessions := &fakeSessionManager{}
	svc := &fakeService{
		verifyFunc: func(ctx context.Context, code string) (*AccessCode, error) {
			require.Equal(t, "abc1234", code)
			return &AccessCode{Code: code, Role: "admin"}, nil
		},
	}

	r := newTestRouter(svc, sessions)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/verify-code/abc1234", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp VerifyCodeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Code is valid", resp.Message)
	assert.Equal(t, "admin", resp.Role)

	assert.Equal(t, []string{"admin"}, sessions.established)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookie, cookies[0].Name)
	assert.Equal(t, "sess-1", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestVerifyCodeInvalidIsGeneric(t *testing.T) {
	sessions := &fakeSessionManager{}
	svc := &fakeService{
		verifyFunc: func(ctx context.Context, code string) (*AccessCode, error) {
			return nil, ErrInvalidCode
		},
	}

	r := newTestRouter(svc, sessions)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/verify-code/nonexistent", nil))

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Code is invalid or expired")
	assert.Empty(t, sessions.established)
	assert.Empty(t, w.Result().Cookies())
}

func TestVerifyCodeStoreFailure(t *testing.T) {
	svc := &fakeService{
		verifyFunc: func(ctx context.Context, code string) (*AccessCode, error) {
			return nil, assert.AnError
		},
	}

	r := newTestRouter(svc, &fakeSessionManager{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/verify-code/abc1234", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGenerateTestCodePost(t *testing.T) {
	svc := &fakeService{
		issueFunc: func(ctx context.Context, role, paymentID string) (*AccessCode, error) {
			assert.Equal(t, "guest", role)
			assert.Empty(t, paymentID)
			return &AccessCode{Code: "xyz9876", Role: role}, nil
		},
	}

	r := newTestRouter(svc, &fakeSessionManager{})
	body, _ := json.Marshal(GenerateCodeRequest{Role: "guest"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/generate-test-code", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp GenerateCodeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "xyz9876", resp.Code)
}

func TestGenerateTestCodeGet(t *testing.T) {
	svc := &fakeService{
		issueFunc: func(ctx context.Context, role, paymentID string) (*AccessCode, error) {
			return &AccessCode{Code: "xyz9876", Role: role}, nil
		},
	}

	r := newTestRouter(svc, &fakeSessionManager{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/generate-test-code?role=admin", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	// Missing role is a client error
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/generate-test-code", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
