package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-portal-rh/internal/domain"
	"go-portal-rh/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/t", handlers...)
	r.GET("/t", handlers...)
	return r
}

func okHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"employee_id": c.GetString(string(ContextEmployeeID)),
		"role":        c.GetString(string(ContextRole)),
	})
}

func TestAuthMiddleware(t *testing.T) {
	valid := signToken(t, jwt.MapClaims{
		"employee_id": "emp-1",
		"role":        domain.RoleManager,
		"exp":         time.Now().Add(time.Hour).Unix(),
	})
	expired := signToken(t, jwt.MapClaims{
		"employee_id": "emp-1",
		"exp":         time.Now().Add(-time.Hour).Unix(),
	})
	noEmployee := signToken(t, jwt.MapClaims{
		"role": domain.RoleHR,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"valid token", "Bearer " + valid, http.StatusOK, `"role":"manager"`},
		{"missing token", "", http.StatusUnauthorized, "Token not found"},
		{"expired token", "Bearer " + expired, http.StatusUnauthorized, "TOKEN_EXPIRED"},
		{"garbage token", "Bearer abc.def.ghi", http.StatusUnauthorized, "INVALID_TOKEN"},
		{"missing employee", "Bearer " + noEmployee, http.StatusUnauthorized, "Employee ID not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(AuthMiddleware(testSecret), okHandler)
			req := httptest.NewRequest(http.MethodGet, "/t", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestAuthMiddleware_Cookie(t *testing.T) {
	token := signToken(t, jwt.MapClaims{"employee_id": "emp-2", "role": domain.RoleEmployee})

	r := newRouter(AuthMiddleware(testSecret), okHandler)
	req := httptest.NewRequest(http.MethodGet, "/t", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"employee_id":"emp-2"`)
}

type fakeRBAC struct {
	allowed bool
	got     domain.EnforceRequest
}

func (f *fakeRBAC) Enforce(req domain.EnforceRequest) (bool, error) {
	f.got = req
	return f.allowed, nil
}

func withIdentity(employeeID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(string(ContextEmployeeID), employeeID)
		c.Set(string(ContextRole), role)
		c.Next()
	}
}

func TestRBACAuthorize(t *testing.T) {
	t.Run("allowed", func(t *testing.T) {
		svc := &fakeRBAC{allowed: true}
		r := newRouter(withIdentity("emp-1", domain.RoleHR), RBACAuthorize(svc, "leave", "hr_decide"), okHandler)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/t", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, domain.EnforceRequest{Role: domain.RoleHR, Resource: "leave", Action: "hr_decide"}, svc.got)
	})

	t.Run("denied", func(t *testing.T) {
		svc := &fakeRBAC{allowed: false}
		r := newRouter(withIdentity("emp-1", domain.RoleEmployee), RBACAuthorize(svc, "leave", "hr_decide"), okHandler)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/t", nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "leave:hr_decide")
	})

	t.Run("no identity", func(t *testing.T) {
		r := newRouter(RBACAuthorize(&fakeRBAC{allowed: true}, "leave", "read_own"), okHandler)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/t", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRoleMiddleware(t *testing.T) {
	r := newRouter(withIdentity("emp-1", domain.RoleEmployee), RoleMiddleware(domain.RoleHR, domain.RoleAdmin), okHandler)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/t", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequestIDAndContextLogger(t *testing.T) {
	var gotRID, gotActor string
	r := newRouter(
		RequestID(),
		withIdentity("emp-9", domain.RoleEmployee),
		ContextLogger(zap.NewNop()),
		func(c *gin.Context) {
			gotRID = contextutil.GetRequestID(c.Request.Context())
			gotActor = contextutil.GetActorID(c.Request.Context())
			c.Status(http.StatusNoContent)
		},
	)

	req := httptest.NewRequest(http.MethodGet, "/t", nil)
	req.Header.Set(HeaderRequestID, "rid-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "rid-123", gotRID)
	assert.Equal(t, "emp-9", gotActor)
	assert.Equal(t, "rid-123", w.Header().Get(HeaderRequestID))
}

func TestRequestID_ReplacesUnusableHeader(t *testing.T) {
	for name, header := range map[string]string{
		"missing":  "",
		"too long": strings.Repeat("a", 65),
		"spaces":   "rid with spaces",
	} {
		t.Run(name, func(t *testing.T) {
			r := newRouter(RequestID(), okHandler)
			req := httptest.NewRequest(http.MethodGet, "/t", nil)
			if header != "" {
				req.Header.Set(HeaderRequestID, header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			got := w.Header().Get(HeaderRequestID)
			assert.NotEqual(t, header, got)
			_, err := uuid.Parse(got)
			assert.NoError(t, err)
		})
	}
}

func TestIdempotency(t *testing.T) {
	lockKey := "idemp:/t:emp-1:key-1:lock"

	t.Run("first request runs and releases lock", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectSetNX(lockKey, "locked", idempotencyLockTTL).SetVal(true)
		mock.ExpectDel(lockKey).SetVal(1)

		r := newRouter(withIdentity("emp-1", domain.RoleEmployee), Idempotency(rdb, zap.NewNop()), okHandler)
		req := httptest.NewRequest(http.MethodPost, "/t", nil)
		req.Header.Set(HeaderIdempotencyKey, "key-1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("concurrent duplicate is rejected", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		mock.ExpectSetNX(lockKey, "locked", idempotencyLockTTL).SetVal(false)

		r := newRouter(withIdentity("emp-1", domain.RoleEmployee), Idempotency(rdb, zap.NewNop()), okHandler)
		req := httptest.NewRequest(http.MethodPost, "/t", nil)
		req.Header.Set(HeaderIdempotencyKey, "key-1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "PROCESSING")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no key skips redis", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()

		r := newRouter(withIdentity("emp-1", domain.RoleEmployee), Idempotency(rdb, zap.NewNop()), okHandler)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/t", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRateLimitByEmployee(t *testing.T) {
	r := newRouter(withIdentity("emp-1", domain.RoleEmployee), RateLimitByEmployee(1, 1), okHandler)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/t", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/t", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
