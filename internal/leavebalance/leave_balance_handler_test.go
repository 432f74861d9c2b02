package leavebalance_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-portal-rh/internal/leavebalance"
	leavebalanceerrors "go-portal-rh/internal/leavebalance/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeBalanceService struct {
	GetForEmployeeFn func(ctx context.Context, employeeID string, year int) (leavebalance.BalanceResponse, error)
	ListByYearFn     func(ctx context.Context, year int) ([]leavebalance.BalanceResponse, error)
	ProvisionFn      func(ctx context.Context, req leavebalance.ProvisionBalanceRequest) (leavebalance.BalanceResponse, bool, error)
}

func (f *fakeBalanceService) GetForEmployee(ctx context.Context, employeeID string, year int) (leavebalance.BalanceResponse, error) {
	return f.GetForEmployeeFn(ctx, employeeID, year)
}
func (f *fakeBalanceService) ListByYear(ctx context.Context, year int) ([]leavebalance.BalanceResponse, error) {
	return f.ListByYearFn(ctx, year)
}
func (f *fakeBalanceService) Provision(ctx context.Context, req leavebalance.ProvisionBalanceRequest) (leavebalance.BalanceResponse, bool, error) {
	return f.ProvisionFn(ctx, req)
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func withEmployee(employeeID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("employee_id", employeeID)
		c.Next()
	}
}

func TestBalanceHandler_GetMine(t *testing.T) {
	employeeID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		svc := &fakeBalanceService{
			GetForEmployeeFn: func(ctx context.Context, eid string, year int) (leavebalance.BalanceResponse, error) {
				assert.Equal(t, employeeID, eid)
				assert.Equal(t, 2024, year)
				return leavebalance.BalanceResponse{EmployeeID: eid, Year: year, EntitlementDays: 22, AvailableDays: 22}, nil
			},
		}
		r := setupRouter()
		r.GET("/leave-balances/mine", withEmployee(employeeID), leavebalance.NewHandler(svc).GetMine)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leave-balances/mine?year=2024", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"available_days":22`)
	})

	t.Run("not provisioned", func(t *testing.T) {
		svc := &fakeBalanceService{
			GetForEmployeeFn: func(ctx context.Context, eid string, year int) (leavebalance.BalanceResponse, error) {
				return leavebalance.BalanceResponse{}, leavebalanceerrors.ErrNoBalanceForYear
			},
		}
		r := setupRouter()
		r.GET("/leave-balances/mine", withEmployee(employeeID), leavebalance.NewHandler(svc).GetMine)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leave-balances/mine", nil))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "NO_BALANCE_FOR_YEAR")
	})

	t.Run("bad year", func(t *testing.T) {
		r := setupRouter()
		r.GET("/leave-balances/mine", withEmployee(employeeID), leavebalance.NewHandler(&fakeBalanceService{}).GetMine)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leave-balances/mine?year=abc", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBalanceHandler_ListByYear(t *testing.T) {
	svc := &fakeBalanceService{
		ListByYearFn: func(ctx context.Context, year int) ([]leavebalance.BalanceResponse, error) {
			out := make([]leavebalance.BalanceResponse, 15)
			for i := range out {
				out[i] = leavebalance.BalanceResponse{Year: year}
			}
			return out, nil
		},
	}
	r := setupRouter()
	r.GET("/leave-balances", leavebalance.NewHandler(svc).ListByYear)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leave-balances?year=2025&page=2&page_size=10", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":15`)
	assert.Contains(t, w.Body.String(), `"page":2`)
}

func TestBalanceHandler_Provision(t *testing.T) {
	employeeID := uuid.New().String()

	t.Run("created", func(t *testing.T) {
		svc := &fakeBalanceService{
			ProvisionFn: func(ctx context.Context, req leavebalance.ProvisionBalanceRequest) (leavebalance.BalanceResponse, bool, error) {
				assert.Equal(t, employeeID, req.EmployeeID)
				assert.Equal(t, 22, *req.EntitlementDays)
				return leavebalance.BalanceResponse{EmployeeID: req.EmployeeID, EntitlementDays: 22}, true, nil
			},
		}
		r := setupRouter()
		r.POST("/leave-balances", leavebalance.NewHandler(svc).Provision)

		body := `{"employee_id":"` + employeeID + `","year":2025,"entitlement_days":22}`
		req := httptest.NewRequest(http.MethodPost, "/leave-balances", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("already provisioned", func(t *testing.T) {
		svc := &fakeBalanceService{
			ProvisionFn: func(ctx context.Context, req leavebalance.ProvisionBalanceRequest) (leavebalance.BalanceResponse, bool, error) {
				return leavebalance.BalanceResponse{EmployeeID: req.EmployeeID, EntitlementDays: 30}, false, nil
			},
		}
		r := setupRouter()
		r.POST("/leave-balances", leavebalance.NewHandler(svc).Provision)

		body := `{"employee_id":"` + employeeID + `","year":2025,"entitlement_days":0}`
		req := httptest.NewRequest(http.MethodPost, "/leave-balances", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing field", func(t *testing.T) {
		r := setupRouter()
		r.POST("/leave-balances", leavebalance.NewHandler(&fakeBalanceService{}).Provision)

		req := httptest.NewRequest(http.MethodPost, "/leave-balances", strings.NewReader(`{"year":2025}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	})
}
