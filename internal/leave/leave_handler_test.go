package leave_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-portal-rh/internal/leave"
	leaveerrors "go-portal-rh/internal/leave/errors"
	leaveMock "go-portal-rh/internal/leave/mock"
	leavebalanceerrors "go-portal-rh/internal/leavebalance/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

func newHandlerTest(t *testing.T, actor leave.Actor) (*gin.Engine, *leaveMock.MockService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := leaveMock.NewMockService(gomock.NewController(t))
	h := leave.NewHandler(svc)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("employee_id", actor.EmployeeID)
		c.Set("role", actor.Role)
		c.Next()
	})
	r.POST("/leaves", h.Submit)
	r.GET("/leaves/mine", h.GetMine)
	r.GET("/leaves/:id", h.GetByID)
	r.GET("/leaves/manager/pending", h.ListPendingForManager)
	r.GET("/leaves/hr/queue", h.ListHRQueue)
	r.POST("/leaves/:id/manager-approve", h.ManagerApprove)
	r.POST("/leaves/:id/manager-reject", h.ManagerReject)
	r.POST("/leaves/:id/hr-approve", h.HRApprove)
	r.POST("/leaves/:id/hr-reject", h.HRReject)
	r.GET("/employees/:employee_id/leaves", h.GetForEmployee)
	return r, svc
}

func TestLeaveHandler_Submit(t *testing.T) {
	actor := leave.Actor{EmployeeID: uuid.New().String(), Role: "employee"}
	body := `{"kind":"annual","start_date":"2026-03-02","end_date":"2026-03-04"}`

	t.Run("created", func(t *testing.T) {
		r, svc := newHandlerTest(t, actor)
		svc.EXPECT().
			Submit(gomock.Any(), actor, "abc-123", leave.SubmitLeaveRequest{Kind: "annual", StartDate: "2026-03-02", EndDate: "2026-03-04"}).
			Return(leave.LeaveResponse{ID: "l-1", Status: "pending", RequestedDays: 3}, nil)

		req := httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Idempotency-Key", "abc-123")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		assert.Contains(t, string(env.Data), `"requested_days":3`)
	})

	t.Run("missing field", func(t *testing.T) {
		r, _ := newHandlerTest(t, actor)

		req := httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(`{"kind":"annual"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, decodeEnvelope(t, w.Body.Bytes()).Ok)
	})

	t.Run("insufficient balance", func(t *testing.T) {
		r, svc := newHandlerTest(t, actor)
		svc.EXPECT().
			Submit(gomock.Any(), actor, "", gomock.Any()).
			Return(leave.LeaveResponse{}, leavebalanceerrors.ErrInsufficientBalance)

		req := httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		if assert.NotNil(t, env.Error) {
			assert.Equal(t, "INSUFFICIENT_BALANCE", env.Error.Code)
		}
	})

	t.Run("cross year", func(t *testing.T) {
		r, svc := newHandlerTest(t, actor)
		svc.EXPECT().
			Submit(gomock.Any(), actor, "", gomock.Any()).
			Return(leave.LeaveResponse{}, leaveerrors.ErrCrossYear)

		req := httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestLeaveHandler_Decisions(t *testing.T) {
	manager := leave.Actor{EmployeeID: uuid.New().String(), Role: "manager"}
	hr := leave.Actor{EmployeeID: uuid.New().String(), Role: "hr"}
	id := uuid.New().String()

	t.Run("manager approve", func(t *testing.T) {
		r, svc := newHandlerTest(t, manager)
		svc.EXPECT().
			ManagerApprove(gomock.Any(), manager, id).
			Return(leave.LeaveResponse{ID: id, Status: "manager_approved"}, nil)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/leaves/"+id+"/manager-approve", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "manager_approved")
	})

	t.Run("manager approve outside scope", func(t *testing.T) {
		r, svc := newHandlerTest(t, manager)
		svc.EXPECT().
			ManagerApprove(gomock.Any(), manager, id).
			Return(leave.LeaveResponse{}, leaveerrors.ErrNotAuthorized)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/leaves/"+id+"/manager-approve", nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("manager reject requires reason", func(t *testing.T) {
		r, _ := newHandlerTest(t, manager)

		req := httptest.NewRequest(http.MethodPost, "/leaves/"+id+"/manager-reject", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("manager reject", func(t *testing.T) {
		r, svc := newHandlerTest(t, manager)
		svc.EXPECT().
			ManagerReject(gomock.Any(), manager, id, leave.RejectLeaveRequest{RejectionReason: "peak season"}).
			Return(leave.LeaveResponse{ID: id, Status: "rejected"}, nil)

		req := httptest.NewRequest(http.MethodPost, "/leaves/"+id+"/manager-reject", strings.NewReader(`{"rejection_reason":"peak season"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("hr approve out of order", func(t *testing.T) {
		r, svc := newHandlerTest(t, hr)
		svc.EXPECT().
			HRApprove(gomock.Any(), hr, id).
			Return(leave.LeaveResponse{}, leaveerrors.ErrInvalidStatusTransition)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/leaves/"+id+"/hr-approve", nil))

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		if assert.NotNil(t, env.Error) {
			assert.Equal(t, "INVALID_STATE", env.Error.Code)
		}
	})

	t.Run("hr reject", func(t *testing.T) {
		r, svc := newHandlerTest(t, hr)
		svc.EXPECT().
			HRReject(gomock.Any(), hr, id, leave.RejectLeaveRequest{RejectionReason: "coverage"}).
			Return(leave.LeaveResponse{ID: id, Status: "rejected"}, nil)

		req := httptest.NewRequest(http.MethodPost, "/leaves/"+id+"/hr-reject", strings.NewReader(`{"rejection_reason":"coverage"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unexpected error is masked", func(t *testing.T) {
		r, svc := newHandlerTest(t, hr)
		svc.EXPECT().
			HRApprove(gomock.Any(), hr, id).
			Return(leave.LeaveResponse{}, context.DeadlineExceeded)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/leaves/"+id+"/hr-approve", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "deadline")
	})
}

func TestLeaveHandler_Queries(t *testing.T) {
	employee := leave.Actor{EmployeeID: uuid.New().String(), Role: "employee"}

	t.Run("mine with year", func(t *testing.T) {
		r, svc := newHandlerTest(t, employee)
		year := 2026
		svc.EXPECT().
			HistoryForEmployee(gomock.Any(), employee, employee.EmployeeID, &year).
			Return([]leave.LeaveResponse{{ID: "a"}, {ID: "b"}}, nil)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leaves/mine?year=2026", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var items []leave.LeaveResponse
		assert.NoError(t, json.Unmarshal(decodeEnvelope(t, w.Body.Bytes()).Data, &items))
		assert.Len(t, items, 2)
	})

	t.Run("mine with bad year", func(t *testing.T) {
		r, _ := newHandlerTest(t, employee)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leaves/mine?year=last", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("get by id not found", func(t *testing.T) {
		r, svc := newHandlerTest(t, employee)
		id := uuid.New().String()
		svc.EXPECT().
			GetByID(gomock.Any(), employee, id).
			Return(leave.LeaveResponse{}, leaveerrors.ErrLeaveNotFound)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leaves/"+id, nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("hr queue paginates", func(t *testing.T) {
		hr := leave.Actor{EmployeeID: uuid.New().String(), Role: "hr"}
		r, svc := newHandlerTest(t, hr)
		svc.EXPECT().
			ListManagerApprovedForHR(gomock.Any(), hr).
			Return([]leave.LeaveResponse{{ID: "1"}, {ID: "2"}, {ID: "3"}}, nil)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leaves/hr/queue?page=2&page_size=2", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var items []leave.LeaveResponse
		assert.NoError(t, json.Unmarshal(decodeEnvelope(t, w.Body.Bytes()).Data, &items))
		if assert.Len(t, items, 1) {
			assert.Equal(t, "3", items[0].ID)
		}
	})

	t.Run("manager pending", func(t *testing.T) {
		manager := leave.Actor{EmployeeID: uuid.New().String(), Role: "manager"}
		r, svc := newHandlerTest(t, manager)
		svc.EXPECT().
			ListPendingForManager(gomock.Any(), manager).
			Return([]leave.LeaveResponse{}, nil)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leaves/manager/pending", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
