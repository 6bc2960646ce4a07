package employee_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-employees/internal/employee"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeEmployeeService struct {
	CreateFn func(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error)
	GetAllFn func(ctx context.Context) ([]employee.EmployeeResponse, error)
}

func (f *fakeEmployeeService) Create(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	return f.CreateFn(ctx, req)
}

func (f *fakeEmployeeService) GetAll(ctx context.Context) ([]employee.EmployeeResponse, error) {
	return f.GetAllFn(ctx)
}

func newTestContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	c.Request = req
	return c, w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var got map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	return got
}

func TestEmployeeHandler_Create(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeEmployeeService{
			CreateFn: func(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
				assert.Equal(t, adaRequest(), req)
				return employee.EmployeeResponse{EmployeeID: 1, FirstName: string(req.FirstName)}, nil
			},
		}
		h := employee.NewHandler(svc, zap.NewNop())
		c, w := newTestContext(http.MethodPost, "/employees",
			`{"first_name":"Ada","last_name":"Lovelace","email":"ada@example.com","job_title":"Engineer"}`)

		h.Create(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"Employee data inserted successfully"}`, w.Body.String())
	})

	t.Run("empty body is passed through as empty fields", func(t *testing.T) {
		called := false
		svc := &fakeEmployeeService{
			CreateFn: func(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
				called = true
				assert.Equal(t, employee.CreateEmployeeRequest{}, req)
				return employee.EmployeeResponse{}, nil
			},
		}
		h := employee.NewHandler(svc, zap.NewNop())
		c, w := newTestContext(http.MethodPost, "/employees", "")

		h.Create(c)

		assert.True(t, called)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("non-string values are kept as text", func(t *testing.T) {
		var got employee.CreateEmployeeRequest
		svc := &fakeEmployeeService{
			CreateFn: func(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
				got = req
				return employee.EmployeeResponse{}, nil
			},
		}
		h := employee.NewHandler(svc, zap.NewNop())
		c, w := newTestContext(http.MethodPost, "/employees",
			`{"first_name":"Ada","last_name":null,"email":true,"job_title":123}`)

		h.Create(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, employee.CreateEmployeeRequest{
			FirstName: "Ada",
			LastName:  "",
			Email:     "true",
			JobTitle:  "123",
		}, got)
	})

	t.Run("malformed body", func(t *testing.T) {
		h := employee.NewHandler(&fakeEmployeeService{}, zap.NewNop())
		c, w := newTestContext(http.MethodPost, "/employees", `{"first_name":`)

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		got := decodeBody(t, w)
		assert.Equal(t, "Invalid request body", got["message"])
		assert.NotEmpty(t, got["error"])
	})

	t.Run("service error returns raw message", func(t *testing.T) {
		svc := &fakeEmployeeService{
			CreateFn: func(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
				return employee.EmployeeResponse{}, errors.New("ORA-12899: value too large for column FIRST_NAME")
			},
		}
		h := employee.NewHandler(svc, zap.NewNop())
		c, w := newTestContext(http.MethodPost, "/employees", `{"first_name":"Ada"}`)

		h.Create(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t,
			`{"message":"Error inserting data","error":"ORA-12899: value too large for column FIRST_NAME"}`,
			w.Body.String(),
		)
	})
}

func TestEmployeeHandler_GetAll(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeEmployeeService{
			GetAllFn: func(ctx context.Context) ([]employee.EmployeeResponse, error) {
				return []employee.EmployeeResponse{
					{EmployeeID: 1, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", HireDate: fixedNow, JobTitle: "Engineer"},
				}, nil
			},
		}
		h := employee.NewHandler(svc, zap.NewNop())
		c, w := newTestContext(http.MethodGet, "/employees", "")

		h.GetAll(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"employees":[{
			"employee_id":1,
			"first_name":"Ada",
			"last_name":"Lovelace",
			"email":"ada@example.com",
			"hire_date":"2026-03-02T09:30:00Z",
			"job_title":"Engineer"
		}]}`, w.Body.String())
	})

	t.Run("empty table", func(t *testing.T) {
		svc := &fakeEmployeeService{
			GetAllFn: func(ctx context.Context) ([]employee.EmployeeResponse, error) {
				return []employee.EmployeeResponse{}, nil
			},
		}
		h := employee.NewHandler(svc, zap.NewNop())
		c, w := newTestContext(http.MethodGet, "/employees", "")

		h.GetAll(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"employees":[]}`, w.Body.String())
	})

	t.Run("service error", func(t *testing.T) {
		svc := &fakeEmployeeService{
			GetAllFn: func(ctx context.Context) ([]employee.EmployeeResponse, error) {
				return nil, errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")
			},
		}
		h := employee.NewHandler(svc, zap.NewNop())
		c, w := newTestContext(http.MethodGet, "/employees", "")

		h.GetAll(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		got := decodeBody(t, w)
		assert.Equal(t, "Error fetching data", got["message"])
		assert.Contains(t, got["error"], "connection refused")
	})
}

func TestRegisterRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	order := []string{}
	svc := &fakeEmployeeService{
		CreateFn: func(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
			order = append(order, "create")
			return employee.EmployeeResponse{}, nil
		},
		GetAllFn: func(ctx context.Context) ([]employee.EmployeeResponse, error) {
			return []employee.EmployeeResponse{}, nil
		},
	}
	employee.RegisterRoutes(r, employee.NewHandler(svc, zap.NewNop()), func(c *gin.Context) {
		order = append(order, "middleware")
		c.Next()
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/employees", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"middleware", "create"}, order)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employees", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/employees", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
