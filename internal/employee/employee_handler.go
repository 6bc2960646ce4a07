package employee

import (
	"errors"
	"io"
	"net/http"

	"go-employees/internal/shared/apperror"
	"go-employees/internal/shared/contextutil"
	"go-employees/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	MsgInserted    = "Employee data inserted successfully"
	MsgInsertError = "Error inserting data"
	MsgFetchError  = "Error fetching data"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("employee.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	contextutil.GetLogger(c.Request.Context(), h.logger).Warn("employee request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("error", httpErr.Detail),
	)
	response.Error(c, httpErr.Status, httpErr.Message, httpErr.Detail)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateEmployeeRequest
	// An empty body is an empty request, not a malformed one.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.writeServiceError(c, apperror.Wrap(err,
			apperror.ErrInvalidInput.Code,
			apperror.ErrInvalidInput.Message,
			apperror.ErrInvalidInput.HTTPStatus,
		))
		return
	}

	if _, err := h.service.Create(c.Request.Context(), req); err != nil {
		h.writeServiceError(c, apperror.Wrap(err, apperror.CodeInternalError, MsgInsertError, http.StatusInternalServerError))
		return
	}

	response.Message(c, http.StatusOK, MsgInserted)
}

func (h *Handler) GetAll(c *gin.Context) {
	resp, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, apperror.Wrap(err, apperror.CodeInternalError, MsgFetchError, http.StatusInternalServerError))
		return
	}

	response.Success(c, http.StatusOK, ListEmployeesResponse{Employees: resp})
}
