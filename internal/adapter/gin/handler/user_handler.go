package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yashness/azure-swa-demo/internal/usecase/user"
	apperrors "github.com/yashness/azure-swa-demo/pkg/errors"
)

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	svc     user.Service
	backend string
	log     *zap.Logger
}

// NewUserHandler creates a new UserHandler instance. The backend name is
// reported in the root status payload so operators can tell which storage
// family the process is running against.
func NewUserHandler(svc user.Service, backend string, log *zap.Logger) *UserHandler {
	return &UserHandler{
		svc:     svc,
		backend: backend,
		log:     log,
	}
}

// CreateUserRequest represents the create-user input, accepted as query
// parameters or form fields.
type CreateUserRequest struct {
	Name  string `form:"name" binding:"required"`
	Email string `form:"email" binding:"required"`
}

// UserResponse represents the HTTP response for user data
type UserResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Root handles GET / and always answers 200, degraded backend or not.
func (h *UserHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":  "Azure SWA Demo API",
		"status":   "healthy",
		"database": h.backend,
	})
}

// Health handles GET /health
func (h *UserHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}

// ListUsers handles GET /users
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.svc.ListUsers(c.Request.Context())
	if err != nil {
		h.log.Error("ListUsers failed", zap.Error(err))
		h.handleError(c, err)
		return
	}

	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = UserResponse{
			ID:    u.ID,
			Name:  u.Name,
			Email: u.Email,
		}
	}

	c.JSON(http.StatusOK, resp)
}

// GetUser handles GET /users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.log.Warn("invalid user ID", zap.String("id", idStr), zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_id",
			Message: "User ID must be a valid number",
		})
		return
	}

	resp, err := h.svc.GetUser(c.Request.Context(), user.GetUserRequest{ID: id})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, UserResponse{
		ID:    resp.ID,
		Name:  resp.Name,
		Email: resp.Email,
	})
}

// CreateUser handles POST /users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBind(&req); err != nil {
		h.log.Warn("invalid create user request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "name and email are required",
		})
		return
	}

	resp, err := h.svc.CreateUser(c.Request.Context(), user.CreateUserRequest{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, UserResponse{
		ID:    resp.ID,
		Name:  resp.Name,
		Email: resp.Email,
	})
}

// handleError translates usecase errors into the response taxonomy.
// Storage failures never reach the transport layer unstructured, and the
// body carries no internal exception text beyond the typed message.
func (h *UserHandler) handleError(c *gin.Context, err error) {
	var notFound *apperrors.NotFoundError
	if errors.As(err, &notFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: notFound.Error(),
		})
		return
	}

	var exists *apperrors.AlreadyExistsError
	if errors.As(err, &exists) {
		c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "already_exists",
			Message: exists.Error(),
		})
		return
	}

	h.log.Error("request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}
