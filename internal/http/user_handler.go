package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"board-api/internal/repository"
)

// UserHandler implementa el CRUD de usuarios.
type UserHandler struct {
	logger *zap.Logger
}

func NewUserHandler(logger *zap.Logger) *UserHandler {
	return &UserHandler{logger: logger}
}

// GetSession maneja GET /session: eco del usuario actual resuelto.
func (h *UserHandler) GetSession(c *gin.Context) {
	rc := RequestContextFrom(c)

	me := rc.CurrentUser(c.Request.Context())
	if me == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no current user"})
		return
	}
	c.JSON(http.StatusOK, me)
}

// ListUsers maneja GET /users.
func (h *UserHandler) ListUsers(c *gin.Context) {
	rc := RequestContextFrom(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	preview := c.DefaultQuery("preview", "true") != "false"

	users, err := rc.Users.List(c.Request.Context(), repository.ListUsersParams{
		Limit:   limit,
		Offset:  offset,
		Preview: preview,
	})
	if err != nil {
		handleStorageError(c, h.logger, err, "user not found", "could not list users")
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUser maneja GET /users/:userId.
func (h *UserHandler) GetUser(c *gin.Context) {
	rc := RequestContextFrom(c)

	id, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	history, _ := strconv.Atoi(c.DefaultQuery("history", "0"))

	user, err := rc.Users.GetByID(c.Request.Context(), id, history)
	if err != nil {
		handleStorageError(c, h.logger, err, "user not found", "could not get user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// CreateUser maneja POST /users.
func (h *UserHandler) CreateUser(c *gin.Context) {
	rc := RequestContextFrom(c)

	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create user request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if username == "" || email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and email are required"})
		return
	}

	user, err := rc.Users.Create(c.Request.Context(), username, email)
	if err != nil {
		handleStorageError(c, h.logger, err, "user not found", "could not create user")
		return
	}
	c.JSON(http.StatusCreated, user)
}

// UpdateUser maneja PUT /users/:userId. Actualizacion parcial: los campos
// ausentes conservan su valor previo.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	rc := RequestContextFrom(c)

	id, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	var req struct {
		Username *string `json:"username"`
		Email    *string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update user request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if req.Username == nil && req.Email == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
		return
	}

	user, err := rc.Users.Update(c.Request.Context(), id, repository.UpdateUserParams{
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		handleStorageError(c, h.logger, err, "user not found", "could not update user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser maneja DELETE /users/:userId.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	rc := RequestContextFrom(c)

	id, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	if err := rc.Users.Delete(c.Request.Context(), id); err != nil {
		handleStorageError(c, h.logger, err, "user not found", "could not delete user")
		return
	}
	c.Status(http.StatusNoContent)
}
