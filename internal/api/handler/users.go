package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/banwatch/banwatch/internal/api/models"
	"github.com/banwatch/banwatch/internal/database"
)

// ListUsers returns all users ordered by username.
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.db.ListUsers(c.Request.Context())
	if err != nil {
		storeError(c, "Failed to list users", err)
		return
	}
	c.JSON(http.StatusOK, models.UsersFromDatabase(users))
}

// GetUser returns the user matching the username path parameter. The default
// response shape is a list with zero or one element, matching the legacy
// contract where a miss is an empty list rather than a 404. With
// ?single=true the response is a bare object and a miss is a 404.
func (h *Handler) GetUser(c *gin.Context) {
	username := c.Param("username")
	single := c.Query("single") == "true"

	user, err := h.db.GetUser(c.Request.Context(), username)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		storeError(c, "Failed to get user", err)
		return
	}

	if single {
		if user == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusOK, models.UserFromDatabase(*user))
		return
	}

	users := []models.User{}
	if user != nil {
		users = append(users, models.UserFromDatabase(*user))
	}
	c.JSON(http.StatusOK, users)
}

// CreateUser inserts a new user. A duplicate username is a 409 carrying the
// collision detail; a malformed body is a 400.
func (h *Handler) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid request body: %v", err)})
		return
	}

	user := &database.User{
		Username:       req.Username,
		IPs:            models.NormalizeIPs(req.IP, req.IPs),
		UserAgent:      req.UserAgent,
		Cores:          req.Cores,
		GPU:            req.GPU,
		UsernameBanned: req.UsernameBanned,
		IPBanned:       req.IPBanned,
		LastSeen:       req.LastSeen,
	}

	if err := h.db.CreateUser(c.Request.Context(), user); err != nil {
		if errors.Is(err, database.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		storeError(c, "Failed to create user", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": fmt.Sprintf("User added: %s", user.Username)})
}

// UpdateUser overwrites all mutable fields of the user. Updating a username
// that does not exist is a 404.
func (h *Handler) UpdateUser(c *gin.Context) {
	username := c.Param("username")

	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid request body: %v", err)})
		return
	}

	user := &database.User{
		Username:       username,
		IPs:            models.NormalizeIPs(req.IP, req.IPs),
		UserAgent:      req.UserAgent,
		Cores:          req.Cores,
		GPU:            req.GPU,
		UsernameBanned: req.UsernameBanned,
		IPBanned:       req.IPBanned,
		LastSeen:       req.LastSeen,
	}

	if err := h.db.UpdateUser(c.Request.Context(), user); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		storeError(c, "Failed to update user", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("User modified: %s", username)})
}

// DeleteUser removes the user. The operation is idempotent: deleting a
// missing user still reports success.
func (h *Handler) DeleteUser(c *gin.Context) {
	username := c.Param("username")

	if err := h.db.DeleteUser(c.Request.Context(), username); err != nil {
		storeError(c, "Failed to delete user", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("User deleted: %s", username)})
}
