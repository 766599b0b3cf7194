package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clinic/internal/services"
)

// UserHandler handles staff profile requests.
type UserHandler struct {
	userService services.UserServicer
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService services.UserServicer) *UserHandler {
	return &UserHandler{userService: userService}
}

// UpdateProfileRequest represents the profile update payload. Empty fields are unchanged.
type UpdateProfileRequest struct {
	Name     string `json:"name" binding:"max=100"`
	Email    string `json:"email" binding:"omitempty,email,max=255"`
	Password string `json:"password" binding:"max=128"`
}

// GetMe returns the authenticated user's profile
// @Summary     Get current user
// @Tags        users
// @Produce     json
// @Security    CookieAuth
// @Success     200 {object} SuccessResponse "User profile"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondWithSuccess(c, http.StatusOK, gin.H{"user": user}, "User profile retrieved successfully")
}

// UpdateMe updates the authenticated user's profile
// @Summary     Update current user
// @Tags        users
// @Accept      json
// @Produce     json
// @Security    CookieAuth
// @Param       request body UpdateProfileRequest true "Profile fields"
// @Success     200 {object} SuccessResponse "Updated profile"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Email already in use"
// @Router      /users/me [put]
func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateProfile(userID, req.Name, req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondWithSuccess(c, http.StatusOK, gin.H{"user": user}, "User profile updated successfully")
}

// GetUserByID returns another staff member's profile
// @Summary     Get user by ID
// @Tags        users
// @Produce     json
// @Security    CookieAuth
// @Param       id path string true "User ID"
// @Success     200 {object} SuccessResponse "User profile"
// @Failure     400 {object} ErrorResponse "Invalid user ID"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /users/{id} [get]
func (h *UserHandler) GetUserByID(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondWithSuccess(c, http.StatusOK, gin.H{"user": user}, "User profile retrieved successfully")
}
