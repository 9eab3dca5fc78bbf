package api

import (
	"errors"
	"net/http"

	"github.com/KwameAlfred37/MedFinderNew/src/middleware"
	"github.com/KwameAlfred37/MedFinderNew/src/services"
	"github.com/KwameAlfred37/MedFinderNew/src/utils"

	"github.com/gin-gonic/gin"
)

// RegisterRequest is the payload for POST /api/auth/register.
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// RegisterHandler handles POST /api/auth/register.
func (h *APIHandler) RegisterHandler(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request: email and a password of at least 8 characters are required.", err)
		return
	}

	user, token, err := h.authService.Register(req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			utils.SendJSONError(c, http.StatusConflict, "An account with this email already exists.", nil)
			return
		}
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to create account", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user, "token": token})
}

// LoginRequest is the payload for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginHandler handles POST /api/auth/login.
func (h *APIHandler) LoginHandler(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendJSONError(c, http.StatusBadRequest, "Invalid request: email and password are required.", err)
		return
	}

	user, token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.SendJSONError(c, http.StatusUnauthorized, "Invalid email or password.", nil)
			return
		}
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to log in", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
}

// CurrentUserHandler handles GET /api/auth/user (authenticated).
func (h *APIHandler) CurrentUserHandler(c *gin.Context) {
	accountID := c.GetString(middleware.ContextAccountID)
	user, err := h.authService.GetUser(accountID)
	if err != nil {
		utils.SendJSONError(c, http.StatusInternalServerError, "Failed to fetch user", err)
		return
	}
	if user == nil {
		utils.SendJSONError(c, http.StatusNotFound, "User not found", nil)
		return
	}
	c.JSON(http.StatusOK, user)
}
