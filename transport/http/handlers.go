package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/layer-3/rangda/core"
	"github.com/layer-3/rangda/service"
)

// AuthHandlers contains HTTP handlers for auth endpoints
type AuthHandlers struct {
	authService *service.AuthService
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authService *service.AuthService) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
	}
}

// Nonce issues a fresh single-use nonce
func (h *AuthHandlers) Nonce(c *gin.Context) {
	nonce, err := h.authService.CreateNonce(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue nonce"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"nonce": nonce})
}

// Verify runs the verification chain over a signed message
func (h *AuthHandlers) Verify(c *gin.Context) {
	var req struct {
		Message   string `json:"message" binding:"required"`
		Signature string `json:"signature" binding:"required"`
		Address   string `json:"address" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	outcome := h.authService.Verify(c.Request.Context(), req.Message, req.Signature, req.Address)

	switch outcome.Status {
	case core.StatusAuthenticated:
		token, err := h.authService.FinalizeSession(outcome.Identity)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue session"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"outcome":  outcome.Status,
			"identity": identityJSON(outcome.Identity),
			"token":    token,
		})

	case core.StatusNeedsEmail, core.StatusNeedsUsername:
		token, err := h.authService.StepToken(outcome.Identity, outcome.Status)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue step token"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"outcome":       outcome.Status,
			"identity":      identityJSON(outcome.Identity),
			"step_token":    token,
			"next_step_url": stepURL(outcome.Status),
		})

	case core.StatusInternal:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})

	default:
		// Deliberately non-specific: the rejection reason stays in the logs
		c.JSON(http.StatusUnauthorized, gin.H{
			"outcome": core.StatusRejected,
			"error":   "Authentication failed",
		})
	}
}

// RequestEmail stores an email on the account and produces a confirmation link
func (h *AuthHandlers) RequestEmail(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
		Email string `json:"email" binding:"required,email"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	link, err := h.authService.RequestEmailConfirmation(c.Request.Context(), req.Token, req.Email)
	if err != nil {
		if errors.Is(err, core.ErrInvalidToken) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid step token"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to request confirmation"})
		return
	}

	// Delivery is the mailer's job; until one is wired the link is returned
	// directly
	c.JSON(http.StatusAccepted, gin.H{"confirmation": link})
}

// ConfirmEmail completes the email step via the signed confirmation link
func (h *AuthHandlers) ConfirmEmail(c *gin.Context) {
	identity, err := h.authService.ConfirmEmail(
		c.Request.Context(),
		c.Param("user"),
		c.Param("ts"),
		c.Param("hash"),
	)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid confirmation link"})
		return
	}

	token, err := h.authService.FinalizeSession(identity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"outcome":  core.StatusAuthenticated,
		"identity": identityJSON(identity),
		"token":    token,
	})
}

// ChooseUsername completes the username step
func (h *AuthHandlers) ChooseUsername(c *gin.Context) {
	var req struct {
		Token    string `json:"token" binding:"required"`
		Username string `json:"username" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	identity, err := h.authService.ChooseUsername(c.Request.Context(), req.Token, req.Username)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNameTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "Username already taken"})
		case errors.Is(err, core.ErrInvalidToken):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid step token"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set username"})
		}
		return
	}

	token, err := h.authService.FinalizeSession(identity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"outcome":  core.StatusAuthenticated,
		"identity": identityJSON(identity),
		"token":    token,
	})
}

// Me returns the identity of the authenticated user
func (h *AuthHandlers) Me(c *gin.Context) {
	address, exists := c.Get("userAddress")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User not found in context"})
		return
	}

	identity, err := h.authService.IdentityByAddress(c.Request.Context(), address.(string))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Identity not found"})
		return
	}

	c.JSON(http.StatusOK, identityJSON(identity))
}

func identityJSON(identity *core.Identity) gin.H {
	return gin.H{
		"id":             identity.ID,
		"address":        identity.Address,
		"display_name":   identity.DisplayName,
		"generated_name": identity.GeneratedName,
		"email_verified": identity.EmailVerified,
	}
}

func stepURL(status core.OutcomeStatus) string {
	if status == core.StatusNeedsEmail {
		return "/auth/email"
	}
	return "/auth/username"
}
