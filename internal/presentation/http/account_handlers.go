package httppresentation

import (
	"net/http"

	appauth "github.com/Zhima-Mochi/storefront/internal/application/auth"
	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func (h *Handler) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	a, err := h.svc.Auth.Register(c.Request.Context(), appauth.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	writeOK(c, http.StatusCreated, "account registered", gin.H{"user": toAccount(a)})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	s, err := h.svc.Auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	writeOK(c, http.StatusOK, "", gin.H{
		"token":      s.Token,
		"expires_at": s.ExpiresAt,
		"user": accountResponse{
			ID:       s.Identity.AccountID,
			Username: s.Identity.Username,
			Email:    s.Email,
			Role:     s.Identity.Role,
		},
	})
}

type profileRequest struct {
	Username        *string `json:"username"`
	Email           *string `json:"email"`
	CurrentPassword string  `json:"current_password"`
	NewPassword     string  `json:"new_password"`
}

func (h *Handler) handleUpdateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	a, err := h.svc.Auth.UpdateProfile(c.Request.Context(), identityOf(c), appauth.ProfileUpdate{
		Username:        req.Username,
		Email:           req.Email,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	writeOK(c, http.StatusOK, "profile updated", gin.H{"user": toAccount(a)})
}

func (h *Handler) handleDeleteAccount(c *gin.Context) {
	if err := h.svc.Auth.DeleteAccount(c.Request.Context(), identityOf(c), c.Param("id")); err != nil {
		h.writeDomainError(c, err)
		return
	}
	writeOK(c, http.StatusOK, "account deleted", nil)
}
