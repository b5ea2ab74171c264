package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-crm/internal/services"
)

const (
	accessTokenCookie  = "access_token"
	refreshTokenCookie = "refresh_token"
)

type loginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email,max=255"`
	Password string `json:"password" form:"password" binding:"required,min=6,max=255"`
}

type registerRequest struct {
	Name string `json:"name" form:"name" binding:"required,min=2,max=255"`
	loginRequest
}

func (h *handlerImpl) HandleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Warn().
			Err(err).
			Msg("invalid login request")
		abort(c, newBadRequestError(msgInvalidAuthData))
		return
	}

	result, err := h.auth.Login(c, services.LoginParams{
		Email:       req.Email,
		Password:    req.Password,
		Fingerprint: fingerprint(c),
	})
	if err != nil {
		abort(c, h.authError(err, "login"))
		return
	}

	setSessionCookies(c, result)
	c.Status(http.StatusOK)
}

func (h *handlerImpl) HandleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Warn().
			Err(err).
			Msg("invalid register request")
		abort(c, newBadRequestError(msgInvalidAuthData))
		return
	}

	result, err := h.auth.Register(c, services.RegisterParams{
		Name: req.Name,
		LoginParams: services.LoginParams{
			Email:       req.Email,
			Password:    req.Password,
			Fingerprint: fingerprint(c),
		},
	})
	if err != nil {
		abort(c, h.authError(err, "register"))
		return
	}

	setSessionCookies(c, result)
	c.JSON(http.StatusCreated, gin.H{"id": result.UserID})
}

func (h *handlerImpl) HandleRefresh(c *gin.Context) {
	if _, ok := h.refreshSession(c); ok {
		c.Status(http.StatusOK)
	}
}

func (h *handlerImpl) HandleLogout(c *gin.Context) {
	userID := c.GetString(userIDCtxKey)
	if err := h.auth.Logout(c, userID); err != nil {
		h.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to logout")
		abort(c, newInternalError(msgLogoutFailed))
		return
	}

	clearSessionCookies(c)
	c.Status(http.StatusNoContent)
}

// refreshSession rotates the session behind the refresh token cookie and
// writes the new token pair. It aborts c and reports false on failure.
func (h *handlerImpl) refreshSession(c *gin.Context) (*services.LoginResult, bool) {
	refreshToken, err := c.Cookie(refreshTokenCookie)
	if err != nil || refreshToken == "" {
		abort(c, newBadRequestError(msgSessionCookieRequired))
		return nil, false
	}

	result, err := h.auth.Refresh(c, services.RefreshParams{
		RefreshToken: refreshToken,
		Fingerprint:  fingerprint(c),
	})
	if err != nil {
		abort(c, h.authError(err, "refresh"))
		return nil, false
	}

	setSessionCookies(c, result)
	return result, true
}

// authError maps auth service failures to the reply sent to the client.
// Unknown emails and wrong passwords share a message.
func (h *handlerImpl) authError(err error, action string) apiError {
	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrUserPasswordMismatch):
		return newUnauthorizedError(msgInvalidCredentials)
	case errors.Is(err, services.ErrUserAlreadyExists):
		return newConflictError(msgUserAlreadyExists)
	case errors.Is(err, services.ErrSessionExpired):
		return newUnauthorizedError(msgSessionExpired)
	case errors.Is(err, services.ErrSessionNotFound):
		return newUnauthorizedError(msgUnauthorized)
	}

	h.logger.Error().
		Err(err).
		Str("action", action).
		Msg("auth request failed")
	return newInternalError(msgAuthFailed)
}

// fingerprint binds a session to the browser that opened it.
func fingerprint(c *gin.Context) string {
	return c.ClientIP() + "|" + c.Request.UserAgent()
}

func setSessionCookies(c *gin.Context, result *services.LoginResult) {
	now := time.Now()
	// The access token stays readable by scripts, which send it back
	// in the Authorization header.
	setCookie(c, accessTokenCookie, result.AccessToken, result.AccessTokenExpiresAt.Sub(now), false)
	setCookie(c, refreshTokenCookie, result.RefreshToken, result.RefreshTokenExpiresAt.Sub(now), true)
}

func clearSessionCookies(c *gin.Context) {
	setCookie(c, accessTokenCookie, "", -time.Second, false)
	setCookie(c, refreshTokenCookie, "", -time.Second, true)
}

func setCookie(c *gin.Context, name, value string, maxAge time.Duration, httpOnly bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, int(maxAge.Seconds()), "/", "", false, httpOnly)
}
