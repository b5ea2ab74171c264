package v1

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/adanyl0v/go-crm/internal/services"
)

const (
	userIDCtxKey    = "user_id"
	sessionIDCtxKey = "session_id"
)

// HandleAuthMiddleware admits requests carrying a valid bearer access
// token. An expired token is renewed from the refresh token cookie.
func (h *handlerImpl) HandleAuthMiddleware(c *gin.Context) {
	accessToken, ok := bearerToken(c.GetHeader("Authorization"))
	if !ok {
		h.logger.Warn().
			Str("path", c.FullPath()).
			Msg("missing bearer token")
		abort(c, newUnauthorizedError(msgUnauthorized))
		return
	}

	claims, err := h.auth.ParseJWTToken(accessToken)
	if errors.Is(err, jwt.ErrTokenExpired) {
		result, ok := h.refreshSession(c)
		if !ok {
			return
		}
		claims, err = h.auth.ParseJWTToken(result.AccessToken)
	}
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("rejected access token")
		abort(c, newUnauthorizedError(msgUnauthorized))
		return
	}

	session, err := h.sessions.GetSessionByID(c, claims.Subject)
	switch {
	case errors.Is(err, services.ErrSessionExpired):
		abort(c, newUnauthorizedError(msgSessionExpired))
		return
	case errors.Is(err, services.ErrSessionNotFound):
		abort(c, newUnauthorizedError(msgUnauthorized))
		return
	case err != nil:
		h.logger.Error().
			Err(err).
			Str("session_id", claims.Subject).
			Msg("failed to get session")
		abort(c, newInternalError(msgAuthFailed))
		return
	}

	if session.Fingerprint != fingerprint(c) {
		h.logger.Warn().
			Str("session_id", session.ID).
			Msg("session used from another browser")
		abort(c, newUnauthorizedError(msgUnauthorized))
		return
	}

	c.Set(userIDCtxKey, session.UserID)
	c.Set(sessionIDCtxKey, session.ID)
	c.Next()
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || scheme != "Bearer" {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
