package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/merchant-dashboard/pkg/jwtutil"
	"github.com/suteetoe/merchant-dashboard/pkg/logger"
	"github.com/suteetoe/merchant-dashboard/pkg/session"
	"go.uber.org/zap"
)

const (
	identityKey  = "identity"
	sessionIDKey = "session_id"
)

// JWTAuthMiddleware validates the bearer token and resolves the caller's
// identity through the session store. Unauthenticated callers get a 401
// pointing at loginURL.
func JWTAuthMiddleware(jwtUtil *jwtutil.JWTUtil, store session.Store, loginURL string) echo.MiddlewareFunc {
	unauthorized := func(c echo.Context, msg string) error {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": msg, "login_url": loginURL})
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				log.Debug("Missing authorization header")
				return unauthorized(c, "authentication required")
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				log.Warn("Invalid authorization header format")
				return unauthorized(c, "invalid authorization format, expected Bearer token")
			}

			claims, err := jwtUtil.ValidateToken(parts[1])
			if err != nil {
				log.Warn("Invalid or expired token", zap.Error(err))
				return unauthorized(c, "invalid or expired token")
			}

			identity, err := store.GetIdentity(c.Request().Context(), claims.ID)
			if err != nil {
				if !errors.Is(err, session.ErrNoSession) {
					log.Error("Session lookup failed", zap.Error(err))
					return c.JSON(http.StatusInternalServerError, echo.Map{"error": "something went wrong, please try again"})
				}
				log.Info("Session is no longer active", zap.String("user_id", claims.UserID))
				return unauthorized(c, "session expired, please log in again")
			}
			if identity.UserID != claims.UserID {
				log.Warn("Session identity mismatch",
					zap.String("token_user_id", claims.UserID),
					zap.String("session_user_id", identity.UserID))
				return unauthorized(c, "invalid or expired token")
			}

			c.Set(identityKey, identity)
			c.Set(sessionIDKey, claims.ID)
			c.Set(logger.EchoKey, log.With(zap.String("user_id", identity.UserID)))

			return next(c)
		}
	}
}

// IdentityFromEcho returns the identity set by JWTAuthMiddleware
func IdentityFromEcho(c echo.Context) (session.Identity, bool) {
	identity, ok := c.Get(identityKey).(session.Identity)
	return identity, ok
}

// SessionIDFromEcho returns the session id of the current bearer token
func SessionIDFromEcho(c echo.Context) (string, bool) {
	id, ok := c.Get(sessionIDKey).(string)
	return id, ok
}
