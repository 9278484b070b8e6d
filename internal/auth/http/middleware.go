package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ynpsss/labrador/internal/audit"
	authDomain "github.com/ynpsss/labrador/internal/auth/domain"
	authService "github.com/ynpsss/labrador/internal/auth/service"
	apperrors "github.com/ynpsss/labrador/internal/errors"
	"github.com/ynpsss/labrador/internal/httputil"
)

// AuthenticationMiddleware provides authentication via Bearer credentials in
// the Authorization header.
//
// The credential format is "Bearer <client-name>:<secret>". The middleware
// resolves the client from the configured set and verifies the secret against
// its Argon2id hash in constant time, then stores the authenticated client in
// the request context for downstream handlers and the audit trail.
//
// Error handling:
//   - Missing Authorization header → 401 Unauthorized
//   - Malformed Authorization header → 401 Unauthorized
//   - Unknown client or wrong secret → 401 Unauthorized
func AuthenticationMiddleware(
	clients *authDomain.ClientSet,
	secretService authService.SecretService,
	logger *slog.Logger,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Debug("authentication failed: missing authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		// Parse Bearer credentials (case-insensitive scheme)
		const bearerPrefix = "bearer "
		if len(authHeader) < len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("authentication failed: malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		credentials := authHeader[len(bearerPrefix):]
		name, secret, found := strings.Cut(credentials, ":")
		if !found || name == "" || secret == "" {
			logger.Debug("authentication failed: malformed bearer credentials")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		client, err := clients.Get(name)
		if err != nil {
			logger.Debug("authentication failed: unknown client",
				slog.String("client", name))
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		if !secretService.CompareSecret(secret, client.SecretHash) {
			logger.Debug("authentication failed: secret mismatch",
				slog.String("client", name))
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		// Store the authenticated client for handlers and the audit trail
		ctx := WithClient(c.Request.Context(), client)
		ctx = audit.WithClient(ctx, client.Name)
		c.Request = c.Request.WithContext(ctx)

		logger.Debug("authentication successful",
			slog.String("client", client.Name))

		c.Next()
	}
}
