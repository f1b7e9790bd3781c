package middleware

import (
	"errors"
	"net/http"
	"strings"

	"astroguia-backend/pkg/auth"
	"astroguia-backend/pkg/common"

	"github.com/awslabs/aws-lambda-go-api-proxy/core"
	"go.uber.org/zap"
)

// TokenValidator validates bearer tokens
type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

// Authenticator resolves the caller of every API request and applies
// per-IP and per-user rate limits.
type Authenticator struct {
	validator   TokenValidator
	ipLimiter   auth.RateLimiter
	userLimiter auth.RateLimiter
	// trustGateway accepts identities already verified by the API Gateway
	// JWT authorizer when running behind Lambda.
	trustGateway bool
	logger       *zap.Logger
}

// NewAuthenticator creates a new authentication middleware
func NewAuthenticator(validator TokenValidator, limiter auth.RateLimiter, trustGateway bool, logger *zap.Logger) *Authenticator {
	return &Authenticator{
		validator:    validator,
		ipLimiter:    auth.NewIPRateLimiter(limiter),
		userLimiter:  auth.NewUserRateLimiter(limiter),
		trustGateway: trustGateway,
		logger:       logger,
	}
}

// Middleware authenticates the request and stores the caller in its context
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := getClientIP(r)
		if !a.allow(w, r, a.ipLimiter, clientIP) {
			return
		}

		user, ok := a.gatewayUser(r)
		if !ok {
			token := extractToken(r)
			if token == "" {
				respondUnauthorized(w, "Missing authentication token")
				return
			}

			claims, err := a.validator.ValidateToken(token)
			if err != nil {
				a.logger.Warn("Invalid token",
					zap.Error(err),
					zap.String("ip", clientIP),
					zap.String("path", r.URL.Path),
				)
				switch {
				case errors.Is(err, auth.ErrExpiredToken):
					respondUnauthorized(w, "Token has expired")
				case errors.Is(err, auth.ErrInvalidSignature):
					respondUnauthorized(w, "Invalid token signature")
				default:
					respondUnauthorized(w, "Invalid token")
				}
				return
			}
			user = &auth.UserContext{UserID: claims.UserID(), Email: claims.Email, Role: claims.Role}
		}

		if !a.allow(w, r, a.userLimiter, user.UserID) {
			return
		}

		ctx := auth.SetUserInContext(r.Context(), user)
		ctx = common.WithUserID(ctx, user.UserID)

		a.logger.Debug("Request authenticated",
			zap.String("user_id", user.UserID),
			zap.String("path", r.URL.Path),
			zap.String("method", r.Method),
		)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *Authenticator) allow(w http.ResponseWriter, r *http.Request, limiter auth.RateLimiter, key string) bool {
	allowed, err := limiter.Allow(r.Context(), key)
	if err != nil {
		a.logger.Error("Rate limiter error", zap.Error(err))
		common.RespondError(w, http.StatusInternalServerError, common.StandardErrorCodes.InternalError, "Internal server error")
		return false
	}
	if !allowed {
		common.RespondError(w, http.StatusTooManyRequests, common.StandardErrorCodes.TooManyRequests, "Rate limit exceeded")
		return false
	}
	return true
}

// gatewayUser reads the subject verified by the API Gateway authorizer
func (a *Authenticator) gatewayUser(r *http.Request) (*auth.UserContext, bool) {
	if !a.trustGateway {
		return nil, false
	}
	proxyCtx, ok := core.GetAPIGatewayV2ContextFromContext(r.Context())
	if !ok || proxyCtx.Authorizer == nil {
		return nil, false
	}

	if jwt := proxyCtx.Authorizer.JWT; jwt != nil && jwt.Claims["sub"] != "" {
		return &auth.UserContext{
			UserID: jwt.Claims["sub"],
			Email:  jwt.Claims["email"],
			Role:   "authenticated",
		}, true
	}
	if sub, ok := proxyCtx.Authorizer.Lambda["sub"].(string); ok && sub != "" {
		email, _ := proxyCtx.Authorizer.Lambda["email"].(string)
		return &auth.UserContext{UserID: sub, Email: email, Role: "authenticated"}, true
	}
	return nil, false
}

// extractToken extracts the JWT token from the Authorization header or
// the auth_token cookie
func extractToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return authHeader
	}

	if cookie, err := r.Cookie("auth_token"); err == nil {
		return cookie.Value
	}
	return ""
}

// getClientIP extracts the client IP address
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	addr := r.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}

func respondUnauthorized(w http.ResponseWriter, message string) {
	common.RespondError(w, http.StatusUnauthorized, common.StandardErrorCodes.Unauthorized, message)
}
