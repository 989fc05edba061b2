// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

package middleware

import (
	"net/http"
	"strings"

	"github.com/dramirezb/cinemateca/internal/platform/ctxutil"
	"github.com/dramirezb/cinemateca/internal/platform/sec"
)

// # Authentication & Authorization

// TokenVerifier defines the behavior needed to validate access tokens.
type TokenVerifier interface {
	VerifyToken(tokenString string) (*sec.AuthClaims, error)
}

// Authenticate parses the Bearer token if present and attaches the claims
// to the request context. It does NOT reject anonymous requests; route
// groups decide whether auth is mandatory via RequireAuth or RequireRole.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// 1. Extract the Authorization header
			authHeader := request.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// 2. Enforce the Bearer scheme
			tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
			if !found || tokenString == "" {
				writeError(writer, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid authorization header format")
				return
			}

			// 3. Verify the signature and standard claims
			claims, err := verifier.VerifyToken(tokenString)
			if err != nil {
				writeError(writer, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
				return
			}

			// 4. Attach the identity to the context
			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth rejects requests that do not carry a verified identity.
func RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			if ctxutil.GetAuthUser(request.Context()) == nil {
				writeError(writer, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// RequireRole rejects authenticated requests whose role ranks below minimum.
func RequireRole(minimum sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			claims := ctxutil.GetAuthUser(request.Context())
			if claims == nil {
				writeError(writer, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
				return
			}

			if !sec.UserRole(claims.Role).AtLeast(minimum) {
				writeError(writer, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions")
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
