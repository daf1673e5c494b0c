package handler

import (
	"auth-service/common"
	"auth-service/model"
	"auth-service/service"
	"context"
	"net/http"
	"strings"
)

type contextKey string

const (
	UserIDKey   contextKey = "userID"
	UserRoleKey contextKey = "userRole"
)

// accessTokenFrom reads the bearer token, falling back to the accessToken cookie.
func accessTokenFrom(r *http.Request) (string, *common.AppError) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		headerParts := strings.Split(authHeader, " ")
		if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
			return "", common.NewAppError(http.StatusUnauthorized, "Invalid authorization header format", nil)
		}
		return headerParts[1], nil
	}

	if cookie, err := r.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}
	return "", common.NewAppError(http.StatusUnauthorized, "Authorization header or accessToken cookie is required", nil)
}

func AuthMiddleware(tokens *service.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, appErr := accessTokenFrom(r)
			if appErr != nil {
				appErr.Send(w)
				return
			}

			claims, err := tokens.ParseAccessToken(tokenString)
			if err != nil {
				toAppError(err).Send(w)
				return
			}
			userID, _ := claims.UserID()

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			ctx = context.WithValue(ctx, UserRoleKey, claims.Role)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := r.Context().Value(UserRoleKey).(model.Role)

		if !ok || role != model.RoleAdmin {
			err := common.NewAppError(http.StatusForbidden, "Access denied. Admin privileges required.", nil)
			err.Send(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}
