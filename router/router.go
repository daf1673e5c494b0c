package router

import (
	_ "auth-service/docs"
	"auth-service/handler"
	"auth-service/service"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger/v2"
)

func NewRouter(authHandler *handler.AuthHandler, userHandler *handler.UserHandler, tokens *service.TokenService) http.Handler {
	mux := http.NewServeMux()
	requireAuth := handler.AuthMiddleware(tokens)

	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	mux.Handle("POST /auth/register", handler.ErrorHandlingMiddleware(authHandler.Register))
	mux.Handle("POST /auth/login", handler.ErrorHandlingMiddleware(authHandler.Login))
	mux.Handle("POST /auth/refresh", handler.ErrorHandlingMiddleware(authHandler.Refresh))
	mux.Handle("POST /auth/logout", requireAuth(handler.ErrorHandlingMiddleware(authHandler.Logout)))
	mux.Handle("GET /auth/self", requireAuth(handler.ErrorHandlingMiddleware(authHandler.Self)))

	mux.Handle("DELETE /api/admin/users/{id}/sessions",
		requireAuth(handler.AdminMiddleware(handler.ErrorHandlingMiddleware(userHandler.RevokeSessions))))

	return handler.RequestLogger(mux)
}
