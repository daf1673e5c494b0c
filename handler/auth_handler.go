package handler

import (
	"auth-service/common"
	"auth-service/logger"
	"auth-service/model"
	"auth-service/service"
	"encoding/json"
	"net/http"
)

// AuthHandler serves the session endpoints under /auth.
type AuthHandler struct {
	service *service.AuthService
	cookies CookieConfig
}

func NewAuthHandler(s *service.AuthService, cookies CookieConfig) *AuthHandler {
	return &AuthHandler{service: s, cookies: cookies}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// Register godoc
// @Summary      Register a new user
// @Description  Creates a customer account and sets the accessToken and refreshToken cookies.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        user body model.RegisterRequest true "New user"
// @Success      201  {object}  model.UserIDResponse
// @Failure      400  {object}  common.AppError "Validation failed or email already exists"
// @Failure      500  {object}  common.AppError
// @Router       /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RegisterRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	session, err := h.service.Register(r.Context(), req)
	if err != nil {
		return toAppError(err)
	}

	h.cookies.setSessionCookies(w, session.Tokens)
	writeJSON(w, http.StatusCreated, model.UserIDResponse{ID: session.User.ID})
	return nil
}

// Login godoc
// @Summary      Log in
// @Description  Verifies credentials and sets the accessToken and refreshToken cookies.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials body model.LoginRequest true "Credentials"
// @Success      200  {object}  model.UserIDResponse
// @Failure      400  {object}  common.AppError "Validation failed or email/password does not match"
// @Failure      500  {object}  common.AppError
// @Router       /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if err := common.ValidateAndDecode(r, &req); err != nil {
		return err
	}

	session, err := h.service.Login(r.Context(), req)
	if err != nil {
		return toAppError(err)
	}

	h.cookies.setSessionCookies(w, session.Tokens)
	writeJSON(w, http.StatusOK, model.UserIDResponse{ID: session.User.ID})
	return nil
}

// Refresh godoc
// @Summary      Rotate the refresh token
// @Description  Exchanges the refreshToken cookie for a new token pair. The presented refresh token is revoked.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  model.UserIDResponse
// @Failure      401  {object}  common.AppError "Missing, invalid, expired or revoked refresh token"
// @Failure      500  {object}  common.AppError
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) *common.AppError {
	cookie, err := r.Cookie(RefreshTokenCookie)
	if err != nil || cookie.Value == "" {
		return common.NewAppError(http.StatusUnauthorized, "refreshToken cookie is required", nil)
	}

	session, err := h.service.Refresh(r.Context(), cookie.Value)
	if err != nil {
		return toAppError(err)
	}

	h.cookies.setSessionCookies(w, session.Tokens)
	writeJSON(w, http.StatusOK, model.UserIDResponse{ID: session.User.ID})
	return nil
}

// Logout godoc
// @Summary      Log out
// @Description  Revokes the current refresh token and clears both cookies.
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  common.AppError
// @Failure      500  {object}  common.AppError
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	var refreshToken string
	if cookie, err := r.Cookie(RefreshTokenCookie); err == nil {
		refreshToken = cookie.Value
	}

	if err := h.service.Logout(r.Context(), userID, refreshToken); err != nil {
		return toAppError(err)
	}

	h.cookies.clearSessionCookies(w)
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// Self godoc
// @Summary      Current user
// @Description  Returns the user identified by the access token.
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  model.User
// @Failure      401  {object}  common.AppError
// @Failure      404  {object}  common.AppError
// @Router       /auth/self [get]
func (h *AuthHandler) Self(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	user, err := h.service.Self(r.Context(), userID)
	if err != nil {
		return toAppError(err)
	}

	logger.Log.WithField("user_id", userID).Debug("Self request served")
	writeJSON(w, http.StatusOK, user)
	return nil
}
