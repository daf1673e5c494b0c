package handler

import (
	"auth-service/common"
	"auth-service/logger"
	"auth-service/service"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"
)

// UserHandler serves administrative user endpoints.
type UserHandler struct {
	service *service.AuthService
}

func NewUserHandler(s *service.AuthService) *UserHandler {
	return &UserHandler{service: s}
}

// RevokeSessions godoc
// @Summary      Revoke every session of a user
// @Description  Soft-deletes all live refresh tokens of the user. Admin only.
// @Tags         admin
// @Security     BearerAuth
// @Param        id path int true "User ID"
// @Success      204
// @Failure      400  {object}  common.AppError "Invalid user ID in URL path"
// @Failure      401  {object}  common.AppError
// @Failure      403  {object}  common.AppError
// @Failure      500  {object}  common.AppError
// @Router       /api/admin/users/{id}/sessions [delete]
func (h *UserHandler) RevokeSessions(w http.ResponseWriter, r *http.Request) *common.AppError {
	targetID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, "Invalid user ID in URL path", err)
	}

	revoked, err := h.service.RevokeAllSessions(r.Context(), targetID)
	if err != nil {
		return toAppError(err)
	}

	adminID, _ := r.Context().Value(UserIDKey).(int)
	logger.Log.WithFields(logrus.Fields{
		"admin_id":       adminID,
		"target_user_id": targetID,
		"revoked":        revoked,
	}).Info("Admin revoked user sessions")

	w.WriteHeader(http.StatusNoContent)
	return nil
}
