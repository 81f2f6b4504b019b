package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"task-manager/internal/models"
	"task-manager/internal/services"
	"task-manager/internal/validation"
)

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func newUserResponse(user *models.User) userResponse {
	return userResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
}

func (h *handlerImpl) HandleGetProfile(c *gin.Context) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		abort(c, newUnauthorizedError(http.StatusText(http.StatusUnauthorized)))
		return
	}

	user, err := h.users.GetProfile(c, userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			abort(c, newNotFoundError(services.ErrUserNotFound.Error()))
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to fetch profile")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": newUserResponse(user)})
}

type updateProfileRequest struct {
	Name string `json:"name"`
}

func (h *handlerImpl) HandleUpdateProfile(c *gin.Context) {
	userID, ok := getStringFromContext(c, userIDCtxKey)
	if !ok {
		h.logger.Error().Msg("no user id found in context")
		abort(c, newUnauthorizedError(http.StatusText(http.StatusUnauthorized)))
		return
	}

	var req updateProfileRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	user, err := h.users.UpdateName(c, userID, req.Name)
	if err != nil {
		var verr *validation.Errors
		if errors.As(err, &verr) {
			abortValidation(c, verr)
			return
		}
		if errors.Is(err, services.ErrUserNotFound) {
			abort(c, newNotFoundError(services.ErrUserNotFound.Error()))
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to update profile")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, gin.H{"name": user.Name})
}
