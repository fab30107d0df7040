package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/auradeploy/internal/core/ports/services"
	"github.com/SscSPs/auradeploy/internal/dto"
	"github.com/SscSPs/auradeploy/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ProfileHandler serves the signed-in user's own account.
type ProfileHandler struct {
	userService portssvc.UserSvcFacade
}

func NewProfileHandler(us portssvc.UserSvcFacade) *ProfileHandler {
	return &ProfileHandler{userService: us}
}

func registerProfileRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade, auth gin.HandlerFunc) {
	h := NewProfileHandler(userService)

	profile := rg.Group("/profile", auth)
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
	}
}

// GetProfile godoc
// @Summary Get profile
// @Description Returns the signed-in user's profile.
// @Tags profile
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse}
// @Failure 401 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	user, ok := middleware.GetUserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Success: false, Message: "Access denied. No token provided."})
		return
	}
	respondOK(c, http.StatusOK, "", dto.ProfileResponse{User: dto.ToUserResponse(user)})
}

// UpdateProfile godoc
// @Summary Update profile
// @Description Changes username, email or password. Changing a password requires the current one when a password is on file.
// @Tags profile
// @Accept json
// @Produce json
// @Param profile body dto.UpdateProfileRequest true "Profile changes"
// @Success 200 {object} dto.APIResponse{data=dto.ProfileResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse "Current password is incorrect"
// @Security BearerAuth
// @Router /profile [put]
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Success: false, Message: "Access denied. No token provided."})
		return
	}

	var req dto.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, "Profile updated successfully", dto.ProfileResponse{User: dto.ToUserResponse(user)})
}
