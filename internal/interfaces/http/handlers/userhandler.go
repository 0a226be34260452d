package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	appuser "lucerna/internal/application/user"
	"lucerna/internal/interfaces/http/dto"
	"lucerna/internal/interfaces/http/middleware"
	"lucerna/internal/shared/authorization"
	"lucerna/internal/shared/constants"
	"lucerna/internal/shared/logger"
	"lucerna/internal/shared/utils"
)

// UserHandler serves the user management endpoints.
type UserHandler struct {
	userService *appuser.Service
	logger      logger.Interface
}

// NewUserHandler creates a user handler.
func NewUserHandler(userService *appuser.Service, logger logger.Interface) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// Create handles POST /v1/users.
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.userService.Create(c.Request.Context(), appuser.CreateCommand{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, dto.NewUserResponse(created))
}

// List handles GET /v1/users.
func (h *UserHandler) List(c *gin.Context) {
	page := utils.ParsePagination(c.Query("page"), c.Query("pageSize"))

	users, total, err := h.userService.List(c.Request.Context(), appuser.ListQuery{
		Email:    c.Query("email"),
		OrderBy:  c.Query("orderBy"),
		Order:    c.Query("order"),
		Page:     page.Page,
		PageSize: page.PageSize,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	results := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		results = append(results, dto.NewUserResponse(u))
	}

	utils.SuccessResponse(c, http.StatusOK, dto.UserListResponse{
		Results:      results,
		Page:         page.Page,
		PageSize:     page.PageSize,
		TotalPages:   utils.TotalPages(total, page.PageSize),
		TotalResults: total,
	})
}

// Get handles GET /v1/users/:id. Admins can read anyone; other callers only
// themselves.
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := h.authorizeTarget(c)
	if !ok {
		return
	}

	account, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, dto.NewUserResponse(account))
}

// Update handles PATCH /v1/users/:id.
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := h.authorizeTarget(c)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Only admins may change roles.
	if req.Role != nil && !callerIsAdmin(c) {
		utils.ErrorResponse(c, http.StatusForbidden, "Forbidden")
		return
	}

	updated, err := h.userService.UpdateByID(c.Request.Context(), id, appuser.UpdateCommand{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, dto.NewUserResponse(updated))
}

// Delete handles DELETE /v1/users/:id.
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := h.authorizeTarget(c)
	if !ok {
		return
	}

	if err := h.userService.DeleteByID(c.Request.Context(), id); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

// authorizeTarget parses the :id param and verifies the caller is either an
// admin or the target user.
func (h *UserHandler) authorizeTarget(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid user ID")
		return 0, false
	}

	callerID, ok := middleware.GetUserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "Please authenticate")
		return 0, false
	}

	if callerID != uint(id) && !callerIsAdmin(c) {
		utils.ErrorResponse(c, http.StatusForbidden, "Forbidden")
		return 0, false
	}

	return uint(id), true
}

func callerIsAdmin(c *gin.Context) bool {
	role, _ := c.Get(constants.ContextKeyUserRole)
	roleStr, ok := role.(string)
	return ok && authorization.UserRole(roleStr).IsAdmin()
}
