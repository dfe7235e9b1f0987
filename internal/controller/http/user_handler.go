package http

import (
	"net/http"

	"yamdb/internal/usecase"
	"yamdb/pkg/logger"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	base
	userUseCase usecase.UserUseCase
}

func NewUserHandler(userUseCase usecase.UserUseCase, logger *logger.Logger) *UserHandler {
	return &UserHandler{
		base:        base{actors: userUseCase, logger: logger},
		userUseCase: userUseCase,
	}
}

// ListUsers godoc
// @Summary      List users
// @Description  Admin only. Users ordered by username.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        search query string false "Username substring"
// @Param        limit query int false "Page size"
// @Param        offset query int false "Page offset"
// @Success      200  {object}  ListResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	limit, offset, ok := h.page(c, actor)
	if !ok {
		return
	}

	users, total, err := h.userUseCase.List(c.Request.Context(), actor, c.Query("search"), limit, offset)
	if err != nil {
		h.fail(c, actor, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Count: total, Results: users})
}

// CreateUser godoc
// @Summary      Create user
// @Description  Admin only. The account obtains tokens through the regular signup flow.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body usecase.CreateUserInput true "User data"
// @Success      201  {object}  entity.User
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req usecase.CreateUserInput
	if !h.bind(c, actor, &req) {
		return
	}

	user, err := h.userUseCase.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.fail(c, actor, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// GetUser godoc
// @Summary      Get user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        username path string true "Username"
// @Success      200  {object}  entity.User
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{username} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	user, err := h.userUseCase.Get(c.Request.Context(), actor, c.Param("username"))
	if err != nil {
		h.fail(c, actor, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateUser godoc
// @Summary      Update user
// @Description  Admin only. Partial update, role included.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        username path string true "Username"
// @Param        request body usecase.UpdateUserInput true "Fields to change"
// @Success      200  {object}  entity.User
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{username} [patch]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req usecase.UpdateUserInput
	if !h.bind(c, actor, &req) {
		return
	}

	user, err := h.userUseCase.Update(c.Request.Context(), actor, c.Param("username"), req)
	if err != nil {
		h.fail(c, actor, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// DeleteUser godoc
// @Summary      Delete user
// @Description  Admin only. Removes the user's reviews and comments too.
// @Tags         users
// @Security     BearerAuth
// @Param        username path string true "Username"
// @Success      204
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{username} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	if err := h.userUseCase.Delete(c.Request.Context(), actor, c.Param("username")); err != nil {
		h.fail(c, actor, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Me godoc
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  entity.User
// @Failure      401  {object}  ErrorResponse
// @Router       /users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	user, err := h.userUseCase.Me(c.Request.Context(), actor)
	if err != nil {
		h.fail(c, actor, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateMe godoc
// @Summary      Update current user
// @Description  Edit the caller's own profile. A role in the body is ignored.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body usecase.UpdateUserInput true "Fields to change"
// @Success      200  {object}  entity.User
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /users/me [patch]
func (h *UserHandler) UpdateMe(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req usecase.UpdateUserInput
	if !h.bind(c, actor, &req) {
		return
	}

	user, err := h.userUseCase.UpdateMe(c.Request.Context(), actor, req)
	if err != nil {
		h.fail(c, actor, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
