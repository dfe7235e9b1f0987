package http

import (
	"net/http"
	"strconv"

	"yamdb/internal/entity"
	"yamdb/internal/usecase"
	"yamdb/pkg/logger"

	"github.com/gin-gonic/gin"
)

type TitleHandler struct {
	base
	titleUseCase usecase.TitleUseCase
}

func NewTitleHandler(titleUseCase usecase.TitleUseCase, actors ActorResolver, logger *logger.Logger) *TitleHandler {
	return &TitleHandler{
		base:         base{actors: actors, logger: logger},
		titleUseCase: titleUseCase,
	}
}

// ListTitles godoc
// @Summary      List titles
// @Description  Titles ordered by average score, unrated last, then by name.
// @Tags         titles
// @Produce      json
// @Param        genre query string false "Genre slug"
// @Param        category query string false "Category slug"
// @Param        name query string false "Name substring"
// @Param        year query int false "Release year"
// @Param        limit query int false "Page size"
// @Param        offset query int false "Page offset"
// @Success      200  {object}  ListResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /titles [get]
func (h *TitleHandler) ListTitles(c *gin.Context) {
	limit, offset, ok := h.page(c, nil)
	if !ok {
		return
	}

	filter := entity.TitleFilter{
		Genre:    c.Query("genre"),
		Category: c.Query("category"),
		Name:     c.Query("name"),
		Limit:    uint64(limit),
		Offset:   uint64(offset),
	}
	if raw := c.Query("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			h.fail(c, nil, entity.FieldError("year", "A valid integer is required."))
			return
		}
		filter.Year = &year
	}

	titles, total, err := h.titleUseCase.List(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, nil, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Count: total, Results: titles})
}

// GetTitle godoc
// @Summary      Get title
// @Tags         titles
// @Produce      json
// @Param        title_id path int true "Title ID"
// @Success      200  {object}  entity.Title
// @Failure      404  {object}  ErrorResponse
// @Router       /titles/{title_id} [get]
func (h *TitleHandler) GetTitle(c *gin.Context) {
	id, ok := h.pathID(c, nil, "title_id")
	if !ok {
		return
	}

	title, err := h.titleUseCase.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, nil, err)
		return
	}

	c.JSON(http.StatusOK, title)
}

// CreateTitle godoc
// @Summary      Create title
// @Description  Admin only
// @Tags         titles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body usecase.CreateTitleInput true "Title"
// @Success      201  {object}  entity.Title
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /titles [post]
func (h *TitleHandler) CreateTitle(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req usecase.CreateTitleInput
	if !h.bind(c, actor, &req) {
		return
	}

	title, err := h.titleUseCase.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.fail(c, actor, err)
		return
	}

	c.JSON(http.StatusCreated, title)
}

// UpdateTitle godoc
// @Summary      Update title
// @Description  Admin only. Partial update; genre replaces the whole set when present.
// @Tags         titles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        title_id path int true "Title ID"
// @Param        request body usecase.UpdateTitleInput true "Fields to change"
// @Success      200  {object}  entity.Title
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /titles/{title_id} [patch]
func (h *TitleHandler) UpdateTitle(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, actor, "title_id")
	if !ok {
		return
	}
	var req usecase.UpdateTitleInput
	if !h.bind(c, actor, &req) {
		return
	}

	title, err := h.titleUseCase.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		h.fail(c, actor, err)
		return
	}

	c.JSON(http.StatusOK, title)
}

// DeleteTitle godoc
// @Summary      Delete title
// @Description  Admin only. Removes the title's reviews and comments.
// @Tags         titles
// @Security     BearerAuth
// @Param        title_id path int true "Title ID"
// @Success      204
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /titles/{title_id} [delete]
func (h *TitleHandler) DeleteTitle(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, actor, "title_id")
	if !ok {
		return
	}

	if err := h.titleUseCase.Delete(c.Request.Context(), actor, id); err != nil {
		h.fail(c, actor, err)
		return
	}

	c.Status(http.StatusNoContent)
}
