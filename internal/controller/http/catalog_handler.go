package http

import (
	"net/http"

	"yamdb/internal/usecase"
	"yamdb/pkg/logger"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	base
	catalogUseCase usecase.CatalogUseCase
}

func NewCatalogHandler(catalogUseCase usecase.CatalogUseCase, actors ActorResolver, logger *logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		base:           base{actors: actors, logger: logger},
		catalogUseCase: catalogUseCase,
	}
}

// ListCategories godoc
// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Param        search query string false "Name substring"
// @Success      200  {object}  ListResponse
// @Router       /categories [get]
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalogUseCase.ListCategories(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.fail(c, nil, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Count: int64(len(categories)), Results: categories})
}

// CreateCategory godoc
// @Summary      Create category
// @Description  Admin only
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body usecase.CatalogInput true "Category"
// @Success      201  {object}  entity.Category
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /categories [post]
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req usecase.CatalogInput
	if !h.bind(c, actor, &req) {
		return
	}

	category, err := h.catalogUseCase.CreateCategory(c.Request.Context(), actor, req)
	if err != nil {
		h.fail(c, actor, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

// DeleteCategory godoc
// @Summary      Delete category
// @Description  Admin only. Titles in the category become uncategorized.
// @Tags         categories
// @Security     BearerAuth
// @Param        slug path string true "Category slug"
// @Success      204
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /categories/{slug} [delete]
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	if err := h.catalogUseCase.DeleteCategory(c.Request.Context(), actor, c.Param("slug")); err != nil {
		h.fail(c, actor, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListGenres godoc
// @Summary      List genres
// @Tags         genres
// @Produce      json
// @Param        search query string false "Name substring"
// @Success      200  {object}  ListResponse
// @Router       /genres [get]
func (h *CatalogHandler) ListGenres(c *gin.Context) {
	genres, err := h.catalogUseCase.ListGenres(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.fail(c, nil, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{Count: int64(len(genres)), Results: genres})
}

// CreateGenre godoc
// @Summary      Create genre
// @Description  Admin only
// @Tags         genres
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body usecase.CatalogInput true "Genre"
// @Success      201  {object}  entity.Genre
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /genres [post]
func (h *CatalogHandler) CreateGenre(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req usecase.CatalogInput
	if !h.bind(c, actor, &req) {
		return
	}

	genre, err := h.catalogUseCase.CreateGenre(c.Request.Context(), actor, req)
	if err != nil {
		h.fail(c, actor, err)
		return
	}

	c.JSON(http.StatusCreated, genre)
}

// DeleteGenre godoc
// @Summary      Delete genre
// @Description  Admin only. Titles keep their remaining genres.
// @Tags         genres
// @Security     BearerAuth
// @Param        slug path string true "Genre slug"
// @Success      204
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /genres/{slug} [delete]
func (h *CatalogHandler) DeleteGenre(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	if err := h.catalogUseCase.DeleteGenre(c.Request.Context(), actor, c.Param("slug")); err != nil {
		h.fail(c, actor, err)
		return
	}

	c.Status(http.StatusNoContent)
}
