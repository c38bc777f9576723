package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eventboard/eventboard-api/internal/api/handler/v1/request"
	"github.com/eventboard/eventboard-api/internal/api/handler/v1/response"
	"github.com/eventboard/eventboard-api/internal/domain"
)

type CategoryService interface {
	CreateCategory(ctx context.Context, category domain.Category) (domain.Category, error)
	UpdateCategory(ctx context.Context, category domain.Category) (domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	GetCategory(ctx context.Context, id int64) (domain.Category, error)
	ListCategories(ctx context.Context, from, size int) ([]domain.Category, error)
}

type CategoryHandler struct {
	svc CategoryService
}

func NewCategoryHandler(svc CategoryService) *CategoryHandler {
	return &CategoryHandler{
		svc: svc,
	}
}

// HandleCreateCategory godoc
// @Summary      Create a category
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        input  body      request.NewCategoryRequest  true  "Category details"
// @Success      201    {object}  domain.Category
// @Failure      400    {object}  response.Err
// @Failure      409    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /admin/categories [post]
// @Security     BearerAuth
func (h *CategoryHandler) HandleCreateCategory(ctx *gin.Context) {
	var input request.NewCategoryRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	created, err := h.svc.CreateCategory(ctx.Request.Context(), domain.Category{Name: input.Name})
	if err != nil {
		response.RenderError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleUpdateCategory godoc
// @Summary      Rename a category
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        catID  path      int                         true  "Category ID"
// @Param        input  body      request.NewCategoryRequest  true  "New name"
// @Success      200    {object}  domain.Category
// @Failure      400    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Failure      409    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /admin/categories/{catID} [patch]
// @Security     BearerAuth
func (h *CategoryHandler) HandleUpdateCategory(ctx *gin.Context) {
	catID, err := parseIDParam(ctx, "catID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var input request.NewCategoryRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	updated, err := h.svc.UpdateCategory(ctx.Request.Context(), domain.Category{ID: catID, Name: input.Name})
	if err != nil {
		response.RenderError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleDeleteCategory godoc
// @Summary      Delete an empty category
// @Tags         admin
// @Param        catID  path  int  true  "Category ID"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/categories/{catID} [delete]
// @Security     BearerAuth
func (h *CategoryHandler) HandleDeleteCategory(ctx *gin.Context) {
	catID, err := parseIDParam(ctx, "catID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.svc.DeleteCategory(ctx.Request.Context(), catID); err != nil {
		response.RenderError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleGetCategory godoc
// @Summary      Get a category
// @Tags         categories
// @Produce      json
// @Param        catID  path      int  true  "Category ID"
// @Success      200    {object}  domain.Category
// @Failure      400    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /categories/{catID} [get]
func (h *CategoryHandler) HandleGetCategory(ctx *gin.Context) {
	catID, err := parseIDParam(ctx, "catID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	category, err := h.svc.GetCategory(ctx.Request.Context(), catID)
	if err != nil {
		response.RenderError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, category)
}

// HandleListCategories godoc
// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Param        from  query     int  false  "Offset"
// @Param        size  query     int  false  "Page size"
// @Success      200   {array}   domain.Category
// @Failure      400   {object}  response.Err
// @Failure      500   {object}  response.Err
// @Router       /categories [get]
func (h *CategoryHandler) HandleListCategories(ctx *gin.Context) {
	from, size, err := parsePagination(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	categories, err := h.svc.ListCategories(ctx.Request.Context(), from, size)
	if err != nil {
		response.RenderError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, categories)
}
