package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eventboard/eventboard-api/internal/api/handler/v1/request"
	"github.com/eventboard/eventboard-api/internal/api/handler/v1/response"
	"github.com/eventboard/eventboard-api/internal/domain"
	"github.com/eventboard/eventboard-api/internal/service"
)

type CompilationService interface {
	CreateCompilation(ctx context.Context, title string, pinned bool, eventIDs []int64) (domain.Compilation, error)
	UpdateCompilation(ctx context.Context, id int64, update service.CompilationUpdate) (domain.Compilation, error)
	DeleteCompilation(ctx context.Context, id int64) error
	GetCompilation(ctx context.Context, id int64) (domain.Compilation, error)
	ListCompilations(ctx context.Context, pinned *bool, from, size int) ([]domain.Compilation, error)
}

type CompilationHandler struct {
	svc CompilationService
}

func NewCompilationHandler(svc CompilationService) *CompilationHandler {
	return &CompilationHandler{
		svc: svc,
	}
}

// HandleCreateCompilation godoc
// @Summary      Create a compilation of events
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        input  body      request.NewCompilationRequest  true  "Compilation details"
// @Success      201    {object}  domain.Compilation
// @Failure      400    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /admin/compilations [post]
// @Security     BearerAuth
func (h *CompilationHandler) HandleCreateCompilation(ctx *gin.Context) {
	var input request.NewCompilationRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	created, err := h.svc.CreateCompilation(ctx.Request.Context(), input.Title, input.Pinned, input.Events)
	if err != nil {
		response.RenderError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleUpdateCompilation godoc
// @Summary      Edit a compilation
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        compID  path      int                               true  "Compilation ID"
// @Param        input   body      request.UpdateCompilationRequest  true  "Fields to update"
// @Success      200     {object}  domain.Compilation
// @Failure      400     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /admin/compilations/{compID} [patch]
// @Security     BearerAuth
func (h *CompilationHandler) HandleUpdateCompilation(ctx *gin.Context) {
	compID, err := parseIDParam(ctx, "compID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var input request.UpdateCompilationRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	updated, err := h.svc.UpdateCompilation(ctx.Request.Context(), compID, service.CompilationUpdate{
		Title:    input.Title,
		Pinned:   input.Pinned,
		EventIDs: input.Events,
	})
	if err != nil {
		response.RenderError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleDeleteCompilation godoc
// @Summary      Delete a compilation
// @Tags         admin
// @Param        compID  path  int  true  "Compilation ID"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/compilations/{compID} [delete]
// @Security     BearerAuth
func (h *CompilationHandler) HandleDeleteCompilation(ctx *gin.Context) {
	compID, err := parseIDParam(ctx, "compID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.svc.DeleteCompilation(ctx.Request.Context(), compID); err != nil {
		response.RenderError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleGetCompilation godoc
// @Summary      Get a compilation
// @Tags         compilations
// @Produce      json
// @Param        compID  path      int  true  "Compilation ID"
// @Success      200     {object}  domain.Compilation
// @Failure      400     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /compilations/{compID} [get]
func (h *CompilationHandler) HandleGetCompilation(ctx *gin.Context) {
	compID, err := parseIDParam(ctx, "compID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	compilation, err := h.svc.GetCompilation(ctx.Request.Context(), compID)
	if err != nil {
		response.RenderError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, compilation)
}

// HandleListCompilations godoc
// @Summary      List compilations
// @Tags         compilations
// @Produce      json
// @Param        pinned  query     bool  false  "Pinned compilations only"
// @Param        from    query     int   false  "Offset"
// @Param        size    query     int   false  "Page size"
// @Success      200     {array}   domain.Compilation
// @Failure      400     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /compilations [get]
func (h *CompilationHandler) HandleListCompilations(ctx *gin.Context) {
	pinned, err := parseOptionalBool(ctx, "pinned")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	from, size, err := parsePagination(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	compilations, err := h.svc.ListCompilations(ctx.Request.Context(), pinned, from, size)
	if err != nil {
		response.RenderError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, compilations)
}
