package v1

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eventboard/eventboard-api/internal/api/handler/v1/request"
	"github.com/eventboard/eventboard-api/internal/api/handler/v1/response"
	"github.com/eventboard/eventboard-api/internal/domain"
)

type StatsService interface {
	SaveHit(ctx context.Context, hit domain.EndpointHit) (domain.EndpointHit, error)
	GetStatistics(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]domain.ViewStats, error)
}

type StatsHandler struct {
	svc StatsService
}

func NewStatsHandler(svc StatsService) *StatsHandler {
	return &StatsHandler{
		svc: svc,
	}
}

// HandleSaveHit godoc
// @Summary      Record an endpoint hit
// @Tags         stats
// @Accept       json
// @Produce      json
// @Param        input  body      request.NewHitRequest  true  "Hit details"
// @Success      201    {object}  domain.EndpointHit
// @Failure      400    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /hit [post]
func (h *StatsHandler) HandleSaveHit(ctx *gin.Context) {
	var input request.NewHitRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	timestamp, err := input.ParsedTimestamp()
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid timestamp: %w", err)))
		return
	}

	saved, err := h.svc.SaveHit(ctx.Request.Context(), domain.EndpointHit{
		App:       input.App,
		URI:       input.URI,
		IP:        input.IP,
		Timestamp: timestamp,
	})
	if err != nil {
		response.RenderError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, saved)
}

// HandleGetStats godoc
// @Summary      Aggregate hit counts per uri
// @Tags         stats
// @Produce      json
// @Param        start   query     string    true   "Window start"
// @Param        end     query     string    true   "Window end"
// @Param        uris    query     []string  false  "URIs to count"
// @Param        unique  query     bool      false  "Count each ip once"
// @Success      200     {array}   domain.ViewStats
// @Failure      400     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /stats [get]
func (h *StatsHandler) HandleGetStats(ctx *gin.Context) {
	start, err := parseDateQuery(ctx, "start")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	end, err := parseDateQuery(ctx, "end")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	unique, err := parseOptionalBool(ctx, "unique")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	uris := parseStringList(ctx, "uris")

	countUnique := unique != nil && *unique

	stats, err := h.svc.GetStatistics(ctx.Request.Context(), start, end, uris, countUnique)
	if err != nil {
		response.RenderError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, stats)
}
