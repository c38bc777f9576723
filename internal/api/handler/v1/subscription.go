package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eventboard/eventboard-api/internal/api/handler/v1/response"
	"github.com/eventboard/eventboard-api/internal/domain"
)

type SubscriptionService interface {
	Subscribe(ctx context.Context, subscriberID, authorID int64) (domain.Subscription, error)
	Unsubscribe(ctx context.Context, subscriberID, authorID int64) error
	GetSubscriptions(ctx context.Context, subscriberID int64) ([]domain.Subscription, error)
	GetFeed(ctx context.Context, subscriberID int64, from, size int) ([]domain.Event, error)
}

type SubscriptionHandler struct {
	svc SubscriptionService
}

func NewSubscriptionHandler(svc SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{
		svc: svc,
	}
}

// HandleSubscribe godoc
// @Summary      Subscribe to an author's events
// @Tags         subscriptions
// @Produce      json
// @Param        userID    path      int  true  "Subscriber ID"
// @Param        authorID  path      int  true  "Author ID"
// @Success      201       {object}  domain.Subscription
// @Failure      400       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Failure      409       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /users/{userID}/subscriptions/{authorID} [post]
func (h *SubscriptionHandler) HandleSubscribe(ctx *gin.Context) {
	userID, err := parseIDParam(ctx, "userID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	authorID, err := parseIDParam(ctx, "authorID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	created, err := h.svc.Subscribe(ctx.Request.Context(), userID, authorID)
	if err != nil {
		response.RenderError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleUnsubscribe godoc
// @Summary      Unsubscribe from an author
// @Tags         subscriptions
// @Param        userID    path  int  true  "Subscriber ID"
// @Param        authorID  path  int  true  "Author ID"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /users/{userID}/subscriptions/{authorID} [delete]
func (h *SubscriptionHandler) HandleUnsubscribe(ctx *gin.Context) {
	userID, err := parseIDParam(ctx, "userID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	authorID, err := parseIDParam(ctx, "authorID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.svc.Unsubscribe(ctx.Request.Context(), userID, authorID); err != nil {
		response.RenderError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleGetSubscriptions godoc
// @Summary      List the caller's subscriptions
// @Tags         subscriptions
// @Produce      json
// @Param        userID  path      int  true  "Subscriber ID"
// @Success      200     {array}   domain.Subscription
// @Failure      400     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /users/{userID}/subscriptions [get]
func (h *SubscriptionHandler) HandleGetSubscriptions(ctx *gin.Context) {
	userID, err := parseIDParam(ctx, "userID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	subscriptions, err := h.svc.GetSubscriptions(ctx.Request.Context(), userID)
	if err != nil {
		response.RenderError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, subscriptions)
}

// HandleGetFeed godoc
// @Summary      Upcoming published events by subscribed authors
// @Tags         subscriptions
// @Produce      json
// @Param        userID  path      int  true   "Subscriber ID"
// @Param        from    query     int  false  "Offset"
// @Param        size    query     int  false  "Page size"
// @Success      200     {array}   domain.Event
// @Failure      400     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /users/{userID}/subscriptions/feed [get]
func (h *SubscriptionHandler) HandleGetFeed(ctx *gin.Context) {
	userID, err := parseIDParam(ctx, "userID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	from, size, err := parsePagination(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	events, err := h.svc.GetFeed(ctx.Request.Context(), userID, from, size)
	if err != nil {
		response.RenderError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, events)
}
