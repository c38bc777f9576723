package v1

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/eventboard/eventboard-api/internal/api/handler/v1/request"
	"github.com/eventboard/eventboard-api/internal/api/handler/v1/response"
	"github.com/eventboard/eventboard-api/internal/domain"
)

type RequestService interface {
	CreateRequest(ctx context.Context, userID, eventID int64) (domain.ParticipationRequest, error)
	CancelRequest(ctx context.Context, userID, requestID int64) (domain.ParticipationRequest, error)
	GetUserRequests(ctx context.Context, userID int64) ([]domain.ParticipationRequest, error)
	GetEventRequests(ctx context.Context, userID, eventID int64) ([]domain.ParticipationRequest, error)
	AdjudicateBatch(ctx context.Context, userID, eventID int64, requestIDs []int64, status domain.RequestStatus) (domain.AdjudicationResult, error)
}

type RequestHandler struct {
	svc RequestService
}

func NewRequestHandler(svc RequestService) *RequestHandler {
	return &RequestHandler{
		svc: svc,
	}
}

// HandleCreateRequest godoc
// @Summary      Request participation in an event
// @Tags         requests
// @Produce      json
// @Param        userID   path      int  true  "Requester ID"
// @Param        eventId  query     int  true  "Event ID"
// @Success      201      {object}  domain.ParticipationRequest
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /users/{userID}/requests [post]
func (h *RequestHandler) HandleCreateRequest(ctx *gin.Context) {
	userID, err := parseIDParam(ctx, "userID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	eventID, err := strconv.ParseInt(ctx.Query("eventId"), 10, 64)
	if err != nil || eventID < 1 {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid eventId %q", ctx.Query("eventId"))))
		return
	}

	created, err := h.svc.CreateRequest(ctx.Request.Context(), userID, eventID)
	if err != nil {
		response.RenderError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleGetUserRequests godoc
// @Summary      List the caller's participation requests
// @Tags         requests
// @Produce      json
// @Param        userID  path      int  true  "Requester ID"
// @Success      200     {array}   domain.ParticipationRequest
// @Failure      400     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /users/{userID}/requests [get]
func (h *RequestHandler) HandleGetUserRequests(ctx *gin.Context) {
	userID, err := parseIDParam(ctx, "userID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	requests, err := h.svc.GetUserRequests(ctx.Request.Context(), userID)
	if err != nil {
		response.RenderError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, requests)
}

// HandleCancelRequest godoc
// @Summary      Cancel the caller's own pending request
// @Tags         requests
// @Produce      json
// @Param        userID     path      int  true  "Requester ID"
// @Param        requestID  path      int  true  "Request ID"
// @Success      200        {object}  domain.ParticipationRequest
// @Failure      400        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      409        {object}  response.Err
// @Failure      500        {object}  response.Err
// @Router       /users/{userID}/requests/{requestID}/cancel [patch]
func (h *RequestHandler) HandleCancelRequest(ctx *gin.Context) {
	userID, err := parseIDParam(ctx, "userID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	requestID, err := parseIDParam(ctx, "requestID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	canceled, err := h.svc.CancelRequest(ctx.Request.Context(), userID, requestID)
	if err != nil {
		response.RenderError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, canceled)
}

// HandleGetEventRequests godoc
// @Summary      List requests targeting the caller's event
// @Tags         requests
// @Produce      json
// @Param        userID   path      int  true  "Initiator ID"
// @Param        eventID  path      int  true  "Event ID"
// @Success      200      {array}   domain.ParticipationRequest
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /users/{userID}/events/{eventID}/requests [get]
func (h *RequestHandler) HandleGetEventRequests(ctx *gin.Context) {
	userID, err := parseIDParam(ctx, "userID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	eventID, err := parseIDParam(ctx, "eventID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	requests, err := h.svc.GetEventRequests(ctx.Request.Context(), userID, eventID)
	if err != nil {
		response.RenderError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, requests)
}

// HandleUpdateRequestStatuses godoc
// @Summary      Confirm or reject pending requests in a batch
// @Description  Applies the verdict in the submitted id order until capacity runs out
// @Tags         requests
// @Accept       json
// @Produce      json
// @Param        userID   path      int                                      true  "Initiator ID"
// @Param        eventID  path      int                                      true  "Event ID"
// @Param        input    body      request.EventRequestStatusUpdateRequest  true  "Batch verdict"
// @Success      200      {object}  domain.AdjudicationResult
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /users/{userID}/events/{eventID}/requests [patch]
func (h *RequestHandler) HandleUpdateRequestStatuses(ctx *gin.Context) {
	userID, err := parseIDParam(ctx, "userID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	eventID, err := parseIDParam(ctx, "eventID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var input request.EventRequestStatusUpdateRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	result, err := h.svc.AdjudicateBatch(
		ctx.Request.Context(), userID, eventID, input.RequestIDs, domain.RequestStatus(input.Status))
	if err != nil {
		response.RenderError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, result)
}
