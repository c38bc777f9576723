package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eventboard/eventboard-api/internal/api/handler/v1/request"
	"github.com/eventboard/eventboard-api/internal/api/handler/v1/response"
	"github.com/eventboard/eventboard-api/internal/domain"
	"github.com/eventboard/eventboard-api/internal/repository"
	"github.com/eventboard/eventboard-api/internal/service"
)

type EventService interface {
	CreateEvent(ctx context.Context, initiatorID int64, event domain.Event) (domain.Event, error)
	GetUserEvents(ctx context.Context, userID int64, from, size int) ([]domain.Event, error)
	GetUserEvent(ctx context.Context, userID, eventID int64) (domain.Event, error)
	UpdateEventByUser(ctx context.Context, userID, eventID int64, update service.EventUpdate) (domain.Event, error)
	UpdateEventByAdmin(ctx context.Context, eventID int64, update service.EventUpdate) (domain.Event, error)
	GetPublicEvent(ctx context.Context, eventID int64, uri, ip string) (domain.Event, error)
	SearchPublicEvents(ctx context.Context, filter repository.PublicEventFilter, sortBy, uri, ip string) ([]domain.Event, error)
	SearchAdminEvents(ctx context.Context, filter repository.AdminEventFilter) ([]domain.Event, error)
}

type EventHandler struct {
	svc EventService
}

func NewEventHandler(svc EventService) *EventHandler {
	return &EventHandler{
		svc: svc,
	}
}

// HandleCreateEvent godoc
// @Summary      Create a new event
// @Description  Creates an event in the PENDING state, awaiting moderation
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        userID  path      int                      true  "Initiator ID"
// @Param        input   body      request.NewEventRequest  true  "Event details"
// @Success      201     {object}  domain.Event
// @Failure      400     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /users/{userID}/events [post]
func (h *EventHandler) HandleCreateEvent(ctx *gin.Context) {
	userID, err := parseIDParam(ctx, "userID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var input request.NewEventRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	eventDate, err := input.ParsedEventDate()
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid event date: %w", err)))
		return
	}

	event := domain.Event{
		Title:             input.Title,
		Annotation:        input.Annotation,
		Description:       input.Description,
		CategoryID:        input.Category,
		Location:          domain.Location{Lat: input.Location.Lat, Lon: input.Location.Lon},
		Paid:              input.Paid,
		ParticipantLimit:  input.ParticipantLimit,
		RequestModeration: input.Moderation(),
		EventDate:         eventDate,
	}

	created, err := h.svc.CreateEvent(ctx.Request.Context(), userID, event)
	if err != nil {
		response.RenderError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleGetUserEvents godoc
// @Summary      List the caller's events
// @Tags         events
// @Produce      json
// @Param        userID  path      int  true   "Initiator ID"
// @Param        from    query     int  false  "Offset"
// @Param        size    query     int  false  "Page size"
// @Success      200     {array}   domain.Event
// @Failure      400     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /users/{userID}/events [get]
func (h *EventHandler) HandleGetUserEvents(ctx *gin.Context) {
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

	events, err := h.svc.GetUserEvents(ctx.Request.Context(), userID, from, size)
	if err != nil {
		response.RenderError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, events)
}

// HandleGetUserEvent godoc
// @Summary      Get one of the caller's events
// @Tags         events
// @Produce      json
// @Param        userID   path      int  true  "Initiator ID"
// @Param        eventID  path      int  true  "Event ID"
// @Success      200      {object}  domain.Event
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /users/{userID}/events/{eventID} [get]
func (h *EventHandler) HandleGetUserEvent(ctx *gin.Context) {
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

	event, err := h.svc.GetUserEvent(ctx.Request.Context(), userID, eventID)
	if err != nil {
		response.RenderError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleUpdateEventByUser godoc
// @Summary      Edit a pending or canceled event
// @Description  Lets the initiator edit fields and send the event to review or cancel it
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        userID   path      int                             true  "Initiator ID"
// @Param        eventID  path      int                             true  "Event ID"
// @Param        input    body      request.UpdateEventUserRequest  true  "Fields to update"
// @Success      200      {object}  domain.Event
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /users/{userID}/events/{eventID} [patch]
func (h *EventHandler) HandleUpdateEventByUser(ctx *gin.Context) {
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

	var input request.UpdateEventUserRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	update, err := buildEventUpdate(
		input.Title, input.Annotation, input.Description, input.Category, input.Location,
		input.Paid, input.ParticipantLimit, input.RequestModeration, input.EventDate, input.StateAction)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	updated, err := h.svc.UpdateEventByUser(ctx.Request.Context(), userID, eventID, update)
	if err != nil {
		response.RenderError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleUpdateEventByAdmin godoc
// @Summary      Moderate an event
// @Description  Publishes or rejects a pending event and applies admin edits
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        eventID  path      int                              true  "Event ID"
// @Param        input    body      request.UpdateEventAdminRequest  true  "Fields to update"
// @Success      200      {object}  domain.Event
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /admin/events/{eventID} [patch]
// @Security     BearerAuth
func (h *EventHandler) HandleUpdateEventByAdmin(ctx *gin.Context) {
	eventID, err := parseIDParam(ctx, "eventID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var input request.UpdateEventAdminRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	update, err := buildEventUpdate(
		input.Title, input.Annotation, input.Description, input.Category, input.Location,
		input.Paid, input.ParticipantLimit, input.RequestModeration, input.EventDate, input.StateAction)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	updated, err := h.svc.UpdateEventByAdmin(ctx.Request.Context(), eventID, update)
	if err != nil {
		response.RenderError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleSearchAdminEvents godoc
// @Summary      Search events for moderation
// @Tags         admin
// @Produce      json
// @Param        users       query     []int     false  "Initiator IDs"
// @Param        states      query     []string  false  "Event states"
// @Param        categories  query     []int     false  "Category IDs"
// @Param        rangeStart  query     string    false  "Earliest event date"
// @Param        rangeEnd    query     string    false  "Latest event date"
// @Param        from        query     int       false  "Offset"
// @Param        size        query     int       false  "Page size"
// @Success      200         {array}   domain.Event
// @Failure      400         {object}  response.Err
// @Failure      500         {object}  response.Err
// @Router       /admin/events [get]
// @Security     BearerAuth
func (h *EventHandler) HandleSearchAdminEvents(ctx *gin.Context) {
	users, err := parseIDList(ctx, "users")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	categories, err := parseIDList(ctx, "categories")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	rangeStart, err := parseDateQuery(ctx, "rangeStart")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	rangeEnd, err := parseDateQuery(ctx, "rangeEnd")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	from, size, err := parsePagination(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	states := make([]domain.EventState, 0)
	for _, s := range parseStringList(ctx, "states") {
		states = append(states, domain.EventState(s))
	}

	events, err := h.svc.SearchAdminEvents(ctx.Request.Context(), repository.AdminEventFilter{
		Users:      users,
		States:     states,
		Categories: categories,
		RangeStart: rangeStart,
		RangeEnd:   rangeEnd,
		From:       from,
		Size:       size,
	})
	if err != nil {
		response.RenderError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, events)
}

// HandleSearchPublicEvents godoc
// @Summary      Search published events
// @Tags         events
// @Produce      json
// @Param        text           query     string    false  "Text to match in annotation or description"
// @Param        categories     query     []int     false  "Category IDs"
// @Param        paid           query     bool      false  "Paid events only"
// @Param        rangeStart     query     string    false  "Earliest event date"
// @Param        rangeEnd       query     string    false  "Latest event date"
// @Param        onlyAvailable  query     bool      false  "Events with free capacity only"
// @Param        sort           query     string    false  "EVENT_DATE or VIEWS"
// @Param        from           query     int       false  "Offset"
// @Param        size           query     int       false  "Page size"
// @Success      200            {array}   domain.Event
// @Failure      400            {object}  response.Err
// @Failure      500            {object}  response.Err
// @Router       /events [get]
func (h *EventHandler) HandleSearchPublicEvents(ctx *gin.Context) {
	categories, err := parseIDList(ctx, "categories")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	paid, err := parseOptionalBool(ctx, "paid")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	onlyAvailable, err := parseOptionalBool(ctx, "onlyAvailable")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	rangeStart, err := parseDateQuery(ctx, "rangeStart")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	rangeEnd, err := parseDateQuery(ctx, "rangeEnd")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	from, size, err := parsePagination(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	sortBy := ctx.DefaultQuery("sort", service.SortEventDate)
	if sortBy != service.SortEventDate && sortBy != service.SortViews {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid sort %q", sortBy)))
		return
	}

	filter := repository.PublicEventFilter{
		Text:       ctx.Query("text"),
		Categories: categories,
		Paid:       paid,
		RangeStart: rangeStart,
		RangeEnd:   rangeEnd,
		From:       from,
		Size:       size,
	}
	if onlyAvailable != nil {
		filter.OnlyAvailable = *onlyAvailable
	}

	events, err := h.svc.SearchPublicEvents(ctx.Request.Context(), filter, sortBy, ctx.Request.URL.Path, ctx.ClientIP())
	if err != nil {
		response.RenderError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, events)
}

// HandleGetPublicEvent godoc
// @Summary      Get a published event
// @Description  Returns a published event with view and confirmed-request counts
// @Tags         events
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200      {object}  domain.Event
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID} [get]
func (h *EventHandler) HandleGetPublicEvent(ctx *gin.Context) {
	eventID, err := parseIDParam(ctx, "eventID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	event, err := h.svc.GetPublicEvent(ctx.Request.Context(), eventID, ctx.Request.URL.Path, ctx.ClientIP())
	if err != nil {
		response.RenderError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, event)
}

func buildEventUpdate(
	title, annotation, description *string,
	category *int64,
	location *request.Location,
	paid *bool,
	participantLimit *int,
	requestModeration *bool,
	eventDate *string,
	stateAction string,
) (service.EventUpdate, error) {
	parsedDate, err := request.ParseOptionalDate(eventDate)
	if err != nil {
		return service.EventUpdate{}, fmt.Errorf("invalid event date: %w", err)
	}

	update := service.EventUpdate{
		Title:             title,
		Annotation:        annotation,
		Description:       description,
		CategoryID:        category,
		Paid:              paid,
		ParticipantLimit:  participantLimit,
		RequestModeration: requestModeration,
		EventDate:         parsedDate,
		StateAction:       stateAction,
	}
	if location != nil {
		update.Location = &domain.Location{Lat: location.Lat, Lon: location.Lon}
	}

	return update, nil
}
