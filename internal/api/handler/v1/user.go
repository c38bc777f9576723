package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eventboard/eventboard-api/internal/api/handler/v1/request"
	"github.com/eventboard/eventboard-api/internal/api/handler/v1/response"
	"github.com/eventboard/eventboard-api/internal/domain"
)

type UserService interface {
	CreateUser(ctx context.Context, user domain.User) (domain.User, error)
	ListUsers(ctx context.Context, ids []int64, from, size int) ([]domain.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type UserHandler struct {
	svc UserService
}

func NewUserHandler(svc UserService) *UserHandler {
	return &UserHandler{
		svc: svc,
	}
}

// HandleCreateUser godoc
// @Summary      Register a user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        input  body      request.NewUserRequest  true  "User details"
// @Success      201    {object}  domain.User
// @Failure      400    {object}  response.Err
// @Failure      409    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /admin/users [post]
// @Security     BearerAuth
func (h *UserHandler) HandleCreateUser(ctx *gin.Context) {
	var input request.NewUserRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	created, err := h.svc.CreateUser(ctx.Request.Context(), domain.User{Name: input.Name, Email: input.Email})
	if err != nil {
		response.RenderError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleListUsers godoc
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Param        ids   query     []int  false  "User IDs"
// @Param        from  query     int    false  "Offset"
// @Param        size  query     int    false  "Page size"
// @Success      200   {array}   domain.User
// @Failure      400   {object}  response.Err
// @Failure      500   {object}  response.Err
// @Router       /admin/users [get]
// @Security     BearerAuth
func (h *UserHandler) HandleListUsers(ctx *gin.Context) {
	ids, err := parseIDList(ctx, "ids")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	from, size, err := parsePagination(ctx)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	users, err := h.svc.ListUsers(ctx.Request.Context(), ids, from, size)
	if err != nil {
		response.RenderError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, users)
}

// HandleDeleteUser godoc
// @Summary      Delete a user
// @Tags         admin
// @Param        userID  path  int  true  "User ID"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /admin/users/{userID} [delete]
// @Security     BearerAuth
func (h *UserHandler) HandleDeleteUser(ctx *gin.Context) {
	userID, err := parseIDParam(ctx, "userID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := h.svc.DeleteUser(ctx.Request.Context(), userID); err != nil {
		response.RenderError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
