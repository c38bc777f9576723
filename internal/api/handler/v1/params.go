package v1

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eventboard/eventboard-api/internal/api/handler/v1/request"
)

const (
	defaultPageSize = 10
)

func parseIDParam(ctx *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %v %q", name, ctx.Param(name))
	}

	return id, nil
}

// parsePagination reads the from/size query pair, falling back to 0/10.
func parsePagination(ctx *gin.Context) (int, int, error) {
	from := 0
	if raw := ctx.Query("from"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return 0, 0, fmt.Errorf("invalid from %q", raw)
		}
		from = parsed
	}

	size := defaultPageSize
	if raw := ctx.Query("size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return 0, 0, fmt.Errorf("invalid size %q", raw)
		}
		size = parsed
	}

	return from, size, nil
}

// parseIDList reads a query parameter given either repeated or comma separated.
func parseIDList(ctx *gin.Context, name string) ([]int64, error) {
	var ids []int64
	for _, raw := range ctx.QueryArray(name) {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}

			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid %v %q", name, part)
			}
			ids = append(ids, id)
		}
	}

	return ids, nil
}

func parseStringList(ctx *gin.Context, name string) []string {
	var values []string
	for _, raw := range ctx.QueryArray(name) {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				values = append(values, part)
			}
		}
	}

	return values
}

func parseOptionalBool(ctx *gin.Context, name string) (*bool, error) {
	raw := ctx.Query(name)
	if raw == "" {
		return nil, nil
	}

	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %v %q", name, raw)
	}

	return &value, nil
}

func parseDateQuery(ctx *gin.Context, name string) (time.Time, error) {
	raw := ctx.Query(name)
	if raw == "" {
		return time.Time{}, nil
	}

	parsed, err := time.Parse(request.DateTimeLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %v %q", name, raw)
	}

	return parsed, nil
}
