package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"yamdb/internal/entity"
	"yamdb/pkg/logger"
	"yamdb/pkg/middleware"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// ActorResolver turns the token subject set by the auth middleware into the
// acting user.
type ActorResolver interface {
	ResolveActor(ctx context.Context, subject string) (*entity.User, error)
}

type ListResponse struct {
	Count   int64       `json:"count"`
	Results interface{} `json:"results"`
}

type ErrorResponse struct {
	Error  string              `json:"error"`
	Kind   string              `json:"kind"`
	Fields map[string][]string `json:"fields,omitempty"`
}

// base carries what every handler needs to identify the actor and report
// failures.
type base struct {
	actors ActorResolver
	logger *logger.Logger
}

// actor returns the acting user, nil for an anonymous request. On false the
// response has already been written.
func (b *base) actor(c *gin.Context) (*entity.User, bool) {
	subject := c.GetString(middleware.ContextUserID)
	if subject == "" {
		return nil, true
	}

	actor, err := b.actors.ResolveActor(c.Request.Context(), subject)
	if err != nil {
		b.fail(c, nil, err)
		return nil, false
	}
	return actor, true
}

// fail writes err as a structured error response. A denied request is 401
// for anonymous actors and 403 for authenticated ones.
func (b *base) fail(c *gin.Context, actor *entity.User, err error) {
	var domainErr *entity.Error
	if !errors.As(err, &domainErr) || domainErr.Kind == entity.KindInternal {
		b.logger.Error("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "internal server error",
			Kind:  string(entity.KindInternal),
		})
		return
	}

	c.JSON(statusFor(domainErr.Kind, actor.IsAuthenticated()), ErrorResponse{
		Error:  domainErr.Error(),
		Kind:   string(domainErr.Kind),
		Fields: domainErr.Fields,
	})
}

func statusFor(kind entity.ErrorKind, authenticated bool) int {
	switch kind {
	case entity.KindUnauthorized:
		if authenticated {
			return http.StatusForbidden
		}
		return http.StatusUnauthorized
	case entity.KindNotFound:
		return http.StatusNotFound
	case entity.KindValidation, entity.KindInvalidCredential:
		return http.StatusBadRequest
	case entity.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// bind decodes the JSON body. Field rules are checked by the use case.
func (b *base) bind(c *gin.Context, actor *entity.User, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		b.fail(c, actor, entity.FieldError("body", "Invalid request body: "+err.Error()))
		return false
	}
	return true
}

// pathID parses a numeric path parameter. Anything else cannot name a
// record, so it is reported as not found.
func (b *base) pathID(c *gin.Context, actor *entity.User, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		b.fail(c, actor, entity.NotFound("%s %q not found", name, c.Param(name)))
		return 0, false
	}
	return uint(id), true
}

// page reads limit and offset query parameters.
func (b *base) page(c *gin.Context, actor *entity.User) (int, int, bool) {
	limit, offset := defaultPageLimit, 0

	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			b.fail(c, actor, entity.FieldError("limit", "A positive integer is required."))
			return 0, 0, false
		}
		limit = n
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	if raw := c.Query("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			b.fail(c, actor, entity.FieldError("offset", "A non-negative integer is required."))
			return 0, 0, false
		}
		offset = n
	}

	return limit, offset, true
}
