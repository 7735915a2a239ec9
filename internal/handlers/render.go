package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/cespare/xxhash"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/p-udaykiran/noteapp/internal/dto"
	"github.com/p-udaykiran/noteapp/internal/service"
)

// wantsHTML is true when the client prefers text/html over JSON. A missing or
// wildcard Accept header gets JSON.
func wantsHTML(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEJSON, gin.MIMEHTML) == gin.MIMEHTML
}

// jsonWithETag writes v with a content hash ETag and answers a matching
// If-None-Match with 304.
func jsonWithETag(c *gin.Context, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal error"})
		return
	}
	tag := fmt.Sprintf(`"%016x"`, xxhash.Sum64(b))
	c.Header("ETag", tag)
	if etagMatches(c.GetHeader("If-None-Match"), tag) {
		c.Status(http.StatusNotModified)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", b)
}

func etagMatches(header, tag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == "*" || candidate == tag {
			return true
		}
	}
	return false
}

// fail renders err as 404, 400 or 500. 500 responses hide the cause; it is
// attached to the context for the request log.
func fail(c *gin.Context, err error) {
	var (
		status int
		msg    string
	)
	switch {
	case errors.Is(err, service.ErrNotFound):
		status, msg = http.StatusNotFound, "not found"
	case errors.Is(err, service.ErrInvalid):
		status, msg = http.StatusBadRequest, err.Error()
	default:
		_ = c.Error(err)
		status, msg = http.StatusInternalServerError, "internal error"
	}
	renderError(c, status, msg)
}

// bindMessage describes a binding failure by form field name.
func bindMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "malformed request body"
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return field + " is invalid"
	}
}

func renderError(c *gin.Context, status int, msg string) {
	if wantsHTML(c) {
		c.HTML(status, "error.html", gin.H{"Title": http.StatusText(status), "Error": msg})
		return
	}
	c.JSON(status, dto.ErrorResponse{Error: msg})
}
