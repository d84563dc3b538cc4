package handlers

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/robaadekings/Robert-portifolio-website/internal/middleware"
	"github.com/robaadekings/Robert-portifolio-website/pkg/response"
)

// parseID reads a positive numeric path parameter.
func parseID(c *gin.Context, name, label string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		response.Error(c, response.NewValidation("invalid "+label+" id"))
		return 0, false
	}
	return uint(id), true
}

// bindError turns a gin binding failure into a ValidationError naming the
// offending field.
func bindError(err error) error {
	if middleware.IsBodyTooLarge(err) {
		return response.NewPayloadTooLarge("request body too large")
	}
	if errors.Is(err, io.EOF) {
		return response.NewValidation("request body is empty")
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := lowerFirst(fe.Field())
		switch fe.Tag() {
		case "required":
			return response.NewValidation(field + " is required")
		case "email":
			return response.NewValidation(field + " must be a valid email address")
		default:
			return response.NewValidation(fmt.Sprintf("%s is invalid", field))
		}
	}
	return response.NewValidation("malformed request body")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
