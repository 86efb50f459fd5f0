package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	apperrors "salefinder/pkg/errors"
	"salefinder/pkg/logger"
)

// ErrorBody is the envelope every failure returns to the client.
type ErrorBody struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func OK(c echo.Context, payload interface{}) error {
	return c.JSON(http.StatusOK, payload)
}

func Created(c echo.Context, payload interface{}) error {
	return c.JSON(http.StatusCreated, payload)
}

// Error translates any error into the envelope. Known AppError kinds pass
// through with their own status; binding and validation failures become 400s
// naming the offending field; anything else is wrapped as a generic 500 and
// logged server-side, never leaked to the client.
func Error(c echo.Context, err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Status >= http.StatusInternalServerError {
			logger.Error("%s: %v", appErr.Code, err)
		}
		return c.JSON(appErr.Status, ErrorBody{Status: appErr.Status, Message: appErr.Message})
	}

	var validationErr validator.ValidationErrors
	if errors.As(err, &validationErr) {
		return badRequest(c, validationMessage(validationErr))
	}

	if msg, ok := bindMessage(err); ok {
		return badRequest(c, msg)
	}

	logger.Error("unhandled error: %v", err)
	return c.JSON(http.StatusInternalServerError, ErrorBody{
		Status:  http.StatusInternalServerError,
		Message: "Internal Server Error",
	})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorBody{Status: http.StatusBadRequest, Message: msg})
}

func validationMessage(errs validator.ValidationErrors) string {
	for _, fe := range errs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			return field + " is required"
		case "min":
			return field + " must have at least " + fe.Param() + " entries"
		case "datetime":
			return field + " has an invalid date or time format"
		case "oneof":
			return field + " must be one of: " + fe.Param()
		case "email":
			return field + " must be a valid email address"
		default:
			return field + " is invalid"
		}
	}
	return "invalid input"
}

// bindMessage unwraps echo's bind failures down to the JSON decoding error
// so the client is told which field had the wrong type.
func bindMessage(err error) (string, bool) {
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Internal != nil {
		err = he.Internal
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return typeErr.Field + " must be of type " + jsonTypeName(typeErr.Type), true
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return "request body is not valid JSON", true
	}

	return "", false
}

func jsonTypeName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	default:
		return "string"
	}
}
