package presenter

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/purfacted/purfacted/internal/domain"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *errorBody `json:"error,omitempty"`
}

// OK wraps a successful response.
func OK(c echo.Context, payload any) error {
	return c.JSON(http.StatusOK, envelope{Success: true, Data: payload})
}

// Created wraps a successful creation response.
func Created(c echo.Context, payload any) error {
	return c.JSON(http.StatusCreated, envelope{Success: true, Data: payload})
}

// Fail emits an error envelope with a stable machine-readable code.
func Fail(c echo.Context, status int, code, message string) error {
	return c.JSON(status, envelope{Success: false, Error: &errorBody{Code: code, Message: message}})
}

// FromError maps typed domain errors onto the wire: not-found to 404,
// precondition violations to 422 with their code, anything else to 500.
func FromError(c echo.Context, err error) error {
	var notFound domain.NotFoundError
	if errors.As(err, &notFound) {
		return Fail(c, http.StatusNotFound, "NOT_FOUND", notFound.Error())
	}

	var precondition domain.PreconditionError
	if errors.As(err, &precondition) {
		return Fail(c, http.StatusUnprocessableEntity, precondition.Code, precondition.Message)
	}

	return Fail(c, http.StatusInternalServerError, "INTERNAL", err.Error())
}

// BadRequest reports a malformed request body or parameter.
func BadRequest(c echo.Context, err error) error {
	return Fail(c, http.StatusBadRequest, "BAD_REQUEST", err.Error())
}
