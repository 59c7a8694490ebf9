package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/fanarena/contest-engine/internal/usecase"
)

type responseEnvelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type mappedError struct {
	HTTPStatus int
	Code       string
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	ctx, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	ctx, span := startSpan(ctx, "httpapi.writeSuccess")
	defer span.End()

	writeJSON(ctx, w, status, responseEnvelope{
		Success: true,
		Data:    data,
	})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	ctx, span := startSpan(ctx, "httpapi.writeError")
	defer span.End()

	mapped := mapError(ctx, err)
	writeJSON(ctx, w, mapped.HTTPStatus, responseEnvelope{
		Success: false,
		Error: &errorBody{
			Code:    mapped.Code,
			Message: err.Error(),
		},
	})
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	ctx, span := startSpan(ctx, "httpapi.writeInternalError")
	defer span.End()

	writeJSON(ctx, w, http.StatusInternalServerError, responseEnvelope{
		Success: false,
		Error: &errorBody{
			Code:    "INTERNAL",
			Message: "internal server error",
		},
	})
}

func mapError(ctx context.Context, err error) mappedError {
	ctx, span := startSpan(ctx, "httpapi.mapError")
	defer span.End()

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return mappedError{HTTPStatus: http.StatusBadRequest, Code: "INVALID_INPUT"}
	case errors.Is(err, usecase.ErrNotFound):
		return mappedError{HTTPStatus: http.StatusNotFound, Code: "NOT_FOUND"}
	case errors.Is(err, usecase.ErrUnauthorized):
		return mappedError{HTTPStatus: http.StatusUnauthorized, Code: "UNAUTHORIZED"}
	case errors.Is(err, usecase.ErrStateConflict):
		return mappedError{HTTPStatus: http.StatusConflict, Code: "STATE_CONFLICT"}
	case errors.Is(err, usecase.ErrCapacityExceeded):
		return mappedError{HTTPStatus: http.StatusConflict, Code: "CAPACITY_EXCEEDED"}
	case errors.Is(err, usecase.ErrConstraintViolation):
		return mappedError{HTTPStatus: http.StatusUnprocessableEntity, Code: "CONSTRAINT_VIOLATION"}
	case errors.Is(err, usecase.ErrInsufficientBalance):
		return mappedError{HTTPStatus: http.StatusPaymentRequired, Code: "INSUFFICIENT_BALANCE"}
	case errors.Is(err, usecase.ErrDependencyUnavailable):
		return mappedError{HTTPStatus: http.StatusServiceUnavailable, Code: "DEPENDENCY_UNAVAILABLE"}
	default:
		return mappedError{HTTPStatus: http.StatusInternalServerError, Code: "INTERNAL"}
	}
}
