package httpapi

import (
	"context"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"

	"github.com/riskibarqy/race-tipping/internal/usecase"
)

const (
	googleAPIVersion = "2.0"
	errorDomain      = "race-tipping"

	internalErrorMessage = "internal server error"
)

// responseBody follows the Google JSON style guide: exactly one of data or
// error is present.
type responseBody struct {
	APIVersion string           `json:"apiVersion"`
	Data       any              `json:"data,omitempty"`
	Error      *googleErrorBody `json:"error,omitempty"`
}

type googleErrorBody struct {
	Code    int           `json:"code"`
	Message string        `json:"message"`
	Status  string        `json:"status"`
	Errors  []errorDetail `json:"errors,omitempty"`
}

type errorDetail struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
	Status     string
}

// errorRules is evaluated in order; the first matching sentinel wins, so
// the more specific kinds sit above the ones they also wrap.
var errorRules = []struct {
	target error
	mapped mappedError
}{
	{usecase.ErrUnknownParticipant, mappedError{http.StatusBadRequest, "unknownParticipant", "INVALID_ARGUMENT"}},
	{usecase.ErrInvalidInput, mappedError{http.StatusBadRequest, "invalidInput", "INVALID_ARGUMENT"}},
	{usecase.ErrNotFound, mappedError{http.StatusNotFound, "notFound", "NOT_FOUND"}},
	{usecase.ErrConflict, mappedError{http.StatusConflict, "conflict", "ABORTED"}},
	{usecase.ErrUnauthorized, mappedError{http.StatusUnauthorized, "unauthorized", "UNAUTHENTICATED"}},
	{usecase.ErrForbidden, mappedError{http.StatusForbidden, "forbidden", "PERMISSION_DENIED"}},
	{errRateLimited, mappedError{http.StatusTooManyRequests, "rateLimitExceeded", "RESOURCE_EXHAUSTED"}},
	{usecase.ErrDependencyUnavailable, mappedError{http.StatusServiceUnavailable, "dependencyUnavailable", "UNAVAILABLE"}},
}

var internalMapping = mappedError{
	HTTPStatus: http.StatusInternalServerError,
	Reason:     "internalError",
	Status:     "INTERNAL",
}

func mapError(ctx context.Context, err error) mappedError {
	_, span := startSpan(ctx, "httpapi.mapError")
	defer span.End()

	for _, rule := range errorRules {
		if errors.Is(err, rule.target) {
			return rule.mapped
		}
	}
	return internalMapping
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	encodeBody(ctx, w, status, responseBody{APIVersion: googleAPIVersion, Data: data})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	mapped := mapError(ctx, err)
	if mapped == internalMapping {
		writeInternalError(ctx, w)
		return
	}
	writeFailure(ctx, w, mapped, err.Error())
}

// writeInternalError never echoes the cause; it may carry driver or
// upstream details.
func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	writeFailure(ctx, w, internalMapping, internalErrorMessage)
}

func writeFailure(ctx context.Context, w http.ResponseWriter, mapped mappedError, message string) {
	encodeBody(ctx, w, mapped.HTTPStatus, responseBody{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    mapped.HTTPStatus,
			Message: message,
			Status:  mapped.Status,
			Errors:  []errorDetail{{Domain: errorDomain, Reason: mapped.Reason, Message: message}},
		},
	})
}

func encodeBody(ctx context.Context, w http.ResponseWriter, status int, body responseBody) {
	_, span := startSpan(ctx, "httpapi.encodeBody")
	defer span.End()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(body)
}
