package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/race-tipping/internal/usecase"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) responseBody {
	t.Helper()

	var body responseBody
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestWriteSuccess_WrapsData(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusCreated, map[string]string{"id": "r-1"})

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type = %q", ct)
	}
	body := decodeBody(t, rec)
	if body.APIVersion != googleAPIVersion || body.Data == nil || body.Error != nil {
		t.Fatalf("unexpected envelope %+v", body)
	}
}

func TestWriteError_CarriesReason(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: predicted must hold 10 names", usecase.ErrInvalidInput))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	body := decodeBody(t, rec)
	if body.Error == nil {
		t.Fatalf("missing error body: %s", rec.Body.String())
	}
	if body.Error.Status != "INVALID_ARGUMENT" || body.Error.Code != http.StatusBadRequest {
		t.Fatalf("unexpected error body %+v", body.Error)
	}
	if len(body.Error.Errors) != 1 || body.Error.Errors[0].Reason != "invalidInput" || body.Error.Errors[0].Domain != errorDomain {
		t.Fatalf("unexpected error details %+v", body.Error.Errors)
	}
	if !strings.Contains(body.Error.Message, "10 names") {
		t.Fatalf("message lost the cause: %q", body.Error.Message)
	}
}

func TestMapError(t *testing.T) {
	cases := map[string]struct {
		err    error
		status int
		reason string
	}{
		"unknown participant before invalid input": {&usecase.UnknownParticipantError{Name: "Nobody"}, http.StatusBadRequest, "unknownParticipant"},
		"invalid input": {fmt.Errorf("%w: blank", usecase.ErrInvalidInput), http.StatusBadRequest, "invalidInput"},
		"not found":     {fmt.Errorf("%w: race=r1", usecase.ErrNotFound), http.StatusNotFound, "notFound"},
		"conflict":      {fmt.Errorf("%w: closed", usecase.ErrConflict), http.StatusConflict, "conflict"},
		"unauthorized":  {usecase.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		"forbidden":     {usecase.ErrForbidden, http.StatusForbidden, "forbidden"},
		"rate limited":  {errRateLimited, http.StatusTooManyRequests, "rateLimitExceeded"},
		"upstream down": {usecase.ErrDependencyUnavailable, http.StatusServiceUnavailable, "dependencyUnavailable"},
		"unclassified":  {fmt.Errorf("select races: connection reset"), http.StatusInternalServerError, "internalError"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got := mapError(context.Background(), tc.err)
			if got.HTTPStatus != tc.status || got.Reason != tc.reason {
				t.Fatalf("mapError(%v) = %+v, want %d/%s", tc.err, got, tc.status, tc.reason)
			}
		})
	}
}

func TestWriteError_HidesInternalCause(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("insert tips: pq: password authentication failed"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("cause leaked: %s", rec.Body.String())
	}
	if body := decodeBody(t, rec); body.Error == nil || body.Error.Message != internalErrorMessage {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}
