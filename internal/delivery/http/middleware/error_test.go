package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"talent-match/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap/zaptest"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{name: "app error", err: NewAppError(fiber.StatusConflict, "Job not parsed", nil, nil), wantStatus: 409, wantMsg: "Job not parsed"},
		{name: "wrapped app error", err: fmt.Errorf("outer: %w", NewAppError(fiber.StatusNotFound, "", nil, nil)), wantStatus: 404, wantMsg: response.MessageNotFound},
		{name: "app 5xx hides detail", err: NewAppError(fiber.StatusInternalServerError, "db exploded", nil, errors.New("boom")), wantStatus: 500, wantMsg: response.MessageInternalServerError},
		{name: "fiber error", err: fiber.NewError(fiber.StatusBadRequest, "bad json"), wantStatus: 400, wantMsg: "bad json"},
		{name: "deadline", err: fmt.Errorf("run: %w", context.DeadlineExceeded), wantStatus: 503, wantMsg: response.MessageServiceUnavailable},
		{name: "plain error", err: errors.New("unexpected"), wantStatus: 500, wantMsg: response.MessageInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg, _ := classify(tt.err)
			if status != tt.wantStatus || msg != tt.wantMsg {
				t.Fatalf("expected %d %q, got %d %q", tt.wantStatus, tt.wantMsg, status, msg)
			}
		})
	}
}

func TestErrorMiddleware_RecoversPanic(t *testing.T) {
	app := fiber.New()
	app.Use(NewAccessLogMiddleware(zaptest.NewLogger(t)).Middleware())
	app.Use(NewErrorMiddleware(zaptest.NewLogger(t)).Middleware())
	app.Get("/panic", func(c fiber.Ctx) error { panic("boom") })

	resp, err := app.Test(httptest.NewRequest("GET", "/panic", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	if resp.Header.Get(HeaderRequestID) == "" {
		t.Fatalf("expected request id header")
	}
	var body response.SemanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Message != response.MessageInternalServerError {
		t.Fatalf("unexpected message %q", body.Message)
	}
}
