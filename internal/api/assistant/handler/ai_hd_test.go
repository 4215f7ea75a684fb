package assistantHandler

import (
	"ScheduleSync/internal/api/assistant"
	"ScheduleSync/internal/entity"
	"ScheduleSync/internal/middleware"
	jwtPkg "ScheduleSync/pkg/jwt"
	"ScheduleSync/pkg/response"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAssistantService struct {
	messages []string
	confirm  []assistant.ConfirmBookingRequest
	blockFor string
	// slow makes every call outlive the handler deadline before succeeding
	slow bool
}

func (f *fakeAssistantService) ProcessMessage(ctx context.Context, _ entity.UserLoginData, req assistant.ScheduleRequest) (*assistant.ScheduleResponse, error) {
	if f.slow {
		<-ctx.Done()
	}
	f.messages = append(f.messages, req.Message)
	return &assistant.ScheduleResponse{Type: assistant.TypeInfo, Message: "echo: " + req.Message}, nil
}

func (f *fakeAssistantService) ConfirmBooking(ctx context.Context, user entity.UserLoginData, req assistant.ConfirmBookingRequest) (*assistant.ConfirmBookingResponse, error) {
	if f.slow {
		<-ctx.Done()
	}
	f.confirm = append(f.confirm, req)
	if req.AttendeeEmail == f.blockFor {
		return nil, response.NewBlockedError("Blocked domain: rival.com")
	}
	if req.StartTime.Before(time.Now()) {
		return nil, assistant.ErrBookingInPast
	}
	return &assistant.ConfirmBookingResponse{
		Success: true,
		Booking: entity.Booking{ID: "b-1", UserID: user.ID, AttendeeEmail: req.AttendeeEmail, Status: entity.BookingStatusConfirmed},
	}, nil
}

func (f *fakeAssistantService) Suggest(context.Context, string) (*assistant.SuggestResponse, error) {
	return &assistant.SuggestResponse{Suggestions: []string{}}, nil
}

func (f *fakeAssistantService) SweepExpiredPendingActions(context.Context) (int64, error) {
	return 0, nil
}

func newTestApp(t *testing.T, svc *fakeAssistantService) (*fiber.App, string) {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	t.Setenv(jwtPkg.AccessTokenSecret, "test-secret")

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	app := fiber.New()
	New(logger, validator.New(), middleware.New(logger, middleware.Config{}), svc).Start(app.Group("/api"))

	token, err := jwtPkg.SignUser(entity.UserLoginData{ID: "user-1", Email: "owner@example.com", Name: "Owner"}, time.Hour)
	require.NoError(t, err)
	return app, token
}

func do(t *testing.T, app *fiber.App, path, token, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var out map[string]interface{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp, out
}

func TestSchedule(t *testing.T) {
	svc := &fakeAssistantService{}
	app, token := newTestApp(t, svc)

	resp, _ := do(t, app, "/api/ai/schedule", "", `{"message":"hi"}`)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, body := do(t, app, "/api/ai/schedule", token, `{"message":"show my rules"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, assistant.TypeInfo, body["type"])
	assert.Equal(t, "echo: show my rules", body["message"])
	assert.Equal(t, []string{"show my rules"}, svc.messages)

	resp, body = do(t, app, "/api/ai/schedule", token, `{"message":""}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
}

func TestResultsSurviveDeadline(t *testing.T) {
	prevSchedule, prevConfirm := scheduleTimeout, confirmTimeout
	scheduleTimeout, confirmTimeout = 10*time.Millisecond, 10*time.Millisecond
	t.Cleanup(func() { scheduleTimeout, confirmTimeout = prevSchedule, prevConfirm })

	svc := &fakeAssistantService{slow: true}
	app, token := newTestApp(t, svc)

	resp, body := do(t, app, "/api/ai/schedule", token, `{"message":"yes"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "echo: yes", body["message"])

	start := time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339)
	resp, body = do(t, app, "/api/ai/schedule/confirm", token,
		`{"start_time":"`+start+`","attendee_email":"jane@acme.com"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
}

func TestConfirmBooking(t *testing.T) {
	svc := &fakeAssistantService{blockFor: "bob@rival.com"}
	app, token := newTestApp(t, svc)
	start := time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339)

	resp, body := do(t, app, "/api/ai/schedule/confirm", token,
		`{"start_time":"`+start+`","attendee_email":"jane@acme.com"}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])

	resp, body = do(t, app, "/api/ai/schedule/confirm", token,
		`{"start_time":"`+start+`","attendee_email":"bob@rival.com"}`)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Booking blocked", body["error"])
	assert.Equal(t, "Blocked domain: rival.com", body["reason"])

	past := time.Now().Add(-time.Hour).UTC().Format(time.RFC3339)
	resp, body = do(t, app, "/api/ai/schedule/confirm", token,
		`{"start_time":"`+past+`","attendee_email":"jane@acme.com"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "BOOKING_IN_PAST", body["code"])

	resp, _ = do(t, app, "/api/ai/schedule/confirm", token, `{"start_time":"`+start+`","attendee_email":"not-an-email"}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Len(t, svc.confirm, 3)
}

func TestSuggest(t *testing.T) {
	app, token := newTestApp(t, &fakeAssistantService{})

	resp, body := do(t, app, "/api/ai/suggest", token, `{}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, []interface{}{}, body["suggestions"])
}

func TestWebSocketRequiresUpgrade(t *testing.T) {
	app, token := newTestApp(t, &fakeAssistantService{})

	req := httptest.NewRequest(http.MethodGet, "/api/ai/ws?token="+token, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}
