package assistantHandler

import (
	"ScheduleSync/internal/api/assistant"
	"ScheduleSync/internal/entity"
	contextPkg "ScheduleSync/pkg/context"
	jwtPkg "ScheduleSync/pkg/jwt"
	"ScheduleSync/pkg/response"
	"context"
	"errors"
	"time"

	"github.com/gofiber/websocket/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

type wsError struct {
	Error  string `json:"error"`
	Code   string `json:"code,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// handleWebSocket answers one ScheduleRequest JSON text frame with one ScheduleResponse frame.
func (h *AssistantHandler) handleWebSocket(c *websocket.Conn) {
	user, ok := c.Locals(jwtPkg.UserLocalsKey).(entity.UserLoginData)
	if !ok {
		_ = c.WriteJSON(wsError{Error: "Unauthorized"})
		return
	}
	requestID, _ := c.Locals("X-Request-ID").(string)

	entry := h.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"user_id":    user.ID,
	})
	entry.Info("Assistant WebSocket client connected")
	defer entry.Info("Assistant WebSocket client disconnected")

	c.SetPingHandler(func(data string) error {
		if err := c.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(5*time.Second)); err != nil {
			entry.Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	maxReadTimeout := 5 * time.Minute

	for {
		if err := c.SetReadDeadline(time.Now().Add(maxReadTimeout)); err != nil {
			entry.Errorf("Error setting read deadline: %v", err)
			break
		}

		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				entry.Errorf("Assistant WebSocket error: %v", err)
			}
			break
		}

		if messageType != websocket.TextMessage {
			entry.Warnf("Received unexpected message type: %d", messageType)
			continue
		}

		var out interface{}
		var req assistant.ScheduleRequest
		switch {
		case jsoniter.Unmarshal(message, &req) != nil:
			out = wsError{Error: "Invalid message", Code: "VALIDATION_ERROR"}
		case h.validator.Struct(req) != nil:
			out = wsError{Error: "Validation failed", Code: "VALIDATION_ERROR"}
		default:
			out = h.answer(contextPkg.WithUserID(contextPkg.WithRequestID(context.Background(), requestID), user.ID), user, req, entry)
		}

		if err := c.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
			entry.Errorf("Error setting write deadline: %v", err)
			break
		}
		if err := c.WriteJSON(out); err != nil {
			entry.Errorf("Error writing JSON response: %v", err)
			break
		}
	}
}

func (h *AssistantHandler) answer(ctx context.Context, user entity.UserLoginData, req assistant.ScheduleRequest, entry *logrus.Entry) interface{} {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	res, err := h.assistantService.ProcessMessage(ctx, user, req)
	if err == nil {
		return res
	}

	var coded *response.Error
	if errors.As(err, &coded) {
		return wsError{Error: coded.Error(), Code: coded.Slug}
	}

	entry.WithField("error", err.Error()).Error("Assistant WebSocket message failed")
	return wsError{Error: "Failed to process request"}
}
