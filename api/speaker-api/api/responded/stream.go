// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.

package responded_api

import (
	"errors"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rapidaai/speaker/pkg/utils"
)

const (
	StreamMessageVoice = "voice"
	StreamMessageSkip  = "skip"
	StreamMessageError = "error"
)

var streamUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// StreamMessage is written back for every event read from the socket, in
// the order the events arrived.
type StreamMessage struct {
	Type      string      `json:"type"`
	RequestID string      `json:"request_id,omitempty"`
	Reply     *VoiceReply `json:"reply,omitempty"`
	Error     string      `json:"error,omitempty"`
}

type streamEvent struct {
	RespondedEvent
	RequestID string `json:"request_id,omitempty"`
}

// Stream keeps one websocket open per chat session. Each text frame is a
// responded event; each answer is a StreamMessage.
//
// @Router /v1/responded/stream [get]
// @Success 101 "Switching Protocols"
// @Failure 400 {object} gin.H
func (h *Handler) Stream(c *gin.Context) {
	conn, err := streamUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Errorf("speaker: websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warnf("speaker: websocket read failed: %v", err)
			}
			return
		}

		var event streamEvent
		if err := sonic.Unmarshal(message, &event); err != nil || utils.IsEmpty(event.ResponseText) {
			if err := conn.WriteJSON(StreamMessage{Type: StreamMessageError, RequestID: event.RequestID, Error: "invalid responded event"}); err != nil {
				return
			}
			continue
		}

		reply, err := h.Handle(ctx, event.RespondedEvent)
		switch {
		case errors.Is(err, ErrNothingToSpeak):
			err = conn.WriteJSON(StreamMessage{Type: StreamMessageSkip, RequestID: event.RequestID})
		case err != nil:
			err = conn.WriteJSON(StreamMessage{Type: StreamMessageError, RequestID: event.RequestID, Error: err.Error()})
		default:
			err = conn.WriteJSON(StreamMessage{Type: StreamMessageVoice, RequestID: event.RequestID, Reply: reply})
		}
		if err != nil {
			h.logger.Warnf("speaker: websocket write failed: %v", err)
			return
		}
	}
}
