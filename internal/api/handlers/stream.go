package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wonny/superinvestor/internal/contracts"
	"github.com/wonny/superinvestor/pkg/logger"
)

const streamWriteWait = 10 * time.Second

// Stream event types
const (
	EventProgress = "progress"
	EventDone     = "done"
	EventError    = "error"
)

// StreamEvent is one websocket message
type StreamEvent struct {
	Type     string              `json:"type"`
	Status   string              `json:"status,omitempty"`
	Progress *contracts.Progress `json:"progress,omitempty"`
	Fraction float64             `json:"fraction,omitempty"`
	Result   *contracts.Result   `json:"result,omitempty"`
	Error    string              `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// StreamHandler runs the screener and pushes progress over a websocket
type StreamHandler struct {
	runner Runner
	logger *logger.Logger
}

// NewStreamHandler creates a new stream handler
func NewStreamHandler(runner Runner, log *logger.Logger) *StreamHandler {
	return &StreamHandler{
		runner: runner,
		logger: log,
	}
}

// Stream upgrades the connection, emits progress events and a final done/error event
// GET /api/holdings/stream
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	// 진행 이벤트는 직렬화되어 호출되고 Run 반환 후에는 오지 않으므로 writer는 하나
	send := func(ev StreamEvent) error {
		conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
		return conn.WriteJSON(ev)
	}

	var writeErr error
	onProgress := func(p contracts.Progress) {
		if writeErr != nil {
			return
		}
		writeErr = send(StreamEvent{Type: EventProgress, Progress: &p, Fraction: p.Fraction()})
	}

	result, err := h.runner.Run(r.Context(), onProgress)
	if writeErr != nil {
		h.logger.WithError(writeErr).Debug("Stream client went away")
		return
	}

	var final StreamEvent
	switch {
	case err == nil:
		final = StreamEvent{Type: EventDone, Status: StatusOK, Result: result}
	case errors.Is(err, contracts.ErrEmptyResult):
		final = StreamEvent{Type: EventDone, Status: StatusNoData, Error: contracts.ErrEmptyResult.Error()}
	case errors.Is(err, contracts.ErrSourceUnavailable):
		final = StreamEvent{Type: EventError, Error: contracts.ErrSourceUnavailable.Error()}
	default:
		h.logger.WithError(err).Error("Streamed screening run failed")
		final = StreamEvent{Type: EventError, Error: "Failed to run screener"}
	}

	if err := send(final); err != nil {
		h.logger.WithError(err).Debug("Failed to send final stream event")
		return
	}

	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(streamWriteWait))
}
