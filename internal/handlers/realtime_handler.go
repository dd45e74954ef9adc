package handlers

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/social-service/internal/realtime"
	"github.com/SAP-F-2025/social-service/internal/utils"
)

const defaultHeartbeatInterval = 15 * time.Second

// ChangeSubscriber is the read side of the realtime hub
type ChangeSubscriber interface {
	Subscribe(ctx context.Context, filter realtime.Filter) <-chan realtime.ChangeEvent
}

type RealtimeHandler struct {
	BaseHandler
	hub       ChangeSubscriber
	heartbeat time.Duration

	closing   chan struct{}
	closeOnce sync.Once
}

func NewRealtimeHandler(hub ChangeSubscriber, logger utils.Logger) *RealtimeHandler {
	return &RealtimeHandler{
		BaseHandler: NewBaseHandler(logger),
		hub:         hub,
		heartbeat:   defaultHeartbeatInterval,
		closing:     make(chan struct{}),
	}
}

// Close ends every open stream. http.Server.Shutdown does not wait for
// streaming responses on its own.
func (h *RealtimeHandler) Close() {
	h.closeOnce.Do(func() { close(h.closing) })
}

// Stream pushes matching change events as Server-Sent Events until the
// client goes away
// @Summary Subscribe to changes
// @Tags realtime
// @Produce text/event-stream
// @Param table query string true "Table name (comments, reactions, connections, profiles)"
// @Param column query string false "Filter column"
// @Param value query string false "Filter value"
// @Success 200 {string} string "event stream"
// @Failure 400 {object} ErrorResponse "Bad request"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /realtime [get]
func (h *RealtimeHandler) Stream(c *gin.Context) {
	viewer, ok := requireViewer(c)
	if !ok {
		return
	}

	var filter realtime.Filter
	if err := c.ShouldBindQuery(&filter); err != nil || filter.Table == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Query parameter 'table' is required",
		})
		return
	}
	if filter.Column != "" && filter.Value == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Query parameter 'value' is required when 'column' is set",
		})
		return
	}
	if !canSubscribe(viewer, filter) {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Access denied",
			Details: "connection changes can only be streamed for your own requester_id or recipient_id",
		})
		return
	}

	h.LogRequest(c, "Opening change stream", "table", filter.Table, "column", filter.Column)

	// the subscription is released when the request context ends
	changes := h.hub.Subscribe(c.Request.Context(), filter)

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.WriteHeaderNow()
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-changes:
			if !ok {
				return false
			}
			c.SSEvent("change", ev)
			return true
		case t := <-ticker.C:
			c.SSEvent("ping", t.UTC().Format(time.RFC3339))
			return true
		case <-h.closing:
			return false
		case <-c.Request.Context().Done():
			return false
		}
	})

	h.log(c).Debug("Change stream closed", "table", filter.Table)
}

// canSubscribe keeps connection edges private to the two people on them
func canSubscribe(viewer string, filter realtime.Filter) bool {
	if filter.Table != "connections" {
		return true
	}
	switch filter.Column {
	case "requester_id", "recipient_id":
		return filter.Value == viewer
	default:
		return false
	}
}
