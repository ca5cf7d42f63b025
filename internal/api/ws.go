package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Same permissive policy as the REST surface.
		return true
	},
}

// WatchBatch handles GET /api/batch-progress/:batch_id/ws. It streams
// progress events for a running batch and closes after the final event.
// For an already finished batch it sends one terminal event and closes.
func (h *Handler) WatchBatch(c *gin.Context) {
	batchID := c.Param("batch_id")

	events, cancel, running := h.hub.subscribe(batchID)
	if !running {
		run, ok := h.store.Get(batchID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "batch not found"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			h.logger.Warn("websocket upgrade failed", "batch_id", batchID, "error", err)
			return
		}
		defer conn.Close()

		final := ProgressEvent{
			BatchID:   batchID,
			Completed: run.TotalProducts,
			Total:     run.TotalProducts,
			Failed:    run.Failed,
			Done:      true,
		}
		if err := conn.WriteJSON(final); err != nil {
			h.logger.Debug("websocket write failed", "batch_id", batchID, "error", err)
		}
		return
	}
	defer cancel()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "batch_id", batchID, "error", err)
		return
	}
	defer conn.Close()

	for event := range events {
		if err := conn.WriteJSON(event); err != nil {
			h.logger.Debug("websocket write failed", "batch_id", batchID, "error", err)
			return
		}
		if event.Done {
			return
		}
	}
}
