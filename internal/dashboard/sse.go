package dashboard

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/itzmeahammed/automate-schdeule-sub000/internal/schedule"
)

// pollInterval is how often the event stream checks for a new run.
var pollInterval = 3 * time.Second

// runEvent announces a newly applied schedule run.
type runEvent struct {
	RunID     string    `json:"run_id"`
	Version   int64     `json:"version"`
	Items     int       `json:"items"`
	Conflicts int       `json:"conflicts"`
	Trigger   string    `json:"trigger"`
	AppliedAt time.Time `json:"applied_at"`
}

// handleEvents streams a "run" event whenever a new schedule version is
// applied, with periodic heartbeats.
func (a *api) handleEvents(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	// Only runs applied after the client connects are announced.
	var lastVersion int64
	if run, err := schedule.LatestRun(a.opts.DB); err == nil && run != nil {
		lastVersion = run.Version
	}

	writeSSE(c.Writer, "connected", map[string]string{"type": "connected"})
	c.Writer.Flush()

	ctx := c.Request.Context()
	ticker := time.NewTicker(pollInterval)
	heartbeat := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-heartbeat.C:
			writeSSE(c.Writer, "heartbeat", map[string]string{
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			})
			c.Writer.Flush()
		case <-ticker.C:
			run, err := schedule.LatestRun(a.opts.DB)
			if err != nil {
				a.opts.Logger.WithError(err).Warn("event stream: latest run")
				continue
			}
			if run == nil || run.Version <= lastVersion {
				continue
			}
			lastVersion = run.Version
			writeSSE(c.Writer, "run", runEvent{
				RunID:     run.ID,
				Version:   run.Version,
				Items:     run.Items,
				Conflicts: run.Conflicts,
				Trigger:   run.Trigger,
				AppliedAt: run.CreatedAt,
			})
			c.Writer.Flush()
		}
	}
}

// writeSSE writes a single SSE event to the writer.
func writeSSE(w io.Writer, event string, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, string(jsonData))
}
