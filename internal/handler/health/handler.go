package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Status is the JSON body returned by the probe endpoints.
type Status struct {
	Status string `json:"status"`
	Source string `json:"source,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Handler serves liveness and readiness probes. The readiness probe can
// run an optional check so a broken lookup source keeps the service out
// of rotation.
type Handler struct {
	source  string
	readyFn func() error
}

// NewHandler creates a probe handler. source names the active lookup
// backend; readyFn may be nil when there is nothing to verify.
func NewHandler(source string, readyFn func() error) *Handler {
	return &Handler{source: source, readyFn: readyFn}
}

// Health is the liveness probe endpoint.
// GET /health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, Status{Status: "ok"})
}

// Ready is the readiness probe endpoint.
// GET /ready
func (h *Handler) Ready(c *gin.Context) {
	if h.readyFn != nil {
		if err := h.readyFn(); err != nil {
			c.JSON(http.StatusServiceUnavailable, Status{
				Status: "not ready",
				Source: h.source,
				Error:  err.Error(),
			})
			return
		}
	}

	c.JSON(http.StatusOK, Status{Status: "ready", Source: h.source})
}
