package check

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/MuratOzte/securekit/internal/check"
	"github.com/MuratOzte/securekit/internal/data"
	"github.com/gin-gonic/gin"
)

// ErrorResponse represents the JSON body returned on a failed check.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Handler manages the IP country-check endpoint.
type Handler struct {
	checker *check.Checker
}

// NewHandler creates a new check handler over the given checker.
func NewHandler(checker *check.Checker) *Handler {
	return &Handler{checker: checker}
}

// Check handles GET /api/v1/check/:ip?expected=CC
func (h *Handler) Check(c *gin.Context) {
	ip := c.Param("ip")

	var expected *string
	if v := c.Query("expected"); v != "" {
		expected = &v
	}

	slog.Debug("check request received", "ip", ip, "expected", c.Query("expected"))

	result, err := h.checker.CheckCountry(c.Request.Context(), ip, expected)
	if err != nil {
		var remoteErr *data.RemoteError
		if errors.As(err, &remoteErr) {
			slog.Warn("upstream lookup rejected", "ip", ip, "status", remoteErr.StatusCode)
			c.JSON(http.StatusBadGateway, ErrorResponse{
				Error: "upstream lookup failed",
			})
			return
		}
		slog.Error("lookup failed", "ip", ip, "error", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "lookup failed",
		})
		return
	}

	c.JSON(http.StatusOK, result)
}
