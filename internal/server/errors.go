package server

import (
	"errors"
	"net/http"

	webhookdomain "github.com/atendely/flowhook/internal/webhook/domain"
	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ErrorHandlingMiddleware renders the last handler error after the
// chain finishes. Internal detail stays in the audit log and process
// logs, never in the response body.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, payload)
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorResponse) {
	switch {
	case errors.Is(err, webhookdomain.ErrLinkNotFound):
		return http.StatusNotFound, errorResponse{
			Error:   "Webhook not found",
			Message: "the requested webhook does not exist or is inactive",
		}
	case errors.Is(err, webhookdomain.ErrFlowInactive):
		return http.StatusUnprocessableEntity, errorResponse{
			Error:   "Flow inactive",
			Message: "the flow bound to this webhook is inactive",
		}
	default:
		return http.StatusInternalServerError, errorResponse{
			Error:   "Internal server error",
			Message: "failed to process webhook",
		}
	}
}

// classifyErrorForLog tags request-log lines with a stable error type
// and code.
func classifyErrorForLog(err error) (string, string) {
	switch {
	case errors.Is(err, webhookdomain.ErrLinkNotFound):
		return "not_found", "webhook_link_not_found"
	case errors.Is(err, webhookdomain.ErrFlowInactive):
		return "unprocessable", "flow_inactive"
	case errors.Is(err, webhookdomain.ErrNoTicketAvailable):
		return "internal_error", "no_ticket_available"
	case errors.Is(err, webhookdomain.ErrEmptyFlow):
		return "internal_error", "flow_has_no_nodes"
	default:
		return "internal_error", "processing_error"
	}
}
