package server

import (
	"io"
	"net/http"

	webhookdomain "github.com/atendely/flowhook/internal/webhook/domain"
	"github.com/gin-gonic/gin"
)

// Payloads above this size are truncated; providers send a few KB at
// most.
const maxPayloadBytes = 1 << 20

// ReceiveWebhookPayment is the primary ingestion endpoint. The
// response always carries a definitive status: 200 on processed
// requests, 404/422/500 per the receiver's error taxonomy.
func (s *Server) ReceiveWebhookPayment(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxPayloadBytes))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if len(payload) == 0 {
		payload = []byte("{}")
	}

	result, err := s.webhooksvc.Process(c.Request.Context(), webhookdomain.ProcessRequest{
		Hash:      c.Param("hash"),
		Payload:   payload,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Webhook processed successfully",
		"data": gin.H{
			"flowTriggered":   result.FlowTriggered,
			"eventType":       result.EventType,
			"flowExecutionId": result.FlowExecutionID,
			"ticketId":        result.TicketID,
		},
	})
}

// InspectWebhookPayment answers connectivity tests. It reads link and
// flow state without touching counters or the audit trail.
func (s *Server) InspectWebhookPayment(c *gin.Context) {
	result, err := s.webhooksvc.Inspect(c.Request.Context(), c.Param("hash"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Webhook endpoint is working",
		"webhook": result,
	})
}
