package chat

import (
	"net/http"
	"strings"
	"time"

	"codeberg.org/techcorp/supportbot/internal/errors"
	"codeberg.org/techcorp/supportbot/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler godoc
// @Summary Send a customer message
// @Description Answers a customer message from the knowledge base. A conversation_id is generated when omitted.
// @Tags chat
// @Accept json
// @Produce json
// @Param request body Request true "Customer message"
// @Success 200 {object} Response
// @Failure 400 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/chat [post]
func Handler(responder Responder, status StatusReporter) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req Request
		if err := c.ShouldBindJSON(&req); err != nil || req.Message == nil {
			errors.BadRequest(c, "Message is required", err)
			return
		}

		message := strings.TrimSpace(*req.Message)
		if message == "" {
			errors.BadRequest(c, "Message cannot be empty", nil)
			return
		}

		conversationID := req.ConversationID
		if conversationID == "" {
			conversationID = uuid.NewString()
		}

		ctx := c.Request.Context()
		indexStatus := status.IndexStatus(ctx)

		logger.Debug("processing chat message",
			"conversation_id", conversationID,
			"vector_available", indexStatus.VectorAvailable,
			"documents", indexStatus.DocumentsCount,
		)

		result, err := responder.ProcessMessage(ctx, message, conversationID)
		if err != nil {
			errors.InternalError(c, internalErrorMessage, err)
			return
		}

		c.JSON(http.StatusOK, Response{
			MessageID:          uuid.NewString(),
			ConversationID:     conversationID,
			Response:           result.Response,
			Confidence:         result.Confidence,
			Sources:            result.Sources,
			ContextUsed:        result.ContextUsed,
			Timestamp:          time.Now().UTC(),
			SuggestedResponses: result.SuggestedResponses,
			PDFAvailable:       result.PDFAvailable,
			Debug: Debug{
				IndexStatus:      indexStatus,
				MessageProcessed: message,
			},
		})
	}
}
