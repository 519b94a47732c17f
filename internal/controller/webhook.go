package controller

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const sendTimeout = 10 * time.Second

// handleWebhook receives one inbound WhatsApp message from Twilio, runs the
// conversation and sends the reply back out. The webhook always acknowledges:
// an outbound send failure is logged, not surfaced to Twilio, so the message
// is never redelivered and handled twice.
func (c *Controller) handleWebhook(gc *gin.Context) {
	text := strings.TrimSpace(gc.PostForm("Body"))
	from := strings.TrimPrefix(gc.PostForm("From"), "whatsapp:")
	profileName := gc.PostForm("ProfileName")

	if from == "" {
		gc.String(http.StatusBadRequest, "Missing sender")
		return
	}

	c.logger.Info("Inbound message",
		zap.String("from", from),
		zap.Int("length", len(text)),
	)

	reply := c.handler.HandleInbound(gc.Request.Context(), from, text, profileName)

	sendCtx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if err := c.messenger.Send(sendCtx, from, reply); err != nil {
		c.logger.Error("Failed to send reply",
			zap.String("to", from),
			zap.Error(err),
		)
	}

	gc.String(http.StatusOK, "Message processed")
}
