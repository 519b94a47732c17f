package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/twilio/twilio-go/twiml"
	"go.uber.org/zap"
)

const holdMusicURL = "http://com.twilio.music.classical.s3.amazonaws.com/BusyStrings.mp3"

// handleVoice serves the TwiML for escalation calls: a greeting, then hold
// music until an agent picks up.
func (c *Controller) handleVoice(gc *gin.Context) {
	doc, err := twiml.Voice([]twiml.Element{
		&twiml.VoiceSay{
			Message:  "Hello! Thank you for contacting our salon. A human agent will be with you shortly to help with your appointment booking. Please hold the line.",
			Voice:    "alice",
			Language: "en-US",
		},
		&twiml.VoicePlay{
			Url:  holdMusicURL,
			Loop: "0",
		},
	})
	if err != nil {
		c.logger.Error("Failed to render voice response", zap.Error(err))
		gc.String(http.StatusInternalServerError, "Error")
		return
	}

	gc.Data(http.StatusOK, "text/xml", []byte(doc))
}
