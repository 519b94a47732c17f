// Package controller exposes the HTTP surface: the Twilio WhatsApp webhook,
// the escalation voice callback and the read-only query API.
package controller

import (
	"context"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mkravtsov/salonbot/internal/model"
	"github.com/mkravtsov/salonbot/internal/notify"
	"go.uber.org/zap"
)

// MessageHandler is the conversational entry point.
type MessageHandler interface {
	HandleInbound(ctx context.Context, from, text, profileName string) string
}

// AvailabilityReader answers the slot query endpoint.
type AvailabilityReader interface {
	AvailableSlots(ctx context.Context, date string) ([]string, error)
}

// HistoryReader answers the appointment history endpoint.
type HistoryReader interface {
	Appointments(ctx context.Context, phone string) ([]*model.Appointment, error)
}

type Controller struct {
	handler      MessageHandler
	messenger    notify.Messenger
	availability AvailabilityReader
	history      HistoryReader
	ping         func(ctx context.Context) error
	logger       *zap.Logger
}

func New(
	handler MessageHandler,
	messenger notify.Messenger,
	availability AvailabilityReader,
	history HistoryReader,
	ping func(ctx context.Context) error,
	logger *zap.Logger,
) *Controller {
	return &Controller{
		handler:      handler,
		messenger:    messenger,
		availability: availability,
		history:      history,
		ping:         ping,
		logger:       logger,
	}
}

// Router builds the gin engine with all routes and middleware registered.
func (c *Controller) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), c.requestLogger())

	r.POST("/webhook", c.handleWebhook)
	r.POST("/voice", c.handleVoice)
	r.GET("/health", c.handleHealth)

	api := r.Group("/api")
	api.Use(cors.Default())
	{
		api.GET("/appointments/:phone", c.handleAppointments)
		api.GET("/availability/:date", c.handleAvailability)
	}

	return r
}
