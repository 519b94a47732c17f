package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mkravtsov/salonbot/internal/model"
	"github.com/mkravtsov/salonbot/internal/service"
	"go.uber.org/zap"
)

// handleHealth reports process liveness and store connectivity.
func (c *Controller) handleHealth(gc *gin.Context) {
	database := "connected"
	status := http.StatusOK

	if err := c.ping(gc.Request.Context()); err != nil {
		c.logger.Warn("Health check: database unreachable", zap.Error(err))
		database = "unreachable"
		status = http.StatusServiceUnavailable
	}

	gc.JSON(status, gin.H{
		"status":    statusWord(status),
		"timestamp": time.Now().Format(time.RFC3339),
		"database":  database,
	})
}

func statusWord(status int) string {
	if status == http.StatusOK {
		return "healthy"
	}
	return "degraded"
}

// handleAppointments returns a customer's booking history, newest first.
func (c *Controller) handleAppointments(gc *gin.Context) {
	phone := gc.Param("phone")

	appts, err := c.history.Appointments(gc.Request.Context(), phone)
	if err != nil {
		c.logger.Error("Failed to fetch appointments", zap.String("phone", phone), zap.Error(err))
		gc.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch appointments"})
		return
	}

	if appts == nil {
		appts = []*model.Appointment{}
	}
	gc.JSON(http.StatusOK, appts)
}

// handleAvailability returns the free slots for a date.
func (c *Controller) handleAvailability(gc *gin.Context) {
	date := gc.Param("date")

	slots, err := c.availability.AvailableSlots(gc.Request.Context(), date)
	if err != nil {
		var invalid *service.InvalidSlotError
		if errors.As(err, &invalid) {
			gc.JSON(http.StatusBadRequest, gin.H{"error": invalid.Reason})
			return
		}
		c.logger.Error("Failed to check availability", zap.String("date", date), zap.Error(err))
		gc.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check availability"})
		return
	}

	if slots == nil {
		slots = []string{}
	}
	gc.JSON(http.StatusOK, gin.H{
		"date":           date,
		"availableSlots": slots,
	})
}
