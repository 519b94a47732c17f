package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mkravtsov/salonbot/internal/model"
	"github.com/mkravtsov/salonbot/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubHandler struct {
	reply string
	from  string
	text  string
	name  string
}

func (s *stubHandler) HandleInbound(_ context.Context, from, text, profileName string) string {
	s.from, s.text, s.name = from, text, profileName
	return s.reply
}

type stubMessenger struct {
	to   string
	body string
	err  error
}

func (s *stubMessenger) Send(_ context.Context, to, body string) error {
	s.to, s.body = to, body
	return s.err
}

type stubAvailability struct {
	slots []string
	err   error
}

func (s *stubAvailability) AvailableSlots(context.Context, string) ([]string, error) {
	return s.slots, s.err
}

type stubHistory struct {
	appts []*model.Appointment
	err   error
}

func (s *stubHistory) Appointments(context.Context, string) ([]*model.Appointment, error) {
	return s.appts, s.err
}

type env struct {
	router       *gin.Engine
	handler      *stubHandler
	messenger    *stubMessenger
	availability *stubAvailability
	history      *stubHistory
	pingErr      error
}

func newEnv(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	e := &env{
		handler:      &stubHandler{reply: "Got it!"},
		messenger:    &stubMessenger{},
		availability: &stubAvailability{},
		history:      &stubHistory{},
	}
	ctrl := New(e.handler, e.messenger, e.availability, e.history,
		func(context.Context) error { return e.pingErr }, zap.NewNop())
	e.router = ctrl.Router()
	return e
}

func (e *env) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestWebhook_ProcessesAndReplies(t *testing.T) {
	e := newEnv(t)

	rec := e.do(postForm("/webhook", url.Values{
		"Body":        {"book a haircut"},
		"From":        {"whatsapp:+15550001"},
		"ProfileName": {"Alice"},
	}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "+15550001", e.handler.from)
	assert.Equal(t, "book a haircut", e.handler.text)
	assert.Equal(t, "Alice", e.handler.name)
	assert.Equal(t, "+15550001", e.messenger.to)
	assert.Equal(t, "Got it!", e.messenger.body)
}

func TestWebhook_MissingSender(t *testing.T) {
	e := newEnv(t)

	rec := e.do(postForm("/webhook", url.Values{"Body": {"hello"}}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, e.messenger.to)
}

func TestWebhook_SendFailureStillAcknowledges(t *testing.T) {
	e := newEnv(t)
	e.messenger.err = errors.New("carrier unreachable")

	rec := e.do(postForm("/webhook", url.Values{
		"Body": {"hi"},
		"From": {"whatsapp:+15550001"},
	}))

	// Twilio must not redeliver the message.
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestVoice_ReturnsTwiML(t *testing.T) {
	e := newEnv(t)

	rec := e.do(httptest.NewRequest(http.MethodPost, "/voice", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/xml")
	assert.Contains(t, rec.Body.String(), "<Say")
	assert.Contains(t, rec.Body.String(), "<Play")
}

func TestHealth(t *testing.T) {
	e := newEnv(t)

	rec := e.do(httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "connected", body["database"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestHealth_DatabaseDown(t *testing.T) {
	e := newEnv(t)
	e.pingErr = errors.New("dial tcp: connection refused")

	rec := e.do(httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body["status"])
	assert.Equal(t, "unreachable", body["database"])
}

func TestAPIAvailability(t *testing.T) {
	e := newEnv(t)
	e.availability.slots = []string{"09:00", "09:30"}

	rec := e.do(httptest.NewRequest(http.MethodGet, "/api/availability/2026-09-07", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Date  string   `json:"date"`
		Slots []string `json:"availableSlots"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2026-09-07", body.Date)
	assert.Equal(t, []string{"09:00", "09:30"}, body.Slots)
}

func TestAPIAvailability_InvalidDate(t *testing.T) {
	e := newEnv(t)
	e.availability.err = &service.InvalidSlotError{Reason: "we are closed on Sundays"}

	rec := e.do(httptest.NewRequest(http.MethodGet, "/api/availability/2026-09-06", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "closed on Sundays")
}

func TestAPIAvailability_EmptyIsJSONArray(t *testing.T) {
	e := newEnv(t)
	e.availability.slots = nil

	rec := e.do(httptest.NewRequest(http.MethodGet, "/api/availability/2026-09-07", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"availableSlots":[]`)
}

func TestAPIAppointments(t *testing.T) {
	e := newEnv(t)
	e.history.appts = []*model.Appointment{
		{ID: 2, ServiceName: "Haircut", Date: "2026-09-08", Time: "10:00", Status: model.AppointmentStatusConfirmed},
		{ID: 1, ServiceName: "Hair Coloring", Date: "2026-09-07", Time: "09:00", Status: model.AppointmentStatusCancelled},
	}

	rec := e.do(httptest.NewRequest(http.MethodGet, "/api/appointments/+15550001", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var appts []*model.Appointment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &appts))
	require.Len(t, appts, 2)
	assert.EqualValues(t, 2, appts[0].ID)
}

func TestAPIAppointments_UnknownPhoneIsEmptyArray(t *testing.T) {
	e := newEnv(t)

	rec := e.do(httptest.NewRequest(http.MethodGet, "/api/appointments/+15559999", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestAPIAppointments_StoreFailure(t *testing.T) {
	e := newEnv(t)
	e.history.err = errors.New("connection refused")

	rec := e.do(httptest.NewRequest(http.MethodGet, "/api/appointments/+15550001", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRequestIDHeader(t *testing.T) {
	e := newEnv(t)

	rec := e.do(httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}
