package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/JioBaba369/Go2Culture-sub001/models"
)

func TestNextTimestampAdvancesNormally(t *testing.T) {
	now := time.Now().UTC()
	last := &models.LastMessage{Timestamp: now.Add(-time.Minute)}
	assert.Equal(t, now, nextTimestamp(now, last))
}

func TestNextTimestampClampsClockRegression(t *testing.T) {
	now := time.Now().UTC()
	last := &models.LastMessage{Timestamp: now.Add(2 * time.Second)}
	// Wall clock stepped backwards: the new message may not precede the last.
	assert.Equal(t, last.Timestamp, nextTimestamp(now, last))
}

func TestNextTimestampFirstMessage(t *testing.T) {
	now := time.Now().UTC()
	assert.Equal(t, now, nextTimestamp(now, nil))
}

// sendRequest drives Send through a test context. The controller carries no
// store handles, so reaching any collection would panic: a clean 400 proves
// the rejection happened before any write was attempted.
func sendRequest(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mc := &MessageController{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "conversation_id", Value: "guest1_host1"}}
	c.Set("user_id", "guest1")
	c.Request = httptest.NewRequest(http.MethodPost, "/conversations/guest1_host1/messages", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mc.Send()(c)
	return w
}

func TestSendRejectsEmptyMessage(t *testing.T) {
	w := sendRequest(t, `{"text":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "must not be empty")
}

func TestSendRejectsWhitespaceOnlyMessage(t *testing.T) {
	w := sendRequest(t, `{"text":"   \t \n  "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "must not be empty")
}

func TestSendRejectsMalformedBody(t *testing.T) {
	w := sendRequest(t, `{"text": 42`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
