package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const selectMessageSQL = "SELECT id, sender_id, receiver_id, content, is_read, created_at FROM messages WHERE id = ?"

func TestSendMessage(t *testing.T) {
	r, mock := newTestRouter(t)
	now := time.Now()

	expectExists(mock, "users", 3, true)
	// sender_id comes from the session (user 1), never from the body
	mock.ExpectExec("INSERT INTO messages (sender_id, receiver_id, content, is_read) VALUES (?, ?, ?, FALSE)").
		WithArgs(1, 3, "hola").
		WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectQuery(selectMessageSQL).
		WithArgs(12).
		WillReturnRows(sqlmock.NewRows([]string{"id", "sender_id", "receiver_id", "content", "is_read", "created_at"}).
			AddRow(12, 1, 3, "hola", false, now))

	rec := doRequest(t, r, http.MethodPost, "/api/messages", map[string]interface{}{
		"receiver_id": 3,
		"content":     "hola",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Message sent successfully", body["message"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["sender_id"])
	assert.Equal(t, false, data["is_read"])
	requireNoUnmetExpectations(t, mock)
}

func TestSendMessageUnknownReceiver(t *testing.T) {
	r, mock := newTestRouter(t)

	expectExists(mock, "users", 42, false)

	rec := doRequest(t, r, http.MethodPost, "/api/messages", map[string]interface{}{
		"receiver_id": 42,
		"content":     "hola",
	})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeBody(t, rec)
	errors := body["errors"].(map[string]interface{})
	assert.Contains(t, errors, "receiver_id")
	requireNoUnmetExpectations(t, mock)
}

func TestSendMessageMissingContent(t *testing.T) {
	r, mock := newTestRouter(t)

	rec := doRequest(t, r, http.MethodPost, "/api/messages", map[string]interface{}{
		"receiver_id": 3,
	})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeBody(t, rec)
	errors := body["errors"].(map[string]interface{})
	assert.Contains(t, errors, "content")
	requireNoUnmetExpectations(t, mock)
}

func TestListMessagesReturnsAll(t *testing.T) {
	r, mock := newTestRouter(t)
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "sender_id", "receiver_id", "content", "is_read", "created_at"}).
		AddRow(1, 2, 3, "hi", false, now).
		AddRow(2, 3, 2, "hey", true, now)
	mock.ExpectQuery("SELECT id, sender_id, receiver_id, content, is_read, created_at FROM messages").
		WillReturnRows(rows)

	rec := doRequest(t, r, http.MethodGet, "/api/messages", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var messages []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &messages))
	assert.Len(t, messages, 2)
	requireNoUnmetExpectations(t, mock)
}

func TestMarkMessageRead(t *testing.T) {
	r, mock := newTestRouter(t)
	now := time.Now()

	expectExists(mock, "messages", 12, true)
	mock.ExpectExec("UPDATE messages SET is_read = TRUE WHERE id = ?").
		WithArgs(12).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(selectMessageSQL).
		WithArgs(12).
		WillReturnRows(sqlmock.NewRows([]string{"id", "sender_id", "receiver_id", "content", "is_read", "created_at"}).
			AddRow(12, 1, 3, "hola", true, now))

	rec := doRequest(t, r, http.MethodPut, "/api/messages/12/read", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, true, data["is_read"])
	requireNoUnmetExpectations(t, mock)
}

func TestMarkMessageReadNotFound(t *testing.T) {
	r, mock := newTestRouter(t)

	expectExists(mock, "messages", 99, false)

	rec := doRequest(t, r, http.MethodPut, "/api/messages/99/read", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Message not found", body["message"])
	requireNoUnmetExpectations(t, mock)
}
