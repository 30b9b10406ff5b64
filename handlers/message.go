package handlers

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"aulanet/httpx"
	"aulanet/models"
)

func getMessage(db *sql.DB, id int) (*models.Message, error) {
	var message models.Message
	err := db.QueryRow(
		"SELECT id, sender_id, receiver_id, content, is_read, created_at FROM messages WHERE id = ?", id,
	).Scan(&message.ID, &message.SenderID, &message.ReceiverID,
		&message.Content, &message.IsRead, &message.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// ListMessagesHandler returns all messages
func ListMessagesHandler(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)

	rows, err := db.Query("SELECT id, sender_id, receiver_id, content, is_read, created_at FROM messages")
	if err != nil {
		httpx.DBError(c, "querying messages", err)
		return
	}
	defer rows.Close()

	messages := []models.Message{}
	for rows.Next() {
		var message models.Message
		if err := rows.Scan(&message.ID, &message.SenderID, &message.ReceiverID,
			&message.Content, &message.IsRead, &message.CreatedAt); err != nil {
			httpx.DBError(c, "scanning message", err)
			return
		}
		messages = append(messages, message)
	}

	c.JSON(http.StatusOK, messages)
}

// SendMessageHandler creates a message from the authenticated user.
// New messages always start unread.
func SendMessageHandler(c *gin.Context) {
	senderID := c.MustGet("userID").(int)

	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BindError(c, err)
		return
	}

	db := c.MustGet("db").(*sql.DB)
	receiverExists, err := rowExists(db, "users", req.ReceiverID)
	if err != nil {
		httpx.DBError(c, "checking receiver", err)
		return
	}
	if !receiverExists {
		httpx.FieldError(c, "receiver_id", "The selected receiver_id is invalid.")
		return
	}

	result, err := db.Exec(
		"INSERT INTO messages (sender_id, receiver_id, content, is_read) VALUES (?, ?, ?, FALSE)",
		senderID, req.ReceiverID, req.Content,
	)
	if err != nil {
		httpx.DBError(c, "inserting message", err)
		return
	}
	messageID, _ := result.LastInsertId()

	message, err := getMessage(db, int(messageID))
	if err != nil {
		httpx.DBError(c, "retrieving message", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Message sent successfully",
		"data":    message,
	})
}

// MarkMessageReadHandler flips the read flag, the only mutable field
func MarkMessageReadHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.NotFound(c, "Message")
		return
	}

	db := c.MustGet("db").(*sql.DB)
	exists, err := rowExists(db, "messages", id)
	if err != nil {
		httpx.DBError(c, "checking message", err)
		return
	}
	if !exists {
		httpx.NotFound(c, "Message")
		return
	}

	if _, err := db.Exec("UPDATE messages SET is_read = TRUE WHERE id = ?", id); err != nil {
		httpx.DBError(c, "updating message", err)
		return
	}

	message, err := getMessage(db, id)
	if err != nil {
		httpx.DBError(c, "retrieving message", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Message marked as read",
		"data":    message,
	})
}
