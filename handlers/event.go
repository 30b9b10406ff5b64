package handlers

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"aulanet/httpx"
	"aulanet/models"
	"aulanet/utils"
)

// Calendar events are the one user-scoped entity: every query filters by
// the session user, so another user's event ids behave as not found.

func getEvent(db *sql.DB, id, userID int) (*models.CalendarEvent, error) {
	var event models.CalendarEvent
	err := db.QueryRow(
		"SELECT id, user_id, title, description, starts_at, ends_at FROM calendar_events WHERE id = ? AND user_id = ?",
		id, userID,
	).Scan(&event.ID, &event.UserID, &event.Title, &event.Description, &event.StartsAt, &event.EndsAt)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// ListEventsHandler returns the authenticated user's calendar events
func ListEventsHandler(c *gin.Context) {
	userID := c.MustGet("userID").(int)
	db := c.MustGet("db").(*sql.DB)

	rows, err := db.Query(
		"SELECT id, user_id, title, description, starts_at, ends_at FROM calendar_events WHERE user_id = ?",
		userID,
	)
	if err != nil {
		httpx.DBError(c, "querying events", err)
		return
	}
	defer rows.Close()

	events := []models.CalendarEvent{}
	for rows.Next() {
		var event models.CalendarEvent
		if err := rows.Scan(&event.ID, &event.UserID, &event.Title,
			&event.Description, &event.StartsAt, &event.EndsAt); err != nil {
			httpx.DBError(c, "scanning event", err)
			return
		}
		events = append(events, event)
	}

	c.JSON(http.StatusOK, events)
}

// CreateEventHandler creates a calendar event for the authenticated user
func CreateEventHandler(c *gin.Context) {
	userID := c.MustGet("userID").(int)

	var req models.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BindError(c, err)
		return
	}

	startsAt, err := utils.ParseDate(req.StartsAt)
	if err != nil {
		httpx.FieldError(c, "starts_at", "The starts_at is not a valid date.")
		return
	}
	var endsAt interface{}
	if req.EndsAt != nil {
		parsed, err := utils.ParseDate(*req.EndsAt)
		if err != nil {
			httpx.FieldError(c, "ends_at", "The ends_at is not a valid date.")
			return
		}
		endsAt = parsed
	}

	db := c.MustGet("db").(*sql.DB)
	result, err := db.Exec(
		"INSERT INTO calendar_events (user_id, title, description, starts_at, ends_at) VALUES (?, ?, ?, ?, ?)",
		userID, req.Title, req.Description, startsAt, endsAt,
	)
	if err != nil {
		httpx.DBError(c, "inserting event", err)
		return
	}
	eventID, _ := result.LastInsertId()

	event, err := getEvent(db, int(eventID), userID)
	if err != nil {
		httpx.DBError(c, "retrieving event", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Event created successfully",
		"event":   event,
	})
}

// GetEventHandler returns one of the user's events by id
func GetEventHandler(c *gin.Context) {
	userID := c.MustGet("userID").(int)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.NotFound(c, "Event")
		return
	}

	db := c.MustGet("db").(*sql.DB)
	event, err := getEvent(db, id, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			httpx.NotFound(c, "Event")
		} else {
			httpx.DBError(c, "retrieving event", err)
		}
		return
	}

	c.JSON(http.StatusOK, event)
}

// UpdateEventHandler applies the provided fields to one of the user's events
func UpdateEventHandler(c *gin.Context) {
	userID := c.MustGet("userID").(int)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.NotFound(c, "Event")
		return
	}

	db := c.MustGet("db").(*sql.DB)
	if _, err := getEvent(db, id, userID); err != nil {
		if err == sql.ErrNoRows {
			httpx.NotFound(c, "Event")
		} else {
			httpx.DBError(c, "retrieving event", err)
		}
		return
	}

	var req models.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BindError(c, err)
		return
	}

	sets := []string{}
	args := []interface{}{}
	if req.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *req.Title)
	}
	if req.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *req.Description)
	}
	if req.StartsAt != nil {
		startsAt, err := utils.ParseDate(*req.StartsAt)
		if err != nil {
			httpx.FieldError(c, "starts_at", "The starts_at is not a valid date.")
			return
		}
		sets = append(sets, "starts_at = ?")
		args = append(args, startsAt)
	}
	if req.EndsAt != nil {
		endsAt, err := utils.ParseDate(*req.EndsAt)
		if err != nil {
			httpx.FieldError(c, "ends_at", "The ends_at is not a valid date.")
			return
		}
		sets = append(sets, "ends_at = ?")
		args = append(args, endsAt)
	}

	if len(sets) > 0 {
		args = append(args, id, userID)
		if _, err := db.Exec(
			"UPDATE calendar_events SET "+strings.Join(sets, ", ")+" WHERE id = ? AND user_id = ?", args...,
		); err != nil {
			httpx.DBError(c, "updating event", err)
			return
		}
	}

	event, err := getEvent(db, id, userID)
	if err != nil {
		httpx.DBError(c, "retrieving event", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Event updated successfully",
		"event":   event,
	})
}

// DeleteEventHandler deletes one of the user's events
func DeleteEventHandler(c *gin.Context) {
	userID := c.MustGet("userID").(int)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.NotFound(c, "Event")
		return
	}

	db := c.MustGet("db").(*sql.DB)
	if _, err := getEvent(db, id, userID); err != nil {
		if err == sql.ErrNoRows {
			httpx.NotFound(c, "Event")
		} else {
			httpx.DBError(c, "retrieving event", err)
		}
		return
	}

	if _, err := db.Exec("DELETE FROM calendar_events WHERE id = ? AND user_id = ?", id, userID); err != nil {
		httpx.DBError(c, "deleting event", err)
		return
	}

	httpx.Message(c, http.StatusOK, "Event deleted successfully")
}
