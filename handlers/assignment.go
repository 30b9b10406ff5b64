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

func getAssignment(db *sql.DB, id int) (*models.Assignment, error) {
	var assignment models.Assignment
	err := db.QueryRow(
		"SELECT id, subject_id, title, description, due_date, created_at FROM assignments WHERE id = ?", id,
	).Scan(&assignment.ID, &assignment.SubjectID, &assignment.Title,
		&assignment.Description, &assignment.DueDate, &assignment.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// ListAssignmentsHandler returns all assignments
func ListAssignmentsHandler(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)

	rows, err := db.Query("SELECT id, subject_id, title, description, due_date, created_at FROM assignments")
	if err != nil {
		httpx.DBError(c, "querying assignments", err)
		return
	}
	defer rows.Close()

	assignments := []models.Assignment{}
	for rows.Next() {
		var assignment models.Assignment
		if err := rows.Scan(&assignment.ID, &assignment.SubjectID, &assignment.Title,
			&assignment.Description, &assignment.DueDate, &assignment.CreatedAt); err != nil {
			httpx.DBError(c, "scanning assignment", err)
			return
		}
		assignments = append(assignments, assignment)
	}

	c.JSON(http.StatusOK, assignments)
}

// CreateAssignmentHandler creates a new assignment under a subject
func CreateAssignmentHandler(c *gin.Context) {
	var req models.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BindError(c, err)
		return
	}

	dueDate, err := utils.ParseDate(req.DueDate)
	if err != nil {
		httpx.FieldError(c, "due_date", "The due_date is not a valid date.")
		return
	}

	db := c.MustGet("db").(*sql.DB)
	subjectExists, err := rowExists(db, "subjects", req.SubjectID)
	if err != nil {
		httpx.DBError(c, "checking subject", err)
		return
	}
	if !subjectExists {
		httpx.FieldError(c, "subject_id", "The selected subject_id is invalid.")
		return
	}

	result, err := db.Exec(
		"INSERT INTO assignments (subject_id, title, description, due_date) VALUES (?, ?, ?, ?)",
		req.SubjectID, req.Title, req.Description, dueDate,
	)
	if err != nil {
		httpx.DBError(c, "inserting assignment", err)
		return
	}
	assignmentID, _ := result.LastInsertId()

	assignment, err := getAssignment(db, int(assignmentID))
	if err != nil {
		httpx.DBError(c, "retrieving assignment", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Assignment created successfully",
		"assignment": assignment,
	})
}

// GetAssignmentHandler returns one assignment by id
func GetAssignmentHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.NotFound(c, "Assignment")
		return
	}

	db := c.MustGet("db").(*sql.DB)
	assignment, err := getAssignment(db, id)
	if err != nil {
		if err == sql.ErrNoRows {
			httpx.NotFound(c, "Assignment")
		} else {
			httpx.DBError(c, "retrieving assignment", err)
		}
		return
	}

	c.JSON(http.StatusOK, assignment)
}

// UpdateAssignmentHandler applies the provided fields to an assignment
func UpdateAssignmentHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.NotFound(c, "Assignment")
		return
	}

	db := c.MustGet("db").(*sql.DB)
	exists, err := rowExists(db, "assignments", id)
	if err != nil {
		httpx.DBError(c, "checking assignment", err)
		return
	}
	if !exists {
		httpx.NotFound(c, "Assignment")
		return
	}

	var req models.UpdateAssignmentRequest
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
	if req.DueDate != nil {
		dueDate, err := utils.ParseDate(*req.DueDate)
		if err != nil {
			httpx.FieldError(c, "due_date", "The due_date is not a valid date.")
			return
		}
		sets = append(sets, "due_date = ?")
		args = append(args, dueDate)
	}
	if req.SubjectID != nil {
		subjectExists, err := rowExists(db, "subjects", *req.SubjectID)
		if err != nil {
			httpx.DBError(c, "checking subject", err)
			return
		}
		if !subjectExists {
			httpx.FieldError(c, "subject_id", "The selected subject_id is invalid.")
			return
		}
		sets = append(sets, "subject_id = ?")
		args = append(args, *req.SubjectID)
	}

	if len(sets) > 0 {
		args = append(args, id)
		if _, err := db.Exec(
			"UPDATE assignments SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...,
		); err != nil {
			httpx.DBError(c, "updating assignment", err)
			return
		}
	}

	assignment, err := getAssignment(db, id)
	if err != nil {
		httpx.DBError(c, "retrieving assignment", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Assignment updated successfully",
		"assignment": assignment,
	})
}

// DeleteAssignmentHandler deletes an assignment
func DeleteAssignmentHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.NotFound(c, "Assignment")
		return
	}

	db := c.MustGet("db").(*sql.DB)
	exists, err := rowExists(db, "assignments", id)
	if err != nil {
		httpx.DBError(c, "checking assignment", err)
		return
	}
	if !exists {
		httpx.NotFound(c, "Assignment")
		return
	}

	if _, err := db.Exec("DELETE FROM assignments WHERE id = ?", id); err != nil {
		httpx.DBError(c, "deleting assignment", err)
		return
	}

	httpx.Message(c, http.StatusOK, "Assignment deleted successfully")
}
