package handlers

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"aulanet/httpx"
	"aulanet/models"
	"aulanet/utils"
)

func getSubmission(db *sql.DB, id int) (*models.Submission, error) {
	var submission models.Submission
	err := db.QueryRow(
		"SELECT id, user_id, assignment_id, submitted_at, grade, created_at FROM submissions WHERE id = ?", id,
	).Scan(&submission.ID, &submission.UserID, &submission.AssignmentID,
		&submission.SubmittedAt, &submission.Grade, &submission.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// ListSubmissionsHandler returns all submissions
func ListSubmissionsHandler(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)

	rows, err := db.Query("SELECT id, user_id, assignment_id, submitted_at, grade, created_at FROM submissions")
	if err != nil {
		httpx.DBError(c, "querying submissions", err)
		return
	}
	defer rows.Close()

	submissions := []models.Submission{}
	for rows.Next() {
		var submission models.Submission
		if err := rows.Scan(&submission.ID, &submission.UserID, &submission.AssignmentID,
			&submission.SubmittedAt, &submission.Grade, &submission.CreatedAt); err != nil {
			httpx.DBError(c, "scanning submission", err)
			return
		}
		submissions = append(submissions, submission)
	}

	c.JSON(http.StatusOK, submissions)
}

// CreateSubmissionHandler records a submission in the ungraded state.
// A user may submit more than once for the same assignment.
func CreateSubmissionHandler(c *gin.Context) {
	var req models.CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BindError(c, err)
		return
	}
	if req.Grade != nil {
		httpx.FieldError(c, "grade", "The grade may not be set when recording a submission.")
		return
	}

	var submittedAt interface{}
	if req.SubmittedAt != nil {
		parsed, err := utils.ParseDate(*req.SubmittedAt)
		if err != nil {
			httpx.FieldError(c, "submitted_at", "The submitted_at is not a valid date.")
			return
		}
		submittedAt = parsed
	}

	db := c.MustGet("db").(*sql.DB)
	userExists, err := rowExists(db, "users", req.UserID)
	if err != nil {
		httpx.DBError(c, "checking user", err)
		return
	}
	if !userExists {
		httpx.FieldError(c, "user_id", "The selected user_id is invalid.")
		return
	}
	assignmentExists, err := rowExists(db, "assignments", req.AssignmentID)
	if err != nil {
		httpx.DBError(c, "checking assignment", err)
		return
	}
	if !assignmentExists {
		httpx.FieldError(c, "assignment_id", "The selected assignment_id is invalid.")
		return
	}

	result, err := db.Exec(
		"INSERT INTO submissions (user_id, assignment_id, submitted_at, grade) VALUES (?, ?, ?, NULL)",
		req.UserID, req.AssignmentID, submittedAt,
	)
	if err != nil {
		httpx.DBError(c, "inserting submission", err)
		return
	}
	submissionID, _ := result.LastInsertId()

	submission, err := getSubmission(db, int(submissionID))
	if err != nil {
		httpx.DBError(c, "retrieving submission", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Submission recorded successfully",
		"submission": submission,
	})
}

// GetSubmissionHandler returns one submission by id
func GetSubmissionHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.NotFound(c, "Submission")
		return
	}

	db := c.MustGet("db").(*sql.DB)
	submission, err := getSubmission(db, id)
	if err != nil {
		if err == sql.ErrNoRows {
			httpx.NotFound(c, "Submission")
		} else {
			httpx.DBError(c, "retrieving submission", err)
		}
		return
	}

	c.JSON(http.StatusOK, submission)
}

// GradeSubmissionHandler sets the grade and nothing else. Any other
// field in the body is ignored; the update touches the grade column only.
func GradeSubmissionHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.NotFound(c, "Submission")
		return
	}

	db := c.MustGet("db").(*sql.DB)
	exists, err := rowExists(db, "submissions", id)
	if err != nil {
		httpx.DBError(c, "checking submission", err)
		return
	}
	if !exists {
		httpx.NotFound(c, "Submission")
		return
	}

	var req models.GradeSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BindError(c, err)
		return
	}

	if _, err := db.Exec("UPDATE submissions SET grade = ? WHERE id = ?", *req.Grade, id); err != nil {
		httpx.DBError(c, "updating grade", err)
		return
	}

	submission, err := getSubmission(db, id)
	if err != nil {
		httpx.DBError(c, "retrieving submission", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Grade updated successfully",
		"submission": submission,
	})
}
