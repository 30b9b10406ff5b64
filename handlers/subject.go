package handlers

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"aulanet/httpx"
	"aulanet/models"
)

func getSubject(db *sql.DB, id int) (*models.Subject, error) {
	var subject models.Subject
	err := db.QueryRow(
		"SELECT id, name, course_id, teacher_id FROM subjects WHERE id = ?", id,
	).Scan(&subject.ID, &subject.Name, &subject.CourseID, &subject.TeacherID)
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

// ListSubjectsHandler returns all subjects
func ListSubjectsHandler(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)

	rows, err := db.Query("SELECT id, name, course_id, teacher_id FROM subjects")
	if err != nil {
		httpx.DBError(c, "querying subjects", err)
		return
	}
	defer rows.Close()

	subjects := []models.Subject{}
	for rows.Next() {
		var subject models.Subject
		if err := rows.Scan(&subject.ID, &subject.Name, &subject.CourseID, &subject.TeacherID); err != nil {
			httpx.DBError(c, "scanning subject", err)
			return
		}
		subjects = append(subjects, subject)
	}

	c.JSON(http.StatusOK, subjects)
}

// CreateSubjectHandler creates a new subject under a course
func CreateSubjectHandler(c *gin.Context) {
	var req models.CreateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BindError(c, err)
		return
	}

	db := c.MustGet("db").(*sql.DB)
	courseExists, err := rowExists(db, "courses", req.CourseID)
	if err != nil {
		httpx.DBError(c, "checking course", err)
		return
	}
	if !courseExists {
		httpx.FieldError(c, "course_id", "The selected course_id is invalid.")
		return
	}
	if req.TeacherID != nil {
		teacherExists, err := rowExists(db, "users", *req.TeacherID)
		if err != nil {
			httpx.DBError(c, "checking teacher", err)
			return
		}
		if !teacherExists {
			httpx.FieldError(c, "teacher_id", "The selected teacher_id is invalid.")
			return
		}
	}

	result, err := db.Exec(
		"INSERT INTO subjects (name, course_id, teacher_id) VALUES (?, ?, ?)",
		req.Name, req.CourseID, req.TeacherID,
	)
	if err != nil {
		httpx.DBError(c, "inserting subject", err)
		return
	}
	subjectID, _ := result.LastInsertId()

	subject, err := getSubject(db, int(subjectID))
	if err != nil {
		httpx.DBError(c, "retrieving subject", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Subject created successfully",
		"subject": subject,
	})
}

// GetSubjectHandler returns one subject by id
func GetSubjectHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.NotFound(c, "Subject")
		return
	}

	db := c.MustGet("db").(*sql.DB)
	subject, err := getSubject(db, id)
	if err != nil {
		if err == sql.ErrNoRows {
			httpx.NotFound(c, "Subject")
		} else {
			httpx.DBError(c, "retrieving subject", err)
		}
		return
	}

	c.JSON(http.StatusOK, subject)
}

// UpdateSubjectHandler applies the provided fields to a subject
func UpdateSubjectHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.NotFound(c, "Subject")
		return
	}

	db := c.MustGet("db").(*sql.DB)
	exists, err := rowExists(db, "subjects", id)
	if err != nil {
		httpx.DBError(c, "checking subject", err)
		return
	}
	if !exists {
		httpx.NotFound(c, "Subject")
		return
	}

	var req models.UpdateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BindError(c, err)
		return
	}

	sets := []string{}
	args := []interface{}{}
	if req.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *req.Name)
	}
	if req.CourseID != nil {
		courseExists, err := rowExists(db, "courses", *req.CourseID)
		if err != nil {
			httpx.DBError(c, "checking course", err)
			return
		}
		if !courseExists {
			httpx.FieldError(c, "course_id", "The selected course_id is invalid.")
			return
		}
		sets = append(sets, "course_id = ?")
		args = append(args, *req.CourseID)
	}
	if req.TeacherID != nil {
		teacherExists, err := rowExists(db, "users", *req.TeacherID)
		if err != nil {
			httpx.DBError(c, "checking teacher", err)
			return
		}
		if !teacherExists {
			httpx.FieldError(c, "teacher_id", "The selected teacher_id is invalid.")
			return
		}
		sets = append(sets, "teacher_id = ?")
		args = append(args, *req.TeacherID)
	}

	if len(sets) > 0 {
		args = append(args, id)
		if _, err := db.Exec(
			"UPDATE subjects SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...,
		); err != nil {
			httpx.DBError(c, "updating subject", err)
			return
		}
	}

	subject, err := getSubject(db, id)
	if err != nil {
		httpx.DBError(c, "retrieving subject", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Subject updated successfully",
		"subject": subject,
	})
}

// DeleteSubjectHandler deletes a subject. Its assignments are untouched.
func DeleteSubjectHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.NotFound(c, "Subject")
		return
	}

	db := c.MustGet("db").(*sql.DB)
	exists, err := rowExists(db, "subjects", id)
	if err != nil {
		httpx.DBError(c, "checking subject", err)
		return
	}
	if !exists {
		httpx.NotFound(c, "Subject")
		return
	}

	if _, err := db.Exec("DELETE FROM subjects WHERE id = ?", id); err != nil {
		httpx.DBError(c, "deleting subject", err)
		return
	}

	httpx.Message(c, http.StatusOK, "Subject deleted successfully")
}
