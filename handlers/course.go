package handlers

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"aulanet/httpx"
	"aulanet/models"
)

func getCourse(db *sql.DB, id int) (*models.Course, error) {
	var course models.Course
	err := db.QueryRow(
		"SELECT id, name, created_at FROM courses WHERE id = ?", id,
	).Scan(&course.ID, &course.Name, &course.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// ListCoursesHandler returns all courses
func ListCoursesHandler(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)

	rows, err := db.Query("SELECT id, name, created_at FROM courses")
	if err != nil {
		httpx.DBError(c, "querying courses", err)
		return
	}
	defer rows.Close()

	courses := []models.Course{}
	for rows.Next() {
		var course models.Course
		if err := rows.Scan(&course.ID, &course.Name, &course.CreatedAt); err != nil {
			httpx.DBError(c, "scanning course", err)
			return
		}
		courses = append(courses, course)
	}

	c.JSON(http.StatusOK, courses)
}

// CreateCourseHandler creates a new course
func CreateCourseHandler(c *gin.Context) {
	var req models.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BindError(c, err)
		return
	}

	db := c.MustGet("db").(*sql.DB)
	result, err := db.Exec("INSERT INTO courses (name) VALUES (?)", req.Name)
	if err != nil {
		httpx.DBError(c, "inserting course", err)
		return
	}
	courseID, _ := result.LastInsertId()

	course, err := getCourse(db, int(courseID))
	if err != nil {
		httpx.DBError(c, "retrieving course", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Course created successfully",
		"course":  course,
	})
}

// GetCourseHandler returns one course by id
func GetCourseHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.NotFound(c, "Course")
		return
	}

	db := c.MustGet("db").(*sql.DB)
	course, err := getCourse(db, id)
	if err != nil {
		if err == sql.ErrNoRows {
			httpx.NotFound(c, "Course")
		} else {
			httpx.DBError(c, "retrieving course", err)
		}
		return
	}

	c.JSON(http.StatusOK, course)
}

// UpdateCourseHandler applies the provided fields to a course
func UpdateCourseHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.NotFound(c, "Course")
		return
	}

	db := c.MustGet("db").(*sql.DB)
	exists, err := rowExists(db, "courses", id)
	if err != nil {
		httpx.DBError(c, "checking course", err)
		return
	}
	if !exists {
		httpx.NotFound(c, "Course")
		return
	}

	var req models.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BindError(c, err)
		return
	}

	if req.Name != nil {
		if _, err := db.Exec("UPDATE courses SET name = ? WHERE id = ?", *req.Name, id); err != nil {
			httpx.DBError(c, "updating course", err)
			return
		}
	}

	course, err := getCourse(db, id)
	if err != nil {
		httpx.DBError(c, "retrieving course", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Course updated successfully",
		"course":  course,
	})
}

// DeleteCourseHandler deletes a course. Subjects keep their course_id;
// there is no cascade.
func DeleteCourseHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.NotFound(c, "Course")
		return
	}

	db := c.MustGet("db").(*sql.DB)
	exists, err := rowExists(db, "courses", id)
	if err != nil {
		httpx.DBError(c, "checking course", err)
		return
	}
	if !exists {
		httpx.NotFound(c, "Course")
		return
	}

	if _, err := db.Exec("DELETE FROM courses WHERE id = ?", id); err != nil {
		httpx.DBError(c, "deleting course", err)
		return
	}

	httpx.Message(c, http.StatusOK, "Course deleted successfully")
}

// EnrollCourseHandler adds a user to a course with a role
func EnrollCourseHandler(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httpx.NotFound(c, "Course")
		return
	}

	db := c.MustGet("db").(*sql.DB)
	exists, err := rowExists(db, "courses", id)
	if err != nil {
		httpx.DBError(c, "checking course", err)
		return
	}
	if !exists {
		httpx.NotFound(c, "Course")
		return
	}

	var req models.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.BindError(c, err)
		return
	}

	userExists, err := rowExists(db, "users", req.UserID)
	if err != nil {
		httpx.DBError(c, "checking user", err)
		return
	}
	if !userExists {
		httpx.FieldError(c, "user_id", "The selected user_id is invalid.")
		return
	}

	// Re-enrolling updates the role instead of failing on the pivot key.
	if _, err := db.Exec(
		"INSERT INTO course_user (course_id, user_id, role) VALUES (?, ?, ?) ON DUPLICATE KEY UPDATE role = VALUES(role)",
		id, req.UserID, req.Role,
	); err != nil {
		httpx.DBError(c, "enrolling user", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User enrolled successfully",
		"enrollment": models.Enrollment{
			CourseID: id,
			UserID:   req.UserID,
			Role:     req.Role,
		},
	})
}
