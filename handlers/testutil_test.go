package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// newTestRouter wires the entity routes against a sqlmock database with a
// fake authenticated session (user 1). Queries are matched by exact string.
func newTestRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("db", db)
		c.Set("userID", 1)
		c.Set("tokenID", "test-token")
		c.Next()
	})

	r.POST("/api/register", RegisterHandler)
	r.GET("/api/me", MeHandler)
	r.POST("/api/logout", LogoutHandler)

	r.GET("/api/courses", ListCoursesHandler)
	r.POST("/api/courses", CreateCourseHandler)
	r.GET("/api/courses/:id", GetCourseHandler)
	r.PUT("/api/courses/:id", UpdateCourseHandler)
	r.DELETE("/api/courses/:id", DeleteCourseHandler)
	r.POST("/api/courses/:id/enroll", EnrollCourseHandler)

	r.GET("/api/subjects", ListSubjectsHandler)
	r.POST("/api/subjects", CreateSubjectHandler)
	r.GET("/api/subjects/:id", GetSubjectHandler)
	r.PUT("/api/subjects/:id", UpdateSubjectHandler)
	r.DELETE("/api/subjects/:id", DeleteSubjectHandler)

	r.GET("/api/assignments", ListAssignmentsHandler)
	r.POST("/api/assignments", CreateAssignmentHandler)
	r.GET("/api/assignments/:id", GetAssignmentHandler)
	r.PUT("/api/assignments/:id", UpdateAssignmentHandler)
	r.DELETE("/api/assignments/:id", DeleteAssignmentHandler)

	r.GET("/api/submissions", ListSubmissionsHandler)
	r.POST("/api/submissions", CreateSubmissionHandler)
	r.GET("/api/submissions/:id", GetSubmissionHandler)
	r.PUT("/api/submissions/:id", GradeSubmissionHandler)

	r.GET("/api/messages", ListMessagesHandler)
	r.POST("/api/messages", SendMessageHandler)
	r.PUT("/api/messages/:id/read", MarkMessageReadHandler)

	r.GET("/api/events", ListEventsHandler)
	r.POST("/api/events", CreateEventHandler)
	r.GET("/api/events/:id", GetEventHandler)
	r.PUT("/api/events/:id", UpdateEventHandler)
	r.DELETE("/api/events/:id", DeleteEventHandler)

	return r, mock
}

func doRequest(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func expectExists(mock sqlmock.Sqlmock, table string, id int, exists bool) {
	mock.ExpectQuery("SELECT EXISTS(SELECT 1 FROM " + table + " WHERE id = ?)").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(exists))
}

func errNoRows() error {
	return sql.ErrNoRows
}

func requireNoUnmetExpectations(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	require.NoError(t, mock.ExpectationsWereMet())
}
