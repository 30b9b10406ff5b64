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

const (
	selectSubmissionSQL = "SELECT id, user_id, assignment_id, submitted_at, grade, created_at FROM submissions WHERE id = ?"
	insertSubmissionSQL = "INSERT INTO submissions (user_id, assignment_id, submitted_at, grade) VALUES (?, ?, ?, NULL)"
	updateGradeSQL      = "UPDATE submissions SET grade = ? WHERE id = ?"
)

func submissionRow(id, userID, assignmentID int, grade interface{}, createdAt time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "assignment_id", "submitted_at", "grade", "created_at"}).
		AddRow(id, userID, assignmentID, nil, grade, createdAt)
}

func TestCreateSubmissionGradeStartsNull(t *testing.T) {
	r, mock := newTestRouter(t)
	now := time.Now()

	expectExists(mock, "users", 3, true)
	expectExists(mock, "assignments", 5, true)
	mock.ExpectExec(insertSubmissionSQL).
		WithArgs(3, 5, nil).
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectQuery(selectSubmissionSQL).
		WithArgs(9).
		WillReturnRows(submissionRow(9, 3, 5, nil, now))

	rec := doRequest(t, r, http.MethodPost, "/api/submissions", map[string]interface{}{
		"user_id":       3,
		"assignment_id": 5,
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Submission recorded successfully", body["message"])
	submission := body["submission"].(map[string]interface{})
	assert.Equal(t, float64(9), submission["id"])
	assert.Nil(t, submission["grade"])
	requireNoUnmetExpectations(t, mock)
}

func TestCreateSubmissionRejectsGrade(t *testing.T) {
	r, mock := newTestRouter(t)

	rec := doRequest(t, r, http.MethodPost, "/api/submissions", map[string]interface{}{
		"user_id":       3,
		"assignment_id": 5,
		"grade":         8.0,
	})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeBody(t, rec)
	errors := body["errors"].(map[string]interface{})
	assert.Contains(t, errors, "grade")
	requireNoUnmetExpectations(t, mock)
}

func TestCreateSubmissionUnknownAssignment(t *testing.T) {
	r, mock := newTestRouter(t)

	expectExists(mock, "users", 3, true)
	expectExists(mock, "assignments", 99, false)

	rec := doRequest(t, r, http.MethodPost, "/api/submissions", map[string]interface{}{
		"user_id":       3,
		"assignment_id": 99,
	})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeBody(t, rec)
	errors := body["errors"].(map[string]interface{})
	assert.Contains(t, errors, "assignment_id")
	requireNoUnmetExpectations(t, mock)
}

func TestGradeSubmissionBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		grade    float64
		wantCode int
	}{
		{"zero accepted", 0, http.StatusOK},
		{"ten accepted", 10, http.StatusOK},
		{"above range rejected", 11, http.StatusUnprocessableEntity},
		{"below range rejected", -1, http.StatusUnprocessableEntity},
		{"fractional accepted", 7.5, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, mock := newTestRouter(t)
			now := time.Now()

			expectExists(mock, "submissions", 5, true)
			if tt.wantCode == http.StatusOK {
				mock.ExpectExec(updateGradeSQL).
					WithArgs(tt.grade, 5).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectQuery(selectSubmissionSQL).
					WithArgs(5).
					WillReturnRows(submissionRow(5, 3, 5, tt.grade, now))
			}

			rec := doRequest(t, r, http.MethodPut, "/api/submissions/5", map[string]interface{}{
				"grade": tt.grade,
			})

			require.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusOK {
				body := decodeBody(t, rec)
				assert.Equal(t, "Grade updated successfully", body["message"])
				submission := body["submission"].(map[string]interface{})
				assert.Equal(t, tt.grade, submission["grade"])
			}
			requireNoUnmetExpectations(t, mock)
		})
	}
}

func TestGradeSubmissionMissingGrade(t *testing.T) {
	r, mock := newTestRouter(t)

	expectExists(mock, "submissions", 5, true)

	rec := doRequest(t, r, http.MethodPut, "/api/submissions/5", map[string]interface{}{})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeBody(t, rec)
	errors := body["errors"].(map[string]interface{})
	assert.Contains(t, errors, "grade")
	requireNoUnmetExpectations(t, mock)
}

// A grade update must touch only the grade column: a user_id smuggled into
// the body is ignored and the stored user_id survives.
func TestGradeSubmissionUpdatesOnlyGrade(t *testing.T) {
	r, mock := newTestRouter(t)
	now := time.Now()

	expectExists(mock, "submissions", 5, true)
	mock.ExpectExec(updateGradeSQL).
		WithArgs(7.5, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(selectSubmissionSQL).
		WithArgs(5).
		WillReturnRows(submissionRow(5, 3, 5, 7.5, now))

	rec := doRequest(t, r, http.MethodPut, "/api/submissions/5", map[string]interface{}{
		"grade":   7.5,
		"user_id": 999,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	submission := body["submission"].(map[string]interface{})
	assert.Equal(t, float64(3), submission["user_id"])
	assert.Equal(t, 7.5, submission["grade"])
	requireNoUnmetExpectations(t, mock)
}

func TestGradeSubmissionNotFound(t *testing.T) {
	r, mock := newTestRouter(t)

	expectExists(mock, "submissions", 42, false)

	rec := doRequest(t, r, http.MethodPut, "/api/submissions/42", map[string]interface{}{
		"grade": 5.0,
	})

	require.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Submission not found", body["message"])
	requireNoUnmetExpectations(t, mock)
}

func TestListSubmissionsReturnsAll(t *testing.T) {
	r, mock := newTestRouter(t)
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "user_id", "assignment_id", "submitted_at", "grade", "created_at"}).
		AddRow(1, 2, 1, nil, nil, now).
		AddRow(2, 3, 1, nil, 9.0, now)
	mock.ExpectQuery("SELECT id, user_id, assignment_id, submitted_at, grade, created_at FROM submissions").
		WillReturnRows(rows)

	rec := doRequest(t, r, http.MethodGet, "/api/submissions", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var submissions []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &submissions))
	assert.Len(t, submissions, 2)
	requireNoUnmetExpectations(t, mock)
}
