package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Name  string   `json:"name" binding:"required,max=5"`
	Email string   `json:"email" binding:"required,email"`
	Grade *float64 `json:"grade" binding:"omitempty,gte=0,lte=10"`
}

func bindAndRespond(t *testing.T, payload string) *httptest.ResponseRecorder {
	t.Helper()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/", func(c *gin.Context) {
		var req sampleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			BindError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) (string, map[string][]string) {
	t.Helper()

	var body struct {
		Message string              `json:"message"`
		Errors  map[string][]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Message, body.Errors
}

func TestBindErrorFieldNamesUseJSONTags(t *testing.T) {
	rec := bindAndRespond(t, `{"email":"ana@example.com"}`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	msg, errs := decode(t, rec)
	assert.Equal(t, "The name field is required.", msg)
	assert.Contains(t, errs, "name")
	assert.NotContains(t, errs, "Name")
}

func TestBindErrorMessages(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		field   string
		want    string
	}{
		{"required", `{}`, "name", "The name field is required."},
		{"max", `{"name":"toolongname","email":"a@b.co"}`, "name", "The name may not be greater than 5 characters."},
		{"email", `{"name":"Ana","email":"nope"}`, "email", "The email must be a valid email address."},
		{"lte", `{"name":"Ana","email":"a@b.co","grade":11}`, "grade", "The grade may not be greater than 10."},
		{"gte", `{"name":"Ana","email":"a@b.co","grade":-1}`, "grade", "The grade must be at least 0."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := bindAndRespond(t, tt.payload)

			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			_, errs := decode(t, rec)
			require.Contains(t, errs, tt.field)
			assert.Contains(t, errs[tt.field], tt.want)
		})
	}
}

func TestBindErrorMalformedJSON(t *testing.T) {
	rec := bindAndRespond(t, `{not json`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	msg, errs := decode(t, rec)
	assert.Equal(t, "Invalid request body", msg)
	assert.Empty(t, errs)
}

func TestValidPayloadPasses(t *testing.T) {
	rec := bindAndRespond(t, `{"name":"Ana","email":"ana@example.com","grade":7.5}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}
