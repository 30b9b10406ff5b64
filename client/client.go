// Package client is a typed HTTP client for the aulanet API, one method
// per endpoint. Session state is explicit: authenticated calls go through
// a client value carrying its own token, never a package-level global.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"aulanet/models"
)

// Client calls the aulanet API
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// New creates a client for the given base URL, e.g. "http://localhost:8080"
func New(baseURL string, httpClient ...*http.Client) *Client {
	hc := http.DefaultClient
	if len(httpClient) > 0 && httpClient[0] != nil {
		hc = httpClient[0]
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    hc,
	}
}

// WithToken returns a copy of the client authenticated with the token
func (c *Client) WithToken(token string) *Client {
	clone := *c
	clone.token = token
	return &clone
}

// Session is the result of a successful login
type Session struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// APIError is a non-2xx response body
type APIError struct {
	Status  int                 `json:"-"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// Register creates a user account
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	var out struct {
		User models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/register", req, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Login exchanges credentials for a session
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var out Session
	err := c.do(ctx, http.MethodPost, "/api/login", models.LoginRequest{Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the authenticated user
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var out struct {
		User models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/me", nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Logout revokes the client's token on the server
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/logout", nil, nil)
}

// ListCourses returns all courses
func (c *Client) ListCourses(ctx context.Context) ([]models.Course, error) {
	var out []models.Course
	if err := c.do(ctx, http.MethodGet, "/api/courses", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCourse creates a course
func (c *Client) CreateCourse(ctx context.Context, name string) (*models.Course, error) {
	var out struct {
		Course models.Course `json:"course"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/courses", models.CreateCourseRequest{Name: name}, &out); err != nil {
		return nil, err
	}
	return &out.Course, nil
}

// GetCourse returns one course
func (c *Client) GetCourse(ctx context.Context, id int) (*models.Course, error) {
	var out models.Course
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/courses/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCourse applies the provided fields to a course
func (c *Client) UpdateCourse(ctx context.Context, id int, req models.UpdateCourseRequest) (*models.Course, error) {
	var out struct {
		Course models.Course `json:"course"`
	}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/courses/%d", id), req, &out); err != nil {
		return nil, err
	}
	return &out.Course, nil
}

// DeleteCourse deletes a course
func (c *Client) DeleteCourse(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/courses/%d", id), nil, nil)
}

// Enroll adds a user to a course with a role
func (c *Client) Enroll(ctx context.Context, courseID, userID int, role string) (*models.Enrollment, error) {
	var out struct {
		Enrollment models.Enrollment `json:"enrollment"`
	}
	req := models.EnrollRequest{UserID: userID, Role: role}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/courses/%d/enroll", courseID), req, &out); err != nil {
		return nil, err
	}
	return &out.Enrollment, nil
}

// ListSubjects returns all subjects
func (c *Client) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	var out []models.Subject
	if err := c.do(ctx, http.MethodGet, "/api/subjects", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateSubject creates a subject
func (c *Client) CreateSubject(ctx context.Context, req models.CreateSubjectRequest) (*models.Subject, error) {
	var out struct {
		Subject models.Subject `json:"subject"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/subjects", req, &out); err != nil {
		return nil, err
	}
	return &out.Subject, nil
}

// GetSubject returns one subject
func (c *Client) GetSubject(ctx context.Context, id int) (*models.Subject, error) {
	var out models.Subject
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/subjects/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateSubject applies the provided fields to a subject
func (c *Client) UpdateSubject(ctx context.Context, id int, req models.UpdateSubjectRequest) (*models.Subject, error) {
	var out struct {
		Subject models.Subject `json:"subject"`
	}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/subjects/%d", id), req, &out); err != nil {
		return nil, err
	}
	return &out.Subject, nil
}

// DeleteSubject deletes a subject
func (c *Client) DeleteSubject(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/subjects/%d", id), nil, nil)
}

// ListAssignments returns all assignments
func (c *Client) ListAssignments(ctx context.Context) ([]models.Assignment, error) {
	var out []models.Assignment
	if err := c.do(ctx, http.MethodGet, "/api/assignments", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateAssignment creates an assignment
func (c *Client) CreateAssignment(ctx context.Context, req models.CreateAssignmentRequest) (*models.Assignment, error) {
	var out struct {
		Assignment models.Assignment `json:"assignment"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/assignments", req, &out); err != nil {
		return nil, err
	}
	return &out.Assignment, nil
}

// GetAssignment returns one assignment
func (c *Client) GetAssignment(ctx context.Context, id int) (*models.Assignment, error) {
	var out models.Assignment
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/assignments/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateAssignment applies the provided fields to an assignment
func (c *Client) UpdateAssignment(ctx context.Context, id int, req models.UpdateAssignmentRequest) (*models.Assignment, error) {
	var out struct {
		Assignment models.Assignment `json:"assignment"`
	}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/assignments/%d", id), req, &out); err != nil {
		return nil, err
	}
	return &out.Assignment, nil
}

// DeleteAssignment deletes an assignment
func (c *Client) DeleteAssignment(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/assignments/%d", id), nil, nil)
}

// ListSubmissions returns all submissions
func (c *Client) ListSubmissions(ctx context.Context) ([]models.Submission, error) {
	var out []models.Submission
	if err := c.do(ctx, http.MethodGet, "/api/submissions", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateSubmission records a submission
func (c *Client) CreateSubmission(ctx context.Context, req models.CreateSubmissionRequest) (*models.Submission, error) {
	var out struct {
		Submission models.Submission `json:"submission"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/submissions", req, &out); err != nil {
		return nil, err
	}
	return &out.Submission, nil
}

// GetSubmission returns one submission
func (c *Client) GetSubmission(ctx context.Context, id int) (*models.Submission, error) {
	var out models.Submission
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/submissions/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GradeSubmission sets a submission's grade
func (c *Client) GradeSubmission(ctx context.Context, id int, grade float64) (*models.Submission, error) {
	var out struct {
		Submission models.Submission `json:"submission"`
	}
	req := models.GradeSubmissionRequest{Grade: &grade}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/submissions/%d", id), req, &out); err != nil {
		return nil, err
	}
	return &out.Submission, nil
}

// ListMessages returns all messages
func (c *Client) ListMessages(ctx context.Context) ([]models.Message, error) {
	var out []models.Message
	if err := c.do(ctx, http.MethodGet, "/api/messages", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SendMessage sends a message to another user
func (c *Client) SendMessage(ctx context.Context, receiverID int, content string) (*models.Message, error) {
	var out struct {
		Data models.Message `json:"data"`
	}
	req := models.SendMessageRequest{ReceiverID: receiverID, Content: content}
	if err := c.do(ctx, http.MethodPost, "/api/messages", req, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// MarkMessageRead sets the read flag on a message
func (c *Client) MarkMessageRead(ctx context.Context, id int) (*models.Message, error) {
	var out struct {
		Data models.Message `json:"data"`
	}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/messages/%d/read", id), nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// ListEvents returns the session user's calendar events
func (c *Client) ListEvents(ctx context.Context) ([]models.CalendarEvent, error) {
	var out []models.CalendarEvent
	if err := c.do(ctx, http.MethodGet, "/api/events", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateEvent creates a calendar event for the session user
func (c *Client) CreateEvent(ctx context.Context, req models.CreateEventRequest) (*models.CalendarEvent, error) {
	var out struct {
		Event models.CalendarEvent `json:"event"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/events", req, &out); err != nil {
		return nil, err
	}
	return &out.Event, nil
}

// GetEvent returns one of the session user's events
func (c *Client) GetEvent(ctx context.Context, id int) (*models.CalendarEvent, error) {
	var out models.CalendarEvent
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/events/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateEvent applies the provided fields to one of the session user's events
func (c *Client) UpdateEvent(ctx context.Context, id int, req models.UpdateEventRequest) (*models.CalendarEvent, error) {
	var out struct {
		Event models.CalendarEvent `json:"event"`
	}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/events/%d", id), req, &out); err != nil {
		return nil, err
	}
	return &out.Event, nil
}

// DeleteEvent deletes one of the session user's events
func (c *Client) DeleteEvent(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/events/%d", id), nil, nil)
}
