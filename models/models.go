package models

import "time"

// User model. The password hash never leaves the server.
type User struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Course model
type Course struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Subject model
type Subject struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	CourseID  int    `json:"course_id"`
	TeacherID *int   `json:"teacher_id"`
}

// Assignment model
type Assignment struct {
	ID          int       `json:"id"`
	SubjectID   int       `json:"subject_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	DueDate     time.Time `json:"due_date"`
	CreatedAt   time.Time `json:"created_at"`
}

// Submission model. Grade stays null until a grade update is applied.
type Submission struct {
	ID           int        `json:"id"`
	UserID       int        `json:"user_id"`
	AssignmentID int        `json:"assignment_id"`
	SubmittedAt  *time.Time `json:"submitted_at"`
	Grade        *float64   `json:"grade"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Message model
type Message struct {
	ID         int       `json:"id"`
	SenderID   int       `json:"sender_id"`
	ReceiverID int       `json:"receiver_id"`
	Content    string    `json:"content"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}

// CalendarEvent model
type CalendarEvent struct {
	ID          int        `json:"id"`
	UserID      int        `json:"user_id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	StartsAt    time.Time  `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
}

// Enrollment is a row of the course_user pivot
type Enrollment struct {
	CourseID int    `json:"course_id"`
	UserID   int    `json:"user_id"`
	Role     string `json:"role"`
}

// RegisterRequest for user registration
type RegisterRequest struct {
	Name                 string `json:"name" binding:"required,max=255"`
	Email                string `json:"email" binding:"required,email"`
	Password             string `json:"password" binding:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" binding:"required,eqfield=Password"`
	Role                 string `json:"role" binding:"omitempty,oneof=admin teacher student"`
}

// LoginRequest for authentication
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// CreateCourseRequest for course creation
type CreateCourseRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

// UpdateCourseRequest applies only the provided fields
type UpdateCourseRequest struct {
	Name *string `json:"name" binding:"omitempty,max=255"`
}

// EnrollRequest adds a user to a course with a role
type EnrollRequest struct {
	UserID int    `json:"user_id" binding:"required"`
	Role   string `json:"role" binding:"required,oneof=teacher student"`
}

// CreateSubjectRequest for subject creation
type CreateSubjectRequest struct {
	Name      string `json:"name" binding:"required,max=255"`
	CourseID  int    `json:"course_id" binding:"required"`
	TeacherID *int   `json:"teacher_id"`
}

// UpdateSubjectRequest applies only the provided fields
type UpdateSubjectRequest struct {
	Name      *string `json:"name" binding:"omitempty,max=255"`
	CourseID  *int    `json:"course_id"`
	TeacherID *int    `json:"teacher_id"`
}

// CreateAssignmentRequest for assignment creation
type CreateAssignmentRequest struct {
	Title       string  `json:"title" binding:"required,max=255"`
	Description *string `json:"description"`
	DueDate     string  `json:"due_date" binding:"required"`
	SubjectID   int     `json:"subject_id" binding:"required"`
}

// UpdateAssignmentRequest applies only the provided fields
type UpdateAssignmentRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=255"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
	SubjectID   *int    `json:"subject_id"`
}

// CreateSubmissionRequest for recording a submission. Grade must not be
// set at creation; grading goes through GradeSubmissionRequest only.
type CreateSubmissionRequest struct {
	UserID       int      `json:"user_id" binding:"required"`
	AssignmentID int      `json:"assignment_id" binding:"required"`
	SubmittedAt  *string  `json:"submitted_at"`
	Grade        *float64 `json:"grade"`
}

// GradeSubmissionRequest updates the grade field and nothing else
type GradeSubmissionRequest struct {
	Grade *float64 `json:"grade" binding:"required,gte=0,lte=10"`
}

// SendMessageRequest for sending a message
type SendMessageRequest struct {
	ReceiverID int    `json:"receiver_id" binding:"required"`
	Content    string `json:"content" binding:"required"`
}

// CreateEventRequest for calendar event creation
type CreateEventRequest struct {
	Title       string  `json:"title" binding:"required,max=255"`
	Description *string `json:"description"`
	StartsAt    string  `json:"starts_at" binding:"required"`
	EndsAt      *string `json:"ends_at"`
}

// UpdateEventRequest applies only the provided fields
type UpdateEventRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=255"`
	Description *string `json:"description"`
	StartsAt    *string `json:"starts_at"`
	EndsAt      *string `json:"ends_at"`
}
