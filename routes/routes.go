package routes

import (
	"github.com/gin-gonic/gin"

	"aulanet/auth"
	"aulanet/handlers"
)

// SetupRoutes configures the API routes
func SetupRoutes(r *gin.Engine) {
	// Public routes
	r.POST("/api/register", handlers.RegisterHandler)
	r.POST("/api/login", auth.LoginHandler)

	// Protected routes
	protected := r.Group("/api")
	protected.Use(auth.AuthMiddleware())

	// Session
	protected.GET("/me", handlers.MeHandler)
	protected.POST("/logout", handlers.LogoutHandler)

	// Courses
	protected.GET("/courses", handlers.ListCoursesHandler)
	protected.POST("/courses", handlers.CreateCourseHandler)
	protected.GET("/courses/:id", handlers.GetCourseHandler)
	protected.PUT("/courses/:id", handlers.UpdateCourseHandler)
	protected.DELETE("/courses/:id", handlers.DeleteCourseHandler)
	protected.POST("/courses/:id/enroll", handlers.EnrollCourseHandler)

	// Subjects
	protected.GET("/subjects", handlers.ListSubjectsHandler)
	protected.POST("/subjects", handlers.CreateSubjectHandler)
	protected.GET("/subjects/:id", handlers.GetSubjectHandler)
	protected.PUT("/subjects/:id", handlers.UpdateSubjectHandler)
	protected.DELETE("/subjects/:id", handlers.DeleteSubjectHandler)

	// Assignments
	protected.GET("/assignments", handlers.ListAssignmentsHandler)
	protected.POST("/assignments", handlers.CreateAssignmentHandler)
	protected.GET("/assignments/:id", handlers.GetAssignmentHandler)
	protected.PUT("/assignments/:id", handlers.UpdateAssignmentHandler)
	protected.DELETE("/assignments/:id", handlers.DeleteAssignmentHandler)

	// Submissions: create, read and a grade-only update
	protected.GET("/submissions", handlers.ListSubmissionsHandler)
	protected.POST("/submissions", handlers.CreateSubmissionHandler)
	protected.GET("/submissions/:id", handlers.GetSubmissionHandler)
	protected.PUT("/submissions/:id", handlers.GradeSubmissionHandler)

	// Messages
	protected.GET("/messages", handlers.ListMessagesHandler)
	protected.POST("/messages", handlers.SendMessageHandler)
	protected.PUT("/messages/:id/read", handlers.MarkMessageReadHandler)

	// Calendar events
	protected.GET("/events", handlers.ListEventsHandler)
	protected.POST("/events", handlers.CreateEventHandler)
	protected.GET("/events/:id", handlers.GetEventHandler)
	protected.PUT("/events/:id", handlers.UpdateEventHandler)
	protected.DELETE("/events/:id", handlers.DeleteEventHandler)
}
