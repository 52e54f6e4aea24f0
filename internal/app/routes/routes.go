package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/arunhegde/campusdesk/internal/app/controllers"
	"github.com/arunhegde/campusdesk/internal/app/models"
	"github.com/arunhegde/campusdesk/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	subjectController *controllers.SubjectController,
	enrollmentController *controllers.EnrollmentController,
	requestController *controllers.RequestController,
	libraryController *controllers.LibraryController,
	attendanceController *controllers.AttendanceController,
	auditController *controllers.AuditController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// --- Public routes ---
	auth := router.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
	}

	// Subject catalogue reads are public so login screens can list courses
	router.GET("/subjects", subjectController.List)

	// --- Authenticated routes ---
	authenticated := router.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/users", userController.List)
		authenticated.GET("/users/:usn", userController.Get)

		// Subject management (admin only)
		subjectsAdmin := authenticated.Group("/subjects")
		subjectsAdmin.Use(authMiddleware.RoleRequired(string(models.RoleAdmin)))
		{
			subjectsAdmin.POST("", subjectController.Create)
			subjectsAdmin.PUT("/:id", subjectController.Update)
			subjectsAdmin.DELETE("/:id", subjectController.Delete)
		}

		// Enrollment workflow
		enrollments := authenticated.Group("/enrollments")
		{
			enrollments.GET("", enrollmentController.List)
			enrollments.POST("", enrollmentController.Create)

			enrollmentsTeacher := enrollments.Group("")
			enrollmentsTeacher.Use(authMiddleware.RoleRequired(string(models.RoleTeacher), string(models.RoleAdmin)))
			{
				enrollmentsTeacher.PATCH("/:id", enrollmentController.Transition)
			}
		}

		// Resource requests
		requests := authenticated.Group("/requests")
		{
			requests.GET("", requestController.List)
			requests.POST("", requestController.Create)

			requestsAdmin := requests.Group("")
			requestsAdmin.Use(authMiddleware.RoleRequired(string(models.RoleAdmin)))
			{
				requestsAdmin.PATCH("/:id", requestController.Transition)
			}
		}

		// Library circulation
		library := authenticated.Group("/library")
		{
			library.GET("/books", libraryController.ListBooks)
			library.POST("/borrow-requests", libraryController.CreateBorrowRequest)
			library.GET("/borrow-requests", libraryController.ListBorrowRequests)
			library.GET("/borrow-records", libraryController.ListBorrowRecords)

			libraryStaff := library.Group("")
			libraryStaff.Use(authMiddleware.RoleRequired(string(models.RoleLibrarian), string(models.RoleAdmin)))
			{
				libraryStaff.POST("/books", libraryController.AddBook)
				libraryStaff.PATCH("/borrow-requests/:id", libraryController.ResolveBorrowRequest)
				libraryStaff.POST("/returns", libraryController.ReturnBook)
			}
		}

		// Attendance
		attendance := authenticated.Group("/attendance")
		{
			attendance.GET("", attendanceController.List)

			attendanceTeacher := attendance.Group("")
			attendanceTeacher.Use(authMiddleware.RoleRequired(string(models.RoleTeacher), string(models.RoleAdmin)))
			{
				attendanceTeacher.POST("", attendanceController.Record)
			}
		}

		// Audit trail (admin only)
		auditAdmin := authenticated.Group("/audit")
		auditAdmin.Use(authMiddleware.RoleRequired(string(models.RoleAdmin)))
		{
			auditAdmin.GET("", auditController.List)
		}
	}
}
