package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/alpha53/virtualteacher/internal/repositories"
	"github.com/alpha53/virtualteacher/internal/services"
	"github.com/alpha53/virtualteacher/internal/utils"
)

type HandlerManager struct {
	courseHandler  *CourseHandler
	userHandler    *UserHandler
	lectureHandler *LectureHandler
	userRepo       repositories.UserRepository
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
	userRepo repositories.UserRepository,
) *HandlerManager {
	return &HandlerManager{
		courseHandler:  NewCourseHandler(serviceManager.Course(), serviceManager.Export(), logger),
		userHandler:    NewUserHandler(serviceManager.User(), logger),
		lectureHandler: NewLectureHandler(serviceManager.Lecture(), serviceManager.Solution(), logger),
		userRepo:       userRepo,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Registration stays open; everything else requires an identity
	router.POST("/api/v1/users", hm.userHandler.Register)

	v1 := router.Group("/api/v1")
	v1.Use(AuthMiddleware(hm.userRepo))
	{
		// Course routes
		courses := v1.Group("/courses")
		{
			courses.POST("", hm.courseHandler.CreateCourse)
			courses.GET("", hm.courseHandler.ListCourses)
			courses.GET("/export", hm.courseHandler.ExportCourses)
			courses.GET("/:id", hm.courseHandler.GetCourse)
			courses.PUT("/:id", hm.courseHandler.UpdateCourse)
			courses.DELETE("/:id", hm.courseHandler.DeleteCourse)

			// Enrollment
			courses.POST("/:id/enroll", hm.courseHandler.Enroll)
			courses.GET("/:id/students", hm.courseHandler.GetEnrolledStudents)
			courses.POST("/:id/students/:user_id/complete", hm.courseHandler.CompleteEnrollment)
			courses.DELETE("/:id/students/:user_id", hm.courseHandler.RemoveStudent)

			// Ratings
			courses.POST("/:id/ratings", hm.courseHandler.RateCourse)
			courses.GET("/:id/ratings", hm.courseHandler.GetRatings)

			// Lectures
			courses.POST("/:id/lectures", hm.lectureHandler.CreateLecture)
			courses.GET("/:id/lectures", hm.lectureHandler.ListLectures)

			// Reporting
			courses.GET("/:id/gradebook", hm.courseHandler.ExportGradebook)
			courses.GET("/creator/:creator_id", hm.courseHandler.GetCoursesByCreator)
		}

		// Lecture routes
		lectures := v1.Group("/lectures")
		{
			lectures.GET("/:id", hm.lectureHandler.GetLecture)
			lectures.PUT("/:id", hm.lectureHandler.UpdateLecture)
			lectures.DELETE("/:id", hm.lectureHandler.DeleteLecture)
			lectures.GET("/:id/assignment", hm.lectureHandler.GetAssignment)

			// Solutions
			lectures.POST("/:id/solutions", hm.lectureHandler.SubmitSolution)
			lectures.GET("/:id/solutions", hm.lectureHandler.ListSolutions)
			lectures.POST("/:id/solutions/:student_id/grade", hm.lectureHandler.GradeSolution)
		}

		// User routes
		users := v1.Group("/users")
		{
			users.GET("", hm.userHandler.ListUsers)
			users.GET("/:id", hm.userHandler.GetUser)
			users.PUT("/me", hm.userHandler.UpdateProfile)
			users.DELETE("/:id", hm.userHandler.DeleteUser)
			users.GET("/:id/courses", hm.courseHandler.GetOngoingCourses)
			users.GET("/:id/courses/completed", hm.courseHandler.GetCompletedCourses)
			users.GET("/:id/solutions", hm.lectureHandler.ListUserSolutions)
			users.POST("/:id/courses/transfer", hm.userHandler.TransferCourses)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "virtual-teacher",
		})
	})
}
