package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/services"
	"github.com/SAP-F-2025/exam-service/internal/utils"
)

const healthCheckTimeout = 3 * time.Second

type HandlerManager struct {
	examHandler     *ExamHandler
	questionHandler *QuestionHandler
	attemptHandler  *AttemptHandler
	resultHandler   *ResultHandler
	authMiddleware  Authenticator
	serviceManager  services.ServiceManager
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
	authMiddleware Authenticator,
) *HandlerManager {
	return &HandlerManager{
		examHandler:     NewExamHandler(serviceManager.Exam(), logger),
		questionHandler: NewQuestionHandler(serviceManager.QuestionBank(), logger),
		attemptHandler:  NewAttemptHandler(serviceManager.Attempt(), serviceManager.Grading(), logger),
		resultHandler:   NewResultHandler(serviceManager.Result(), serviceManager.Export(), logger),
		authMiddleware:  authMiddleware,
		serviceManager:  serviceManager,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	v1.Use(hm.authMiddleware.AuthMiddleware())
	{
		// Staff routes - Teachers and Admins only
		staff := v1.Group("")
		staff.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher, models.RoleAdmin))
		{
			staff.POST("/exams", hm.examHandler.CreateExam)
			staff.GET("/exams/:id", hm.examHandler.GetExam)
			staff.PUT("/exams/:id", hm.examHandler.UpdateExam)
			staff.DELETE("/exams/:id", hm.examHandler.DeleteExam)
			staff.GET("/courses/:course_id/exams", hm.examHandler.ListCourseExams)

			// Question set
			staff.PUT("/exams/:id/questions", hm.questionHandler.ReconcileQuestions)

			// Results
			staff.GET("/exams/:id/results", hm.resultHandler.ListExamResults)
			staff.GET("/exams/:id/results/export", hm.resultHandler.ExportExamResults)
		}

		// Student routes - Students only
		student := v1.Group("/student")
		student.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent))
		{
			student.GET("/exams", hm.attemptHandler.ListStudentExams)
			student.GET("/exams/:id/attempt", hm.attemptHandler.GetAttempt)
			student.POST("/exams/:id/submit", hm.attemptHandler.SubmitAttempt)
			student.GET("/results/:id", hm.resultHandler.GetResultReview)
		}
	}

	router.GET("/health", hm.health)
}

func (hm *HandlerManager) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	if err := hm.serviceManager.HealthCheck(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"service": "exam-service",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "exam-service",
	})
}
