package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/exam-service/internal/services"
	"github.com/SAP-F-2025/exam-service/internal/utils"
)

type AttemptHandler struct {
	BaseHandler
	attemptService services.AttemptService
	gradingService services.GradingService
}

func NewAttemptHandler(
	attemptService services.AttemptService,
	gradingService services.GradingService,
	logger utils.Logger,
) *AttemptHandler {
	return &AttemptHandler{
		BaseHandler:    NewBaseHandler(logger),
		attemptService: attemptService,
		gradingService: gradingService,
	}
}

// ListStudentExams lists the published exams of the student's courses
// @Summary List my exams
// @Tags student
// @Produce json
// @Success 200 {array} models.StudentExamSummary
// @Failure 401 {object} ErrorResponse
// @Router /student/exams [get]
func (h *AttemptHandler) ListStudentExams(c *gin.Context) {
	studentID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	summaries, err := h.attemptService.ListStudentExams(c.Request.Context(), studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summaries)
}

// GetAttempt opens an exam for answering. Correct answers are never included.
// @Summary Open exam attempt
// @Tags student
// @Produce json
// @Param id path uint true "Exam ID"
// @Success 200 {object} services.AttemptView
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Already attempted"
// @Router /student/exams/{id}/attempt [get]
func (h *AttemptHandler) GetAttempt(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	studentID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Opening exam attempt", "exam_id", id, "student_id", studentID)

	view, err := h.attemptService.GetAttemptView(c.Request.Context(), id, studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// SubmitAttempt grades the submitted answers and stores the result
// @Summary Submit exam answers
// @Tags student
// @Accept json
// @Produce json
// @Param id path uint true "Exam ID"
// @Param answers body services.SubmitAnswersRequest true "Selected options"
// @Success 201 {object} models.Result
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Already attempted or not published"
// @Router /student/exams/{id}/submit [post]
func (h *AttemptHandler) SubmitAttempt(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.SubmitAnswersRequest
	if !h.bindJSON(c, &req) {
		return
	}

	studentID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Submitting exam", "exam_id", id, "student_id", studentID, "answers", len(req.Answers))

	result, err := h.gradingService.SubmitAnswers(c.Request.Context(), id, studentID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}
