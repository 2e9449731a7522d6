package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/exam-service/internal/services"
	"github.com/SAP-F-2025/exam-service/internal/utils"
)

type QuestionHandler struct {
	BaseHandler
	questionBankService services.QuestionBankService
}

func NewQuestionHandler(questionBankService services.QuestionBankService, logger utils.Logger) *QuestionHandler {
	return &QuestionHandler{
		BaseHandler:         NewBaseHandler(logger),
		questionBankService: questionBankService,
	}
}

// ReconcileQuestions replaces the question set of an exam with the submitted batch.
// Invalid records are skipped and counted; questions not referenced are deleted.
// @Summary Reconcile exam questions
// @Tags questions
// @Accept json
// @Produce json
// @Param id path uint true "Exam ID"
// @Param batch body services.ReconcileQuestionsRequest true "Desired question set"
// @Success 200 {object} services.ReconcileResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Exam has results"
// @Router /exams/{id}/questions [put]
func (h *QuestionHandler) ReconcileQuestions(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.ReconcileQuestionsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Reconciling questions", "exam_id", id, "records", len(req.Questions))

	result, err := h.questionBankService.Reconcile(c.Request.Context(), id, &req, userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
