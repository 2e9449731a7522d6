package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/exam-service/internal/services"
	"github.com/SAP-F-2025/exam-service/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ResultHandler struct {
	BaseHandler
	resultService services.ResultService
	exportService services.ExportService
}

func NewResultHandler(resultService services.ResultService, exportService services.ExportService, logger utils.Logger) *ResultHandler {
	return &ResultHandler{
		BaseHandler:   NewBaseHandler(logger),
		resultService: resultService,
		exportService: exportService,
	}
}

// GetResultReview shows a student their own graded result
// @Summary Review my result
// @Tags student
// @Produce json
// @Param id path uint true "Result ID"
// @Success 200 {object} models.ResultReview
// @Failure 404 {object} ErrorResponse
// @Router /student/results/{id} [get]
func (h *ResultHandler) GetResultReview(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	studentID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	review, err := h.resultService.GetResultForReview(c.Request.Context(), id, studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

// ListExamResults lists every result of an exam
// @Summary List exam results
// @Tags results
// @Produce json
// @Param id path uint true "Exam ID"
// @Success 200 {array} models.ExamResultRow
// @Failure 404 {object} ErrorResponse
// @Router /exams/{id}/results [get]
func (h *ResultHandler) ListExamResults(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	rows, err := h.resultService.ListExamResults(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}

// ExportExamResults downloads the results of an exam as a spreadsheet
// @Summary Export exam results
// @Tags results
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path uint true "Exam ID"
// @Success 200 {file} file
// @Failure 404 {object} ErrorResponse
// @Router /exams/{id}/results/export [get]
func (h *ResultHandler) ExportExamResults(c *gin.Context) {
	id := h.parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Exporting exam results", "exam_id", id)

	data, filename, err := h.exportService.ExportExamResults(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
