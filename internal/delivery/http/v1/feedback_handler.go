package v1

import (
	"net/http"

	"connectmetric-backend/internal/delivery/http/response"
	"connectmetric-backend/internal/domain"
	"connectmetric-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type FeedbackHandler struct {
	feedbackUC domain.FeedbackUsecase
}

// NewFeedbackHandler registers the stage feedback route
func NewFeedbackHandler(r *gin.RouterGroup, feedbackUC domain.FeedbackUsecase) {
	handler := &FeedbackHandler{feedbackUC: feedbackUC}

	r.POST("/assignments/:assignmentId/stages/:stageId/feedback", handler.SubmitFeedback)
}

// SubmitFeedback godoc
// @Summary      Submit feedback for a stage
// @Description  Create or update the author's feedback for one assignment stage. Resubmitting overwrites the previous rating and comment.
// @Tags         feedback
// @Accept       json
// @Produce      json
// @Param        assignmentId  path      int                         true  "Assignment ID"
// @Param        stageId       path      int                         true  "Stage ID"
// @Param        body          body      domain.SubmitFeedbackInput  true  "Feedback data"
// @Success      200           {object}  response.Response{data=domain.StageFeedback}
// @Failure      400           {object}  response.Response
// @Failure      403           {object}  response.Response
// @Failure      404           {object}  response.Response
// @Router       /assignments/{assignmentId}/stages/{stageId}/feedback [post]
// @Security     BearerAuth
func (h *FeedbackHandler) SubmitFeedback(c *gin.Context) {
	assignmentID, ok := parseID(c, "assignmentId")
	if !ok {
		return
	}
	stageID, ok := parseID(c, "stageId")
	if !ok {
		return
	}

	var input domain.SubmitFeedbackInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	feedback, err := h.feedbackUC.SubmitFeedback(c, currentActor(c), assignmentID, stageID, input)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Feedback saved", feedback)
}
