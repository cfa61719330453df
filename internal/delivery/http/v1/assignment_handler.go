package v1

import (
	"net/http"

	"connectmetric-backend/internal/delivery/http/response"
	"connectmetric-backend/internal/domain"
	"connectmetric-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type AssignmentHandler struct {
	assignmentUC domain.AssignmentUsecase
}

// NewAssignmentHandler registers assignment routes nested under processes
func NewAssignmentHandler(r *gin.RouterGroup, assignmentUC domain.AssignmentUsecase) {
	handler := &AssignmentHandler{assignmentUC: assignmentUC}

	r.POST("/processes/:id/assignments", handler.CreateAssignment)
	r.POST("/processes/:id/assignments/:assignmentId/progress", handler.ProgressAssignment)
}

// CreateAssignment godoc
// @Summary      Assign a candidate to a process
// @Description  Create an assignment placed on the first stage, or born completed when the process has no stages (staff or owner). A candidate can be assigned to a process only once.
// @Tags         assignments
// @Accept       json
// @Produce      json
// @Param        id    path      int                           true  "Process ID"
// @Param        body  body      domain.CreateAssignmentInput  true  "Assignment data"
// @Success      201   {object}  response.Response{data=domain.CandidateAssignment}
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Router       /processes/{id}/assignments [post]
// @Security     BearerAuth
func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	processID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input domain.CreateAssignmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	assignment, err := h.assignmentUC.CreateAssignment(c, currentActor(c), processID, input)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Candidate assigned", assignment)
}

// ProgressAssignment godoc
// @Summary      Advance an assignment to its next stage
// @Description  Move the assignment forward by stage order, completing it after the last stage. Progressing a completed assignment changes nothing.
// @Tags         assignments
// @Produce      json
// @Param        id            path      int  true  "Process ID"
// @Param        assignmentId  path      int  true  "Assignment ID"
// @Success      200           {object}  response.Response{data=domain.CandidateAssignment}
// @Failure      403           {object}  response.Response
// @Failure      404           {object}  response.Response
// @Router       /processes/{id}/assignments/{assignmentId}/progress [post]
// @Security     BearerAuth
func (h *AssignmentHandler) ProgressAssignment(c *gin.Context) {
	processID, ok := parseID(c, "id")
	if !ok {
		return
	}
	assignmentID, ok := parseID(c, "assignmentId")
	if !ok {
		return
	}

	assignment, err := h.assignmentUC.ProgressAssignment(c, currentActor(c), processID, assignmentID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Assignment progressed", assignment)
}
