package v1

import (
	"net/http"
	"strconv"

	"connectmetric-backend/internal/delivery/http/response"
	"connectmetric-backend/internal/domain"
	"connectmetric-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type ProcessHandler struct {
	processUC domain.ProcessUsecase
}

// NewProcessHandler registers process and stage routes
func NewProcessHandler(r *gin.RouterGroup, processUC domain.ProcessUsecase) {
	handler := &ProcessHandler{processUC: processUC}

	processes := r.Group("/processes")
	{
		processes.GET("", handler.ListProcesses)
		processes.POST("", handler.CreateProcess)
		processes.GET("/:id", handler.GetProcess)
		processes.PATCH("/:id", handler.UpdateProcess)
		processes.DELETE("/:id", handler.DeleteProcess)

		processes.POST("/:id/stages", handler.CreateStage)
		processes.PATCH("/:id/stages/:stageId", handler.UpdateStage)
		processes.DELETE("/:id/stages/:stageId", handler.DeleteStage)
	}
}

func parseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid " + param))
		return 0, false
	}
	return id, true
}

// ListProcesses godoc
// @Summary      List recruitment processes
// @Tags         processes
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.RecruitmentProcess}
// @Router       /processes [get]
// @Security     BearerAuth
func (h *ProcessHandler) ListProcesses(c *gin.Context) {
	processes, err := h.processUC.ListProcesses(c)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Processes retrieved", processes)
}

// CreateProcess godoc
// @Summary      Create a recruitment process
// @Description  Create a process owned by the acting staff member (staff only)
// @Tags         processes
// @Accept       json
// @Produce      json
// @Param        body  body      domain.CreateProcessInput  true  "Process data"
// @Success      201   {object}  response.Response{data=domain.RecruitmentProcess}
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Router       /processes [post]
// @Security     BearerAuth
func (h *ProcessHandler) CreateProcess(c *gin.Context) {
	var input domain.CreateProcessInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	process, err := h.processUC.CreateProcess(c, currentActor(c), input)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Process created", process)
}

// GetProcess godoc
// @Summary      Get process detail
// @Description  Get a process with its stages and candidate assignments
// @Tags         processes
// @Produce      json
// @Param        id  path      int  true  "Process ID"
// @Success      200 {object}  response.Response{data=domain.ProcessDetail}
// @Failure      404 {object}  response.Response
// @Router       /processes/{id} [get]
// @Security     BearerAuth
func (h *ProcessHandler) GetProcess(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	detail, err := h.processUC.GetProcess(c, id)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Process retrieved", detail)
}

// UpdateProcess godoc
// @Summary      Update a process
// @Description  Update supplied fields only (staff or owner). Owner is immutable.
// @Tags         processes
// @Accept       json
// @Produce      json
// @Param        id    path      int                   true  "Process ID"
// @Param        body  body      domain.ProcessUpdate  true  "Fields to update"
// @Success      200   {object}  response.Response{data=domain.RecruitmentProcess}
// @Failure      403   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Router       /processes/{id} [patch]
// @Security     BearerAuth
func (h *ProcessHandler) UpdateProcess(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var update domain.ProcessUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	process, err := h.processUC.UpdateProcess(c, currentActor(c), id, update)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Process updated", process)
}

// DeleteProcess godoc
// @Summary      Delete a process
// @Description  Delete a process and everything under it (staff or owner)
// @Tags         processes
// @Param        id  path  int  true  "Process ID"
// @Success      200 {object}  response.Response
// @Failure      403 {object}  response.Response
// @Failure      404 {object}  response.Response
// @Router       /processes/{id} [delete]
// @Security     BearerAuth
func (h *ProcessHandler) DeleteProcess(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.processUC.DeleteProcess(c, currentActor(c), id); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Process deleted", nil)
}

// CreateStage godoc
// @Summary      Add a stage to a process
// @Description  Create an ordered stage (staff or owner). Duplicate orders are rejected.
// @Tags         stages
// @Accept       json
// @Produce      json
// @Param        id    path      int                      true  "Process ID"
// @Param        body  body      domain.CreateStageInput  true  "Stage data"
// @Success      201   {object}  response.Response{data=domain.ProcessStage}
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Router       /processes/{id}/stages [post]
// @Security     BearerAuth
func (h *ProcessHandler) CreateStage(c *gin.Context) {
	processID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input domain.CreateStageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	stage, err := h.processUC.CreateStage(c, currentActor(c), processID, input)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Stage created", stage)
}

// UpdateStage godoc
// @Summary      Update a stage
// @Tags         stages
// @Accept       json
// @Produce      json
// @Param        id       path      int                 true  "Process ID"
// @Param        stageId  path      int                 true  "Stage ID"
// @Param        body     body      domain.StageUpdate  true  "Fields to update"
// @Success      200      {object}  response.Response{data=domain.ProcessStage}
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /processes/{id}/stages/{stageId} [patch]
// @Security     BearerAuth
func (h *ProcessHandler) UpdateStage(c *gin.Context) {
	processID, ok := parseID(c, "id")
	if !ok {
		return
	}
	stageID, ok := parseID(c, "stageId")
	if !ok {
		return
	}

	var update domain.StageUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	stage, err := h.processUC.UpdateStage(c, currentActor(c), processID, stageID, update)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Stage updated", stage)
}

// DeleteStage godoc
// @Summary      Delete a stage
// @Tags         stages
// @Param        id       path  int  true  "Process ID"
// @Param        stageId  path  int  true  "Stage ID"
// @Success      200      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /processes/{id}/stages/{stageId} [delete]
// @Security     BearerAuth
func (h *ProcessHandler) DeleteStage(c *gin.Context) {
	processID, ok := parseID(c, "id")
	if !ok {
		return
	}
	stageID, ok := parseID(c, "stageId")
	if !ok {
		return
	}

	if err := h.processUC.DeleteStage(c, currentActor(c), processID, stageID); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Stage deleted", nil)
}
