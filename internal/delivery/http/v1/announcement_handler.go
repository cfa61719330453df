package v1

import (
	"net/http"

	"connectmetric-backend/internal/delivery/http/response"
	"connectmetric-backend/internal/domain"
	"connectmetric-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type AnnouncementHandler struct {
	announcementUC domain.AnnouncementUsecase
}

// NewAnnouncementHandler registers announcement routes
func NewAnnouncementHandler(r *gin.RouterGroup, announcementUC domain.AnnouncementUsecase) {
	handler := &AnnouncementHandler{announcementUC: announcementUC}

	r.GET("/announcements", handler.ListAnnouncements)
	r.POST("/announcements", handler.CreateAnnouncement)
}

// ListAnnouncements godoc
// @Summary      List announcements
// @Description  Announcements in reverse chronological order
// @Tags         announcements
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Announcement}
// @Router       /announcements [get]
// @Security     BearerAuth
func (h *AnnouncementHandler) ListAnnouncements(c *gin.Context) {
	announcements, err := h.announcementUC.ListAnnouncements(c)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Announcements retrieved", announcements)
}

// CreateAnnouncement godoc
// @Summary      Publish an announcement
// @Description  Publish a site announcement (staff only)
// @Tags         announcements
// @Accept       json
// @Produce      json
// @Param        body  body      domain.CreateAnnouncementInput  true  "Announcement data"
// @Success      201   {object}  response.Response{data=domain.Announcement}
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Router       /announcements [post]
// @Security     BearerAuth
func (h *AnnouncementHandler) CreateAnnouncement(c *gin.Context) {
	var input domain.CreateAnnouncementInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	announcement, err := h.announcementUC.CreateAnnouncement(c, currentActor(c), input)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Announcement published", announcement)
}
