package v1

import (
	"net/http"

	"connectmetric-backend/internal/delivery/http/response"
	"connectmetric-backend/internal/domain"
	"connectmetric-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUC domain.AuthUsecase
}

// NewAuthHandler registers the login and session routes
func NewAuthHandler(public *gin.RouterGroup, protected *gin.RouterGroup, authUC domain.AuthUsecase) {
	handler := &AuthHandler{authUC: authUC}

	auth := public.Group("/auth")
	{
		auth.POST("/login", handler.Login)
		auth.POST("/sso", handler.LoginSSO)
	}

	protected.GET("/auth/me", handler.Me)
}

// LoginRequest is the request payload for local credential login
type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
// @Summary      Log in with local credentials
// @Description  Authenticate with username or email plus password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      LoginRequest  true  "Credentials"
// @Success      200   {object}  response.Response{data=domain.Session}
// @Failure      401   {object}  response.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	session, err := h.authUC.Login(c, req.Login, req.Password)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Login successful", session)
}

// SSORequest carries the IdP assertion to exchange for a local session
type SSORequest struct {
	Assertion string `json:"assertion" binding:"required"`
}

// LoginSSO godoc
// @Summary      Log in via corporate SSO
// @Description  Exchange a verified identity-provider assertion for a session
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      SSORequest  true  "IdP assertion"
// @Success      200   {object}  response.Response{data=domain.Session}
// @Failure      401   {object}  response.Response
// @Router       /auth/sso [post]
func (h *AuthHandler) LoginSSO(c *gin.Context) {
	var req SSORequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(err.Error()))
		return
	}

	session, err := h.authUC.LoginSSO(c, req.Assertion)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Login successful", session)
}

// Me godoc
// @Summary      Get current account
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.User}
// @Failure      401  {object}  response.Response
// @Router       /auth/me [get]
// @Security     BearerAuth
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authUC.GetCurrentUser(c, c.GetString(string(domain.KeyUserID)))
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Current user retrieved", user)
}
