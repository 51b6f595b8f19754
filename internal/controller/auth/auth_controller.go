package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"quizmaster/config"
	"quizmaster/internal/dto"
	"quizmaster/internal/middleware"
	"quizmaster/internal/service"
)

type AuthController struct {
	authSvc service.AuthService
	cfg     *config.Config
}

func NewAuthController(authSvc service.AuthService, cfg *config.Config) *AuthController {
	return &AuthController{authSvc: authSvc, cfg: cfg}
}

// Login godoc
// @Summary Log in
// @Description Verify credentials, open a session and set the session cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 401 {object} dto.ErrorResponse "Bad username, password or role"
// @Router /user [post]
func (ctrl *AuthController) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	token, resp, err := ctrl.authSvc.Login(req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Invalid username or password"})
			return
		}
		log.Error().Err(err).Msg("Login failed")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Login failed"})
		return
	}

	c.SetCookie(middleware.SessionCookie, token, int(ctrl.cfg.Session.TTL.Seconds()), "/", "", ctrl.cfg.Session.CookieSecure, true)
	c.JSON(http.StatusOK, resp)
}

// LoginEntry godoc
// @Summary Login entry point
// @Description Target of auth-failure redirects; prompts the client to authenticate
// @Tags auth
// @Produce json
// @Failure 401 {object} dto.MessageResponse
// @Router /user [get]
func (ctrl *AuthController) LoginEntry(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, dto.MessageResponse{Message: "Please log in: POST credentials to /user"})
}

// RegisterEntry godoc
// @Summary Registration entry point
// @Tags auth
// @Produce json
// @Success 200 {object} dto.MessageResponse
// @Router /newuser [get]
func (ctrl *AuthController) RegisterEntry(c *gin.Context) {
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "POST registration data to /newuser"})
}

// Register godoc
// @Summary Register a new user
// @Description Create an admin or student account
// @Tags auth
// @Accept json
// @Produce json
// @Param user body dto.RegisterRequest true "Registration data"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 409 {object} dto.ErrorResponse "Username already exists"
// @Router /newuser [post]
func (ctrl *AuthController) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.authSvc.Register(req)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			c.JSON(http.StatusConflict, dto.ErrorResponse{Error: "Username already exists! Please use a different one."})
			return
		}
		log.Error().Err(err).Msg("Registration failed")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Logout godoc
// @Summary Log out
// @Description Delete the server-side session and clear the cookie
// @Tags auth
// @Produce json
// @Success 303 "Redirect to login"
// @Router /logout [get]
func (ctrl *AuthController) Logout(c *gin.Context) {
	if token, err := c.Cookie(middleware.SessionCookie); err == nil {
		if err := ctrl.authSvc.Logout(token); err != nil {
			log.Warn().Err(err).Msg("Logout: failed to delete session")
		}
	}
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", ctrl.cfg.Session.CookieSecure, true)
	c.Redirect(http.StatusSeeOther, "/user")
}

// Health godoc
// @Summary Health check
// @Tags ops
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (ctrl *AuthController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{Status: "healthy"})
}
