package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/ar4ie13/tutorialplatform/internal/apps"
	"github.com/ar4ie13/tutorialplatform/internal/auth"
	"github.com/ar4ie13/tutorialplatform/internal/handlers/config"
	"github.com/ar4ie13/tutorialplatform/internal/models"
	"github.com/ar4ie13/tutorialplatform/internal/passwords"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const shutdownTimeout = 10 * time.Second

type Handlers struct {
	cfg        config.ServerConf
	sessionKey []byte
	auth       Auth
	srv        Service
	zlog       zerolog.Logger
	// csrfExempt lists path prefixes the csrf middleware skips
	csrfExempt []string
}

func NewHandlers(cfg config.ServerConf, sessionKey []byte, auth Auth, srv Service, zlog zerolog.Logger) *Handlers {
	return &Handlers{
		cfg:        cfg,
		sessionKey: sessionKey,
		auth:       auth,
		srv:        srv,
		zlog:       zlog,
		csrfExempt: []string{"/api/"},
	}
}

// Auth used for authentication
type Auth interface {
	IssuePair(ctx context.Context, userUUID uuid.UUID) (auth.TokenPair, error)
	Refresh(ctx context.Context, refresh string) (auth.TokenPair, error)
	Blacklist(ctx context.Context, refresh string) error
	BlacklistEnabled() bool
	VerifyToken(ctx context.Context, token string) (*auth.Claims, error)
	ValidateUserUUID(tokenString string) (uuid.UUID, error)
	ParseAuthorizationHeader(header string) (string, error)
	GenerateHashFromPassword(password string, attrs passwords.Attributes) (string, error)
	CheckPasswordHash(password, hash string) bool
	PasswordHelpTexts() []string
}

type Service interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	LoginUser(ctx context.Context, username string) (models.User, error)
	GetUser(ctx context.Context, userUUID uuid.UUID) (models.User, error)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (h *Handlers) ListenAndServe(ctx context.Context) error {
	router, err := h.NewRouter()
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              h.cfg.ServerAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		h.zlog.Info().Msgf("listening on %v", h.cfg.ServerAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err = <-errCh:
		return err
	case <-ctx.Done():
	}

	h.zlog.Info().Msg("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err = srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return <-errCh
}

// NewRouter builds gin engine with the configured middleware chain
func (h *Handlers) NewRouter() (*gin.Engine, error) {
	chain, err := h.BuildChain(h.cfg.Middleware)
	if err != nil {
		return nil, err
	}

	router := gin.New()

	//middlewares for router
	router.Use(h.requestLogger())
	router.Use(gin.Recovery())
	router.Use(chain...)
	if slices.Contains(h.cfg.Middleware, apps.MiddlewareCSRF) {
		router.Use(h.csrfCheck())
	}

	router.GET("/healthz", h.healthz)

	if slices.Contains(h.cfg.Middleware, apps.MiddlewareSessions) {
		session := router.Group("/session")
		{
			session.GET("", h.sessionInfo)
			session.POST("/login", h.sessionLogin)
			session.POST("/logout", h.sessionLogout)
		}
	}

	//API routes
	api := router.Group("/api")
	{
		api.POST("/users/register", h.userRegister)
		api.GET("/password/rules", h.passwordRules)
		api.POST("/token", h.tokenObtain)
		api.POST("/token/refresh", h.tokenRefresh)
		api.POST("/token/verify", h.tokenVerify)
		if h.auth.BlacklistEnabled() {
			api.POST("/token/blacklist", h.tokenBlacklist)
		}
	}
	protected := router.Group("/api", h.apiAuthentication(), h.permission())
	{
		protected.GET("/users/me", h.userMe)
	}

	return router, nil
}

func (h *Handlers) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handlers) userRegister(c *gin.Context) {
	var registerReq RegisterRequest

	// Bind JSON to struct
	if err := c.ShouldBindJSON(&registerReq); err != nil {
		h.errorJSON(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	// Process the register data
	attrs := passwords.Attributes{
		"username": registerReq.Username,
		"email":    registerReq.Email,
	}
	passwordHash, err := h.auth.GenerateHashFromPassword(registerReq.Password, attrs)
	if err != nil {
		if errors.Is(err, errPasswordValidation) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":    "password is not acceptable",
				"password": passwords.Messages(err),
			})
		} else {
			h.errorJSON(c, http.StatusInternalServerError, "cannot generate hash from password", err)
		}
		return
	}

	user, err := h.srv.CreateUser(c, models.User{
		Username:     registerReq.Username,
		Email:        registerReq.Email,
		UserType:     models.UserType(registerReq.UserType),
		PasswordHash: passwordHash,
	})
	if err != nil {
		h.errorJSON(c, statusFor(err), "cannot create user", err)
		return
	}

	AddMessage(c, LevelSuccess, fmt.Sprintf("user %s successfully registered", user.Username))

	c.JSON(http.StatusCreated, newUserResponse(user))
}

func (h *Handlers) passwordRules(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rules": h.auth.PasswordHelpTexts()})
}

func (h *Handlers) tokenObtain(c *gin.Context) {
	var loginReq LoginRequest

	if err := c.ShouldBindJSON(&loginReq); err != nil {
		h.errorJSON(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	user, ok := h.checkCredentials(c, loginReq)
	if !ok {
		return
	}

	pair, err := h.auth.IssuePair(c, user.UUID)
	if err != nil {
		h.zlog.Error().Msgf("error building JWT string: %v", err)
		h.errorJSON(c, http.StatusInternalServerError, "cannot issue token", err)
		return
	}

	c.JSON(http.StatusOK, pair)
}

func (h *Handlers) tokenRefresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorJSON(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	pair, err := h.auth.Refresh(c, req.Refresh)
	if err != nil {
		h.errorJSON(c, statusFor(err), "cannot refresh token", err)
		return
	}

	c.JSON(http.StatusOK, pair)
}

func (h *Handlers) tokenVerify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorJSON(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if _, err := h.auth.VerifyToken(c, req.Token); err != nil {
		h.errorJSON(c, http.StatusUnauthorized, "token is invalid or expired", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

func (h *Handlers) tokenBlacklist(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorJSON(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.auth.Blacklist(c, req.Refresh); err != nil {
		h.errorJSON(c, statusFor(err), "cannot blacklist token", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

func (h *Handlers) userMe(c *gin.Context) {
	userUUID, ok := currentUser(c)
	if !ok {
		h.errorJSON(c, http.StatusUnauthorized, errUserIsNotAuthorized.Error(), nil)
		return
	}

	user, err := h.srv.GetUser(c, userUUID)
	if err != nil {
		h.errorJSON(c, statusFor(err), "cannot get user", err)
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user))
}

// checkCredentials looks the user up and compares password, writing the
// error response itself
func (h *Handlers) checkCredentials(c *gin.Context, req LoginRequest) (models.User, bool) {
	user, err := h.srv.LoginUser(c, req.Username)
	if err != nil {
		h.zlog.Debug().Msgf("login failed for %q: %v", req.Username, err)
		h.errorJSON(c, http.StatusUnauthorized, "no active account found with the given credentials", err)
		return models.User{}, false
	}

	if !h.auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		h.errorJSON(c, http.StatusUnauthorized, "no active account found with the given credentials", errInvalidPassword)
		return models.User{}, false
	}

	return user, true
}
