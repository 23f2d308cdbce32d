package handlers

import (
	"strings"

	"autolog/internal/services"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthConfig holds the URLs the auth endpoints link and redirect to.
type AuthConfig struct {
	FrontendURL string
	// APIBaseURL prefixes verification links. Empty means the request's own
	// base URL.
	APIBaseURL string
}

// AuthHandler handles HTTP requests for accounts.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
	cfg         AuthConfig
	logger      *log.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, validate *validator.Validate, cfg AuthConfig, logger *log.Logger) *AuthHandler {
	cfg.FrontendURL = strings.TrimRight(cfg.FrontendURL, "/")
	return &AuthHandler{
		authService: authService,
		validate:    validate,
		cfg:         cfg,
		logger:      logger,
	}
}

// RegisterRoutes registers the account routes. guards run before the
// routes that act on an existing user.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, guards ...fiber.Handler) {
	router.Post("/register", h.HandleRegister)
	router.Get("/verify/:token", h.HandleVerify)
	router.Post("/forgot-password", h.HandleForgotPassword)
	router.Post("/reset-password", h.HandleResetPassword)
	router.Post("/login", h.HandleLogin)
	router.Post("/changename", chain(guards, h.HandleChangeName)...)
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,password"`
}

// HandleRegister creates an unverified account and emails a verification link.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := bind(c, h.validate, &req); err != nil {
		return badRequest(c, err, nil)
	}

	base := h.cfg.APIBaseURL
	if base == "" {
		base = c.BaseURL()
	}
	err := h.authService.Register(c.UserContext(), services.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	}, base)
	if err != nil {
		return fail(c, h.logger, err, nil)
	}

	return c.JSON(fiber.Map{
		"message": "A verification email has been sent to " + req.Email + ".",
		"error":   "",
	})
}

// HandleVerify consumes a verification token and redirects to the frontend.
func (h *AuthHandler) HandleVerify(c *fiber.Ctx) error {
	if err := h.authService.Verify(c.UserContext(), c.Params("token")); err != nil {
		return fail(c, h.logger, err, nil)
	}
	return c.Redirect(h.cfg.FrontendURL+"/email-verified", fiber.StatusFound)
}

// ForgotPasswordRequest represents the request body for a reset email.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// HandleForgotPassword emails a password reset link.
func (h *AuthHandler) HandleForgotPassword(c *fiber.Ctx) error {
	failed := fiber.Map{"success": false}

	var req ForgotPasswordRequest
	if err := bind(c, h.validate, &req); err != nil {
		return badRequest(c, err, failed)
	}
	if err := h.authService.RequestPasswordReset(c.UserContext(), req.Email); err != nil {
		return fail(c, h.logger, err, failed)
	}
	return c.JSON(fiber.Map{"success": true, "error": ""})
}

// ResetPasswordRequest represents the request body for a password reset.
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,password"`
}

// HandleResetPassword sets a new password using an emailed token.
func (h *AuthHandler) HandleResetPassword(c *fiber.Ctx) error {
	failed := fiber.Map{"success": false}

	var req ResetPasswordRequest
	if err := bind(c, h.validate, &req); err != nil {
		return badRequest(c, err, failed)
	}
	if err := h.authService.ResetPassword(c.UserContext(), req.Token, req.NewPassword); err != nil {
		return fail(c, h.logger, err, failed)
	}
	return c.JSON(fiber.Map{"success": true, "error": ""})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin checks credentials and returns the user's profile.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	failed := fiber.Map{"id": -1, "firstName": "", "lastName": "", "isVerified": false}

	var req LoginRequest
	if err := bind(c, h.validate, &req); err != nil {
		return badRequest(c, err, failed)
	}

	result, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return fail(c, h.logger, err, failed)
	}

	body := fiber.Map{
		"id":         result.User.UserID,
		"firstName":  result.User.FirstName,
		"lastName":   result.User.LastName,
		"isVerified": result.User.IsVerified,
		"error":      "",
	}
	if result.AccessToken != "" {
		body["accessToken"] = result.AccessToken
	}
	return c.JSON(body)
}

// ChangeNameRequest represents the request body for renaming a user.
type ChangeNameRequest struct {
	UserID    int64  `json:"userId" validate:"required"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
}

func (h *AuthHandler) HandleChangeName(c *fiber.Ctx) error {
	var req ChangeNameRequest
	if err := bind(c, h.validate, &req); err != nil {
		return badRequest(c, err, nil)
	}
	if err := ownsUser(c, req.UserID); err != nil {
		return err
	}
	if err := h.authService.ChangeName(c.UserContext(), req.UserID, req.FirstName, req.LastName); err != nil {
		return fail(c, h.logger, err, nil)
	}
	return c.JSON(fiber.Map{"error": ""})
}
