package handler

import (
	"github.com/gofiber/fiber/v3"

	"studysync-api/internal/models"
	"studysync-api/internal/service"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Health returns service health status.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "studysync-api",
	})
}

// Register creates an account and signs the new user in.
// @Summary Register
// @Tags auth
// @Accept json
// @Produce json
// @Param body body models.RegisterRequest true "Account details"
// @Success 201 {object} models.AuthResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c fiber.Ctx) error {
	var req models.RegisterRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}

	resp, err := h.svc.Register(c.Context(), req)
	if err != nil {
		return respondError(c, err, "register user")
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Login exchanges credentials for a bearer token.
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param body body models.LoginRequest true "Credentials"
// @Success 200 {object} models.AuthResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req models.LoginRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}

	resp, err := h.svc.Login(c.Context(), req)
	if err != nil {
		return respondError(c, err, "log in")
	}
	return c.JSON(resp)
}

// GetUser returns the authenticated user's account.
// @Summary Get user
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.User
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /users/{id} [get]
func (h *AuthHandler) GetUser(c fiber.Ctx) error {
	id, err := pathUser(c)
	if err != nil {
		return err
	}

	user, err := h.svc.GetUser(c.Context(), id)
	if err != nil {
		return respondError(c, err, "retrieve user")
	}
	return c.JSON(user)
}
