package handler

import (
	"github.com/justin-aj/tailor-resume-ai/internal/delivery/http/dto"
	"github.com/justin-aj/tailor-resume-ai/internal/delivery/http/middleware"
	"github.com/justin-aj/tailor-resume-ai/internal/pkg/jwt"
	"github.com/justin-aj/tailor-resume-ai/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler exchanges the owner passphrase for a bearer token.
type AuthHandler struct {
	jwt            jwt.Service
	passphraseHash string
}

func NewAuthHandler(jwtSvc jwt.Service, passphraseHash string) *AuthHandler {
	return &AuthHandler{jwt: jwtSvc, passphraseHash: passphraseHash}
}

func (h *AuthHandler) HandleToken(c fiber.Ctx) error {
	var req dto.TokenRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(h.passphraseHash), []byte(req.Passphrase)); err != nil {
		return middleware.NewAppError(fiber.StatusUnauthorized, "invalid passphrase", nil, err)
	}

	token, err := h.jwt.GenerateToken()
	if err != nil {
		return err
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.TokenResponse{Token: token})
}
