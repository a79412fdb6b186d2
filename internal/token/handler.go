package token

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/pulsewatch/pulsewatch/internal/errs"
	"github.com/pulsewatch/pulsewatch/internal/random"
)

// Handler exposes token HTTP endpoints.
type Handler struct {
	authority *Authority
}

// NewHandler builds a token HTTP handler.
func NewHandler(authority *Authority) *Handler {
	return &Handler{authority: authority}
}

func httpError(err error) *fiber.Error {
	return fiber.NewError(errs.HTTPStatus(err), err.Error())
}

type issueRequest struct {
	Identity string `json:"identity"`
	Password string `json:"password"`
}

type tokenResponse struct {
	ID       string    `json:"id"`
	Identity string    `json:"identity"`
	Expires  time.Time `json:"expires"`
}

// Issue exchanges credentials for a fresh bearer token.
func (h *Handler) Issue(c *fiber.Ctx) error {
	var req issueRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	tok, err := h.authority.Issue(c.UserContext(), req.Identity, req.Password)
	if err != nil {
		return httpError(err)
	}
	return c.Status(http.StatusCreated).JSON(toResponse(tok))
}

// Get returns the raw token record by id.
func (h *Handler) Get(c *fiber.Ctx) error {
	id, err := requiredTokenID(c)
	if err != nil {
		return err
	}
	tok, err := h.authority.Fetch(c.UserContext(), id)
	if err != nil {
		return httpError(err)
	}
	return c.Status(http.StatusOK).JSON(toResponse(tok))
}

type extendRequest struct {
	ID     string `json:"id"`
	Extend bool   `json:"extend"`
}

// Extend pushes a live token's expiry out by the configured TTL.
func (h *Handler) Extend(c *fiber.Ctx) error {
	var req extendRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if !random.WellFormedID(req.ID) || !req.Extend {
		return httpError(errs.Validation("id/extend", "are required"))
	}
	if err := h.authority.Extend(c.UserContext(), req.ID); err != nil {
		return httpError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "extended"})
}

// Revoke deletes the token record.
func (h *Handler) Revoke(c *fiber.Ctx) error {
	id, err := requiredTokenID(c)
	if err != nil {
		return err
	}
	if err := h.authority.Revoke(c.UserContext(), id); err != nil {
		return httpError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "revoked"})
}

func requiredTokenID(c *fiber.Ctx) (string, error) {
	id := c.Query("id")
	if !random.WellFormedID(id) {
		return "", httpError(errs.Validation("id", "is malformed"))
	}
	return id, nil
}

func toResponse(tok Token) tokenResponse {
	return tokenResponse{ID: tok.ID, Identity: tok.Identity, Expires: tok.Expires.UTC()}
}
