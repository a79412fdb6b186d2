package check

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/pulsewatch/pulsewatch/internal/authz"
	"github.com/pulsewatch/pulsewatch/internal/errs"
	"github.com/pulsewatch/pulsewatch/internal/random"
	"github.com/pulsewatch/pulsewatch/internal/token"
)

// Handler exposes check HTTP endpoints. Creation resolves the owner from
// the caller's token; the other operations are gated inside the registry.
type Handler struct {
	registry *Registry
	tokens   *token.Authority
}

// NewHandler builds a check HTTP handler.
func NewHandler(registry *Registry, tokens *token.Authority) *Handler {
	return &Handler{registry: registry, tokens: tokens}
}

func httpError(err error) *fiber.Error {
	return fiber.NewError(errs.HTTPStatus(err), err.Error())
}

type specRequest struct {
	Protocol       string `json:"protocol"`
	URL            string `json:"url"`
	Method         string `json:"method"`
	SuccessCodes   []int  `json:"successCodes"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
}

// Create registers a check owned by the identity the caller's token is
// bound to.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req specRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	tok, err := h.tokens.Fetch(c.UserContext(), authz.BearerToken(c))
	if err != nil || tok.Expired(time.Now()) {
		return httpError(errs.ErrForbidden)
	}

	created, err := h.registry.Create(c.UserContext(), tok.Identity, Spec{
		Protocol:       req.Protocol,
		URL:            req.URL,
		Method:         req.Method,
		SuccessCodes:   req.SuccessCodes,
		TimeoutSeconds: req.TimeoutSeconds,
	})
	if err != nil {
		return httpError(err)
	}
	return c.Status(http.StatusCreated).JSON(created)
}

// Get returns a check the caller's token is authorized for.
func (h *Handler) Get(c *fiber.Ctx) error {
	id, err := requiredCheckID(c)
	if err != nil {
		return err
	}
	found, err := h.registry.Get(c.UserContext(), id, authz.BearerToken(c))
	if err != nil {
		return httpError(err)
	}
	return c.Status(http.StatusOK).JSON(found)
}

type updateRequest struct {
	ID string `json:"id"`
	specRequest
}

// Update merges the supplied fields into the stored check.
func (h *Handler) Update(c *fiber.Ctx) error {
	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if !random.WellFormedID(req.ID) {
		return httpError(errs.Validation("id", "is malformed"))
	}
	err := h.registry.Update(c.UserContext(), req.ID, authz.BearerToken(c), UpdateInput{
		Protocol:       req.Protocol,
		URL:            req.URL,
		Method:         req.Method,
		SuccessCodes:   req.SuccessCodes,
		TimeoutSeconds: req.TimeoutSeconds,
	})
	if err != nil {
		return httpError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "updated"})
}

// Delete removes a check and its back-reference on the owner.
func (h *Handler) Delete(c *fiber.Ctx) error {
	id, err := requiredCheckID(c)
	if err != nil {
		return err
	}
	if err := h.registry.Delete(c.UserContext(), id, authz.BearerToken(c)); err != nil {
		return httpError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "deleted"})
}

func requiredCheckID(c *fiber.Ctx) (string, error) {
	id := c.Query("id")
	if !random.WellFormedID(id) {
		return "", httpError(errs.Validation("id", "is malformed"))
	}
	return id, nil
}
