package user

import (
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/pulsewatch/pulsewatch/internal/authz"
	"github.com/pulsewatch/pulsewatch/internal/errs"
)

// Handler exposes user HTTP endpoints.
type Handler struct {
	dir  *Directory
	gate *authz.Gate
}

// NewHandler builds a user HTTP handler.
func NewHandler(dir *Directory, gate *authz.Gate) *Handler {
	return &Handler{dir: dir, gate: gate}
}

func httpError(err error) *fiber.Error {
	return fiber.NewError(errs.HTTPStatus(err), err.Error())
}

type createRequest struct {
	Identity      string `json:"identity"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Password      string `json:"password"`
	AgreedToTerms bool   `json:"agreedToTerms"`
}

type userResponse struct {
	Identity      string   `json:"identity"`
	FirstName     string   `json:"firstName"`
	LastName      string   `json:"lastName"`
	CheckIDs      []string `json:"checkIds"`
	AgreedToTerms bool     `json:"agreedToTerms"`
}

// Create registers a new user.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	err := h.dir.Create(c.UserContext(), CreateInput{
		Identity:      req.Identity,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Password:      req.Password,
		AgreedToTerms: req.AgreedToTerms,
	})
	if err != nil {
		return httpError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"identity": req.Identity})
}

// Get returns the profile of the identity named in the query, provided the
// caller's token is bound to it. The password digest is never included.
func (h *Handler) Get(c *fiber.Ctx) error {
	identity, err := requiredIdentity(c)
	if err != nil {
		return err
	}
	if !h.gate.Authorize(c.UserContext(), authz.BearerToken(c), identity) {
		return httpError(errs.ErrForbidden)
	}
	u, err := h.dir.Get(c.UserContext(), identity)
	if err != nil {
		return httpError(err)
	}
	return c.Status(http.StatusOK).JSON(userResponse{
		Identity:      u.Identity,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		CheckIDs:      u.CheckIDs,
		AgreedToTerms: u.AgreedToTerms,
	})
}

type updateRequest struct {
	Identity  string `json:"identity"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Password  string `json:"password"`
}

// Update merges the provided profile fields into the stored record.
func (h *Handler) Update(c *fiber.Ctx) error {
	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if len(req.Identity) != IdentityLength {
		return httpError(errs.Validation("identity", fmt.Sprintf("must be %d characters", IdentityLength)))
	}
	if !h.gate.Authorize(c.UserContext(), authz.BearerToken(c), req.Identity) {
		return httpError(errs.ErrForbidden)
	}
	err := h.dir.Update(c.UserContext(), req.Identity, UpdateInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		return httpError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "updated"})
}

// Delete removes the user and cascades to owned checks.
func (h *Handler) Delete(c *fiber.Ctx) error {
	identity, err := requiredIdentity(c)
	if err != nil {
		return err
	}
	if !h.gate.Authorize(c.UserContext(), authz.BearerToken(c), identity) {
		return httpError(errs.ErrForbidden)
	}
	if err := h.dir.Delete(c.UserContext(), identity); err != nil {
		return httpError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "deleted"})
}

func requiredIdentity(c *fiber.Ctx) (string, error) {
	identity := c.Query("identity")
	if len(identity) != IdentityLength {
		return "", httpError(errs.Validation("identity", fmt.Sprintf("must be %d characters", IdentityLength)))
	}
	return identity, nil
}
