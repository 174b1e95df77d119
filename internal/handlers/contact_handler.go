package handlers

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"contactbook/internal/apperrors"
	"contactbook/internal/middleware"
	"contactbook/internal/models"
	"contactbook/internal/services"
)

// ContactHandler handles HTTP requests for a user's contacts. All routes
// are guarded, the owner is always the authenticated user.
type ContactHandler struct {
	service  *services.ContactService
	validate *validator.Validate
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(service *services.ContactService) *ContactHandler {
	return &ContactHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the contact routes with the Fiber app. The
// guard middleware is applied to the whole group.
func (h *ContactHandler) RegisterRoutes(router fiber.Router, guard fiber.Handler) {
	contacts := router.Group("/contacts", guard)
	contacts.Get("/", h.HandleList)
	contacts.Get("/:id", h.HandleGet)
	contacts.Post("/", h.HandleCreate)
	contacts.Put("/:id", h.HandleUpdate)
	contacts.Delete("/:id", h.HandleDelete)
	contacts.Patch("/:id/favorite", h.HandleUpdateFavorite)
}

// ContactRequest represents the request body for creating or updating a
// contact.
type ContactRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,number"`
	Favorite bool   `json:"favorite"`
}

// FavoriteRequest represents the request body for the favorite toggle.
// Favorite is a pointer so a missing field fails validation instead of
// silently defaulting to false.
type FavoriteRequest struct {
	Favorite *bool `json:"favorite" validate:"required"`
}

// HandleList returns every contact of the authenticated user.
func (h *ContactHandler) HandleList(c *fiber.Ctx) error {
	owner := middleware.CurrentUser(c)

	contacts, err := h.service.ListContacts(c.Context(), owner.ID)
	if err != nil {
		log.Printf("Error listing contacts: %v", err)
		return serverError(c)
	}
	return c.JSON(contacts)
}

// HandleGet returns a single contact of the authenticated user.
func (h *ContactHandler) HandleGet(c *fiber.Ctx) error {
	owner := middleware.CurrentUser(c)

	contact, err := h.service.GetContact(c.Context(), owner.ID, c.Params("id"))
	if err != nil {
		return h.translateError(c, err)
	}
	return c.JSON(contact)
}

// HandleCreate stores a new contact for the authenticated user.
func (h *ContactHandler) HandleCreate(c *fiber.Ctx) error {
	owner := middleware.CurrentUser(c)

	var req ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationMessages(err),
		})
	}

	contact, err := h.service.CreateContact(c.Context(), owner.ID, &models.Contact{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Favorite: req.Favorite,
	})
	if err != nil {
		return h.translateError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(contact)
}

// HandleUpdate replaces the fields of an existing contact.
func (h *ContactHandler) HandleUpdate(c *fiber.Ctx) error {
	owner := middleware.CurrentUser(c)

	var req ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationMessages(err),
		})
	}

	contact, err := h.service.UpdateContact(c.Context(), owner.ID, c.Params("id"), &models.Contact{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Favorite: req.Favorite,
	})
	if err != nil {
		return h.translateError(c, err)
	}
	return c.JSON(contact)
}

// HandleDelete removes a contact of the authenticated user.
func (h *ContactHandler) HandleDelete(c *fiber.Ctx) error {
	owner := middleware.CurrentUser(c)

	if err := h.service.DeleteContact(c.Context(), owner.ID, c.Params("id")); err != nil {
		return h.translateError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "contact deleted",
	})
}

// HandleUpdateFavorite sets the favorite flag on a contact. The body must
// carry a boolean "favorite" field; anything else is a validation error.
func (h *ContactHandler) HandleUpdateFavorite(c *fiber.Ctx) error {
	owner := middleware.CurrentUser(c)

	var req FavoriteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "missing field favorite",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "missing field favorite",
		})
	}

	contact, err := h.service.UpdateFavorite(c.Context(), owner.ID, c.Params("id"), *req.Favorite)
	if err != nil {
		return h.translateError(c, err)
	}
	return c.JSON(contact)
}

func (h *ContactHandler) translateError(c *fiber.Ctx, err error) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Not found",
		})
	}
	log.Printf("Contact handler error: %v", err)
	return serverError(c)
}
