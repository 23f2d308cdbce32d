package handlers

import (
	"autolog/internal/models"
	"autolog/internal/services"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// NoteHandler handles HTTP requests for car notes.
type NoteHandler struct {
	service  *services.NoteService
	cars     *services.CarService
	validate *validator.Validate
	logger   *log.Logger
}

// NewNoteHandler creates a new NoteHandler. cars is used for ownership checks
// when requests are authenticated.
func NewNoteHandler(service *services.NoteService, cars *services.CarService, validate *validator.Validate, logger *log.Logger) *NoteHandler {
	return &NoteHandler{
		service:  service,
		cars:     cars,
		validate: validate,
		logger:   logger,
	}
}

// RegisterRoutes registers the note routes behind guards.
func (h *NoteHandler) RegisterRoutes(router fiber.Router, guards ...fiber.Handler) {
	router.Post("/addnote", chain(guards, h.HandleAddNote)...)
	router.Post("/getcarnotes", chain(guards, h.HandleGetCarNotes)...)
	router.Post("/updatenote", chain(guards, h.HandleUpdateNote)...)
	router.Post("/deletenote", chain(guards, h.HandleDeleteNote)...)
}

// NoteFields are the user-editable attributes of a note.
type NoteFields struct {
	Note        string `json:"note" validate:"required"`
	Type        string `json:"type"`
	Miles       int    `json:"miles" validate:"gte=0"`
	DateCreated string `json:"dateCreated"`
}

// AddNoteRequest represents the request body for adding a note.
type AddNoteRequest struct {
	CarID int64 `json:"carId" validate:"required"`
	NoteFields
}

func (h *NoteHandler) HandleAddNote(c *fiber.Ctx) error {
	var req AddNoteRequest
	if err := bind(c, h.validate, &req); err != nil {
		return badRequest(c, err, nil)
	}
	if err := ownsCar(c, h.cars, req.CarID); err != nil {
		return refuse(c, h.logger, err, nil)
	}

	noteID, err := h.service.Add(c.UserContext(), &models.CarNote{
		CarID:       req.CarID,
		Note:        req.Note,
		Type:        req.Type,
		Miles:       req.Miles,
		DateCreated: req.DateCreated,
	})
	if err != nil {
		return fail(c, h.logger, err, nil)
	}
	return c.JSON(fiber.Map{"error": "", "noteId": noteID})
}

func (h *NoteHandler) HandleGetCarNotes(c *fiber.Ctx) error {
	failed := fiber.Map{"notes": []models.CarNote{}}

	var req CarIDRequest
	if err := bind(c, h.validate, &req); err != nil {
		return badRequest(c, err, failed)
	}
	if err := ownsCar(c, h.cars, req.CarID); err != nil {
		return refuse(c, h.logger, err, failed)
	}

	notes, err := h.service.List(c.UserContext(), req.CarID)
	if err != nil {
		return fail(c, h.logger, err, failed)
	}
	return c.JSON(fiber.Map{"notes": notes, "error": ""})
}

// UpdateNoteRequest represents the request body for updating a note.
type UpdateNoteRequest struct {
	CarID  int64 `json:"carId" validate:"required"`
	NoteID int64 `json:"noteId" validate:"required"`
	NoteFields
}

func (h *NoteHandler) HandleUpdateNote(c *fiber.Ctx) error {
	var req UpdateNoteRequest
	if err := bind(c, h.validate, &req); err != nil {
		return badRequest(c, err, nil)
	}
	if err := ownsCar(c, h.cars, req.CarID); err != nil {
		return refuse(c, h.logger, err, nil)
	}

	err := h.service.Update(c.UserContext(), &models.CarNote{
		NoteID:      req.NoteID,
		CarID:       req.CarID,
		Note:        req.Note,
		Type:        req.Type,
		Miles:       req.Miles,
		DateCreated: req.DateCreated,
	})
	if err != nil {
		return fail(c, h.logger, err, nil)
	}
	return c.JSON(fiber.Map{"error": ""})
}

// DeleteNoteRequest represents the request body for deleting a note.
type DeleteNoteRequest struct {
	CarID  int64 `json:"carId" validate:"required"`
	NoteID int64 `json:"noteId" validate:"required"`
}

func (h *NoteHandler) HandleDeleteNote(c *fiber.Ctx) error {
	var req DeleteNoteRequest
	if err := bind(c, h.validate, &req); err != nil {
		return badRequest(c, err, nil)
	}
	if err := ownsCar(c, h.cars, req.CarID); err != nil {
		return refuse(c, h.logger, err, nil)
	}

	if err := h.service.Delete(c.UserContext(), req.CarID, req.NoteID); err != nil {
		return fail(c, h.logger, err, nil)
	}
	return c.JSON(fiber.Map{"error": ""})
}
