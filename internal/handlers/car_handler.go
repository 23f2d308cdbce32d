package handlers

import (
	"autolog/internal/models"
	"autolog/internal/services"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CarHandler handles HTTP requests for cars.
type CarHandler struct {
	service  *services.CarService
	validate *validator.Validate
	logger   *log.Logger
}

// NewCarHandler creates a new CarHandler.
func NewCarHandler(service *services.CarService, validate *validator.Validate, logger *log.Logger) *CarHandler {
	return &CarHandler{
		service:  service,
		validate: validate,
		logger:   logger,
	}
}

// RegisterRoutes registers the car routes behind guards.
func (h *CarHandler) RegisterRoutes(router fiber.Router, guards ...fiber.Handler) {
	router.Post("/addcar", chain(guards, h.HandleAddCar)...)
	router.Post("/searchcars", chain(guards, h.HandleSearchCars)...)
	router.Post("/getcarinfo", chain(guards, h.HandleGetCarInfo)...)
	router.Post("/updatecar", chain(guards, h.HandleUpdateCar)...)
	router.Post("/deletecar", chain(guards, h.HandleDeleteCar)...)
}

// CarFields are the user-editable attributes of a car.
type CarFields struct {
	Make     string `json:"make" validate:"required"`
	Model    string `json:"model" validate:"required"`
	Year     int    `json:"year" validate:"gte=0"`
	Odometer int    `json:"odometer" validate:"gte=0"`
	Color    string `json:"color"`
}

// AddCarRequest represents the request body for adding a car.
type AddCarRequest struct {
	UserID int64 `json:"userId" validate:"required"`
	CarFields
}

func (h *CarHandler) HandleAddCar(c *fiber.Ctx) error {
	var req AddCarRequest
	if err := bind(c, h.validate, &req); err != nil {
		return badRequest(c, err, nil)
	}
	if err := ownsUser(c, req.UserID); err != nil {
		return err
	}

	carID, err := h.service.Add(c.UserContext(), &models.Car{
		UserID:   req.UserID,
		Make:     req.Make,
		Model:    req.Model,
		Year:     req.Year,
		Odometer: req.Odometer,
		Color:    req.Color,
	})
	if err != nil {
		return fail(c, h.logger, err, nil)
	}
	return c.JSON(fiber.Map{"error": "", "carId": carID})
}

// SearchCarsRequest represents the request body for a car search.
type SearchCarsRequest struct {
	UserID int64  `json:"userId" validate:"required"`
	Search string `json:"search"`
}

// HandleSearchCars lists the user's cars matching a prefix, newest first.
func (h *CarHandler) HandleSearchCars(c *fiber.Ctx) error {
	failed := fiber.Map{"results": []models.Car{}}

	var req SearchCarsRequest
	if err := bind(c, h.validate, &req); err != nil {
		return badRequest(c, err, failed)
	}
	if err := ownsUser(c, req.UserID); err != nil {
		return err
	}

	results, err := h.service.Search(c.UserContext(), req.UserID, req.Search)
	if err != nil {
		return fail(c, h.logger, err, failed)
	}
	return c.JSON(fiber.Map{"results": results, "error": ""})
}

// CarIDRequest represents a request naming a single car.
type CarIDRequest struct {
	CarID int64 `json:"carId" validate:"required"`
}

func (h *CarHandler) HandleGetCarInfo(c *fiber.Ctx) error {
	failed := fiber.Map{"car": nil}

	var req CarIDRequest
	if err := bind(c, h.validate, &req); err != nil {
		return badRequest(c, err, failed)
	}
	if err := ownsCar(c, h.service, req.CarID); err != nil {
		return refuse(c, h.logger, err, failed)
	}

	car, err := h.service.Get(c.UserContext(), req.CarID)
	if err != nil {
		return fail(c, h.logger, err, failed)
	}
	return c.JSON(fiber.Map{"car": car, "error": ""})
}

// UpdateCarRequest represents the request body for updating a car.
type UpdateCarRequest struct {
	CarID int64 `json:"carId" validate:"required"`
	CarFields
}

// HandleUpdateCar overwrites a car's fields and refreshes its timestamp.
func (h *CarHandler) HandleUpdateCar(c *fiber.Ctx) error {
	var req UpdateCarRequest
	if err := bind(c, h.validate, &req); err != nil {
		return badRequest(c, err, nil)
	}
	if err := ownsCar(c, h.service, req.CarID); err != nil {
		return refuse(c, h.logger, err, nil)
	}

	err := h.service.Update(c.UserContext(), &models.Car{
		CarID:    req.CarID,
		Make:     req.Make,
		Model:    req.Model,
		Year:     req.Year,
		Odometer: req.Odometer,
		Color:    req.Color,
	})
	if err != nil {
		return fail(c, h.logger, err, nil)
	}
	return c.JSON(fiber.Map{"error": ""})
}

// DeleteCarRequest represents the request body for deleting a car.
type DeleteCarRequest struct {
	UserID int64 `json:"userId" validate:"required"`
	CarID  int64 `json:"carId" validate:"required"`
}

// HandleDeleteCar removes a car and all of its notes.
func (h *CarHandler) HandleDeleteCar(c *fiber.Ctx) error {
	var req DeleteCarRequest
	if err := bind(c, h.validate, &req); err != nil {
		return badRequest(c, err, nil)
	}
	if err := ownsUser(c, req.UserID); err != nil {
		return err
	}
	if err := ownsCar(c, h.service, req.CarID); err != nil {
		return refuse(c, h.logger, err, nil)
	}

	if err := h.service.Delete(c.UserContext(), req.UserID, req.CarID); err != nil {
		return fail(c, h.logger, err, nil)
	}
	return c.JSON(fiber.Map{"error": ""})
}
