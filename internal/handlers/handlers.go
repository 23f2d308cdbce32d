// Package handlers exposes the AutoLog JSON API over Fiber.
//
// Every response body carries an "error" string that is empty on success.
// Malformed or invalid requests get 400, business failures such as a missing
// car get 200 with the error set, and store or mail failures get 500.
package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"autolog/internal/middleware"
	"autolog/internal/services"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const passwordSymbols = `!@#$%^&*()_+{}[]:;<>,.?~\|-`

// NewValidator returns a validator that reports JSON field names and knows
// the "password" rule: 8 to 20 characters with a lower and upper case
// letter, a digit and a symbol, and no whitespace.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return strongPassword(fl.Field().String())
	})
	return v
}

func strongPassword(s string) bool {
	if n := utf8.RuneCountInString(s); n < 8 || n > 20 {
		return false
	}
	var lower, upper, digit, symbol bool
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			return false
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}

// bind parses the body into req and validates it. The error text is meant
// for the client.
func bind(c *fiber.Ctx, v *validator.Validate, req any) error {
	if err := c.BodyParser(req); err != nil {
		return errors.New("Invalid request body")
	}
	if err := v.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) || len(verrs) == 0 {
			return err
		}
		return errors.New(describe(verrs[0]))
	}
	return nil
}

func describe(e validator.FieldError) string {
	switch e.Tag() {
	case "email":
		return "Invalid email format"
	case "password":
		return "Password must be 8-20 characters with upper and lower case letters, a number and a symbol"
	case "required":
		return fmt.Sprintf("Field '%s' is required", e.Field())
	default:
		return fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
	}
}

// badRequest writes a 400 with extra merged into the body.
func badRequest(c *fiber.Ctx, err error, extra fiber.Map) error {
	return c.Status(fiber.StatusBadRequest).JSON(withError(extra, err.Error()))
}

// fail reports a service error: business failures as 200, everything else
// as 500. extra holds the payload fields a failed call still returns.
func fail(c *fiber.Ctx, logger *log.Logger, err error, extra fiber.Map) error {
	if services.IsBusinessError(err) {
		return c.Status(fiber.StatusOK).JSON(withError(extra, err.Error()))
	}

	logger.Error("request failed", "path", c.Path(), "err", err)
	msg := err.Error()
	if errors.Is(err, services.ErrMailDelivery) {
		msg = services.ErrMailDelivery.Error()
	}
	return c.Status(fiber.StatusInternalServerError).JSON(withError(extra, msg))
}

func withError(extra fiber.Map, msg string) fiber.Map {
	body := fiber.Map{"error": msg}
	for k, v := range extra {
		body[k] = v
	}
	return body
}

// ownsUser rejects authenticated callers naming another user.
func ownsUser(c *fiber.Ctx, userID int64) error {
	if id, ok := middleware.UserID(c); ok && id != userID {
		return fiber.NewError(fiber.StatusForbidden, "Forbidden")
	}
	return nil
}

// ownsCar rejects authenticated callers touching another user's car. Missing
// cars pass so the handler reports them as usual; any other lookup error is
// returned unchanged.
func ownsCar(c *fiber.Ctx, cars *services.CarService, carID int64) error {
	id, ok := middleware.UserID(c)
	if !ok {
		return nil
	}
	car, err := cars.Get(c.UserContext(), carID)
	if errors.Is(err, services.ErrCarNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if car.UserID != id {
		return fiber.NewError(fiber.StatusForbidden, "Forbidden")
	}
	return nil
}

// refuse answers a failed ownership check. Forbidden keeps its status;
// lookup errors are reported through fail.
func refuse(c *fiber.Ctx, logger *log.Logger, err error, extra fiber.Map) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(withError(extra, fe.Message))
	}
	return fail(c, logger, err, extra)
}

func chain(guards []fiber.Handler, h fiber.Handler) []fiber.Handler {
	out := make([]fiber.Handler, 0, len(guards)+1)
	out = append(out, guards...)
	return append(out, h)
}
