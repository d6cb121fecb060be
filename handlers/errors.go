package handlers

import (
	"errors"

	"climber/middleware"
	"climber/services"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders ladder errors as {"error": kind, "message": text, "request_id": id}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status, kind := fiber.StatusInternalServerError, "internal"
	message := "something went wrong, please try again"

	switch services.KindOf(err) {
	case services.KindInvalidPlayer, services.KindInvalidScore:
		status, kind, message = fiber.StatusBadRequest, string(services.KindOf(err)), err.Error()
	case services.KindNameTaken, services.KindPersistenceConflict:
		status, kind, message = fiber.StatusConflict, string(services.KindOf(err)), displayMessage(err)
	default:
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status, kind, message = fe.Code, "request", fe.Message
		}
	}

	return c.Status(status).JSON(fiber.Map{
		"error":      kind,
		"message":    message,
		"request_id": middleware.RequestID(c),
	})
}

// displayMessage drops wrapped database detail from conflict errors.
func displayMessage(err error) string {
	if services.KindOf(err) == services.KindPersistenceConflict {
		return services.ErrPersistenceConflict.Message
	}
	return err.Error()
}
