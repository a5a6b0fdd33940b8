package middleware

import (
	"errors"
	"log"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// GenericErrorMessage is the body of every unexpected server failure.
const GenericErrorMessage = "Something went wrong!"

// ErrorHandler is the application's fiber.Config.ErrorHandler. Fiber errors
// such as 404 for unknown routes keep their status; everything else is
// logged and reported as a generic 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code != fiber.StatusInternalServerError {
		return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
	}

	log.Printf("Unhandled error on %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": GenericErrorMessage,
	})
}

// Recover turns panics into errors for ErrorHandler and logs the stack.
func Recover() fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			log.Printf("panic on %s %s: %v\n%s", c.Method(), c.Path(), e, debug.Stack())
		},
	})
}
