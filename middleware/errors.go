package middleware

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"lms/apperrors"
)

// AppErrorResponse translates a typed application error into the transport
// response. Unknown errors are logged and surface as a plain 500.
func AppErrorResponse(c *fiber.Ctx, err error) error {
	var notFoundErr *apperrors.NotFoundError
	if errors.As(err, &notFoundErr) {
		return JsonResponse(c, fiber.StatusNotFound, false, notFoundErr.Error()+"!", nil)
	}

	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) {
		return JsonResponse(c, fiber.StatusBadRequest, false, validationErr.Message, fiber.Map{
			"errors": validationErr.Fields,
		})
	}

	var conflictErr *apperrors.ConflictError
	if errors.As(err, &conflictErr) {
		return JsonResponse(c, fiber.StatusBadRequest, false, conflictErr.Message, fiber.Map{
			"nonFieldErrors": []string{conflictErr.Message},
		})
	}

	log.Printf("Unhandled application error: %v", err)
	return JsonResponse(c, fiber.StatusInternalServerError, false, "Something went wrong!", nil)
}
