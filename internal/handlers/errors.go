package handlers

import (
	"errors"

	apperrors "bank/internal/errors"
	"bank/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// statusFor maps a classified failure to an HTTP status.
func statusFor(de *apperrors.DomainError) int {
	switch de.Kind {
	case apperrors.KindValidation:
		return fiber.StatusBadRequest
	case apperrors.KindInsufficientFunds, apperrors.KindInvalidAuthorizationCode, apperrors.KindLedger:
		return fiber.StatusUnprocessableEntity
	case apperrors.KindPersistence:
		if de.Retryable {
			return fiber.StatusServiceUnavailable
		}
	}
	return fiber.StatusInternalServerError
}

// writeError renders err with a human-readable message the client can show
// next to the form.
func writeError(c *fiber.Ctx, err error) error {
	var de *apperrors.DomainError
	if !errors.As(err, &de) {
		de = apperrors.Persistence(err).(*apperrors.DomainError)
	}
	if de.Kind == apperrors.KindPersistence && de.Retryable {
		c.Set(fiber.HeaderRetryAfter, "1")
	}
	return response.Failure(c, statusFor(de), de.Message, de.Code, de.Field)
}
