package middleware

import (
	"strconv"

	"exam-mixer/internal/domain"
	"exam-mixer/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const (
	LocalBankID    = "validated_bank_id"
	LocalListLimit = "validated_limit"

	defaultListLimit = 50
)

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewValidator(),
	}
}

// ValidateBankIDParam validates the :id path parameter as a question bank ID
func (vm *ValidationMiddleware) ValidateBankIDParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		bankID := c.Params("id")
		if errors := vm.validator.ValidateBankID(bankID); len(errors) > 0 {
			return errors
		}
		c.Locals(LocalBankID, bankID)
		return c.Next()
	}
}

// ValidateListParams validates the optional limit query parameter
func (vm *ValidationMiddleware) ValidateListParams() fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := defaultListLimit
		if raw := c.Query("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				return domain.ValidationErrors{domain.NewInvalidFormatError("limit", raw)}
			}
			limit = parsed
		}
		if errors := vm.validator.ValidateListLimit(limit); len(errors) > 0 {
			return errors
		}
		c.Locals(LocalListLimit, limit)
		return c.Next()
	}
}
