package handler

import (
	"github.com/inkpost/blog-api/internal/pkg/validation"
)

// echoValidator adapts validation.Validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validation.Validator
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
// Field failures are reported as *domain.ValidationError named after json tags.
func NewValidator() *echoValidator {
	return &echoValidator{v: validation.New()}
}

// Validate satisfies the echo.Validator interface.
func (ev *echoValidator) Validate(i any) error {
	return ev.v.Struct(i)
}
