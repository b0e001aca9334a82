package relay

import (
	"errors"
	"slices"
	"strings"

	"github.com/GriffinCanCode/relay/internal/shared/types"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Methods lists the HTTP methods the relay dispatches
var Methods = []string{
	"GET", "HEAD", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "TRACE", "CONNECT",
}

type specInput struct {
	URL    string `validate:"notblank"`
	Method string `validate:"httpmethod"`
}

// Validator turns wire payloads into RequestSpecs. Safe for concurrent use.
type Validator struct {
	v *validator.Validate
}

// NewValidator creates a validator
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterValidation("httpmethod", func(fl validator.FieldLevel) bool {
		return slices.Contains(Methods, fl.Field().String())
	})
	return &Validator{v: v}
}

// Validate checks req and builds a RequestSpec, or returns an InputError
func (val *Validator) Validate(req *types.ProxyRequest) (*RequestSpec, error) {
	if req == nil {
		return nil, NewInputError(MsgURLRequired)
	}

	in := specInput{
		URL:    strings.TrimSpace(req.URL),
		Method: normalizeMethod(req.Method),
	}

	if err := val.v.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) || len(verrs) == 0 {
			return nil, err
		}
		// Fields report in declaration order, so a missing URL wins.
		if verrs[0].Field() == "Method" {
			return nil, NewInputError(MsgUnsupportedMethod + in.Method)
		}
		return nil, NewInputError(MsgURLRequired)
	}

	kind, body, err := parseBody(req)
	if err != nil {
		return nil, NewInputError(MsgInvalidPayload)
	}

	return &RequestSpec{
		url:      in.URL,
		method:   in.Method,
		headers:  dedupeHeaders(req.Headers),
		bodyKind: kind,
		body:     body,
	}, nil
}

func normalizeMethod(method string) string {
	m := strings.ToUpper(strings.TrimSpace(method))
	if m == "" {
		return "GET"
	}
	return m
}
