package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/example/ordens/internal/core/errs"
	"github.com/example/ordens/internal/ctxutil"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateRequest checks the validate tags of a request struct and reports the
// first failing field as an errs.ValidationError.
func validateRequest(entity string, req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("failed to validate %s: %w", entity, err)
	}

	fe := fieldErrs[0]
	return &errs.ValidationError{
		Entity: entity,
		Field:  snakeCase(fe.Field()),
		Reason: reasonFor(fe),
	}
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "numeric":
		return "must be numeric"
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}

// snakeCase turns a Go field name such as OrderNumber into order_number.
func snakeCase(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// requireActor returns the acting consultant or a ForbiddenError when the
// context carries none.
func requireActor(ctx context.Context, action string) (ctxutil.Actor, error) {
	actor := ctxutil.ActorFromContext(ctx)
	if actor.IsZero() {
		return actor, &errs.ForbiddenError{Action: action, Reason: "no acting consultant; log in or pass --as"}
	}
	return actor, nil
}
