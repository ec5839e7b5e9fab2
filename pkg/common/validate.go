package common

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/scienceol/chemdb/pkg/common/code"
)

// BindErr turns a gin binding failure into a ParamErr with per-field messages.
func BindErr(err error) *code.Error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return code.ParamErr.WithMsg(err.Error())
	}
	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[lowerFirst(fe.Field())] = fieldMsg(fe)
	}
	e := code.ParamErr.WithFields(fields)
	e.Msg = "validation failed"
	return e
}

func fieldMsg(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "uuid", "uuid4":
		return "must be a valid uuid"
	default:
		return fmt.Sprintf("failed on %s", fe.Tag())
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
