package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// ValidationConfig maps validator tags to messages for binding errors.
type ValidationConfig struct {
	CustomErrorMessages map[string]string
}

func DefaultValidationConfig() ValidationConfig {
	return ValidationConfig{
		CustomErrorMessages: map[string]string{
			"required": "is required",
			"gte":      "must be at least %s",
			"lte":      "must be at most %s",
		},
	}
}

var registerTagNames sync.Once

// RegisterJSONTagNames makes validation errors report json field names.
func RegisterJSONTagNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
}

// Message turns a binding error into a client-facing message.
func (cfg ValidationConfig) Message(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, e := range verrs {
			msg, ok := cfg.CustomErrorMessages[e.Tag()]
			if !ok {
				msg = "failed on " + e.Tag()
			}
			if strings.Contains(msg, "%s") {
				msg = fmt.Sprintf(msg, e.Param())
			}
			msgs = append(msgs, e.Field()+" "+msg)
		}
		return strings.Join(msgs, "; ")
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Sprintf("%s must be a %s", typeErr.Field, typeErr.Type.String())
	}
	return "invalid request body"
}
