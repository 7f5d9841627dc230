package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/eco-education/internal/model"
)

// Validator adapts go-playground/validator to echo.Validator.  Besides the
// built-in rules it knows:
//
//	language      a supported model.Language
//	activitytype  a model.ActivityType
//	resourcetype  a model.ResourceType
//	category      a non-empty model.Category after trimming
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json names so clients see the fields they sent
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("language", func(fl validator.FieldLevel) bool {
		return model.Language(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("activitytype", func(fl validator.FieldLevel) bool {
		return model.ActivityType(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("resourcetype", func(fl validator.FieldLevel) bool {
		return model.ResourceType(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return model.NormalizeCategory(fl.Field().String()).Valid()
	})
	return &Validator{v: v}
}

// Validate implements echo.Validator.
func (cv *Validator) Validate(i interface{}) error { return cv.v.Struct(i) }

// fieldError is one entry of the "errors" array in a 400 response.
type fieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// fieldErrors flattens err into response entries.  Errors that did not come
// from the validator, such as malformed JSON, become a single body entry.
func fieldErrors(err error) []fieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []fieldError{{Field: "body", Rule: "json", Message: "request body is not valid JSON for this resource"}}
	}
	out := make([]fieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fieldError{Field: fieldPath(fe), Rule: fe.Tag(), Message: ruleMessage(fe)})
	}
	return out
}

// fieldPath drops the top-level struct name from the namespace, so
// "createUserReq.accessibilitySettings.textSize" becomes
// "accessibilitySettings.textSize".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be an absolute URL"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "language":
		return fmt.Sprintf("must be one of %s", joinLanguages())
	case "activitytype":
		return "must be one of transport, recycling, energy, consumption"
	case "resourcetype":
		return "must be one of pdf, video, article, guide"
	case "category":
		return fmt.Sprintf("must be a non-empty label of at most %d characters", model.MaxCategoryLen)
	}
	return "failed the " + fe.Tag() + " rule"
}

func joinLanguages() string {
	s := make([]string, len(model.SupportedLanguages))
	for i, l := range model.SupportedLanguages {
		s[i] = string(l)
	}
	return strings.Join(s, ", ")
}
