// Package validation wires go-playground/validator with English messages and
// JSON field names.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

const notBlankTag = "notblank"

// Validator pairs a validator instance with its English translator.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// New builds a Validator reporting fields by their JSON names.
func New() *Validator {
	v := validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	trans, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation(notBlankTag, func(fl validator.FieldLevel) bool {
		if s, ok := fl.Field().Interface().(string); ok {
			return strings.TrimSpace(s) != ""
		}
		return true
	})
	_ = v.RegisterTranslation(notBlankTag, trans,
		func(t ut.Translator) error { return t.Add(notBlankTag, "{0} cannot be blank", true) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(notBlankTag, fe.Field())
			return msg
		})

	return &Validator{validate: v, translator: trans}
}

// Struct validates s and returns its issues as "<field>: <reason>" strings.
// A nil slice means s is valid.
func (v *Validator) Struct(s interface{}) ([]string, error) {
	err := v.validate.Struct(s)
	if err == nil {
		return nil, nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil, err
	}
	return v.Issues(fieldErrs), nil
}

// Issues converts validation errors into field issues.
func (v *Validator) Issues(errs validator.ValidationErrors) []string {
	issues := make([]string, 0, len(errs))
	for _, fe := range errs {
		field := fieldPath(fe)
		msg := fe.Translate(v.translator)
		reason := strings.TrimSpace(strings.TrimPrefix(msg, fe.Field()))
		if reason == "" {
			reason = fe.Tag()
		}
		issues = append(issues, field+": "+reason)
	}
	return issues
}

// fieldPath drops the struct name from the namespace, so a nested subject
// reads "subjects[0].name".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return fe.Field()
}
