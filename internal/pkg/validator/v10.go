package validator

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/locales/ar"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	arTranslations "github.com/go-playground/validator/v10/translations/ar"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/shandysiswandi/paydota/internal/pkg/strcase"
)

// ErrTranslatorNotFound indicates the requested translator is unavailable.
var ErrTranslatorNotFound = errors.New("translator not found")

// V10ValidationError maps snake_case field names to translated messages.
type V10ValidationError map[string]string

func (vs V10ValidationError) Error() string {
	if len(vs) == 0 {
		return "validation error"
	}

	b, err := json.Marshal(vs)
	if err != nil {
		return fmt.Sprintf("validation error (failed to marshal: %v)", err)
	}
	return string(b)
}

// Values returns the field error map.
func (vs V10ValidationError) Values() map[string]string {
	return vs
}

// V10Validator implements Validator using go-playground/validator v10.
type V10Validator struct {
	validate    *validator.Validate
	translators map[string]ut.Translator
	fallback    ut.Translator
}

type registerFunc func(*validator.Validate, ut.Translator) error

// NewV10Validator constructs a V10Validator with English and Arabic
// translations and the OTP-specific rules.
func NewV10Validator() (*V10Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := registerRules(validate); err != nil {
		return nil, err
	}

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale, ar.New())

	defaults := map[string]registerFunc{
		"en": enTranslations.RegisterDefaultTranslations,
		"ar": arTranslations.RegisterDefaultTranslations,
	}

	v := &V10Validator{validate: validate, translators: make(map[string]ut.Translator, len(defaults))}
	for lang, register := range defaults {
		trans, ok := uni.GetTranslator(lang)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrTranslatorNotFound, lang)
		}
		if err := register(validate, trans); err != nil {
			return nil, err
		}
		if err := registerRuleTranslations(validate, trans, lang); err != nil {
			return nil, err
		}
		v.translators[lang] = trans
	}
	v.fallback = v.translators["en"]

	return v, nil
}

func (v *V10Validator) Validate(data any) error {
	return v.ValidateLocale("en", data)
}

func (v *V10Validator) ValidateLocale(lang string, data any) error {
	err := v.validate.Struct(data)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	trans, ok := v.translators[lang]
	if !ok {
		trans = v.fallback
	}

	out := make(V10ValidationError, len(fieldErrs))
	for _, fe := range fieldErrs {
		out[strcase.ToLowerSnake(fe.Field())] = fe.Translate(trans)
	}
	return out
}
