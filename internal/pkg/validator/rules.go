package validator

import (
	"log/slog"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

// otp_purpose mirrors the purposes the OTP engine accepts. It is kept here as
// a tag so request structs stay declarative.
var otpPurposes = map[string]struct{}{
	"login":              {},
	"registration":       {},
	"password_reset":     {},
	"phone_verification": {},
	"transaction":        {},
}

var ruleMessages = map[string]map[string]string{
	"otp_purpose": {
		"en": "{0} must be one of login, registration, password_reset, phone_verification, transaction",
		"ar": "يجب أن يكون {0} أحد القيم: login, registration, password_reset, phone_verification, transaction",
	},
	"notblank": {
		"en": "{0} must not be blank",
		"ar": "يجب ألا يكون {0} فارغاً",
	},
}

func registerRules(validate *validator.Validate) error {
	if err := validate.RegisterValidation("otp_purpose", func(fl validator.FieldLevel) bool {
		_, ok := otpPurposes[fl.Field().String()]
		return ok
	}); err != nil {
		return err
	}

	return validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}

func registerRuleTranslations(validate *validator.Validate, trans ut.Translator, lang string) error {
	for tag, messages := range ruleMessages {
		text := messages[lang]
		err := validate.RegisterTranslation(tag, trans,
			func(t ut.Translator) error {
				return t.Add(tag, text, true)
			},
			func(t ut.Translator, fe validator.FieldError) string {
				msg, err := t.T(fe.Tag(), fe.Field())
				if err != nil {
					slog.Warn("validator: translate failed", "tag", fe.Tag(), "error", err)
					return fe.Error()
				}
				return msg
			},
		)
		if err != nil {
			return err
		}
	}
	return nil
}
