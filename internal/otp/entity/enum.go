package entity

import "strings"

type Purpose int16

const (
	PurposeUnknown           Purpose = 0
	PurposeLogin             Purpose = 1
	PurposeRegistration      Purpose = 2
	PurposePasswordReset     Purpose = 3
	PurposePhoneVerification Purpose = 4
	PurposeTransaction       Purpose = 5
)

// Purposes lists every valid purpose in declaration order.
var Purposes = []Purpose{
	PurposeLogin,
	PurposeRegistration,
	PurposePasswordReset,
	PurposePhoneVerification,
	PurposeTransaction,
}

func PurposeFromString(raw string) Purpose {
	switch strings.TrimSpace(raw) {
	case "login":
		return PurposeLogin
	case "registration":
		return PurposeRegistration
	case "password_reset":
		return PurposePasswordReset
	case "phone_verification":
		return PurposePhoneVerification
	case "transaction":
		return PurposeTransaction
	default:
		return PurposeUnknown
	}
}

func (p Purpose) String() string {
	switch p {
	case PurposeLogin:
		return "login"
	case PurposeRegistration:
		return "registration"
	case PurposePasswordReset:
		return "password_reset"
	case PurposePhoneVerification:
		return "phone_verification"
	case PurposeTransaction:
		return "transaction"
	default:
		return "unknown"
	}
}

type Language string

const (
	LanguageEN Language = "en"
	LanguageAR Language = "ar"
)

// LanguageFromString maps anything other than "ar" to English.
func LanguageFromString(raw string) Language {
	if strings.EqualFold(strings.TrimSpace(raw), string(LanguageAR)) {
		return LanguageAR
	}
	return LanguageEN
}

func (l Language) String() string { return string(l) }

// VerifyReason is the outcome of a verification or delivery attempt. These
// are result values, not errors.
type VerifyReason int16

const (
	ReasonVerified          VerifyReason = 0
	ReasonNotFound          VerifyReason = 1
	ReasonExpired           VerifyReason = 2
	ReasonAlreadyUsed       VerifyReason = 3
	ReasonAttemptsExhausted VerifyReason = 4
	ReasonCodeMismatch      VerifyReason = 5
	ReasonDeliveryFailure   VerifyReason = 6
)

func (r VerifyReason) String() string {
	switch r {
	case ReasonVerified:
		return "verified"
	case ReasonNotFound:
		return "not_found"
	case ReasonExpired:
		return "expired"
	case ReasonAlreadyUsed:
		return "already_used"
	case ReasonAttemptsExhausted:
		return "attempts_exhausted"
	case ReasonCodeMismatch:
		return "code_mismatch"
	case ReasonDeliveryFailure:
		return "delivery_failure"
	default:
		return "unknown"
	}
}

// Mutation tells the store what to do with a record after Apply.
type Mutation int8

const (
	MutationNone Mutation = iota
	MutationSave
	MutationDelete
)
