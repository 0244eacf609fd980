package i18n

// Message keys.
const (
	OTPSent            = "otp_sent"
	OTPSentDev         = "otp_sent_dev"
	OTPSendUnavailable = "otp_send_unavailable"
	OTPSendFailed      = "otp_send_failed"
	OTPNotFound        = "otp_not_found"
	OTPExpired         = "otp_expired"
	OTPAlreadyUsed     = "otp_already_used"
	OTPMaxAttempts     = "otp_max_attempts"
	OTPInvalidMax      = "otp_invalid_max"
	OTPInvalid         = "otp_invalid"
	OTPVerified        = "otp_verified"

	WhatsAppOTPBody = "whatsapp_otp_body"

	EmailOTPRequestedSubject  = "email_otp_requested_subject"
	EmailOTPRequestedHeadline = "email_otp_requested_headline"
	EmailOTPRequestedBody     = "email_otp_requested_body"
	EmailOTPVerifiedSubject   = "email_otp_verified_subject"
	EmailOTPVerifiedHeadline  = "email_otp_verified_headline"
	EmailOTPVerifiedBody      = "email_otp_verified_body"
	EmailFooter               = "email_footer"
)

var messages = map[string]map[string]string{
	LangEN: {
		OTPSent:            "OTP sent successfully",
		OTPSentDev:         "OTP generated (development mode): {0}",
		OTPSendUnavailable: "OTP delivery is unavailable",
		OTPSendFailed:      "Failed to send OTP",
		OTPNotFound:        "OTP not found or expired",
		OTPExpired:         "OTP has expired",
		OTPAlreadyUsed:     "OTP has already been used",
		OTPMaxAttempts:     "Maximum verification attempts exceeded",
		OTPInvalidMax:      "Invalid OTP. Maximum attempts exceeded",
		OTPInvalid:         "Invalid OTP",
		OTPVerified:        "OTP verified successfully",

		WhatsAppOTPBody: "Your PayDota verification code is {0}. It expires in {1} minutes. Never share this code with anyone.",

		EmailOTPRequestedSubject:  "PayDota: verification code requested",
		EmailOTPRequestedHeadline: "A verification code was requested",
		EmailOTPRequestedBody:     "A one-time code for {0} was sent to {1}. It is valid until {2}. If this was not you, contact PayDota support immediately.",
		EmailOTPVerifiedSubject:   "PayDota: verification completed",
		EmailOTPVerifiedHeadline:  "Your verification was completed",
		EmailOTPVerifiedBody:      "The one-time code for {0} on {1} was verified at {2}. If this was not you, contact PayDota support immediately.",
		EmailFooter:               "This is an automated security notice from PayDota.",
	},
	LangAR: {
		OTPSent:            "تم إرسال رمز التحقق بنجاح",
		OTPSentDev:         "تم إنشاء رمز التحقق (وضع التطوير): {0}",
		OTPSendUnavailable: "خدمة إرسال رمز التحقق غير متاحة",
		OTPSendFailed:      "فشل إرسال رمز التحقق",
		OTPNotFound:        "رمز التحقق غير موجود أو منتهي الصلاحية",
		OTPExpired:         "انتهت صلاحية رمز التحقق",
		OTPAlreadyUsed:     "تم استخدام رمز التحقق مسبقاً",
		OTPMaxAttempts:     "تم تجاوز الحد الأقصى لمحاولات التحقق",
		OTPInvalidMax:      "رمز التحقق غير صحيح. تم تجاوز الحد الأقصى للمحاولات",
		OTPInvalid:         "رمز التحقق غير صحيح",
		OTPVerified:        "تم التحقق من الرمز بنجاح",

		WhatsAppOTPBody: "رمز التحقق الخاص بك في PayDota هو {0}. تنتهي صلاحيته خلال {1} دقائق. لا تشارك هذا الرمز مع أي شخص.",

		EmailOTPRequestedSubject:  "PayDota: تم طلب رمز تحقق",
		EmailOTPRequestedHeadline: "تم طلب رمز تحقق",
		EmailOTPRequestedBody:     "تم إرسال رمز لمرة واحدة لغرض {0} إلى {1}. الرمز صالح حتى {2}. إذا لم تكن أنت، تواصل مع دعم PayDota فوراً.",
		EmailOTPVerifiedSubject:   "PayDota: اكتمل التحقق",
		EmailOTPVerifiedHeadline:  "اكتمل التحقق بنجاح",
		EmailOTPVerifiedBody:      "تم التحقق من الرمز لغرض {0} على الرقم {1} في {2}. إذا لم تكن أنت، تواصل مع دعم PayDota فوراً.",
		EmailFooter:               "هذا إشعار أمني تلقائي من PayDota.",
	},
}
