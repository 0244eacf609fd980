package event

import "time"

const OTPVerifiedDestination string = "otp_verified"
const OTPVerifiedConsumerNotification string = "otp_verified_notification"

type OTPVerifiedMessage struct {
	EventID    string    `json:"event_id"`
	Phone      string    `json:"phone"`
	Email      string    `json:"email,omitempty"`
	Purpose    string    `json:"purpose"`
	Language   string    `json:"language"`
	VerifiedAt time.Time `json:"verified_at"`
}
