package entity

import "strings"

type Channel int16

const (
	ChannelUnknown Channel = 0
	ChannelEmail   Channel = 2
)

func ChannelFromString(raw string) Channel {
	if strings.TrimSpace(raw) == "email" {
		return ChannelEmail
	}
	return ChannelUnknown
}

func (c Channel) String() string {
	if c == ChannelEmail {
		return "email"
	}
	return "unknown"
}

type DeliveryStatus int16

const (
	DeliveryStatusUnknown DeliveryStatus = 0
	DeliveryStatusQueued  DeliveryStatus = 1
	DeliveryStatusSent    DeliveryStatus = 3
	DeliveryStatusFailed  DeliveryStatus = 4
)

func (s DeliveryStatus) String() string {
	switch s {
	case DeliveryStatusQueued:
		return "queued"
	case DeliveryStatusSent:
		return "sent"
	case DeliveryStatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type TriggerKey string

const (
	TriggerKeyOTPRequested TriggerKey = "otp_requested"
	TriggerKeyOTPVerified  TriggerKey = "otp_verified"
)

func (tk TriggerKey) String() string {
	return string(tk)
}
