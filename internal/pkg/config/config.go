package config

import (
	"io"
	"time"
)

// Config is the read side of the service configuration.
//
// Keys are dotted paths into the config file (for example
// "modules.otp.insecure_dev_fallback"). Missing keys yield the zero value of
// the requested type; callers decide what zero means.
type Config interface {
	io.Closer

	GetBool(key string) bool
	GetString(key string) string
	GetInt(key string) int
	GetInt32(key string) int32
	GetUint16(key string) uint16
	GetFloat64(key string) float64

	// GetSecond reads an integer and scales it to seconds.
	GetSecond(key string) time.Duration
	// GetMinute reads an integer and scales it to minutes.
	GetMinute(key string) time.Duration

	// GetBinary reads a base64 encoded value. Invalid base64 yields nil.
	GetBinary(key string) []byte

	// GetArray reads either a YAML sequence or a "a,b,c" string. Entries are
	// trimmed and empty entries are dropped.
	GetArray(key string) []string
}
