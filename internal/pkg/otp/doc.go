// Package otp generates one-time numeric codes.
//
// Codes are drawn from crypto/rand, uniform over the d-digit range
// [10^(d-1), 10^d - 1], so a code never starts with zero.
package otp
