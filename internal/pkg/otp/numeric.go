package otp

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strconv"
)

// ErrInvalidDigits is returned for a digit count outside [1, 18].
var ErrInvalidDigits = errors.New("otp: digits must be between 1 and 18")

// Generator produces codes.
type Generator interface {
	Generate() (string, error)
}

// Numeric generates fixed-length decimal codes.
type Numeric struct {
	low  int64
	span *big.Int
}

// NewNumeric returns a generator of digits-long codes.
func NewNumeric(digits int) (*Numeric, error) {
	if digits < 1 || digits > 18 {
		return nil, ErrInvalidDigits
	}

	low := int64(1)
	for range digits - 1 {
		low *= 10
	}
	high := low*10 - 1

	return &Numeric{low: low, span: big.NewInt(high - low + 1)}, nil
}

func (n *Numeric) Generate() (string, error) {
	v, err := rand.Int(rand.Reader, n.span)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.low+v.Int64(), 10), nil
}
