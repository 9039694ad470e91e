package internal

import (
	"crypto/rand"
	"math/big"
	"strconv"
)

const (
	otpMin = 100000
	otpMax = 999999
)

// NewOTP returns a uniform random 6-digit decimal code in [100000, 999999].
// The range floor makes a leading zero structurally impossible.
func NewOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpMax-otpMin+1))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(otpMin+n.Int64(), 10), nil
}
