package service

import (
	"crypto/rand"
	"math/big"
)

const (
	passwordLength  = 10
	passwordCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// GeneratePassword draws a fixed-length alphanumeric password. No complexity
// rules are enforced; the customer is expected to change it after first login.
func GeneratePassword() (string, error) {
	buf := make([]byte, passwordLength)
	max := big.NewInt(int64(len(passwordCharset)))

	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = passwordCharset[n.Int64()]
	}

	return string(buf), nil
}
