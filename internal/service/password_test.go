package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGeneratePassword(t *testing.T) {
	seen := map[string]bool{}

	for i := 0; i < 50; i++ {
		password, err := GeneratePassword()
		require.NoError(t, err)
		require.Len(t, password, passwordLength)

		for _, r := range password {
			isLower := r >= 'a' && r <= 'z'
			isUpper := r >= 'A' && r <= 'Z'
			isDigit := r >= '0' && r <= '9'
			require.True(t, isLower || isUpper || isDigit, "unexpected character %q", r)
		}

		require.False(t, seen[password], "generated the same password twice")
		seen[password] = true
	}
}
