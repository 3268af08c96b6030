package auth

import (
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAdmissionNumber_Format(t *testing.T) {
	pattern := regexp.MustCompile(`^ADM\d{4}\d{5}$`)

	for i := 0; i < 50; i++ {
		number, err := GenerateAdmissionNumber()
		require.NoError(t, err)
		assert.Regexp(t, pattern, number)
		assert.True(t, strings.HasPrefix(number, fmt.Sprintf("%s%d", AdmissionNumberPrefix, time.Now().Year())))
		assert.Len(t, number, 12)
	}
}

func TestGenerateTempPassword(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 20; i++ {
		password, err := GenerateTempPassword()
		require.NoError(t, err)
		assert.Len(t, password, tempPasswordLength)
		for _, c := range password {
			assert.Contains(t, tempPasswordChars, string(c))
		}
		seen[password] = true
	}

	// 20 draws from a 62^12 space colliding would mean a broken generator
	assert.Len(t, seen, 20)
}
