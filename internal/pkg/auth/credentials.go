package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const (
	// AdmissionNumberPrefix starts every generated admission number
	AdmissionNumberPrefix = "ADM"

	tempPasswordChars  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	tempPasswordLength = 12
)

// GenerateAdmissionNumber builds a year-prefixed admission number of the form
// ADM<4-digit year><5-digit zero-padded random suffix>, e.g. ADM202600042.
// The suffix is random, not sequential; the caller retries on a uniqueness
// violation from the store.
func GenerateAdmissionNumber() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(100000))
	if err != nil {
		return "", fmt.Errorf("failed to generate admission number suffix: %w", err)
	}
	return fmt.Sprintf("%s%d%05d", AdmissionNumberPrefix, time.Now().Year(), n.Int64()), nil
}

// GenerateTempPassword creates a random printable temporary password. The
// plaintext is handed to the applicant exactly once; only its hash is stored.
func GenerateTempPassword() (string, error) {
	result := make([]byte, tempPasswordLength)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(tempPasswordChars))))
		if err != nil {
			return "", fmt.Errorf("failed to generate temporary password: %w", err)
		}
		result[i] = tempPasswordChars[n.Int64()]
	}
	return string(result), nil
}
