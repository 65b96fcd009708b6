package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"time"
)

const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewRecordID generates an id of the form <prefix><unix millis><8 base36 chars>.
// The random suffix keeps ids unique when several are created in the same millisecond.
func NewRecordID(prefix string) (string, error) {
	return newRecordIDAt(prefix, time.Now())
}

func newRecordIDAt(prefix string, at time.Time) (string, error) {
	suffix := make([]byte, 8)
	max := big.NewInt(int64(len(base36Alphabet)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate random suffix: %w", err)
		}
		suffix[i] = base36Alphabet[n.Int64()]
	}

	return prefix + strconv.FormatInt(at.UnixMilli(), 10) + string(suffix), nil
}
