package fieldcrypt

import (
	"fmt"
	"log/slog"

	"golang.org/x/crypto/scrypt"
)

const (
	// KeySize is the AES-256 key length in bytes.
	KeySize = 32

	// DefaultSalt is the application-wide salt existing ciphertexts were written with.
	DefaultSalt = "salt"

	// DevelopmentSecret is used when no secret is configured. Rows written with it are
	// readable by anyone holding the source code.
	DevelopmentSecret = "default-encryption-key-change-in-production-32-chars-minimum"
)

// scrypt cost parameters. Changing them changes the derived key and makes every
// stored ciphertext unreadable.
const (
	scryptN = 1 << 14
	scryptR = 8
	scryptP = 1
)

// Key is a derived AES-256 key.
type Key [KeySize]byte

// DeriveKey stretches secret into a Key using scrypt.
func DeriveKey(secret, salt string) (Key, error) {
	var key Key

	raw, err := scrypt.Key([]byte(secret), []byte(salt), scryptN, scryptR, scryptP, KeySize)
	if err != nil {
		return key, fmt.Errorf("deriving key: %w", err)
	}

	copy(key[:], raw)

	return key, nil
}

// LoadKey derives the process key from the operator secret. An empty secret falls back
// to DevelopmentSecret and logs a warning instead of failing.
func LoadKey(secret, salt string) (Key, error) {
	if secret == "" {
		slog.Warn("ENCRYPTION_KEY not set, using insecure development key")

		secret = DevelopmentSecret
	}

	if salt == "" {
		salt = DefaultSalt
	}

	return DeriveKey(secret, salt)
}
