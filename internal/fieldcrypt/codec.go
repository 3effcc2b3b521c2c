// Package fieldcrypt encrypts sensitive entity fields before they are written and
// decrypts them after they are read.
//
// New values are always written as "iv:tag:ciphertext" (hex, AES-256-GCM). Reads accept
// that format, legacy CryptoJS passphrase ciphertexts and plaintext rows that predate
// encryption. Decrypt never fails: a value no strategy can open is returned unchanged.
package fieldcrypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/timepulse/internal/metrics"
)

const (
	ivSize  = 16
	tagSize = 16
)

// ErrEncryption is returned when a value cannot be encrypted. The write must be aborted.
var ErrEncryption = errors.New("field encryption failed")

// Codec is safe for concurrent use; it holds no mutable state after New.
type Codec struct {
	aead       cipher.AEAD
	strategies []strategy
	logger     *slog.Logger
	legacy     []string
}

type Option func(*Codec)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Codec) {
		c.logger = logger
	}
}

// WithLegacyPassphrases enables decryption of CryptoJS ciphertexts written with any of
// the given passphrases. Empty passphrases are ignored.
func WithLegacyPassphrases(passphrases ...string) Option {
	return func(c *Codec) {
		for _, p := range passphrases {
			if p != "" {
				c.legacy = append(c.legacy, p)
			}
		}
	}
}

func New(key Key, opts ...Option) (*Codec, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}

	aead, err := cipher.NewGCMWithNonceSize(block, ivSize)
	if err != nil {
		return nil, fmt.Errorf("creating gcm: %w", err)
	}

	c := &Codec{aead: aead, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}

	c.strategies = []strategy{
		plaintextStrategy{},
		gcmStrategy{aead: aead},
		legacyStrategy{passphrases: c.legacy},
	}

	return c, nil
}

// Encrypt returns plaintext sealed with a fresh IV. Empty input is returned unchanged.
func (c *Codec) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return plaintext, nil
	}

	iv := make([]byte, ivSize)
	if _, err := rand.Read(iv); err != nil {
		metrics.FieldEncryptions.WithLabelValues("error").Inc()
		return "", fmt.Errorf("%w: reading iv: %w", ErrEncryption, err)
	}

	sealed := c.aead.Seal(nil, iv, []byte(plaintext), nil)
	ciphertext, tag := sealed[:len(sealed)-tagSize], sealed[len(sealed)-tagSize:]

	metrics.FieldEncryptions.WithLabelValues("success").Inc()

	return strings.Join([]string{
		hex.EncodeToString(iv),
		hex.EncodeToString(tag),
		hex.EncodeToString(ciphertext),
	}, ":"), nil
}

// Decrypt returns the plaintext for value. Strategies are tried in order and the first
// one that both recognizes and opens the value wins. When none can, value is returned
// as stored.
func (c *Codec) Decrypt(value string) string {
	if value == "" {
		return value
	}

	attempted := false

	for _, s := range c.strategies {
		if !s.matches(value) {
			continue
		}

		attempted = true

		out, err := open(s, value)
		if err == nil {
			metrics.FieldDecryptions.WithLabelValues(s.name()).Inc()
			return out
		}

		c.logger.Debug("decrypt strategy failed", "strategy", s.name(), "error", err)
	}

	if !attempted {
		metrics.FieldDecryptions.WithLabelValues("unencrypted").Inc()
		return value
	}

	metrics.FieldDecryptions.WithLabelValues("degraded").Inc()
	c.logger.Warn("could not decrypt field, returning stored value", "length", len(value))

	return value
}

// open runs a single strategy, converting a panic into an error so one broken
// strategy never takes down the caller.
func open(s strategy, value string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = "", fmt.Errorf("strategy %s panicked: %v", s.name(), r)
		}
	}()

	return s.open(value)
}

func (c *Codec) EncryptNumber(d decimal.Decimal) (string, error) {
	return c.Encrypt(d.String())
}

// DecryptNumber decrypts value and parses it as a decimal number.
func (c *Codec) DecryptNumber(value string) (decimal.Decimal, error) {
	plain := c.Decrypt(value)

	d, err := decimal.NewFromString(strings.TrimSpace(plain))
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing decrypted number: %w", err)
	}

	return d, nil
}

// DecryptNullNumber is DecryptNumber for nullable columns. NULL and values that do not
// decrypt to a number both yield nil; the latter is logged.
func (c *Codec) DecryptNullNumber(value sql.NullString) *decimal.Decimal {
	if !value.Valid || value.String == "" {
		return nil
	}

	d, err := c.DecryptNumber(value.String)
	if err != nil {
		c.logger.Warn("stored number could not be decrypted", "error", err)
		return nil
	}

	return &d
}

// EncryptJSON serializes v with encoding/json and encrypts the result.
func (c *Codec) EncryptJSON(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("%w: marshaling: %w", ErrEncryption, err)
	}

	return c.Encrypt(string(raw))
}

// DecryptJSON decrypts value and unmarshals it into dst. It also accepts the legacy
// {"_encrypted": "..."} wrapper and JSON that was never encrypted.
func (c *Codec) DecryptJSON(value string, dst any) error {
	if value == "" {
		return nil
	}

	if inner, ok := unwrapLegacy(value); ok {
		value = inner
	}

	if err := json.Unmarshal([]byte(c.Decrypt(value)), dst); err != nil {
		return fmt.Errorf("unmarshaling decrypted json: %w", err)
	}

	return nil
}

// legacyWrapper is how structured fields were stored in JSONB columns before they
// moved to text.
type legacyWrapper struct {
	Encrypted *string `json:"_encrypted"`
}

func unwrapLegacy(value string) (string, bool) {
	if !strings.HasPrefix(strings.TrimSpace(value), "{") {
		return "", false
	}

	var w legacyWrapper
	if err := json.Unmarshal([]byte(value), &w); err != nil || w.Encrypted == nil {
		return "", false
	}

	return *w.Encrypted, true
}

// Format is the encoding a stored value was written in.
type Format int

const (
	FormatEmpty Format = iota
	FormatPlaintext
	// FormatGCM is the canonical "iv:tag:ciphertext" format every write produces.
	FormatGCM
	// FormatLegacy is a CryptoJS passphrase ciphertext.
	FormatLegacy
	// FormatWrapped is the {"_encrypted": "..."} wrapper of old structured columns.
	FormatWrapped
)

// FormatOf classifies a stored value by its shape. It does not try to decrypt it.
func FormatOf(value string) Format {
	switch {
	case value == "":
		return FormatEmpty
	case gcmStrategy{}.matches(value):
		return FormatGCM
	case legacyStrategy{}.matches(value):
		return FormatLegacy
	}

	if _, ok := unwrapLegacy(value); ok {
		return FormatWrapped
	}

	return FormatPlaintext
}

// IsEncrypted reports whether value is in a format this package can decrypt. A legacy
// wrapper counts when the value inside it is encrypted.
func IsEncrypted(value string) bool {
	switch FormatOf(value) {
	case FormatGCM, FormatLegacy:
		return true
	case FormatWrapped:
		inner, _ := unwrapLegacy(value)
		return IsEncrypted(inner)
	}

	return false
}

// Reseal rewrites value into the canonical format. Plaintext is encrypted, a legacy
// wrapper is replaced by its resealed inner value and CryptoJS ciphertext is opened and
// sealed again. Canonical values, and CryptoJS ciphertext none of the configured
// passphrases opens, are returned unchanged so nothing readable is lost.
func (c *Codec) Reseal(value string) (string, error) {
	switch FormatOf(value) {
	case FormatPlaintext:
		return c.Encrypt(value)

	case FormatLegacy:
		plain, err := open(legacyStrategy{passphrases: c.legacy}, value)
		if err != nil {
			c.logger.Warn("legacy value could not be reopened, keeping it", "error", err)
			return value, nil
		}

		return c.Encrypt(plain)

	case FormatWrapped:
		inner, _ := unwrapLegacy(value)
		if inner == "" {
			return value, nil
		}

		return c.Reseal(inner)
	}

	return value, nil
}
