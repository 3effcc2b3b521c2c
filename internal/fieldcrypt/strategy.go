package fieldcrypt

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/md5"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// strategy is one way of turning a stored value back into plaintext.
type strategy interface {
	name() string
	// matches reports whether value has the shape this strategy reads.
	matches(value string) bool
	open(value string) (string, error)
}

// plaintextMaxLen bounds the plaintext shortcut; every ciphertext format is longer.
const plaintextMaxLen = 50

var plaintextPattern = regexp.MustCompile(`^[A-Za-z\s.,'\-]+$`)

// plaintextStrategy short-circuits values such as names that were stored before
// encryption was introduced.
type plaintextStrategy struct{}

func (plaintextStrategy) name() string { return "plaintext" }

func (plaintextStrategy) matches(value string) bool {
	return len(value) < plaintextMaxLen && plaintextPattern.MatchString(value)
}

func (plaintextStrategy) open(value string) (string, error) {
	return value, nil
}

type gcmStrategy struct {
	aead cipher.AEAD
}

func (gcmStrategy) name() string { return "gcm" }

func (gcmStrategy) matches(value string) bool {
	parts := strings.Split(value, ":")
	if len(parts) != 3 {
		return false
	}

	if len(parts[0]) != ivSize*2 || len(parts[1]) != tagSize*2 {
		return false
	}

	for _, p := range parts {
		if _, err := hex.DecodeString(p); err != nil {
			return false
		}
	}

	return true
}

func (s gcmStrategy) open(value string) (string, error) {
	parts := strings.Split(value, ":")

	iv, err := hex.DecodeString(parts[0])
	if err != nil {
		return "", fmt.Errorf("decoding iv: %w", err)
	}

	tag, err := hex.DecodeString(parts[1])
	if err != nil {
		return "", fmt.Errorf("decoding tag: %w", err)
	}

	ciphertext, err := hex.DecodeString(parts[2])
	if err != nil {
		return "", fmt.Errorf("decoding ciphertext: %w", err)
	}

	plain, err := s.aead.Open(nil, iv, append(ciphertext, tag...), nil)
	if err != nil {
		return "", fmt.Errorf("opening: %w", err)
	}

	return string(plain), nil
}

// legacyPrefix is base64 for "Salted__", the OpenSSL header CryptoJS writes.
const legacyPrefix = "U2FsdGVkX1"

var errBadPadding = errors.New("invalid padding")

// legacyStrategy reads ciphertexts produced by CryptoJS.AES.encrypt(text, passphrase):
// OpenSSL "Salted__" framing, EVP_BytesToKey(MD5) key derivation, AES-256-CBC.
type legacyStrategy struct {
	passphrases []string
}

func (legacyStrategy) name() string { return "legacy" }

func (legacyStrategy) matches(value string) bool {
	return strings.HasPrefix(value, legacyPrefix)
}

func (s legacyStrategy) open(value string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return "", fmt.Errorf("decoding base64: %w", err)
	}

	if len(raw) < 32 || string(raw[:8]) != "Salted__" {
		return "", errors.New("missing salt header")
	}

	salt, ciphertext := raw[8:16], raw[16:]
	if len(ciphertext)%aes.BlockSize != 0 {
		return "", errors.New("ciphertext is not a whole number of blocks")
	}

	for _, p := range s.passphrases {
		plain, err := openCBC([]byte(p), salt, ciphertext)
		if err != nil {
			continue
		}

		if len(plain) > 0 && utf8.Valid(plain) {
			return string(plain), nil
		}
	}

	return "", errors.New("no legacy passphrase matched")
}

func openCBC(passphrase, salt, ciphertext []byte) ([]byte, error) {
	key, iv := evpBytesToKey(passphrase, salt, KeySize, aes.BlockSize)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	plain := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, ciphertext)

	return unpad(plain)
}

// evpBytesToKey is OpenSSL's EVP_BytesToKey with MD5 and a single iteration.
func evpBytesToKey(passphrase, salt []byte, keyLen, ivLen int) ([]byte, []byte) {
	var derived, prev []byte

	for len(derived) < keyLen+ivLen {
		h := md5.New()
		h.Write(prev)
		h.Write(passphrase)
		h.Write(salt)
		prev = h.Sum(nil)
		derived = append(derived, prev...)
	}

	return derived[:keyLen], derived[keyLen : keyLen+ivLen]
}

func unpad(b []byte) ([]byte, error) {
	if len(b) == 0 {
		return nil, errBadPadding
	}

	n := int(b[len(b)-1])
	if n == 0 || n > aes.BlockSize || n > len(b) {
		return nil, errBadPadding
	}

	if !bytes.Equal(b[len(b)-n:], bytes.Repeat([]byte{byte(n)}, n)) {
		return nil, errBadPadding
	}

	return b[:len(b)-n], nil
}
