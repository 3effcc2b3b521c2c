package fieldcrypt

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sealLegacy produces the same output as CryptoJS.AES.encrypt(plaintext, passphrase).
func sealLegacy(t *testing.T, passphrase, plaintext string) string {
	t.Helper()

	salt := []byte("pepper42")
	key, iv := evpBytesToKey([]byte(passphrase), salt, KeySize, aes.BlockSize)

	block, err := aes.NewCipher(key)
	require.NoError(t, err)

	n := aes.BlockSize - len(plaintext)%aes.BlockSize
	padded := append([]byte(plaintext), bytes.Repeat([]byte{byte(n)}, n)...)

	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)

	framed := append(append([]byte("Salted__"), salt...), out...)

	return base64.StdEncoding.EncodeToString(framed)
}

func TestLegacyStrategy(t *testing.T) {
	enc := sealLegacy(t, "timepulse-encryption-key", "jane.doe@example.com")
	require.True(t, legacyStrategy{}.matches(enc))

	t.Run("MatchingPassphrase", func(t *testing.T) {
		s := legacyStrategy{passphrases: []string{"wrong-one", "timepulse-encryption-key"}}

		got, err := s.open(enc)
		require.NoError(t, err)
		assert.Equal(t, "jane.doe@example.com", got)
	})

	t.Run("NoMatchingPassphrase", func(t *testing.T) {
		s := legacyStrategy{passphrases: []string{"wrong-one"}}

		_, err := s.open(enc)
		assert.Error(t, err)
	})

	t.Run("ThroughCodec", func(t *testing.T) {
		var key Key

		c, err := New(key, WithLegacyPassphrases("", "timepulse-encryption-key"))
		require.NoError(t, err)

		assert.Equal(t, "jane.doe@example.com", c.Decrypt(enc))
	})

	t.Run("CodecWithoutPassphrases", func(t *testing.T) {
		var key Key

		c, err := New(key)
		require.NoError(t, err)

		assert.Equal(t, enc, c.Decrypt(enc))
	})
}

func TestReseal_LegacyBecomesCanonical(t *testing.T) {
	var key Key

	c, err := New(key, WithLegacyPassphrases("timepulse-encryption-key"))
	require.NoError(t, err)

	enc := sealLegacy(t, "timepulse-encryption-key", "99-1234567")

	got, err := c.Reseal(enc)
	require.NoError(t, err)

	assert.Equal(t, FormatGCM, FormatOf(got))
	assert.Equal(t, "99-1234567", c.Decrypt(got))

	t.Run("Wrapped", func(t *testing.T) {
		got, err := c.Reseal(`{"_encrypted":"` + enc + `"}`)
		require.NoError(t, err)

		assert.Equal(t, FormatGCM, FormatOf(got))
		assert.Equal(t, "99-1234567", c.Decrypt(got))
	})
}

func TestPlaintextStrategy(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{value: "Jane Doe", want: true},
		{value: "O'Brien-Smith, Jr.", want: true},
		{value: "jane@example.com", want: false},
		{value: "Suite 100", want: false},
		{value: "A very long sentence that goes on and on past fifty chars", want: false},
		{value: "", want: false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, plaintextStrategy{}.matches(tt.value), tt.value)
	}
}

type panickingStrategy struct{}

func (panickingStrategy) name() string { return "panics" }

func (panickingStrategy) matches(string) bool { return true }

func (panickingStrategy) open(string) (string, error) { panic("boom") }

func TestDecrypt_StrategyPanicIsIsolated(t *testing.T) {
	var key Key

	c, err := New(key)
	require.NoError(t, err)

	c.strategies = append([]strategy{panickingStrategy{}}, c.strategies...)

	enc, err := c.Encrypt("1 Infinite Loop")
	require.NoError(t, err)

	assert.Equal(t, "1 Infinite Loop", c.Decrypt(enc))
}

func TestUnpad(t *testing.T) {
	got, err := unpad([]byte{'a', 'b', 2, 2})
	require.NoError(t, err)
	assert.Equal(t, []byte("ab"), got)

	_, err = unpad([]byte{'a', 'b', 1, 2})
	assert.ErrorIs(t, err, errBadPadding)

	_, err = unpad([]byte{'a', 0})
	assert.ErrorIs(t, err, errBadPadding)
}
