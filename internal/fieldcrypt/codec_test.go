package fieldcrypt_test

import (
	"math/rand/v2"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/timepulse/internal/fieldcrypt"
)

var (
	keyOnce sync.Once
	testKey fieldcrypt.Key
	keyErr  error
)

// newCodec derives the test key once; scrypt is deliberately slow.
func newCodec(t *testing.T, opts ...fieldcrypt.Option) *fieldcrypt.Codec {
	t.Helper()

	keyOnce.Do(func() {
		testKey, keyErr = fieldcrypt.DeriveKey("test-secret", fieldcrypt.DefaultSalt)
	})
	require.NoError(t, keyErr)

	c, err := fieldcrypt.New(testKey, opts...)
	require.NoError(t, err)

	return c
}

func TestCodec_RoundTrip(t *testing.T) {
	c := newCodec(t)

	tests := []struct {
		name  string
		input string
	}{
		{name: "Name", input: "Jane Doe"},
		{name: "Email", input: "jane.doe@example.com"},
		{name: "Address", input: "221B Baker Street, London NW1 6XE"},
		{name: "Unicode", input: "Zoë Ångström — ünïcödé ✓"},
		{name: "JSON", input: `{"mon":8,"tue":7.5}`},
		{name: "ColonSeparated", input: "aa:bb:cc"},
		{name: "Long", input: strings.Repeat("timesheet note ", 500)},
		{name: "SingleChar", input: "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := c.Encrypt(tt.input)
			require.NoError(t, err)

			assert.Len(t, strings.Split(enc, ":"), 3)
			assert.NotEqual(t, tt.input, enc)
			assert.True(t, fieldcrypt.IsEncrypted(enc))
			assert.Equal(t, tt.input, c.Decrypt(enc))
		})
	}
}

func TestCodec_EncryptUsesFreshIV(t *testing.T) {
	c := newCodec(t)

	a, err := c.Encrypt("Jane Doe")
	require.NoError(t, err)

	b, err := c.Encrypt("Jane Doe")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, strings.Split(a, ":")[0], strings.Split(b, ":")[0])
}

func TestCodec_EncryptEmpty(t *testing.T) {
	c := newCodec(t)

	got, err := c.Encrypt("")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCodec_DecryptReturnsUnrecognizedInput(t *testing.T) {
	c := newCodec(t)

	hex32 := strings.Repeat("ab", 16)

	inputs := []string{
		"",
		":",
		"::",
		":::",
		"a:b:c",
		"zz:zz:zz",
		hex32 + ":" + hex32 + ":",
		hex32 + ":" + hex32 + ":00ff",
		hex32 + ":" + hex32,
		"Jane Doe",
		"O'Brien-Smith",
		"jane@example.com",
		"+1 (555) 010-0000",
		"2400.50",
		`{"mon":8}`,
		"U2FsdGVkX1",
		"U2FsdGVkX1+not/valid==",
		"U2FsdGVkX19zb21lc2FsdHRoaXNpc25vdGJsb2NrYWxpZ25lZA==",
		strings.Repeat("A", 200),
		"\x00\xff\xfe",
	}

	for _, in := range inputs {
		assert.NotPanics(t, func() {
			assert.Equal(t, in, c.Decrypt(in))
		}, "input %q", in)
	}
}

func TestCodec_DecryptRandomInput(t *testing.T) {
	c := newCodec(t)
	r := rand.New(rand.NewPCG(1, 2))

	alphabet := []byte("abcdef0123456789:U2FsdGVkX1+/= \x00")

	for range 500 {
		b := make([]byte, r.IntN(120))
		for i := range b {
			b[i] = alphabet[r.IntN(len(alphabet))]
		}

		in := string(b)

		assert.NotPanics(t, func() {
			assert.Equal(t, in, c.Decrypt(in))
		})
	}
}

func TestCodec_DecryptTamperedValue(t *testing.T) {
	c := newCodec(t)

	enc, err := c.Encrypt("123-45-6789")
	require.NoError(t, err)

	parts := strings.Split(enc, ":")

	tag := []byte(parts[1])
	if tag[0] == 'a' {
		tag[0] = 'b'
	} else {
		tag[0] = 'a'
	}

	tampered := strings.Join([]string{parts[0], string(tag), parts[2]}, ":")

	assert.Equal(t, tampered, c.Decrypt(tampered))
}

func TestCodec_DecryptWithWrongKey(t *testing.T) {
	c := newCodec(t)

	otherKey, err := fieldcrypt.DeriveKey("another-secret", fieldcrypt.DefaultSalt)
	require.NoError(t, err)

	other, err := fieldcrypt.New(otherKey)
	require.NoError(t, err)

	enc, err := other.Encrypt("555-0100")
	require.NoError(t, err)

	assert.Equal(t, enc, c.Decrypt(enc))
}

func TestCodec_Number(t *testing.T) {
	c := newCodec(t)

	t.Run("RoundTrip", func(t *testing.T) {
		enc, err := c.EncryptNumber(decimal.RequireFromString("62.50"))
		require.NoError(t, err)

		got, err := c.DecryptNumber(enc)
		require.NoError(t, err)
		assert.True(t, got.Equal(decimal.RequireFromString("62.5")), "got %s", got)
	})

	t.Run("LegacyPlaintext", func(t *testing.T) {
		got, err := c.DecryptNumber("75")
		require.NoError(t, err)
		assert.True(t, got.Equal(decimal.NewFromInt(75)))
	})

	t.Run("NotANumber", func(t *testing.T) {
		enc, err := c.Encrypt("seventy")
		require.NoError(t, err)

		_, err = c.DecryptNumber(enc)
		assert.Error(t, err)
	})
}

func TestCodec_JSON(t *testing.T) {
	c := newCodec(t)

	type lineItem struct {
		Description string  `json:"description"`
		Hours       float64 `json:"hours"`
	}

	want := []lineItem{{Description: "Timesheet for Jane Doe", Hours: 40}}

	t.Run("RoundTrip", func(t *testing.T) {
		enc, err := c.EncryptJSON(want)
		require.NoError(t, err)

		var got []lineItem
		require.NoError(t, c.DecryptJSON(enc, &got))
		assert.Equal(t, want, got)
	})

	t.Run("LegacyWrapper", func(t *testing.T) {
		enc, err := c.EncryptJSON(want)
		require.NoError(t, err)

		var got []lineItem
		require.NoError(t, c.DecryptJSON(`{"_encrypted":"`+enc+`"}`, &got))
		assert.Equal(t, want, got)
	})

	t.Run("NeverEncrypted", func(t *testing.T) {
		var got []lineItem
		require.NoError(t, c.DecryptJSON(`[{"description":"Timesheet for Jane Doe","hours":40}]`, &got))
		assert.Equal(t, want, got)
	})

	t.Run("Empty", func(t *testing.T) {
		var got []lineItem
		require.NoError(t, c.DecryptJSON("", &got))
		assert.Nil(t, got)
	})

	t.Run("Garbage", func(t *testing.T) {
		var got []lineItem
		assert.Error(t, c.DecryptJSON("not json", &got))
	})
}

func TestIsEncrypted(t *testing.T) {
	c := newCodec(t)

	enc, err := c.Encrypt("value")
	require.NoError(t, err)

	assert.True(t, fieldcrypt.IsEncrypted(enc))
	assert.True(t, fieldcrypt.IsEncrypted("U2FsdGVkX19abc"))
	assert.False(t, fieldcrypt.IsEncrypted("Jane Doe"))
	assert.False(t, fieldcrypt.IsEncrypted("a:b:c"))
	assert.False(t, fieldcrypt.IsEncrypted(""))

	assert.True(t, fieldcrypt.IsEncrypted(`{"_encrypted":"`+enc+`"}`))
	assert.False(t, fieldcrypt.IsEncrypted(`{"_encrypted":"[1,2]"}`))
}

func TestFormatOf(t *testing.T) {
	c := newCodec(t)

	enc, err := c.Encrypt("value")
	require.NoError(t, err)

	tests := []struct {
		value string
		want  fieldcrypt.Format
	}{
		{value: "", want: fieldcrypt.FormatEmpty},
		{value: "Jane Doe", want: fieldcrypt.FormatPlaintext},
		{value: `[{"hours":8}]`, want: fieldcrypt.FormatPlaintext},
		{value: `{"hours":8}`, want: fieldcrypt.FormatPlaintext},
		{value: enc, want: fieldcrypt.FormatGCM},
		{value: "U2FsdGVkX19abc", want: fieldcrypt.FormatLegacy},
		{value: `{"_encrypted":"` + enc + `"}`, want: fieldcrypt.FormatWrapped},
		{value: `{"_encrypted":""}`, want: fieldcrypt.FormatWrapped},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, fieldcrypt.FormatOf(tt.value), tt.value)
	}
}

func TestCodec_Reseal(t *testing.T) {
	c := newCodec(t)

	enc, err := c.EncryptJSON([]string{"a"})
	require.NoError(t, err)

	t.Run("CanonicalUnchanged", func(t *testing.T) {
		got, err := c.Reseal(enc)
		require.NoError(t, err)
		assert.Equal(t, enc, got)
	})

	t.Run("EmptyUnchanged", func(t *testing.T) {
		got, err := c.Reseal("")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("Plaintext", func(t *testing.T) {
		got, err := c.Reseal("Jane Doe")
		require.NoError(t, err)
		assert.Equal(t, fieldcrypt.FormatGCM, fieldcrypt.FormatOf(got))
		assert.Equal(t, "Jane Doe", c.Decrypt(got))
	})

	t.Run("WrappedCiphertextIsUnwrapped", func(t *testing.T) {
		got, err := c.Reseal(`{"_encrypted":"` + enc + `"}`)
		require.NoError(t, err)
		assert.Equal(t, enc, got)
	})

	t.Run("WrappedPlaintextIsEncrypted", func(t *testing.T) {
		got, err := c.Reseal(`{"_encrypted":"[\"a\"]"}`)
		require.NoError(t, err)
		require.Equal(t, fieldcrypt.FormatGCM, fieldcrypt.FormatOf(got))

		var items []string
		require.NoError(t, c.DecryptJSON(got, &items))
		assert.Equal(t, []string{"a"}, items)
	})

	t.Run("UnopenableLegacyKept", func(t *testing.T) {
		got, err := c.Reseal("U2FsdGVkX1+not/valid==")
		require.NoError(t, err)
		assert.Equal(t, "U2FsdGVkX1+not/valid==", got)
	})
}

func TestLoadKey(t *testing.T) {
	t.Run("FallsBackToDevelopmentSecret", func(t *testing.T) {
		got, err := fieldcrypt.LoadKey("", "")
		require.NoError(t, err)

		want, err := fieldcrypt.DeriveKey(fieldcrypt.DevelopmentSecret, fieldcrypt.DefaultSalt)
		require.NoError(t, err)

		assert.Equal(t, want, got)
	})

	t.Run("Deterministic", func(t *testing.T) {
		a, err := fieldcrypt.LoadKey("operator-secret", "salt")
		require.NoError(t, err)

		b, err := fieldcrypt.DeriveKey("operator-secret", "salt")
		require.NoError(t, err)

		assert.Equal(t, a, b)
	})
}
