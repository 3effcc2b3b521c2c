package fieldcrypt

import (
	"encoding/json"
	"fmt"
	"maps"

	"github.com/shopspring/decimal"
)

// Record is a loosely typed entity row keyed by field name.
type Record map[string]any

// EncryptRecord returns a shallow copy of rec with every declared field encrypted.
// Absent and nil fields are skipped, as are values already in ciphertext form.
// Non-string values of string fields are left untouched. A legacy wrapper around a
// structured field is replaced by the value it wraps.
func (c *Codec) EncryptRecord(rec Record, fields Fields) (Record, error) {
	out := maps.Clone(rec)

	for _, f := range fields {
		v, ok := out[f.Name]
		if !ok || v == nil {
			continue
		}

		enc, err := c.encryptValue(f, v)
		if err != nil {
			return nil, fmt.Errorf("encrypting %s: %w", f.Name, err)
		}

		out[f.Name] = enc
	}

	return out, nil
}

func (c *Codec) encryptValue(f Field, v any) (any, error) {
	switch f.Kind {
	case KindJSON:
		if s, ok := v.(string); ok {
			// A wrapper is stored as its bare inner value.
			if inner, wrapped := unwrapLegacy(s); wrapped {
				s = inner
			}

			if IsEncrypted(s) {
				return s, nil
			}

			return c.Encrypt(s)
		}

		return c.EncryptJSON(v)

	case KindNumber:
		d, ok := toDecimal(v)
		if !ok {
			if s, isString := v.(string); isString && IsEncrypted(s) {
				return s, nil
			}

			return v, nil
		}

		return c.EncryptNumber(d)

	default:
		s, ok := v.(string)
		if !ok || IsEncrypted(s) {
			return v, nil
		}

		return c.Encrypt(s)
	}
}

// DecryptRecord returns a shallow copy of rec with every declared field decrypted.
// It never fails; a field that cannot be decrypted keeps its stored value.
func (c *Codec) DecryptRecord(rec Record, fields Fields) Record {
	out := maps.Clone(rec)

	for _, f := range fields {
		v, ok := out[f.Name]
		if !ok || v == nil {
			continue
		}

		out[f.Name] = c.decryptValue(f, v)
	}

	return out
}

func (c *Codec) decryptValue(f Field, v any) any {
	switch f.Kind {
	case KindJSON:
		var s string

		switch val := v.(type) {
		case string:
			s = val
			if inner, ok := unwrapLegacy(s); ok {
				s = inner
			}
		case map[string]any:
			inner, ok := val["_encrypted"].(string)
			if !ok {
				return v
			}

			s = inner
		default:
			return v
		}

		plain := c.Decrypt(s)

		var parsed any
		if err := json.Unmarshal([]byte(plain), &parsed); err != nil {
			return plain
		}

		return parsed

	case KindNumber:
		s, ok := v.(string)
		if !ok {
			return v
		}

		d, err := c.DecryptNumber(s)
		if err != nil {
			return c.Decrypt(s)
		}

		return d.InexactFloat64()

	default:
		s, ok := v.(string)
		if !ok {
			return v
		}

		return c.Decrypt(s)
	}
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, true
	case float64:
		return decimal.NewFromFloat(n), true
	case float32:
		return decimal.NewFromFloat32(n), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(n)
		return d, err == nil
	}

	return decimal.Decimal{}, false
}
