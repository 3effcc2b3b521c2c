package fieldcrypt

import (
	"github.com/shopspring/decimal"
)

// Sealer encrypts several fields of one write and keeps the first error, so stores can
// seal a whole row and check once before touching the database.
//
//	s := codec.Sealer()
//	name := s.String(c.Name)
//	rate := s.OptNumber(c.HourlyRate)
//	if err := s.Err(); err != nil { ... }
type Sealer struct {
	codec *Codec
	err   error
}

func (c *Codec) Sealer() *Sealer {
	return &Sealer{codec: c}
}

func (s *Sealer) String(v string) string {
	if s.err != nil {
		return ""
	}

	out, err := s.codec.Encrypt(v)
	if err != nil {
		s.err = err
	}

	return out
}

// OptString seals a nullable value. nil stays nil.
func (s *Sealer) OptString(v *string) *string {
	if v == nil {
		return nil
	}

	return new(s.String(*v))
}

func (s *Sealer) Number(d decimal.Decimal) string {
	return s.String(d.String())
}

func (s *Sealer) OptNumber(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}

	return new(s.Number(*d))
}

// JSON seals the JSON encoding of v. A nil v yields an empty string.
func (s *Sealer) JSON(v any) string {
	if s.err != nil || v == nil {
		return ""
	}

	out, err := s.codec.EncryptJSON(v)
	if err != nil {
		s.err = err
	}

	return out
}

func (s *Sealer) Err() error {
	return s.err
}
