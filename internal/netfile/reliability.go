package netfile

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Reliability is any value with a text form. It has the same method set as
// encoding.TextMarshaler, so types from other packages plug in directly.
type Reliability interface {
	MarshalText() ([]byte, error)
}

// Float is a fractional reliability, usually within [0, 1]. Its text form
// is the one the fabric scripts wrote with Python 2 str(): at most 12
// significant digits, exponent form below 1e-4 or from 1e12 up, and a
// trailing ".0" for integral values.
type Float float64

func (f Float) MarshalText() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return []byte("nan"), nil
	case math.IsInf(v, 1):
		return []byte("inf"), nil
	case math.IsInf(v, -1):
		return []byte("-inf"), nil
	}

	// 'g' already writes at least two exponent digits (1e-05, 1e+16).
	s := strconv.FormatFloat(v, 'g', 12, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return []byte(s), nil
}

// Percent is a whole-number reliability as carried by broker connections.
type Percent int

func (p Percent) MarshalText() ([]byte, error) {
	return []byte(strconv.Itoa(int(p))), nil
}

// Text is an already rendered reliability, emitted as is.
type Text string

func (t Text) MarshalText() ([]byte, error) {
	return []byte(t), nil
}

func reliabilityText(r Reliability) (string, error) {
	if r == nil {
		return "", ErrMissingValue
	}
	b, err := r.MarshalText()
	if err != nil {
		return "", err
	}
	s := string(b)
	if err := checkChars(s); err != nil {
		return "", err
	}
	return s, nil
}

// checkChars rejects what escaping cannot represent: invalid UTF-8 and
// runes outside the XML 1.0 Char production.
func checkChars(s string) error {
	if !utf8.ValidString(s) {
		return ErrInvalidCharacter
	}
	for _, r := range s {
		if !isXMLChar(r) {
			return ErrInvalidCharacter
		}
	}
	return nil
}

func isXMLChar(r rune) bool {
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		r >= 0x20 && r <= 0xD7FF ||
		r >= 0xE000 && r <= 0xFFFD ||
		r >= 0x10000 && r <= 0x10FFFF
}
