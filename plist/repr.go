// Copyright © 2024 The ELPS authors

package plist

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Repr returns the representation of v as the host language prints it.
// A list or tuple that contains itself, directly or through other
// sequences, prints the repeated occurrence as "[...]" or "(...)".
func Repr(v Value) (string, error) {
	var buf strings.Builder
	r := reprState{buf: &buf, seen: make(map[Value]bool)}
	err := r.write(v)
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ToStr returns the informal string form of v.  It differs from Repr only
// for strings, which are returned unquoted.
func ToStr(v Value) (string, error) {
	if s, ok := v.(Str); ok {
		return string(s), nil
	}
	return Repr(v)
}

type reprState struct {
	buf  *strings.Builder
	seen map[Value]bool
}

func (r *reprState) write(v Value) error {
	switch x := v.(type) {
	case Int:
		r.buf.WriteString(strconv.FormatInt(int64(x), 10))
	case Float:
		r.buf.WriteString(FormatFloat(float64(x)))
	case Bool:
		if x {
			r.buf.WriteString("True")
		} else {
			r.buf.WriteString("False")
		}
	case Str:
		r.buf.WriteString(QuoteStr(string(x)))
	case NoneType:
		r.buf.WriteString("None")
	case *BigInt:
		r.buf.WriteString(x.String())
	case Slice:
		r.buf.WriteString("slice(")
		for i, b := range []Value{x.Start, x.Stop, x.Step} {
			if i > 0 {
				r.buf.WriteString(", ")
			}
			if b == nil {
				b = None
			}
			err := r.write(b)
			if err != nil {
				return err
			}
		}
		r.buf.WriteString(")")
	case *List:
		return r.writeSequence(x, "[", "]", false)
	case *Tuple:
		return r.writeSequence(x, "(", ")", true)
	case Reprer:
		s, err := x.Repr()
		if err != nil {
			return err
		}
		str, ok := s.(Str)
		if !ok {
			return typeErrorf(s, "__repr__ returned non-string (type %s)", s.TypeName())
		}
		r.buf.WriteString(string(str))
	default:
		fmt.Fprintf(r.buf, "<%s object>", v.TypeName())
	}
	return nil
}

func (r *reprState) writeSequence(seq Value, left, right string, tuple bool) error {
	if r.seen[seq] {
		r.buf.WriteString(left + "..." + right)
		return nil
	}
	r.seen[seq] = true
	defer delete(r.seen, seq)
	s := seq.(sequence)
	r.buf.WriteString(left)
	i := 0
	// the length is reread because a user defined repr may mutate seq
	for ; i < s.Storage().length; i++ {
		if i > 0 {
			r.buf.WriteString(", ")
		}
		err := r.write(s.Storage().ItemNormalized(i))
		if err != nil {
			return err
		}
	}
	if tuple && i == 1 {
		r.buf.WriteString(",")
	}
	r.buf.WriteString(right)
	return nil
}

// FormatFloat formats f the way the host language prints floats: the
// shortest representation that round trips, always containing a decimal
// point or an exponent.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	e := strconv.FormatFloat(f, 'e', -1, 64)
	exp, err := strconv.Atoi(e[strings.IndexByte(e, 'e')+1:])
	if err != nil {
		return e
	}
	if exp < -4 || exp >= 16 {
		return e
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// QuoteStr returns s quoted the way the host language prints strings.
// Single quotes are used unless s contains a single quote and no double
// quote.
func QuoteStr(s string) string {
	q := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		q = '"'
	}
	var b strings.Builder
	b.WriteByte(q)
	for _, c := range s {
		switch {
		case c == rune(q) || c == '\\':
			b.WriteByte('\\')
			b.WriteRune(c)
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\r':
			b.WriteString(`\r`)
		case c == '\t':
			b.WriteString(`\t`)
		case unicode.IsPrint(c):
			b.WriteRune(c)
		case c < 0x100:
			fmt.Fprintf(&b, `\x%02x`, c)
		case c < 0x10000:
			fmt.Fprintf(&b, `\u%04x`, c)
		default:
			fmt.Fprintf(&b, `\U%08x`, c)
		}
	}
	b.WriteByte(q)
	return b.String()
}
