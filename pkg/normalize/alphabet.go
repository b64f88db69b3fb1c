/*
Package normalize turns raw dictionary and grid bytes into canonical letters.

Every word in the index is keyed by its canonical form: uppercase, letters only,
one byte per letter. An Alphabet describes which single-byte code page the
letters live in, and how legacy bytes are shifted into it before anything else
looks at them.

Two alphabets ship with the package:

	normalize.Latin     // ASCII A-Z, no legacy remap
	normalize.Cyrillic  // Windows-1251, with DOS CP866 bytes remapped on read

Canonicalization is a composition of three steps:

	raw -> Remap -> StripNonAlphabetic -> uppercase

so "ca-t", "Cat" and "CAT" all become "CAT".
*/
package normalize

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// ErrUnknownAlphabet is returned by ByName for names it does not recognize.
var ErrUnknownAlphabet = errors.New("unknown alphabet")

// byteRange is a half-open [lo, hi) interval of byte values, kept as ints so
// that hi may be 256.
type byteRange struct {
	lo, hi int
}

func (r byteRange) contains(b byte) bool {
	return int(b) >= r.lo && int(b) < r.hi
}

// Alphabet describes a single-byte letter range and its legacy remap rules.
type Alphabet struct {
	Name string

	upper byte // first uppercase letter
	lower byte // first lowercase letter
	size  int  // letters per case

	// legacy is shifted by offset on every dictionary byte.
	legacy byteRange
	// cell is shifted by offset on every grid byte.
	cell   byteRange
	offset byte

	codepage *charmap.Charmap
}

// Latin is plain ASCII A-Z.
var Latin = &Alphabet{
	Name:  "latin",
	upper: 'A',
	lower: 'a',
	size:  26,
}

// Cyrillic is the Windows-1251 Russian alphabet. Dictionary bytes in the DOS
// CP866 letter block 0x80-0xBF are moved up by 0x40 to their 1251 position.
// Grid bytes only have the lowercase block 0xA0-0xBF remapped.
var Cyrillic = &Alphabet{
	Name:     "cyrillic",
	upper:    0xC0,
	lower:    0xE0,
	size:     32,
	legacy:   byteRange{lo: 0x80, hi: 0xC0},
	cell:     byteRange{lo: 0xA0, hi: 0xC0},
	offset:   0x40,
	codepage: charmap.Windows1251,
}

// ByName returns the alphabet registered under name.
func ByName(name string) (*Alphabet, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", Latin.Name, "ascii":
		return Latin, nil
	case Cyrillic.Name, "cp1251", "windows-1251":
		return Cyrillic, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAlphabet, name)
}

// Size returns the number of letters per case.
func (a *Alphabet) Size() int {
	return a.size
}

// RemapByte applies the legacy region remap to a single byte.
func (a *Alphabet) RemapByte(b byte) byte {
	if a.legacy.contains(b) {
		return b + a.offset
	}
	return b
}

// RemapCell applies the grid-cell remap: a byte is shifted when the shifted
// value lands in the lowercase letter block.
func (a *Alphabet) RemapCell(b byte) byte {
	if a.cell.contains(b) {
		return b + a.offset
	}
	return b
}

// Remap applies RemapByte to every byte of s.
func (a *Alphabet) Remap(s string) string {
	if a.legacy.lo == a.legacy.hi {
		return s
	}
	buf := []byte(s)
	for i := range buf {
		buf[i] = a.RemapByte(buf[i])
	}
	return string(buf)
}

func (a *Alphabet) isUpper(b byte) bool {
	return int(b) >= int(a.upper) && int(b) < int(a.upper)+a.size
}

func (a *Alphabet) isLower(b byte) bool {
	return int(b) >= int(a.lower) && int(b) < int(a.lower)+a.size
}

// IsAlphabetic reports whether b, after the legacy remap, is a letter.
func (a *Alphabet) IsAlphabetic(b byte) bool {
	b = a.RemapByte(b)
	return a.isUpper(b) || a.isLower(b)
}

// ToCanonicalLetter remaps b and folds it to uppercase. Bytes that are not
// letters come back remapped but otherwise unchanged.
func (a *Alphabet) ToCanonicalLetter(b byte) byte {
	b = a.RemapByte(b)
	if a.isLower(b) {
		return b - a.lower + a.upper
	}
	return b
}

// StripNonAlphabetic drops every byte of s that is not a letter.
func (a *Alphabet) StripNonAlphabetic(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if a.IsAlphabetic(s[i]) {
			sb.WriteByte(s[i])
		}
	}
	return sb.String()
}

// Canonicalize returns the matching key for a raw dictionary word.
func (a *Alphabet) Canonicalize(raw string) string {
	clean := a.StripNonAlphabetic(a.Remap(raw))
	buf := []byte(clean)
	for i := range buf {
		buf[i] = a.ToCanonicalLetter(buf[i])
	}
	return string(buf)
}

// Decode converts code page bytes to UTF-8 for display.
func (a *Alphabet) Decode(s string) string {
	if a.codepage == nil {
		return s
	}
	out, err := a.codepage.NewDecoder().String(s)
	if err != nil {
		return s
	}
	return out
}

// Encode converts UTF-8 text, typically terminal input, to code page bytes.
// Runes the code page cannot represent are replaced by the code page's
// substitute byte.
func (a *Alphabet) Encode(s string) string {
	if a.codepage == nil {
		return s
	}
	out, err := encoding.ReplaceUnsupported(a.codepage.NewEncoder()).String(s)
	if err != nil {
		return s
	}
	return out
}
