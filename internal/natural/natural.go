// Package natural orders file names so that embedded digit runs compare by
// numeric value: "page2.jpg" sorts before "page10.jpg".
package natural

import (
	"path/filepath"
	"sort"
	"strings"
)

// Kind classifies a Token.
type Kind uint8

const (
	Alpha Kind = iota
	Numeric
)

func (k Kind) String() string {
	if k == Numeric {
		return "N"
	}
	return "S"
}

// Token is a maximal run of characters of one Kind.
type Token struct {
	Kind Kind
	Text string
}

// Key is the token sequence of a name. Adjacent tokens never share a Kind.
type Key []Token

// String reassembles the name the key was parsed from.
func (k Key) String() string {
	var sb strings.Builder
	for _, t := range k {
		sb.WriteString(t.Text)
	}
	return sb.String()
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

// Parse splits name into alternating alphabetic and numeric tokens. Every
// string has a key; the empty string yields an empty one.
func Parse(name string) Key {
	var key Key
	start := 0
	var kind Kind
	for i, r := range name {
		k := Alpha
		if isDigit(r) {
			k = Numeric
		}
		if i == 0 {
			kind = k
			continue
		}
		if k != kind {
			key = append(key, Token{Kind: kind, Text: name[start:i]})
			start, kind = i, k
		}
	}
	if len(name) > 0 {
		key = append(key, Token{Kind: kind, Text: name[start:]})
	}
	return key
}

// Compare returns -1, 0 or +1 as a sorts before, equal to or after b.
func Compare(a, b Key) int {
	for i := 0; ; i++ {
		switch {
		case i == len(a) && i == len(b):
			return 0
		case i == len(a):
			return -1
		case i == len(b):
			return 1
		}

		ta, tb := a[i], b[i]
		var c int
		switch {
		case ta.Kind == Numeric && tb.Kind == Numeric:
			c = compareDigits(ta.Text, tb.Text)
		case ta.Kind == Alpha && tb.Kind == Alpha:
			c = strings.Compare(ta.Text, tb.Text)
		case ta.Kind == Numeric:
			c = -1
		default:
			c = 1
		}
		if c != 0 {
			return c
		}
	}
}

// compareDigits compares two digit runs by value without converting them,
// so runs longer than any integer type still order correctly.
func compareDigits(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

// Less reports whether name a sorts before name b.
func Less(a, b string) bool {
	return Compare(Parse(a), Parse(b)) < 0
}

// AllDigits reports whether every name's base, with its extension removed,
// is a non-empty run of digits.
func AllDigits(names []string) bool {
	if len(names) == 0 {
		return false
	}
	for _, name := range names {
		base := filepath.Base(name)
		stem := strings.TrimSuffix(base, filepath.Ext(base))
		if stem == "" {
			return false
		}
		for _, r := range stem {
			if !isDigit(r) {
				return false
			}
		}
	}
	return true
}

// SortPages orders page names in place. When every name is purely numeric
// the shorter name comes first and equal lengths compare byte-wise, which
// matches numeric order for unpadded numbers. Otherwise names are compared
// by their parsed keys.
func SortPages(names []string) {
	if AllDigits(names) {
		sort.SliceStable(names, func(i, j int) bool {
			if len(names[i]) != len(names[j]) {
				return len(names[i]) < len(names[j])
			}
			return names[i] < names[j]
		})
		return
	}

	keys := make(map[string]Key, len(names))
	for _, n := range names {
		if _, ok := keys[n]; !ok {
			keys[n] = Parse(n)
		}
	}
	sort.SliceStable(names, func(i, j int) bool {
		return Compare(keys[names[i]], keys[names[j]]) < 0
	})
}
