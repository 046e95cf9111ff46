package csvparser

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// spellings maps common codec spellings that neither registry knows.
var spellings = map[string]string{
	"latin-1":   "iso-8859-1",
	"utf-8-sig": "utf-8",
}

// LookupEncoding resolves an encoding label.
//
// IANA names and aliases are tried first, so "latin1" and "cp850" mean
// ISO-8859-1 and IBM850. WHATWG labels such as "utf8" or "cp1252" come next.
// Underscores are read as hyphens, so "latin_1" is "latin-1".
func LookupEncoding(label string) (encoding.Encoding, error) {
	name := strings.ToLower(strings.TrimSpace(label))
	if name == "" {
		return unicode.UTF8, nil
	}

	candidates := []string{name}
	hyphenated := strings.ReplaceAll(name, "_", "-")
	if hyphenated != name {
		candidates = append(candidates, hyphenated)
	}
	if alias, ok := spellings[hyphenated]; ok {
		candidates = append(candidates, alias)
	}

	for _, candidate := range candidates {
		// A nil encoding is registered but has no decoder in x/text.
		if enc, err := ianaindex.IANA.Encoding(candidate); err == nil && enc != nil {
			return enc, nil
		}
		if enc, err := htmlindex.Get(candidate); err == nil {
			return enc, nil
		}
	}

	return nil, fmt.Errorf("unknown encoding %q", label)
}

// isUTF8 reports whether enc decodes UTF-8, with or without a BOM.
func isUTF8(enc encoding.Encoding) bool {
	return enc == unicode.UTF8 || enc == unicode.UTF8BOM
}
