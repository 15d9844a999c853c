// Package sanitize transforms untrusted remote markup before it is
// stored or rendered. All payload text flows through Properties; the
// two underlying transforms are pure string functions so they can be
// tested without any parsing infrastructure around them.
package sanitize

import (
	"errors"
	"strings"

	"golang.org/x/net/html"
)

// ErrInvalidInput reports a payload that is not a structured object.
var ErrInvalidInput = errors.New("payload is not a structured object")

// allowedTags is the element allowlist for content markup. Anything
// else is retagged to p, keeping its content and attributes.
var allowedTags = map[string]struct{}{
	"p":    {},
	"span": {},
	"br":   {},
	"a":    {},
}

// allowedClassLiterals are class tokens kept verbatim; anything else
// must carry a microformat prefix to survive.
var allowedClassLiterals = map[string]struct{}{
	"mention":   {},
	"hashtag":   {},
	"ellipsis":  {},
	"invisible": {},
}

var microformatPrefixes = []string{"h-", "p-", "u-", "dt-", "e-"}

// Properties sanitizes an untrusted payload object. A content field is
// rewritten through Content and a name field through Name when they
// are strings; every other field passes through unchanged. The input
// map is not modified. Returns ErrInvalidInput when props is nil.
func Properties(props map[string]any) (map[string]any, error) {
	if props == nil {
		return nil, ErrInvalidInput
	}

	out := make(map[string]any, len(props))
	for k, v := range props {
		out[k] = v
	}
	if content, ok := out["content"].(string); ok {
		out["content"] = Content(content)
	}
	if name, ok := out["name"].(string); ok {
		out["name"] = Name(name)
	}
	return out, nil
}

// Content sanitizes a markup fragment. Elements outside the allowlist
// are retagged to p; class attributes are filtered down to microformat
// and protocol-relevant tokens, left present-but-empty when nothing
// survives. Text is re-serialized through entity escaping.
func Content(raw string) string {
	z := html.NewTokenizer(strings.NewReader(raw))
	var b strings.Builder

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			// A string reader only errors at EOF.
			return b.String()
		}

		tok := z.Token()
		switch tok.Type {
		case html.StartTagToken, html.SelfClosingTagToken:
			if _, ok := allowedTags[tok.Data]; !ok {
				tok.Data = "p"
			}
			filterClassAttr(tok.Attr)
			b.WriteString(tok.String())
		case html.EndTagToken:
			if _, ok := allowedTags[tok.Data]; !ok {
				tok.Data = "p"
			}
			b.WriteString(tok.String())
		default:
			b.WriteString(tok.String())
		}
	}
}

// Name strips all markup from raw, keeping text content only. A single
// space is inserted where a p or br tag opened, so words do not run
// together across former block boundaries. The result is trimmed.
func Name(raw string) string {
	z := html.NewTokenizer(strings.NewReader(raw))
	var b strings.Builder

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return strings.TrimSpace(b.String())
		case html.TextToken:
			b.WriteString(z.Token().Data)
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "p", "br":
				b.WriteByte(' ')
			}
		}
	}
}

func filterClassAttr(attrs []html.Attribute) {
	for i, attr := range attrs {
		if attr.Namespace == "" && attr.Key == "class" {
			attrs[i].Val = filterClassList(attr.Val)
		}
	}
}

func filterClassList(raw string) string {
	var kept []string
	for _, class := range strings.Fields(raw) {
		if classAllowed(class) {
			kept = append(kept, class)
		}
	}
	return strings.Join(kept, " ")
}

func classAllowed(class string) bool {
	if _, ok := allowedClassLiterals[class]; ok {
		return true
	}
	for _, prefix := range microformatPrefixes {
		if strings.HasPrefix(class, prefix) {
			return true
		}
	}
	return false
}
