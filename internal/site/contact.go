package site

import (
	"fmt"
	"net/url"
	"strings"
)

// FormField is one submitted form value, kept in submission order.
type FormField struct {
	Name  string
	Value string
}

// ParseForm decodes an application/x-www-form-urlencoded body, keeping
// field order and repeated names.
func ParseForm(body string) ([]FormField, error) {
	var fields []FormField
	for pair := range strings.SplitSeq(body, "&") {
		if pair == "" {
			continue
		}
		rawName, rawValue, _ := strings.Cut(pair, "=")
		name, err := url.QueryUnescape(rawName)
		if err != nil {
			return nil, fmt.Errorf("invalid form field name %q: %w", rawName, err)
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %q: %w", name, err)
		}
		fields = append(fields, FormField{Name: name, Value: value})
	}
	return fields, nil
}

// EncodeURIComponent escapes everything except A-Z a-z 0-9 and -_.!~*'().
// Spaces become %20.
func EncodeURIComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}

// ContactURL builds the redirect target for a submitted contact form:
// the action followed by name=value pairs in form order.
func ContactURL(action string, fields []FormField) string {
	params := make([]string, len(fields))
	for i, f := range fields {
		params[i] = f.Name + "=" + EncodeURIComponent(f.Value)
	}
	return action + "?" + strings.Join(params, "&")
}

// ContactAction is the default form action for an address.
func ContactAction(email string) string {
	return "mailto:" + email
}
