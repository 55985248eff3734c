// Package intake models the questionnaire answers every diagnostic consumes.
//
// A Response is never assumed complete. Accessors treat an absent key the
// same as an empty answer so callers can read any field without guarding.
package intake

import (
	"sort"
	"strconv"
	"strings"
)

// Response maps question ids to answers. Identity fields (email, firstName,
// businessName) ride in the same map.
type Response map[string]Value

// Identity field keys.
const (
	KeyEmail        = "email"
	KeyFirstName    = "firstName"
	KeyBusinessName = "businessName"
	KeyWebsite      = "website"
)

// FromStrings builds a Response of single-string answers.
func FromStrings(answers map[string]string) Response {
	r := make(Response, len(answers))
	for k, v := range answers {
		r[k] = Str(v)
	}
	return r
}

// Get returns the answer for key, or a missing value.
func (r Response) Get(key string) Value {
	if r == nil {
		return Value{}
	}
	return r[key]
}

// Has reports whether key carries a non-empty answer.
func (r Response) Has(key string) bool {
	return !r.Get(key).IsMissing()
}

// Text returns the answer as text ("" when missing).
func (r Response) Text(key string) string {
	return r.Get(key).String()
}

// Items returns the answer as a list (nil when missing).
func (r Response) Items(key string) []string {
	return r.Get(key).Items()
}

// Is reports exact equality with a canonical option.
func (r Response) Is(key, option string) bool {
	v := r.Get(key)
	return v.kind == KindString && v.str == option
}

// IsAny reports exact equality with any of the options.
func (r Response) IsAny(key string, opts ...string) bool {
	for _, opt := range opts {
		if r.Is(key, opt) {
			return true
		}
	}
	return false
}

// Contains reports a case-sensitive substring match. Missing answers never
// match.
func (r Response) Contains(key, sub string) bool {
	v := r.Get(key)
	if v.IsMissing() {
		return false
	}
	return strings.Contains(v.String(), sub)
}

// ContainsAny reports whether any of subs is a substring of the answer.
func (r Response) ContainsAny(key string, subs ...string) bool {
	for _, sub := range subs {
		if r.Contains(key, sub) {
			return true
		}
	}
	return false
}

// ContainsFold is Contains ignoring case.
func (r Response) ContainsFold(key, sub string) bool {
	v := r.Get(key)
	if v.IsMissing() {
		return false
	}
	return strings.Contains(strings.ToLower(v.String()), strings.ToLower(sub))
}

// Dollars parses a dollar or count answer by dropping every non-digit.
// Unparsable or missing answers yield 0.
func (r Response) Dollars(key string) int {
	return ParseDollars(r.Text(key))
}

// Number parses a free-text numeric answer keeping digits and dots.
// Unparsable or missing answers yield 0.
func (r Response) Number(key string) float64 {
	return ParseNumber(r.Text(key))
}

// Email returns the lower-cased, trimmed email identity field.
func (r Response) Email() string {
	return strings.ToLower(strings.TrimSpace(r.Text(KeyEmail)))
}

func (r Response) FirstName() string    { return strings.TrimSpace(r.Text(KeyFirstName)) }
func (r Response) BusinessName() string { return strings.TrimSpace(r.Text(KeyBusinessName)) }

// With returns a copy of r with key set to v. r is not modified.
func (r Response) With(key string, v Value) Response {
	out := r.Clone()
	out[key] = v
	return out
}

// Clone returns a shallow copy. Values are immutable so sharing them is safe.
func (r Response) Clone() Response {
	out := make(Response, len(r)+1)
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Merge overlays other onto a copy of r; non-empty answers in other win.
func (r Response) Merge(other Response) Response {
	out := r.Clone()
	for k, v := range other {
		if v.IsMissing() {
			continue
		}
		out[k] = v
	}
	return out
}

// Keys returns the answered keys in sorted order.
func (r Response) Keys() []string {
	keys := make([]string, 0, len(r))
	for k, v := range r {
		if v.IsMissing() {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ParseDollars strips every non-digit and parses the rest as an integer.
func ParseDollars(raw string) int {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	n, err := strconv.Atoi(b.String())
	if err != nil {
		return 0
	}
	return n
}

// ParseNumber strips everything but digits and dots and parses a float.
func ParseNumber(raw string) float64 {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	s := b.String()
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err == nil {
		return f
	}
	// "1.2.3" parses its leading valid prefix
	if i := strings.Index(s, "."); i >= 0 {
		if j := strings.Index(s[i+1:], "."); j >= 0 {
			if f, err := strconv.ParseFloat(s[:i+1+j], 64); err == nil {
				return f
			}
		}
	}
	return 0
}
