package intake

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Kind tags the shape of an answer.
type Kind uint8

const (
	KindMissing Kind = iota
	KindString
	KindList
)

// Value is one intake answer: a single string, an ordered list of strings,
// or missing. The zero value is missing.
type Value struct {
	kind Kind
	str  string
	list []string
}

// Str builds a single-string answer.
func Str(s string) Value {
	return Value{kind: KindString, str: s}
}

// List builds a multi-select answer.
func List(items ...string) Value {
	return Value{kind: KindList, list: append([]string(nil), items...)}
}

// Missing is the explicit absent answer.
func Missing() Value { return Value{} }

func (v Value) Kind() Kind { return v.kind }

// IsMissing reports whether the answer carries no signal. Empty strings and
// empty lists count as missing.
func (v Value) IsMissing() bool {
	switch v.kind {
	case KindString:
		return v.str == ""
	case KindList:
		return len(v.list) == 0
	default:
		return true
	}
}

// String returns the answer as text. Lists are joined with ", ".
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindList:
		return strings.Join(v.list, ", ")
	default:
		return ""
	}
}

// First returns the single string or the first list element.
func (v Value) First() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindList:
		if len(v.list) > 0 {
			return v.list[0]
		}
	}
	return ""
}

// Items returns the answer as a list. A single non-empty string becomes a
// one-element list.
func (v Value) Items() []string {
	switch v.kind {
	case KindList:
		return append([]string(nil), v.list...)
	case KindString:
		if v.str == "" {
			return nil
		}
		return []string{v.str}
	default:
		return nil
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindList:
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts strings, string arrays, numbers, booleans, objects
// and null. Numbers keep their literal text; booleans become "Yes"/"No".
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*v = Value{}
		return nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*v = Str(s)
		return nil
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		items := make([]string, 0, len(raw))
		for _, item := range raw {
			var elem Value
			if err := elem.UnmarshalJSON(item); err != nil {
				return err
			}
			if elem.kind == KindString {
				items = append(items, elem.str)
			}
		}
		*v = List(items...)
		return nil
	case 't', 'f':
		b, err := strconv.ParseBool(string(trimmed))
		if err != nil {
			return fmt.Errorf("intake value: %w", err)
		}
		if b {
			*v = Str("Yes")
		} else {
			*v = Str("No")
		}
		return nil
	case '{':
		// form answers; kept verbatim as text
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err != nil {
			return fmt.Errorf("intake value: %w", err)
		}
		*v = Str(buf.String())
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return fmt.Errorf("intake value: %w", err)
		}
		*v = Str(n.String())
		return nil
	}
}
