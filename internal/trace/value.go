// Package trace holds the data recorded while a snippet is interpreted:
// variable values, the ordered variable store, the output log and the
// step entries handed to the presentation layer.
package trace

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Kind identifies the shape of a Value.
type Kind int

const (
	KindNumber Kind = iota
	KindList
	KindString
)

// String returns the kind name used in JSON output.
func (k Kind) String() string {
	switch k {
	case KindList:
		return "list"
	case KindString:
		return "string"
	default:
		return "number"
	}
}

// Value is a number, an ordered list of numbers, or a string.
// Lists are replaced wholesale, never written through an index.
type Value struct {
	Kind Kind
	Num  float64
	List []float64
	Str  string
}

// Number wraps a float as a Value.
func Number(n float64) Value {
	return Value{Kind: KindNumber, Num: n}
}

// List copies items into a list Value.
func List(items []float64) Value {
	cp := make([]float64, len(items))
	copy(cp, items)
	return Value{Kind: KindList, List: cp}
}

// String wraps text as a Value.
func String(s string) Value {
	return Value{Kind: KindString, Str: s}
}

// IsList reports whether v holds a list.
func (v Value) IsList() bool { return v.Kind == KindList }

// Clone returns a deep copy of v.
func (v Value) Clone() Value {
	if v.Kind == KindList {
		return List(v.List)
	}
	return v
}

// Float coerces v to a number. Lists coerce to 0; strings parse or coerce to 0.
func (v Value) Float() float64 {
	switch v.Kind {
	case KindNumber:
		return v.Num
	case KindString:
		n, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// Display renders v the way print statements show it.
func (v Value) Display() string {
	switch v.Kind {
	case KindList:
		return FormatList(v.List)
	case KindString:
		return v.Str
	default:
		return FormatNumber(v.Num)
	}
}

// Equal reports deep equality.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindList:
		if len(v.List) != len(o.List) {
			return false
		}
		for i := range v.List {
			if v.List[i] != o.List[i] {
				return false
			}
		}
		return true
	case KindString:
		return v.Str == o.Str
	default:
		return v.Num == o.Num
	}
}

// MarshalJSON encodes numbers as JSON numbers, lists as arrays and strings as strings.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindList:
		if v.List == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.List)
	case KindString:
		return json.Marshal(v.Str)
	default:
		return json.Marshal(v.Num)
	}
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case float64:
		*v = Number(x)
	case string:
		*v = String(x)
	case []any:
		items := make([]float64, 0, len(x))
		for _, it := range x {
			if f, ok := it.(float64); ok {
				items = append(items, f)
			}
		}
		*v = List(items)
	default:
		*v = Number(0)
	}
	return nil
}

// maxFullList is the longest list rendered without elision.
const maxFullList = 8

// FormatNumber renders integral values without a fractional part.
func FormatNumber(n float64) string {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return "0"
	}
	if n == math.Trunc(n) && math.Abs(n) < 1e15 {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// FormatList renders up to eight items in full; longer lists show the first
// three and last two items followed by the item count.
func FormatList(items []float64) string {
	if len(items) <= maxFullList {
		parts := make([]string, len(items))
		for i, it := range items {
			parts[i] = FormatNumber(it)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	head := make([]string, 0, 6)
	for _, it := range items[:3] {
		head = append(head, FormatNumber(it))
	}
	head = append(head, "...")
	for _, it := range items[len(items)-2:] {
		head = append(head, FormatNumber(it))
	}
	return "[" + strings.Join(head, ", ") + "] (" + strconv.Itoa(len(items)) + " items)"
}
