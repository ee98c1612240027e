package trace

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Store is the ordered variable store of one run. Names keep the order in
// which they were first bound; rebinding overwrites in place.
type Store struct {
	names []string
	vals  map[string]Value
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{vals: make(map[string]Value)}
}

// Get looks up name.
func (s *Store) Get(name string) (Value, bool) {
	v, ok := s.vals[name]
	return v, ok
}

// Set binds name to a copy of v.
func (s *Store) Set(name string, v Value) {
	if _, ok := s.vals[name]; !ok {
		s.names = append(s.names, name)
	}
	s.vals[name] = v.Clone()
}

// Names returns the bound names in first-bound order.
func (s *Store) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Len returns the number of bindings.
func (s *Store) Len() int { return len(s.names) }

// Clone returns a deep, independent copy.
func (s *Store) Clone() *Store {
	c := &Store{
		names: make([]string, len(s.names)),
		vals:  make(map[string]Value, len(s.vals)),
	}
	copy(c.names, s.names)
	for k, v := range s.vals {
		c.vals[k] = v.Clone()
	}
	return c
}

// Changed returns the names whose value differs between s and other,
// in the order of other.
func (s *Store) Changed(other *Store) []string {
	var out []string
	for _, name := range other.names {
		prev, ok := s.vals[name]
		if !ok || !prev.Equal(other.vals[name]) {
			out = append(out, name)
		}
	}
	return out
}

// MarshalJSON encodes the store as a JSON object keeping binding order.
func (s *Store) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range s.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(s.vals[name])
		if err != nil {
			return nil, fmt.Errorf("failed to marshal variable %s: %w", name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object written by MarshalJSON, preserving key order.
func (s *Store) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}
	*s = Store{vals: make(map[string]Value)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := tok.(string)
		var v Value
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("failed to decode variable %s: %w", name, err)
		}
		s.Set(name, v)
	}
	_, err = dec.Token()
	return err
}

// Output is the append-only output log of one run.
type Output struct {
	lines []string
}

// Append adds a line.
func (o *Output) Append(line string) {
	o.lines = append(o.lines, line)
}

// Lines returns a copy of the log.
func (o *Output) Lines() []string {
	out := make([]string, len(o.lines))
	copy(out, o.lines)
	return out
}

// Len returns the number of lines logged.
func (o *Output) Len() int { return len(o.lines) }
