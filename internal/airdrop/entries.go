package airdrop

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

// EntriesKind reports which shape an Entries value was decoded from.
type EntriesKind int

const (
	KindNone EntriesKind = iota
	KindList
	KindKeyed
)

// Pair is one key/value item of a keyed Entries value.
type Pair struct {
	Key   string
	Value string
}

// Entry is the uniform rendering unit for requirements and how-to steps.
type Entry struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Entries holds a requirements or steps field after boundary normalization.
// It is either an ordered list of strings or an ordered list of key/value
// pairs. Shapes that are neither decode to the zero value.
type Entries struct {
	kind  EntriesKind
	items []string
	pairs []Pair
}

// List builds a list-shaped Entries value.
func List(items ...string) Entries {
	if len(items) == 0 {
		return Entries{kind: KindList}
	}
	dup := make([]string, len(items))
	copy(dup, items)
	return Entries{kind: KindList, items: dup}
}

// Keyed builds a keyed Entries value, preserving pair order.
func Keyed(pairs ...Pair) Entries {
	if len(pairs) == 0 {
		return Entries{kind: KindKeyed}
	}
	dup := make([]Pair, len(pairs))
	copy(dup, pairs)
	return Entries{kind: KindKeyed, pairs: dup}
}

// Kind returns the decoded shape.
func (e Entries) Kind() EntriesKind { return e.kind }

// Items returns the list items; nil unless Kind is KindList.
func (e Entries) Items() []string { return e.items }

// Pairs returns the keyed pairs; nil unless Kind is KindKeyed.
func (e Entries) Pairs() []Pair { return e.pairs }

// Normalize converts either shape to an ordered []Entry. Items whose title
// and description are both blank are dropped.
func (e Entries) Normalize() []Entry {
	var out []Entry
	switch e.kind {
	case KindList:
		out = make([]Entry, 0, len(e.items))
		for _, item := range e.items {
			title := strings.TrimSpace(item)
			if title == "" {
				continue
			}
			out = append(out, Entry{Title: title})
		}
	case KindKeyed:
		out = make([]Entry, 0, len(e.pairs))
		for _, p := range e.pairs {
			title := strings.TrimSpace(p.Key)
			desc := strings.TrimSpace(p.Value)
			if title == "" && desc == "" {
				continue
			}
			out = append(out, Entry{Title: title, Description: desc})
		}
	}
	return out
}

// Len returns the number of entries Normalize would produce.
func (e Entries) Len() int {
	return len(e.Normalize())
}

// UnmarshalJSON never fails: unsupported shapes decode to the zero value.
func (e *Entries) UnmarshalJSON(data []byte) error {
	*e = decodeEntriesJSON(data)
	return nil
}

// MarshalJSON writes the value back in its original shape.
func (e Entries) MarshalJSON() ([]byte, error) {
	switch e.kind {
	case KindList:
		items := e.items
		if items == nil {
			items = []string{}
		}
		return json.Marshal(items)
	case KindKeyed:
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, p := range e.pairs {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(p.Key)
			if err != nil {
				return nil, err
			}
			val, err := json.Marshal(p.Value)
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')
			buf.Write(val)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalYAML mirrors UnmarshalJSON for seed files.
func (e *Entries) UnmarshalYAML(node *yaml.Node) error {
	*e = decodeEntriesYAML(node)
	return nil
}

// Value stores entries as JSON text. Empty values are stored as NULL.
func (e Entries) Value() (driver.Value, error) {
	if e.kind == KindNone {
		return nil, nil
	}
	b, err := e.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan reads JSON text written by Value, or any JSON/JSONB column.
func (e *Entries) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		*e = decodeEntriesJSON(v)
	case string:
		*e = decodeEntriesJSON([]byte(v))
	default:
		*e = Entries{}
	}
	return nil
}

func decodeEntriesJSON(data []byte) Entries {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Entries{}
	}
	switch trimmed[0] {
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return Entries{}
		}
		items := make([]string, 0, len(raw))
		for _, r := range raw {
			if s, ok := scalarText(r); ok {
				items = append(items, s)
			}
		}
		return List(items...)
	case '{':
		pairs, err := decodeOrderedObject(trimmed)
		if err != nil {
			return Entries{}
		}
		return Keyed(pairs...)
	case '"':
		// Some text columns hold the document as a JSON string.
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return Entries{}
		}
		inner := strings.TrimSpace(s)
		if strings.HasPrefix(inner, "[") || strings.HasPrefix(inner, "{") {
			return decodeEntriesJSON([]byte(inner))
		}
	}
	return Entries{}
}

// decodeOrderedObject walks the object token by token so key order survives.
func decodeOrderedObject(data []byte) ([]Pair, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	var pairs []Pair
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		val, _ := scalarText(raw)
		pairs = append(pairs, Pair{Key: key, Value: val})
	}
	return pairs, nil
}

// scalarText renders a JSON scalar as text. Objects, arrays and null report false.
func scalarText(raw json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "", false
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", false
		}
		return s, true
	case '{', '[', 'n':
		return "", false
	default:
		return string(trimmed), true
	}
}

func decodeEntriesYAML(node *yaml.Node) Entries {
	if node == nil {
		return Entries{}
	}
	if node.Kind == yaml.AliasNode {
		return decodeEntriesYAML(node.Alias)
	}
	switch node.Kind {
	case yaml.SequenceNode:
		items := make([]string, 0, len(node.Content))
		for _, child := range node.Content {
			if s, ok := yamlScalar(child); ok {
				items = append(items, s)
			}
		}
		return List(items...)
	case yaml.MappingNode:
		pairs := make([]Pair, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, _ := yamlScalar(node.Content[i])
			val, _ := yamlScalar(node.Content[i+1])
			pairs = append(pairs, Pair{Key: key, Value: val})
		}
		return Keyed(pairs...)
	}
	return Entries{}
}

func yamlScalar(node *yaml.Node) (string, bool) {
	if node == nil {
		return "", false
	}
	if node.Kind == yaml.AliasNode {
		return yamlScalar(node.Alias)
	}
	if node.Kind != yaml.ScalarNode || node.Tag == "!!null" {
		return "", false
	}
	return node.Value, true
}
