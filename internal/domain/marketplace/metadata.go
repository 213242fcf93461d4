package marketplace

import "encoding/json"

// Metadata is an extension bag for entity fields that have no dedicated
// column (for example RFQ priority or listing tags). It is persisted as a
// JSON text blob and read back with a `{}` default when absent, so callers
// can always mutate it in place.
type Metadata map[string]any

// NewMetadata returns an empty, non-nil bag
func NewMetadata() Metadata {
	return make(Metadata)
}

// ParseMetadata restores a bag from its serialized form. Empty or malformed
// input yields an empty bag rather than an error; the bag is best-effort
// storage, not a validated document.
func ParseMetadata(raw string) Metadata {
	if raw == "" {
		return NewMetadata()
	}
	var m Metadata
	if err := json.Unmarshal([]byte(raw), &m); err != nil || m == nil {
		return NewMetadata()
	}
	return m
}

// Serialize renders the bag for storage
func (m Metadata) Serialize() string {
	if len(m) == 0 {
		return "{}"
	}
	data, err := json.Marshal(m)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// GetString returns the string value for a key, if present
func (m Metadata) GetString(key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Set stores a value under a key
func (m Metadata) Set(key string, value any) {
	m[key] = value
}

// Tags returns the string tags stored under the "tags" key
func (m Metadata) Tags() []string {
	v, ok := m["tags"]
	if !ok {
		return nil
	}
	switch tags := v.(type) {
	case []string:
		return tags
	case []any:
		out := make([]string, 0, len(tags))
		for _, t := range tags {
			if s, ok := t.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// AddTag appends a tag under the "tags" key, deduplicating
func (m Metadata) AddTag(tag string) {
	tags := m.Tags()
	for _, t := range tags {
		if t == tag {
			return
		}
	}
	m["tags"] = append(tags, tag)
}
