package pco

import (
	"encoding/json"
	"fmt"
)

// Links maps link names ("self", "next", ...) to URLs.
type Links map[string]string

// ResourceRef identifies one API object by type and id.
type ResourceRef struct {
	Type string `json:"type" yaml:"type"`
	ID   string `json:"id"   yaml:"id"`
}

// Object is one raw JSON:API resource object as returned by the API.
type Object struct {
	Type          string                  `json:"type"                    yaml:"type"`
	ID            string                  `json:"id,omitempty"            yaml:"id,omitempty"`
	Attributes    map[string]interface{}  `json:"attributes,omitempty"    yaml:"attributes,omitempty"`
	Relationships map[string]Relationship `json:"relationships,omitempty" yaml:"relationships,omitempty"`
	Links         Links                   `json:"links,omitempty"         yaml:"links,omitempty"`
}

// Relationship is a named reference from one object to others. Data may
// be a single reference, a list, or absent.
type Relationship struct {
	Data  *RelationshipData `json:"data,omitempty"  yaml:"data,omitempty"`
	Links Links             `json:"links,omitempty" yaml:"links,omitempty"`
}

// RelationshipData holds a to-one or to-many reference set. On the wire
// it is either a single object, an array, or null.
type RelationshipData struct {
	One  *ResourceRef
	Many []ResourceRef
	// List records that the wire form was an array, so an empty to-many
	// relationship round-trips as [] rather than null.
	List bool
}

// Refs returns all references regardless of arity.
func (d *RelationshipData) Refs() []ResourceRef {
	if d == nil {
		return nil
	}

	if d.List {
		return d.Many
	}

	if d.One != nil {
		return []ResourceRef{*d.One}
	}

	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *RelationshipData) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	if len(data) > 0 && data[0] == '[' {
		d.List = true

		if err := json.Unmarshal(data, &d.Many); err != nil {
			return fmt.Errorf("parsing to-many relationship data: %w", err)
		}

		return nil
	}

	var ref ResourceRef
	if err := json.Unmarshal(data, &ref); err != nil {
		return fmt.Errorf("parsing to-one relationship data: %w", err)
	}

	d.One = &ref

	return nil
}

// MarshalJSON implements json.Marshaler.
func (d *RelationshipData) MarshalJSON() ([]byte, error) {
	if d.List {
		if d.Many == nil {
			return []byte("[]"), nil
		}

		out, err := json.Marshal(d.Many)
		if err != nil {
			return nil, fmt.Errorf("serializing to-many relationship data: %w", err)
		}

		return out, nil
	}

	if d.One == nil {
		return []byte("null"), nil
	}

	out, err := json.Marshal(d.One)
	if err != nil {
		return nil, fmt.Errorf("serializing to-one relationship data: %w", err)
	}

	return out, nil
}

// MarshalYAML implements yaml.Marshaler, mirroring the JSON wire form.
func (d *RelationshipData) MarshalYAML() (interface{}, error) {
	if d.List {
		if d.Many == nil {
			return []ResourceRef{}, nil
		}

		return d.Many, nil
	}

	return d.One, nil
}

// PageRef carries the offset of a neighboring page in collection meta.
type PageRef struct {
	Offset int `json:"offset" yaml:"offset"`
}

// Meta is the introspection/pagination block of a response envelope.
type Meta struct {
	TotalCount int                    `json:"total_count,omitempty"  yaml:"total_count,omitempty"`
	Count      int                    `json:"count,omitempty"        yaml:"count,omitempty"`
	Next       *PageRef               `json:"next,omitempty"         yaml:"next,omitempty"`
	Prev       *PageRef               `json:"prev,omitempty"         yaml:"prev,omitempty"`
	CanInclude []string               `json:"can_include,omitempty"  yaml:"can_include,omitempty"`
	CanOrderBy []string               `json:"can_order_by,omitempty" yaml:"can_order_by,omitempty"`
	CanQueryBy []string               `json:"can_query_by,omitempty" yaml:"can_query_by,omitempty"`
	CanFilter  []string               `json:"can_filter,omitempty"   yaml:"can_filter,omitempty"`
	Parent     map[string]interface{} `json:"parent,omitempty"       yaml:"parent,omitempty"`
}

// SingleDocument is the response envelope for one object.
type SingleDocument struct {
	Data     Object   `json:"data"               yaml:"data"`
	Included []Object `json:"included,omitempty" yaml:"included,omitempty"`
	Meta     *Meta    `json:"meta,omitempty"     yaml:"meta,omitempty"`
	Links    Links    `json:"links,omitempty"    yaml:"links,omitempty"`
}

// CollectionDocument is the response envelope for a list of objects.
type CollectionDocument struct {
	Data     []Object `json:"data"               yaml:"data"`
	Included []Object `json:"included,omitempty" yaml:"included,omitempty"`
	Meta     *Meta    `json:"meta,omitempty"     yaml:"meta,omitempty"`
	Links    Links    `json:"links,omitempty"    yaml:"links,omitempty"`
}

// RecordMeta is the response metadata attached to each paginated record.
type RecordMeta struct {
	CanInclude []string               `json:"can_include,omitempty" yaml:"can_include,omitempty"`
	Parent     map[string]interface{} `json:"parent,omitempty"      yaml:"parent,omitempty"`
}

// Record is one enriched item yielded during pagination: the primary
// object plus only the included objects its relationships reference.
type Record struct {
	Data     Object     `json:"data"     yaml:"data"`
	Included []Object   `json:"included" yaml:"included"`
	Meta     RecordMeta `json:"meta"     yaml:"meta"`
}
