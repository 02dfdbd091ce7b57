package pco

import (
	"context"
	"fmt"
)

// RelationshipManager navigates and mutates one named relationship of a
// Resource. Reads resolve against, in priority order: locally edited
// relationship data, the resource's links map, then the embedded
// relationship reference list.
type RelationshipManager struct {
	resource *Resource
	name     string
}

// Get resolves a to-one relationship to its target Resource.
func (m *RelationshipManager) Get(ctx context.Context) (*Resource, error) {
	res := m.resource

	if _, dirty := res.dirtyRels[m.name]; dirty {
		data := res.doc.Relationships[m.name].Data
		if data == nil || data.One == nil {
			return nil, fmt.Errorf("relationship %q: %w", m.name, ErrNotToOneRelation)
		}

		return m.resolve(ctx, *data.One)
	}

	if href, ok := res.doc.Links[m.name]; ok && href != "" {
		doc, err := res.endpoint.Document(ctx, href)
		if err != nil {
			return nil, fmt.Errorf("fetching relationship %q: %w", m.name, err)
		}

		return NewResource(res.endpoint, doc.Data), nil
	}

	if rel, ok := res.doc.Relationships[m.name]; ok {
		if rel.Data == nil || rel.Data.One == nil {
			if rel.Data != nil && rel.Data.List {
				return nil, fmt.Errorf("relationship %q: %w", m.name, ErrNotToOneRelation)
			}

			return nil, fmt.Errorf("relationship %q: %w", m.name, ErrRelationDataMissing)
		}

		return m.resolve(ctx, *rel.Data.One)
	}

	return nil, &RelationNotFoundError{Relation: m.name}
}

// List resolves a to-many relationship to its target Resources.
func (m *RelationshipManager) List(ctx context.Context) ([]*Resource, error) {
	res := m.resource

	rel, ok := res.doc.Relationships[m.name]
	if !ok {
		return nil, &RelationNotFoundError{Relation: m.name}
	}

	results := make([]*Resource, 0, len(rel.Data.Refs()))

	for _, ref := range rel.Data.Refs() {
		resolved, err := m.resolve(ctx, ref)
		if err != nil {
			return nil, err
		}

		results = append(results, resolved)
	}

	return results, nil
}

// Set replaces the relationship with a single reference to other and
// marks it dirty. other must be a synced Resource.
func (m *RelationshipManager) Set(other *Resource) error {
	ref, err := refOf(other)
	if err != nil {
		return err
	}

	m.resource.setRelationship(m.name, &RelationshipData{One: &ref})

	return nil
}

// Add appends a reference to a to-many relationship and marks it dirty.
// other must be a synced Resource.
func (m *RelationshipManager) Add(other *Resource) error {
	ref, err := refOf(other)
	if err != nil {
		return err
	}

	refs := m.currentRefs()
	for _, existing := range refs {
		if existing == ref {
			return nil
		}
	}

	m.resource.setRelationship(m.name, &RelationshipData{Many: append(refs, ref), List: true})

	return nil
}

// Remove drops a reference from a to-many relationship and marks it
// dirty. other must be a synced Resource.
func (m *RelationshipManager) Remove(other *Resource) error {
	ref, err := refOf(other)
	if err != nil {
		return err
	}

	if _, ok := m.resource.doc.Relationships[m.name]; !ok {
		return &RelationNotFoundError{Relation: m.name}
	}

	refs := m.currentRefs()
	kept := make([]ResourceRef, 0, len(refs))

	for _, existing := range refs {
		if existing != ref {
			kept = append(kept, existing)
		}
	}

	m.resource.setRelationship(m.name, &RelationshipData{Many: kept, List: true})

	return nil
}

// Create allocates a user-created Resource targeted at this
// relationship's collection URL, ready for Create(ctx).
func (m *RelationshipManager) Create(objectType string) (*Resource, error) {
	href, ok := m.resource.doc.Links[m.name]
	if !ok || href == "" {
		return nil, &RelationNotFoundError{Relation: m.name}
	}

	return NewUserResource(&boundEndpoint{Endpoint: m.resource.endpoint, url: href}, objectType), nil
}

func (m *RelationshipManager) currentRefs() []ResourceRef {
	if rel, ok := m.resource.doc.Relationships[m.name]; ok {
		return append([]ResourceRef(nil), rel.Data.Refs()...)
	}

	return nil
}

func (m *RelationshipManager) resolve(ctx context.Context, ref ResourceRef) (*Resource, error) {
	resolved, err := m.resource.endpoint.Resolve(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("resolving relationship %q: %w", m.name, err)
	}

	return resolved, nil
}

// refOf validates that other is usable as a relationship argument: a
// Resource carrying both type and id.
func refOf(other *Resource) (ResourceRef, error) {
	if other == nil {
		return ResourceRef{}, &InvalidModelError{Reason: "relationship argument is nil"}
	}

	if other.Type() == "" || other.ID() == "" {
		return ResourceRef{}, &InvalidModelError{Reason: "relationship argument must be a synced resource with type and id"}
	}

	return ResourceRef{Type: other.Type(), ID: other.ID()}, nil
}

// boundEndpoint rebinds an endpoint's collection URL, leaving its
// network operations untouched.
type boundEndpoint struct {
	Endpoint
	url string
}

func (e *boundEndpoint) URL() string {
	return e.url
}
