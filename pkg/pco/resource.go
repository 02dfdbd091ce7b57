package pco

import (
	"context"
	"fmt"
)

// Resource wraps one JSON:API object as a mutable model. It tracks which
// attributes and relationships have been changed locally since the last
// sync with the server and mediates all further network operations
// through its originating endpoint.
//
// A Resource is either synced (fetched from or persisted to the server,
// carries an id) or user-created (allocated locally via a collection's
// New, no id until Create succeeds). Update, Delete, and Refresh are only
// valid on synced resources; Create is only valid on user-created ones.
//
// A Resource is not safe for concurrent use; callers sharing one across
// goroutines must synchronize access themselves.
type Resource struct {
	endpoint Endpoint
	doc      Object

	dirtyAttrs map[string]struct{}
	dirtyRels  map[string]struct{}

	userCreated bool
	deleted     bool
}

// NewResource wraps a server-provided object as a synced Resource bound
// to the given endpoint.
func NewResource(endpoint Endpoint, obj Object) *Resource {
	return &Resource{
		endpoint:   endpoint,
		doc:        obj,
		dirtyAttrs: make(map[string]struct{}),
		dirtyRels:  make(map[string]struct{}),
	}
}

// NewUserResource allocates an empty, user-created Resource of the given
// type, bound to the endpoint it will be created against.
func NewUserResource(endpoint Endpoint, objectType string) *Resource {
	return &Resource{
		endpoint: endpoint,
		doc: Object{
			Type:       objectType,
			Attributes: make(map[string]interface{}),
		},
		dirtyAttrs:  make(map[string]struct{}),
		dirtyRels:   make(map[string]struct{}),
		userCreated: true,
	}
}

// Type returns the resource's type tag.
func (r *Resource) Type() string {
	return r.doc.Type
}

// ID returns the server-assigned id, empty until the resource is synced.
func (r *Resource) ID() string {
	return r.doc.ID
}

// Links returns a copy of the server-provided links map.
func (r *Resource) Links() Links {
	links := make(Links, len(r.doc.Links))
	for name, href := range r.doc.Links {
		links[name] = href
	}

	return links
}

// Synced reports whether the resource has been persisted to or fetched
// from the server.
func (r *Resource) Synced() bool {
	return r.doc.ID != "" && !r.userCreated
}

// Attribute looks up an attribute by name: top-level fields ("type",
// "id") first, then the attributes map.
func (r *Resource) Attribute(name string) (interface{}, error) {
	switch name {
	case "type":
		return r.doc.Type, nil
	case "id":
		return r.doc.ID, nil
	}

	if value, ok := r.doc.Attributes[name]; ok {
		return value, nil
	}

	return nil, &AttributeNotAvailableError{Attribute: name}
}

// SetAttribute writes an attribute value and records it as dirty.
func (r *Resource) SetAttribute(name string, value interface{}) {
	if r.doc.Attributes == nil {
		r.doc.Attributes = make(map[string]interface{})
	}

	r.doc.Attributes[name] = value
	r.dirtyAttrs[name] = struct{}{}
}

// DirtyAttributes returns the names of locally changed attributes.
func (r *Resource) DirtyAttributes() []string {
	names := make([]string, 0, len(r.dirtyAttrs))
	for name := range r.dirtyAttrs {
		names = append(names, name)
	}

	return names
}

// Data returns a deep, independent copy of the internal raw document.
func (r *Resource) Data() Object {
	return copyObject(r.doc)
}

// Rel addresses a named relationship for navigation and mutation.
func (r *Resource) Rel(name string) *RelationshipManager {
	return &RelationshipManager{resource: r, name: name}
}

// Create persists a user-created resource via POST to the owning
// collection URL. On success the resource adopts the server-assigned id
// and document and flips to the synced state.
func (r *Resource) Create(ctx context.Context) error {
	if r.deleted {
		return &ModelStateError{Operation: "create", Reason: "resource has been deleted"}
	}

	if !r.userCreated {
		return &ModelStateError{Operation: "create", Reason: "resource is already synced with the server"}
	}

	if r.doc.Type == "" {
		return &ModelStateError{Operation: "create", Reason: "resource type is not set"}
	}

	if r.endpoint == nil {
		return fmt.Errorf("creating resource: %w", ErrNoEndpoint)
	}

	payload := &SingleDocument{Data: Object{
		Type:          r.doc.Type,
		Attributes:    r.doc.Attributes,
		Relationships: r.doc.Relationships,
	}}

	resp, err := r.endpoint.CreateDocument(ctx, r.endpoint.URL(), payload)
	if err != nil {
		return fmt.Errorf("creating resource: %w", err)
	}

	if resp != nil {
		r.doc = resp.Data
	}

	r.userCreated = false
	r.clearDirty()

	return nil
}

// Update serializes only the locally changed attributes and
// relationships into a PATCH against the resource's self link, adopts the
// server's response, and clears the dirty sets.
func (r *Resource) Update(ctx context.Context) error {
	if err := r.requireSynced("update"); err != nil {
		return err
	}

	payload := &SingleDocument{Data: Object{
		Type: r.doc.Type,
		ID:   r.doc.ID,
	}}

	if len(r.dirtyAttrs) > 0 {
		payload.Data.Attributes = make(map[string]interface{}, len(r.dirtyAttrs))
		for name := range r.dirtyAttrs {
			payload.Data.Attributes[name] = r.doc.Attributes[name]
		}
	}

	if len(r.dirtyRels) > 0 {
		payload.Data.Relationships = make(map[string]Relationship, len(r.dirtyRels))
		for name := range r.dirtyRels {
			payload.Data.Relationships[name] = Relationship{Data: r.doc.Relationships[name].Data}
		}
	}

	selfURL, err := r.selfURL()
	if err != nil {
		return fmt.Errorf("updating resource: %w", err)
	}

	resp, err := r.endpoint.UpdateDocument(ctx, selfURL, payload)
	if err != nil {
		return fmt.Errorf("updating resource: %w", err)
	}

	if resp != nil {
		r.doc = resp.Data
	}

	r.clearDirty()

	return nil
}

// Refresh re-fetches the resource by its self link. Locally edited
// attribute values are re-applied over the fetched document so unsaved
// edits survive the refresh; use RefreshHard to discard them.
func (r *Resource) Refresh(ctx context.Context) error {
	return r.refresh(ctx, false)
}

// RefreshHard re-fetches the resource and discards all local edits and
// dirty tracking, replacing them with server truth.
func (r *Resource) RefreshHard(ctx context.Context) error {
	return r.refresh(ctx, true)
}

func (r *Resource) refresh(ctx context.Context, hard bool) error {
	if err := r.requireSynced("refresh"); err != nil {
		return err
	}

	selfURL, err := r.selfURL()
	if err != nil {
		return fmt.Errorf("refreshing resource: %w", err)
	}

	resp, err := r.endpoint.Document(ctx, selfURL)
	if err != nil {
		return fmt.Errorf("refreshing resource: %w", err)
	}

	if hard {
		r.doc = resp.Data
		r.clearDirty()

		return nil
	}

	// Carry unsaved local edits over the fetched document.
	edits := make(map[string]interface{}, len(r.dirtyAttrs))
	for name := range r.dirtyAttrs {
		edits[name] = r.doc.Attributes[name]
	}

	relEdits := make(map[string]Relationship, len(r.dirtyRels))
	for name := range r.dirtyRels {
		relEdits[name] = r.doc.Relationships[name]
	}

	r.doc = resp.Data

	for name, value := range edits {
		if r.doc.Attributes == nil {
			r.doc.Attributes = make(map[string]interface{})
		}

		r.doc.Attributes[name] = value
	}

	for name, rel := range relEdits {
		if r.doc.Relationships == nil {
			r.doc.Relationships = make(map[string]Relationship)
		}

		r.doc.Relationships[name] = rel
	}

	return nil
}

// Delete removes the resource server-side via its self link. The local
// object remains readable but further update/delete/refresh calls fail.
func (r *Resource) Delete(ctx context.Context) error {
	if err := r.requireSynced("delete"); err != nil {
		return err
	}

	selfURL, err := r.selfURL()
	if err != nil {
		return fmt.Errorf("deleting resource: %w", err)
	}

	if err := r.endpoint.DeleteDocument(ctx, selfURL); err != nil {
		return fmt.Errorf("deleting resource: %w", err)
	}

	r.deleted = true

	return nil
}

func (r *Resource) requireSynced(operation string) error {
	if r.deleted {
		return &ModelStateError{Operation: operation, Reason: "resource has been deleted"}
	}

	if r.userCreated || r.doc.ID == "" {
		return &ModelStateError{Operation: operation, Reason: "resource has not been synced with the server"}
	}

	if r.endpoint == nil {
		return fmt.Errorf("%s: %w", operation, ErrNoEndpoint)
	}

	return nil
}

func (r *Resource) selfURL() (string, error) {
	if href, ok := r.doc.Links["self"]; ok && href != "" {
		return href, nil
	}

	if r.endpoint != nil && r.endpoint.URL() != "" && r.doc.ID != "" {
		return r.endpoint.URL() + "/" + r.doc.ID, nil
	}

	return "", ErrNoSelfLink
}

func (r *Resource) clearDirty() {
	r.dirtyAttrs = make(map[string]struct{})
	r.dirtyRels = make(map[string]struct{})
}

func (r *Resource) setRelationship(name string, data *RelationshipData) {
	if r.doc.Relationships == nil {
		r.doc.Relationships = make(map[string]Relationship)
	}

	rel := r.doc.Relationships[name]
	rel.Data = data
	r.doc.Relationships[name] = rel
	r.dirtyRels[name] = struct{}{}
}

// copyObject deep-copies a raw document so callers cannot mutate the
// resource's true state by aliasing.
func copyObject(obj Object) Object {
	out := Object{
		Type:       obj.Type,
		ID:         obj.ID,
		Attributes: copyValueMap(obj.Attributes),
	}

	if obj.Links != nil {
		out.Links = make(Links, len(obj.Links))
		for name, href := range obj.Links {
			out.Links[name] = href
		}
	}

	if obj.Relationships != nil {
		out.Relationships = make(map[string]Relationship, len(obj.Relationships))
		for name, rel := range obj.Relationships {
			out.Relationships[name] = copyRelationship(rel)
		}
	}

	return out
}

func copyRelationship(rel Relationship) Relationship {
	out := Relationship{}

	if rel.Links != nil {
		out.Links = make(Links, len(rel.Links))
		for name, href := range rel.Links {
			out.Links[name] = href
		}
	}

	if rel.Data != nil {
		data := RelationshipData{List: rel.Data.List}

		if rel.Data.One != nil {
			one := *rel.Data.One
			data.One = &one
		}

		if rel.Data.Many != nil {
			data.Many = append([]ResourceRef(nil), rel.Data.Many...)
		}

		out.Data = &data
	}

	return out
}

func copyValueMap(values map[string]interface{}) map[string]interface{} {
	if values == nil {
		return nil
	}

	out := make(map[string]interface{}, len(values))
	for key, value := range values {
		out[key] = copyValue(value)
	}

	return out
}

func copyValue(value interface{}) interface{} {
	switch typed := value.(type) {
	case map[string]interface{}:
		return copyValueMap(typed)
	case []interface{}:
		out := make([]interface{}, len(typed))
		for i, item := range typed {
			out[i] = copyValue(item)
		}

		return out
	default:
		return value
	}
}
