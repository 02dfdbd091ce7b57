package pco_test

import (
	"context"
	"testing"

	"github.com/fivetwenty-io/pco-client/pkg/pco"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func personWithRelationships() pco.Object {
	return pco.Object{
		Type: "Person",
		ID:   "42",
		Attributes: map[string]interface{}{
			"first_name": "Paul",
		},
		Relationships: map[string]pco.Relationship{
			"primary_campus": {Data: &pco.RelationshipData{One: &pco.ResourceRef{Type: "Campus", ID: "7"}}},
			"emails": {Data: &pco.RelationshipData{
				Many: []pco.ResourceRef{{Type: "Email", ID: "1"}, {Type: "Email", ID: "2"}},
				List: true,
			}},
		},
		Links: pco.Links{
			"self":      "https://api.example.com/people/v2/people/42",
			"addresses": "https://api.example.com/people/v2/people/42/addresses",
		},
	}
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestRelationshipManager_Get(t *testing.T) {
	t.Parallel()

	t.Run("follows the resource link when present", func(t *testing.T) {
		t.Parallel()

		endpoint := &fakeEndpoint{documents: map[string]*pco.SingleDocument{
			"https://api.example.com/people/v2/people/42/addresses": {
				Data: pco.Object{Type: "Address", ID: "5"},
			},
		}}

		resource := pco.NewResource(endpoint, personWithRelationships())

		address, err := resource.Rel("addresses").Get(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Address", address.Type())
		assert.Equal(t, "5", address.ID())
		assert.Empty(t, endpoint.resolved)
	})

	t.Run("resolves the embedded reference without a link", func(t *testing.T) {
		t.Parallel()

		endpoint := &fakeEndpoint{}
		resource := pco.NewResource(endpoint, personWithRelationships())

		campus, err := resource.Rel("primary_campus").Get(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Campus", campus.Type())
		assert.Equal(t, "7", campus.ID())
		assert.Equal(t, []pco.ResourceRef{{Type: "Campus", ID: "7"}}, endpoint.resolved)
	})

	t.Run("prefers unsaved local edits", func(t *testing.T) {
		t.Parallel()

		endpoint := &fakeEndpoint{}
		resource := pco.NewResource(endpoint, personWithRelationships())
		other := pco.NewResource(endpoint, pco.Object{Type: "Campus", ID: "8"})

		require.NoError(t, resource.Rel("primary_campus").Set(other))

		campus, err := resource.Rel("primary_campus").Get(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "8", campus.ID())
	})

	t.Run("rejects a to-many relationship", func(t *testing.T) {
		t.Parallel()

		resource := pco.NewResource(&fakeEndpoint{}, personWithRelationships())

		_, err := resource.Rel("emails").Get(context.Background())
		require.ErrorIs(t, err, pco.ErrNotToOneRelation)
	})

	t.Run("unknown relationship", func(t *testing.T) {
		t.Parallel()

		resource := pco.NewResource(&fakeEndpoint{}, personWithRelationships())

		_, err := resource.Rel("supervisor").Get(context.Background())

		notFound := &pco.RelationNotFoundError{}
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "supervisor", notFound.Relation)
	})
}

func TestRelationshipManager_List(t *testing.T) {
	t.Parallel()

	t.Run("resolves every reference in order", func(t *testing.T) {
		t.Parallel()

		endpoint := &fakeEndpoint{}
		resource := pco.NewResource(endpoint, personWithRelationships())

		emails, err := resource.Rel("emails").List(context.Background())
		require.NoError(t, err)
		require.Len(t, emails, 2)
		assert.Equal(t, "1", emails[0].ID())
		assert.Equal(t, "2", emails[1].ID())
	})

	t.Run("unknown relationship", func(t *testing.T) {
		t.Parallel()

		resource := pco.NewResource(&fakeEndpoint{}, personWithRelationships())

		_, err := resource.Rel("phone_numbers").List(context.Background())

		notFound := &pco.RelationNotFoundError{}
		require.ErrorAs(t, err, &notFound)
	})
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestRelationshipManager_Mutations(t *testing.T) {
	t.Parallel()

	t.Run("set replaces the reference and marks it dirty", func(t *testing.T) {
		t.Parallel()

		endpoint := &fakeEndpoint{updateReply: &pco.SingleDocument{Data: personWithRelationships()}}
		resource := pco.NewResource(endpoint, personWithRelationships())
		other := pco.NewResource(endpoint, pco.Object{Type: "Campus", ID: "8"})

		require.NoError(t, resource.Rel("primary_campus").Set(other))

		err := resource.Update(context.Background())
		require.NoError(t, err)

		require.NotNil(t, endpoint.updateBody)
		rel := endpoint.updateBody.Data.Relationships["primary_campus"]
		require.NotNil(t, rel.Data)
		require.NotNil(t, rel.Data.One)
		assert.Equal(t, pco.ResourceRef{Type: "Campus", ID: "8"}, *rel.Data.One)
	})

	t.Run("add appends and deduplicates", func(t *testing.T) {
		t.Parallel()

		endpoint := &fakeEndpoint{}
		resource := pco.NewResource(endpoint, personWithRelationships())
		email := pco.NewResource(endpoint, pco.Object{Type: "Email", ID: "3"})

		require.NoError(t, resource.Rel("emails").Add(email))
		require.NoError(t, resource.Rel("emails").Add(email))

		refs := resource.Data().Relationships["emails"].Data.Refs()
		assert.Equal(t, []pco.ResourceRef{
			{Type: "Email", ID: "1"},
			{Type: "Email", ID: "2"},
			{Type: "Email", ID: "3"},
		}, refs)
	})

	t.Run("remove drops the reference", func(t *testing.T) {
		t.Parallel()

		endpoint := &fakeEndpoint{}
		resource := pco.NewResource(endpoint, personWithRelationships())
		email := pco.NewResource(endpoint, pco.Object{Type: "Email", ID: "1"})

		require.NoError(t, resource.Rel("emails").Remove(email))

		refs := resource.Data().Relationships["emails"].Data.Refs()
		assert.Equal(t, []pco.ResourceRef{{Type: "Email", ID: "2"}}, refs)
	})

	t.Run("remove from an unknown relationship", func(t *testing.T) {
		t.Parallel()

		endpoint := &fakeEndpoint{}
		resource := pco.NewResource(endpoint, personWithRelationships())
		email := pco.NewResource(endpoint, pco.Object{Type: "Email", ID: "1"})

		err := resource.Rel("phone_numbers").Remove(email)

		notFound := &pco.RelationNotFoundError{}
		require.ErrorAs(t, err, &notFound)
	})

	t.Run("rejects an unidentified argument", func(t *testing.T) {
		t.Parallel()

		endpoint := &fakeEndpoint{}
		resource := pco.NewResource(endpoint, personWithRelationships())
		unsaved := pco.NewUserResource(endpoint, "Email")

		err := resource.Rel("emails").Add(unsaved)

		invalid := &pco.InvalidModelError{}
		require.ErrorAs(t, err, &invalid)

		err = resource.Rel("primary_campus").Set(nil)
		require.ErrorAs(t, err, &invalid)
	})
}

func TestRelationshipManager_Create(t *testing.T) {
	t.Parallel()

	t.Run("targets the relationship URL", func(t *testing.T) {
		t.Parallel()

		endpoint := &fakeEndpoint{
			url: "/people/v2/people",
			createReply: &pco.SingleDocument{Data: pco.Object{
				Type: "Address",
				ID:   "11",
			}},
		}

		resource := pco.NewResource(endpoint, personWithRelationships())

		address, err := resource.Rel("addresses").Create("Address")
		require.NoError(t, err)

		address.SetAttribute("city", "Boston")
		require.NoError(t, address.Create(context.Background()))

		assert.Equal(t, "https://api.example.com/people/v2/people/42/addresses", endpoint.createURL)
		assert.Equal(t, "11", address.ID())
	})

	t.Run("requires a relationship link", func(t *testing.T) {
		t.Parallel()

		resource := pco.NewResource(&fakeEndpoint{}, personWithRelationships())

		_, err := resource.Rel("emails").Create("Email")

		notFound := &pco.RelationNotFoundError{}
		require.ErrorAs(t, err, &notFound)
	})
}
