//go:build integration
// +build integration

package integration

import (
	"context"
	"testing"

	"github.com/fivetwenty-io/pco-client/pkg/pco"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPeople_ListAndFetch walks the live People API: list a page,
// re-fetch one person by id, and navigate a relationship.
func TestPeople_ListAndFetch(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingConfig(t)

	client := config.NewClient(t)
	ctx := context.Background()

	iterator := client.People().Collection("people").List(ctx,
		pco.NewQueryParams().WithPerPage(5))

	var first *pco.Record

	for i := 0; i < 5 && iterator.HasNext(); i++ {
		record, err := iterator.Next()
		require.NoError(t, err)
		assert.Equal(t, "Person", record.Data.Type)
		assert.NotEmpty(t, record.Data.ID)

		if first == nil {
			first = record
		}
	}

	if first == nil {
		t.Skip("Organization has no people to test against")
	}

	person, err := client.People().Collection("people").Get(ctx, first.Data.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Data.ID, person.ID())
	assert.True(t, person.Synced())
}

// TestPeople_RawAccess exercises the raw verb surface against the
// product root.
func TestPeople_RawAccess(t *testing.T) {
	config := LoadTestConfig()
	config.SkipIfMissingConfig(t)

	client := config.NewClient(t)

	reply, err := client.GetJSON(context.Background(), "/people/v2", nil)
	require.NoError(t, err)
	assert.Contains(t, reply, "data")
}
