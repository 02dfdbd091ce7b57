package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeToCollection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		typeName string
		expected string
	}{
		{"Person", "people"},
		{"EventPerson", "event_people"},
		{"Child", "children"},
		{"Address", "addresses"},
		{"Email", "emails"},
		{"PhoneNumber", "phone_numbers"},
		{"EventTime", "event_times"},
		{"Campus", "campuses"},
		{"Pass", "passes"},
		{"Batch", "batches"},
		{"Category", "categories"},
		{"Household", "households"},
		{"Day", "days"},
		{"Workflow", "workflows"},
		{"Series", "serieses"},
	}

	for _, tt := range tests {
		t.Run(tt.typeName, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, typeToCollection(tt.typeName))
		})
	}
}

func TestProductRoutes(t *testing.T) {
	t.Parallel()

	product, err := NewProduct(nil, "people")
	assert.NoError(t, err)
	assert.Equal(t, "/people/v2", product.URL())
	assert.Contains(t, product.Collections(), "people")
	assert.Contains(t, product.Collections(), "addresses")

	checkIns, err := NewProduct(nil, "check_ins")
	assert.NoError(t, err)
	assert.Equal(t, "/check-ins/v2", checkIns.URL())

	_, err = NewProduct(nil, "parking")
	assert.Error(t, err)
}

func TestProduct_CollectionsIsSortedCopy(t *testing.T) {
	t.Parallel()

	product, err := NewProduct(nil, "webhooks")
	assert.NoError(t, err)

	names := product.Collections()
	assert.Equal(t, []string{"available_events", "events", "subscriptions"}, names)

	// Mutating the returned slice must not affect the product.
	names[0] = "mutated"
	assert.Equal(t, "available_events", product.Collections()[0])
}
