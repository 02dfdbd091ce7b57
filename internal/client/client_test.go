package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/fivetwenty-io/pco-client/internal/auth"
	"github.com/fivetwenty-io/pco-client/internal/client"
	pcohttp "github.com/fivetwenty-io/pco-client/internal/http"
	"github.com/fivetwenty-io/pco-client/pkg/pco"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*client.Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	authConfig := auth.NewConfig("test", "secret", "", "", nil)
	httpClient := pcohttp.NewClient(server.URL, authConfig)

	return client.NewWithHTTPClient(httpClient, authConfig), server
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()

	_, err := client.New(nil)
	require.ErrorIs(t, err, pco.ErrConfigRequired)

	c, err := client.New(&pco.Config{AppID: "test", Secret: "secret"})
	require.NoError(t, err)
	assert.NotNil(t, c.People())
}

func TestClient_Products(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.NotFoundHandler())

	assert.Equal(t, "/people/v2", c.People().URL())
	assert.Equal(t, "/services/v2", c.Services().URL())
	assert.Equal(t, "/check-ins/v2", c.CheckIns().URL())
	assert.Equal(t, "/giving/v2", c.Giving().URL())
	assert.Equal(t, "/calendar/v2", c.Calendar().URL())
	assert.Equal(t, "/groups/v2", c.Groups().URL())
	assert.Equal(t, "/webhooks/v2", c.Webhooks().URL())
	assert.Equal(t, "/publishing/v2", c.Publishing().URL())

	people, err := c.Product("people")
	require.NoError(t, err)
	assert.Equal(t, "/people/v2", people.URL())

	_, err = c.Product("parking")
	require.ErrorIs(t, err, pco.ErrUnknownProduct)
}

func TestCollection_Get(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/people/v2/people/42", request.URL.Path)
		assert.Equal(t, "GET", request.Method)
		assert.Equal(t, "Basic dGVzdDpzZWNyZXQ=", request.Header.Get("Authorization"))

		_, _ = writer.Write([]byte(`{
			"data": {
				"type": "Person",
				"id": "42",
				"attributes": {"first_name": "Paul", "last_name": "Revere"}
			}
		}`))
	}))

	person, err := c.People().Collection("people").Get(context.Background(), "42")
	require.NoError(t, err)

	assert.Equal(t, "Person", person.Type())
	assert.Equal(t, "42", person.ID())
	assert.True(t, person.Synced())

	first, err := person.Attribute("first_name")
	require.NoError(t, err)
	assert.Equal(t, "Paul", first)
}

func TestCollection_Get_NotFound(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusNotFound)
		_, _ = writer.Write([]byte(`{"errors": [{"detail": "not found"}]}`))
	}))

	_, err := c.People().Collection("people").Get(context.Background(), "999")
	require.Error(t, err)
	assert.True(t, pco.IsNotFound(err))
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestCollection_List_Pagination(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/people/v2/people", request.URL.Path)
		assert.Equal(t, "Revere", request.URL.Query().Get("where[last_name]"))
		assert.Equal(t, "2", request.URL.Query().Get("per_page"))

		switch request.URL.Query().Get("offset") {
		case "", "0":
			_, _ = writer.Write([]byte(`{
				"data": [
					{"type": "Person", "id": "1"},
					{"type": "Person", "id": "2"}
				],
				"meta": {"total_count": 4, "count": 2, "next": {"offset": 2}},
				"links": {"next": "/people/v2/people?offset=2"}
			}`))
		case "2":
			_, _ = writer.Write([]byte(`{
				"data": [
					{"type": "Person", "id": "3"},
					{"type": "Person", "id": "4"}
				],
				"meta": {"total_count": 4, "count": 2}
			}`))
		default:
			writer.WriteHeader(http.StatusBadRequest)
		}
	}))

	params := pco.NewQueryParams().WithWhere("last_name", "Revere").WithPerPage(2)
	iterator := c.People().Collection("people").List(context.Background(), params)

	records, err := iterator.All()
	require.NoError(t, err)
	require.Len(t, records, 4)

	var ids []string
	for _, record := range records {
		ids = append(ids, record.Data.ID)
	}

	assert.Equal(t, []string{"1", "2", "3", "4"}, ids)
}

func TestCollection_Create(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/people/v2/people", request.URL.Path)
		assert.Equal(t, "POST", request.Method)

		var payload map[string]interface{}

		err := json.NewDecoder(request.Body).Decode(&payload)
		assert.NoError(t, err)

		writer.WriteHeader(http.StatusCreated)
		_, _ = writer.Write([]byte(`{
			"data": {
				"type": "Person",
				"id": "99",
				"attributes": {"first_name": "John"}
			}
		}`))
	}))

	person := c.People().Collection("people").New("Person")
	person.SetAttribute("first_name", "John")

	err := person.Create(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "99", person.ID())
	assert.True(t, person.Synced())
}

func TestCollection_UpdateAndDelete(t *testing.T) {
	t.Parallel()

	var deleted bool

	c, _ := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch request.Method {
		case "PATCH":
			assert.Equal(t, "/people/v2/people/42", request.URL.Path)

			var payload struct {
				Data pco.Object `json:"data"`
			}

			err := json.NewDecoder(request.Body).Decode(&payload)
			assert.NoError(t, err)
			assert.Equal(t, map[string]interface{}{"first_name": "John"}, payload.Data.Attributes)

			_, _ = writer.Write([]byte(`{
				"data": {"type": "Person", "id": "42", "attributes": {"first_name": "John"}}
			}`))
		case "DELETE":
			deleted = true

			writer.WriteHeader(http.StatusNoContent)
		default:
			writer.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))

	collection := c.People().Collection("people")

	person := pco.NewResource(collection, pco.Object{
		Type:       "Person",
		ID:         "42",
		Attributes: map[string]interface{}{"first_name": "Paul", "last_name": "Revere"},
	})

	person.SetAttribute("first_name", "John")
	require.NoError(t, person.Update(context.Background()))

	require.NoError(t, collection.Delete(context.Background(), "42"))
	assert.True(t, deleted)
}

func TestCollection_ResolvesRelationships(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch request.URL.Path {
		case "/people/v2/people/42":
			_, _ = writer.Write([]byte(`{
				"data": {
					"type": "Person",
					"id": "42",
					"relationships": {
						"primary_campus": {"data": {"type": "Campus", "id": "7"}}
					}
				}
			}`))
		case "/people/v2/campuses/7":
			_, _ = writer.Write([]byte(`{
				"data": {"type": "Campus", "id": "7", "attributes": {"name": "Downtown"}}
			}`))
		default:
			writer.WriteHeader(http.StatusNotFound)
		}
	}))

	person, err := c.People().Collection("people").Get(context.Background(), "42")
	require.NoError(t, err)

	campus, err := person.Rel("primary_campus").Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "7", campus.ID())

	name, err := campus.Attribute("name")
	require.NoError(t, err)
	assert.Equal(t, "Downtown", name)
}

func TestClient_RawVerbs(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch {
		case request.Method == "GET":
			assert.Equal(t, "/people/v2", request.URL.Path)
			_, _ = writer.Write([]byte(`{"data": {"type": "Organization", "id": "1"}}`))
		case request.Method == "POST":
			writer.WriteHeader(http.StatusCreated)
			_, _ = writer.Write([]byte(`{"data": {"type": "Person", "id": "9"}}`))
		case request.Method == "DELETE":
			writer.WriteHeader(http.StatusNoContent)
		}
	}))

	reply, err := c.GetJSON(context.Background(), "/people/v2", nil)
	require.NoError(t, err)
	require.Contains(t, reply, "data")

	reply, err = c.PostJSON(context.Background(), "/people/v2/people", map[string]string{"type": "Person"})
	require.NoError(t, err)
	require.Contains(t, reply, "data")

	require.NoError(t, c.Delete(context.Background(), "/people/v2/people/9"))
}

func TestClient_Iterate(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/people/v2/people/42/addresses", request.URL.Path)

		_, _ = writer.Write([]byte(`{
			"data": [{"type": "Address", "id": "5"}]
		}`))
	}))

	records, err := c.Iterate(context.Background(), "/people/v2/people/42/addresses", nil).All()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Address", records[0].Data.Type)
}

func TestNew_SessionTokenCaching(t *testing.T) {
	t.Parallel()

	newSessionServer := func(t *testing.T, tokenHits *int32) *httptest.Server {
		t.Helper()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if request.URL.Path == "/sessions/tokens" {
				atomic.AddInt32(tokenHits, 1)
				_, _ = writer.Write([]byte(`{"data": {"attributes": {"token": "org-token"}}}`))

				return
			}

			assert.Equal(t, "OrganizationToken org-token", request.Header.Get("Authorization"))
			_, _ = writer.Write([]byte(`{"data": []}`))
		}))
		t.Cleanup(server.Close)

		return server
	}

	t.Run("negative TTL exchanges a fresh token per request", func(t *testing.T) {
		t.Parallel()

		var tokenHits int32

		server := newSessionServer(t, &tokenHits)

		c, err := client.New(&pco.Config{
			SessionName:     "myorganization",
			SessionTokenTTL: -1,
			SessionTokenURL: server.URL + "/sessions/tokens",
			APIBase:         server.URL,
		})
		require.NoError(t, err)

		for range 3 {
			_, err = c.GetJSON(context.Background(), "/people/v2", nil)
			require.NoError(t, err)
		}

		assert.Equal(t, int32(3), atomic.LoadInt32(&tokenHits))
	})

	t.Run("default TTL reuses the token", func(t *testing.T) {
		t.Parallel()

		var tokenHits int32

		server := newSessionServer(t, &tokenHits)

		c, err := client.New(&pco.Config{
			SessionName:     "myorganization",
			SessionTokenURL: server.URL + "/sessions/tokens",
			APIBase:         server.URL,
		})
		require.NoError(t, err)

		for range 3 {
			_, err = c.GetJSON(context.Background(), "/people/v2", nil)
			require.NoError(t, err)
		}

		assert.Equal(t, int32(1), atomic.LoadInt32(&tokenHits))
	})
}
