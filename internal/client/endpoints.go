package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/fivetwenty-io/pco-client/internal/http"
	"github.com/fivetwenty-io/pco-client/pkg/pco"
)

// productRoute binds a product name to its URL segment and the
// collections it is known to expose. The table is iterated explicitly at
// client construction to populate the client's namespace; collection
// names absent from it still resolve, since the API surface is
// open-ended.
type productRoute struct {
	segment     string
	collections []string
}

var productRoutes = map[string]productRoute{
	"people": {segment: "/people/v2", collections: []string{
		"people", "addresses", "emails", "phone_numbers", "households",
		"field_definitions", "field_data", "forms", "lists", "notes",
		"campuses", "workflows",
	}},
	"services": {segment: "/services/v2", collections: []string{
		"songs", "service_types", "plans", "teams", "people",
		"attachments", "arrangements", "keys", "media", "folders",
	}},
	"check_ins": {segment: "/check-ins/v2", collections: []string{
		"check_ins", "event_times", "events", "headcounts", "labels",
		"passes", "people", "stations", "themes",
	}},
	"giving": {segment: "/giving/v2", collections: []string{
		"batches", "batch_groups", "donations", "funds", "labels",
		"payment_sources", "people", "pledges", "recurring_donations",
	}},
	"calendar": {segment: "/calendar/v2", collections: []string{
		"attachments", "conflicts", "event_instances", "events",
		"resources", "resource_bookings", "rooms", "tags",
	}},
	"groups": {segment: "/groups/v2", collections: []string{
		"attendances", "events", "group_types", "groups", "memberships",
		"people", "tags",
	}},
	"webhooks": {segment: "/webhooks/v2", collections: []string{
		"available_events", "events", "subscriptions",
	}},
	"publishing": {segment: "/publishing/v2", collections: []string{
		"channels", "episodes", "series", "speakers", "speakerships",
	}},
}

// Product addresses one PCO product application.
type Product struct {
	httpClient  *http.Client
	name        string
	segment     string
	collections []string
}

// NewProduct creates a product client from the registration table.
func NewProduct(httpClient *http.Client, name string) (*Product, error) {
	route, ok := productRoutes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", pco.ErrUnknownProduct, name)
	}

	return &Product{
		httpClient:  httpClient,
		name:        name,
		segment:     route.segment,
		collections: route.collections,
	}, nil
}

// URL implements pco.ProductClient.URL.
func (p *Product) URL() string {
	return p.segment
}

// Collections implements pco.ProductClient.Collections.
func (p *Product) Collections() []string {
	names := append([]string(nil), p.collections...)
	sort.Strings(names)

	return names
}

// Collection implements pco.ProductClient.Collection.
func (p *Product) Collection(name string) pco.CollectionClient {
	return &Collection{
		httpClient: p.httpClient,
		product:    p,
		url:        p.segment + "/" + name,
	}
}

// Collection addresses one named collection within a product and
// carries the network operations Resources use for their lazy calls.
type Collection struct {
	httpClient *http.Client
	product    *Product
	url        string
}

// URL implements pco.Endpoint.URL.
func (c *Collection) URL() string {
	return c.url
}

// Get implements pco.CollectionClient.Get.
func (c *Collection) Get(ctx context.Context, id string) (*pco.Resource, error) {
	return c.GetByURL(ctx, c.url+"/"+id)
}

// GetByURL implements pco.CollectionClient.GetByURL.
func (c *Collection) GetByURL(ctx context.Context, url string) (*pco.Resource, error) {
	doc, err := c.Document(ctx, url)
	if err != nil {
		return nil, err
	}

	return pco.NewResource(c, doc.Data), nil
}

// List implements pco.CollectionClient.List.
func (c *Collection) List(ctx context.Context, params *pco.QueryParams) *pco.CollectionIterator {
	return pco.NewCollectionIterator(ctx, c, c.url, params)
}

// New implements pco.CollectionClient.New.
func (c *Collection) New(objectType string) *pco.Resource {
	return pco.NewUserResource(c, objectType)
}

// Delete implements pco.CollectionClient.Delete.
func (c *Collection) Delete(ctx context.Context, id string) error {
	return c.DeleteDocument(ctx, c.url+"/"+id)
}

// Document implements pco.Endpoint.Document.
func (c *Collection) Document(ctx context.Context, url string) (*pco.SingleDocument, error) {
	resp, err := c.httpClient.Get(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}

	return parseSingleDocument(resp)
}

// CreateDocument implements pco.Endpoint.CreateDocument.
func (c *Collection) CreateDocument(ctx context.Context, url string, payload *pco.SingleDocument) (*pco.SingleDocument, error) {
	resp, err := c.httpClient.Post(ctx, url, payload)
	if err != nil {
		return nil, fmt.Errorf("creating at %s: %w", url, err)
	}

	return parseSingleDocument(resp)
}

// UpdateDocument implements pco.Endpoint.UpdateDocument.
func (c *Collection) UpdateDocument(ctx context.Context, url string, payload *pco.SingleDocument) (*pco.SingleDocument, error) {
	resp, err := c.httpClient.Patch(ctx, url, payload)
	if err != nil {
		return nil, fmt.Errorf("updating %s: %w", url, err)
	}

	return parseSingleDocument(resp)
}

// DeleteDocument implements pco.Endpoint.DeleteDocument.
func (c *Collection) DeleteDocument(ctx context.Context, url string) error {
	if _, err := c.httpClient.Delete(ctx, url); err != nil {
		return fmt.Errorf("deleting %s: %w", url, err)
	}

	return nil
}

// Resolve implements pco.Endpoint.Resolve: a reference is fetched from
// its type's collection within the same product.
func (c *Collection) Resolve(ctx context.Context, ref pco.ResourceRef) (*pco.Resource, error) {
	target := c
	if c.product != nil {
		target = &Collection{
			httpClient: c.httpClient,
			product:    c.product,
			url:        c.product.segment + "/" + typeToCollection(ref.Type),
		}
	}

	return target.Get(ctx, ref.ID)
}

// ListDocument implements pco.CollectionLister for pagination.
func (c *Collection) ListDocument(ctx context.Context, url string, params *pco.QueryParams) (*pco.CollectionDocument, error) {
	resp, err := c.httpClient.Get(ctx, url, params.ToValues())
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", url, err)
	}

	return parseCollectionDocument(resp)
}

func parseSingleDocument(resp *http.Response) (*pco.SingleDocument, error) {
	if resp == nil || len(resp.Body) == 0 {
		return nil, nil
	}

	var doc pco.SingleDocument
	if err := json.Unmarshal(resp.Body, &doc); err != nil {
		return nil, fmt.Errorf("parsing response document: %w", err)
	}

	return &doc, nil
}

func parseCollectionDocument(resp *http.Response) (*pco.CollectionDocument, error) {
	if resp == nil || len(resp.Body) == 0 {
		return nil, nil
	}

	var doc pco.CollectionDocument
	if err := json.Unmarshal(resp.Body, &doc); err != nil {
		return nil, fmt.Errorf("parsing collection document: %w", err)
	}

	return &doc, nil
}

// irregularPlurals covers type-name suffixes whose collection segment is
// not derivable by the usual rules.
var irregularPlurals = map[string]string{
	"person": "people",
	"child":  "children",
}

// typeToCollection derives a collection segment from an API type tag
// (e.g. "Person" -> "people", "EventTime" -> "event_times").
func typeToCollection(typeName string) string {
	snake := toSnakeCase(typeName)

	for singular, plural := range irregularPlurals {
		if strings.HasSuffix(snake, singular) {
			return snake[:len(snake)-len(singular)] + plural
		}
	}

	switch {
	case strings.HasSuffix(snake, "s"), strings.HasSuffix(snake, "x"),
		strings.HasSuffix(snake, "ch"), strings.HasSuffix(snake, "sh"):
		return snake + "es"
	case strings.HasSuffix(snake, "y") && !strings.HasSuffix(snake, "ay") &&
		!strings.HasSuffix(snake, "ey") && !strings.HasSuffix(snake, "oy"):
		return snake[:len(snake)-1] + "ies"
	default:
		return snake + "s"
	}
}

func toSnakeCase(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 4)

	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}

			b.WriteRune(unicode.ToLower(r))

			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}
