package pco

import (
	"context"

	"github.com/fivetwenty-io/pco-client/internal/constants"
)

// CollectionLister fetches one page of a collection endpoint.
type CollectionLister interface {
	ListDocument(ctx context.Context, url string, params *QueryParams) (*CollectionDocument, error)
}

// CollectionIterator walks a multi-page collection as a single logical
// sequence. Each yielded Record bundles one primary object with only the
// included resources referenced by that object's relationships.
//
// The sequence is lazy; restarting requires constructing a new iterator
// with the same starting offset.
type CollectionIterator struct {
	ctx    context.Context
	client CollectionLister
	url    string
	params *QueryParams

	offset  int
	perPage int

	buffer  []*Record
	done    bool
	pending error
}

// NewCollectionIterator creates an iterator over the collection at url.
func NewCollectionIterator(ctx context.Context, client CollectionLister, url string, params *QueryParams) *CollectionIterator {
	offset := 0
	perPage := constants.DefaultPerPage

	if params != nil {
		if params.Offset > 0 {
			offset = params.Offset
		}

		if params.PerPage > 0 {
			perPage = params.PerPage
		}
	}

	return &CollectionIterator{
		ctx:     ctx,
		client:  client,
		url:     url,
		params:  params,
		offset:  offset,
		perPage: perPage,
	}
}

// HasNext reports whether another record is available, fetching the next
// page when the current one is exhausted.
func (it *CollectionIterator) HasNext() bool {
	if len(it.buffer) > 0 || it.pending != nil {
		return true
	}

	if it.done {
		return false
	}

	it.fetchPage()

	return len(it.buffer) > 0 || it.pending != nil
}

// Next returns the next enriched record. It returns ErrNoMoreItems once
// the sequence is exhausted.
func (it *CollectionIterator) Next() (*Record, error) {
	if !it.HasNext() {
		return nil, ErrNoMoreItems
	}

	if it.pending != nil {
		err := it.pending
		it.pending = nil
		it.done = true

		return nil, err
	}

	record := it.buffer[0]
	it.buffer = it.buffer[1:]

	return record, nil
}

// All drains the iterator, returning every remaining record.
func (it *CollectionIterator) All() ([]*Record, error) {
	var records []*Record

	for it.HasNext() {
		record, err := it.Next()
		if err != nil {
			return nil, err
		}

		records = append(records, record)
	}

	return records, nil
}

func (it *CollectionIterator) fetchPage() {
	pageParams := &QueryParams{Offset: it.offset, PerPage: it.perPage}

	if it.params != nil {
		pageParams.Where = it.params.Where
		pageParams.Filter = it.params.Filter
		pageParams.Order = it.params.Order
		pageParams.Include = it.params.Include
		pageParams.Extra = it.params.Extra
	}

	doc, err := it.client.ListDocument(it.ctx, it.url, pageParams)
	if err != nil {
		it.pending = err

		return
	}

	// An empty body (204) ends the sequence.
	if doc == nil {
		it.done = true

		return
	}

	for i := range doc.Data {
		it.buffer = append(it.buffer, enrichRecord(&doc.Data[i], doc))
	}

	it.offset += it.perPage

	if _, ok := doc.Links["next"]; !ok {
		it.done = true
	}
}

// enrichRecord attaches the subset of the page's included objects that
// this item's relationships reference, matched by exact (type, id).
func enrichRecord(item *Object, page *CollectionDocument) *Record {
	record := &Record{
		Data:     *item,
		Included: []Object{},
	}

	if page.Meta != nil {
		record.Meta.CanInclude = page.Meta.CanInclude
		record.Meta.Parent = page.Meta.Parent
	}

	for _, rel := range item.Relationships {
		for _, ref := range rel.Data.Refs() {
			for i := range page.Included {
				if page.Included[i].Type == ref.Type && page.Included[i].ID == ref.ID {
					record.Included = append(record.Included, page.Included[i])
				}
			}
		}
	}

	return record
}
