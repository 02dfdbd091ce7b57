package pco

import (
	"fmt"
	"net/url"
	"strconv"
)

// QueryParams represents query parameters for list requests.
type QueryParams struct {
	// Where holds attribute filters encoded as where[attr]=value.
	Where map[string]string
	// Filter holds named filters sent as repeated "filter" parameters in
	// declared order.
	Filter []string
	// Offset is the zero-based index of the first item to return.
	Offset int
	// PerPage is the page size (1-100). Zero means the server default.
	PerPage int
	// Order is the attribute to order by; prefix with "-" to reverse.
	Order string
	// Include names related resources to embed in the response.
	Include []string
	// Extra holds any additional raw query parameters.
	Extra url.Values
}

// NewQueryParams creates an empty QueryParams.
func NewQueryParams() *QueryParams {
	return &QueryParams{}
}

// WithWhere adds an attribute filter.
func (p *QueryParams) WithWhere(attr, value string) *QueryParams {
	if p.Where == nil {
		p.Where = make(map[string]string)
	}

	p.Where[attr] = value

	return p
}

// WithFilter appends a named filter.
func (p *QueryParams) WithFilter(name string) *QueryParams {
	p.Filter = append(p.Filter, name)

	return p
}

// WithInclude appends an include directive.
func (p *QueryParams) WithInclude(relation string) *QueryParams {
	p.Include = append(p.Include, relation)

	return p
}

// WithOrder sets the ordering attribute.
func (p *QueryParams) WithOrder(order string) *QueryParams {
	p.Order = order

	return p
}

// WithPerPage sets the page size.
func (p *QueryParams) WithPerPage(perPage int) *QueryParams {
	p.PerPage = perPage

	return p
}

// ToValues converts the parameters to url.Values.
func (p *QueryParams) ToValues() url.Values {
	values := url.Values{}

	if p == nil {
		return values
	}

	for attr, value := range p.Where {
		values.Set(fmt.Sprintf("where[%s]", attr), value)
	}

	for _, filter := range p.Filter {
		values.Add("filter", filter)
	}

	if p.Offset > 0 {
		values.Set("offset", strconv.Itoa(p.Offset))
	}

	if p.PerPage > 0 {
		values.Set("per_page", strconv.Itoa(p.PerPage))
	}

	if p.Order != "" {
		values.Set("order", p.Order)
	}

	for _, include := range p.Include {
		values.Add("include", include)
	}

	for key, vals := range p.Extra {
		for _, val := range vals {
			values.Add(key, val)
		}
	}

	return values
}
