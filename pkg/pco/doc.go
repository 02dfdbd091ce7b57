// Package pco provides the public API surface for the Planning Center
// Online client: the Client interface, configuration, the error
// taxonomy, raw JSON:API document types, query parameters, the Resource
// model, and pagination.
//
// Create clients with the pcoclient package:
//
//	client, err := pcoclient.NewWithPAT(appID, secret)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	person, err := client.People().Collection("people").Get(ctx, "12345")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	name, _ := person.Attribute("first_name")
//
// Resources track local edits: SetAttribute records the attribute as
// dirty, and Update sends only the dirty subset as a PATCH. Collections
// are iterated with a CollectionIterator, which transparently follows
// pagination links and attaches each item's referenced included
// resources:
//
//	it := client.People().Collection("people").List(ctx,
//		pco.NewQueryParams().WithWhere("last_name", "Revere"))
//	for it.HasNext() {
//		record, err := it.Next()
//		...
//	}
//
// All network failures surface as typed errors: RequestTimeoutError,
// UnexpectedRequestError, RequestFailedError. Rate-limit responses are
// absorbed by the transport and never surface.
package pco
