// Package pcoclient provides the primary entry point for constructing a
// Planning Center Online API client that implements the pco.Client
// interface.
//
// It layers configuration, HTTP transport, and authentication on top of
// the resource interfaces and types defined in the pco package. Most
// applications should import pcoclient to build a client, then use the
// returned pco.Client to access product-specific clients, for example
// People(), Services(), Giving(), etc.
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/pco-client/pkg/pco"
//	  "github.com/fivetwenty-io/pco-client/pkg/pcoclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  // With a Personal Access Token pair:
//	  cli, err := pcoclient.NewWithPAT("app-id", "secret")
//	  if err != nil { log.Fatal(err) }
//
//	  // Or with an OAuth access token you already have:
//	  cli, err = pcoclient.NewWithToken("eyJhbGciOi...")
//
//	  // Or with a Church Center session, exchanging ephemeral
//	  // organization tokens behind the scenes:
//	  cli, err = pcoclient.NewWithSession("myorganization")
//	  if err != nil { log.Fatal(err) }
//
//	  // Use product clients via the pco.Client interface
//	  people := cli.People().Collection("people")
//	  person, err := people.Get(ctx, "123")
//	  if err != nil { log.Fatal(err) }
//	  _ = person
//	}
//
// # Helpers
//
// The package also provides convenience constructors NewWithPAT,
// NewWithToken, and NewWithSession that wrap New with the appropriate
// configuration. For full control over timeouts, retries, logging, and
// endpoints, build a pco.Config yourself and pass it to New.
package pcoclient
