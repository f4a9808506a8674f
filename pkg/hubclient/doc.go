// Package hubclient provides the primary entry point for constructing a
// platform API client that implements the hubapi.Client interface.
//
// It layers configuration, HTTP transport, and API-key authentication on
// top of the resource interfaces and types defined in the hubapi package.
// Most applications should import hubclient to build a client, then use
// the returned hubapi.Client to reach projects and their sub-resources.
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/spiderhub-io/hubapi/pkg/hubapi"
//	  "github.com/spiderhub-io/hubapi/pkg/hubclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  // Minimal: endpoint plus API key.
//	  cli, err := hubclient.NewWithAPIKey("https://app.spiderhub.io/api", "0123456789abcdef")
//	  if err != nil { log.Fatal(err) }
//
//	  // Or with the full configuration:
//	  cli, err = hubclient.New(&hubapi.Config{
//	    APIEndpoint: "https://app.spiderhub.io/api",
//	    APIKey:      "0123456789abcdef",
//	    // StorageEndpoint defaults to APIEndpoint when empty.
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  project, err := cli.GetProject(123)
//	  if err != nil { log.Fatal(err) }
//
//	  key, err := project.Jobs.Run(ctx, "myspider", nil)
//	  if err != nil { log.Fatal(err) }
//	  _ = key
//	}
//
// # Authentication
//
// The API key is sent as the basic-auth username of every request. When
// Config.APIKey is empty the client falls back to the SHUB_APIKEY
// environment variable, resolved per request.
//
// # Helpers
//
// The package also provides the convenience constructors NewWithEndpoint
// and NewWithAPIKey.
package hubclient
