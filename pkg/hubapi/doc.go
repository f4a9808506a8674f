// Package hubapi defines the public contract of the Spider Hub API
// client: the Client interface, resource client interfaces, request and
// response types, query parameters, pagination helpers, caching, and the
// error model.
//
// Construct a Client with the hubclient package:
//
//	client, err := hubclient.New(&hubapi.Config{
//		APIEndpoint: "https://app.spiderhub.io/api",
//		APIKey:      os.Getenv("SHUB_APIKEY"),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	project, err := client.GetProject(123)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	key, err := project.Jobs.Run(ctx, "myspider", nil)
//
// Projects expose their sub-resources as fields: Jobs, Spiders,
// Activity, Collections, Frontiers and Settings. All blocking operations
// take a context.Context.
//
// Errors returned by the API are *ResponseError values carrying the
// platform's numeric codes; use the Is* helpers (IsNotFound,
// IsUnauthorized, IsInvalidInput, ...) instead of matching codes by
// hand.
package hubapi
