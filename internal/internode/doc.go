// Package internode implements the customer usage API client.
//
// The API is plain HTTPS with HTTP Basic authentication and XML response
// bodies. Two endpoint shapes exist:
//   - the fixed discovery endpoint, which lists the account's services with
//     an href per service; appending /usage to the first href yields the
//     account-specific usage resource URL
//   - the usage resource, which returns a traffic report carrying the
//     billing-cycle quota (attribute), cumulative usage (element content)
//     and the rollover date (attribute, ISO date)
//
// The main types are:
//   - Client: authenticated API client with discovery and fetch operations
//   - UsageSnapshot: one decoded traffic report
//
// FetchUsageWithRetry wraps the raw fetch in a bounded retry loop with
// linearly increasing backoff, built on cenkalti/backoff. All failure kinds
// (transport, HTTP status, malformed payload) take the same retry path.
//
// Example usage:
//
//	client := internode.NewClient(cfg, creds, log)
//
//	resourceURL, err := client.Discover(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	snapshot, err := client.FetchUsageWithRetry(ctx, resourceURL)
//	if err != nil {
//		// cycle skipped, next interval proceeds anyway
//	}
package internode
