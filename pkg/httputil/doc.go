// Package httputil provides the HTTP plumbing behind the graph loader.
//
// # Client
//
// [Client] performs GET requests, maps status codes to coded errors from
// pkg/errors and optionally stores response bodies in a [cache.Cache]:
//
//	c := httputil.NewClient(httputil.WithCache(fc, time.Hour))
//	body, err := c.Fetch(ctx, "https://example.com/sky.json")
//
// # Retry
//
// [Retry] re-runs an operation for transient failures. Only errors wrapped
// in [RetryableError] are retried:
//
//   - connection errors
//   - 5xx server errors
//
// The delay doubles after each failed attempt. A client retries nothing by
// default; [WithRetry] opts in.
package httputil
