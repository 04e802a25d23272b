// Package placeholder is the HTTP client for the public demo posts endpoint.
//
// # Overview
//
// The network panel issues one GET per change of its trigger value. This
// package only knows how to perform that single request; it has no caching,
// no retries and no de-duplication, because the panel is meant to show what
// happens without them.
//
// # Endpoint
//
// The default URL is https://jsonplaceholder.typicode.com/posts. It returns a
// JSON array of records:
//
//	[{"userId": 1, "id": 1, "title": "...", "body": "..."}, ...]
//
// Only id and title are displayed.
//
// # Error Handling
//
// FetchPosts wraps every failure with context:
//
//   - "create request: ..." for malformed requests
//   - "execute request: ..." for transport errors and timeouts (10s)
//   - "api <path> returned status <code>" for HTTP status >= 400
//   - "decode response: ..." for invalid JSON
//
// Callers are expected to log these and keep their previous data.
//
// # Testing Considerations
//
// PostFetcher is the seam: the demo panels depend on the interface, and
// tests provide counting fakes or point a Client at an httptest server.
package placeholder
