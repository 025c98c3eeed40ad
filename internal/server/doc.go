// Package server provides the SmartPass HTTP service.
//
// Routes are declared in one static table that is checked when the server
// is built. Requests pass through CORS and gzip middleware, attacks wait
// for a slot of a weighted semaphore and run under the request timeout,
// and the listener caps the number of open connections.
//
// Error responses are JSON objects with a single "error" field. Validation
// errors map to 400, resource errors to 422 (404 for an unknown wordlist),
// a full attack queue to 503 and anything else to 500.
package server
