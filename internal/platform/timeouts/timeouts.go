// Package timeouts defines shared timeout constants used across services.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// APIRequest caps one call from the web service to the post collection.
const APIRequest = 10 * time.Second

// CacheSweep is how often the query cache evicts entries past retention.
const CacheSweep = time.Minute

// StoreRequest caps one storage call made by a postsapi handler.
const StoreRequest = 5 * time.Second
