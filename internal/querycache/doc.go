// Package querycache keeps the most recent successful result of keyed reads
// and decides when those results must be fetched again.
//
// A read returns whatever is cached right away and refreshes it in the
// background once it is stale, invalidated or missing. Concurrent reads of a
// key share one in-flight fetch. Failed fetches are retried with capped
// exponential backoff; when retries run out the entry reports the error next
// to any data it still holds. Entries nobody subscribes to are dropped after
// the retention period.
package querycache
