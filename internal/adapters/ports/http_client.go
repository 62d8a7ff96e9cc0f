package ports

import "net/http"

// HTTPClient is the seam the transport sends requests through.
// *http.Client satisfies it; tests substitute a recording mock.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
