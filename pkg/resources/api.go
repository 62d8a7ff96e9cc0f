package resources

import (
	"context"
	"strings"
)

// APIPrefix is the path segment every API URI carries before the resource path
const APIPrefix = "/api/v1"

// API is the authenticated request surface resources use to fetch related
// objects and run actions. Paths are relative to APIPrefix. Implementations
// return the decoded JSON body and surface remote "error"/"errors" payloads
// as *errors.APIError.
type API interface {
	Get(ctx context.Context, path string, params map[string]string) (interface{}, error)
	Post(ctx context.Context, path string, body interface{}) (interface{}, error)
	Put(ctx context.Context, path string, body interface{}) (interface{}, error)
	Delete(ctx context.Context, path string) (interface{}, error)
}

// RelativePath drops everything up to and including the API prefix from an
// absolute URI. A URI without the prefix is returned unchanged.
func RelativePath(uri string) string {
	if idx := strings.LastIndex(uri, APIPrefix); idx >= 0 {
		return uri[idx+len(APIPrefix):]
	}
	return uri
}
