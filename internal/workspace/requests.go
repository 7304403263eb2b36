package workspace

import (
	"context"

	"github.com/temirov/ctxdrop/internal/filetree"
	"github.com/temirov/ctxdrop/internal/tokenizer"
)

// ScanRequest is a background enumeration issued by the session. Run may be
// called on any goroutine; the result must go back through Session.ApplyScan.
type ScanRequest struct {
	Generation uint64
	Paths      []string
	options    filetree.ScanOptions
}

// Run enumerates the requested paths.
func (request ScanRequest) Run(ctx context.Context) filetree.ScanResult {
	result := filetree.Scan(ctx, request.Paths, request.options)
	result.Generation = request.Generation
	return result
}

// TokenRequest is a background counting pass over files with unknown counts.
type TokenRequest struct {
	Generation uint64
	Paths      []string
	cache      *tokenizer.Cache
	workers    int
}

// TokenResult carries the counts of one TokenRequest.
type TokenResult struct {
	Generation uint64
	Results    []tokenizer.Result
	Err        error
}

// Run counts every requested path through the shared cache.
func (request TokenRequest) Run(ctx context.Context) TokenResult {
	results, err := tokenizer.CountFiles(ctx, request.cache, request.Paths, request.workers)
	return TokenResult{Generation: request.Generation, Results: results, Err: err}
}
