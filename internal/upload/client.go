// Package upload defines the remote storage boundary: a Client that
// accepts raw artifact bytes and a classified error taxonomy that drives
// the pipeline's retry decisions.
package upload

import "context"

// Client uploads one artifact to the remote storage API. Implementations
// must honor ctx cancellation and deadlines and return classified errors
// (see Error) where the cause can be determined.
type Client interface {
	Upload(ctx context.Context, data []byte, fileName, mimeType string) error
}
