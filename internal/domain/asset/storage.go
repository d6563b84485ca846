package asset

import "context"

// Storage persists raw objects and returns a durable reference.
type Storage interface {
	Put(ctx context.Context, object Object) (StoredObject, error)
}

// CompletionNotifier receives one call per successful upload.
type CompletionNotifier interface {
	UploadCompleted(ctx context.Context, uploaded UploadedAsset)
}
