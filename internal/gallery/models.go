package gallery

import (
	"io"
	"strings"
	"time"
)

// StoredObject is one uploaded file as resolved from the object store.
type StoredObject struct {
	Key          string    `json:"key"`
	Name         string    `json:"name"`
	OwnerID      string    `json:"owner_id"`
	SizeBytes    int64     `json:"size_bytes"`
	ContentType  string    `json:"content_type"`
	AccessURL    string    `json:"access_url"`
	IsImage      bool      `json:"is_image"`
	LastModified time.Time `json:"last_modified,omitempty"`
}

// Upload describes an incoming file. SizeBytes must be the exact payload
// length; it drives both the quota pre-check and progress reporting.
type Upload struct {
	Name        string
	SizeBytes   int64
	ContentType string
	Reader      io.Reader
}

// ObjectMetadata is attached to every stored object.
type ObjectMetadata struct {
	ContentType  string
	UploadedBy   string
	OriginalName string
}

// ObjectInfo is the metadata subset read back from the object store.
type ObjectInfo struct {
	SizeBytes    int64
	ContentType  string
	LastModified time.Time
}

// ProgressFunc receives upload progress as a percentage in [0, 100].
type ProgressFunc func(percent float64)

func isImageContentType(contentType string) bool {
	return strings.HasPrefix(contentType, "image/")
}
