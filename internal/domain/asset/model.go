package asset

import (
	"mime"
	"strings"
)

// UploadedAsset references a binary that the storage service accepted.
type UploadedAsset struct {
	URL       string `json:"url"`
	SizeBytes int64  `json:"sizeBytes"`
	MIMEType  string `json:"mimeType"`
}

// Object is the payload handed to the storage service.
type Object struct {
	Key         string
	ContentType string
	Data        []byte
}

// StoredObject is what the storage service reports back on completion.
type StoredObject struct {
	URL string
}

// Policy constrains what the upload pipeline accepts.
type Policy struct {
	MaxBytes         int64
	AllowedMIMETypes []string
}

const DefaultMaxBytes int64 = 4 << 20

func DefaultPolicy() Policy {
	return Policy{
		MaxBytes:         DefaultMaxBytes,
		AllowedMIMETypes: []string{"image/png", "image/jpeg", "image/webp"},
	}
}

// Allows reports whether the normalized mime type is in the allowed set.
func (p Policy) Allows(mimeType string) bool {
	for _, allowed := range p.AllowedMIMETypes {
		if NormalizeMIMEType(allowed) == mimeType {
			return true
		}
	}
	return false
}

// NormalizeMIMEType lower-cases the media type and drops parameters.
func NormalizeMIMEType(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(raw)
	if err != nil {
		return strings.ToLower(raw)
	}
	if mediaType == "image/jpg" {
		return "image/jpeg"
	}
	return mediaType
}

// Extension returns the file extension used for stored object keys.
func Extension(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
