package model

import (
	"errors"
	"io"
)

const (
	MaxPostImageSizeBytes = 10 * 1024 * 1024
	PostImageMaxWidth     = 1200
	PostImageMaxHeight    = 1200
	PostImageFolder       = "posts"
	PostImageExt          = ".jpg"
	PostImageCacheControl = "public, max-age=31536000"
)

// Supported image content types for upload validation
const (
	ContentTypeJPEG = "image/jpeg"
	ContentTypePNG  = "image/png"
	ContentTypeGIF  = "image/gif"
)

var allowedImageTypes = map[string]struct{}{
	ContentTypeJPEG: {},
	ContentTypePNG:  {},
	ContentTypeGIF:  {},
}

var (
	ErrFileTooLarge     = errors.New("file too large")
	ErrInvalidImageType = errors.New("invalid image type")
)

// ImageUpload is an image file submitted with a post form.
type ImageUpload struct {
	File        io.Reader
	Size        int64
	ContentType string
}

// UploadResult is where an uploaded object lives.
// Key is the bucket object key, kept so the object can be removed later.
type UploadResult struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// IsAllowedImageType reports if the provided content type is supported
func IsAllowedImageType(contentType string) bool {
	_, ok := allowedImageTypes[contentType]
	return ok
}
