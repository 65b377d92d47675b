package firebase

import "mime/multipart"

// StorageClient abstracts file storage for dependency injection and testing.
// Handlers that accept uploads depend on this interface, never on the
// Firebase SDK directly.
type StorageClient interface {
	UploadImage(folder string, file multipart.File, filename, contentType string) (string, error)
	DeleteFile(objectPath string) error
}

// FirebaseStorageClient is the real implementation that delegates to
// package-level functions.
type FirebaseStorageClient struct{}

func NewStorageClient() StorageClient {
	return &FirebaseStorageClient{}
}

func (f *FirebaseStorageClient) UploadImage(folder string, file multipart.File, filename, contentType string) (string, error) {
	return UploadImage(folder, file, filename, contentType)
}

func (f *FirebaseStorageClient) DeleteFile(objectPath string) error {
	return DeleteFile(objectPath)
}
