package handlers

import "mime/multipart"

type mockStorage struct {
	UploadImageFn   func(folder string, file multipart.File, filename, contentType string) (string, error)
	DeleteFileFn    func(objectPath string) error
	UploadCallCount int
	DeleteFileCalls []string
}

func newMockStorage() *mockStorage {
	return &mockStorage{
		DeleteFileCalls: []string{},
	}
}

func (m *mockStorage) UploadImage(folder string, file multipart.File, filename, contentType string) (string, error) {
	m.UploadCallCount++
	if m.UploadImageFn != nil {
		return m.UploadImageFn(folder, file, filename, contentType)
	}
	return "https://storage.googleapis.com/test-bucket/" + folder + "/test_image.jpg", nil
}

func (m *mockStorage) DeleteFile(objectPath string) error {
	m.DeleteFileCalls = append(m.DeleteFileCalls, objectPath)
	if m.DeleteFileFn != nil {
		return m.DeleteFileFn(objectPath)
	}
	return nil
}
