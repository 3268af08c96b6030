package filestorage

import (
	"mime/multipart"
)

// DocumentStorage stores applicant-uploaded admission documents.
type DocumentStorage interface {
	// SaveDocument stores an uploaded file and returns its accessible URL path
	SaveDocument(fileHeader *multipart.FileHeader) (string, error)

	// Delete removes a stored document. Deleting a missing document is not an error.
	Delete(filePath string) error
}
