package uploads

import (
	"context"
	"fmt"
	"log"
	"path"
	"strings"
	"time"

	"relaybackend/clients"
	"relaybackend/core"
)

// UploadsService stores user-submitted attachments in the blob store and
// hands back their public URLs.
type UploadsService struct {
	blobClient clients.BlobClient
}

func NewUploadsService(blobClient clients.BlobClient) *UploadsService {
	return &UploadsService{blobClient: blobClient}
}

// UploadFile stores data under a key scoped to the uploading user and
// returns the public URL of the stored object.
func (s *UploadsService) UploadFile(
	ctx context.Context,
	userID, filename, contentType string,
	data []byte,
) (string, error) {
	log.Printf("📋 Starting to upload file %s for user %s", filename, userID)

	if userID == "" {
		return "", core.NewValidationError("userId")
	}
	if filename == "" {
		return "", core.NewValidationError("filename")
	}
	if len(data) == 0 {
		return "", core.NewValidationError("data")
	}

	key := fmt.Sprintf("%s/%d-%s", userID, time.Now().UnixMilli(), sanitizeFilename(filename))
	url, err := s.blobClient.Upload(ctx, key, contentType, data)
	if err != nil {
		return "", fmt.Errorf("failed to upload file %s: %w", filename, err)
	}

	log.Printf("📋 Completed successfully - uploaded file %s to %s", filename, key)
	return url, nil
}

// sanitizeFilename strips any path components and characters that would
// break object keys or public URLs.
func sanitizeFilename(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, base)
}
