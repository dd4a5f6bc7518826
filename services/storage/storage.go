// File: services/storage/storage.go
package storage

import (
	"context"
	"fmt"
	"mime/multipart"

	"bloodlink/config"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// StorageService stores verification documents: facility licenses and donor
// blood-group reports.
type StorageService interface {
	UploadDocument(ctx context.Context, file multipart.File, folder string) (string, error)
	DeleteDocument(ctx context.Context, publicID string) error
	DocumentURL(publicID string) string
}

// CloudinaryStorageService is the production implementation.
type CloudinaryStorageService struct {
	cld       *cloudinary.Cloudinary
	cloudName string
}

// NewCloudinaryStorageService connects to Cloudinary with the configured
// credentials.
func NewCloudinaryStorageService() (*CloudinaryStorageService, error) {
	cfg := config.AppConfig
	cld, err := cloudinary.NewFromParams(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}
	return &CloudinaryStorageService{cld: cld, cloudName: cfg.CloudinaryCloudName}, nil
}

// UploadDocument uploads a document into the given folder under a fresh UUID
// and returns the permanent public ID.
func (s *CloudinaryStorageService) UploadDocument(ctx context.Context, file multipart.File, folder string) (string, error) {
	result, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:   folder,
		PublicID: uuid.New().String(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload document: %w", err)
	}
	if result.PublicID == "" {
		return "", fmt.Errorf("upload returned no public ID")
	}
	return result.PublicID, nil
}

// DeleteDocument removes a document by its public ID.
func (s *CloudinaryStorageService) DeleteDocument(ctx context.Context, publicID string) error {
	if _, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// DocumentURL constructs the public delivery URL for a stored document.
func (s *CloudinaryStorageService) DocumentURL(publicID string) string {
	return fmt.Sprintf("https://res.cloudinary.com/%s/image/upload/%s", s.cloudName, publicID)
}
