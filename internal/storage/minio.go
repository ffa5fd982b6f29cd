package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var Client *minio.Client
var BucketName string

// Init connects to MinIO using MINIO_* environment variables. Storage is
// optional: when unconfigured the service just skips artifact uploads.
func Init() error {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	accessKey := os.Getenv("MINIO_ACCESS_KEY")
	secretKey := os.Getenv("MINIO_SECRET_KEY")
	if endpoint == "" || accessKey == "" || secretKey == "" {
		return fmt.Errorf("MinIO not configured (MINIO_ENDPOINT, MINIO_ACCESS_KEY, MINIO_SECRET_KEY)")
	}

	BucketName = os.Getenv("MINIO_BUCKET")
	if BucketName == "" {
		BucketName = "ocr-artifacts"
	}

	useSSL := os.Getenv("MINIO_USE_SSL") == "true"

	var err error
	Client, err = minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to create MinIO client: %w", err)
	}

	// Verify bucket exists
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := Client.BucketExists(ctx, BucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		return fmt.Errorf("bucket %s does not exist", BucketName)
	}

	return nil
}

// UploadDocument stores an uploaded source image.
// Path format: documents/YYYY/MM/{filename}
func UploadDocument(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	now := time.Now()
	objectName := fmt.Sprintf("documents/%d/%02d/%s", now.Year(), now.Month(), filename)

	_, err := Client.PutObject(ctx, BucketName, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload document: %w", err)
	}

	return fmt.Sprintf("%s/%s", BucketName, objectName), nil
}

// UploadArtifact stores a recognized-text artifact next to its document.
// Path format: artifacts/YYYY/MM/{filename}
func UploadArtifact(ctx context.Context, filename, text string) (string, error) {
	now := time.Now()
	objectName := fmt.Sprintf("artifacts/%d/%02d/%s", now.Year(), now.Month(), filename)

	reader := strings.NewReader(text)
	_, err := Client.PutObject(ctx, BucketName, objectName, reader, int64(reader.Len()), minio.PutObjectOptions{
		ContentType: "text/markdown; charset=utf-8",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload artifact: %w", err)
	}

	return fmt.Sprintf("%s/%s", BucketName, objectName), nil
}

// GetPresignedURL generates a presigned URL for downloading an object
func GetPresignedURL(ctx context.Context, objectPath string) (string, error) {
	objectName := strings.TrimPrefix(objectPath, BucketName+"/")

	url, err := Client.PresignedGetObject(ctx, BucketName, objectName, 24*time.Hour, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return url.String(), nil
}

// DeleteObject removes an object from storage
func DeleteObject(ctx context.Context, objectPath string) error {
	objectName := strings.TrimPrefix(objectPath, BucketName+"/")
	return Client.RemoveObject(ctx, BucketName, objectName, minio.RemoveObjectOptions{})
}

// GetFileExtension extracts file extension from content type
func GetFileExtension(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/bmp":
		return ".bmp"
	case "image/tiff":
		return ".tiff"
	default:
		return ".bin"
	}
}
