package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"divorce_intake_go/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// StorageProvider defines the interface for file storage operations
type StorageProvider interface {
	Upload(ctx context.Context, file *multipart.FileHeader, key string) (*StorageResult, error)
	UploadReader(ctx context.Context, reader io.Reader, key string, contentType string, size int64) (*StorageResult, error)
	Delete(ctx context.Context, key string) error
	Get(ctx context.Context, key string) (io.ReadCloser, string, error) // Returns reader, content-type, error
	GetSignedURL(ctx context.Context, key string, expiration time.Duration) (string, error)
	IsConfigured() bool
}

// StorageResult contains information about the stored file
type StorageResult struct {
	Key              string // Storage key/path
	FileName         string // Generated safe filename
	FileOriginalName string // Original filename
	FileSize         int64
	MimeType         string
}

// Storage is the global storage instance
var Storage StorageProvider

// InitializeStorage sets up the storage provider based on configuration
func InitializeStorage(cfg *config.Config) {
	if cfg.R2AccountID != "" && cfg.R2AccessKeyID != "" && cfg.R2SecretAccessKey != "" && cfg.R2BucketName != "" {
		r2, err := NewR2Storage(cfg)
		if err != nil {
			log.Printf("[WARNING] Failed to initialize R2 storage: %v. Falling back to local storage.", err)
			Storage = NewLocalStorage(cfg.UploadDir)
			return
		}

		// Test R2 connection with HeadBucket
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		_, err = r2.client.HeadBucket(ctx, &s3.HeadBucketInput{
			Bucket: &cfg.R2BucketName,
		})
		if err != nil {
			log.Printf("[WARNING] R2 bucket connection test failed: %v. Falling back to local storage.", err)
			Storage = NewLocalStorage(cfg.UploadDir)
			return
		}

		Storage = r2
		log.Printf("Storage connection established (Cloudflare R2 - bucket: %s)", cfg.R2BucketName)
	} else {
		Storage = NewLocalStorage(cfg.UploadDir)
		log.Printf("Storage connection established (Local filesystem - path: %s)", cfg.UploadDir)
	}
}

// R2Storage implements StorageProvider for Cloudflare R2
type R2Storage struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
	publicURL string
}

// NewR2Storage creates a new R2 storage provider
func NewR2Storage(cfg *config.Config) (*R2Storage, error) {
	// R2 endpoint format: https://<account_id>.r2.cloudflarestorage.com
	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID)

	creds := credentials.NewStaticCredentialsProvider(
		cfg.R2AccessKeyID,
		cfg.R2SecretAccessKey,
		"",
	)

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithCredentialsProvider(creds),
		awsconfig.WithRegion("auto"), // R2 uses "auto" region
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	presigner := s3.NewPresignClient(client)

	return &R2Storage{
		client:    client,
		presigner: presigner,
		bucket:    cfg.R2BucketName,
		publicURL: cfg.R2PublicURL,
	}, nil
}

// IsConfigured returns true if R2 is properly configured
func (r *R2Storage) IsConfigured() bool {
	return r.client != nil && r.bucket != ""
}

// Upload uploads a file to R2
func (r *R2Storage) Upload(ctx context.Context, file *multipart.FileHeader, key string) (*StorageResult, error) {
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	result, err := r.UploadReader(ctx, src, key, contentType, file.Size)
	if err != nil {
		return nil, err
	}
	result.FileOriginalName = file.Filename
	return result, nil
}

// UploadReader uploads content from a reader to R2
func (r *R2Storage) UploadReader(ctx context.Context, reader io.Reader, key string, contentType string, size int64) (*StorageResult, error) {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(r.bucket),
		Key:           aws.String(key),
		Body:          reader,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	}

	_, err := r.client.PutObject(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to upload to R2: %w", err)
	}

	return &StorageResult{
		Key:      key,
		FileName: filepath.Base(key),
		FileSize: size,
		MimeType: contentType,
	}, nil
}

// Delete removes a file from R2
func (r *R2Storage) Delete(ctx context.Context, key string) error {
	input := &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	}

	_, err := r.client.DeleteObject(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to delete from R2: %w", err)
	}

	return nil
}

// Get retrieves a file from R2 and returns a reader
func (r *R2Storage) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	}

	result, err := r.client.GetObject(ctx, input)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get object from R2: %w", err)
	}

	contentType := "application/octet-stream"
	if result.ContentType != nil {
		contentType = *result.ContentType
	}

	return result.Body, contentType, nil
}

// GetSignedURL generates a presigned URL for temporary access
func (r *R2Storage) GetSignedURL(ctx context.Context, key string, expiration time.Duration) (string, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	}

	presignedReq, err := r.presigner.PresignGetObject(ctx, input, s3.WithPresignExpires(expiration))
	if err != nil {
		return "", fmt.Errorf("failed to generate signed URL: %w", err)
	}

	return presignedReq.URL, nil
}

// LocalStorage implements StorageProvider for local filesystem
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage creates a new local storage provider
func NewLocalStorage(baseDir string) *LocalStorage {
	return &LocalStorage{baseDir: baseDir}
}

// IsConfigured returns true (local storage is always available)
func (l *LocalStorage) IsConfigured() bool {
	return true
}

// Upload saves a file to local filesystem
func (l *LocalStorage) Upload(ctx context.Context, file *multipart.FileHeader, key string) (*StorageResult, error) {
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	result, err := l.UploadReader(ctx, src, key, contentType, file.Size)
	if err != nil {
		return nil, err
	}
	result.FileOriginalName = file.Filename
	return result, nil
}

// UploadReader saves content from a reader to local filesystem
func (l *LocalStorage) UploadReader(ctx context.Context, reader io.Reader, key string, contentType string, size int64) (*StorageResult, error) {
	fullPath := filepath.Join(l.baseDir, key)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	return &StorageResult{
		Key:      key,
		FileName: filepath.Base(key),
		FileSize: written,
		MimeType: contentType,
	}, nil
}

// Delete removes a file from local filesystem
func (l *LocalStorage) Delete(ctx context.Context, key string) error {
	fullPath := filepath.Join(l.baseDir, key)
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// Get retrieves a file from local filesystem and returns a reader
func (l *LocalStorage) Get(ctx context.Context, key string) (io.ReadCloser, string, error) {
	fullPath := filepath.Join(l.baseDir, key)

	file, err := os.Open(fullPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open file: %w", err)
	}

	// Detect content type from extension
	contentType := "application/octet-stream"
	ext := strings.ToLower(filepath.Ext(key))
	switch ext {
	case ".pdf":
		contentType = "application/pdf"
	case ".png":
		contentType = "image/png"
	case ".jpg", ".jpeg":
		contentType = "image/jpeg"
	}

	return file, contentType, nil
}

// GetSignedURL for local storage just returns the file path (no signing needed)
func (l *LocalStorage) GetSignedURL(ctx context.Context, key string, expiration time.Duration) (string, error) {
	return "/" + filepath.Join(l.baseDir, key), nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// SanitizeFilename strips anything that could escape the storage prefix
func SanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	if name == "" || name == "." || name == ".." {
		name = "document"
	}
	return name
}

// GenerateDocumentKey creates the storage key for a dossier document:
// dossiers/{dossierID}/{timestamp}_{sanitizedFilename}
func GenerateDocumentKey(dossierID, originalFilename string) string {
	return fmt.Sprintf("dossiers/%s/%d_%s", dossierID, time.Now().Unix(), SanitizeFilename(originalFilename))
}
