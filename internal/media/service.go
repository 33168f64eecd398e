package media

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/starconnect/starconnect-backend/pkg/config"
	"github.com/starconnect/starconnect-backend/pkg/enums"
	pkgerrors "github.com/starconnect/starconnect-backend/pkg/errors"
)

type urlSigner interface {
	SignedURL(bucket, object, contentType string, expires time.Duration) (string, error)
	SignedReadURL(bucket, object string, expires time.Duration) (string, error)
}

// Service exposes presign semantics for profile media. Clients PUT directly
// to object storage; the API only hands out time-limited URLs.
type Service interface {
	PresignUpload(ctx context.Context, userID uuid.UUID, input PresignInput) (*PresignOutput, error)
	PresignDownload(ctx context.Context, userID uuid.UUID, objectKey string) (*DownloadOutput, error)
}

type service struct {
	signer      urlSigner
	bucket      string
	uploadTTL   time.Duration
	downloadTTL time.Duration
	maxBytes    int64
}

// NewService constructs a media service backed by the provided signer.
func NewService(signer urlSigner, cfg config.GCSConfig) (Service, error) {
	if signer == nil {
		return nil, fmt.Errorf("url signer required")
	}
	if cfg.BucketName == "" {
		return nil, fmt.Errorf("gcs bucket required")
	}
	if cfg.UploadURLExpiry <= 0 || cfg.DownloadURLExpiry <= 0 {
		return nil, fmt.Errorf("url expiries must be positive")
	}
	if cfg.MaxUploadMB <= 0 {
		return nil, fmt.Errorf("max upload size must be positive")
	}
	return &service{
		signer:      signer,
		bucket:      cfg.BucketName,
		uploadTTL:   cfg.UploadURLExpiry,
		downloadTTL: cfg.DownloadURLExpiry,
		maxBytes:    int64(cfg.MaxUploadMB) * 1024 * 1024,
	}, nil
}

// PresignInput models the payload required to request an upload URL.
type PresignInput struct {
	Category  enums.UploadCategory
	MimeType  string
	FileName  string
	SizeBytes int64
}

// PresignOutput contains the signed PUT target handed back to the client.
type PresignOutput struct {
	ObjectKey    string    `json:"object_key"`
	SignedPUTURL string    `json:"signed_put_url"`
	ContentType  string    `json:"content_type"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// DownloadOutput contains a signed GET URL for a stored object.
type DownloadOutput struct {
	ObjectKey    string    `json:"object_key"`
	SignedGETURL string    `json:"signed_get_url"`
	ExpiresAt    time.Time `json:"expires_at"`
}

var mimeTypesByCategory = map[enums.UploadCategory][]string{
	enums.UploadCategoryProfilePictures:   {"image/png", "image/jpeg", "image/webp"},
	enums.UploadCategoryAdvertisingImages: {"image/png", "image/jpeg", "image/webp", "image/gif"},
	enums.UploadCategoryGovernmentIDs:     {"image/png", "image/jpeg", "application/pdf"},
}

func (s *service) PresignUpload(ctx context.Context, userID uuid.UUID, input PresignInput) (*PresignOutput, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if input.Category == "" || !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid upload category")
	}

	fileName := sanitizeFileName(input.FileName)
	if fileName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file_name is required")
	}

	if input.SizeBytes <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "size_bytes must be positive")
	}
	if input.SizeBytes > s.maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("size_bytes must be <= %d bytes", s.maxBytes))
	}

	mimeType := strings.TrimSpace(input.MimeType)
	if mimeType == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mime_type is required")
	}
	if !isAllowedMime(input.Category, mimeType) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mime_type not allowed for upload category")
	}

	objectKey := BuildObjectKey(input.Category, userID, fileName)
	signedURL, err := s.signer.SignedURL(s.bucket, objectKey, mimeType, s.uploadTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign upload url")
	}

	return &PresignOutput{
		ObjectKey:    objectKey,
		SignedPUTURL: signedURL,
		ContentType:  mimeType,
		ExpiresAt:    time.Now().Add(s.uploadTTL),
	}, nil
}

// PresignDownload signs a read URL for an object the caller owns. Keys embed
// the owner's uid, so a caller can only read under its own prefix.
func (s *service) PresignDownload(ctx context.Context, userID uuid.UUID, objectKey string) (*DownloadOutput, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	objectKey = strings.TrimSpace(objectKey)
	if objectKey == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "object_key is required")
	}
	if !keyBelongsTo(objectKey, userID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "object does not belong to you")
	}

	signedURL, err := s.signer.SignedReadURL(s.bucket, objectKey, s.downloadTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sign download url")
	}
	return &DownloadOutput{
		ObjectKey:    objectKey,
		SignedGETURL: signedURL,
		ExpiresAt:    time.Now().Add(s.downloadTTL),
	}, nil
}

// BuildObjectKey lays keys out as <category>/<uid>/<filename>.
func BuildObjectKey(category enums.UploadCategory, userID uuid.UUID, fileName string) string {
	return fmt.Sprintf("%s/%s/%s", category, userID, fileName)
}

func keyBelongsTo(objectKey string, userID uuid.UUID) bool {
	parts := strings.SplitN(objectKey, "/", 3)
	if len(parts) != 3 {
		return false
	}
	category, err := enums.ParseUploadCategory(parts[0])
	if err != nil || !category.IsValid() {
		return false
	}
	return parts[1] == userID.String()
}

func isAllowedMime(category enums.UploadCategory, mimeType string) bool {
	allowed, ok := mimeTypesByCategory[category]
	if !ok {
		return false
	}
	for _, candidate := range allowed {
		if strings.EqualFold(candidate, mimeType) {
			return true
		}
	}
	return false
}

func sanitizeFileName(name string) string {
	if name == "" {
		return ""
	}
	clean := path.Base(strings.TrimSpace(name))
	if clean == "" || clean == "." || clean == "/" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(clean))
	for _, r := range clean {
		switch {
		case r == '/' || r == '\\' || unicode.IsControl(r):
			continue
		case unicode.IsSpace(r):
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
