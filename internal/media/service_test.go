package media

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/starconnect/starconnect-backend/pkg/config"
	"github.com/starconnect/starconnect-backend/pkg/enums"
	pkgerrors "github.com/starconnect/starconnect-backend/pkg/errors"
)

type stubSigner struct {
	lastObject      string
	lastContentType string
	err             error
}

func (s *stubSigner) SignedURL(bucket, object, contentType string, expires time.Duration) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.lastObject = object
	s.lastContentType = contentType
	return fmt.Sprintf("https://storage.example.com/%s/%s?sig=put", bucket, object), nil
}

func (s *stubSigner) SignedReadURL(bucket, object string, expires time.Duration) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.lastObject = object
	return fmt.Sprintf("https://storage.example.com/%s/%s?sig=get", bucket, object), nil
}

func buildMediaService(t *testing.T, signer *stubSigner) Service {
	t.Helper()
	svc, err := NewService(signer, config.GCSConfig{
		BucketName:        "starconnect-media",
		UploadURLExpiry:   15 * time.Minute,
		DownloadURLExpiry: time.Hour,
		MaxUploadMB:       50,
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func TestPresignUploadBuildsCategoryScopedKey(t *testing.T) {
	signer := &stubSigner{}
	svc := buildMediaService(t, signer)
	userID := uuid.New()

	out, err := svc.PresignUpload(context.Background(), userID, PresignInput{
		Category:  enums.UploadCategoryProfilePictures,
		MimeType:  "image/jpeg",
		FileName:  "my headshot.jpg",
		SizeBytes: 1024,
	})
	if err != nil {
		t.Fatalf("presign upload: %v", err)
	}

	wantPrefix := "profilePictures/" + userID.String() + "/"
	if !strings.HasPrefix(out.ObjectKey, wantPrefix) {
		t.Fatalf("expected key under %q, got %q", wantPrefix, out.ObjectKey)
	}
	if strings.Contains(out.ObjectKey, " ") {
		t.Fatalf("filename must be sanitized, got %q", out.ObjectKey)
	}
	if signer.lastContentType != "image/jpeg" {
		t.Fatalf("expected content type forwarded to signer, got %q", signer.lastContentType)
	}
	if out.SignedPUTURL == "" {
		t.Fatal("expected signed url")
	}
}

func TestPresignUploadRejectsUnknownCategory(t *testing.T) {
	svc := buildMediaService(t, &stubSigner{})

	_, err := svc.PresignUpload(context.Background(), uuid.New(), PresignInput{
		Category:  enums.UploadCategory("screenshots"),
		MimeType:  "image/png",
		FileName:  "x.png",
		SizeBytes: 10,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPresignUploadRejectsMismatchedMime(t *testing.T) {
	svc := buildMediaService(t, &stubSigner{})

	_, err := svc.PresignUpload(context.Background(), uuid.New(), PresignInput{
		Category:  enums.UploadCategoryProfilePictures,
		MimeType:  "application/pdf",
		FileName:  "resume.pdf",
		SizeBytes: 10,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPresignUploadEnforcesSizeLimit(t *testing.T) {
	svc := buildMediaService(t, &stubSigner{})

	_, err := svc.PresignUpload(context.Background(), uuid.New(), PresignInput{
		Category:  enums.UploadCategoryProfilePictures,
		MimeType:  "image/png",
		FileName:  "big.png",
		SizeBytes: 51 * 1024 * 1024,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPresignUploadStripsPathTraversal(t *testing.T) {
	signer := &stubSigner{}
	svc := buildMediaService(t, signer)
	userID := uuid.New()

	out, err := svc.PresignUpload(context.Background(), userID, PresignInput{
		Category:  enums.UploadCategoryGovernmentIDs,
		MimeType:  "image/png",
		FileName:  "../../etc/passwd.png",
		SizeBytes: 10,
	})
	if err != nil {
		t.Fatalf("presign upload: %v", err)
	}
	if strings.Contains(out.ObjectKey, "..") {
		t.Fatalf("traversal must be stripped, got %q", out.ObjectKey)
	}
	if out.ObjectKey != "governmentIds/"+userID.String()+"/passwd.png" {
		t.Fatalf("unexpected key %q", out.ObjectKey)
	}
}

func TestPresignDownloadRequiresOwnPrefix(t *testing.T) {
	svc := buildMediaService(t, &stubSigner{})
	userID := uuid.New()

	out, err := svc.PresignDownload(context.Background(), userID, "governmentIds/"+userID.String()+"/id.png")
	if err != nil {
		t.Fatalf("presign download: %v", err)
	}
	if out.SignedGETURL == "" {
		t.Fatal("expected signed url")
	}

	_, err = svc.PresignDownload(context.Background(), userID, "governmentIds/"+uuid.NewString()+"/id.png")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for another user's object, got %v", err)
	}

	_, err = svc.PresignDownload(context.Background(), userID, "random/"+userID.String()+"/id.png")
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for unknown category, got %v", err)
	}
}
