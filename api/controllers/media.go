package controllers

import (
	"net/http"

	"github.com/starconnect/starconnect-backend/api/responses"
	"github.com/starconnect/starconnect-backend/api/validators"
	"github.com/starconnect/starconnect-backend/internal/media"
	"github.com/starconnect/starconnect-backend/pkg/enums"
	pkgerrors "github.com/starconnect/starconnect-backend/pkg/errors"
	"github.com/starconnect/starconnect-backend/pkg/logger"
)

type presignUploadRequest struct {
	Category  string `json:"category" validate:"required"`
	MimeType  string `json:"mime_type" validate:"required"`
	FileName  string `json:"file_name" validate:"required,max=255"`
	SizeBytes int64  `json:"size_bytes" validate:"required,min=1"`
}

// PresignUpload hands the client a signed PUT URL for a profile asset.
func PresignUpload(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req presignUploadRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := enums.ParseUploadCategory(req.Category)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid upload category"))
			return
		}

		out, err := svc.PresignUpload(r.Context(), userID, media.PresignInput{
			Category:  category,
			MimeType:  req.MimeType,
			FileName:  req.FileName,
			SizeBytes: req.SizeBytes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}

// PresignDownload signs a short-lived read URL for an object the caller owns.
func PresignDownload(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "media service unavailable"))
			return
		}

		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		objectKey := r.URL.Query().Get("object_key")
		out, err := svc.PresignDownload(r.Context(), userID, objectKey)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, out)
	}
}
