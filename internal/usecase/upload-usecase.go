package usecase

import (
	"context"
	"fmt"
	"io"
	"mime"
	"slices"
	"strings"

	"github.com/iamvkosarev/fintrack/config"
	"github.com/iamvkosarev/fintrack/internal/model"
	"go.uber.org/zap"
)

const (
	MessageInvalidFileType = "Invalid file type. Please upload CSV, PDF, JPG, or PNG files only."
	MessageFileTooLarge    = "File size exceeds 10MB. Please upload a smaller file."

	mimeTypeCSV = "text/csv"
)

type Upload struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

type UploadResult struct {
	Name              string `json:"name"`
	ContentType       string `json:"content_type"`
	Size              int64  `json:"size"`
	TransactionsAdded int    `json:"transactions_added"`
}

type UploadUsecaseDeps struct {
	Transactions *TransactionUsecase
}

type UploadUsecase struct {
	UploadUsecaseDeps
	cfg    config.Upload
	logger *zap.Logger
}

func NewUploadUsecase(deps UploadUsecaseDeps, cfg config.Upload, logger *zap.Logger) *UploadUsecase {
	return &UploadUsecase{
		UploadUsecaseDeps: deps,
		cfg:               cfg,
		logger:            logger,
	}
}

// Validate checks the content type against the whitelist and the size against the limit.
// Media type parameters such as charset are ignored.
func (u *UploadUsecase) Validate(contentType string, size int64) error {
	mediaType := normalizeMediaType(contentType)
	if !slices.Contains(u.cfg.AllowedTypes, mediaType) {
		return &model.FileRejectedError{
			Reason:       model.FileRejectReasonType,
			Message:      MessageInvalidFileType,
			DismissAfter: u.cfg.BannerTTL,
		}
	}
	if size > u.cfg.MaxSize {
		return u.TooLarge()
	}
	return nil
}

// TooLarge is the rejection for uploads over the size limit.
func (u *UploadUsecase) TooLarge() error {
	return &model.FileRejectedError{
		Reason:       model.FileRejectReasonSize,
		Message:      MessageFileTooLarge,
		DismissAfter: u.cfg.BannerTTL,
	}
}

func (u *UploadUsecase) MaxSize() int64 {
	return u.cfg.MaxSize
}

// Process validates the upload and imports CSV rows as transactions of ownerEmail.
// PDF and image uploads are accepted without extracting anything.
func (u *UploadUsecase) Process(ctx context.Context, ownerEmail string, upload Upload) (UploadResult, error) {
	if err := u.Validate(upload.ContentType, upload.Size); err != nil {
		return UploadResult{}, err
	}
	result := UploadResult{
		Name:        upload.Name,
		ContentType: normalizeMediaType(upload.ContentType),
		Size:        upload.Size,
	}
	if result.ContentType != mimeTypeCSV {
		u.logger.Info("upload accepted without extraction",
			zap.String("name", upload.Name),
			zap.String("content_type", result.ContentType),
		)
		return result, nil
	}

	added, err := u.Transactions.ImportCSV(ctx, ownerEmail, io.LimitReader(upload.Body, u.cfg.MaxSize))
	if err != nil {
		return UploadResult{}, fmt.Errorf("failed to import %s: %w", upload.Name, err)
	}
	result.TransactionsAdded = added
	return result, nil
}

func normalizeMediaType(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mediaType
}
