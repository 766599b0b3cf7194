package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "clinic/internal/errors"
	"clinic/internal/logger"
	"clinic/internal/models"
	"clinic/internal/pagination"
	"clinic/internal/storage"
	"clinic/internal/uuid"
)

// DownloadURLExpiry is how long a presigned history download link stays valid.
const DownloadURLExpiry = 15 * time.Minute

// historyService handles patient history records and their stored documents.
// store is nil when object storage is not configured.
type historyService struct {
	db    *gorm.DB
	store storage.ObjectStore
}

// NewHistoryService creates a new HistoryServicer. store may be nil.
func NewHistoryService(db *gorm.DB, store storage.ObjectStore) HistoryServicer {
	return &historyService{db: db, store: store}
}

// CreateHistory records a document that already lives elsewhere.
func (s *historyService) CreateHistory(clientID, fileID, fileType, notes string) (*models.PatientHistory, error) {
	fileID = strings.TrimSpace(fileID)
	fileType = strings.TrimSpace(fileType)
	if clientID == "" || fileID == "" || fileType == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Client ID, file ID and file type are required")
	}
	if err := requireClient(s.db, clientID); err != nil {
		return nil, err
	}

	h := &models.PatientHistory{
		ClientID: clientID,
		FileID:   fileID,
		FileType: fileType,
		Notes:    notes,
	}
	if err := s.db.Create(h).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return h, nil
}

// historyObjectKey places each client's documents under their own prefix.
func historyObjectKey(clientID, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("history/%s/%s%s", clientID, uuid.New(), ext)
}

// UploadHistory stores the document and records it. When the record cannot
// be saved the stored object is removed again.
func (s *historyService) UploadHistory(ctx context.Context, upload HistoryUpload) (*models.PatientHistory, error) {
	if s.store == nil {
		return nil, apperrors.ErrStorageUnavailable
	}
	if upload.ClientID == "" || upload.Body == nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Client ID and file are required")
	}
	if err := requireClient(s.db, upload.ClientID); err != nil {
		return nil, err
	}

	contentType := upload.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := historyObjectKey(upload.ClientID, upload.Filename)
	if err := s.store.Put(ctx, key, upload.Body, upload.Size, contentType); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	h := &models.PatientHistory{
		ClientID: upload.ClientID,
		FileID:   key,
		FileType: contentType,
		Notes:    upload.Notes,
	}
	if err := s.db.Create(h).Error; err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			logger.Get().Errorw("failed to remove orphaned history object", "key", key, "error", delErr)
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return h, nil
}

// GetHistories returns every history record, or one page when page.Page is set.
func (s *historyService) GetHistories(page pagination.PageRequest) (*pagination.Page[models.PatientHistory], error) {
	var total int64
	if err := s.db.Model(&models.PatientHistory{}).Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	q := s.db.Order("created_at DESC")
	if page.Enabled() {
		page.Defaults()
		q = q.Scopes(pagination.Paginate(page))
	} else {
		page.Page, page.PageSize = 1, int(total)
	}

	var histories []models.PatientHistory
	if err := q.Find(&histories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPage(histories, page.Page, page.PageSize, total)
	return &result, nil
}

// GetClientHistories returns a client's history records, newest first.
func (s *historyService) GetClientHistories(clientID string) ([]models.PatientHistory, error) {
	histories := []models.PatientHistory{}
	if err := s.db.Where("client_id = ?", clientID).Order("created_at DESC").Find(&histories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return histories, nil
}

// GetDownloadURL returns a short-lived link to the record's stored document.
func (s *historyService) GetDownloadURL(ctx context.Context, id string) (string, error) {
	if s.store == nil {
		return "", apperrors.ErrStorageUnavailable
	}
	h, err := s.getHistory(id)
	if err != nil {
		return "", err
	}

	url, err := s.store.PresignGet(ctx, h.FileID, DownloadURLExpiry)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return "", apperrors.WithMessage(apperrors.ErrNotFound, "Stored file not found")
		}
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return url, nil
}

// DeleteHistory removes the record and, when storage is configured, its
// stored document. A storage failure does not undo the record deletion.
func (s *historyService) DeleteHistory(ctx context.Context, id string) error {
	h, err := s.getHistory(id)
	if err != nil {
		return err
	}

	res := s.db.Where("id = ?", id).Delete(&models.PatientHistory{})
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrHistoryNotFound
	}

	if s.store != nil {
		if err := s.store.Delete(ctx, h.FileID); err != nil {
			logger.Get().Warnw("failed to delete history object", "key", h.FileID, "history_id", id, "error", err)
		}
	}
	return nil
}

func (s *historyService) getHistory(id string) (*models.PatientHistory, error) {
	var h models.PatientHistory
	if err := s.db.Where("id = ?", id).First(&h).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrHistoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &h, nil
}
