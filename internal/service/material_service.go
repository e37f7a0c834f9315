package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lessonhub/lessonhub/internal/apperr"
	"github.com/lessonhub/lessonhub/internal/model"
	"github.com/lessonhub/lessonhub/internal/storage"
	"go.uber.org/zap"
)

// MaterialService обрабатывает загрузку и скачивание учебных материалов.
// Бинарное содержимое лежит в blob-хранилище под uuid-ключом, метаданные —
// в сторе. Обе операции проходят через AccessService.
type MaterialService struct {
	materials MaterialStore
	access    *AccessService
	blobs     storage.BlobStore
	logger    *zap.Logger
}

func NewMaterialService(materials MaterialStore, access *AccessService, blobs storage.BlobStore, logger *zap.Logger) *MaterialService {
	return &MaterialService{
		materials: materials,
		access:    access,
		blobs:     blobs,
		logger:    logger,
	}
}

// Upload сохраняет файл и метаданные. Если запись метаданных не удалась,
// уже записанный блоб убирается — осиротевших файлов не остаётся.
func (s *MaterialService) Upload(ctx context.Context, bookingID, actorID int64, role model.Role, fileName, description string, payload []byte) (*model.StudyMaterial, error) {
	if strings.TrimSpace(fileName) == "" {
		return nil, apperr.Validation("file name is empty")
	}
	if len(payload) == 0 {
		return nil, apperr.Validation("file payload is empty")
	}

	if _, err := s.access.BookingForActor(ctx, bookingID, actorID, role); err != nil {
		return nil, err
	}

	key := uuid.NewString()
	if err := s.blobs.Put(ctx, key, payload); err != nil {
		return nil, apperr.Storage(fmt.Sprintf("store material %s", fileName), err)
	}

	material := &model.StudyMaterial{
		BookingID:   bookingID,
		UploaderID:  actorID,
		FileName:    fileName,
		Size:        int64(len(payload)),
		Description: description,
		ObjectKey:   key,
	}

	if err := s.materials.Create(ctx, material); err != nil {
		if delErr := s.blobs.Delete(ctx, key); delErr != nil {
			s.logger.Warn("Failed to clean up orphan blob",
				zap.String("object_key", key),
				zap.Error(delErr),
			)
		}
		return nil, fmt.Errorf("create material: %w", err)
	}

	s.logger.Info("Material uploaded",
		zap.Int64("material_id", material.ID),
		zap.Int64("booking_id", bookingID),
		zap.Int64("uploader_id", actorID),
		zap.String("file_name", fileName),
		zap.Int64("size", material.Size),
	)

	return material, nil
}

// Download получает метаданные и содержимое материала
func (s *MaterialService) Download(ctx context.Context, materialID, actorID int64, role model.Role) (*model.StudyMaterial, []byte, error) {
	material, err := s.materials.GetByID(ctx, materialID)
	if err != nil {
		return nil, nil, fmt.Errorf("get material: %w", err)
	}
	if material == nil {
		return nil, nil, apperr.NotFound(fmt.Sprintf("material %d", materialID))
	}

	if _, err := s.access.BookingForActor(ctx, material.BookingID, actorID, role); err != nil {
		return nil, nil, err
	}

	payload, err := s.blobs.Get(ctx, material.ObjectKey)
	if err != nil {
		return nil, nil, apperr.Storage(fmt.Sprintf("read material %d", materialID), err)
	}

	return material, payload, nil
}

// List получает материалы бронирования
func (s *MaterialService) List(ctx context.Context, bookingID, actorID int64, role model.Role) ([]*model.StudyMaterial, error) {
	if _, err := s.access.BookingForActor(ctx, bookingID, actorID, role); err != nil {
		return nil, err
	}
	return s.materials.ListByBookingID(ctx, bookingID)
}
