package service

import (
	"context"
	"fmt"

	"github.com/lessonhub/lessonhub/internal/apperr"
	"github.com/lessonhub/lessonhub/internal/cache"
	"github.com/lessonhub/lessonhub/internal/storage"
	"go.uber.org/zap"
)

// DeletionService каскадно удаляет курс или бронирование вместе со всеми
// зависимыми записями в одной транзакции. Порядок и атомарность живут здесь,
// а не размазаны по вызывающим.
type DeletionService struct {
	stores   Stores
	blobs    storage.BlobStore
	bookings *cache.Bookings
	logger   *zap.Logger
}

func NewDeletionService(stores Stores, blobs storage.BlobStore, bookings *cache.Bookings, logger *zap.Logger) *DeletionService {
	return &DeletionService{
		stores:   stores,
		blobs:    blobs,
		bookings: bookings,
		logger:   logger,
	}
}

// DeleteCourse удаляет курс со всеми бронированиями (по убыванию времени),
// их сообщениями и материалами, затем связи учитель-курс и сам курс. Любая
// ошибка откатывает всё целиком.
func (s *DeletionService) DeleteCourse(ctx context.Context, courseID int64) error {
	var (
		objectKeys []string
		bookingIDs []int64
	)

	err := s.stores.InTx(ctx, func(tx Stores) error {
		course, err := tx.Courses().GetByID(ctx, courseID)
		if err != nil {
			return err
		}
		if course == nil {
			return apperr.NotFound(fmt.Sprintf("course %d", courseID))
		}

		bookings, err := tx.Bookings().ListByCourseID(ctx, courseID)
		if err != nil {
			return err
		}

		for _, b := range bookings {
			keys, err := deleteBookingRecords(ctx, tx, b.ID)
			if err != nil {
				return err
			}
			objectKeys = append(objectKeys, keys...)
			bookingIDs = append(bookingIDs, b.ID)
		}

		if _, err := tx.TeachableCourses().DeleteByCourseID(ctx, courseID); err != nil {
			return err
		}

		return tx.Courses().Delete(ctx, courseID)
	})
	if err != nil {
		if apperr.IsKind(err) {
			return err
		}
		return apperr.Storage(fmt.Sprintf("delete course %d", courseID), err)
	}

	for _, id := range bookingIDs {
		s.bookings.Remove(id)
	}
	s.cleanupBlobs(ctx, objectKeys)

	s.logger.Info("Course deleted",
		zap.Int64("course_id", courseID),
		zap.Int("bookings", len(bookingIDs)),
	)

	return nil
}

// DeleteBooking удаляет бронирование с его сообщениями и материалами одной
// транзакцией.
func (s *DeletionService) DeleteBooking(ctx context.Context, bookingID int64) error {
	var objectKeys []string

	err := s.stores.InTx(ctx, func(tx Stores) error {
		booking, err := tx.Bookings().GetByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking == nil {
			return apperr.NotFound(fmt.Sprintf("booking %d", bookingID))
		}

		objectKeys, err = deleteBookingRecords(ctx, tx, bookingID)
		return err
	})
	if err != nil {
		if apperr.IsKind(err) {
			return err
		}
		return apperr.Storage(fmt.Sprintf("delete booking %d", bookingID), err)
	}

	s.bookings.Remove(bookingID)
	s.cleanupBlobs(ctx, objectKeys)

	s.logger.Info("Booking deleted", zap.Int64("booking_id", bookingID))

	return nil
}

// deleteBookingRecords удаляет сообщения, материалы и само бронирование
// внутри открытой транзакции. Возвращает ключи блобов для очистки хранилища
// после коммита.
func deleteBookingRecords(ctx context.Context, tx Stores, bookingID int64) ([]string, error) {
	materials, err := tx.Materials().ListByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(materials))
	for _, m := range materials {
		keys = append(keys, m.ObjectKey)
	}

	if _, err := tx.Messages().DeleteByBookingID(ctx, bookingID); err != nil {
		return nil, err
	}
	if _, err := tx.Materials().DeleteByBookingID(ctx, bookingID); err != nil {
		return nil, err
	}
	if err := tx.Bookings().Delete(ctx, bookingID); err != nil {
		return nil, err
	}

	return keys, nil
}

// cleanupBlobs убирает файлы материалов после успешного коммита. Блобы вне
// транзакции, поэтому только best effort с логом.
func (s *DeletionService) cleanupBlobs(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.blobs.Delete(ctx, key); err != nil {
			s.logger.Warn("Failed to delete material blob",
				zap.String("object_key", key),
				zap.Error(err),
			)
		}
	}
}
