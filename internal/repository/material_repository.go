package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lessonhub/lessonhub/internal/model"
	"github.com/lessonhub/lessonhub/internal/repository/base"
)

type MaterialRepository struct {
	db base.Querier
}

func NewMaterialRepository(db base.Querier) *MaterialRepository {
	return &MaterialRepository{db: db}
}

// Create создаёт запись об учебном материале
func (r *MaterialRepository) Create(ctx context.Context, material *model.StudyMaterial) error {
	query := `
		INSERT INTO study_materials (booking_id, uploader_id, file_name, size, description, object_key)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, uploaded_at
	`

	err := r.db.QueryRow(
		ctx, query,
		material.BookingID,
		material.UploaderID,
		material.FileName,
		material.Size,
		material.Description,
		material.ObjectKey,
	).Scan(&material.ID, &material.UploadedAt)

	if err != nil {
		return fmt.Errorf("create material: %w", err)
	}

	return nil
}

// GetByID получает материал по ID
func (r *MaterialRepository) GetByID(ctx context.Context, id int64) (*model.StudyMaterial, error) {
	query := `
		SELECT id, booking_id, uploader_id, file_name, size, description, object_key, uploaded_at
		FROM study_materials
		WHERE id = $1
	`

	var m model.StudyMaterial
	err := r.db.QueryRow(ctx, query, id).Scan(
		&m.ID,
		&m.BookingID,
		&m.UploaderID,
		&m.FileName,
		&m.Size,
		&m.Description,
		&m.ObjectKey,
		&m.UploadedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get material by id: %w", err)
	}

	return &m, nil
}

// ListByBookingID получает материалы бронирования по возрастанию времени загрузки
func (r *MaterialRepository) ListByBookingID(ctx context.Context, bookingID int64) ([]*model.StudyMaterial, error) {
	query := `
		SELECT id, booking_id, uploader_id, file_name, size, description, object_key, uploaded_at
		FROM study_materials
		WHERE booking_id = $1
		ORDER BY uploaded_at ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		return nil, fmt.Errorf("list materials by booking: %w", err)
	}
	defer rows.Close()

	var materials []*model.StudyMaterial
	for rows.Next() {
		var m model.StudyMaterial
		err := rows.Scan(&m.ID, &m.BookingID, &m.UploaderID, &m.FileName, &m.Size, &m.Description, &m.ObjectKey, &m.UploadedAt)
		if err != nil {
			return nil, fmt.Errorf("scan material: %w", err)
		}
		materials = append(materials, &m)
	}

	return materials, rows.Err()
}

// DeleteByBookingID удаляет все материалы бронирования
func (r *MaterialRepository) DeleteByBookingID(ctx context.Context, bookingID int64) (int64, error) {
	query := `DELETE FROM study_materials WHERE booking_id = $1`

	result, err := r.db.Exec(ctx, query, bookingID)
	if err != nil {
		return 0, fmt.Errorf("delete materials by booking: %w", err)
	}

	return result.RowsAffected(), nil
}
