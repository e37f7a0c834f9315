package repository

import (
	"context"
	"fmt"

	"github.com/lessonhub/lessonhub/internal/apperr"
	"github.com/lessonhub/lessonhub/internal/model"
	"github.com/lessonhub/lessonhub/internal/repository/base"
)

type TeachableCourseRepository struct {
	db base.Querier
}

func NewTeachableCourseRepository(db base.Querier) *TeachableCourseRepository {
	return &TeachableCourseRepository{db: db}
}

// Create создаёт связь учитель-курс
func (r *TeachableCourseRepository) Create(ctx context.Context, tc *model.TeachableCourse) error {
	query := `
		INSERT INTO teachable_courses (teacher_id, course_id)
		VALUES ($1, $2)
		RETURNING id, added_at
	`

	err := r.db.QueryRow(ctx, query, tc.TeacherID, tc.CourseID).
		Scan(&tc.ID, &tc.AddedAt)

	if err != nil {
		return fmt.Errorf("create teachable course: %w", err)
	}

	return nil
}

// Exists проверяет, преподаёт ли учитель курс
func (r *TeachableCourseRepository) Exists(ctx context.Context, teacherID, courseID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM teachable_courses
			WHERE teacher_id = $1 AND course_id = $2
		)
	`

	var exists bool
	if err := r.db.QueryRow(ctx, query, teacherID, courseID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check teachable course: %w", err)
	}

	return exists, nil
}

// ListByTeacherID получает курсы учителя
func (r *TeachableCourseRepository) ListByTeacherID(ctx context.Context, teacherID int64) ([]*model.TeachableCourse, error) {
	query := `
		SELECT id, teacher_id, course_id, added_at
		FROM teachable_courses
		WHERE teacher_id = $1
		ORDER BY added_at ASC
	`

	rows, err := r.db.Query(ctx, query, teacherID)
	if err != nil {
		return nil, fmt.Errorf("list teachable courses: %w", err)
	}
	defer rows.Close()

	var links []*model.TeachableCourse
	for rows.Next() {
		var tc model.TeachableCourse
		err := rows.Scan(&tc.ID, &tc.TeacherID, &tc.CourseID, &tc.AddedAt)
		if err != nil {
			return nil, fmt.Errorf("scan teachable course: %w", err)
		}
		links = append(links, &tc)
	}

	return links, rows.Err()
}

// DeleteByCourseID удаляет все связи курса
func (r *TeachableCourseRepository) DeleteByCourseID(ctx context.Context, courseID int64) (int64, error) {
	query := `DELETE FROM teachable_courses WHERE course_id = $1`

	result, err := r.db.Exec(ctx, query, courseID)
	if err != nil {
		return 0, fmt.Errorf("delete teachable courses: %w", err)
	}

	return result.RowsAffected(), nil
}

// Delete удаляет связь по ID
func (r *TeachableCourseRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM teachable_courses WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete teachable course: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound(fmt.Sprintf("teachable course %d", id))
	}

	return nil
}
