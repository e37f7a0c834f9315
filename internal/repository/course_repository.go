package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/lessonhub/lessonhub/internal/apperr"
	"github.com/lessonhub/lessonhub/internal/model"
	"github.com/lessonhub/lessonhub/internal/repository/base"
)

type CourseRepository struct {
	db base.Querier
}

func NewCourseRepository(db base.Querier) *CourseRepository {
	return &CourseRepository{db: db}
}

// Create создаёт новый курс
func (r *CourseRepository) Create(ctx context.Context, course *model.Course) error {
	query := `
		INSERT INTO courses (name, description)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, course.Name, course.Description).
		Scan(&course.ID, &course.CreatedAt)

	if err != nil {
		return fmt.Errorf("create course: %w", err)
	}

	return nil
}

// GetByID получает курс по ID
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*model.Course, error) {
	query := `
		SELECT id, name, description, created_at
		FROM courses
		WHERE id = $1
	`

	var course model.Course
	err := r.db.QueryRow(ctx, query, id).Scan(
		&course.ID,
		&course.Name,
		&course.Description,
		&course.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get course by id: %w", err)
	}

	return &course, nil
}

// List получает все курсы
func (r *CourseRepository) List(ctx context.Context) ([]*model.Course, error) {
	query := `
		SELECT id, name, description, created_at
		FROM courses
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	var courses []*model.Course
	for rows.Next() {
		var course model.Course
		err := rows.Scan(&course.ID, &course.Name, &course.Description, &course.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, &course)
	}

	return courses, rows.Err()
}

// Delete удаляет курс
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM courses WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperr.NotFound(fmt.Sprintf("course %d", id))
	}

	return nil
}
