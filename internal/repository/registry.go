package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lessonhub/lessonhub/internal/repository/base"
	"github.com/lessonhub/lessonhub/internal/service"
)

// Registry связывает все репозитории с одним querier'ом. Вне транзакции это
// пул; внутри InTx репозитории пересоздаются поверх открытой транзакции.
type Registry struct {
	db base.Querier
	tx base.TxRunner
}

var _ service.Stores = (*Registry)(nil)

// NewRegistry создаёт реестр репозиториев поверх пула
func NewRegistry(pool *pgxpool.Pool) *Registry {
	return &Registry{db: pool, tx: base.NewTxRunner(pool)}
}

func (r *Registry) Users() service.UserStore {
	return NewUserRepository(r.db)
}

func (r *Registry) Courses() service.CourseStore {
	return NewCourseRepository(r.db)
}

func (r *Registry) Bookings() service.BookingStore {
	return NewBookingRepository(r.db)
}

func (r *Registry) Messages() service.MessageStore {
	return NewMessageRepository(r.db)
}

func (r *Registry) Materials() service.MaterialStore {
	return NewMaterialRepository(r.db)
}

func (r *Registry) TeachableCourses() service.TeachableCourseStore {
	return NewTeachableCourseRepository(r.db)
}

// InTx выполняет fn в одной транзакции: все репозитории внутри callback
// работают через pgx.Tx, ошибка откатывает всё целиком.
func (r *Registry) InTx(ctx context.Context, fn func(tx service.Stores) error) error {
	if r.tx == nil {
		// уже внутри транзакции — вложенность не поддерживаем, работаем в текущей
		return fn(r)
	}
	return r.tx.InTx(ctx, func(q base.Querier) error {
		return fn(&Registry{db: q})
	})
}
