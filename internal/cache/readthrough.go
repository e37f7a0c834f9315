package cache

import (
	"context"

	"github.com/lessonhub/lessonhub/internal/model"
)

// Shared is the process-wide recency cache. User and booking records live in
// the same bounded space, partitioned by key namespace.
type Shared = LRU[string, any]

// NewShared creates the process-wide cache. Built once at startup and passed
// by reference to the read-through wrappers.
func NewShared(capacity int) *Shared {
	return NewLRU[string, any](capacity)
}

// UserSource is the lookup the user read-through falls back to on a miss.
type UserSource interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// BookingSource is the lookup the booking read-through falls back to on a miss.
type BookingSource interface {
	GetByID(ctx context.Context, id int64) (*model.Booking, error)
}

// Users is a cache-aside wrapper over a user source.
type Users struct {
	lru *Shared
	src UserSource
}

func NewUsers(lru *Shared, src UserSource) *Users {
	return &Users{lru: lru, src: src}
}

// GetByID returns the cached user or loads and caches it. A missing user is
// (nil, nil), never cached.
func (c *Users) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if v, ok := c.lru.Get(UserKey(id)); ok {
		if u, ok := v.(*model.User); ok {
			return u, nil
		}
	}
	u, err := c.src.GetByID(ctx, id)
	if err != nil || u == nil {
		return u, err
	}
	c.lru.Put(UserKey(id), u)
	return u, nil
}

// Bookings is a cache-aside wrapper over a booking source. Mutating services
// must Put after a transition and Remove after a deletion so readers never
// see a stale status.
type Bookings struct {
	lru *Shared
	src BookingSource
}

func NewBookings(lru *Shared, src BookingSource) *Bookings {
	return &Bookings{lru: lru, src: src}
}

func (c *Bookings) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	if v, ok := c.lru.Get(BookingKey(id)); ok {
		if b, ok := v.(*model.Booking); ok {
			return b, nil
		}
	}
	b, err := c.src.GetByID(ctx, id)
	if err != nil || b == nil {
		return b, err
	}
	c.lru.Put(BookingKey(b.ID), b)
	return b, nil
}

// Put refreshes the cached copy after a mutation.
func (c *Bookings) Put(b *model.Booking) {
	if b != nil {
		c.lru.Put(BookingKey(b.ID), b)
	}
}

// Remove drops a deleted booking from the cache.
func (c *Bookings) Remove(id int64) {
	c.lru.Remove(BookingKey(id))
}
