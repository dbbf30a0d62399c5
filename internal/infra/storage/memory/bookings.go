package memory

import (
	"context"
	"sort"
	"time"

	"github.com/Endo1018/salon-reservation-sub000/internal/domain"
	bookingRepo "github.com/Endo1018/salon-reservation-sub000/internal/infra/storage/booking"
	"github.com/Endo1018/salon-reservation-sub000/pkg/ptr"
)

// Bookings репозиторий бронирований поверх Store
type Bookings struct {
	store *Store
}

// Bookings возвращает репозиторий бронирований
func (s *Store) Bookings() *Bookings {
	return &Bookings{store: s}
}

// Create создает новое бронирование
func (r *Bookings) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	if err := r.BulkCreate(ctx, []*domain.Booking{booking}); err != nil {
		return nil, err
	}
	return booking, nil
}

// BulkCreate вставляет бронирования
func (r *Bookings) BulkCreate(ctx context.Context, bookings []*domain.Booking) error {
	now := r.store.now()
	return r.store.write(ctx, func(st *state) error {
		for _, b := range bookings {
			if _, exists := st.bookings[b.ID]; exists {
				return bookingRepo.ErrSlotConflict
			}
		}
		for _, b := range bookings {
			b.CreatedAt = now
			b.UpdatedAt = now
			st.put(b)
		}
		return nil
	})
}

// Update перезаписывает бронирование
func (r *Bookings) Update(ctx context.Context, booking *domain.Booking) error {
	now := r.store.now()
	return r.store.write(ctx, func(st *state) error {
		current, ok := st.bookings[booking.ID]
		if !ok {
			return bookingRepo.ErrBookingNotFound
		}
		booking.CreatedAt = current.CreatedAt
		booking.UpdatedAt = now
		st.put(booking)
		return nil
	})
}

// UpdateStatus меняет статус нескольких бронирований
func (r *Bookings) UpdateStatus(ctx context.Context, ids []string, status domain.BookingStatus) error {
	if len(ids) == 0 {
		return nil
	}
	now := r.store.now()
	return r.store.write(ctx, func(st *state) error {
		found := 0
		for _, id := range ids {
			current, ok := st.bookings[id]
			if !ok {
				continue
			}
			b := current.Clone()
			b.Status = status
			b.UpdatedAt = now
			st.put(b)
			found++
		}
		if found == 0 {
			return bookingRepo.ErrBookingNotFound
		}
		return nil
	})
}

// Delete удаляет бронирование
func (r *Bookings) Delete(ctx context.Context, id string) error {
	return r.store.write(ctx, func(st *state) error {
		if _, ok := st.bookings[id]; !ok {
			return bookingRepo.ErrBookingNotFound
		}
		delete(st.bookings, id)
		delete(st.dirty, id)
		return nil
	})
}

// DeleteByRange удаляет бронирования, начинающиеся в [from, to),
// вместе с остальными этапами их комбо-групп
func (r *Bookings) DeleteByRange(ctx context.Context, from, to time.Time) (int64, error) {
	var deleted int64
	err := r.store.write(ctx, func(st *state) error {
		inRange := func(b *domain.Booking) bool {
			return !b.StartAt.Before(from) && b.StartAt.Before(to)
		}

		groups := make(map[string]struct{})
		for _, b := range st.bookings {
			if inRange(b) && b.ComboLinkID != nil {
				groups[*b.ComboLinkID] = struct{}{}
			}
		}

		for id, b := range st.bookings {
			_, grouped := groups[ptr.Deref(b.ComboLinkID)]
			if inRange(b) || (b.ComboLinkID != nil && grouped) {
				delete(st.bookings, id)
				delete(st.dirty, id)
				deleted++
			}
		}
		return nil
	})
	return deleted, err
}

// GetByID получает бронирование по ID
func (r *Bookings) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	var out *domain.Booking
	err := r.store.read(ctx, func(st *state) error {
		b, ok := st.bookings[id]
		if !ok {
			return bookingRepo.ErrBookingNotFound
		}
		out = b.Clone()
		return nil
	})
	return out, err
}

// GetByComboLink получает все этапы группы, упорядоченные по началу
func (r *Bookings) GetByComboLink(ctx context.Context, linkID string) ([]*domain.Booking, error) {
	return r.collect(ctx, func(b *domain.Booking) bool {
		return b.ComboLinkID != nil && *b.ComboLinkID == linkID
	})
}

// ListOverlapping возвращает активные бронирования, попадающие под фильтр
func (r *Bookings) ListOverlapping(ctx context.Context, filter domain.OverlapFilter) ([]*domain.Booking, error) {
	return r.collect(ctx, func(b *domain.Booking) bool {
		if filter.ResourceID != nil && b.IsOverflow() {
			return false
		}
		return filter.Matches(b)
	})
}

// List получает бронирования по фильтру
func (r *Bookings) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	return r.collect(ctx, filter.Matches)
}

func (r *Bookings) collect(ctx context.Context, match func(b *domain.Booking) bool) ([]*domain.Booking, error) {
	out := make([]*domain.Booking, 0)
	err := r.store.read(ctx, func(st *state) error {
		for _, b := range st.bookings {
			if match(b) {
				out = append(out, b.Clone())
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].StartAt.Equal(out[j].StartAt) {
			return out[i].StartAt.Before(out[j].StartAt)
		}
		if out[i].ResourceID != out[j].ResourceID {
			return out[i].ResourceID < out[j].ResourceID
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
