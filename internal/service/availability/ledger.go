package availability

import (
	"context"
	"sync"

	"github.com/Endo1018/salon-reservation-sub000/internal/domain"
)

// Ledger набор предварительных (ещё не записанных) бронирований поверх хранилища.
// Запись в леджере перекрывает строку хранилища с тем же ID, удалённый ID
// скрывает строку хранилища. Используется пакетным импортом, чтобы строки
// одного пакета видели друг друга до общей фиксации.
type Ledger struct {
	mu      sync.RWMutex
	pending map[string]*domain.Booking
	removed map[string]struct{}
	order   []string
}

// NewLedger создает пустой леджер
func NewLedger() *Ledger {
	return &Ledger{
		pending: make(map[string]*domain.Booking),
		removed: make(map[string]struct{}),
	}
}

// Put добавляет или заменяет предварительное бронирование
func (l *Ledger) Put(bookings ...*domain.Booking) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, b := range bookings {
		if _, ok := l.pending[b.ID]; !ok {
			l.order = append(l.order, b.ID)
		}
		l.pending[b.ID] = b.Clone()
		delete(l.removed, b.ID)
	}
}

// Remove скрывает бронирование с указанным ID
func (l *Ledger) Remove(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.pending[id]; ok {
		delete(l.pending, id)
		for i, v := range l.order {
			if v == id {
				l.order = append(l.order[:i], l.order[i+1:]...)
				break
			}
		}
	}
	l.removed[id] = struct{}{}
}

// Bookings возвращает предварительные бронирования в порядке добавления
func (l *Ledger) Bookings() []*domain.Booking {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]*domain.Booking, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.pending[id].Clone())
	}
	return out
}

// Len возвращает количество предварительных бронирований
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.pending)
}

// Over возвращает BookingReader, объединяющий хранилище и леджер
func (l *Ledger) Over(base BookingReader) BookingReader {
	return &ledgerReader{base: base, ledger: l}
}

type ledgerReader struct {
	base   BookingReader
	ledger *Ledger
}

func (r *ledgerReader) ListOverlapping(ctx context.Context, filter domain.OverlapFilter) ([]*domain.Booking, error) {
	stored, err := r.base.ListOverlapping(ctx, filter)
	if err != nil {
		return nil, err
	}

	r.ledger.mu.RLock()
	defer r.ledger.mu.RUnlock()

	out := make([]*domain.Booking, 0, len(stored))
	for _, b := range stored {
		if _, shadowed := r.ledger.pending[b.ID]; shadowed {
			continue
		}
		if _, gone := r.ledger.removed[b.ID]; gone {
			continue
		}
		out = append(out, b)
	}

	for _, id := range r.ledger.order {
		b := r.ledger.pending[id]
		if filter.Matches(b) {
			out = append(out, b.Clone())
		}
	}

	return out, nil
}
