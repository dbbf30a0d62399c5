package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Endo1018/salon-reservation-sub000/internal/domain"
	bookingRepo "github.com/Endo1018/salon-reservation-sub000/internal/infra/storage/booking"
)

// Store хранилище в памяти с теми же гарантиями, что и PostgreSQL-реализация:
// транзакция держит общий мьютекс на всё время выполнения, работает с копией
// данных и фиксирует её только при успехе. Ограничение на пересечение
// интервалов проверяется при фиксации, как отложенное ограничение БД.
type Store struct {
	mu   sync.Mutex
	data *state
	now  func() time.Time
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		data: newState(),
		now:  time.Now,
	}
}

type state struct {
	bookings map[string]*domain.Booking
	shifts   map[string]*domain.Shift
	dirty    map[string]struct{}
}

func newState() *state {
	return &state{
		bookings: make(map[string]*domain.Booking),
		shifts:   make(map[string]*domain.Shift),
		dirty:    make(map[string]struct{}),
	}
}

func (s *state) clone() *state {
	cp := &state{
		bookings: make(map[string]*domain.Booking, len(s.bookings)),
		shifts:   make(map[string]*domain.Shift, len(s.shifts)),
		dirty:    make(map[string]struct{}),
	}
	for id, b := range s.bookings {
		cp.bookings[id] = b
	}
	for k, sh := range s.shifts {
		cp.shifts[k] = sh
	}
	return cp
}

// put сохраняет копию бронирования и помечает его для проверки при фиксации
func (s *state) put(b *domain.Booking) {
	s.bookings[b.ID] = b.Clone()
	s.dirty[b.ID] = struct{}{}
}

// validate проверяет изменённые бронирования на пересечения по ресурсу и сотруднику
func (s *state) validate() error {
	for id := range s.dirty {
		b, ok := s.bookings[id]
		if !ok || !b.IsActive() {
			continue
		}
		for _, other := range s.bookings {
			if other.ID == b.ID || !other.IsActive() || !b.Interval().Overlaps(other.Interval()) {
				continue
			}
			if !b.IsOverflow() && other.ResourceID == b.ResourceID {
				return fmt.Errorf("%w: resource %s: %s overlaps %s", bookingRepo.ErrSlotConflict, b.ResourceID, b.ID, other.ID)
			}
			if b.StaffID != nil && other.StaffID != nil && *b.StaffID == *other.StaffID {
				return fmt.Errorf("%w: staff %s: %s overlaps %s", bookingRepo.ErrSlotConflict, *b.StaffID, b.ID, other.ID)
			}
		}
	}
	return nil
}

type txKey struct{}

// write выполняет fn над состоянием транзакции из контекста или,
// вне транзакции, атомарно над копией текущего состояния
func (s *Store) write(ctx context.Context, fn func(st *state) error) error {
	if st, ok := ctx.Value(txKey{}).(*state); ok {
		return fn(st)
	}
	return s.transact(ctx, func(ctx context.Context) error {
		return fn(ctx.Value(txKey{}).(*state))
	})
}

// read выполняет fn над состоянием транзакции из контекста или под мьютексом
func (s *Store) read(ctx context.Context, fn func(st *state) error) error {
	if st, ok := ctx.Value(txKey{}).(*state); ok {
		return fn(st)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

func (s *Store) transact(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*state); ok {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.data.clone()
	if err := fn(context.WithValue(ctx, txKey{}, work)); err != nil {
		return err
	}
	if err := work.validate(); err != nil {
		return err
	}

	work.dirty = make(map[string]struct{})
	s.data = work
	return nil
}

// TxManager менеджер транзакций поверх Store
type TxManager struct {
	store *Store
}

// NewTxManager создает менеджер транзакций хранилища в памяти
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// Do выполняет fn в транзакции
func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.store.transact(ctx, fn)
}

// DoReadOnly выполняет fn в транзакции (изоляция та же, что у Do)
func (m *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.store.transact(ctx, fn)
}

// DoSerializable выполняет fn в транзакции. Транзакции выполняются строго
// по очереди, поэтому конфликтов сериализации не бывает.
func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.store.transact(ctx, fn)
}
