package memory

import (
	"context"
	"sort"
	"time"

	"github.com/Endo1018/salon-reservation-sub000/internal/domain"
)

// Shifts репозиторий смен поверх Store
type Shifts struct {
	store    *Store
	location *time.Location
}

// Shifts возвращает репозиторий смен; даты сравниваются в часовом поясе location
func (s *Store) Shifts(location *time.Location) *Shifts {
	if location == nil {
		location = time.UTC
	}
	return &Shifts{store: s, location: location}
}

// Upsert создает или заменяет смену сотрудника на дату
func (r *Shifts) Upsert(ctx context.Context, shift *domain.Shift) error {
	sh := *shift
	sh.Date = domain.DateOf(shift.Date, r.location)
	return r.store.write(ctx, func(st *state) error {
		st.shifts[r.key(sh.StaffID, sh.Date)] = &sh
		return nil
	})
}

// ListByDate получает все смены на дату
func (r *Shifts) ListByDate(ctx context.Context, date time.Time) ([]*domain.Shift, error) {
	day := domain.DateOf(date, r.location)

	out := make([]*domain.Shift, 0)
	err := r.store.read(ctx, func(st *state) error {
		for _, sh := range st.shifts {
			if sh.Date.Equal(day) {
				cp := *sh
				out = append(out, &cp)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool { return out[i].StaffID < out[j].StaffID })
	return out, nil
}

func (r *Shifts) key(staffID string, date time.Time) string {
	return staffID + "|" + date.Format(domain.DateFormat)
}
