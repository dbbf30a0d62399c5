package allocation

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Endo1018/salon-reservation-sub000/internal/domain"
	"github.com/Endo1018/salon-reservation-sub000/internal/service/availability"
	"github.com/Endo1018/salon-reservation-sub000/pkg/logger"
)

var day = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

type memReader struct {
	rows   []*domain.Booking
	shifts []*domain.Shift
}

func (m *memReader) ListOverlapping(_ context.Context, filter domain.OverlapFilter) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, b := range m.rows {
		if filter.Matches(b) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memReader) ListByDate(_ context.Context, date time.Time) ([]*domain.Shift, error) {
	var out []*domain.Shift
	for _, s := range m.shifts {
		if s.Date.Equal(date) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memReader) add(id, resource string, start, end time.Time) *domain.Booking {
	b := &domain.Booking{
		ID:         id,
		ResourceID: resource,
		StartAt:    start,
		EndAt:      end,
		Status:     domain.StatusConfirmed,
	}
	if cat, ok := testResources.CategoryOf(resource); ok {
		b.Category = cat
	}
	m.rows = append(m.rows, b)
	return b
}

var testResources = func() *domain.ResourceCatalog {
	c, err := domain.NewResourceCatalog([]domain.Pool{
		{Category: "seat", ResourceIDs: []string{"seat-1", "seat-2"}},
		{Category: "spa", ResourceIDs: []string{"spa-1"}},
		{Category: "head-spa", ResourceIDs: []string{"hs-1", "hs-2"}},
	})
	if err != nil {
		panic(err)
	}
	return c
}()

var (
	cutService = &domain.ServiceDefinition{ID: "cut", DurationMinutes: 60, Category: "seat"}
	spaService = &domain.ServiceDefinition{ID: "aroma", DurationMinutes: 45, Category: "spa"}

	comboService = &domain.ServiceDefinition{
		ID:              "cut-spa",
		DurationMinutes: 90,
		Combo: &domain.ComboSplit{
			LegA:    domain.LegSpec{Category: "seat", DurationMinutes: 60},
			LegB:    domain.LegSpec{Category: "spa", DurationMinutes: 30},
			Primary: domain.LegA,
		},
	}

	headSpaCombo = &domain.ServiceDefinition{
		ID:              "head-body",
		DurationMinutes: 120,
		Combo: &domain.ComboSplit{
			LegA:    domain.LegSpec{Category: "spa", DurationMinutes: 60},
			LegB:    domain.LegSpec{Category: "head-spa", DurationMinutes: 60},
			Primary: domain.LegB,
		},
	}
)

func newTestPlanner(t *testing.T, store *memReader) *Planner {
	t.Helper()
	oracle := availability.NewService(store, store, []string{"anna", "binh"}, time.UTC, logger.NewNop())
	p := NewPlanner(oracle, testResources, nil, logger.NewNop())

	n := 0
	p.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	require.NotNil(t, p.Allocator())
	return p
}

func strPtr(s string) *string { return &s }
