package create_booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Endo1018/salon-reservation-sub000/internal/domain"
	"github.com/Endo1018/salon-reservation-sub000/internal/infra/storage/memory"
	"github.com/Endo1018/salon-reservation-sub000/internal/service/allocation"
	"github.com/Endo1018/salon-reservation-sub000/internal/service/availability"
	"github.com/Endo1018/salon-reservation-sub000/pkg/logger"
	"github.com/Endo1018/salon-reservation-sub000/pkg/ptr"
	"github.com/Endo1018/salon-reservation-sub000/pkg/txmanager"
	"github.com/Endo1018/salon-reservation-sub000/pkg/types"
)

var day = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

type fixture struct {
	repo *memory.Bookings
	uc   *UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	resources, err := domain.NewResourceCatalog([]domain.Pool{
		{Category: "seat", ResourceIDs: []string{"seat-1", "seat-2"}},
		{Category: "spa", ResourceIDs: []string{"spa-1"}},
	})
	require.NoError(t, err)

	services, err := domain.NewServiceCatalog([]*domain.ServiceDefinition{
		{ID: "cut", Name: "Haircut", DurationMinutes: 60, Category: "seat"},
		{
			ID:              "cut-spa",
			Name:            "Cut and spa",
			DurationMinutes: 90,
			Combo: &domain.ComboSplit{
				LegA:    domain.LegSpec{Category: "seat", DurationMinutes: 60},
				LegB:    domain.LegSpec{Category: "spa", DurationMinutes: 30},
				Primary: domain.LegA,
			},
		},
	}, resources)
	require.NoError(t, err)

	log := logger.NewNop()
	store := memory.NewStore()
	repo := store.Bookings()
	avail := availability.NewService(repo, store.Shifts(time.UTC), []string{"anna", "binh"}, time.UTC, log)
	planner := allocation.NewPlanner(avail, resources, nil, log)

	return &fixture{
		repo: repo,
		uc:   NewUseCase(repo, planner, services, avail, memory.NewTxManager(store), time.UTC, log),
	}
}

func (f *fixture) single(t *testing.T, startTime string, staff *string) (*Response, error) {
	t.Helper()
	return f.uc.ExecuteSingle(context.Background(), &SingleRequest{
		ServiceID:  "cut",
		Date:       day,
		StartTime:  types.TimeString(startTime),
		StaffID:    staff,
		ClientName: "Mai",
	})
}

func (f *fixture) assertNoDoubleBooking(t *testing.T) {
	t.Helper()
	all, err := f.repo.List(context.Background(), domain.BookingsFilter{})
	require.NoError(t, err)

	for i, a := range all {
		for _, b := range all[i+1:] {
			if !domain.Overlaps(a.StartAt, a.EndAt, b.StartAt, b.EndAt) {
				continue
			}
			assert.NotEqual(t, a.ResourceID, b.ResourceID, "%s and %s share a resource", a.ID, b.ID)
			if a.StaffID != nil && b.StaffID != nil {
				assert.NotEqual(t, *a.StaffID, *b.StaffID, "%s and %s share staff", a.ID, b.ID)
			}
		}
	}
}

func TestExecuteSingle_FirstFitScenario(t *testing.T) {
	f := newFixture(t)

	first, err := f.single(t, "10:00", nil)
	require.NoError(t, err)
	assert.Equal(t, "seat-1", first.Bookings[0].ResourceID)

	second, err := f.single(t, "10:00", nil)
	require.NoError(t, err)
	assert.Equal(t, "seat-2", second.Bookings[0].ResourceID)

	boundary, err := f.single(t, "11:00", nil)
	require.NoError(t, err)
	assert.Equal(t, "seat-1", boundary.Bookings[0].ResourceID)
	assert.Equal(t, "Mai", boundary.Bookings[0].ClientName)

	f.assertNoDoubleBooking(t)
}

func TestExecuteSingle_PoolExhausted(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < 2; i++ {
		_, err := f.single(t, "10:00", nil)
		require.NoError(t, err)
	}

	_, err := f.single(t, "10:30", nil)
	var noResource *domain.NoResourceAvailableError
	require.True(t, errors.As(err, &noResource))
	assert.Equal(t, domain.Category("seat"), noResource.Category)
	assert.Equal(t, "2025-06-02 10:30-11:30", noResource.Interval.String())

	f.assertNoDoubleBooking(t)
}

func TestExecuteSingle_StaffBusy(t *testing.T) {
	f := newFixture(t)

	_, err := f.single(t, "10:00", ptr.Ptr("anna"))
	require.NoError(t, err)

	_, err = f.single(t, "10:30", ptr.Ptr("anna"))
	var staffErr *domain.StaffUnavailableError
	require.True(t, errors.As(err, &staffErr))
	assert.Equal(t, domain.ReasonBookingConflict, staffErr.Reason)

	resp, err := f.single(t, "11:00", ptr.Ptr("anna"))
	require.NoError(t, err)
	assert.Equal(t, "anna", *resp.Bookings[0].StaffID)
}

func TestExecuteSingle_HintAndHold(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.ExecuteSingle(context.Background(), &SingleRequest{
		ServiceID:    "cut",
		Date:         day,
		StartTime:    "09:00",
		ResourceHint: "seat-2",
		Hold:         true,
	})
	require.NoError(t, err)
	assert.Equal(t, "seat-2", resp.Bookings[0].ResourceID)
	assert.Equal(t, domain.StatusHold, resp.Bookings[0].Status)
}

func TestExecuteSingle_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.ExecuteSingle(ctx, &SingleRequest{ServiceID: "perm", Date: day, StartTime: "10:00"})
	assert.ErrorIs(t, err, ErrServiceNotFound)

	_, err = f.uc.ExecuteSingle(ctx, &SingleRequest{ServiceID: "cut-spa", Date: day, StartTime: "10:00"})
	assert.ErrorIs(t, err, ErrWrongServiceKind)

	_, err = f.uc.ExecuteSingle(ctx, &SingleRequest{ServiceID: "cut", Date: day, StartTime: "25:00"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.uc.ExecuteSingle(ctx, &SingleRequest{ServiceID: "cut", StartTime: "10:00"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.uc.ExecuteSingle(ctx, &SingleRequest{ServiceID: "cut", Date: day, StartTime: "10:00", StaffID: ptr.Ptr("zed")})
	assert.ErrorIs(t, err, ErrStaffNotFound)
}

func TestExecuteCombo_SwappedWhenSeatsBusy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// оба кресла заняты 09:30-10:30
	for i := 0; i < 2; i++ {
		_, err := f.uc.ExecuteSingle(ctx, &SingleRequest{ServiceID: "cut", Date: day, StartTime: "09:30"})
		require.NoError(t, err)
	}

	resp, err := f.uc.ExecuteCombo(ctx, &ComboRequest{
		ServiceID:  "cut-spa",
		Date:       day,
		StartTime:  "10:00",
		StaffA:     ptr.Ptr("anna"),
		StaffB:     ptr.Ptr("binh"),
		ClientName: "Lan",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.OrderSwapped, resp.Order)
	require.Len(t, resp.Bookings, 2)
	spa, seat := resp.Bookings[0], resp.Bookings[1]
	assert.Equal(t, "spa-1", spa.ResourceID)
	assert.Equal(t, "seat-1", seat.ResourceID)
	assert.Equal(t, spa.EndAt, seat.StartAt)
	assert.Equal(t, 90*time.Minute, seat.EndAt.Sub(spa.StartAt))
	assert.True(t, seat.IsPrimaryLeg)
	assert.Equal(t, *resp.ComboLinkID, *spa.ComboLinkID)

	stored, err := f.repo.GetByComboLink(ctx, *resp.ComboLinkID)
	require.NoError(t, err)
	assert.Len(t, stored, 2)

	f.assertNoDoubleBooking(t)
}

func TestExecuteCombo_NothingWrittenOnFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := f.single(t, "10:00", nil)
		require.NoError(t, err)
	}

	_, err := f.uc.ExecuteCombo(ctx, &ComboRequest{ServiceID: "cut-spa", Date: day, StartTime: "10:00"})
	var noResource *domain.NoResourceAvailableError
	require.True(t, errors.As(err, &noResource))
	assert.Equal(t, domain.Category("seat"), noResource.Category)

	all, err := f.repo.List(ctx, domain.BookingsFilter{IncludeInactive: true})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestExecuteCombo_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.ExecuteCombo(ctx, &ComboRequest{ServiceID: "cut", Date: day, StartTime: "10:00"})
	assert.ErrorIs(t, err, ErrWrongServiceKind)

	_, err = f.uc.ExecuteCombo(ctx, &ComboRequest{ServiceID: "cut-spa", Date: day, StartTime: "10:00", Order: "backwards"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecuteSingle_ConcurrentRequestsSameSlot(t *testing.T) {
	f := newFixture(t)

	const n = 40
	var (
		wg   sync.WaitGroup
		errs = make([]error, n)
	)
	for i := 0; i < n; i++ {
		var staff *string
		if i%4 == 0 {
			staff = ptr.Ptr("anna")
		}
		wg.Add(1)
		go func(i int, staff *string) {
			defer wg.Done()
			_, errs[i] = f.uc.ExecuteSingle(context.Background(), &SingleRequest{
				ServiceID: "cut",
				Date:      day,
				StartTime: "10:00",
				StaffID:   staff,
			})
		}(i, staff)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, domain.IsAllocationFailure(err), "unexpected error: %v", err)
	}
	assert.Equal(t, 2, succeeded)

	all, err := f.repo.List(context.Background(), domain.BookingsFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	f.assertNoDoubleBooking(t)
}

// commitConflictTx выполняет fn, но фиксация нарушает отложенное EXCLUDE ограничение
type commitConflictTx struct{}

func (commitConflictTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		return err
	}
	return fmt.Errorf("%w: commit: %w", txmanager.ErrConstraint, &pq.Error{Code: "23P01"})
}

func TestExecuteSingle_ConstraintAtCommitIsSlotConflict(t *testing.T) {
	f := newFixture(t)
	f.uc.txManager = commitConflictTx{}

	_, err := f.single(t, "10:00", nil)

	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.NotErrorIs(t, err, ErrInternal)
}
