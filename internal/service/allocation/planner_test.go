package allocation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Endo1018/salon-reservation-sub000/internal/domain"
)

func TestPlanSingle(t *testing.T) {
	store := &memReader{}
	store.add("b1", "seat-1", at(10, 0), at(11, 0))
	p := newTestPlanner(t, store)

	plan, err := p.PlanSingle(context.Background(), cutService, at(10, 0), SingleOptions{StaffID: strPtr("anna")})
	require.NoError(t, err)

	b := plan.Booking
	assert.Equal(t, "seat-2", b.ResourceID)
	assert.Equal(t, domain.Category("seat"), b.Category)
	assert.Equal(t, at(10, 0), b.StartAt)
	assert.Equal(t, at(11, 0), b.EndAt)
	assert.Equal(t, "anna", *b.StaffID)
	assert.Nil(t, b.ComboLinkID)
	assert.Equal(t, domain.StatusConfirmed, b.Status)
}

func TestPlanSingle_StaffBusy(t *testing.T) {
	store := &memReader{}
	busy := store.add("b1", "spa-1", at(10, 0), at(11, 0))
	busy.StaffID = strPtr("anna")
	p := newTestPlanner(t, store)

	_, err := p.PlanSingle(context.Background(), cutService, at(10, 30), SingleOptions{StaffID: strPtr("anna")})

	var staffErr *domain.StaffUnavailableError
	require.True(t, errors.As(err, &staffErr))
	assert.Equal(t, "anna", staffErr.StaffID)
	assert.Equal(t, domain.ReasonBookingConflict, staffErr.Reason)

	plan, err := p.PlanSingle(context.Background(), cutService, at(10, 30), SingleOptions{
		StaffID:              strPtr("anna"),
		DropUnavailableStaff: true,
	})
	require.NoError(t, err)
	assert.Nil(t, plan.Booking.StaffID)
	require.Len(t, plan.DroppedStaff, 1)
}

func TestPlanSingle_Overflow(t *testing.T) {
	store := &memReader{}
	store.add("b1", "spa-1", at(10, 0), at(11, 0))
	p := newTestPlanner(t, store)

	_, err := p.PlanSingle(context.Background(), spaService, at(10, 0), SingleOptions{})
	assert.True(t, domain.IsAllocationFailure(err))

	plan, err := p.PlanSingle(context.Background(), spaService, at(10, 0), SingleOptions{AllowOverflow: true})
	require.NoError(t, err)
	assert.True(t, plan.Booking.IsOverflow())
}

func TestPlanSingle_RejectsCombo(t *testing.T) {
	_, err := newTestPlanner(t, &memReader{}).PlanSingle(context.Background(), comboService, at(10, 0), SingleOptions{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPlanCombo_Forward(t *testing.T) {
	p := newTestPlanner(t, &memReader{})

	plan, err := p.PlanCombo(context.Background(), comboService, at(10, 0), ComboOptions{
		StaffA: strPtr("anna"),
		StaffB: strPtr("binh"),
	})
	require.NoError(t, err)

	first, second := plan.Legs[0], plan.Legs[1]
	assert.Equal(t, domain.OrderForward, plan.Order)
	assert.Equal(t, "seat-1", first.ResourceID)
	assert.Equal(t, at(10, 0), first.StartAt)
	assert.Equal(t, "spa-1", second.ResourceID)
	assert.Equal(t, first.EndAt, second.StartAt, "legs are contiguous")
	assert.Equal(t, at(11, 30), second.EndAt)
	assert.Equal(t, "anna", *first.StaffID)
	assert.Equal(t, "binh", *second.StaffID)

	require.NotNil(t, first.ComboLinkID)
	assert.Equal(t, *first.ComboLinkID, *second.ComboLinkID)
	assert.Equal(t, plan.LinkID, *first.ComboLinkID)
	assert.True(t, first.IsPrimaryLeg)
	assert.False(t, second.IsPrimaryLeg)
	assert.Same(t, first, plan.Primary())
}

func TestPlanCombo_FallsBackToSwapped(t *testing.T) {
	store := &memReader{}
	store.add("b1", "seat-1", at(10, 0), at(10, 30))
	store.add("b2", "seat-2", at(10, 0), at(10, 30))
	p := newTestPlanner(t, store)

	plan, err := p.PlanCombo(context.Background(), comboService, at(10, 0), ComboOptions{
		StaffA: strPtr("anna"),
		StaffB: strPtr("binh"),
	})
	require.NoError(t, err)

	first, second := plan.Legs[0], plan.Legs[1]
	assert.Equal(t, domain.OrderSwapped, plan.Order)
	assert.Equal(t, "spa-1", first.ResourceID)
	assert.Equal(t, at(10, 0), first.StartAt)
	assert.Equal(t, at(10, 30), first.EndAt)
	assert.Equal(t, "seat-1", second.ResourceID)
	assert.Equal(t, at(10, 30), second.StartAt)
	assert.Equal(t, at(11, 30), second.EndAt)

	// основной этап - часть A, даже если она стоит второй
	assert.False(t, first.IsPrimaryLeg)
	assert.True(t, second.IsPrimaryLeg)

	// сотрудники следуют за частями, а не за позициями
	assert.Equal(t, "binh", *first.StaffID)
	assert.Equal(t, "anna", *second.StaffID)
}

func TestPlanCombo_BothOrdersFailReportsForward(t *testing.T) {
	store := &memReader{}
	store.add("b1", "seat-1", at(10, 0), at(11, 0))
	store.add("b2", "seat-2", at(10, 0), at(11, 0))
	p := newTestPlanner(t, store)

	_, err := p.PlanCombo(context.Background(), comboService, at(10, 0), ComboOptions{})

	var noResource *domain.NoResourceAvailableError
	require.True(t, errors.As(err, &noResource))
	assert.Equal(t, domain.Category("seat"), noResource.Category)
	assert.Equal(t, domain.NewInterval(at(10, 0), 60), noResource.Interval)
}

func TestPlanCombo_ForcedOrderDoesNotSwap(t *testing.T) {
	store := &memReader{}
	store.add("b1", "seat-1", at(10, 0), at(10, 30))
	store.add("b2", "seat-2", at(10, 0), at(10, 30))
	p := newTestPlanner(t, store)

	_, err := p.PlanCombo(context.Background(), comboService, at(10, 0), ComboOptions{Order: domain.OrderForward})
	assert.True(t, domain.IsAllocationFailure(err))

	plan, err := p.PlanCombo(context.Background(), comboService, at(8, 0), ComboOptions{Order: domain.OrderSwapped})
	require.NoError(t, err)
	assert.Equal(t, domain.Category("spa"), plan.Legs[0].Category)
	assert.Equal(t, at(8, 0), plan.Legs[0].StartAt)
}

func TestPlanCombo_StaffConflictTriggersSwap(t *testing.T) {
	store := &memReader{}
	busy := store.add("b1", "hs-2", at(10, 0), at(10, 30))
	busy.StaffID = strPtr("anna")
	p := newTestPlanner(t, store)

	// anna (этап A, seat) занята 10:00-10:30, прямой порядок не подходит
	plan, err := p.PlanCombo(context.Background(), comboService, at(10, 0), ComboOptions{StaffA: strPtr("anna")})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderSwapped, plan.Order)
	assert.Equal(t, at(10, 30), plan.Legs[1].StartAt)
	assert.Equal(t, "anna", *plan.Legs[1].StaffID)
}

func TestPlanCombo_HintAppliesToMatchingLeg(t *testing.T) {
	p := newTestPlanner(t, &memReader{})

	plan, err := p.PlanCombo(context.Background(), headSpaCombo, at(10, 0), ComboOptions{ResourceHint: "hs-2"})
	require.NoError(t, err)
	assert.Equal(t, "spa-1", plan.Legs[0].ResourceID)
	assert.Equal(t, "hs-2", plan.Legs[1].ResourceID)
	assert.True(t, plan.Legs[1].IsPrimaryLeg)
}

func TestPlanCombo_InvalidInput(t *testing.T) {
	p := newTestPlanner(t, &memReader{})

	_, err := p.PlanCombo(context.Background(), cutService, at(10, 0), ComboOptions{})
	assert.ErrorIs(t, err, ErrNotCombo)

	_, err = p.PlanCombo(context.Background(), comboService, at(10, 0), ComboOptions{Order: "sideways"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
