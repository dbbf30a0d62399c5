package allocation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Endo1018/salon-reservation-sub000/internal/domain"
)

func TestResolve_FirstFitAndBoundary(t *testing.T) {
	store := &memReader{}
	store.add("b1", "seat-1", at(10, 0), at(11, 0))
	alloc := newTestPlanner(t, store).Allocator()
	ctx := context.Background()

	id, err := alloc.Resolve(ctx, "seat", domain.NewInterval(at(10, 0), 60), "")
	require.NoError(t, err)
	assert.Equal(t, "seat-2", id)

	id, err = alloc.Resolve(ctx, "seat", domain.NewInterval(at(11, 0), 60), "")
	require.NoError(t, err)
	assert.Equal(t, "seat-1", id, "booking ending at 11:00 leaves seat-1 free")
}

func TestResolve_Hint(t *testing.T) {
	store := &memReader{}
	store.add("b1", "seat-2", at(10, 0), at(11, 0))
	alloc := newTestPlanner(t, store).Allocator()
	ctx := context.Background()

	id, err := alloc.Resolve(ctx, "seat", domain.NewInterval(at(12, 0), 60), "seat-2")
	require.NoError(t, err)
	assert.Equal(t, "seat-2", id, "free hint wins over pool order")

	id, err = alloc.Resolve(ctx, "seat", domain.NewInterval(at(10, 0), 60), "seat-2")
	require.NoError(t, err)
	assert.Equal(t, "seat-1", id, "stale hint falls back to first-fit")

	id, err = alloc.Resolve(ctx, "seat", domain.NewInterval(at(10, 0), 60), "spa-1")
	require.NoError(t, err)
	assert.Equal(t, "seat-1", id, "hint from another category is ignored")
}

func TestResolve_Exhausted(t *testing.T) {
	store := &memReader{}
	store.add("b1", "seat-1", at(10, 0), at(11, 0))
	store.add("b2", "seat-2", at(10, 30), at(11, 30))
	alloc := newTestPlanner(t, store).Allocator()

	iv := domain.NewInterval(at(10, 15), 30)
	_, err := alloc.Resolve(context.Background(), "seat", iv, "")

	var noResource *domain.NoResourceAvailableError
	require.True(t, errors.As(err, &noResource))
	assert.Equal(t, domain.Category("seat"), noResource.Category)
	assert.Equal(t, iv, noResource.Interval)
	assert.Contains(t, err.Error(), "10:15-10:45")

	id, err := alloc.ResolveOrOverflow(context.Background(), "seat", iv, "")
	require.NoError(t, err)
	assert.Equal(t, domain.OverflowResourceID, id)
}

func TestResolve_ExcludeOwnBooking(t *testing.T) {
	store := &memReader{}
	store.add("b1", "seat-1", at(10, 0), at(11, 0))
	alloc := newTestPlanner(t, store).Allocator()

	id, err := alloc.Resolve(context.Background(), "seat", domain.NewInterval(at(10, 30), 60), "seat-1", "b1")
	require.NoError(t, err)
	assert.Equal(t, "seat-1", id)
}

func TestResolve_UnknownCategory(t *testing.T) {
	alloc := newTestPlanner(t, &memReader{}).Allocator()

	_, err := alloc.Resolve(context.Background(), "sauna", domain.NewInterval(at(10, 0), 60), "")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestFindFreeResource_PoolOrder(t *testing.T) {
	store := &memReader{}
	alloc := newTestPlanner(t, store).Allocator()

	id, ok, err := alloc.FindFreeResource(context.Background(), []string{"hs-2", "hs-1"}, domain.NewInterval(at(9, 0), 30))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "hs-2", id)
}
