package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResources(t *testing.T) *ResourceCatalog {
	t.Helper()
	c, err := NewResourceCatalog([]Pool{
		{Category: "seat", ResourceIDs: []string{"seat-1"}},
		{Category: "spa", ResourceIDs: []string{"spa-1"}},
	})
	require.NoError(t, err)
	return c
}

func TestServiceDefinition_Validate(t *testing.T) {
	combo := &ServiceDefinition{
		ID:              "combo",
		DurationMinutes: 90,
		Combo: &ComboSplit{
			LegA:    LegSpec{Category: "seat", DurationMinutes: 60},
			LegB:    LegSpec{Category: "spa", DurationMinutes: 30},
			Primary: LegA,
		},
	}
	assert.NoError(t, combo.Validate())

	combo.DurationMinutes = 100
	err := combo.Validate()
	var splitErr *InvalidServiceSplitError
	require.True(t, errors.As(err, &splitErr))
	assert.Equal(t, 100, splitErr.DeclaredTotal)
	assert.Equal(t, 90, splitErr.SumOfLegs)

	single := &ServiceDefinition{ID: "cut", DurationMinutes: 60}
	assert.Error(t, single.Validate(), "category required")
	single.Category = "seat"
	assert.NoError(t, single.Validate())
}

func TestComboSplit_Sequence(t *testing.T) {
	split := &ComboSplit{
		LegA: LegSpec{Category: "seat", DurationMinutes: 60},
		LegB: LegSpec{Category: "spa", DurationMinutes: 30},
	}

	fwd := split.Sequence(OrderForward)
	assert.Equal(t, LegA, fwd[0].Key)
	assert.Equal(t, LegB, fwd[1].Key)

	swp := split.Sequence(OrderSwapped)
	assert.Equal(t, LegB, swp[0].Key)
	assert.Equal(t, Category("spa"), swp[0].Spec.Category)
	assert.Equal(t, LegA, swp[1].Key)
}

func TestNewServiceCatalog(t *testing.T) {
	resources := testResources(t)

	catalog, err := NewServiceCatalog([]*ServiceDefinition{
		{ID: "cut", DurationMinutes: 60, Category: "seat"},
	}, resources)
	require.NoError(t, err)

	svc, ok := catalog.Get("cut")
	require.True(t, ok)
	assert.Equal(t, Category("seat"), svc.Category)

	_, err = NewServiceCatalog([]*ServiceDefinition{
		{ID: "x", DurationMinutes: 60, Category: "sauna"},
	}, resources)
	assert.Error(t, err, "unknown category")

	_, err = NewServiceCatalog([]*ServiceDefinition{
		{ID: "x", DurationMinutes: 60, Category: "seat"},
		{ID: "x", DurationMinutes: 30, Category: "seat"},
	}, resources)
	assert.Error(t, err, "duplicate id")
}
