package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// LegKey identifies the declared part of a combo service
type LegKey string

const (
	LegA LegKey = "a"
	LegB LegKey = "b"
)

// LegOrder selects the chronological order of combo legs
type LegOrder string

const (
	// OrderAuto tries the declared order first and the swapped order second
	OrderAuto LegOrder = "auto"
	// OrderForward places leg A first, leg B second
	OrderForward LegOrder = "forward"
	// OrderSwapped places leg B first, leg A second
	OrderSwapped LegOrder = "swapped"
)

// Valid returns true for known orders; empty means auto
func (o LegOrder) Valid() bool {
	switch o {
	case "", OrderAuto, OrderForward, OrderSwapped:
		return true
	}
	return false
}

// LegSpec is one part of a combo service
type LegSpec struct {
	Category        Category
	DurationMinutes int
}

// ComboSplit describes how a combo service is split between two categories
type ComboSplit struct {
	LegA    LegSpec
	LegB    LegSpec
	Primary LegKey // leg credited as "main" (commission attribution)
}

// Leg returns the spec of the given part
func (c *ComboSplit) Leg(key LegKey) LegSpec {
	if key == LegB {
		return c.LegB
	}
	return c.LegA
}

// PlannedLeg is a combo leg in chronological position
type PlannedLeg struct {
	Key  LegKey
	Spec LegSpec
}

// Sequence returns both legs in chronological order for forward or swapped placement
func (c *ComboSplit) Sequence(order LegOrder) [2]PlannedLeg {
	a := PlannedLeg{Key: LegA, Spec: c.LegA}
	b := PlannedLeg{Key: LegB, Spec: c.LegB}
	if order == OrderSwapped {
		return [2]PlannedLeg{b, a}
	}
	return [2]PlannedLeg{a, b}
}

// ServiceDefinition is a bookable offering.
// Single services target one category; combo services split between two.
type ServiceDefinition struct {
	ID              string
	Name            string
	DurationMinutes int
	UnitPrice       decimal.Decimal
	Category        Category // single services only
	Combo           *ComboSplit
}

// IsCombo returns true for two-leg services
func (s *ServiceDefinition) IsCombo() bool {
	return s.Combo != nil
}

// Validate checks the duration split of a combo and the single-service target
func (s *ServiceDefinition) Validate() error {
	if s.DurationMinutes < MinServiceDurationMinutes || s.DurationMinutes > MaxServiceDurationMinutes {
		return fmt.Errorf("service %q: duration %d out of range", s.ID, s.DurationMinutes)
	}

	if s.Combo == nil {
		if s.Category == "" {
			return fmt.Errorf("service %q: category is required", s.ID)
		}
		return nil
	}

	sum := s.Combo.LegA.DurationMinutes + s.Combo.LegB.DurationMinutes
	if s.Combo.LegA.DurationMinutes <= 0 || s.Combo.LegB.DurationMinutes <= 0 || sum != s.DurationMinutes {
		return &InvalidServiceSplitError{ServiceID: s.ID, DeclaredTotal: s.DurationMinutes, SumOfLegs: sum}
	}
	if s.Combo.LegA.Category == "" || s.Combo.LegB.Category == "" {
		return fmt.Errorf("service %q: combo leg category is required", s.ID)
	}
	if s.Combo.Primary != LegA && s.Combo.Primary != LegB {
		return fmt.Errorf("service %q: primary leg must be %q or %q", s.ID, LegA, LegB)
	}
	return nil
}

// ServiceCatalog maps service ids to definitions
type ServiceCatalog struct {
	services map[string]*ServiceDefinition
}

// NewServiceCatalog validates every service against the resource catalog
func NewServiceCatalog(services []*ServiceDefinition, resources *ResourceCatalog) (*ServiceCatalog, error) {
	c := &ServiceCatalog{services: make(map[string]*ServiceDefinition, len(services))}

	for _, s := range services {
		if s.ID == "" {
			return nil, fmt.Errorf("service catalog: empty service id")
		}
		if _, dup := c.services[s.ID]; dup {
			return nil, fmt.Errorf("service catalog: duplicate service %q", s.ID)
		}
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("service catalog: %w", err)
		}

		categories := []Category{s.Category}
		if s.IsCombo() {
			categories = []Category{s.Combo.LegA.Category, s.Combo.LegB.Category}
		}
		for _, cat := range categories {
			if !resources.HasCategory(cat) {
				return nil, fmt.Errorf("service catalog: service %q uses unknown category %q", s.ID, cat)
			}
		}

		c.services[s.ID] = s
	}

	return c, nil
}

// Get returns the definition for id
func (c *ServiceCatalog) Get(id string) (*ServiceDefinition, bool) {
	s, ok := c.services[id]
	return s, ok
}
