package allocation

import (
	"context"
	"errors"

	"github.com/Endo1018/salon-reservation-sub000/internal/domain"
)

// Результаты размещения для метрик
const (
	resultHint      = "hint"
	resultFirstFit  = "first_fit"
	resultExhausted = "exhausted"
	resultOverflow  = "overflow"
)

// Allocator выбирает ресурс из пула категории по принципу first-fit:
// первый свободный в порядке объявления, без случайности и балансировки.
type Allocator struct {
	oracle    Oracle
	resources *domain.ResourceCatalog
	metrics   Metrics
	logger    Logger
}

// NewAllocator создает аллокатор; metrics может быть nil
func NewAllocator(oracle Oracle, resources *domain.ResourceCatalog, metrics Metrics, logger Logger) *Allocator {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Allocator{
		oracle:    oracle,
		resources: resources,
		metrics:   metrics,
		logger:    logger,
	}
}

// FindFreeResource возвращает первый свободный ресурс пула для iv.
// ok=false, если весь пул занят; решение о том, ошибка это или overflow,
// принимает вызывающий код.
func (a *Allocator) FindFreeResource(ctx context.Context, pool []string, iv domain.Interval, exclude ...string) (string, bool, error) {
	for _, id := range pool {
		free, err := a.oracle.IsResourceFree(ctx, id, iv, exclude...)
		if err != nil {
			return "", false, err
		}
		if free {
			return id, true, nil
		}
	}
	return "", false, nil
}

// Resolve выбирает ресурс категории для iv. Подсказка используется, только если
// она из пула этой категории и свободна; иначе молча применяется first-fit.
// Исчерпанный пул даёт *domain.NoResourceAvailableError.
func (a *Allocator) Resolve(ctx context.Context, category domain.Category, iv domain.Interval, hint string, exclude ...string) (string, error) {
	if !a.resources.HasCategory(category) {
		return "", ErrUnknownCategory
	}

	if hint != "" {
		if cat, ok := a.resources.CategoryOf(hint); ok && cat == category {
			free, err := a.oracle.IsResourceFree(ctx, hint, iv, exclude...)
			if err != nil {
				return "", err
			}
			if free {
				a.metrics.RecordAllocation(string(category), resultHint)
				return hint, nil
			}
			a.logger.Info("Resolve: hint %s busy for %s, falling back to first-fit", hint, iv)
		}
	}

	id, ok, err := a.FindFreeResource(ctx, a.resources.Pool(category), iv, exclude...)
	if err != nil {
		return "", err
	}
	if !ok {
		a.metrics.RecordAllocation(string(category), resultExhausted)
		return "", &domain.NoResourceAvailableError{Category: category, Interval: iv}
	}

	a.metrics.RecordAllocation(string(category), resultFirstFit)
	return id, nil
}

// ResolveOrOverflow как Resolve, но при исчерпанном пуле возвращает overflow-ресурс.
// Применяется только при пакетном импорте истории.
func (a *Allocator) ResolveOrOverflow(ctx context.Context, category domain.Category, iv domain.Interval, hint string, exclude ...string) (string, error) {
	id, err := a.Resolve(ctx, category, iv, hint, exclude...)
	if err == nil {
		return id, nil
	}

	var exhausted *domain.NoResourceAvailableError
	if !errors.As(err, &exhausted) {
		return "", err
	}

	a.metrics.RecordAllocation(string(category), resultOverflow)
	a.logger.Warn("ResolveOrOverflow: %s exhausted for %s, assigning overflow", category, iv)
	return domain.OverflowResourceID, nil
}
