package get_available_slots

import (
	"context"
	"time"

	"github.com/Endo1018/salon-reservation-sub000/internal/domain"
	"github.com/Endo1018/salon-reservation-sub000/pkg/types"
)

// generateStartTimes генерирует времена начала услуги на день.
// Времена идут от открытия с шагом step, услуга длительностью duration должна
// закончиться не позже закрытия. Для сегодняшнего дня отбрасываются времена
// раньше now + minBookingNoticeMinutes.
func generateStartTimes(
	schedule domain.DaySchedule,
	step int,
	duration int,
	requestDate time.Time,
	now time.Time,
	minBookingNoticeMinutes int,
) ([]types.TimeString, error) {
	// Проверяем, что дата не в прошлом
	if isDateInPast(requestDate, now) {
		return []types.TimeString{}, nil
	}

	if !schedule.IsOpen() {
		return []types.TimeString{}, nil
	}

	// Шаг 1: все времена от открытия до закрытия с фиксированным шагом
	all := make([]types.TimeString, 0)
	current := schedule.Open

	for current.IsBefore(schedule.Close) {
		end, err := current.AddMinutes(duration)
		if err != nil || end.IsAfter(schedule.Close) {
			break
		}

		all = append(all, current)
		current, err = current.AddMinutes(step)
		if err != nil {
			break
		}
	}

	// Шаг 2: если дата бронирования не сегодня, возвращаем все времена
	if !isSameDay(requestDate, now) {
		return all, nil
	}

	// Шаг 3: для сегодняшнего дня учитываем минимальное время до начала
	minAllowed, err := types.NewTimeString(now).AddMinutes(minBookingNoticeMinutes)
	if err != nil {
		// уведомление уходит за полночь: сегодня записаться уже нельзя
		return []types.TimeString{}, nil
	}

	available := make([]types.TimeString, 0, len(all))
	for _, start := range all {
		if !start.IsBefore(minAllowed) {
			available = append(available, start)
		}
	}

	return available, nil
}

// countFree подсчитывает свободные ресурсы пула на интервале
func countFree(ctx context.Context, oracle ResourceOracle, pool []string, iv domain.Interval) (int, error) {
	free := 0
	for _, id := range pool {
		ok, err := oracle.IsResourceFree(ctx, id, iv)
		if err != nil {
			return 0, err
		}
		if ok {
			free++
		}
	}
	return free, nil
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// isDateInPast проверяет, что дата в прошлом (раньше сегодняшнего дня)
func isDateInPast(date, now time.Time) bool {
	dateOnly := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return dateOnly.Before(nowOnly)
}
