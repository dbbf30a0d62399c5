package create_booking

import (
	"context"
	"fmt"

	"github.com/Endo1018/salon-reservation-sub000/internal/domain"
	"github.com/Endo1018/salon-reservation-sub000/internal/service/allocation"
)

// ExecuteCombo создает комбо-бронирование из двух этапов с общим comboLinkId.
// Сначала пробуется объявленный порядок этапов, затем обратный.
func (uc *UseCase) ExecuteCombo(ctx context.Context, req *ComboRequest) (*Response, error) {
	uc.logger.Info("CreateCombo: service=%s, date=%s, time=%s, order=%q, hint=%q",
		req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime, req.Order, req.ResourceHint)

	// 1. Валидация входных данных
	start, err := validateStart(req.Date, req.StartTime, uc.location)
	if err != nil {
		uc.logger.Warn("CreateCombo: validation failed: %v", err)
		return nil, err
	}
	if !req.Order.Valid() {
		uc.logger.Warn("CreateCombo: unknown order %q", req.Order)
		return nil, fmt.Errorf("%w: unknown leg order %q", ErrInvalidInput, req.Order)
	}
	if err := validateClientName(req.ClientName); err != nil {
		uc.logger.Warn("CreateCombo: validation failed: %v", err)
		return nil, err
	}
	if err := validateStaff(uc.roster, req.StaffA, req.StaffB); err != nil {
		uc.logger.Warn("CreateCombo: %v", err)
		return nil, err
	}

	// 2. Получаем услугу
	svc, ok := uc.services.Get(req.ServiceID)
	if !ok {
		uc.logger.Warn("CreateCombo: service id=%s not found", req.ServiceID)
		return nil, ErrServiceNotFound
	}
	if !svc.IsCombo() {
		uc.logger.Warn("CreateCombo: service id=%s is not a combo", req.ServiceID)
		return nil, fmt.Errorf("%w: service %s is not a combo", ErrWrongServiceKind, svc.ID)
	}

	var plan *allocation.ComboPlan

	// 3. Размещение обоих этапов и запись в одной транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		p, err := uc.planner.PlanCombo(txCtx, svc, start, allocation.ComboOptions{
			Order:        req.Order,
			ResourceHint: req.ResourceHint,
			StaffA:       req.StaffA,
			StaffB:       req.StaffB,
		})
		if err != nil {
			return err
		}

		for _, leg := range p.Legs {
			leg.ClientName = req.ClientName
			if req.Hold {
				leg.Status = domain.StatusHold
			}
			if _, err := uc.bookingRepo.Create(txCtx, leg); err != nil {
				return err
			}
		}
		plan = p
		return nil
	})
	if err != nil {
		return nil, uc.mapError("CreateCombo", err)
	}

	uc.logger.Info("CreateCombo: link=%s order=%s legs=%s@%s, %s@%s",
		plan.LinkID, plan.Order,
		plan.Legs[0].ResourceID, plan.Legs[0].Interval(),
		plan.Legs[1].ResourceID, plan.Legs[1].Interval())

	link := plan.LinkID
	return &Response{
		Bookings:    []*domain.Booking{plan.Legs[0], plan.Legs[1]},
		ComboLinkID: &link,
		Order:       plan.Order,
	}, nil
}
