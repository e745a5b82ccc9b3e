package service

import (
	"context"
	"fmt"
	"time"

	"github.com/smokeland/store-backend/internal/domain"
	"github.com/smokeland/store-backend/internal/utils/timeslot"
)

const payoutDateLayout = "2006-01-02"

// CourierService реализует управление курьерами, слоты доставки и
// дневные выплаты
type CourierService struct {
	couriers domain.CourierRepository

	slotStep      time.Duration
	payoutPercent float64
}

// NewCourierService создает новый CourierService
func NewCourierService(couriers domain.CourierRepository, slotStep time.Duration, payoutPercent float64) *CourierService {
	return &CourierService{
		couriers:      couriers,
		slotStep:      slotStep,
		payoutPercent: payoutPercent,
	}
}

// Slots возвращает доступные времена доставки курьера на сетке слотов
func (s *CourierService) Slots(ctx context.Context, courierID int64) ([]string, error) {
	courier, err := s.couriers.GetCourier(ctx, courierID)
	if err != nil {
		return nil, err
	}
	if !courier.Active {
		return nil, domain.ErrCourierInactive
	}

	slots, err := timeslot.Generate(courier.TimeFrom, courier.TimeTo, s.slotStep)
	if err != nil {
		return nil, fmt.Errorf("courier service: failed to generate slots for courier %d: %w", courierID, err)
	}

	return slots, nil
}

// List получает всех курьеров (админ-консоль)
func (s *CourierService) List(ctx context.Context) ([]*domain.Courier, error) {
	return s.couriers.ListCouriers(ctx)
}

// Create создает курьера с проверкой корректности окна доступности
func (s *CourierService) Create(ctx context.Context, courier *domain.Courier) (*domain.Courier, error) {
	if courier.Name == "" || courier.TgID == 0 {
		return nil, domain.ErrInvalidInput
	}

	if _, err := timeslot.Generate(courier.TimeFrom, courier.TimeTo, s.slotStep); err != nil {
		return nil, domain.ErrInvalidInput
	}

	return s.couriers.CreateCourier(ctx, courier)
}

// Update обновляет данные курьера
func (s *CourierService) Update(ctx context.Context, courier *domain.Courier) error {
	if courier.ID == 0 || courier.Name == "" {
		return domain.ErrInvalidInput
	}

	if _, err := timeslot.Generate(courier.TimeFrom, courier.TimeTo, s.slotStep); err != nil {
		return domain.ErrInvalidInput
	}

	return s.couriers.UpdateCourier(ctx, courier)
}

// SettlePayout рассчитывает выплату курьеру за день. Повторный расчет
// уже оплаченной даты возвращает ту же выплату без повторного платежа.
func (s *CourierService) SettlePayout(ctx context.Context, courierID int64, date string) (*domain.CourierPayout, error) {
	if _, err := time.Parse(payoutDateLayout, date); err != nil {
		return nil, domain.ErrInvalidInput
	}

	if _, err := s.couriers.GetCourier(ctx, courierID); err != nil {
		return nil, err
	}

	return s.couriers.SettlePayout(ctx, courierID, date, s.payoutPercent)
}
