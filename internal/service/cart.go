package service

import (
	"context"
	"fmt"

	"github.com/smokeland/store-backend/internal/domain"
)

// CartPricing содержит правило оптового ценообразования: при суммарном
// количестве от MinQty каждая единица корзины продается по UnitPrice
type CartPricing struct {
	MinQty    int
	UnitPrice float64
}

// CartService предоставляет операции с корзиной
type CartService struct {
	products domain.ProductRepository
	carts    domain.CartRepository
	pricing  CartPricing
}

// NewCartService создает новый CartService
func NewCartService(products domain.ProductRepository, carts domain.CartRepository, pricing CartPricing) *CartService {
	return &CartService{
		products: products,
		carts:    carts,
		pricing:  pricing,
	}
}

// Add добавляет товар в корзину города с мягкой проверкой остатка
func (s *CartService) Add(ctx context.Context, userID int64, city string, productID int64, variant string, quantity int) (*domain.CartItem, error) {
	if city == "" || quantity < 1 {
		return nil, domain.ErrInvalidInput
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.Active {
		return nil, domain.ErrProductInactive
	}

	item, err := s.carts.AddItem(ctx, userID, city, productID, variant, quantity, product.Price)
	if err != nil {
		return nil, err
	}

	return item, nil
}

// Update изменяет количество позиции
func (s *CartService) Update(ctx context.Context, userID, itemID int64, quantity int) error {
	if quantity < 1 {
		return domain.ErrInvalidInput
	}

	return s.carts.UpdateItem(ctx, userID, itemID, quantity)
}

// Remove удаляет позицию корзины
func (s *CartService) Remove(ctx context.Context, userID, itemID int64) error {
	return s.carts.RemoveItem(ctx, userID, itemID)
}

// Clear очищает корзину города
func (s *CartService) Clear(ctx context.Context, userID int64, city string) error {
	if city == "" {
		return domain.ErrInvalidInput
	}

	return s.carts.Clear(ctx, userID, city)
}

// Get возвращает корзину с пересчитанной стоимостью. Цены пересчитываются
// при каждом чтении: при достижении оптового порога каждая единица
// корзины переоценивается по фиксированной цене.
func (s *CartService) Get(ctx context.Context, userID int64, city string) (*domain.Cart, error) {
	if city == "" {
		return nil, domain.ErrInvalidInput
	}

	items, err := s.carts.GetItems(ctx, userID, city)
	if err != nil {
		return nil, fmt.Errorf("cart service: failed to get cart for user %d: %w", userID, err)
	}

	cart := &domain.Cart{City: city, Items: items}
	for _, item := range items {
		cart.TotalQuantity += item.Quantity
	}

	cart.BulkApplied = cart.TotalQuantity >= s.pricing.MinQty
	for _, item := range items {
		unit := item.Price
		if cart.BulkApplied {
			unit = s.pricing.UnitPrice
		}
		cart.Subtotal += unit * float64(item.Quantity)
	}

	return cart, nil
}

// UnitPrice возвращает действующую цену единицы для заданного суммарного
// количества и базовой цены товара
func (s *CartService) UnitPrice(totalQuantity int, basePrice float64) float64 {
	if totalQuantity >= s.pricing.MinQty {
		return s.pricing.UnitPrice
	}
	return basePrice
}
