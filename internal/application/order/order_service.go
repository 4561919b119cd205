package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shoemarket/backend/internal/domain/cart"
	"github.com/shoemarket/backend/internal/domain/catalog"
	"github.com/shoemarket/backend/internal/domain/identity"
	"github.com/shoemarket/backend/internal/domain/notification"
	"github.com/shoemarket/backend/internal/domain/order"
	"github.com/shoemarket/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Notifier dispatches a user-facing notification. Implementations are best
// effort: the order service logs failures and never propagates them.
type Notifier interface {
	Send(ctx context.Context, userID uuid.UUID, typ notification.Type, title, message string, relatedOrderID *uuid.UUID) error
}

// orderNumberAttempts bounds how often checkout retries after losing a
// race for a generated order number
const orderNumberAttempts = 3

// Pricing holds the order-level charges applied at checkout
type Pricing struct {
	ShippingFee decimal.Decimal
	TaxRate     decimal.Decimal // fraction of the subtotal, e.g. 0.08
	// FreeShippingAbove waives the shipping fee for subtotals at or above
	// the threshold; nil disables free shipping
	FreeShippingAbove *decimal.Decimal
}

// OrderService orchestrates the order lifecycle: creation with snapshotted
// line items and atomic stock deduction, status transitions, and
// cancellation with stock restoration.
type OrderService struct {
	scope     TransactionScope
	orderRepo order.OrderRepository
	cartRepo  cart.CartRepository
	notifier  Notifier
	policy    order.Policy
	pricing   Pricing
	logger    *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	scope TransactionScope,
	orderRepo order.OrderRepository,
	cartRepo cart.CartRepository,
	notifier Notifier,
	pricing Pricing,
	logger *zap.Logger,
) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		scope:     scope,
		orderRepo: orderRepo,
		cartRepo:  cartRepo,
		notifier:  notifier,
		pricing:   pricing,
		logger:    logger,
	}
}

// Create converts the actor's cart (or the explicit request lines) into an
// order. For every line it loads the product, resolves the variant,
// snapshots display fields into the order item, and performs a conditional
// atomic stock decrement. Everything runs in one database transaction: any
// failed line rolls back all prior decrements and the order itself. The
// decrement result is the authoritative source of InsufficientStock; no
// pre-read of the stock value is trusted.
func (s *OrderService) Create(ctx context.Context, actor identity.Actor, req CreateOrderRequest) (*Response, error) {
	if !actor.IsAuthenticated() {
		return nil, shared.ErrUnauthorized
	}

	lines := make([]CreateOrderLine, len(req.Items))
	copy(lines, req.Items)

	fromCart := len(lines) == 0
	if fromCart {
		userCart, err := s.cartRepo.FindByUser(ctx, actor.UserID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("NO_ITEMS", "Cart is empty")
			}
			return nil, err
		}
		if userCart.IsEmpty() {
			return nil, shared.NewDomainError("NO_ITEMS", "Cart is empty")
		}
		for _, item := range userCart.Items {
			lines = append(lines, CreateOrderLine{
				ProductID:  item.ProductID,
				VariantSKU: item.VariantSKU,
				Quantity:   item.Quantity,
			})
		}
	}

	address := order.ShippingAddress{
		FullName:   req.ShippingAddress.FullName,
		Phone:      req.ShippingAddress.Phone,
		Line1:      req.ShippingAddress.Line1,
		Line2:      req.ShippingAddress.Line2,
		City:       req.ShippingAddress.City,
		State:      req.ShippingAddress.State,
		PostalCode: req.ShippingAddress.PostalCode,
		Country:    req.ShippingAddress.Country,
	}

	var created *order.Order
	place := func() error {
		return s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
			orderNumber, err := repos.Orders().GenerateOrderNumber(ctx)
			if err != nil {
				return err
			}

			o, err := order.NewOrder(orderNumber, actor.UserID, address, req.PaymentMethod)
			if err != nil {
				return err
			}

			for _, line := range lines {
				if line.Quantity <= 0 {
					return shared.ErrInvalidQuantity
				}

				product, err := repos.Products().FindByID(ctx, line.ProductID)
				if err != nil {
					return err
				}
				if !product.IsActive {
					return shared.ErrNotFound
				}

				variant, err := resolveVariant(product, line.VariantSKU)
				if err != nil {
					return err
				}

				if _, err := o.AddItem(order.ItemSnapshot{
					ProductID:   product.ID,
					SellerID:    product.SellerID,
					ProductName: product.Name,
					BrandName:   product.Brand,
					SellerName:  product.SellerName,
					ImageURL:    product.ImageURL,
					VariantSKU:  variant.SKU,
					Size:        variant.Size,
					Color:       variant.Color,
					UnitPrice:   variant.Price,
				}, line.Quantity); err != nil {
					return err
				}

				// The conditional update is the oversell guard: it only applies
				// when stock >= quantity, and a zero-row result aborts the whole
				// transaction.
				if err := repos.Products().DecrementStock(ctx, product.ID, variant.SKU, line.Quantity); err != nil {
					return err
				}
				if err := repos.Products().AdjustSoldCount(ctx, product.ID, int64(line.Quantity)); err != nil {
					return err
				}
			}

			subtotal := decimal.Zero
			for _, item := range o.Items {
				subtotal = subtotal.Add(item.LineTotal)
			}
			taxAmount := subtotal.Mul(s.pricing.TaxRate).Round(2)
			shippingFee := s.pricing.ShippingFee
			if s.pricing.FreeShippingAbove != nil && subtotal.GreaterThanOrEqual(*s.pricing.FreeShippingAbove) {
				shippingFee = decimal.Zero
			}
			if err := o.Finalize(shippingFee, taxAmount, decimal.Zero); err != nil {
				return err
			}

			if err := repos.Orders().Save(ctx, o); err != nil {
				return err
			}

			if fromCart {
				if err := repos.Carts().DeleteByUser(ctx, actor.UserID); err != nil {
					return err
				}
			}

			created = o
			return nil
		})
	}

	// Concurrent checkouts can race to the same generated order number; the
	// loser's insert trips the unique index and rolls back, so it retries
	// with a freshly generated number.
	var err error
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		err = place()
		if !errors.Is(err, shared.ErrAlreadyExists) {
			break
		}
		s.logger.Warn("order number collision, retrying",
			zap.Int("attempt", attempt+1))
	}
	if err != nil {
		return nil, err
	}

	s.dispatchEvents(ctx, created)

	response := ToResponse(created)
	return &response, nil
}

// GetByID returns order detail to the buyer, an admin, or a seller with at
// least one item in the order
func (s *OrderService) GetByID(ctx context.Context, actor identity.Actor, orderID uuid.UUID) (*Response, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanView(actor, o) {
		return nil, shared.ErrForbidden
	}
	response := ToResponse(o)
	return &response, nil
}

// List returns the orders visible to the actor: buyers see their own,
// sellers see orders containing their items, admins see everything
func (s *OrderService) List(ctx context.Context, actor identity.Actor, filter ListFilter) ([]ListItemResponse, int64, error) {
	if !actor.IsAuthenticated() {
		return nil, 0, shared.ErrUnauthorized
	}

	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = filter.Status.String()
	}

	var (
		orders []order.Order
		total  int64
		err    error
	)
	switch {
	case actor.IsAdmin():
		orders, err = s.orderRepo.FindAll(ctx, domainFilter)
		if err == nil {
			total, err = s.orderRepo.Count(ctx, domainFilter)
		}
	case actor.IsSeller():
		orders, err = s.orderRepo.FindBySeller(ctx, actor.UserID, domainFilter)
		if err == nil {
			total, err = s.orderRepo.CountBySeller(ctx, actor.UserID, domainFilter)
		}
	default:
		orders, err = s.orderRepo.FindByUser(ctx, actor.UserID, domainFilter)
		if err == nil {
			total, err = s.orderRepo.CountByUser(ctx, actor.UserID, domainFilter)
		}
	}
	if err != nil {
		return nil, 0, err
	}

	return ToListItemResponses(orders), total, nil
}

// UpdateStatus advances an order through the fulfilment chain. Forward
// transitions are allowed for admins and for sellers owning at least one
// item; the return/refund path is admin only. The state machine itself
// rejects illegal jumps.
func (s *OrderService) UpdateStatus(ctx context.Context, actor identity.Actor, orderID uuid.UUID, req UpdateStatusRequest) (*Response, error) {
	target := order.Status(req.Status)
	if !target.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status %q", req.Status))
	}

	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanAdvance(actor, o, target) {
		return nil, shared.ErrForbidden
	}
	if target == order.StatusCancelled {
		return nil, shared.NewDomainError("INVALID_STATE", "Use the cancel operation to cancel an order")
	}

	if err := o.TransitionTo(target, actor.UserID, req.Note); err != nil {
		return nil, err
	}
	if target == order.StatusRefunded {
		o.MarkRefunded()
	}

	if err := s.orderRepo.SaveWithLock(ctx, o); err != nil {
		return nil, err
	}

	s.dispatchEvents(ctx, o)

	response := ToResponse(o)
	return &response, nil
}

// Cancel closes an order inside the cancellation window (pre-ship states
// only) and restores each line's stock in the same transaction. Permitted
// for the buyer who placed the order or an admin; sellers cannot cancel.
func (s *OrderService) Cancel(ctx context.Context, actor identity.Actor, orderID uuid.UUID, req CancelOrderRequest) (*Response, error) {
	var cancelled *order.Order
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.Orders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if !s.policy.CanCancel(actor, o) {
			return shared.ErrForbidden
		}

		if err := o.Cancel(actor.UserID, req.Reason); err != nil {
			return err
		}

		for _, item := range o.Items {
			if err := repos.Products().RestoreStock(ctx, item.ProductID, item.VariantSKU, item.Quantity); err != nil {
				return err
			}
			if err := repos.Products().AdjustSoldCount(ctx, item.ProductID, -int64(item.Quantity)); err != nil {
				return err
			}
		}

		if err := repos.Orders().SaveWithLock(ctx, o); err != nil {
			return err
		}

		cancelled = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dispatchEvents(ctx, cancelled)

	response := ToResponse(cancelled)
	return &response, nil
}

// resolveVariant picks the requested SKU, or the first available in-stock
// variant when no SKU was given
func resolveVariant(product *catalog.Product, sku string) (*catalog.Variant, error) {
	if sku == "" {
		variant := product.FirstAvailableVariant()
		if variant == nil {
			return nil, shared.ErrOutOfStock
		}
		return variant, nil
	}

	variant := product.FindVariant(sku)
	if variant == nil {
		return nil, shared.NewDomainError("VARIANT_NOT_FOUND", "Product variant not found")
	}
	if !variant.IsAvailable {
		return nil, shared.ErrOutOfStock
	}
	return variant, nil
}

// dispatchEvents turns the domain events recorded on the aggregate into
// user notifications and clears them. It runs only after a successful save,
// so a rolled-back transaction never produces notifications. Notification
// failures are logged, never returned: a notification problem must not fail
// the order operation that raised the event.
func (s *OrderService) dispatchEvents(ctx context.Context, o *order.Order) {
	for _, event := range o.GetDomainEvents() {
		switch ev := event.(type) {
		case *order.OrderCreatedEvent:
			s.notifyOrderPlaced(ctx, o, ev)
		case *order.OrderStatusChangedEvent:
			if ev.To == order.StatusCancelled {
				s.notifyCancelled(ctx, o, ev)
			} else {
				s.notifyStatusChange(ctx, o, ev)
			}
		default:
			s.logger.Warn("unhandled order event",
				zap.String("event_type", event.EventType()),
				zap.String("order_id", o.ID.String()))
		}
	}
	o.ClearDomainEvents()
}

// notifyOrderPlaced tells the buyer and every affected seller about a new
// order.
func (s *OrderService) notifyOrderPlaced(ctx context.Context, o *order.Order, ev *order.OrderCreatedEvent) {
	if s.notifier == nil {
		return
	}

	orderID := o.ID
	if err := s.notifier.Send(ctx, ev.UserID, notification.TypeOrderPlaced,
		"Order placed",
		fmt.Sprintf("Your order %s has been placed.", ev.OrderNumber),
		&orderID); err != nil {
		s.logger.Warn("failed to notify buyer of new order",
			zap.String("order_number", ev.OrderNumber), zap.Error(err))
	}

	for _, sellerID := range ev.SellerIDs {
		if err := s.notifier.Send(ctx, sellerID, notification.TypeOrderPlaced,
			"New order received",
			fmt.Sprintf("Order %s contains items from your store.", ev.OrderNumber),
			&orderID); err != nil {
			s.logger.Warn("failed to notify seller of new order",
				zap.String("order_number", ev.OrderNumber),
				zap.String("seller_id", sellerID.String()), zap.Error(err))
		}
	}
}

func (s *OrderService) notifyStatusChange(ctx context.Context, o *order.Order, ev *order.OrderStatusChangedEvent) {
	if s.notifier == nil {
		return
	}

	orderID := o.ID
	typ := notification.TypeOrderStatus
	title := "Order update"
	message := fmt.Sprintf("Your order %s is now %s.", ev.OrderNumber, ev.To)
	if ev.To == order.StatusRefunded {
		typ = notification.TypeRefund
		title = "Refund issued"
		message = fmt.Sprintf("Your order %s has been refunded.", ev.OrderNumber)
	}

	if err := s.notifier.Send(ctx, ev.UserID, typ, title, message, &orderID); err != nil {
		s.logger.Warn("failed to notify buyer of status change",
			zap.String("order_number", ev.OrderNumber),
			zap.String("status", ev.To.String()), zap.Error(err))
	}
}

func (s *OrderService) notifyCancelled(ctx context.Context, o *order.Order, ev *order.OrderStatusChangedEvent) {
	if s.notifier == nil {
		return
	}

	orderID := o.ID
	message := fmt.Sprintf("Your order %s has been cancelled.", ev.OrderNumber)
	if o.PaymentStatus == order.PaymentPaid {
		message += " A refund will be issued to your original payment method."
	}
	if err := s.notifier.Send(ctx, ev.UserID, notification.TypeOrderCancelled,
		"Order cancelled", message, &orderID); err != nil {
		s.logger.Warn("failed to notify buyer of cancellation",
			zap.String("order_number", ev.OrderNumber), zap.Error(err))
	}

	for _, sellerID := range o.SellerIDs() {
		if err := s.notifier.Send(ctx, sellerID, notification.TypeOrderCancelled,
			"Order cancelled",
			fmt.Sprintf("Order %s containing your items was cancelled.", ev.OrderNumber),
			&orderID); err != nil {
			s.logger.Warn("failed to notify seller of cancellation",
				zap.String("order_number", ev.OrderNumber),
				zap.String("seller_id", sellerID.String()), zap.Error(err))
		}
	}
}
