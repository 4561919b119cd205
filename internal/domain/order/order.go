package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shoemarket/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle state of an order
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
	StatusReturned   Status = "returned"
	StatusRefunded   Status = "refunded"
)

// IsValid checks if the status is a known Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusProcessing, StatusShipped,
		StatusDelivered, StatusCancelled, StatusReturned, StatusRefunded:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// Cancellation is only reachable from pre-ship states; once an order ships
// the cancellation window is closed and only the return path remains.
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusConfirmed || target == StatusCancelled
	case StatusConfirmed:
		return target == StatusProcessing || target == StatusCancelled
	case StatusProcessing:
		return target == StatusShipped || target == StatusCancelled
	case StatusShipped:
		return target == StatusDelivered
	case StatusDelivered:
		return target == StatusReturned
	case StatusReturned:
		return target == StatusRefunded
	case StatusCancelled:
		return target == StatusRefunded
	case StatusRefunded:
		return false
	}
	return false
}

// Next returns the forward state in the fulfilment chain, or empty
func (s Status) Next() Status {
	switch s {
	case StatusPending:
		return StatusConfirmed
	case StatusConfirmed:
		return StatusProcessing
	case StatusProcessing:
		return StatusShipped
	case StatusShipped:
		return StatusDelivered
	}
	return ""
}

// AllowsCancellation returns true while the order has not shipped
func (s Status) AllowsCancellation() bool {
	return s.CanTransitionTo(StatusCancelled)
}

// PaymentStatus represents the payment state of an order
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// ShippingAddress is the delivery destination captured at checkout
type ShippingAddress struct {
	FullName   string `gorm:"column:ship_full_name" json:"full_name"`
	Phone      string `gorm:"column:ship_phone" json:"phone"`
	Line1      string `gorm:"column:ship_line1" json:"line1"`
	Line2      string `gorm:"column:ship_line2" json:"line2"`
	City       string `gorm:"column:ship_city" json:"city"`
	State      string `gorm:"column:ship_state" json:"state"`
	PostalCode string `gorm:"column:ship_postal_code" json:"postal_code"`
	Country    string `gorm:"column:ship_country" json:"country"`
}

// Validate checks the required address fields
func (a ShippingAddress) Validate() error {
	if a.FullName == "" || a.Line1 == "" || a.City == "" || a.Country == "" {
		return shared.NewDomainError("INVALID_ADDRESS", "Shipping address requires name, line1, city, and country")
	}
	return nil
}

// Item is an order line holding a snapshot of product and seller display
// fields taken at purchase time. Later catalog or account edits never alter
// these values; only the order's status and shipping metadata may change
// after creation.
type Item struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID `gorm:"type:uuid;index;not null"`
	ProductID   uuid.UUID `gorm:"type:uuid;not null"`
	SellerID    uuid.UUID `gorm:"type:uuid;index;not null"`
	ProductName string    `gorm:"not null"`
	BrandName   string
	SellerName  string
	ImageURL    string
	VariantSKU  string `gorm:"not null"`
	Size        string
	Color       string
	UnitPrice   decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Quantity    int             `gorm:"not null"`
	LineTotal   decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	CreatedAt   time.Time
}

// TableName maps order lines to their own table
func (Item) TableName() string { return "order_items" }

// StatusChange is one entry in the order's append-only status audit log
type StatusChange struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;index;not null"`
	From      Status    `gorm:"type:varchar(20)"`
	To        Status    `gorm:"type:varchar(20);not null"`
	ChangedBy uuid.UUID `gorm:"type:uuid"`
	Note      string
	CreatedAt time.Time
}

// TableName maps status history entries to their own table
func (StatusChange) TableName() string { return "order_status_changes" }

// Order is the purchase aggregate root. The item snapshots are immutable
// after creation; status, payment status, and shipping metadata are the only
// mutable parts.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber     string          `gorm:"uniqueIndex;not null"`
	UserID          uuid.UUID       `gorm:"type:uuid;index;not null"`
	ShippingAddress ShippingAddress `gorm:"embedded"`
	PaymentMethod   string          `gorm:"not null"`
	PaymentStatus   PaymentStatus   `gorm:"type:varchar(20);not null;default:'pending'"`
	Subtotal        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	ShippingFee     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Tax             decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Discount        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Status          Status          `gorm:"type:varchar(20);not null;default:'pending'"`
	Items           []Item          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	StatusHistory   []StatusChange  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	TrackingCode    string
	CancelReason    string
	DeliveredAt     *time.Time
	CancelledAt     *time.Time
}

// NewOrder creates a pending order shell; lines are added with AddItem and
// the totals finalized with Finalize before the order is persisted.
func NewOrder(orderNumber string, userID uuid.UUID, address ShippingAddress, paymentMethod string) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if err := address.Validate(); err != nil {
		return nil, err
	}
	if paymentMethod == "" {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method cannot be empty")
	}

	o := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		UserID:            userID,
		ShippingAddress:   address,
		PaymentMethod:     paymentMethod,
		PaymentStatus:     PaymentPending,
		Subtotal:          decimal.Zero,
		ShippingFee:       decimal.Zero,
		Tax:               decimal.Zero,
		Discount:          decimal.Zero,
		TotalAmount:       decimal.Zero,
		Status:            StatusPending,
		Items:             make([]Item, 0),
		StatusHistory:     make([]StatusChange, 0),
	}

	o.recordStatusChange("", StatusPending, userID, "Order placed")

	return o, nil
}

// ItemSnapshot carries the display fields frozen into an order line
type ItemSnapshot struct {
	ProductID   uuid.UUID
	SellerID    uuid.UUID
	ProductName string
	BrandName   string
	SellerName  string
	ImageURL    string
	VariantSKU  string
	Size        string
	Color       string
	UnitPrice   decimal.Decimal
}

// AddItem appends a snapshotted line. Only valid before Finalize.
func (o *Order) AddItem(snap ItemSnapshot, quantity int) (*Item, error) {
	if quantity <= 0 {
		return nil, shared.ErrInvalidQuantity
	}
	if snap.ProductID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if snap.ProductName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if snap.UnitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	item := Item{
		ID:          uuid.New(),
		OrderID:     o.ID,
		ProductID:   snap.ProductID,
		SellerID:    snap.SellerID,
		ProductName: snap.ProductName,
		BrandName:   snap.BrandName,
		SellerName:  snap.SellerName,
		ImageURL:    snap.ImageURL,
		VariantSKU:  snap.VariantSKU,
		Size:        snap.Size,
		Color:       snap.Color,
		UnitPrice:   snap.UnitPrice,
		Quantity:    quantity,
		LineTotal:   snap.UnitPrice.Mul(decimal.NewFromInt(int64(quantity))),
		CreatedAt:   time.Now(),
	}
	o.Items = append(o.Items, item)
	return &o.Items[len(o.Items)-1], nil
}

// Finalize sets charges and computes the total:
// total = sum(line totals) + shipping + tax - discount
func (o *Order) Finalize(shippingFee, tax, discount decimal.Decimal) error {
	if len(o.Items) == 0 {
		return shared.NewDomainError("NO_ITEMS", "Cannot create an order without items")
	}
	if shippingFee.IsNegative() || tax.IsNegative() || discount.IsNegative() {
		return shared.NewDomainError("INVALID_CHARGE", "Charges cannot be negative")
	}

	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.LineTotal)
	}
	total := subtotal.Add(shippingFee).Add(tax).Sub(discount)
	if total.IsNegative() {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot exceed the amount due")
	}

	o.Subtotal = subtotal
	o.ShippingFee = shippingFee
	o.Tax = tax
	o.Discount = discount
	o.TotalAmount = total
	o.UpdatedAt = time.Now()

	o.AddDomainEvent(NewOrderCreatedEvent(o))

	return nil
}

// TransitionTo moves the order to the target status, appending to the audit
// log. All callers go through here so the state machine is enforced in one
// place.
func (o *Order) TransitionTo(target Status, actorID uuid.UUID, note string) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status %q", target))
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot move order from %s to %s", o.Status, target))
	}

	from := o.Status
	now := time.Now()
	o.Status = target
	o.UpdatedAt = now

	switch target {
	case StatusDelivered:
		o.DeliveredAt = &now
	case StatusCancelled:
		o.CancelledAt = &now
	}

	o.recordStatusChange(from, target, actorID, note)
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, from, target))

	return nil
}

// Cancel closes the order inside the cancellation window. Stock restoration
// is orchestrated by the application service in the same transaction.
func (o *Order) Cancel(actorID uuid.UUID, reason string) error {
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}
	if !o.Status.AllowsCancellation() {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}
	if err := o.TransitionTo(StatusCancelled, actorID, reason); err != nil {
		return err
	}
	o.CancelReason = reason
	return nil
}

// MarkPaid records a successful payment capture
func (o *Order) MarkPaid() {
	o.PaymentStatus = PaymentPaid
	o.UpdatedAt = time.Now()
}

// MarkRefunded records a completed refund
func (o *Order) MarkRefunded() {
	o.PaymentStatus = PaymentRefunded
	o.UpdatedAt = time.Now()
}

// SetTrackingCode attaches a carrier tracking code
func (o *Order) SetTrackingCode(code string) {
	o.TrackingCode = code
	o.UpdatedAt = time.Now()
}

// HasSeller returns true if at least one line belongs to the given seller
func (o *Order) HasSeller(sellerID uuid.UUID) bool {
	for _, item := range o.Items {
		if item.SellerID == sellerID {
			return true
		}
	}
	return false
}

// ContainsProduct returns true if the order has a line for the given product
func (o *Order) ContainsProduct(productID uuid.UUID) bool {
	for _, item := range o.Items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}

// SellerIDs returns the distinct sellers with items in this order
func (o *Order) SellerIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(o.Items))
	ids := make([]uuid.UUID, 0, len(o.Items))
	for _, item := range o.Items {
		if _, ok := seen[item.SellerID]; ok {
			continue
		}
		seen[item.SellerID] = struct{}{}
		ids = append(ids, item.SellerID)
	}
	return ids
}

// ItemCount returns the number of lines in the order
func (o *Order) ItemCount() int {
	return len(o.Items)
}

// IsTerminal returns true when no forward transition remains
func (o *Order) IsTerminal() bool {
	return o.Status == StatusDelivered || o.Status == StatusRefunded
}

func (o *Order) recordStatusChange(from, to Status, actorID uuid.UUID, note string) {
	o.StatusHistory = append(o.StatusHistory, StatusChange{
		ID:        uuid.New(),
		OrderID:   o.ID,
		From:      from,
		To:        to,
		ChangedBy: actorID,
		Note:      note,
		CreatedAt: time.Now(),
	})
}
