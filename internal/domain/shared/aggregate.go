package shared

// AggregateRoot is an entity that guards a consistency boundary. It carries a
// version for optimistic locking and collects domain events raised during a
// state change until the application layer drains them.
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot implements AggregateRoot for embedding
type BaseAggregateRoot struct {
	BaseEntity
	Version      int           `gorm:"not null;default:1"`
	domainEvents []DomainEvent `gorm:"-"`
}

// NewBaseAggregateRoot returns a fresh aggregate at version 1
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    1,
	}
}

func (a *BaseAggregateRoot) GetVersion() int { return a.Version }

// IncrementVersion bumps the optimistic lock version. Call once per
// persisted state change.
func (a *BaseAggregateRoot) IncrementVersion() { a.Version++ }

func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent { return a.domainEvents }

func (a *BaseAggregateRoot) ClearDomainEvents() { a.domainEvents = nil }
