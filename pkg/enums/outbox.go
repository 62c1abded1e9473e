package enums

// OutboxEventType names a domain event queued through the transactional outbox.
type OutboxEventType string

const (
	EventSaleCommitted OutboxEventType = "sale.committed"
	EventStockLow      OutboxEventType = "stock.low"
	EventLabelsQueued  OutboxEventType = "labels.queued"
)

// OutboxAggregateType names the aggregate an outbox event belongs to.
type OutboxAggregateType string

const (
	AggregateSale    OutboxAggregateType = "sale"
	AggregateProduct OutboxAggregateType = "product"
)

// IsValid reports whether the event type is known.
func (t OutboxEventType) IsValid() bool {
	switch t {
	case EventSaleCommitted, EventStockLow, EventLabelsQueued:
		return true
	}
	return false
}
