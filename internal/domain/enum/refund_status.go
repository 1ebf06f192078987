package enum

// RefundStatus is recorded on refunds for reporting; refunds are immutable
// once written so the value never changes after creation.
type RefundStatus string

const (
	RefundStatusProcessed RefundStatus = "processed"
)
