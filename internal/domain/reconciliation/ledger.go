// Package reconciliation compares what a transaction ordered with what its
// delivery batches have shipped. It does no I/O; callers load the rows and
// persist whatever they decide.
package reconciliation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Mode selects how order completion is judged.
type Mode string

const (
	// ModeAggregate treats an order as complete once the total shipped units
	// reach the total ordered units, regardless of which lines they belong to.
	ModeAggregate Mode = "aggregate"
	// ModeStrict requires every line to be fully shipped.
	ModeStrict Mode = "strict"
)

// ParseMode maps a config value to a Mode; empty means aggregate.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeAggregate:
		return ModeAggregate, nil
	case ModeStrict:
		return ModeStrict, nil
	}
	return "", fmt.Errorf("unknown completion mode %q", s)
}

// OrderedLine is one line item of a transaction.
type OrderedLine struct {
	LineID      uuid.UUID
	ProductName string
	Quantity    int
}

// DeliveredLine is one batch item already recorded against a line.
type DeliveredLine struct {
	LineID   uuid.UUID
	Quantity int
}

// Selection is a request to ship Quantity units of a line in a new batch.
type Selection struct {
	LineID   uuid.UUID
	Quantity int
}

// LineProgress is the per-line view shown on the delivery screen.
type LineProgress struct {
	LineID      uuid.UUID `json:"line_item_id"`
	ProductName string    `json:"product_name"`
	Ordered     int       `json:"ordered"`
	Delivered   int       `json:"delivered"`
	Remaining   int       `json:"remaining"`
}

// OverDeliveryError reports stored data where more units shipped than were ordered.
type OverDeliveryError struct {
	LineID      uuid.UUID `json:"line_item_id"`
	ProductName string    `json:"product_name"`
	Ordered     int       `json:"ordered"`
	Delivered   int       `json:"delivered"`
}

func (e *OverDeliveryError) Error() string {
	return fmt.Sprintf("line %s (%s) delivered %d of %d ordered", e.LineID, e.ProductName, e.Delivered, e.Ordered)
}

// ErrNothingSelected is returned when a batch would ship no units.
var ErrNothingSelected = errors.New("at least one item must be selected with a quantity greater than zero")

// Problem fields
const (
	FieldLine     = "line_item_id"
	FieldQuantity = "quantity"
)

// Problem is a single rejected selection; Index points into the caller's slice.
type Problem struct {
	Index   int
	LineID  uuid.UUID
	Field   string
	Message string
}

// ValidationError collects every rejected selection of a batch request.
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		msgs = append(msgs, fmt.Sprintf("item %d: %s", p.Index, p.Message))
	}
	return "invalid delivery selection: " + strings.Join(msgs, "; ")
}

// Ledger holds the ordered lines of one transaction and the delivered totals per line.
type Ledger struct {
	ordered        []OrderedLine
	index          map[uuid.UUID]int
	delivered      map[uuid.UUID]int
	orderedTotal   int
	deliveredTotal int
}

// NewLedger aggregates delivered quantities by line id. Delivered rows for
// unknown lines still count towards the aggregate total.
func NewLedger(ordered []OrderedLine, delivered []DeliveredLine) *Ledger {
	l := &Ledger{
		ordered:   append([]OrderedLine(nil), ordered...),
		index:     make(map[uuid.UUID]int, len(ordered)),
		delivered: make(map[uuid.UUID]int, len(ordered)),
	}
	for i, line := range ordered {
		l.index[line.LineID] = i
		l.orderedTotal += line.Quantity
	}
	for _, d := range delivered {
		l.delivered[d.LineID] += d.Quantity
		l.deliveredTotal += d.Quantity
	}
	return l
}

// Lines returns the ordered lines in their original order.
func (l *Ledger) Lines() []OrderedLine {
	return append([]OrderedLine(nil), l.ordered...)
}

// Line looks up an ordered line by id.
func (l *Ledger) Line(id uuid.UUID) (OrderedLine, bool) {
	i, ok := l.index[id]
	if !ok {
		return OrderedLine{}, false
	}
	return l.ordered[i], true
}

// Delivered is the number of units shipped so far for a line, 0 when none.
func (l *Ledger) Delivered(lineID uuid.UUID) int {
	return l.delivered[lineID]
}

// Remaining is ordered minus delivered. A negative result means the stored
// data over-delivers; the value is clamped to 0 and the inconsistency returned.
func (l *Ledger) Remaining(line OrderedLine) (int, error) {
	delivered := l.Delivered(line.LineID)
	remaining := line.Quantity - delivered
	if remaining < 0 {
		return 0, &OverDeliveryError{
			LineID:      line.LineID,
			ProductName: line.ProductName,
			Ordered:     line.Quantity,
			Delivered:   delivered,
		}
	}
	return remaining, nil
}

// OrderedTotal is the sum of ordered units.
func (l *Ledger) OrderedTotal() int { return l.orderedTotal }

// DeliveredTotal is the sum of delivered units.
func (l *Ledger) DeliveredTotal() int { return l.deliveredTotal }

// IsComplete judges completion under mode. In aggregate mode over-shipping
// one line can hide a shortfall on another.
func (l *Ledger) IsComplete(mode Mode) bool {
	if mode == ModeStrict {
		for _, line := range l.ordered {
			if l.Delivered(line.LineID) < line.Quantity {
				return false
			}
		}
		return true
	}
	return l.orderedTotal <= l.deliveredTotal
}

// Progress lists ordered, delivered and remaining units for every line.
func (l *Ledger) Progress() []LineProgress {
	out := make([]LineProgress, 0, len(l.ordered))
	for _, line := range l.ordered {
		remaining, _ := l.Remaining(line)
		out = append(out, LineProgress{
			LineID:      line.LineID,
			ProductName: line.ProductName,
			Ordered:     line.Quantity,
			Delivered:   l.Delivered(line.LineID),
			Remaining:   remaining,
		})
	}
	return out
}

// Violations returns every line whose delivered units exceed its ordered units.
func (l *Ledger) Violations() []*OverDeliveryError {
	var out []*OverDeliveryError
	for _, line := range l.ordered {
		if _, err := l.Remaining(line); err != nil {
			var over *OverDeliveryError
			if errors.As(err, &over) {
				out = append(out, over)
			}
		}
	}
	return out
}

// Validate checks a batch request against the current remaining quantities.
// Zero quantities mean "not selected". Every selected quantity must lie in
// [1, remaining] and at least one must be positive.
func (l *Ledger) Validate(selections []Selection) error {
	var problems []Problem
	seen := make(map[uuid.UUID]bool, len(selections))
	selected := 0

	for i, s := range selections {
		line, ok := l.Line(s.LineID)
		switch {
		case !ok:
			problems = append(problems, Problem{Index: i, LineID: s.LineID, Field: FieldLine, Message: "line item does not belong to this transaction"})
			continue
		case seen[s.LineID]:
			problems = append(problems, Problem{Index: i, LineID: s.LineID, Field: FieldLine, Message: "line item selected more than once"})
			continue
		case s.Quantity < 0:
			problems = append(problems, Problem{Index: i, LineID: s.LineID, Field: FieldQuantity, Message: "quantity cannot be negative"})
			continue
		}
		seen[s.LineID] = true

		if s.Quantity == 0 {
			continue
		}
		selected++

		remaining, err := l.Remaining(line)
		if err != nil {
			problems = append(problems, Problem{Index: i, LineID: s.LineID, Field: FieldQuantity, Message: err.Error()})
			continue
		}
		if s.Quantity > remaining {
			problems = append(problems, Problem{
				Index:   i,
				LineID:  s.LineID,
				Field:   FieldQuantity,
				Message: fmt.Sprintf("quantity %d exceeds remaining quantity %d for %s", s.Quantity, remaining, line.ProductName),
			})
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	if selected == 0 {
		return ErrNothingSelected
	}
	return nil
}

// Apply returns a new ledger with the positive selections counted as delivered.
func (l *Ledger) Apply(selections []Selection) *Ledger {
	next := &Ledger{
		ordered:        l.ordered,
		index:          l.index,
		delivered:      make(map[uuid.UUID]int, len(l.delivered)+len(selections)),
		orderedTotal:   l.orderedTotal,
		deliveredTotal: l.deliveredTotal,
	}
	for id, qty := range l.delivered {
		next.delivered[id] = qty
	}
	for _, s := range selections {
		if s.Quantity <= 0 {
			continue
		}
		next.delivered[s.LineID] += s.Quantity
		next.deliveredTotal += s.Quantity
	}
	return next
}
