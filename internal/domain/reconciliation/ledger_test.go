package reconciliation

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	a, b    OrderedLine
	ordered []OrderedLine
}

func newFixture() fixture {
	a := OrderedLine{LineID: uuid.New(), ProductName: "A", Quantity: 10}
	b := OrderedLine{LineID: uuid.New(), ProductName: "B", Quantity: 5}
	return fixture{a: a, b: b, ordered: []OrderedLine{a, b}}
}

func TestDeliveredSumsAcrossBatches(t *testing.T) {
	f := newFixture()
	l := NewLedger(f.ordered, []DeliveredLine{
		{LineID: f.a.LineID, Quantity: 3},
		{LineID: f.a.LineID, Quantity: 4},
		{LineID: f.b.LineID, Quantity: 1},
	})

	assert.Equal(t, 7, l.Delivered(f.a.LineID))
	assert.Equal(t, 1, l.Delivered(f.b.LineID))
	assert.Equal(t, 0, l.Delivered(uuid.New()))
}

func TestRemainingIsOrderedMinusDelivered(t *testing.T) {
	f := newFixture()
	l := NewLedger(f.ordered, []DeliveredLine{{LineID: f.a.LineID, Quantity: 6}})

	remaining, err := l.Remaining(f.a)
	require.NoError(t, err)
	assert.Equal(t, 4, remaining)

	remaining, err = l.Remaining(f.b)
	require.NoError(t, err)
	assert.Equal(t, 5, remaining)
}

func TestRemainingClampsAndReportsOverDelivery(t *testing.T) {
	f := newFixture()
	l := NewLedger(f.ordered, []DeliveredLine{{LineID: f.b.LineID, Quantity: 8}})

	remaining, err := l.Remaining(f.b)
	assert.Equal(t, 0, remaining)

	var over *OverDeliveryError
	require.True(t, errors.As(err, &over))
	assert.Equal(t, 5, over.Ordered)
	assert.Equal(t, 8, over.Delivered)
	assert.Equal(t, "B", over.ProductName)

	require.Len(t, l.Violations(), 1)
	assert.Equal(t, f.b.LineID, l.Violations()[0].LineID)
}

func TestIsCompleteExactDelivery(t *testing.T) {
	f := newFixture()
	l := NewLedger(f.ordered, []DeliveredLine{
		{LineID: f.a.LineID, Quantity: 10},
		{LineID: f.b.LineID, Quantity: 5},
	})

	assert.True(t, l.IsComplete(ModeAggregate))
	assert.True(t, l.IsComplete(ModeStrict))
}

// Ordered A=10, B=5 with A=15 shipped and nothing of B. The aggregate rule
// calls this complete because 15 >= 15 even though B never shipped. Strict
// mode exists to catch exactly this.
func TestAggregateCompletionMasksShortfallOnAnotherLine(t *testing.T) {
	f := newFixture()
	l := NewLedger(f.ordered, []DeliveredLine{
		{LineID: f.a.LineID, Quantity: 15},
		{LineID: f.b.LineID, Quantity: 0},
	})

	assert.True(t, l.IsComplete(ModeAggregate), "aggregate rule counts surplus on A against missing B")
	assert.False(t, l.IsComplete(ModeStrict))
}

func TestIsCompletePartial(t *testing.T) {
	f := newFixture()
	l := NewLedger(f.ordered, []DeliveredLine{{LineID: f.a.LineID, Quantity: 10}})

	assert.False(t, l.IsComplete(ModeAggregate))
	assert.False(t, l.IsComplete(ModeStrict))
}

func TestValidateAcceptsQuantitiesWithinRemaining(t *testing.T) {
	f := newFixture()
	l := NewLedger(f.ordered, []DeliveredLine{{LineID: f.a.LineID, Quantity: 4}})

	err := l.Validate([]Selection{
		{LineID: f.a.LineID, Quantity: 6},
		{LineID: f.b.LineID, Quantity: 0},
	})
	assert.NoError(t, err)
}

func TestValidateRejectsQuantityAboveRemaining(t *testing.T) {
	f := newFixture()
	l := NewLedger(f.ordered, []DeliveredLine{{LineID: f.a.LineID, Quantity: 4}})

	err := l.Validate([]Selection{
		{LineID: f.b.LineID, Quantity: 2},
		{LineID: f.a.LineID, Quantity: 7},
	})

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Problems, 1)
	assert.Equal(t, 1, verr.Problems[0].Index)
	assert.Contains(t, verr.Problems[0].Message, "exceeds remaining quantity 6")
}

func TestValidateRejectsAllZero(t *testing.T) {
	f := newFixture()
	l := NewLedger(f.ordered, nil)

	err := l.Validate([]Selection{
		{LineID: f.a.LineID, Quantity: 0},
		{LineID: f.b.LineID, Quantity: 0},
	})
	assert.ErrorIs(t, err, ErrNothingSelected)

	assert.ErrorIs(t, l.Validate(nil), ErrNothingSelected)
}

func TestValidateRejectsUnknownDuplicateAndNegative(t *testing.T) {
	f := newFixture()
	l := NewLedger(f.ordered, nil)

	err := l.Validate([]Selection{
		{LineID: uuid.New(), Quantity: 1},
		{LineID: f.a.LineID, Quantity: 1},
		{LineID: f.a.LineID, Quantity: 1},
		{LineID: f.b.LineID, Quantity: -2},
	})

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Problems, 3)
	assert.Equal(t, 0, verr.Problems[0].Index)
	assert.Equal(t, 2, verr.Problems[1].Index)
	assert.Equal(t, 3, verr.Problems[2].Index)
}

func TestValidateRejectsShippingFullyDeliveredLine(t *testing.T) {
	f := newFixture()
	l := NewLedger(f.ordered, []DeliveredLine{{LineID: f.b.LineID, Quantity: 5}})

	err := l.Validate([]Selection{{LineID: f.b.LineID, Quantity: 1}})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Error(), "exceeds remaining quantity 0")
}

func TestApplyDoesNotMutateOriginal(t *testing.T) {
	f := newFixture()
	l := NewLedger(f.ordered, []DeliveredLine{{LineID: f.a.LineID, Quantity: 10}})

	next := l.Apply([]Selection{{LineID: f.b.LineID, Quantity: 5}, {LineID: f.a.LineID, Quantity: 0}})

	assert.Equal(t, 0, l.Delivered(f.b.LineID))
	assert.False(t, l.IsComplete(ModeStrict))
	assert.Equal(t, 5, next.Delivered(f.b.LineID))
	assert.Equal(t, 15, next.DeliveredTotal())
	assert.True(t, next.IsComplete(ModeStrict))
}

func TestProgress(t *testing.T) {
	f := newFixture()
	l := NewLedger(f.ordered, []DeliveredLine{{LineID: f.a.LineID, Quantity: 3}})

	progress := l.Progress()
	require.Len(t, progress, 2)
	assert.Equal(t, LineProgress{LineID: f.a.LineID, ProductName: "A", Ordered: 10, Delivered: 3, Remaining: 7}, progress[0])
	assert.Equal(t, LineProgress{LineID: f.b.LineID, ProductName: "B", Ordered: 5, Delivered: 0, Remaining: 5}, progress[1])
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeAggregate, m)

	m, err = ParseMode("STRICT")
	require.NoError(t, err)
	assert.Equal(t, ModeStrict, m)

	_, err = ParseMode("per-line")
	assert.Error(t, err)
}

func TestValidateProblemsNameTheField(t *testing.T) {
	f := newFixture()
	l := NewLedger(f.ordered, nil)

	err := l.Validate([]Selection{
		{LineID: uuid.New(), Quantity: 1},
		{LineID: f.a.LineID, Quantity: 11},
	})

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Problems, 2)
	assert.Equal(t, FieldLine, verr.Problems[0].Field)
	assert.Equal(t, FieldQuantity, verr.Problems[1].Field)
}
