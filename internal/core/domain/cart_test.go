package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func line(id, qty int) LineItem {
	return LineItem{ProductID: id, Name: "p", Price: 10, Quantity: qty}
}

func TestCartMerge(t *testing.T) {
	t.Run("NoOverlap", func(t *testing.T) {
		target := Cart{line(1, 2)}
		guest := Cart{line(2, 1), line(3, 4)}

		got := target.Merge(guest)
		assert.Equal(t, Cart{line(1, 2), line(2, 1), line(3, 4)}, got)
	})

	t.Run("Overlap", func(t *testing.T) {
		target := Cart{line(1, 2), line(2, 1)}
		guest := Cart{line(2, 3)}

		got := target.Merge(guest)
		assert.Equal(t, Cart{line(1, 2), line(2, 4)}, got)
	})

	t.Run("MissingQuantityCountsAsOne", func(t *testing.T) {
		target := Cart{line(1, 0)}
		guest := Cart{line(1, 0), line(2, 0)}

		got := target.Merge(guest)
		assert.Equal(t, Cart{line(1, 2), line(2, 1)}, got)
	})

	t.Run("EmptyTarget", func(t *testing.T) {
		got := Cart{}.Merge(Cart{line(5, 2)})
		assert.Equal(t, Cart{line(5, 2)}, got)
	})

	t.Run("InputsUntouched", func(t *testing.T) {
		target := Cart{line(1, 1)}
		guest := Cart{line(1, 1)}

		target.Merge(guest)
		assert.Equal(t, Cart{line(1, 1)}, target)
	})
}

func TestCartAdd(t *testing.T) {
	c := Cart{line(1, 1)}

	assert.Equal(t, Cart{line(1, 3)}, c.Add(line(1, 2)))
	assert.Equal(t, Cart{line(1, 1), line(2, 1)}, c.Add(line(2, 1)))
	assert.Equal(t, c, c.Add(line(3, 0)))
}

func TestCartChange(t *testing.T) {
	c := Cart{line(1, 2), line(2, 1)}

	got, ok := c.Change(1, -1)
	assert.True(t, ok)
	assert.Equal(t, Cart{line(1, 1), line(2, 1)}, got)

	got, ok = c.Change(2, -1)
	assert.True(t, ok)
	assert.Equal(t, Cart{line(1, 2)}, got)

	_, ok = c.Change(9, 1)
	assert.False(t, ok)
}

func TestCartSummary(t *testing.T) {
	c := Cart{
		{ProductID: 1, Price: 2.5, Quantity: 2},
		{ProductID: 2, Price: 10, Quantity: 1},
	}
	assert.Equal(t, 3, c.Count())
	assert.InDelta(t, 15.0, c.Total(), 1e-9)
}

func TestCartValidate(t *testing.T) {
	assert.NoError(t, Cart{}.Validate())
	assert.NoError(t, Cart{line(1, 1), line(2, 5)}.Validate())
	assert.ErrorIs(t, Cart{line(1, 0)}.Validate(), ErrInvalid)
	assert.ErrorIs(t, Cart{line(1, 1), line(1, 2)}.Validate(), ErrInvalid)
}
