package cart

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelection_Capacity(t *testing.T) {
	sel := NewSelection(3)

	assert.True(t, sel.AddNumber(1, "r1", 3))
	assert.True(t, sel.AddNumber(2, "r1", 3))
	assert.True(t, sel.AddNumber(3, "r1", 3))
	assert.False(t, sel.CanAddMore())

	assert.False(t, sel.AddNumber(4, "r1", 3))
	assert.Equal(t, []int{1, 2, 3}, sel.Numbers())
	assert.Equal(t, "r1", sel.RaffleID())
}

func TestSelection_CapacityNeverExceeded(t *testing.T) {
	for _, max := range []int{1, 2, 5, 10} {
		sel := NewSelection(max)
		for n := 1; n <= max*3; n++ {
			sel.AddNumber(n, "r1", max)
			assert.LessOrEqual(t, sel.Len(), max)
		}
		assert.Equal(t, max, sel.Len())

		before := sel.Numbers()
		assert.False(t, sel.AddNumber(1000, "r1", max))
		assert.Equal(t, before, sel.Numbers())
	}
}

func TestSelection_RaffleSwitch(t *testing.T) {
	sel := NewSelection(10)
	require.True(t, sel.AddNumber(5, "A", 10))
	require.True(t, sel.AddNumber(6, "A", 10))

	added, switched := sel.Add(7, "B", 10)
	assert.True(t, added)
	assert.True(t, switched)
	assert.Equal(t, []int{7}, sel.Numbers())
	assert.Equal(t, "B", sel.RaffleID())
}

func TestSelection_RaffleSwitchIgnoresPreviousCapacity(t *testing.T) {
	sel := NewSelection(2)
	require.True(t, sel.AddNumber(1, "A", 2))
	require.True(t, sel.AddNumber(2, "A", 2))

	// Полный набор другого розыгрыша не мешает начать новый
	added, switched := sel.Add(1, "B", 5)
	assert.True(t, added)
	assert.True(t, switched)
	assert.Equal(t, []int{1}, sel.Numbers())
	assert.Equal(t, 5, sel.MaxNumbers())
}

func TestSelection_NoDuplicates(t *testing.T) {
	sel := NewSelection(10)
	require.True(t, sel.AddNumber(4, "r1", 10))

	assert.False(t, sel.AddNumber(4, "r1", 10))
	assert.Equal(t, []int{4}, sel.Numbers())
	assert.True(t, sel.IsNumberSelected(4))
	assert.False(t, sel.IsNumberSelected(5))
}

func TestSelection_RemoveNumber(t *testing.T) {
	sel := NewSelection(10)
	require.True(t, sel.AddNumber(1, "r1", 10))
	require.True(t, sel.AddNumber(2, "r1", 10))

	sel.RemoveNumber(1)
	assert.Equal(t, []int{2}, sel.Numbers())
	assert.Equal(t, "r1", sel.RaffleID())

	// Удаление отсутствующего номера ничего не меняет
	sel.RemoveNumber(99)
	assert.Equal(t, []int{2}, sel.Numbers())

	sel.RemoveNumber(2)
	assert.Empty(t, sel.Numbers())
	assert.Empty(t, sel.RaffleID())

	// После опустошения можно свободно выбрать другой розыгрыш
	added, switched := sel.Add(3, "r2", 10)
	assert.True(t, added)
	assert.False(t, switched)
}

func TestSelection_Clear(t *testing.T) {
	sel := NewSelection(4)
	require.True(t, sel.AddNumber(1, "r1", 4))

	sel.Clear()
	assert.Empty(t, sel.Numbers())
	assert.Empty(t, sel.RaffleID())
	assert.True(t, sel.CanAddMore())
	assert.Equal(t, 4, sel.MaxNumbers())
}

func TestSelection_Defaults(t *testing.T) {
	var sel Selection
	assert.Equal(t, DefaultMaxNumbers, sel.MaxNumbers())
	assert.True(t, sel.CanAddMore())

	assert.True(t, sel.AddNumber(1, "r1", 0))
	assert.Equal(t, DefaultMaxNumbers, sel.MaxNumbers())
}

func TestSelection_NumbersIsCopy(t *testing.T) {
	sel := NewSelection(10)
	require.True(t, sel.AddNumber(1, "r1", 10))

	numbers := sel.Numbers()
	numbers[0] = 42
	assert.Equal(t, []int{1}, sel.Numbers())
}

func TestSelection_JSON(t *testing.T) {
	t.Run("Persisted format", func(t *testing.T) {
		sel := NewSelection(3)
		require.True(t, sel.AddNumber(8, "r1", 3))
		require.True(t, sel.AddNumber(9, "r1", 3))

		raw, err := json.Marshal(sel)
		require.NoError(t, err)
		assert.JSONEq(t, `{"selectedNumbers":[8,9],"raffleId":"r1","maxNumbers":3}`, string(raw))
	})

	t.Run("Empty selection", func(t *testing.T) {
		raw, err := json.Marshal(NewSelection(10))
		require.NoError(t, err)
		assert.JSONEq(t, `{"selectedNumbers":[],"raffleId":null,"maxNumbers":10}`, string(raw))
	})

	t.Run("Restore drops duplicates", func(t *testing.T) {
		var sel Selection
		require.NoError(t, json.Unmarshal([]byte(`{"selectedNumbers":[3,3,4],"raffleId":"r1","maxNumbers":5}`), &sel))

		assert.Equal(t, []int{3, 4}, sel.Numbers())
		assert.Equal(t, "r1", sel.RaffleID())
		assert.Equal(t, 5, sel.MaxNumbers())
	})

	t.Run("Restore empty resets raffle", func(t *testing.T) {
		var sel Selection
		require.NoError(t, json.Unmarshal([]byte(`{"selectedNumbers":[],"raffleId":"r1","maxNumbers":5}`), &sel))
		assert.Empty(t, sel.RaffleID())
	})
}
