package binding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlvnd/banner/internal/model"
)

func TestCell_SetGetClear(t *testing.T) {
	c := NewCell()
	assert.Nil(t, c.Get())

	m, err := model.New("hello", "")
	require.NoError(t, err)

	c.Set(m)
	assert.Same(t, m, c.Get())

	c.Clear()
	assert.Nil(t, c.Get())
}

func TestCell_SubscribeNotifies(t *testing.T) {
	c := NewCell()

	var seen []*model.Message
	cancel := c.Subscribe(func(m *model.Message) {
		seen = append(seen, m)
	})
	defer cancel()

	m, err := model.New("a", "")
	require.NoError(t, err)

	c.Set(m)
	c.Clear()

	require.Len(t, seen, 2)
	assert.Same(t, m, seen[0])
	assert.Nil(t, seen[1])
}

func TestCell_Cancel(t *testing.T) {
	c := NewCell()

	count := 0
	cancel := c.Subscribe(func(*model.Message) { count++ })

	m, err := model.New("a", "")
	require.NoError(t, err)
	c.Set(m)
	assert.Equal(t, 1, count)

	cancel()
	cancel() // second cancel is a no-op
	c.Clear()
	assert.Equal(t, 1, count)
}

func TestCell_LiveValueDuringNotification(t *testing.T) {
	c := NewCell()

	m, err := model.New("a", "")
	require.NoError(t, err)

	var live *model.Message
	cancel := c.Subscribe(func(*model.Message) {
		live = c.Get()
	})
	defer cancel()

	c.Set(m)
	assert.Same(t, m, live, "observers must see the new value in place")
}

func TestCell_ReentrantSet(t *testing.T) {
	c := NewCell()

	var seen []*model.Message
	cancel := c.Subscribe(func(m *model.Message) {
		seen = append(seen, m)
		// Clearing from inside a notification must not deadlock and
		// must terminate (the nil notification does not recurse).
		if m != nil {
			c.Clear()
		}
	})
	defer cancel()

	m, err := model.New("a", "")
	require.NoError(t, err)
	c.Set(m)

	require.Len(t, seen, 2)
	assert.Same(t, m, seen[0])
	assert.Nil(t, seen[1])
	assert.Nil(t, c.Get())
}

func TestCell_MultipleSubscribers(t *testing.T) {
	c := NewCell()

	var order []string
	c.Subscribe(func(*model.Message) { order = append(order, "first") })
	c.Subscribe(func(*model.Message) { order = append(order, "second") })

	m, err := model.New("a", "")
	require.NoError(t, err)
	c.Set(m)

	assert.Equal(t, []string{"first", "second"}, order)
}
