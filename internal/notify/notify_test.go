package notify

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCenterNotifyAndDismiss(t *testing.T) {
	c := NewCenter(0)

	a := c.Notify(LevelError, "Failed to add to cart")
	b := c.Notify(LevelInfo, "Product uploaded")

	require.Len(t, c.Pending(), 2)
	assert.NotEqual(t, a.ID, b.ID)

	assert.True(t, c.Dismiss(a.ID))
	assert.False(t, c.Dismiss(a.ID))

	pending := c.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, "Product uploaded", pending[0].Message)

	c.Clear()
	assert.Empty(t, c.Pending())
}

func TestCenterDropsOldestWhenFull(t *testing.T) {
	c := NewCenter(2)
	c.Notify(LevelError, "one")
	c.Notify(LevelError, "two")
	c.Notify(LevelError, "three")

	pending := c.Pending()
	require.Len(t, pending, 2)
	assert.Equal(t, "two", pending[0].Message)
	assert.Equal(t, "three", pending[1].Message)
}

type serverErr struct{ msg string }

func (e serverErr) Error() string       { return "status 400" }
func (e serverErr) UserMessage() string { return e.msg }

func TestUserMessage(t *testing.T) {
	wrapped := fmt.Errorf("add to cart: %w", serverErr{msg: "Out of stock"})
	assert.Equal(t, "Out of stock", UserMessage(wrapped, "Failed to add to cart"))

	assert.Equal(t, "Failed to add to cart", UserMessage(serverErr{}, "Failed to add to cart"))
	assert.Equal(t, "Failed to add to cart", UserMessage(errors.New("dial tcp: refused"), "Failed to add to cart"))
}
