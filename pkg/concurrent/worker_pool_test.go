package concurrent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapKeepsInputOrder(t *testing.T) {
	inputs := make([]int, 100)
	for i := range inputs {
		inputs[i] = i
	}

	got := Map(context.Background(), 8, inputs, func(_ context.Context, x int) int {
		return x * x
	})

	assert.Len(t, got, len(inputs))
	for i, v := range got {
		assert.Equal(t, i*i, v)
	}
}

func TestMapEmpty(t *testing.T) {
	got := Map(context.Background(), 4, []string{}, func(_ context.Context, s string) int {
		return len(s)
	})
	assert.Empty(t, got)
}
