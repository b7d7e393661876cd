package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScrollUntilStable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		counts      []int
		opts        ScrollOptions
		wantCount   int
		wantScrolls int
	}{
		{
			name:        "stops after stable rounds",
			counts:      []int{10, 20, 30, 30},
			opts:        ScrollOptions{StableRounds: 3},
			wantCount:   30,
			wantScrolls: 2 + 3,
		},
		{
			name:        "already complete page",
			counts:      []int{12},
			opts:        ScrollOptions{StableRounds: 6},
			wantCount:   12,
			wantScrolls: 6,
		},
		{
			name:        "growth resets the stable counter",
			counts:      []int{5, 5, 8, 8, 8},
			opts:        ScrollOptions{StableRounds: 2},
			wantCount:   8,
			wantScrolls: 1 + 1 + 2,
		},
		{
			name:        "hard cap on endless growth",
			counts:      []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12},
			opts:        ScrollOptions{StableRounds: 6, MaxRounds: 4},
			wantCount:   5,
			wantScrolls: 4,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			page := &fakePage{counts: tt.counts}
			n, err := ScrollUntilStable(context.Background(), page, "article", tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCount, n)
			assert.Equal(t, tt.wantScrolls, page.scrolls)
		})
	}
}

func TestScrollUntilStable_Defaults(t *testing.T) {
	t.Parallel()

	page := &fakePage{counts: []int{3}}
	_, err := ScrollUntilStable(context.Background(), page, "article", ScrollOptions{Settle: -1})
	require.NoError(t, err)

	d := DefaultScrollOptions()
	assert.Equal(t, d.StableRounds, page.scrolls)
	require.NotEmpty(t, page.delays)
	assert.Equal(t, 450*time.Millisecond, page.delays[0])
}

func TestScrollFixed(t *testing.T) {
	t.Parallel()

	page := &fakePage{}
	require.NoError(t, ScrollFixed(context.Background(), page, 4, 1.2, 10*time.Millisecond))
	assert.Equal(t, 4, page.scrolls)
	assert.Len(t, page.delays, 4)
}
