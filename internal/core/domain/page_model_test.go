package domain_test

import (
	"math"
	"testing"

	"github.com/pasta-science/marketd/internal/core/domain"
	"github.com/stretchr/testify/require"
)

func TestNewPage(t *testing.T) {
	tests := []struct {
		name           string
		number, size   int
		expectedNumber int
		expectedSize   int
		expectedOffset int
	}{
		{"defaults", 0, 0, 1, 10, 0},
		{"custom", 3, 20, 3, 20, 40},
		{"max size", 2, 1000, 2, 100, 100},
		{"huge number", 4611686018427387904, 4, math.MaxInt32 / 100, 4, (math.MaxInt32/100 - 1) * 4},
		{"max int number", math.MaxInt, 100, math.MaxInt32 / 100, 100, (math.MaxInt32/100 - 1) * 100},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			page := domain.NewPage(tt.number, tt.size)
			require.Equal(t, tt.expectedNumber, page.Number)
			require.Equal(t, tt.expectedSize, page.Size)
			require.Equal(t, tt.expectedOffset, page.Offset())
			require.GreaterOrEqual(t, page.Offset(), 0)
		})
	}
}

func TestPageOffsetSaturates(t *testing.T) {
	page := domain.Page{Number: 4611686018427387904, Size: 4}
	require.Equal(t, math.MaxInt, page.Offset())
}
