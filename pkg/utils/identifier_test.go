package utils_test

import (
	"testing"

	"github.com/pseudomuto/dbkeeper/pkg/utils"
	"github.com/stretchr/testify/require"
)

func TestBacktickIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "simple table", input: "accounts", expected: "`accounts`"},
		{name: "qualified name", input: "shop.accounts", expected: "`shop`.`accounts`"},
		{name: "already backticked", input: "`accounts`", expected: "`accounts`"},
		{name: "partially backticked", input: "`shop`.accounts", expected: "`shop`.`accounts`"},
		{name: "empty string", input: "", expected: ""},
		{name: "special characters", input: "order-items", expected: "`order-items`"},
		{name: "dots in backticks", input: "`db.table`", expected: "`db.table`"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, utils.BacktickIdentifier(tt.input))
		})
	}
}

func TestIsBackticked(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "backticked identifier", input: "`table`", expected: true},
		{name: "not backticked", input: "table", expected: false},
		{name: "qualified backticked identifier", input: "`database`.`table`", expected: false},
		{name: "empty string", input: "", expected: false},
		{name: "single backtick", input: "`", expected: false},
		{name: "mismatched backticks", input: "`table", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, utils.IsBackticked(tt.input))
		})
	}
}

func TestUnqualifiedName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "orders", expected: "orders"},
		{input: "public.orders", expected: "orders"},
		{input: "`shop`.`accounts`", expected: "accounts"},
		{input: `"public"."orders"`, expected: "orders"},
		{input: "[dbo].[users]", expected: "users"},
		{input: "  `items`  ", expected: "items"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			require.Equal(t, tt.expected, utils.UnqualifiedName(tt.input))
		})
	}
}
