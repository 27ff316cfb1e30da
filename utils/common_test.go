package utils

import (
	"testing"
)

func TestContainsInWhitespaceSeparatedStringList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		item     string
		expected bool
	}{
		{
			name:     "Item in list",
			input:    "scope1 scope2 scope3",
			item:     "scope2",
			expected: true,
		},
		{
			name:     "Item not in list",
			input:    "scope1 scope2",
			item:     "scope3",
			expected: false,
		},
		{
			name:     "Substring does not count",
			input:    "scope12 scope2",
			item:     "scope1",
			expected: false,
		},
		{
			name:     "Empty list",
			input:    "",
			item:     "scope1",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ContainsInWhitespaceSeparatedStringList(tt.input, tt.item)
			if result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestDeduplicateSlice(t *testing.T) {
	input := []string{"a", "b", "a", "c", "b"}
	result := DeduplicateSlice(input, func(s string) string { return s })

	expected := []string{"a", "b", "c"}
	if len(result) != len(expected) {
		t.Fatalf("expected %d elements, got %d", len(expected), len(result))
	}
	for i := range expected {
		if result[i] != expected[i] {
			t.Errorf("expected %q at index %d, got %q", expected[i], i, result[i])
		}
	}
}
