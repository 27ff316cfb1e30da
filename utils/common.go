// Copyright (C) 2025 Attendee Labs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package utils

import (
	"slices"
	"strings"
)

func Ptr[T any](t T) *T {
	return &t
}

func ContainsInWhitespaceSeparatedStringList(s string, item string) bool {
	els := strings.Fields(s)
	return slices.Contains(els, item)
}

// DeduplicateSlice deduplicates a slice in O(n) out of place.
func DeduplicateSlice[T any](slice []T, idFunc func(t T) string) []T {
	deduplicatedSlice := make([]T, 0, len(slice))
	seen := make(map[string]struct{}, len(slice))
	for i := range slice {
		id := idFunc(slice[i])
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		deduplicatedSlice = append(deduplicatedSlice, slice[i])
	}
	return deduplicatedSlice
}
