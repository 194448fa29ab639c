package ui

import "strings"

// page windows a fetched collection locally. No backend round-trip happens
// for paging or filtering; both recompute from the cached slice.
func page[T any](items []T, pageSize, pageIndex int) []T {
	if pageSize < 1 || pageIndex < 0 {
		return nil
	}
	start := pageIndex * pageSize
	if start >= len(items) {
		return nil
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func pageCount(total, pageSize int) int {
	if pageSize < 1 || total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

func clampPage(pageIndex, total, pageSize int) int {
	last := pageCount(total, pageSize) - 1
	if last < 0 {
		return 0
	}
	if pageIndex > last {
		return last
	}
	if pageIndex < 0 {
		return 0
	}
	return pageIndex
}

// truncate caps a string at limit runes, marking the cut with an ellipsis.
// Rune-based so multibyte URLs and log lines never split mid-character.
func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit <= 3 {
		return string(r[:max(limit, 0)])
	}
	return string(r[:limit-3]) + "..."
}

// matchFilter is the case-insensitive substring match used by the song and
// user listings.
func matchFilter(needle string, haystacks ...string) bool {
	if needle == "" {
		return true
	}
	needle = strings.ToLower(needle)
	for _, h := range haystacks {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}
