package ui

import "testing"

func seqSongs(n int) []int {
	items := make([]int, n)
	for i := range items {
		items[i] = i + 1
	}
	return items
}

func TestPageWindows(t *testing.T) {
	items := seqSongs(25)

	tests := []struct {
		name      string
		pageIndex int
		wantFirst int
		wantLen   int
	}{
		{"first page", 0, 1, 10},
		{"middle page", 1, 11, 10},
		{"last page is short", 2, 21, 5},
		{"past the end", 3, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := page(items, 10, tt.pageIndex)
			if len(got) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(got), tt.wantLen)
			}
			if tt.wantLen > 0 && got[0] != tt.wantFirst {
				t.Errorf("first = %d, want %d", got[0], tt.wantFirst)
			}
		})
	}

	if got := page(items, 0, 0); got != nil {
		t.Errorf("zero page size returned %v", got)
	}
	if got := page(items, 10, -1); got != nil {
		t.Errorf("negative index returned %v", got)
	}
}

func TestPageCount(t *testing.T) {
	tests := []struct {
		total, pageSize, want int
	}{
		{25, 10, 3},
		{30, 10, 3},
		{1, 10, 1},
		{0, 10, 0},
		{10, 0, 0},
	}
	for _, tt := range tests {
		if got := pageCount(tt.total, tt.pageSize); got != tt.want {
			t.Errorf("pageCount(%d, %d) = %d, want %d", tt.total, tt.pageSize, got, tt.want)
		}
	}
}

func TestClampPageAfterShrink(t *testing.T) {
	// Filtering can shrink the list below the current page.
	if got := clampPage(2, 5, 10); got != 0 {
		t.Errorf("clamp = %d, want 0", got)
	}
	if got := clampPage(5, 25, 10); got != 2 {
		t.Errorf("clamp = %d, want 2", got)
	}
	if got := clampPage(1, 25, 10); got != 1 {
		t.Errorf("valid page moved: %d", got)
	}
	if got := clampPage(0, 0, 10); got != 0 {
		t.Errorf("empty list clamp = %d", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{"fits", "short", 10, "short"},
		{"exact", "exactly10!", 10, "exactly10!"},
		{"cut ascii", "https://example.com/watch?v=abc", 14, "https://exa..."},
		{"cut multibyte", "ダウンロード失敗しました", 8, "ダウンロー..."},
		{"tiny limit", "anything", 2, "an"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.in, tt.limit); got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
			}
		})
	}
}

func TestMatchFilter(t *testing.T) {
	tests := []struct {
		needle    string
		haystacks []string
		want      bool
	}{
		{"", []string{"anything"}, true},
		{"night", []string{"Nightcall", "Kavinsky"}, true},
		{"KAVIN", []string{"Nightcall", "Kavinsky"}, true},
		{"daft", []string{"Nightcall", "Kavinsky"}, false},
	}
	for _, tt := range tests {
		if got := matchFilter(tt.needle, tt.haystacks...); got != tt.want {
			t.Errorf("matchFilter(%q, %v) = %v, want %v", tt.needle, tt.haystacks, got, tt.want)
		}
	}
}
