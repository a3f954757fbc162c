package cache

import "testing"

func TestListKeyCanonical(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		limit     int
		authorID  string
		startDate string
		endDate   string
		want      string
	}{
		{
			name: "defaults only",
			page: 1, limit: 10,
			want: "article:list:page=1&limit=10",
		},
		{
			name: "all filters",
			page: 2, limit: 25,
			authorID:  "user-1",
			startDate: "2024-01-01",
			endDate:   "2024-12-31",
			want:      "article:list:page=2&limit=25&author_id=user-1&start=2024-01-01&end=2024-12-31",
		},
		{
			name: "unset filters omitted",
			page: 1, limit: 10,
			endDate: "2024-12-31",
			want:    "article:list:page=1&limit=10&end=2024-12-31",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ListKey(tt.page, tt.limit, tt.authorID, tt.startDate, tt.endDate)
			if got != tt.want {
				t.Errorf("ListKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestListKeyStableAcrossEquivalentQueries(t *testing.T) {
	// Two logically identical queries must share one cache key no matter
	// how the caller assembled them.
	a := ListKey(1, 10, "user-1", "", "")
	b := ListKey(1, 10, "user-1", "", "")
	if a != b {
		t.Errorf("equivalent queries produced different keys: %q vs %q", a, b)
	}

	c := ListKey(2, 10, "user-1", "", "")
	if a == c {
		t.Errorf("different pages share a key: %q", a)
	}
}

func TestListKeyNamespace(t *testing.T) {
	key := ListKey(1, 10, "", "", "")
	const prefix = "article:list:"
	if len(key) < len(prefix) || key[:len(prefix)] != prefix {
		t.Errorf("ListKey() = %q, want %q prefix", key, prefix)
	}
}
