package pagination

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func numbers(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestPaginateBoundaries(t *testing.T) {
	items := numbers(12)

	cases := []struct {
		name    string
		page    int
		want    []int
		hasPrev bool
		hasNext bool
		number  int
	}{
		{"first page", 1, []int{1, 2, 3, 4, 5}, false, true, 1},
		{"middle page", 2, []int{6, 7, 8, 9, 10}, true, true, 2},
		{"last page", 3, []int{11, 12}, true, false, 3},
		{"clamped high", 9, []int{11, 12}, true, false, 3},
		{"clamped low", 0, []int{1, 2, 3, 4, 5}, false, true, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page := Paginate(items, 5, tc.page)
			if diff := cmp.Diff(tc.want, page.Items); diff != "" {
				t.Fatalf("items mismatch (-want +got):\n%s", diff)
			}
			if page.HasPrev != tc.hasPrev || page.HasNext != tc.hasNext {
				t.Fatalf("expected prev=%v next=%v, got prev=%v next=%v", tc.hasPrev, tc.hasNext, page.HasPrev, page.HasNext)
			}
			if page.Number != tc.number || page.TotalPages != 3 {
				t.Fatalf("expected page %d of 3, got %d of %d", tc.number, page.Number, page.TotalPages)
			}
		})
	}
}

func TestPaginateEmpty(t *testing.T) {
	page := Paginate([]string{}, 5, 4)
	if len(page.Items) != 0 || page.Number != 1 || page.HasPrev || page.HasNext {
		t.Fatalf("unexpected empty page: %+v", page)
	}
}

func TestParseToken(t *testing.T) {
	if n, ok := ParseToken(Token(3)); !ok || n != 3 {
		t.Fatalf("expected 3, got %d (%v)", n, ok)
	}
	for _, input := range []string{"page:", "page:x", "3", "Да"} {
		if _, ok := ParseToken(input); ok {
			t.Fatalf("expected %q to be rejected", input)
		}
	}
	if !IsToken("page:abc") {
		t.Fatal("expected page:abc to look like a token")
	}
}
