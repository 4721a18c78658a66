package collector

import "testing"

func TestPerSourceLimit(t *testing.T) {
	cases := []struct {
		max, n, want int
	}{
		{5, 4, 1},
		{8, 2, 4},
		{9, 2, 4},
		{3, 10, 1},
		{1, 1, 1},
		{10, 0, 10},
	}
	for _, c := range cases {
		if got := PerSourceLimit(c.max, c.n); got != c.want {
			t.Errorf("PerSourceLimit(%d, %d) = %d, want %d", c.max, c.n, got, c.want)
		}
	}
}

func TestPerSourceLimitMatchesFloorFormula(t *testing.T) {
	for max := 1; max <= 30; max++ {
		for n := 1; n <= 12; n++ {
			want := max / n
			if want < 1 {
				want = 1
			}
			if got := PerSourceLimit(max, n); got != want {
				t.Fatalf("PerSourceLimit(%d, %d) = %d, want %d", max, n, got, want)
			}
		}
	}
}

func TestLimitForAddsFeedSlack(t *testing.T) {
	if got := LimitFor(KindFeed, 3); got != 4 {
		t.Fatalf("feed limit = %d, want 4", got)
	}
	if got := LimitFor(KindWeb, 3); got != 3 {
		t.Fatalf("web limit = %d, want 3", got)
	}
	if got := LimitFor(KindSocialStub, 3); got != 3 {
		t.Fatalf("stub limit = %d, want 3", got)
	}
}
