package pagination

import "testing"

func TestValidateDefaults(t *testing.T) {
	cases := []struct {
		name     string
		in       Page
		wantNum  int
		wantSize int
	}{
		{"zero values", Page{}, 1, 20},
		{"negative values", Page{PageNum: -3, PageSize: -1}, 1, 20},
		{"size above cap", Page{PageNum: 2, PageSize: 1000}, 2, 100},
		{"valid values kept", Page{PageNum: 4, PageSize: 25}, 4, 25},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.in.Validate()
			if tc.in.PageNum != tc.wantNum || tc.in.PageSize != tc.wantSize {
				t.Errorf("Validate() = {%d, %d}, want {%d, %d}",
					tc.in.PageNum, tc.in.PageSize, tc.wantNum, tc.wantSize)
			}
		})
	}
}

func TestOffsetAndLimit(t *testing.T) {
	p := Page{PageNum: 3, PageSize: 20}

	if got := p.Offset(); got != 40 {
		t.Errorf("Offset() = %d, want 40", got)
	}
	if got := p.Limit(); got != 20 {
		t.Errorf("Limit() = %d, want 20", got)
	}
}
