package common

import "testing"

func TestPageParamsNormalize(t *testing.T) {
	tests := []struct {
		name         string
		in           PageParams
		defaultLimit int
		want         PageParams
	}{
		{name: "zero uses default", in: PageParams{}, defaultLimit: 6, want: PageParams{Limit: 6}},
		{name: "keeps explicit values", in: PageParams{Limit: 3, Offset: 9}, defaultLimit: 6, want: PageParams{Limit: 3, Offset: 9}},
		{name: "caps limit", in: PageParams{Limit: 1000}, defaultLimit: 6, want: PageParams{Limit: MaxPageLimit}},
		{name: "negative offset", in: PageParams{Limit: 2, Offset: -5}, defaultLimit: 6, want: PageParams{Limit: 2}},
		{name: "invalid default falls back", in: PageParams{}, defaultLimit: 0, want: PageParams{Limit: DefaultPageLimit}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Normalize(tt.defaultLimit); got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}
