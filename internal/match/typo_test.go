package match

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	typos := DefaultTypos()
	cases := []struct {
		input string
		want  string
	}{
		{input: "АВАКАДО свежий", want: "авокадо свежий"},
		{input: "имбирь мачёный", want: "имбирь маринованный"},
		{input: "салат/авакадо", want: "салат/авокадо"},
		{input: "авакадо авакадо", want: "авокадо авокадо"},
		{input: "авакадовый крем", want: "авакадовый крем"},
		{input: "  Нори  ", want: "нори"},
	}
	for _, tc := range cases {
		if got := typos.Normalize(tc.input); got != tc.want {
			t.Fatalf("%q: got %q want %q", tc.input, got, tc.want)
		}
	}
}

func TestTokenize(t *testing.T) {
	typos := DefaultTypos()
	cases := []struct {
		input string
		want  []string
	}{
		{input: "масло для фритюра", want: []string{"масло", "фритюра"}},
		{input: "соус/терияки-классический (премиум)", want: []string{"соус", "терияки", "классический", "премиум"}},
		{input: "и в на", want: nil},
		{input: "ту же", want: nil},
	}
	for _, tc := range cases {
		got := typos.Tokenize(tc.input)
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("%q: got %v want %v", tc.input, got, tc.want)
		}
	}
}
