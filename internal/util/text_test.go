package util

import (
	"testing"

	"supplymatch/internal"
)

func TestNormalizeKey(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{input: "  Авокадо   Хасс ", want: "Авокадо Хасс"},
		{input: "Авокадо\nХасс", want: "Авокадо Хасс"},
		{input: "Авокадо Хасс", want: "Авокадо Хасс"},
		{input: "   ", want: ""},
	}
	for _, tc := range cases {
		if got := NormalizeKey(tc.input); got != tc.want {
			t.Fatalf("%q: got %q want %q", tc.input, got, tc.want)
		}
	}
}

func TestStripArticleCode(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{input: "Мука Высший *10013", want: "Мука Высший"},
		{input: "Мука Высший\n*10013", want: "Мука Высший"},
		{input: "Мука Высший", want: "Мука Высший"},
		{input: "Сироп 5*2", want: "Сироп 5"},
	}
	for _, tc := range cases {
		if got := StripArticleCode(tc.input); got != tc.want {
			t.Fatalf("%q: got %q want %q", tc.input, got, tc.want)
		}
	}
}

func TestNormalizeUnit(t *testing.T) {
	cases := []struct {
		input string
		want  internal.Unit
	}{
		{input: "кг", want: internal.UnitKilogram},
		{input: "КГ.", want: internal.UnitKilogram},
		{input: "килограмм", want: internal.UnitKilogram},
		{input: "л", want: internal.UnitLiter},
		{input: "литр", want: internal.UnitLiter},
		{input: "шт", want: internal.UnitPiece},
		{input: "упак", want: internal.UnitPiece},
		{input: "", want: internal.UnitPiece},
	}
	for _, tc := range cases {
		if got := NormalizeUnit(tc.input); got != tc.want {
			t.Fatalf("%q: got %q want %q", tc.input, got, tc.want)
		}
	}
}
