package tui

import (
	"reflect"
	"testing"
)

func TestWrapText(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		width int
		want  []string
	}{
		{name: "fits", in: "ab cd", width: 10, want: []string{"ab cd"}},
		{name: "no width", in: "ab cd ef", width: 0, want: []string{"ab cd ef"}},
		{name: "words", in: "ab cd ef", width: 5, want: []string{"ab cd", "ef"}},
		{name: "wide runes", in: "一二三四", width: 4, want: []string{"一二", "三四"}},
		{name: "mixed", in: "x 一二三", width: 5, want: []string{"x", "一二", "三"}},
	}
	for _, tc := range cases {
		got := wrapText(tc.in, tc.width)
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}
