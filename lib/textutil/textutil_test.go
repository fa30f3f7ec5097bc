package textutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFoldASCII(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{input: "Nydia Velázquez", expected: "Nydia Velazquez"},
		{input: "Jesús \"Chuy\" García", expected: "Jesus \"Chuy\" Garcia"},
		{input: "María Elvira Salazar", expected: "Maria Elvira Salazar"},
		{input: "  Plain Name  ", expected: "Plain Name"},
		{input: "", expected: ""},
	}

	for _, test := range cases {
		got := FoldASCII(test.input)
		if diff := cmp.Diff(test.expected, got); diff != "" {
			t.Fatal(diff)
		}
	}
}

func TestStripHonorifics(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{input: "Rep. John Doe", expected: "John Doe"},
		{input: "John Doe, Rep.", expected: "John Doe,"},
		{input: "Hon. Jane Roe", expected: "Jane Roe"},
		{input: "John Doe", expected: "John Doe"},
		{input: "Dr Raul Ruiz", expected: "Raul Ruiz"},
	}

	for _, test := range cases {
		got := StripHonorifics(test.input)
		if diff := cmp.Diff(test.expected, got); diff != "" {
			t.Fatal(diff)
		}
	}
}

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{input: "Rep. Nydia Velázquez", expected: "nydiavelazquez"},
		{input: "John  Doe ", expected: "johndoe"},
		{input: "Doe, John", expected: "doe,john"},
	}

	for _, test := range cases {
		got := NormalizeName(test.input)
		if diff := cmp.Diff(test.expected, got); diff != "" {
			t.Fatal(diff)
		}
	}
}
