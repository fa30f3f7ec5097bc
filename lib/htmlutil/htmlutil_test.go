package htmlutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCleanText(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{input: "  Kathy Castor  ", expected: "Kathy Castor"},
		{input: "\n\tEnergy and\n\t\tCommerce\n", expected: "Energy and Commerce"},
		{input: "Kathy Castor", expected: "Kathy Castor"},
		{input: "Phone: (202) 225-3376", expected: "Phone: (202) 225-3376"},
		{input: "", expected: ""},
	}

	for _, test := range cases {
		got := CleanText(test.input)
		if diff := cmp.Diff(test.expected, got); diff != "" {
			t.Fatal(diff)
		}
	}
}
