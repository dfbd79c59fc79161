package build

import "testing"

func TestNormalizePartName(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "AMD Ryzen 5 5600X", "AMD Ryzen 5 5600X"},
		{"trailingAnnotation", "AMD Ryzen 5 5600X (AMD)", "AMD Ryzen 5 5600X"},
		{"annotationWithSpaces", "Corsair Vengeance 16GB  (Corsair) ", "Corsair Vengeance 16GB"},
		{"innerParenthesesKept", "NZXT H510 (Mid Tower) Case", "NZXT H510 (Mid Tower) Case"},
		{"whitespaceOnly", "   ", ""},
		{"onlyAnnotation", "(AMD)", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := normalizePartName(tc.in); got != tc.want {
				t.Fatalf("normalizePartName(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
