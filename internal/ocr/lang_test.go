package ocr

import "testing"

func TestTesseractLanguage(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{input: "eng", expected: "eng"},
		{input: "en", expected: "eng"},
		{input: "zh-Hant", expected: "chi_tra"},
		{input: "zh-Hans", expected: "chi_sim"},
		{input: "fra", expected: "fra"},
		{input: "de", expected: "deu"},
		{input: "eng+zh-Hant", expected: "eng+chi_tra"},
		{input: "klingon", expected: "klingon"},
		{input: "", expected: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			if got := TesseractLanguage(tc.input); got != tc.expected {
				t.Errorf("TesseractLanguage(%q) = %q, expected %q", tc.input, got, tc.expected)
			}
		})
	}
}
