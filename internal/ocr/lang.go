package ocr

import "strings"

// tesseractLanguages maps the language tags accepted on the command line to the
// traineddata names Tesseract expects.
var tesseractLanguages = map[string]string{
	"en":      "eng",
	"en-us":   "eng",
	"en-gb":   "eng",
	"fr":      "fra",
	"fr-fr":   "fra",
	"de":      "deu",
	"de-de":   "deu",
	"es":      "spa",
	"it":      "ita",
	"pt":      "por",
	"ja":      "jpn",
	"ko":      "kor",
	"ru":      "rus",
	"zh":      "chi_sim",
	"zh-cn":   "chi_sim",
	"zh-hans": "chi_sim",
	"zh-tw":   "chi_tra",
	"zh-hk":   "chi_tra",
	"zh-hant": "chi_tra",
}

// TesseractLanguage converts a language tag such as "zh-Hant" or "en" into a
// Tesseract language name. Lists joined with "+" are converted element-wise and
// unknown tags are returned untouched.
func TesseractLanguage(tag string) string {
	parts := strings.Split(tag, "+")
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if mapped, ok := tesseractLanguages[strings.ToLower(p)]; ok {
			p = mapped
		}
		parts[i] = p
	}
	return strings.Join(parts, "+")
}
