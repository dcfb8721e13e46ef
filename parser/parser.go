// Package parser turns raw characteristic strings into typed feature values.
package parser

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category labels produced by the parsers.
const (
	Integrated      = "интегрированная"
	Other           = "other"
	MaterialMetal   = "металл"
	MaterialPlastic = "пластик"
)

const (
	unitGHz      = "ГГц"
	unitTerabyte = "тб"
	suffixGB     = "GB"
	inchMark     = `"`
)

var (
	videocardFamilies = []string{"GeForce RTX", "GeForce GTX", "GeForce MX", "Radeon"}
	integratedMarkers = []string{"Intel", "UHD Graphics"}

	metalPattern   = regexp.MustCompile(`алюмин|металл|сплав|магний`)
	plasticPattern = regexp.MustCompile(`пластик|углерод|поликарб`)
)

// Lower lower-cases a label using Russian case rules.
func Lower(s string) string {
	return cases.Lower(language.Russian).String(s)
}

// ProcFrequency reads "<number> ГГц" from the tail of a processor string.
func ProcFrequency(proc string) (float64, bool) {
	values := strings.Fields(proc)
	if len(values) < 2 || values[len(values)-1] != unitGHz {
		return 0, false
	}
	freq, err := parseNumber(values[len(values)-2])
	if err != nil {
		return 0, false
	}
	return freq, true
}

// ProcBrand returns the lower-cased first token of a processor string.
func ProcBrand(proc string) string {
	values := strings.Fields(proc)
	if len(values) == 0 {
		return ""
	}
	return Lower(values[0])
}

// ProcName derives a processor family name: three tokens for "Intel Core",
// two otherwise. With a non-nil popular set, names outside it collapse to the
// vendor token.
func ProcName(proc string, popular map[string]struct{}) string {
	values := strings.Fields(proc)
	if len(values) == 0 {
		return ""
	}

	n := 2
	if len(values) >= 2 && values[0] == "Intel" && values[1] == "Core" {
		n = 3
	}
	result := strings.Join(values[:min(n, len(values))], " ")

	if popular != nil {
		if _, ok := popular[result]; !ok {
			result = values[0]
		}
	}
	return result
}

// PopularNames returns the names whose share among non-empty values is
// strictly above threshold.
func PopularNames(names []string, threshold float64) map[string]struct{} {
	counts, total := frequencies(names)
	popular := make(map[string]struct{})
	for name, count := range counts {
		if float64(count)/float64(total) > threshold {
			popular[name] = struct{}{}
		}
	}
	return popular
}

// NormalizeVideocard maps missing and Intel graphics controllers to the
// integrated category.
func NormalizeVideocard(gpu string) string {
	if gpu == "" {
		return Integrated
	}
	for _, marker := range integratedMarkers {
		if strings.Contains(gpu, marker) {
			return Integrated
		}
	}
	return gpu
}

// VideoMemory extracts the dedicated memory size from a "... 8GB" controller
// string. Integrated controllers have no dedicated memory.
func VideoMemory(gpu string) (float64, bool) {
	if gpu == "" || gpu == Integrated {
		return 0, true
	}
	values := strings.Fields(gpu)
	if len(values) == 0 || !strings.HasSuffix(values[len(values)-1], suffixGB) {
		return 0, false
	}
	memory, err := strconv.Atoi(strings.ReplaceAll(values[len(values)-1], suffixGB, ""))
	if err != nil {
		return 0, false
	}
	return float64(memory), true
}

// VideocardFamily canonicalizes a controller string into a known family.
// Families are checked in order and the first match wins.
func VideocardFamily(gpu string) string {
	for _, family := range videocardFamilies {
		if strings.Contains(gpu, family) {
			return family
		}
	}
	return gpu
}

// ScreenSize reads the diagonal in whole inches from values like `15.6"`.
func ScreenSize(v string) (float64, bool) {
	if v == "" {
		return 0, false
	}
	head, _, _ := strings.Cut(v, inchMark)
	size, err := parseNumber(strings.TrimSpace(head))
	if err != nil {
		return 0, false
	}
	return float64(int(size)), true
}

// VolumeToNumber converts "<number> <unit>" to gigabytes. Empty or
// unreadable values count as zero.
func VolumeToNumber(v string) float64 {
	values := strings.Fields(v)
	if len(values) == 0 {
		return 0
	}
	num, err := parseNumber(values[0])
	if err != nil {
		return 0
	}
	if len(values) > 1 && Lower(values[1]) == unitTerabyte {
		return 1024 * num
	}
	return num
}

// LeadingNumber parses the first token of v.
func LeadingNumber(v string) (float64, bool) {
	values := strings.Fields(v)
	if len(values) == 0 {
		return 0, false
	}
	num, err := parseNumber(values[0])
	if err != nil {
		return 0, false
	}
	return num, true
}

// CanonicalMaterial maps case materials onto metal or plastic. Other values
// pass through unchanged.
func CanonicalMaterial(v string) string {
	switch {
	case v == "":
		return v
	case metalPattern.MatchString(v):
		return MaterialMetal
	case plasticPattern.MatchString(v):
		return MaterialPlastic
	default:
		return v
	}
}

// BatteryLife reads the hours from descriptions like "до 10 ч".
func BatteryLife(v string) (float64, bool) {
	values := strings.Fields(v)
	if len(values) < 2 {
		return 0, false
	}
	hours, err := parseNumber(values[1])
	if err != nil {
		return 0, false
	}
	return hours, true
}

// CollapseRare relabels values whose share among non-empty values is below
// threshold. Empty values are missing and left untouched.
func CollapseRare(values []string, threshold float64, replaceWith string) []string {
	counts, total := frequencies(values)
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = v
		if v == "" {
			continue
		}
		if float64(counts[v])/float64(total) < threshold {
			out[i] = replaceWith
		}
	}
	return out
}

func frequencies(values []string) (map[string]int, int) {
	counts := make(map[string]int)
	total := 0
	for _, v := range values {
		if v == "" {
			continue
		}
		counts[v]++
		total++
	}
	return counts, total
}

func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
}
