package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestProcFrequency(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   float64
		wantOK bool
	}{
		{name: "intel with unit", input: "Intel Core i5 2.4 ГГц", want: 2.4, wantOK: true},
		{name: "comma decimal", input: "AMD Ryzen 5 3,3 ГГц", want: 3.3, wantOK: true},
		{name: "no unit", input: "Intel Core i5", wantOK: false},
		{name: "wrong unit", input: "Apple M1 2400 МГц", wantOK: false},
		{name: "unit only", input: "ГГц", wantOK: false},
		{name: "empty", input: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ProcFrequency(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ProcFrequency(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Fatalf("ProcFrequency(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestProcName(t *testing.T) {
	popular := map[string]struct{}{"Intel Core i5": {}, "AMD Ryzen": {}}

	tests := []struct {
		name    string
		input   string
		popular map[string]struct{}
		want    string
	}{
		{name: "intel core keeps three tokens", input: "Intel Core i5 1135G7 2.4 ГГц", want: "Intel Core i5"},
		{name: "other keeps two tokens", input: "AMD Ryzen 5 5500U", want: "AMD Ryzen"},
		{name: "single token", input: "Intel", want: "Intel"},
		{name: "short intel core", input: "Intel Core", want: "Intel Core"},
		{name: "popular kept", input: "Intel Core i5 1235U", popular: popular, want: "Intel Core i5"},
		{name: "unpopular collapses", input: "Intel Core i9 13900H", popular: popular, want: "Intel"},
		{name: "unpopular vendor", input: "Apple M2 Pro", popular: popular, want: "Apple"},
		{name: "empty", input: "", popular: popular, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ProcName(tt.input, tt.popular); got != tt.want {
				t.Fatalf("ProcName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestProcBrand(t *testing.T) {
	if got := ProcBrand("Intel Core i5"); got != "intel" {
		t.Fatalf("ProcBrand = %q, want intel", got)
	}
	if got := ProcBrand(""); got != "" {
		t.Fatalf("ProcBrand(empty) = %q, want empty", got)
	}
}

func TestPopularNames(t *testing.T) {
	names := make([]string, 0, 100)
	for i := 0; i < 90; i++ {
		names = append(names, "Intel Core i5")
	}
	for i := 0; i < 5; i++ {
		names = append(names, "AMD Ryzen")
	}
	for i := 0; i < 5; i++ {
		names = append(names, "")
	}

	got := PopularNames(names, 0.05)
	want := map[string]struct{}{"Intel Core i5": {}, "AMD Ryzen": {}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("popular names mismatch (-want +got):\n%s", diff)
	}

	got = PopularNames(names, 0.06)
	if _, ok := got["AMD Ryzen"]; ok {
		t.Fatalf("AMD Ryzen share is 5/95 and should not be popular above 0.06")
	}
}

func TestVideocard(t *testing.T) {
	tests := []struct {
		input      string
		normalized string
		memory     float64
		memoryOK   bool
		family     string
	}{
		{input: "", normalized: Integrated, memory: 0, memoryOK: true, family: Integrated},
		{input: "Intel Iris Xe Graphics", normalized: Integrated, memory: 0, memoryOK: true, family: Integrated},
		{input: "AMD UHD Graphics 620", normalized: Integrated, memory: 0, memoryOK: true, family: Integrated},
		{input: "NVIDIA GeForce RTX 3060 6GB", normalized: "NVIDIA GeForce RTX 3060 6GB", memory: 6, memoryOK: true, family: "GeForce RTX"},
		{input: "NVIDIA GeForce GTX 1650 4GB", normalized: "NVIDIA GeForce GTX 1650 4GB", memory: 4, memoryOK: true, family: "GeForce GTX"},
		{input: "NVIDIA GeForce MX350", normalized: "NVIDIA GeForce MX350", memoryOK: false, family: "GeForce MX"},
		{input: "AMD Radeon RX 6500M 4GB", normalized: "AMD Radeon RX 6500M 4GB", memory: 4, memoryOK: true, family: "Radeon"},
		{input: "Apple M1 8-core", normalized: "Apple M1 8-core", memoryOK: false, family: "Apple M1 8-core"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			normalized := NormalizeVideocard(tt.input)
			if normalized != tt.normalized {
				t.Fatalf("NormalizeVideocard(%q) = %q, want %q", tt.input, normalized, tt.normalized)
			}
			memory, ok := VideoMemory(normalized)
			if ok != tt.memoryOK || (ok && memory != tt.memory) {
				t.Fatalf("VideoMemory(%q) = %v/%v, want %v/%v", normalized, memory, ok, tt.memory, tt.memoryOK)
			}
			if got := VideocardFamily(normalized); got != tt.family {
				t.Fatalf("VideocardFamily(%q) = %q, want %q", normalized, got, tt.family)
			}
		})
	}
}

func TestVideocardFamilyFirstMatchWins(t *testing.T) {
	got := VideocardFamily("NVIDIA GeForce RTX 3050 4GB / AMD Radeon 610M")
	if got != "GeForce RTX" {
		t.Fatalf("VideocardFamily(hybrid) = %q, want GeForce RTX", got)
	}
}

func TestScreenSize(t *testing.T) {
	tests := []struct {
		input  string
		want   float64
		wantOK bool
	}{
		{input: `15.6"`, want: 15, wantOK: true},
		{input: `13.3" (33.8 см)`, want: 13, wantOK: true},
		{input: "14", want: 14, wantOK: true},
		{input: "", wantOK: false},
		{input: `большой"`, wantOK: false},
	}

	for _, tt := range tests {
		got, ok := ScreenSize(tt.input)
		if ok != tt.wantOK || (ok && got != tt.want) {
			t.Fatalf("ScreenSize(%q) = %v/%v, want %v/%v", tt.input, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestVolumeToNumber(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{input: "1 ТБ", want: 1024},
		{input: "2 тб", want: 2048},
		{input: "512 ГБ", want: 512},
		{input: "256", want: 256},
		{input: "", want: 0},
		{input: "нет", want: 0},
	}

	for _, tt := range tests {
		if got := VolumeToNumber(tt.input); got != tt.want {
			t.Fatalf("VolumeToNumber(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestLeadingNumber(t *testing.T) {
	if got, ok := LeadingNumber("16 ГБ"); !ok || got != 16 {
		t.Fatalf("LeadingNumber(16 ГБ) = %v/%v", got, ok)
	}
	if _, ok := LeadingNumber("много"); ok {
		t.Fatalf("LeadingNumber should reject non-numeric input")
	}
}

func TestCanonicalMaterial(t *testing.T) {
	tests := map[string]string{
		"алюминий":           MaterialMetal,
		"металл/пластик":     MaterialMetal,
		"магниевый сплав":    MaterialMetal,
		"пластик":            MaterialPlastic,
		"поликарбонат":       MaterialPlastic,
		"углеродное волокно": MaterialPlastic,
		"стекло":             "стекло",
		"":                   "",
	}

	for input, want := range tests {
		if got := CanonicalMaterial(input); got != want {
			t.Fatalf("CanonicalMaterial(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestBatteryLife(t *testing.T) {
	if got, ok := BatteryLife("до 10 ч"); !ok || got != 10 {
		t.Fatalf("BatteryLife = %v/%v, want 10/true", got, ok)
	}
	if got, ok := BatteryLife("до 7.5 ч"); !ok || got != 7.5 {
		t.Fatalf("BatteryLife = %v/%v, want 7.5/true", got, ok)
	}
	if _, ok := BatteryLife(""); ok {
		t.Fatalf("empty battery life should be missing")
	}
	if _, ok := BatteryLife("долго"); ok {
		t.Fatalf("single token battery life should be missing")
	}
}

func TestCollapseRare(t *testing.T) {
	values := make([]string, 0, 100)
	for i := 0; i < 96; i++ {
		values = append(values, "a")
	}
	for i := 0; i < 4; i++ {
		values = append(values, "b")
	}

	collapsed := CollapseRare(values, 0.05, Other)
	for i, v := range collapsed[96:] {
		if v != Other {
			t.Fatalf("value %d = %q, want %q at threshold 0.05", 96+i, v, Other)
		}
	}
	if collapsed[0] != "a" {
		t.Fatalf("frequent value should be kept, got %q", collapsed[0])
	}

	kept := CollapseRare(values, 0.03, Other)
	if diff := cmp.Diff(values, kept); diff != "" {
		t.Fatalf("threshold 0.03 should keep all values (-want +got):\n%s", diff)
	}
	if values[96] != "b" {
		t.Fatalf("input slice must not be modified")
	}
}

func TestCollapseRareIgnoresMissing(t *testing.T) {
	values := []string{"", "", "", "a", "a", "b"}
	got := CollapseRare(values, 0.4, Other)
	want := []string{"", "", "", "a", "a", Other}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("collapse mismatch (-want +got):\n%s", diff)
	}
}

func TestLower(t *testing.T) {
	if got := Lower("GeForce RTX"); got != "geforce rtx" {
		t.Fatalf("Lower = %q", got)
	}
	if got := Lower("Металл"); got != "металл" {
		t.Fatalf("Lower = %q", got)
	}
}
