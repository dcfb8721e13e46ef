package pipeline

import (
	"cmp"
	"maps"
	"slices"

	"github.com/aluiziolira/go-scrape-laptops/models"
)

// impute fills missing values and returns the number of cells filled per
// column. All statistics are taken before any cell of their column is
// filled. Rows with an empty grouping key, or whose group has no observed
// values, stay missing except where a fallback is given.
func impute(rows []*models.CleanRow) map[string]int {
	filled := make(map[string]int)

	procBrands := keys(rows, func(r *models.CleanRow) string { return r.ProcBrand })
	filled[ColProcFreq] = fillGroupMean(procBrands, fieldPtrs(rows, func(r *models.CleanRow) **float64 { return &r.ProcFreq }))
	filled[ColProcCount] = fillGroupMean(procBrands, fieldPtrs(rows, func(r *models.CleanRow) **float64 { return &r.ProcCount }))

	memory := fieldPtrs(rows, func(r *models.CleanRow) **float64 { return &r.VideocardMemory })
	filled[ColVideocardMemory] = fillGroupMode(keys(rows, func(r *models.CleanRow) string { return r.Videocard }), memory)
	filled[ColVideocardMemory] += fillConstant(memory, 0)

	screen := fieldPtrs(rows, func(r *models.CleanRow) **float64 { return &r.Screen })
	if common, ok := mode(present(screen)); ok {
		filled[ColScreen] = fillConstant(screen, common)
	}

	materials := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.Material != "" {
			materials = append(materials, row.Material)
		}
	}
	if common, ok := mode(materials); ok {
		for _, row := range rows {
			if row.Material == "" {
				row.Material = common
				filled[ColMaterial]++
			}
		}
	}

	brands := keys(rows, func(r *models.CleanRow) string { return r.BrandName })
	filled[ColBatteryLife] = fillGroupMean(brands, fieldPtrs(rows, func(r *models.CleanRow) **float64 { return &r.BatteryLife }))

	return filled
}

func keys(rows []*models.CleanRow, key func(*models.CleanRow) string) []string {
	out := make([]string, len(rows))
	for i, row := range rows {
		out[i] = key(row)
	}
	return out
}

func fieldPtrs(rows []*models.CleanRow, field func(*models.CleanRow) **float64) []**float64 {
	out := make([]**float64, len(rows))
	for i, row := range rows {
		out[i] = field(row)
	}
	return out
}

func present(cells []**float64) []float64 {
	out := make([]float64, 0, len(cells))
	for _, cell := range cells {
		if *cell != nil {
			out = append(out, **cell)
		}
	}
	return out
}

func groupValues(groups []string, cells []**float64) map[string][]float64 {
	values := make(map[string][]float64)
	for i, cell := range cells {
		if groups[i] == "" || *cell == nil {
			continue
		}
		values[groups[i]] = append(values[groups[i]], **cell)
	}
	return values
}

func fillGroupMean(groups []string, cells []**float64) int {
	stats := make(map[string]float64)
	for group, values := range groupValues(groups, cells) {
		stats[group] = mean(values)
	}
	return fillFromGroups(groups, cells, stats)
}

func fillGroupMode(groups []string, cells []**float64) int {
	stats := make(map[string]float64)
	for group, values := range groupValues(groups, cells) {
		if common, ok := mode(values); ok {
			stats[group] = common
		}
	}
	return fillFromGroups(groups, cells, stats)
}

func fillFromGroups(groups []string, cells []**float64, stats map[string]float64) int {
	n := 0
	for i, cell := range cells {
		if *cell != nil {
			continue
		}
		if v, ok := stats[groups[i]]; ok {
			*cell = models.Float(v)
			n++
		}
	}
	return n
}

func fillConstant(cells []**float64, v float64) int {
	n := 0
	for _, cell := range cells {
		if *cell == nil {
			*cell = models.Float(v)
			n++
		}
	}
	return n
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// mode returns the most frequent value, the smallest one on ties.
func mode[T cmp.Ordered](values []T) (T, bool) {
	var best T
	if len(values) == 0 {
		return best, false
	}
	counts := make(map[T]int)
	for _, v := range values {
		counts[v]++
	}
	bestCount := 0
	for _, v := range slices.Sorted(maps.Keys(counts)) {
		if counts[v] > bestCount {
			best, bestCount = v, counts[v]
		}
	}
	return best, true
}

func countMissing(rows []*models.CleanRow) map[string]int {
	missing := make(map[string]int)
	for _, row := range rows {
		for column, cell := range map[string]*float64{
			ColPriceLog:        row.PriceLog,
			ColProcFreq:        row.ProcFreq,
			ColProcCount:       row.ProcCount,
			ColVideocardMemory: row.VideocardMemory,
			ColScreen:          row.Screen,
			ColRAM:             row.RAM,
			ColBatteryLife:     row.BatteryLife,
		} {
			if cell == nil {
				missing[column]++
			}
		}
		if row.Material == "" {
			missing[ColMaterial]++
		}
	}
	return missing
}
