package predict

import (
	"math"

	"github.com/aluiziolira/go-scrape-laptops/models"
)

const minScale = 1e-6

type logPriceStat struct {
	mean  float64
	scale float64
}

// Baseline predicts the log-price mean and spread of the laptop's brand,
// falling back to the whole table for unseen brands.
type Baseline struct {
	brands map[string]logPriceStat
	global logPriceStat
}

// FitBaseline computes per-brand statistics from rows that carry a price.
func FitBaseline(rows []*models.CleanRow) (*Baseline, error) {
	byBrand := make(map[string][]float64)
	var all []float64
	for _, row := range rows {
		if row.PriceLog == nil {
			continue
		}
		byBrand[row.BrandName] = append(byBrand[row.BrandName], *row.PriceLog)
		all = append(all, *row.PriceLog)
	}
	if len(all) == 0 {
		return nil, ErrNoTrainingRows
	}

	b := &Baseline{
		brands: make(map[string]logPriceStat, len(byBrand)),
		global: describe(all),
	}
	for brand, values := range byBrand {
		b.brands[brand] = describe(values)
	}
	return b, nil
}

// PredictParams implements Regressor.
func (b *Baseline) PredictParams(row *models.CleanRow) (float64, float64, error) {
	stat, ok := b.brands[row.BrandName]
	if !ok {
		stat = b.global
	}
	return stat.mean, math.Log(stat.scale), nil
}

func describe(values []float64) logPriceStat {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(values))

	return logPriceStat{mean: mean, scale: max(math.Sqrt(variance), minScale)}
}
