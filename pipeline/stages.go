package pipeline

import (
	"math"

	"github.com/aluiziolira/go-scrape-laptops/models"
	"github.com/aluiziolira/go-scrape-laptops/parser"
)

// Raw characteristic keys read by the stages.
const (
	RawProcessor = "Процессор_Процессор"
	RawCores     = "Процессор_Количество ядер"
	RawVideocard = "Видеокарта_Графический контроллер"
	RawScreen    = "Экран_Диагональ экрана"
	RawSSD       = "Жесткий диск_Объем SSD"
	RawRAM       = "Оперативная память_Оперативная память (RAM)"
	RawHDMI      = "Интерфейсы_Выход HDMI"
	RawMaterial  = "Корпус_Материал корпуса"
	RawBattery   = "Электропитание_Работа от аккумулятора"
)

// Clean column names in output order.
const (
	ColBrandName       = "brand_name"
	ColPriceLog        = "priceLog"
	ColProcFreq        = "proc_freq"
	ColProcBrand       = "proc_brand"
	ColProcName        = "proc_name"
	ColProcCount       = "proc_count"
	ColVideocard       = "videocard"
	ColVideocardMemory = "videocard_memory"
	ColScreen          = "screen"
	ColSSDVolume       = "ssd_volume"
	ColRAM             = "ram"
	ColHDMI            = "hdmi"
	ColMaterial        = "material"
	ColBatteryLife     = "battery_life"
)

// Columns lists the clean table header.
var Columns = []string{
	ColBrandName, ColPriceLog, ColProcFreq, ColProcBrand, ColProcName,
	ColProcCount, ColVideocard, ColVideocardMemory, ColScreen, ColSSDVolume,
	ColRAM, ColHDMI, ColMaterial, ColBatteryLife,
}

type table struct {
	raw []models.RawRow
	out []*models.CleanRow
}

func newTable(rows []models.RawRow) *table {
	out := make([]*models.CleanRow, len(rows))
	for i := range out {
		out[i] = &models.CleanRow{}
	}
	return &table{raw: rows, out: out}
}

// column returns the raw values of key, with "" for missing cells.
func (t *table) column(key string) []string {
	values := make([]string, len(t.raw))
	for i, row := range t.raw {
		values[i], _ = row.Value(key)
	}
	return values
}

type stage struct {
	name  string
	apply func(*table, Options)
}

// Parsing stages. Imputation runs after all of them.
var stages = []stage{
	{"brand", cleanBrand},
	{"processor", cleanProcessor},
	{"cores", cleanCores},
	{"videocard", cleanVideocard},
	{"screen", cleanScreen},
	{"ssd", cleanSSD},
	{"ram", cleanRAM},
	{"hdmi", cleanHDMI},
	{"material", cleanMaterial},
	{"battery", cleanBattery},
	{"price", cleanPrice},
}

func cleanBrand(t *table, opts Options) {
	brands := parser.CollapseRare(t.column(models.KeyBrand), opts.RareThreshold, parser.Other)
	for i, brand := range brands {
		t.out[i].BrandName = parser.Lower(brand)
	}
}

func cleanProcessor(t *table, opts Options) {
	procs := t.column(RawProcessor)

	names := make([]string, len(procs))
	for i, proc := range procs {
		names[i] = parser.ProcName(proc, nil)
	}
	popular := parser.PopularNames(names, opts.PopularProcThreshold)

	for i, proc := range procs {
		row := t.out[i]
		if freq, ok := parser.ProcFrequency(proc); ok {
			row.ProcFreq = models.Float(freq)
		}
		row.ProcBrand = parser.ProcBrand(proc)
		row.ProcName = parser.Lower(parser.ProcName(proc, popular))
	}
}

func cleanCores(t *table, _ Options) {
	for i, v := range t.column(RawCores) {
		if n, ok := parser.LeadingNumber(v); ok {
			t.out[i].ProcCount = models.Float(n)
		}
	}
}

func cleanVideocard(t *table, opts Options) {
	gpus := t.column(RawVideocard)
	families := make([]string, len(gpus))
	for i, gpu := range gpus {
		gpu = parser.NormalizeVideocard(gpu)
		if memory, ok := parser.VideoMemory(gpu); ok {
			t.out[i].VideocardMemory = models.Float(memory)
		}
		families[i] = parser.VideocardFamily(gpu)
	}

	families = parser.CollapseRare(families, opts.VideocardRareThreshold, parser.Other)
	for i, family := range families {
		t.out[i].Videocard = parser.Lower(family)
	}
}

func cleanScreen(t *table, _ Options) {
	for i, v := range t.column(RawScreen) {
		if size, ok := parser.ScreenSize(v); ok {
			t.out[i].Screen = models.Float(size)
		}
	}
}

func cleanSSD(t *table, _ Options) {
	for i, v := range t.column(RawSSD) {
		t.out[i].SSDVolume = parser.VolumeToNumber(v)
	}
}

func cleanRAM(t *table, _ Options) {
	for i, v := range t.column(RawRAM) {
		if ram, ok := parser.LeadingNumber(v); ok {
			t.out[i].RAM = models.Float(ram)
		}
	}
}

func cleanHDMI(t *table, _ Options) {
	for i, row := range t.raw {
		t.out[i].HDMI = row.Has(RawHDMI)
	}
}

func cleanMaterial(t *table, _ Options) {
	for i, v := range t.column(RawMaterial) {
		t.out[i].Material = parser.CanonicalMaterial(v)
	}
}

func cleanBattery(t *table, _ Options) {
	for i, v := range t.column(RawBattery) {
		if hours, ok := parser.BatteryLife(v); ok {
			t.out[i].BatteryLife = models.Float(hours)
		}
	}
}

func cleanPrice(t *table, _ Options) {
	for i, row := range t.raw {
		if row.Price.BasePrice != nil {
			t.out[i].PriceLog = models.Float(math.Log1p(*row.Price.BasePrice))
		}
	}
}
