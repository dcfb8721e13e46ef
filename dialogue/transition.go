package dialogue

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aluiziolira/go-scrape-laptops/models"
	"github.com/aluiziolira/go-scrape-laptops/parser"
)

// Data holds the answers collected so far.
type Data struct {
	ProcessorBrand  string
	ProcessorSeries string
	ProcessorCores  int
	VideocardType   string
	VideocardMemory int
	ScreenDiagonal  float64
	SSDVolume       int
	RAMVolume       int
	HDMI            bool
	Material        string
	BatteryLife     int
}

// Reply is the bot's answer: a message and the buttons to offer.
type Reply struct {
	Text    string
	Choices []string
}

const (
	textWelcome  = "Welcome to our bot!"
	textHelp     = "Команда /estimate задаст несколько вопросов о ноутбуке и оценит его цену. /restart возвращает в главное меню."
	textAbout    = "Бот оценивает стоимость ноутбука по модели, обученной на каталоге интернет-магазина."
	textBrand    = "Выберите бренд вашего ноутбука"
	textSeries   = "Выберите семейство вашего процессора"
	textCores    = "Введите количество ядер процессора (от 1 до 14)"
	textGPU      = "Выберите производителя видеокарты"
	textMemory   = "Введите количество видеопамяти в ГБ (от 1 до 16)"
	textScreen   = "Введите размер диагонали экрана в дюймах (от 10 до 17)"
	textSSD      = "Введите размер SSD диска в ГБ (если его не должно быть - введите 0)"
	textSSDLarge = "8ТБ конечно круто, но пока таких ноутов нет) Введи меньший объем диска!"
	textRAM      = "Введите объем оперативной памяти в ГБ (от 2 до 64)"
	textHDMI     = "Нужен ли тебе HDMI порт?"
	textMaterial = "Выберите материал корпуса вашего ноута"
	textBattery  = "Выберите желаемую продолжительность автономной работы в часах (от 3 до 29)"
	textBadInput = "Неверный формат числа! "
	textNoChoice = "Выберите один из вариантов: "
)

// Transition applies one user input to the dialogue. It never blocks and
// has no side effects; the caller acts on FeaturesCollected.
func Transition(state State, data Data, input string) (State, Data, Reply) {
	input = strings.TrimSpace(input)
	if input == CommandStart || input == CommandRestart {
		return MainMenu, Data{}, Reply{Text: textWelcome, Choices: MenuChoices}
	}

	switch state {
	case MainMenu:
		switch input {
		case CommandEstimate:
			return ProcessorBrand, Data{}, Reply{Text: textBrand, Choices: BrandChoices}
		case CommandHelp:
			return MainMenu, data, Reply{Text: textHelp, Choices: MenuChoices}
		case CommandAbout:
			return MainMenu, data, Reply{Text: textAbout, Choices: MenuChoices}
		}
		return MainMenu, data, Reply{Text: textWelcome, Choices: MenuChoices}

	case ProcessorBrand:
		brand, ok := choose(input, BrandChoices)
		if !ok {
			return state, data, retryChoice(textBrand, BrandChoices)
		}
		data.ProcessorBrand = brand
		return ProcessorSeries, data, Reply{Text: textSeries, Choices: seriesChoices(brand)}

	case ProcessorSeries:
		series, ok := choose(input, seriesChoices(data.ProcessorBrand))
		if !ok {
			return state, data, retryChoice(textSeries, seriesChoices(data.ProcessorBrand))
		}
		data.ProcessorSeries = series
		return ProcessorCores, data, Reply{Text: textCores}

	case ProcessorCores:
		n, ok := parseCount(input, coresBounds)
		if !ok {
			return state, data, Reply{Text: textBadInput + textCores}
		}
		data.ProcessorCores = n
		return VideocardType, data, Reply{Text: textGPU, Choices: VideocardChoices}

	case VideocardType:
		gpu, ok := choose(input, VideocardChoices)
		if !ok {
			return state, data, retryChoice(textGPU, VideocardChoices)
		}
		data.VideocardType = gpu
		if gpu == parser.Integrated {
			data.VideocardMemory = 0
			return ScreenDiagonal, data, Reply{Text: textScreen}
		}
		return VideocardMemory, data, Reply{Text: textMemory}

	case VideocardMemory:
		n, ok := parseCount(input, memoryBounds)
		if !ok {
			return state, data, Reply{Text: textBadInput + textMemory}
		}
		data.VideocardMemory = n
		return ScreenDiagonal, data, Reply{Text: textScreen}

	case ScreenDiagonal:
		n, ok := parseCount(input, screenBounds)
		if !ok {
			return state, data, Reply{Text: textBadInput + textScreen}
		}
		data.ScreenDiagonal = float64(n)
		return SSDVolume, data, Reply{Text: textSSD}

	case SSDVolume:
		n, ok := parseCount(input, ssdBounds)
		if !ok {
			if isDigits(input) {
				return state, data, Reply{Text: textSSDLarge}
			}
			return state, data, Reply{Text: textBadInput + textSSD}
		}
		data.SSDVolume = n
		return RAMVolume, data, Reply{Text: textRAM}

	case RAMVolume:
		n, ok := parseCount(input, ramBounds)
		if !ok {
			return state, data, Reply{Text: textBadInput + textRAM}
		}
		data.RAMVolume = n
		return HDMIPort, data, Reply{Text: textHDMI, Choices: HDMIChoices}

	case HDMIPort:
		answer, ok := choose(input, HDMIChoices)
		if !ok {
			return state, data, retryChoice(textHDMI, HDMIChoices)
		}
		data.HDMI = answer == HDMIYes
		return Material, data, Reply{Text: textMaterial, Choices: MaterialChoices}

	case Material:
		material, ok := choose(input, MaterialChoices)
		if !ok {
			return state, data, retryChoice(textMaterial, MaterialChoices)
		}
		data.Material = material
		return BatteryLife, data, Reply{Text: textBattery}

	case BatteryLife:
		n, ok := parseCount(input, batteryBounds)
		if !ok {
			return state, data, Reply{Text: textBadInput + textBattery}
		}
		data.BatteryLife = n
		return FeaturesCollected, data, Reply{Text: data.Summary()}
	}

	return MainMenu, Data{}, Reply{Text: textWelcome, Choices: MenuChoices}
}

// CleanRow converts the answers into a feature row of the clean table.
func (d Data) CleanRow() *models.CleanRow {
	brand := parser.Lower(d.ProcessorBrand)
	series := parser.Lower(d.ProcessorSeries)
	procName := series
	if brand == "apple" {
		procName = brand + " " + series
	}
	procBrand, _, _ := strings.Cut(procName, " ")

	return &models.CleanRow{
		BrandName:       brand,
		ProcBrand:       procBrand,
		ProcName:        procName,
		ProcCount:       models.Float(float64(d.ProcessorCores)),
		Videocard:       d.VideocardType,
		VideocardMemory: models.Float(float64(d.VideocardMemory)),
		Screen:          models.Float(d.ScreenDiagonal),
		SSDVolume:       float64(d.SSDVolume),
		RAM:             models.Float(float64(d.RAMVolume)),
		HDMI:            d.HDMI,
		Material:        d.Material,
		BatteryLife:     models.Float(float64(d.BatteryLife)),
	}
}

// Summary lists the collected answers one per line.
func (d Data) Summary() string {
	var b strings.Builder
	for _, line := range []struct {
		key   string
		value any
	}{
		{"processor_brand", d.ProcessorBrand},
		{"processor_series", d.ProcessorSeries},
		{"processor_cores", d.ProcessorCores},
		{"videocard_type", d.VideocardType},
		{"videocard_memory", d.VideocardMemory},
		{"screen_diagonal", d.ScreenDiagonal},
		{"ssd_volume", d.SSDVolume},
		{"ram_volume", d.RAMVolume},
		{"hdmi_port", d.HDMI},
		{"material", d.Material},
		{"battery_life", d.BatteryLife},
	} {
		fmt.Fprintf(&b, "%s = %v\n", line.key, line.value)
	}
	return b.String()
}

func seriesChoices(brand string) []string {
	if brand == "Apple" {
		return AppleSeries
	}
	return OtherSeries
}

// choose matches input case-insensitively against choices and returns the
// canonical spelling.
func choose(input string, choices []string) (string, bool) {
	for _, choice := range choices {
		if strings.EqualFold(input, choice) {
			return choice, true
		}
	}
	return "", false
}

func retryChoice(prompt string, choices []string) Reply {
	return Reply{Text: textNoChoice + prompt, Choices: choices}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func parseCount(input string, b bounds) (int, bool) {
	if !isDigits(input) {
		return 0, false
	}
	n, err := strconv.Atoi(input)
	if err != nil || n < b.lo || n > b.hi {
		return 0, false
	}
	return n, true
}
