// Package dialogue collects laptop features through a question-and-answer
// state machine and asks a predictor for the price range.
package dialogue

// State is a step of the estimate dialogue.
type State int

const (
	MainMenu State = iota
	ProcessorBrand
	ProcessorSeries
	ProcessorCores
	VideocardType
	VideocardMemory
	ScreenDiagonal
	SSDVolume
	RAMVolume
	HDMIPort
	Material
	BatteryLife
	FeaturesCollected
)

var stateNames = map[State]string{
	MainMenu:          "main_menu",
	ProcessorBrand:    "processor_brand",
	ProcessorSeries:   "processor_series",
	ProcessorCores:    "processor_cores",
	VideocardType:     "videocard_type",
	VideocardMemory:   "videocard_memory",
	ScreenDiagonal:    "screen_diagonal",
	SSDVolume:         "ssd_volume",
	RAMVolume:         "ram_volume",
	HDMIPort:          "hdmi_port",
	Material:          "material",
	BatteryLife:       "battery_life",
	FeaturesCollected: "features_collected",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Commands understood in every state or in the main menu.
const (
	CommandStart    = "/start"
	CommandRestart  = "/restart"
	CommandEstimate = "/estimate"
	CommandHelp     = "/help"
	CommandAbout    = "/about"
)

// Answer choices offered as keyboard buttons.
var (
	MenuChoices  = []string{CommandEstimate, CommandHelp, CommandAbout}
	BrandChoices = []string{"Apple", "HP", "MSI", "Acer", "Lenovo", "ASUS", "Other"}
	AppleSeries  = []string{"M1", "M2"}
	OtherSeries  = []string{
		"intel core i3",
		"intel core i5",
		"intel core i7",
		"intel pentium",
		"intel celeron",
		"intel core",
		"zhaoxin",
		"qualcomm",
		"AMD ryzen",
		"other",
	}
	VideocardChoices = []string{"интегрированная", "geforce rtx", "geforce mx", "geforce gtx", "radeon", "other"}
	HDMIYes          = "Да, как без него вообще жить можно!"
	HDMINo           = "Не, без него обойдусь..."
	HDMIChoices      = []string{HDMIYes, HDMINo}
	MaterialChoices  = []string{"металл", "пластик"}
)

// Inclusive bounds of numeric answers.
type bounds struct{ lo, hi int }

var (
	coresBounds   = bounds{1, 14}
	memoryBounds  = bounds{1, 16}
	screenBounds  = bounds{1, 17}
	ssdBounds     = bounds{0, 8192}
	ramBounds     = bounds{0, 64}
	batteryBounds = bounds{3, 29}
)
