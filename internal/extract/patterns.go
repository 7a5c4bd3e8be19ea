package extract

import (
	"regexp"
	"strings"

	"github.com/spec-kit/parts-assistant/internal/domain"
)

// rule is one row of an ordered extraction table. group selects the capture to
// keep (0 for the whole match); requireDigit rejects captures without a digit.
type rule struct {
	name         string
	re           *regexp.Regexp
	group        int
	requireDigit bool
	normalize    func(string) string
}

func brand(name, expr string) rule {
	return rule{name: name, re: regexp.MustCompile(`(?i)\b` + expr), normalize: strings.ToUpper}
}

var partNumberRules = []rule{
	brand("partselect", `PS\d{8}`),
	brand("whirlpool-wpw", `WPW\d{7,}`),
	brand("whirlpool-wp", `WP\d{7,}`),
	brand("whirlpool-w", `W\d{7,}`),
	brand("generic", `[A-Z]{2,3}\d{7,}`),
}

var modelNumberRules = []rule{
	brand("whirlpool-wdt", `WDT\d{3}[A-Z0-9]+`),
	brand("whirlpool-wrs", `WRS\d{3}[A-Z0-9]+`),
	brand("whirlpool-wrf", `WRF\d{3}[A-Z0-9]+`),
	brand("whirlpool-wrx", `WRX\d{3}[A-Z0-9]+`),
	brand("kitchenaid-kdt", `KDT[EM]?\d{3}[A-Z0-9]+`),
	brand("kitchenaid-krsc", `KRSC\d{3}[A-Z0-9]+`),
	brand("ge-gss", `GSS\d{2}[A-Z0-9]+`),
	brand("ge-gfe", `GFE\d{2}[A-Z0-9]+`),
	brand("ge-gdf", `GDF\d{3}[A-Z0-9]+`),
	brand("samsung-rf", `RF\d{2,3}[A-Z0-9]+`),
	brand("frigidaire-ffcd", `FFCD\d{4}[A-Z0-9]+`),
	brand("frigidaire-fgid", `FGID\d{4}[A-Z0-9]+`),
	brand("lg-ldf", `LDF\d{4}[A-Z0-9]+`),
	brand("bosch-shpm", `SHPM\d{2}[A-Z0-9]+`),
	brand("maytag-mfi", `MFI\d{4}[A-Z0-9]+`),
	brand("whirlpool-ed", `ED\d[A-Z0-9]+`),
	brand("lg-lrmvs", `LRMVS\d{4}[A-Z0-9]+`),
	{
		name:         "model-cue",
		re:           regexp.MustCompile(`(?i)(?:model(?:\s+(?:number|#|no\.?))?\s*(?:is)?|for\s+model)\s*[:\s]?\s*([A-Z0-9][A-Z0-9-]{4,})`),
		group:        1,
		requireDigit: true,
		normalize:    strings.ToUpper,
	},
	{
		name:         "my-appliance-cue",
		re:           regexp.MustCompile(`(?i)my\s+(?:model(?:\s+number)?|appliance)\s+(?:is\s+)?([A-Z0-9][A-Z0-9-]{4,})`),
		group:        1,
		requireDigit: true,
		normalize:    strings.ToUpper,
	},
}

// looseModelRule matches upper-case alphanumeric codes with no cue. Case-sensitive.
var looseModelRule = rule{
	name:      "loose-code",
	re:        regexp.MustCompile(`\b[A-Z]{2,5}\d{3,}[A-Z0-9-]*\b`),
	normalize: strings.ToUpper,
}

var (
	orderNumberRe       = regexp.MustCompile(`(?i)\bPS-\d{4}-\d{5}\b`)
	orderNumberAnswerRe = regexp.MustCompile(`(?i)^(?:PS)?\s*-?\s*(\d{4})\s*-?\s*(\d{5})$`)
)

type categoryKeywords struct {
	category domain.Category
	keywords []string
}

// categoryTable is checked in order, so a message matching both lists resolves
// to refrigerator.
var categoryTable = []categoryKeywords{
	{
		category: domain.CategoryRefrigerator,
		keywords: []string{
			"water filter", "ice maker", "ice machine", "evaporator", "defrost",
			"crisper", "freezer", "fridge", "refrigerator", "refridgerator",
			"condenser fan", "compressor", "door shelf", "shelf bin",
			"ice dispenser", "ice tray", "cold",
		},
	},
	{
		category: domain.CategoryDishwasher,
		keywords: []string{
			"spray arm", "upper spray", "lower spray", "rack adjuster",
			"door latch", "drain pump", "pump motor", "detergent dispenser",
			"float switch", "heating element", "silverware basket", "rack assembly",
			"dishwasher", "dishes", "wash cycle", "rinse",
		},
	},
}

func (r rule) find(text string) (string, bool) {
	for _, m := range r.re.FindAllStringSubmatch(text, -1) {
		val := m[r.group]
		if r.requireDigit && !strings.ContainsAny(val, "0123456789") {
			continue
		}
		return r.normalize(val), true
	}
	return "", false
}

func firstMatch(rules []rule, text string) (string, bool) {
	for _, r := range rules {
		if val, ok := r.find(text); ok {
			return val, true
		}
	}
	return "", false
}
