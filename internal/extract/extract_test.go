package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/parts-assistant/internal/domain"
)

func TestModelNumberBrandPatterns(t *testing.T) {
	samples := map[string]string{
		"whirlpool-wdt":   "WDT780SAEM1",
		"whirlpool-wrs":   "WRS325SDHZ",
		"whirlpool-wrf":   "WRF555SDFZ",
		"whirlpool-wrx":   "WRX735SDHZ",
		"kitchenaid-kdt":  "KDTM354ESS",
		"kitchenaid-krsc": "KRSC503ESS",
		"ge-gss":          "GSS25GSHSS",
		"ge-gfe":          "GFE26JSMSS",
		"ge-gdf":          "GDF520PGJWW",
		"samsung-rf":      "RF28HMEDBSR",
		"frigidaire-ffcd": "FFCD2418US",
		"frigidaire-fgid": "FGID2466QF",
		"lg-ldf":          "LDF5545ST",
		"bosch-shpm":      "SHPM88Z75N",
		"maytag-mfi":      "MFI2570FEZ",
		"whirlpool-ed":    "ED5FHAXVQ",
		"lg-lrmvs":        "LRMVS3006S",
	}

	for _, r := range modelNumberRules {
		if r.group != 0 {
			continue
		}
		sample, ok := samples[r.name]
		require.True(t, ok, "no sample for rule %s", r.name)

		for _, text := range []string{
			"I have a " + sample + " at home",
			"I have a " + strings.ToLower(sample) + " at home",
		} {
			got, found := ModelNumber(text)
			require.True(t, found, "rule %s text %q", r.name, text)
			assert.Equal(t, sample, got)
		}
	}
}

func TestModelNumberCues(t *testing.T) {
	got, ok := ModelNumber("my model number is abc12345")
	require.True(t, ok)
	assert.Equal(t, "ABC12345", got)

	got, ok = ModelNumber("parts for model xy-9876Z")
	require.True(t, ok)
	assert.Equal(t, "XY-9876Z", got)

	got, ok = ModelNumber("my appliance is qq77889")
	require.True(t, ok)
	assert.Equal(t, "QQ77889", got)
}

func TestModelNumberNoFalsePositives(t *testing.T) {
	for _, text := range []string{
		"I need a new fridge door handle",
		"what model is compatible with this?",
		"Hello there, how are you?",
		"where do I find the model number",
		"",
	} {
		_, ok := ModelNumber(text)
		assert.False(t, ok, "text %q", text)
	}
}

func TestModelNumberLoose(t *testing.T) {
	got, ok := ModelNumberLoose("Does PS11752778 fit my ABCD1234X?", "PS11752778")
	require.True(t, ok)
	assert.Equal(t, "ABCD1234X", got)

	_, ok = ModelNumberLoose("PS11752778", "PS11752778")
	assert.False(t, ok)

	_, ok = ModelNumberLoose("is WPW10195416 any good", "")
	assert.False(t, ok)

	got, ok = ModelNumberLoose("Is PS11752778 compatible with WDT780SAEM1?", "PS11752778")
	require.True(t, ok)
	assert.Equal(t, "WDT780SAEM1", got)
}

func TestPartNumber(t *testing.T) {
	cases := map[string]string{
		"Is PS11752778 in stock?":     "PS11752778",
		"need wpw10195416 please":     "WPW10195416",
		"how to install W10712395":    "W10712395",
		"WP12345678 price":            "WP12345678",
		"what about ABC1234567 today": "ABC1234567",
	}
	for text, want := range cases {
		got, ok := PartNumber(text)
		require.True(t, ok, text)
		assert.Equal(t, want, got)
	}

	_, ok := PartNumber("part 12345 please")
	assert.False(t, ok)
}

func TestOrderNumber(t *testing.T) {
	got, ok := OrderNumber("where is order ps-2024-78542?")
	require.True(t, ok)
	assert.Equal(t, "PS-2024-78542", got)

	_, ok = OrderNumber("PS-2024-7854")
	assert.False(t, ok)

	for _, answer := range []string{"2024-78542", "PS202478542", " PS-2024-78542 "} {
		got, ok := OrderNumberAnswer(answer)
		require.True(t, ok, answer)
		assert.Equal(t, "PS-2024-78542", got)
	}
	_, ok = OrderNumberAnswer("hello")
	assert.False(t, ok)
}

func TestCategory(t *testing.T) {
	assert.Equal(t, domain.CategoryRefrigerator, Category("my ice maker is broken"))
	assert.Equal(t, domain.CategoryDishwasher, Category("dishwasher drain pump"))
	assert.Equal(t, domain.CategoryRefrigerator, Category("fridge and dishwasher"))
	assert.Equal(t, domain.CategoryDishwasher, Category("dishes come out dirty"))
	assert.Equal(t, domain.Category(""), Category("hello"))
}

func TestCategoryPrefersRefrigeratorOnOverlap(t *testing.T) {
	for _, text := range []string{
		"dishwasher water filter",
		"my dishwasher is not getting cold enough",
		"Dishwasher next to the FREEZER",
	} {
		assert.Equal(t, domain.CategoryRefrigerator, Category(text), text)
	}
}

func TestFromConversation(t *testing.T) {
	history := []domain.ChatMessage{
		{Role: domain.RoleUser, Content: "My model is WRS325SDHZ"},
		{Role: domain.RoleAssistant, Content: "Which part number are you checking?"},
		{Role: domain.RoleUser, Content: "it's a fridge"},
	}

	got := FromConversation("Is PS11752778 compatible?", history, 4)
	assert.Equal(t, Params{PartNumber: "PS11752778", ModelNumber: "WRS325SDHZ", Category: domain.CategoryRefrigerator}, got)

	shallow := FromConversation("Is PS11752778 compatible?", history, 1)
	assert.Empty(t, shallow.ModelNumber)
	assert.Equal(t, domain.CategoryRefrigerator, shallow.Category)

	none := FromConversation("Is PS11752778 compatible?", history, 0)
	assert.Empty(t, none.ModelNumber)
	assert.Empty(t, none.Category)
}

func TestFromConversationPrefersNewestTurn(t *testing.T) {
	history := []domain.ChatMessage{
		{Role: domain.RoleUser, Content: "model WDT780SAEM1"},
		{Role: domain.RoleUser, Content: "model WRS325SDHZ"},
	}
	got := FromConversation("part PS11752778 fridge", history, 10)
	assert.Equal(t, "WRS325SDHZ", got.ModelNumber)
}
