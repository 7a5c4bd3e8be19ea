package tools

import "strings"

type guide struct {
	symptom      string
	steps        []string
	causes       []string
	partsToCheck []string
}

// guides is the curated troubleshooting table, matched by key containment.
var guides = []guide{
	{
		symptom: "ice maker not working",
		steps: []string{
			"Make sure the ice maker is switched on (look for a switch or wire arm)",
			"Confirm the water supply line is connected and the valve is open",
			"Check the freezer is cold enough, ideally 0°F / -18°C",
			"Look for ice jammed in the ice maker or ejector arm",
			"Listen for clicking, which means the ice maker is trying to cycle",
			"Check the water filter, since a clogged filter restricts flow",
		},
		causes: []string{
			"Frozen water line (thaw it with a hair dryer on low)",
			"Faulty water inlet valve",
			"Defective ice maker assembly",
			"Clogged or old water filter",
			"Freezer temperature set too warm",
		},
		partsToCheck: []string{"water filter", "ice maker assembly", "water inlet valve"},
	},
	{
		symptom: "not making ice",
		steps: []string{
			"Make sure the ice maker is switched on",
			"Confirm the water supply line is connected and open",
			"Check the freezer is cold enough, ideally 0°F / -18°C",
			"Look for ice jammed in the ice maker or ejector arm",
			"Check the water filter for clogs",
		},
		causes: []string{
			"Frozen water line",
			"Faulty water inlet valve",
			"Defective ice maker assembly",
			"Clogged water filter",
		},
		partsToCheck: []string{"water filter", "ice maker assembly"},
	},
	{
		symptom: "fridge not cold",
		steps: []string{
			"Check the temperature control setting",
			"Make sure food isn't blocking the vents inside",
			"Clean the condenser coils at the back or bottom",
			"Test the door seal by closing it on a sheet of paper",
			"Listen for the compressor humming",
			"Feel for airflow from the evaporator fan",
		},
		causes: []string{
			"Dirty condenser coils",
			"Failed evaporator fan motor",
			"Defrost system failure",
			"Worn door gasket",
			"Faulty thermostat",
		},
		partsToCheck: []string{"evaporator fan", "defrost thermostat", "door gasket"},
	},
	{
		symptom: "dishwasher not draining",
		steps: []string{
			"Check the drain hose for kinks or clogs",
			"Clean the filter and sump at the bottom of the tub",
			"Run the garbage disposal if the dishwasher shares its drain",
			"Clear food debris from around the drain pump",
			"Verify the high loop or air gap is installed",
		},
		causes: []string{
			"Clogged drain filter",
			"Blocked drain hose",
			"Failed drain pump",
			"Debris in the sump",
		},
		partsToCheck: []string{"drain pump", "pump and motor assembly"},
	},
	{
		symptom: "dishwasher not cleaning",
		steps: []string{
			"Remove and rinse the spray arms, clearing blocked holes with a toothpick",
			"Clean the filter at the bottom of the tub",
			"Use the recommended amount of detergent",
			"Run the kitchen tap until the water is hot before starting a cycle",
			"Make sure tall items aren't stopping the spray arms from turning",
		},
		causes: []string{
			"Clogged spray arm holes",
			"Dirty filter",
			"Low water temperature",
			"Weak circulation pump",
			"Hard water buildup",
		},
		partsToCheck: []string{"spray arm", "pump and motor assembly", "water inlet valve"},
	},
	{
		symptom: "dishwasher won't start",
		steps: []string{
			"Close the door firmly until it latches",
			"Look for an error code on the control panel",
			"Check the outlet and circuit breaker",
			"Press and hold Start for three seconds",
			"Listen for the latch clicking when the door closes",
		},
		causes: []string{
			"Door latch not engaging",
			"Faulty door switch",
			"Control board failure",
			"No power at the outlet",
		},
		partsToCheck: []string{"door latch assembly", "door switch"},
	},
	{
		symptom: "frost buildup",
		steps: []string{
			"Test the door seal all the way around",
			"Check the defrost timer advances",
			"Check the defrost heater for continuity",
			"Make sure the evaporator fan runs",
			"Clear any blocked vents in the freezer",
		},
		causes: []string{
			"Faulty defrost thermostat",
			"Defective defrost heater",
			"Damaged door gasket",
			"Failed defrost timer",
		},
		partsToCheck: []string{"defrost thermostat", "door gasket"},
	},
}

// guideKeywords maps looser wording onto guide symptoms. Checked in order.
var guideKeywords = []struct {
	keyword string
	symptom string
}{
	{"ice", "ice maker not working"},
	{"cold", "fridge not cold"},
	{"warm", "fridge not cold"},
	{"drain", "dishwasher not draining"},
	{"clean", "dishwasher not cleaning"},
	{"dirty dishes", "dishwasher not cleaning"},
	{"won't start", "dishwasher won't start"},
	{"not starting", "dishwasher won't start"},
	{"frost", "frost buildup"},
	{"freezing", "frost buildup"},
}

// findGuide looks symptom up by bidirectional containment, then by keyword.
func findGuide(symptom string) (guide, bool) {
	lower := strings.ToLower(strings.TrimSpace(symptom))
	if lower == "" {
		return guide{}, false
	}
	for _, g := range guides {
		if strings.Contains(lower, g.symptom) || strings.Contains(g.symptom, lower) {
			return g, true
		}
	}
	for _, kw := range guideKeywords {
		if !strings.Contains(lower, kw.keyword) {
			continue
		}
		for _, g := range guides {
			if g.symptom == kw.symptom {
				return g, true
			}
		}
	}
	return guide{}, false
}
