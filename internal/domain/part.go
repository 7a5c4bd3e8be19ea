package domain

import "strings"

// Category enumerates the appliance families the assistant supports.
type Category string

const (
	CategoryRefrigerator Category = "refrigerator"
	CategoryDishwasher   Category = "dishwasher"
)

// Valid reports whether c is a supported category.
func (c Category) Valid() bool {
	return c == CategoryRefrigerator || c == CategoryDishwasher
}

// ParseCategory normalizes free-form category input. Unknown values yield "".
func ParseCategory(s string) Category {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "refrigerator", "fridge", "freezer":
		return CategoryRefrigerator
	case "dishwasher":
		return CategoryDishwasher
	default:
		return ""
	}
}

// InstallationDifficulty grades how hard a part is to fit.
type InstallationDifficulty string

const (
	DifficultyEasy      InstallationDifficulty = "Easy"
	DifficultyModerate  InstallationDifficulty = "Moderate"
	DifficultyDifficult InstallationDifficulty = "Difficult"
)

// Part is a catalog entry for one replaceable appliance component.
type Part struct {
	ID                     string                 `json:"id" yaml:"id"`
	PartNumber             string                 `json:"partNumber" yaml:"partNumber"`
	Name                   string                 `json:"name" yaml:"name"`
	Description            string                 `json:"description" yaml:"description"`
	Price                  float64                `json:"price" yaml:"price"`
	OriginalPrice          *float64               `json:"originalPrice,omitempty" yaml:"originalPrice,omitempty"`
	ImageURL               string                 `json:"imageUrl" yaml:"imageUrl"`
	Rating                 float64                `json:"rating" yaml:"rating"`
	ReviewCount            int                    `json:"reviewCount" yaml:"reviewCount"`
	InStock                bool                   `json:"inStock" yaml:"inStock"`
	Brand                  string                 `json:"brand" yaml:"brand"`
	Category               Category               `json:"category" yaml:"category"`
	CompatibleModels       []string               `json:"compatibleModels" yaml:"compatibleModels"`
	InstallationDifficulty InstallationDifficulty `json:"installationDifficulty" yaml:"installationDifficulty"`
	InstallationTime       string                 `json:"installationTime" yaml:"installationTime"`
	Symptoms               []string               `json:"symptoms,omitempty" yaml:"symptoms,omitempty"`
	VideoURL               string                 `json:"videoUrl,omitempty" yaml:"videoUrl,omitempty"`

	// SearchText is derived once at load time by BuildSearchText.
	SearchText string `json:"-" yaml:"-"`
}

// OnSale reports whether the part carries a discounted price.
func (p Part) OnSale() bool {
	return p.OriginalPrice != nil && *p.OriginalPrice > p.Price
}

// BuildSearchText returns the lower-cased text the catalog scores queries against.
func (p Part) BuildSearchText() string {
	fields := []string{
		p.Name,
		p.Description,
		string(p.Category),
		p.Brand,
		p.PartNumber,
		strings.Join(p.Symptoms, " "),
		strings.Join(p.CompatibleModels, " "),
	}
	return strings.ToLower(strings.Join(fields, " "))
}

// ModelInfo is static reference data about an appliance model.
type ModelInfo struct {
	ModelNumber     string   `json:"modelNumber" yaml:"modelNumber"`
	Brand           string   `json:"brand" yaml:"brand"`
	Type            Category `json:"type" yaml:"type"`
	CompatibleParts []string `json:"compatibleParts" yaml:"compatibleParts"`
}
