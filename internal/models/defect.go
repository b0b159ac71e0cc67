package models

type Severity string

const (
	SeverityLow      Severity = "Low"
	SeverityMedium   Severity = "Medium"
	SeverityHigh     Severity = "High"
	SeverityCritical Severity = "Critical"
)

// DefectInfo is read-only glossary data; it is never derived from analysis results.
type DefectInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
}

type DistributionPoint struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Fill  string `json:"fill"`
}

var defectGlossary = map[DefectCategory]DefectInfo{
	CategoryNormal: {
		Name:        "Normal",
		Description: "The solar cell shows no visible defects. The crystalline structure is uniform with consistent electroluminescence.",
		Severity:    SeverityLow,
	},
	CategoryMicrocrack: {
		Name:        "Microcrack",
		Description: "Fine cracks within the cell material, often barely visible but capable of growing over time, leading to power loss.",
		Severity:    SeverityMedium,
	},
	CategoryFingerInterruption: {
		Name:        "Finger Interruption",
		Description: "Breaks in the fine grid lines (fingers) on the cell surface, reducing current collection efficiency.",
		Severity:    SeverityMedium,
	},
	CategoryBrokenCell: {
		Name:        "Broken Cell",
		Description: "Significant physical breakage or separation of the cell wafer, causing substantial power loss.",
		Severity:    SeverityCritical,
	},
	CategoryHotspot: {
		Name:        "Hotspot",
		Description: "Localized area of high heat generation due to defects or shading, which can damage the module permanently.",
		Severity:    SeverityHigh,
	},
}

var historicalDistribution = []DistributionPoint{
	{Name: "Normal", Value: 45, Fill: "#10b981"},
	{Name: "Microcrack", Value: 25, Fill: "#f59e0b"},
	{Name: "Finger Int.", Value: 15, Fill: "#3b82f6"},
	{Name: "Broken", Value: 5, Fill: "#ef4444"},
	{Name: "Hotspot", Value: 10, Fill: "#f97316"},
}

// LookupDefect returns the glossary entry for a category.
func LookupDefect(c DefectCategory) (DefectInfo, bool) {
	info, ok := defectGlossary[c]
	return info, ok
}

// Glossary returns a copy of the glossary in category order.
func Glossary() []DefectInfo {
	out := make([]DefectInfo, 0, len(Categories))
	for _, c := range Categories {
		out = append(out, defectGlossary[c])
	}
	return out
}

// Distribution returns a copy of the historical distribution dataset.
func Distribution() []DistributionPoint {
	out := make([]DistributionPoint, len(historicalDistribution))
	copy(out, historicalDistribution)
	return out
}
