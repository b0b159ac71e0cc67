package models

// DefectCategory is the closed set of classifications the analysis endpoint may return.
type DefectCategory string

const (
	CategoryNormal             DefectCategory = "Normal"
	CategoryMicrocrack         DefectCategory = "Microcrack"
	CategoryFingerInterruption DefectCategory = "Finger Interruption"
	CategoryBrokenCell         DefectCategory = "Broken Cell"
	CategoryHotspot            DefectCategory = "Hotspot"
)

// Categories lists every category in display order.
var Categories = []DefectCategory{
	CategoryNormal,
	CategoryMicrocrack,
	CategoryFingerInterruption,
	CategoryBrokenCell,
	CategoryHotspot,
}

func (c DefectCategory) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// CategoryNames returns the categories as plain strings, for schema enums.
func CategoryNames() []string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = string(c)
	}
	return names
}

type AnalysisResult struct {
	Category       DefectCategory `json:"category"`
	Confidence     float64        `json:"confidence"`
	Description    string         `json:"description"`
	Recommendation string         `json:"recommendation"`
}

// AnalysisRequest is built fresh for every analysis attempt and never stored.
type AnalysisRequest struct {
	MIMEType    string
	Data        []byte
	Prompt      string
	Model       string
	Temperature float32
}
