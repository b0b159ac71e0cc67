package analysis

import "github.com/phambaophuc/el-inspector/internal/models"

const (
	DefaultTemperature = 0.2

	resultSchemaName = "el_defect_classification"
	resultToolName   = "record_el_classification"
)

const Instruction = `Analyze this Electroluminescence (EL) image of a solar cell.
Classify it into one of these specific categories based on standard PV defects:
1. Normal (No major defects)
2. Microcrack (Fine dark lines)
3. Finger Interruption (Broken grid lines)
4. Broken Cell (Large cracks or separated pieces)
5. Hotspot (Bright glowing areas indicating current concentration)

Provide a technical description and maintenance recommendation.`

const (
	categoryDescription       = "The classification of the solar cell defect."
	confidenceDescription     = "Confidence score between 0 and 100."
	descriptionDescription    = "A detailed technical description of the visual features observed in the EL image."
	recommendationDescription = "Actionable advice for maintenance or quality assurance."
)

var requiredFields = []string{"category", "confidence", "description", "recommendation"}

// resultProperties is the JSON Schema of AnalysisResult's properties.
func resultProperties() map[string]any {
	return map[string]any{
		"category": map[string]any{
			"type":        "string",
			"enum":        models.CategoryNames(),
			"description": categoryDescription,
		},
		"confidence": map[string]any{
			"type":        "number",
			"description": confidenceDescription,
		},
		"description": map[string]any{
			"type":        "string",
			"description": descriptionDescription,
		},
		"recommendation": map[string]any{
			"type":        "string",
			"description": recommendationDescription,
		},
	}
}

func resultJSONSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"properties":           resultProperties(),
		"required":             requiredFields,
		"additionalProperties": false,
	}
}
