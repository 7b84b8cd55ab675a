package analyses

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// analysisSchema guards the parse boundary with the model service: JSON that
// parses but has the wrong shape is rejected before it can reach persistence.
var analysisSchema = map[string]any{
	"type": "object",
	"required": []any{
		"title", "documentType", "findings", "summary",
		"recommendations", "riskAssessment", "confidence", "disclaimer",
	},
	"properties": map[string]any{
		"title":        map[string]any{"type": "string"},
		"documentType": map[string]any{"type": "string"},
		"date":         map[string]any{"type": "string"},
		"patientName":  map[string]any{"type": "string"},
		"findings": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []any{"parameter", "value", "status"},
				"properties": map[string]any{
					"parameter": map[string]any{"type": "string"},
					"value":     map[string]any{"type": "string"},
					"status": map[string]any{
						"enum": []any{StatusNormal, StatusLow, StatusHigh, StatusCritical},
					},
				},
			},
		},
		"abnormalValues": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []any{"parameter", "value", "severity"},
				"properties": map[string]any{
					"parameter": map[string]any{"type": "string"},
					"value":     map[string]any{"type": "string"},
					"severity": map[string]any{
						"enum": []any{SeverityMild, SeverityModerate, SeveritySevere},
					},
				},
			},
		},
		"summary":          map[string]any{"type": "string"},
		"detailedAnalysis": map[string]any{"type": "string"},
		"medicalContext":   map[string]any{"type": "string"},
		"recommendations": map[string]any{
			"oneOf": []any{
				map[string]any{
					"type": "object",
					"properties": map[string]any{
						"immediateActions":       stringArraySchema(),
						"lifestyleModifications": stringArraySchema(),
						"followUpCare":           stringArraySchema(),
					},
				},
				stringArraySchema(),
			},
		},
		"riskAssessment": map[string]any{
			"type":     "object",
			"required": []any{"level", "followUpRequired"},
			"properties": map[string]any{
				"level": map[string]any{
					"enum": []any{RiskLow, RiskModerate, RiskHigh},
				},
				"factors":           stringArraySchema(),
				"followUpRequired":  map[string]any{"type": "boolean"},
				"recommendedTiming": map[string]any{"type": "string"},
			},
		},
		"confidence": map[string]any{"type": "number"},
		"disclaimer": map[string]any{"type": "string"},
	},
}

func stringArraySchema() map[string]any {
	return map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	}
}

var (
	compileSchemaOnce sync.Once
	compiledSchema    *jsonschema.Schema
	compileSchemaErr  error
)

// validateAnalysisJSON validates decoded JSON against the analysis schema.
func validateAnalysisJSON(data any) error {
	compileSchemaOnce.Do(func() {
		b, err := json.Marshal(analysisSchema)
		if err != nil {
			compileSchemaErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("analysis.json", bytes.NewReader(b)); err != nil {
			compileSchemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiledSchema, compileSchemaErr = compiler.Compile("analysis.json")
	})
	if compileSchemaErr != nil {
		return compileSchemaErr
	}
	return compiledSchema.Validate(data)
}
