package search

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RiskLevel grades search conditions.
type RiskLevel int

const (
	RiskLow RiskLevel = iota
	RiskMedium
	RiskHigh
)

func (l RiskLevel) String() string {
	switch l {
	case RiskLow:
		return "LOW"
	case RiskMedium:
		return "MEDIUM"
	case RiskHigh:
		return "HIGH"
	default:
		return fmt.Sprintf("RiskLevel(%d)", int(l))
	}
}

// MarshalJSON encodes the level by name.
func (l RiskLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// Weather thresholds for risk assessment.
const (
	HighWindKt             = 25.0
	PoorVisibilityKm       = 5.0
	HeavyPrecipitationMmHr = 5.0
)

// RiskAssessment is the weather risk for search operations.
type RiskAssessment struct {
	Level   RiskLevel `json:"level"`
	Reasons []string  `json:"reasons"`
}

// String formats the assessment as a two-line report.
func (r RiskAssessment) String() string {
	return fmt.Sprintf("Search Risk Level: %s\nFactors: %s", r.Level, strings.Join(r.Reasons, ", "))
}

// AssessRisk classifies the weather. Each rule is evaluated independently
// and the most severe triggered level wins; triggers do not add up.
func AssessRisk(w WeatherObservation) RiskAssessment {
	assessment := RiskAssessment{Level: RiskLow}

	raise := func(level RiskLevel, reason string) {
		if level > assessment.Level {
			assessment.Level = level
		}
		assessment.Reasons = append(assessment.Reasons, reason)
	}

	if w.WindSpeedKt > HighWindKt {
		raise(RiskHigh, "High winds")
	}
	if w.VisibilityKm < PoorVisibilityKm {
		raise(RiskHigh, "Poor visibility")
	}
	if w.PrecipitationMmHr > HeavyPrecipitationMmHr {
		raise(RiskMedium, "Significant precipitation")
	}

	if len(assessment.Reasons) == 0 {
		assessment.Reasons = []string{"Good weather conditions"}
	}
	return assessment
}

// UnmarshalJSON decodes a level name produced by MarshalJSON.
func (l *RiskLevel) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	level, err := ParseRiskLevel(name)
	if err != nil {
		return err
	}
	*l = level
	return nil
}

// ParseRiskLevel parses "LOW", "MEDIUM" or "HIGH" (case-insensitive).
func ParseRiskLevel(name string) (RiskLevel, error) {
	switch strings.ToUpper(name) {
	case "LOW":
		return RiskLow, nil
	case "MEDIUM":
		return RiskMedium, nil
	case "HIGH":
		return RiskHigh, nil
	}
	return RiskLow, fmt.Errorf("unknown risk level %q", name)
}
