package search

import (
	"encoding/json"
	"reflect"
	"testing"
)

// TestAssessRisk tests the weather rules and severity combination.
func TestAssessRisk(t *testing.T) {
	tests := []struct {
		name        string
		weather     WeatherObservation
		wantLevel   RiskLevel
		wantReasons []string
	}{
		{
			name:        "High winds only",
			weather:     WeatherObservation{WindSpeedKt: 30, VisibilityKm: 10, PrecipitationMmHr: 0},
			wantLevel:   RiskHigh,
			wantReasons: []string{"High winds"},
		},
		{
			name:        "Good weather",
			weather:     WeatherObservation{WindSpeedKt: 10, VisibilityKm: 10, PrecipitationMmHr: 1},
			wantLevel:   RiskLow,
			wantReasons: []string{"Good weather conditions"},
		},
		{
			name:        "Poor visibility",
			weather:     WeatherObservation{WindSpeedKt: 5, VisibilityKm: 2},
			wantLevel:   RiskHigh,
			wantReasons: []string{"Poor visibility"},
		},
		{
			name:        "Precipitation only",
			weather:     WeatherObservation{VisibilityKm: 8, PrecipitationMmHr: 7.5},
			wantLevel:   RiskMedium,
			wantReasons: []string{"Significant precipitation"},
		},
		{
			name:        "Precipitation does not lower a high risk",
			weather:     WeatherObservation{WindSpeedKt: 40, VisibilityKm: 1, PrecipitationMmHr: 12},
			wantLevel:   RiskHigh,
			wantReasons: []string{"High winds", "Poor visibility", "Significant precipitation"},
		},
		{
			name:        "Thresholds are exclusive",
			weather:     WeatherObservation{WindSpeedKt: 25, VisibilityKm: 5, PrecipitationMmHr: 5},
			wantLevel:   RiskLow,
			wantReasons: []string{"Good weather conditions"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AssessRisk(tt.weather)
			if got.Level != tt.wantLevel {
				t.Errorf("Expected level %s, got %s", tt.wantLevel, got.Level)
			}
			if !reflect.DeepEqual(got.Reasons, tt.wantReasons) {
				t.Errorf("Expected reasons %v, got %v", tt.wantReasons, got.Reasons)
			}
		})
	}
}

// TestRiskAssessmentString tests the report format.
func TestRiskAssessmentString(t *testing.T) {
	r := AssessRisk(WeatherObservation{WindSpeedKt: 30, VisibilityKm: 3})
	want := "Search Risk Level: HIGH\nFactors: High winds, Poor visibility"
	if r.String() != want {
		t.Errorf("Expected %q, got %q", want, r.String())
	}
}

// TestRiskLevelJSON tests level encoding by name.
func TestRiskLevelJSON(t *testing.T) {
	data, err := json.Marshal(RiskAssessment{Level: RiskMedium, Reasons: []string{"x"}})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `{"level":"MEDIUM","reasons":["x"]}` {
		t.Errorf("Unexpected JSON: %s", data)
	}

	var decoded RiskAssessment
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded.Level != RiskMedium {
		t.Errorf("Expected MEDIUM, got %s", decoded.Level)
	}

	if _, err := ParseRiskLevel("severe"); err == nil {
		t.Error("Expected error for unknown level")
	}
}
