package dream

// Analysis is the normalized result of a Jungian dream analysis.
// Every field is always populated; missing upstream values are replaced with defaults.
type Analysis struct {
	Summary               string            `json:"summary"`
	Archetypes            []string          `json:"archetypes"`
	Symbols               []string          `json:"symbols"`
	PredominantSymbol     PredominantSymbol `json:"predominantSymbol"`
	JungianInterpretation string            `json:"jungianInterpretation"`
	ShadowWork            string            `json:"shadowWork"`
	IndividuationStage    string            `json:"individuationStage"`
	EmotionalTone         string            `json:"emotionalTone"`
	Recommendations       []string          `json:"recommendations"`
}

// PredominantSymbol is the symbol the analysis considers central to the dream
type PredominantSymbol struct {
	Name                string `json:"name"`
	Meaning             string `json:"meaning"`
	JungianSignificance string `json:"jungianSignificance"`
}

// Image is a generated illustration
type Image struct {
	URL string `json:"url"`
}
