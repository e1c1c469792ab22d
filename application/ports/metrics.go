package ports

// MetricsRecorder receives business events worth counting
type MetricsRecorder interface {
	DreamCreated()
	AnalysisCompleted(success bool)
	ImageGenerated(success, fallback bool)
}

// NopMetrics discards every event
type NopMetrics struct{}

func (NopMetrics) DreamCreated() {}
func (NopMetrics) AnalysisCompleted(bool) {}
func (NopMetrics) ImageGenerated(bool, bool) {}
