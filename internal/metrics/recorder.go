package metrics

import "time"

// StageLabel enumerates the pipeline stages observed by the recorder.
const (
	StageResolve  = "resolve"
	StagePlugins  = "plugins"
	StageCascade  = "cascade"
	StageAssemble = "assemble"
)

// Recorder defines observability hooks for build and stage metrics.
// Implementations may forward to Prometheus or elsewhere; the NoopRecorder
// allows optional injection.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome string) // outcome: success|failed
	SetPluginCount(n int)
	IncWatchEvent(kind string) // kind: change|debounce|rebuild|queued
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not
// configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) IncBuildOutcome(string)                     {}
func (NoopRecorder) SetPluginCount(int)                         {}
func (NoopRecorder) IncWatchEvent(string)                       {}
