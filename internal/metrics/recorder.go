package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultFailed   ResultLabel = "failed"
	ResultCanceled ResultLabel = "canceled"
)

// CacheResult labels HTTP cache lookups.
type CacheResult string

const (
	CacheHitMemory CacheResult = "memory"
	CacheHitDisk   CacheResult = "disk"
	CacheMiss      CacheResult = "miss"
)

// Stage names used by the pipelines.
const (
	StageFetch = "fetch"
	StageBuild = "build"
	StageWrite = "write"
	StageMerge = "merge"
)

// Recorder defines observability hooks for pipeline stages and their outputs.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	SetListTotals(categories, lists, items int)
	SetClusterTotal(n int)
	IncHTTPCache(result CacheResult)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) SetListTotals(int, int, int)                {}
func (NoopRecorder) SetClusterTotal(int)                        {}
func (NoopRecorder) IncHTTPCache(CacheResult)                   {}

// Stage times fn, records its duration and result, and returns fn's error.
func Stage(r Recorder, stage string, fn func() error) error {
	if r == nil {
		r = NoopRecorder{}
	}
	start := time.Now()
	err := fn()
	r.ObserveStageDuration(stage, time.Since(start))
	if err != nil {
		r.IncStageResult(stage, ResultFailed)
		return err
	}
	r.IncStageResult(stage, ResultSuccess)
	return nil
}
