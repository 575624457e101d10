// Package scanner computes indicators and signals for many assets in parallel.
package scanner

import (
	"sync"

	"github.com/aristath/fiisentinel/internal/domain"
)

// DefaultWorkers is used when the pool is created with a non-positive size
const DefaultWorkers = 10

// IndicatorComputer derives the indicator set for one asset
type IndicatorComputer interface {
	ComputeIndicators(asset domain.AssetSnapshot, prices []float64) (domain.TechnicalIndicators, error)
}

// SignalGenerator turns an indicator set into a trading signal
type SignalGenerator interface {
	GenerateSignal(asset domain.AssetSnapshot, ind domain.TechnicalIndicators) (domain.TradingSignal, error)
}

// Input is one asset and its chronological price series
type Input struct {
	Asset  domain.AssetSnapshot `json:"asset" msgpack:"asset"`
	Prices []float64            `json:"prices" msgpack:"prices"`
}

// Result is the scan outcome for one asset. Error is set instead of
// Indicators and Signal when the asset could not be scanned.
type Result struct {
	Ticker     string                      `json:"ticker" msgpack:"ticker"`
	Indicators *domain.TechnicalIndicators `json:"indicators,omitempty" msgpack:"indicators,omitempty"`
	Signal     *domain.TradingSignal       `json:"signal,omitempty" msgpack:"signal,omitempty"`
	Error      string                      `json:"error,omitempty" msgpack:"error,omitempty"`
}

// OK reports whether the asset was scanned successfully
func (r Result) OK() bool {
	return r.Error == ""
}

// WorkerPool manages a pool of worker goroutines for parallel asset scans
type WorkerPool struct {
	numWorkers int
	indicators IndicatorComputer
	signals    SignalGenerator
}

// NewWorkerPool creates a new worker pool with the specified number of workers
func NewWorkerPool(numWorkers int, indicators IndicatorComputer, signals SignalGenerator) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = DefaultWorkers
	}
	return &WorkerPool{
		numWorkers: numWorkers,
		indicators: indicators,
		signals:    signals,
	}
}

// Workers returns the configured pool size
func (wp *WorkerPool) Workers() int {
	return wp.numWorkers
}

// ScanBatch scans every input and returns results in input order.
// A failure on one asset is reported in its Result and does not stop the batch.
func (wp *WorkerPool) ScanBatch(inputs []Input) []Result {
	n := len(inputs)
	if n == 0 {
		return []Result{}
	}

	jobs := make(chan jobItem, n)
	results := make(chan resultItem, n)

	var wg sync.WaitGroup
	numActualWorkers := wp.numWorkers
	if n < numActualWorkers {
		numActualWorkers = n
	}

	for i := 0; i < numActualWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			wp.worker(jobs, results)
		}()
	}

	for idx, in := range inputs {
		jobs <- jobItem{index: idx, input: in}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]Result, n)
	for r := range results {
		out[r.index] = r.result
	}

	return out
}

type jobItem struct {
	index int
	input Input
}

type resultItem struct {
	index  int
	result Result
}

func (wp *WorkerPool) worker(jobs <-chan jobItem, results chan<- resultItem) {
	for job := range jobs {
		results <- resultItem{
			index:  job.index,
			result: wp.scan(job.input),
		}
	}
}

func (wp *WorkerPool) scan(in Input) Result {
	res := Result{Ticker: in.Asset.Ticker}

	ind, err := wp.indicators.ComputeIndicators(in.Asset, in.Prices)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	sig, err := wp.signals.GenerateSignal(in.Asset, ind)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	res.Indicators = &ind
	res.Signal = &sig
	return res
}
