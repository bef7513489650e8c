package gw

import (
	"fmt"
	"math"
	"os"
)

// Peak memory per byte of input, measured on the two drivers.
const (
	bufferedFactor  = 7.5
	streamingFactor = 1.5
)

// MemoryEstimate predicts the peak memory of both drivers for one input.
// The byte counts are exact; the MiB fields are rounded to two decimals for
// display.
type MemoryEstimate struct {
	FileSizeBytes  int64 `json:"file_size_bytes"`
	BufferedBytes  int64 `json:"buffered_bytes"`
	StreamingBytes int64 `json:"streaming_bytes"`

	FileSizeMB    float64 `json:"file_size_mb"`
	BufferedMB    float64 `json:"buffered_mb"`
	StreamingMB   float64 `json:"streaming_mb"`
	SavingPercent float64 `json:"saving_percent"`
	Recommended   string  `json:"recommended"`
}

// EstimateMemory estimates the cost of parsing sizeBytes of input. The
// recommendation follows the StreamAuto policy for thresholdBytes; zero
// means DefaultStreamingThreshold.
func EstimateMemory(sizeBytes, thresholdBytes int64) MemoryEstimate {
	opts := Options{Streaming: StreamAuto, StreamingThresholdBytes: thresholdBytes}
	mb := float64(sizeBytes) / (1 << 20)
	est := MemoryEstimate{
		FileSizeBytes:  sizeBytes,
		BufferedBytes:  int64(math.Ceil(float64(sizeBytes) * bufferedFactor)),
		StreamingBytes: int64(math.Ceil(float64(sizeBytes) * streamingFactor)),
		FileSizeMB:     round(mb, 2),
		BufferedMB:     round(mb*bufferedFactor, 2),
		StreamingMB:    round(mb*streamingFactor, 2),
		Recommended:    "buffered",
	}
	if sizeBytes > 0 {
		est.SavingPercent = round((1-streamingFactor/bufferedFactor)*100, 1)
	}
	if opts.streams(sizeBytes) {
		est.Recommended = "streaming"
	}
	return est
}

// EstimateFileMemory is EstimateMemory for the file at path.
func EstimateFileMemory(path string, thresholdBytes int64) (MemoryEstimate, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return MemoryEstimate{}, fmt.Errorf("estimate memory: %w", err)
	}
	return EstimateMemory(fi.Size(), thresholdBytes), nil
}

func round(x float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(x*p) / p
}
