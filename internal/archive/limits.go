package archive

import (
	"fmt"
	"math"

	"github.com/Fuabioo/zipread/internal/errors"
)

// LimitCheck contains the results of a zip bomb pre-scan.
type LimitCheck struct {
	Reason                string
	TotalUncompressedSize uint64
	FileCount             int
	MaxCompressionRatio   float64
	IsSafe                bool
}

// Limits configures the zip bomb detection thresholds. A zero field
// disables that check.
type Limits struct {
	MaxExtractedSize    uint64  // bytes, default 1GB
	MaxFileCount        int     // default 100000
	MaxCompressionRatio float64 // default 100.0
}

// DefaultLimits returns the default resource limits.
func DefaultLimits() Limits {
	return Limits{
		MaxExtractedSize:    1 * 1024 * 1024 * 1024, // 1 GB
		MaxFileCount:        100000,
		MaxCompressionRatio: 100.0,
	}
}

// CheckLimits scans the central directory for zip bomb indicators.
// Does NOT read any entry content.
func (a *Archive) CheckLimits() *LimitCheck {
	return checkEntries(a.entries, a.opts.Limits)
}

// EnforceLimits returns an UnsupportedArchive error when CheckLimits fails,
// along with the check so callers can report the reason.
func (a *Archive) EnforceLimits() (*LimitCheck, error) {
	check := a.CheckLimits()
	if !check.IsSafe {
		return check, errors.UnsupportedArchive(errors.ResourceLimitExceeded)
	}
	return check, nil
}

func checkEntries(entries []Entry, limits Limits) *LimitCheck {
	result := &LimitCheck{
		IsSafe: true,
	}

	var totalUncompressedSize uint64
	var maxCompressionRatio float64

	for i := range entries {
		e := &entries[i]
		// Directories don't contribute to size
		if e.IsDir {
			continue
		}

		// Saturate so forged zip64 sizes cannot wrap the total back under the limit.
		if e.UncompressedSize > math.MaxUint64-totalUncompressedSize {
			totalUncompressedSize = math.MaxUint64
		} else {
			totalUncompressedSize += e.UncompressedSize
		}
		if ratio := e.CompressionRatio(); ratio > maxCompressionRatio {
			maxCompressionRatio = ratio
		}
	}

	result.TotalUncompressedSize = totalUncompressedSize
	result.FileCount = len(entries)
	result.MaxCompressionRatio = maxCompressionRatio

	if limits.MaxExtractedSize > 0 && totalUncompressedSize > limits.MaxExtractedSize {
		result.IsSafe = false
		result.Reason = fmt.Sprintf(
			"total uncompressed size (%d bytes) exceeds limit (%d bytes)",
			totalUncompressedSize,
			limits.MaxExtractedSize,
		)
		return result
	}

	if limits.MaxFileCount > 0 && len(entries) > limits.MaxFileCount {
		result.IsSafe = false
		result.Reason = fmt.Sprintf(
			"file count (%d) exceeds limit (%d)",
			len(entries),
			limits.MaxFileCount,
		)
		return result
	}

	if limits.MaxCompressionRatio > 0 && maxCompressionRatio > limits.MaxCompressionRatio {
		result.IsSafe = false
		result.Reason = fmt.Sprintf(
			"compression ratio (%.2f:1) exceeds limit (%.2f:1)",
			maxCompressionRatio,
			limits.MaxCompressionRatio,
		)
		return result
	}

	return result
}
