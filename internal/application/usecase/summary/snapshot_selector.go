package summary

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/pj-finance/backend/internal/domain/entity"
)

type snapshotCandidate struct {
	snapshot   *entity.BankSummarySnapshot
	windowDays int
}

// SelectSnapshot picks the snapshot whose window best fits targetDays.
// Snapshots on the fixed windows are preferred over any other parseable window. With a target,
// the smallest absolute difference wins and ties go to the smaller window; without a target
// (targetDays <= 0) the smallest window wins. Returns nil when nothing is usable.
func SelectSnapshot(snapshots []*entity.BankSummarySnapshot, targetDays int) *entity.BankSummarySnapshot {
	var all, fixed []snapshotCandidate
	for _, s := range snapshots {
		if s == nil {
			continue
		}
		days, ok := SnapshotWindowDays(s)
		if !ok {
			continue
		}
		candidate := snapshotCandidate{snapshot: s, windowDays: days}
		all = append(all, candidate)
		if entity.IsSummaryWindow(days) {
			fixed = append(fixed, candidate)
		}
	}

	candidates := fixed
	if len(candidates) == 0 {
		candidates = all
	}
	if len(candidates) == 0 {
		return nil
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if betterCandidate(c, best, targetDays) {
			best = c
		}
	}
	return best.snapshot
}

func betterCandidate(c, best snapshotCandidate, targetDays int) bool {
	if targetDays <= 0 {
		return c.windowDays < best.windowDays
	}
	cDiff := absInt(c.windowDays - targetDays)
	bestDiff := absInt(best.windowDays - targetDays)
	if cDiff != bestDiff {
		return cDiff < bestDiff
	}
	return c.windowDays < best.windowDays
}

// SnapshotWindowDays returns the window length of a snapshot, preferring the recorded
// coverage over the window tag.
func SnapshotWindowDays(s *entity.BankSummarySnapshot) (int, bool) {
	if s.Metadata.CoverageDays != nil && *s.Metadata.CoverageDays > 0 {
		return *s.Metadata.CoverageDays, true
	}
	return parseWindowTag(s.Window)
}

// parseWindowTag reads the leading day count of tags such as "30d", "90" or "365 dias".
func parseWindowTag(tag string) (int, bool) {
	tag = strings.TrimSpace(tag)
	end := strings.IndexFunc(tag, func(r rune) bool { return !unicode.IsDigit(r) })
	if end == -1 {
		end = len(tag)
	}
	days, err := strconv.Atoi(tag[:end])
	if err != nil || days <= 0 {
		return 0, false
	}
	return days, true
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
