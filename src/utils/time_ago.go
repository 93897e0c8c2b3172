package utils

import (
	"errors"
	"math"
	"regexp"
	"strconv"
)

var timeAgoPattern = regexp.MustCompile(`(\d+)([smhd])`)

var timeAgoUnits = map[string]int64{
	"s": 1,
	"m": 60,
	"h": 3600,
	"d": 86400,
}

// ParseTimeAgo converts a compact age such as "42s" or "2h" to seconds.
// Unrecognised input is treated as 0; ages past the int64 range saturate at
// math.MaxInt64.
func ParseTimeAgo(timeAgo string) int64 {
	m := timeAgoPattern.FindStringSubmatch(timeAgo)
	if m == nil {
		return 0
	}
	value, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return math.MaxInt64
		}
		return 0
	}
	unit := timeAgoUnits[m[2]]
	if value > math.MaxInt64/unit {
		return math.MaxInt64
	}
	return value * unit
}
