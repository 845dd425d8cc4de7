package atlas

import (
	"fmt"
	"time"
)

// The data tree keys dates as 8-digit YYYYMMDD folder names while the API and
// UI speak ISO YYYY-MM-DD. Both conversions are pure string reshuffles: dates
// are UTC calendar days, so no timezone math is ever applied.

// FolderToISO converts "20250829" to "2025-08-29".
func FolderToISO(folder string) (string, error) {
	if !isDigits(folder) || len(folder) != 8 {
		return "", fmt.Errorf("invalid folder date %q: want 8 digits", folder)
	}
	return folder[:4] + "-" + folder[4:6] + "-" + folder[6:], nil
}

// ISOToFolder converts "2025-08-29" to "20250829".
func ISOToFolder(iso string) (string, error) {
	if len(iso) != 10 || iso[4] != '-' || iso[7] != '-' {
		return "", fmt.Errorf("invalid ISO date %q: want YYYY-MM-DD", iso)
	}
	folder := iso[:4] + iso[5:7] + iso[8:]
	if !isDigits(folder) {
		return "", fmt.Errorf("invalid ISO date %q: want YYYY-MM-DD", iso)
	}
	return folder, nil
}

// TodayFolder returns the current UTC calendar day in folder form. Used as
// the boot fallback when the latest-date pointer cannot be resolved.
func TodayFolder() string {
	return time.Now().UTC().Format("20060102")
}

// TimeLabel derives the human label for an "HHMM" timestamp, e.g. "04:15 UTC".
func TimeLabel(hhmm string) string {
	if len(hhmm) != 4 || !isDigits(hhmm) {
		return hhmm
	}
	return hhmm[:2] + ":" + hhmm[2:] + " UTC"
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
