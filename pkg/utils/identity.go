package utils

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
)

// MakeRaceID builds the canonical race identifier from its natural key,
// for example (2024, 1, "R") -> "2024_01_R". The same triple always
// yields the same ID.
func MakeRaceID(season, round int, sessionType string) string {
	return fmt.Sprintf("%d_%02d_%s", season, round, strings.ToUpper(sessionType))
}

// StableID derives a short deterministic ID from natural key values.
// Values are trimmed and upper-cased before hashing so formatting noise
// upstream does not change the identity.
func StableID(namespace string, values ...string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, strings.ToUpper(strings.TrimSpace(v)))
	}
	//nolint:gosec // content hash, not security relevant
	digest := sha1.Sum([]byte(namespace + "|" + strings.Join(parts, "|")))
	return fmt.Sprintf("%s_%s", namespace, hex.EncodeToString(digest[:])[:16])
}

// DriverID derives the driver dimension key from the driver code only.
// Driver metadata varies between races, the code does not.
func DriverID(driverCode string) string {
	return StableID("drv", driverCode)
}

// TeamID derives the team dimension key from the team name.
func TeamID(teamName string) string {
	return StableID("team", teamName)
}
