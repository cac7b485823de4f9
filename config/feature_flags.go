package config

import (
	"hash/fnv"
	"os"
	"strconv"
	"strings"
	"sync"
)

// FeatureFlags manages runtime feature toggles. Flags gate the optional
// surfaces of the desk application so a gym can run with just the roster
// if that is all it wants.
type FeatureFlags struct {
	mu sync.RWMutex

	features map[string]*Feature
}

// Feature represents a single feature flag.
type Feature struct {
	Name        string
	Description string
	Enabled     bool

	// Rollout percentage (0-100). Subjects are assigned by a hash of
	// their identifier, so assignment is stable across restarts.
	RolloutPercent int
}

// Predefined feature flag names.
const (
	// === Check-in ===
	FeatureTotemCheckIn = "checkin.totem" // self-service kiosk check-in

	// === Billing ===
	FeatureBillingOverdueAlerts = "billing.overdue_alerts" // flag overdue entries

	// === Graduation ===
	FeatureGraduationAlerts = "graduation.alerts" // belt eligibility notifications

	// === Storefront ===
	FeatureStorefront = "storefront.catalog" // product catalog endpoints

	// === Cloud sync ===
	FeatureCloudSync = "sync.cloud" // snapshot mirroring to the document host
)

// LoadFeatureFlags loads feature flags from environment variables.
func LoadFeatureFlags() *FeatureFlags {
	ff := &FeatureFlags{features: make(map[string]*Feature)}
	ff.initializeDefaults()
	ff.loadFromEnvironment()
	return ff
}

func (ff *FeatureFlags) initializeDefaults() {
	ff.features[FeatureTotemCheckIn] = &Feature{
		Name:           FeatureTotemCheckIn,
		Description:    "Self-service kiosk check-in",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureBillingOverdueAlerts] = &Feature{
		Name:           FeatureBillingOverdueAlerts,
		Description:    "Highlight overdue ledger entries",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureGraduationAlerts] = &Feature{
		Name:           FeatureGraduationAlerts,
		Description:    "Belt graduation eligibility notifications",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureStorefront] = &Feature{
		Name:           FeatureStorefront,
		Description:    "Product catalog endpoints",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureCloudSync] = &Feature{
		Name:           FeatureCloudSync,
		Description:    "Snapshot mirroring to the cloud document host",
		Enabled:        false,
		RolloutPercent: 100,
	}
}

// loadFromEnvironment applies FEATURE_<NAME>=true/false overrides. Dots in
// the flag name map to underscores: FEATURE_CHECKIN_TOTEM=false.
func (ff *FeatureFlags) loadFromEnvironment() {
	for name, feature := range ff.features {
		envKey := "FEATURE_" + strings.ToUpper(strings.ReplaceAll(name, ".", "_"))
		if val := os.Getenv(envKey); val != "" {
			if enabled, err := strconv.ParseBool(val); err == nil {
				feature.Enabled = enabled
			}
		}

		rolloutKey := envKey + "_ROLLOUT"
		if val := os.Getenv(rolloutKey); val != "" {
			if pct, err := strconv.Atoi(val); err == nil && pct >= 0 && pct <= 100 {
				feature.RolloutPercent = pct
			}
		}
	}
}

// IsEnabled reports whether a flag is on, ignoring rollout.
func (ff *FeatureFlags) IsEnabled(name string) bool {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	feature, ok := ff.features[name]
	return ok && feature.Enabled
}

// IsEnabledFor evaluates a flag for one subject, respecting the rollout
// percentage. The subject is typically a student or device identifier.
func (ff *FeatureFlags) IsEnabledFor(name, subject string) bool {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	feature, ok := ff.features[name]
	if !ok || !feature.Enabled {
		return false
	}
	if feature.RolloutPercent >= 100 {
		return true
	}
	if feature.RolloutPercent <= 0 {
		return false
	}
	return rolloutBucket(name, subject) < feature.RolloutPercent
}

// SetEnabled flips a flag at runtime, used by tests and admin tooling.
func (ff *FeatureFlags) SetEnabled(name string, enabled bool) {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	if feature, ok := ff.features[name]; ok {
		feature.Enabled = enabled
	}
}

// List returns a snapshot of all flags.
func (ff *FeatureFlags) List() []Feature {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	out := make([]Feature, 0, len(ff.features))
	for _, f := range ff.features {
		out = append(out, *f)
	}
	return out
}

// rolloutBucket maps a (flag, subject) pair to a stable bucket in [0, 100).
func rolloutBucket(name, subject string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	_, _ = h.Write([]byte(":"))
	_, _ = h.Write([]byte(subject))
	return int(h.Sum32() % 100)
}
