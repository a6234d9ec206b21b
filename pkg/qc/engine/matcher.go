package engine

import (
	"log/slog"
	"strings"

	"microqc-hq/verdict/pkg/qc/table"
)

// Matcher decides whether a rule is applicable to a sample based on
// species, assembly type, and the allowed-software override.
type Matcher struct {
	overrides Overrides
	logger    *slog.Logger
}

// NewMatcher creates a rule matcher bound to the run's QC overrides.
func NewMatcher(overrides Overrides, logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{overrides: overrides, logger: logger}
}

// Attributes derives the matching attributes for a sample, applying
// override defaults where the sample omits a value. Null markers in the
// data count as omitted.
func (m *Matcher) Attributes(sample *table.Record) SampleAttributes {
	attrs := SampleAttributes{}

	species := strings.TrimSpace(sample.Value("species"))
	if isNullMarker(species) {
		species = ""
	}
	attrs.Species = species

	assembly := sample.Value("assembly_type")
	if !sample.Has("assembly_type") || isNullMarker(assembly) {
		assembly = m.overrides.AssemblyTypeDefault()
	}
	attrs.AssemblyType = assembly

	return attrs
}

// Applies reports whether a rule is applicable to a sample. All three
// filters must pass.
func (m *Matcher) Applies(rule Rule, attrs SampleAttributes) bool {
	if !m.speciesMatches(rule, attrs) {
		return false
	}

	if rule.AssemblyType != Wildcard && rule.AssemblyType != attrs.AssemblyType {
		return false
	}

	return m.softwareAllowed(rule)
}

// speciesMatches compares species case-insensitively after trimming. An
// empty species on either side never satisfies a concrete species filter;
// only the wildcard matches it.
func (m *Matcher) speciesMatches(rule Rule, attrs SampleAttributes) bool {
	ruleSpecies := strings.TrimSpace(rule.Species)
	sampleSpecies := strings.TrimSpace(attrs.Species)

	if ruleSpecies == "" || sampleSpecies == "" {
		return ruleSpecies == Wildcard
	}
	if ruleSpecies == Wildcard {
		return true
	}
	return strings.EqualFold(ruleSpecies, sampleSpecies)
}

// softwareAllowed enforces the allowed-software override. The filter only
// applies when an override list is configured and the rule names a
// software; rules without one are never excluded.
func (m *Matcher) softwareAllowed(rule Rule) bool {
	allowed, configured := m.overrides.AllowedSoftware()
	if !configured {
		return true
	}
	if rule.Software == "" || isNullMarker(rule.Software) {
		return true
	}

	for _, s := range allowed {
		if strings.EqualFold(s, rule.Software) {
			return true
		}
	}

	m.logger.Debug("rule excluded by software override",
		"rule_id", rule.ID,
		"software", rule.Software,
	)
	return false
}
