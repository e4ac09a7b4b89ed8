// SPDX-License-Identifier: MIT

package glprofile

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/m-shinder/libepoxy/pkg/cueutil"
)

var (
	//go:embed profile_schema.cue
	profileSchema string

	//go:embed profile.cue
	defaultProfile []byte
)

type (
	// ProviderSpec is one availability-condition/loader pairing derived
	// from the policy table, ready to be attached to a function as a
	// binding. Loader text keeps the "{0}" entry-point placeholder.
	ProviderSpec struct {
		// Label is the human-readable provider name and interning key.
		Label string
		// Condition is the C availability expression.
		Condition string
		// Loader is the C loader template, parameterized by entry point.
		Loader string
	}

	// FeatureRule maps one (family, version range) to its provider
	// policy. Versions are numeric, major*10+minor, inclusive bounds.
	FeatureRule struct {
		Family     string `json:"family"`
		MinVersion int    `json:"min_version"`
		MaxVersion int    `json:"max_version"`
		Label      string `json:"label"`
		Condition  string `json:"condition"`
		Loader     string `json:"loader"`
	}

	// ExtensionRule maps a set of families to the extension-present
	// condition and dynamic-lookup loader appropriate for them.
	ExtensionRule struct {
		Families  []string `json:"families"`
		Condition string   `json:"condition"`
		Loader    string   `json:"loader"`
	}

	// Bootstrap pins one function to a fixed loader so its resolver
	// cannot recurse into itself.
	Bootstrap struct {
		Name   string `json:"name"`
		Loader string `json:"loader"`
	}

	// Profile is a complete generation policy table.
	Profile struct {
		Features          []FeatureRule     `json:"features"`
		Extensions        []ExtensionRule   `json:"extensions"`
		SkipFamilies      []string          `json:"skip_families"`
		NearAliases       map[string]string `json:"near_aliases"`
		Wrapped           []string          `json:"wrapped"`
		BlockedCommands   []string          `json:"blocked_commands"`
		BlockedParamTypes []string          `json:"blocked_param_types"`
		PrefixFilters     map[string]string `json:"prefix_filters"`
		Bootstrap         []Bootstrap       `json:"bootstrap"`

		skip    map[string]bool
		wrapped map[string]bool
		blocked map[string]bool
	}
)

// Default returns the embedded libepoxy policy profile.
func Default() (*Profile, error) {
	return parse(defaultProfile, "profile.cue")
}

// LoadFile parses a profile override from disk.
func LoadFile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	return parse(data, path)
}

func parse(data []byte, filename string) (*Profile, error) {
	result, err := cueutil.ParseAndDecodeString[Profile](
		profileSchema,
		data,
		"#Profile",
		cueutil.WithFilename(filename),
	)
	if err != nil {
		return nil, err
	}

	p := result.Value
	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	p.index()
	return p, nil
}

// validate rejects profiles naming families outside the closed set.
func (p *Profile) validate() error {
	for _, r := range p.Features {
		if _, err := ParseFamily(r.Family); err != nil {
			return err
		}
	}
	for _, r := range p.Extensions {
		for _, fam := range r.Families {
			if _, err := ParseFamily(fam); err != nil {
				return err
			}
		}
	}
	for _, fam := range p.SkipFamilies {
		if _, err := ParseFamily(fam); err != nil {
			return err
		}
	}
	return nil
}

func (p *Profile) index() {
	p.skip = make(map[string]bool, len(p.SkipFamilies))
	for _, fam := range p.SkipFamilies {
		p.skip[fam] = true
	}
	p.wrapped = make(map[string]bool, len(p.Wrapped))
	for _, name := range p.Wrapped {
		p.wrapped[name] = true
	}
	p.blocked = make(map[string]bool, len(p.BlockedCommands))
	for _, name := range p.BlockedCommands {
		p.blocked[name] = true
	}
}

// FeatureProvider resolves the provider policy for one version feature.
// skip is true for families the registry declares but no dispatch is
// generated for. An unrecognized family is an UnknownFamilyError; a known
// family with no matching version rule is a policy gap and also an error.
func (p *Profile) FeatureProvider(api, number string, version int) (spec ProviderSpec, skip bool, err error) {
	fam, err := ParseFamily(api)
	if err != nil {
		return ProviderSpec{}, false, err
	}
	if p.skip[string(fam)] {
		return ProviderSpec{}, true, nil
	}

	for _, r := range p.Features {
		if r.Family != string(fam) {
			continue
		}
		if version < r.MinVersion || version > r.MaxVersion {
			continue
		}
		return ProviderSpec{
			Label:     expand(r.Label, number, version),
			Condition: expand(r.Condition, number, version),
			Loader:    expand(r.Loader, number, version),
		}, false, nil
	}
	return ProviderSpec{}, false, fmt.Errorf("no version policy for family %q version %d", api, version)
}

// ExtensionProviders returns one provider spec per extension rule whose
// family set intersects the extension's supported set, in table order.
// The extension name doubles as the provider label, so an extension
// reachable through several window systems yields distinct bindings that
// must agree before interning.
func (p *Profile) ExtensionProviders(name string, supported []string) []ProviderSpec {
	var specs []ProviderSpec
	for _, r := range p.Extensions {
		if !intersects(r.Families, supported) {
			continue
		}
		specs = append(specs, ProviderSpec{
			Label:     name,
			Condition: r.Condition,
			Loader:    r.Loader,
		})
	}
	return specs
}

// NearAlias returns the near-alias partner for a function name, if any.
func (p *Profile) NearAlias(name string) (string, bool) {
	partner, ok := p.NearAliases[name]
	return partner, ok
}

// IsWrapped reports whether the function has a hand-written wrapper and
// must be exposed under its internal name.
func (p *Profile) IsWrapped(name string) bool {
	return p.wrapped[name]
}

// IsBlockedCommand reports whether the command is on the literal
// block-list.
func (p *Profile) IsBlockedCommand(name string) bool {
	return p.blocked[name]
}

// HasBlockedParamType reports whether any parameter type references a
// header the generated code cannot depend on.
func (p *Profile) HasBlockedParamType(paramTypes []string) bool {
	for _, t := range paramTypes {
		for _, blocked := range p.BlockedParamTypes {
			if strings.Contains(t, blocked) {
				return true
			}
		}
	}
	return false
}

// RequiredPrefix returns the entry-point name prefix required for a
// target, if its loading strategy cannot reach non-default-library
// symbols.
func (p *Profile) RequiredPrefix(target string) (string, bool) {
	prefix, ok := p.PrefixFilters[target]
	return prefix, ok
}

// BootstrapLoader returns the pinned loader for a bootstrap function.
func (p *Profile) BootstrapLoader(name string) (string, bool) {
	for _, b := range p.Bootstrap {
		if b.Name == name {
			return b.Loader, true
		}
	}
	return "", false
}

// expand substitutes the version placeholders in a policy template. The
// "{0}" entry-point placeholder is left for binding time.
func expand(template, number string, version int) string {
	s := strings.ReplaceAll(template, "{number}", number)
	return strings.ReplaceAll(s, "{version}", strconv.Itoa(version))
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
