// SPDX-License-Identifier: MIT

package gen

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/m-shinder/libepoxy/pkg/dispatch"
	"github.com/m-shinder/libepoxy/pkg/glprofile"
	"github.com/m-shinder/libepoxy/pkg/glregistry"
)

type (
	// Options configures one pipeline run.
	Options struct {
		// Profile is the provider policy table. Nil selects the
		// built-in profile.
		Profile *glprofile.Profile

		// Logger receives pipeline progress. Nil selects the
		// package default.
		Logger *log.Logger
	}

	// Result is the planned model an emitter renders from.
	Result struct {
		// Target is the generation target, the registry file's base
		// name ("gl", "glx", "egl", "wgl").
		Target string

		Registry *glregistry.Registry
		Model    *dispatch.Model
		Interner *dispatch.Interner

		// Plans are the per-function resolution plans, in function
		// name order.
		Plans []dispatch.Plan

		// Versions are the feature define names the registry
		// declares, sorted. Skipped families are still listed; the
		// defines advertise registry knowledge, not dispatch support.
		Versions []string

		// Extensions are the extension define names, sorted.
		Extensions []string
	}
)

// TargetFromPath derives the generation target from a registry path:
// "registry/glx.xml" generates the "glx" target.
func TargetFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, ".xml")
}

// RunFile parses the registry at path and runs the pipeline on it.
func RunFile(path string, opts Options) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reg, err := glregistry.Parse(f)
	if err != nil {
		return nil, err
	}
	return Run(TargetFromPath(path), reg, opts)
}

// Run executes the pipeline for one registry.
func Run(target string, reg *glregistry.Registry, opts Options) (*Result, error) {
	profile := opts.Profile
	if profile == nil {
		var err error
		profile, err = glprofile.Default()
		if err != nil {
			return nil, err
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger = logger.With("target", target)

	p := &pipeline{
		target:  target,
		reg:     reg,
		profile: profile,
		log:     logger,
		model:   dispatch.NewModel(),
	}

	if err := p.buildFunctions(); err != nil {
		return nil, err
	}
	p.applyFilters()
	if err := p.attachFeatures(); err != nil {
		return nil, err
	}
	if err := p.attachExtensions(); err != nil {
		return nil, err
	}
	p.fixupBootstrap()
	if err := p.model.ResolveAliases(); err != nil {
		return nil, err
	}

	interner := dispatch.NewInterner()
	if err := p.model.InternProviders(interner); err != nil {
		return nil, err
	}
	plans := p.model.Plans(profile.NearAlias)

	sort.Strings(p.versions)
	sort.Strings(p.extensions)
	logger.Debug("pipeline complete",
		"functions", p.model.Len(),
		"providers", interner.Len(),
		"versions", len(p.versions),
		"extensions", len(p.extensions))

	return &Result{
		Target:     target,
		Registry:   reg,
		Model:      p.model,
		Interner:   interner,
		Plans:      plans,
		Versions:   p.versions,
		Extensions: p.extensions,
	}, nil
}

type pipeline struct {
	target  string
	reg     *glregistry.Registry
	profile *glprofile.Profile
	log     *log.Logger
	model   *dispatch.Model

	versions   []string
	extensions []string
}

func (p *pipeline) buildFunctions() error {
	for _, cmd := range p.reg.Commands {
		params := make([]dispatch.Param, len(cmd.Params))
		for i, arg := range cmd.Params {
			params[i] = dispatch.Param{Type: arg.Type, Name: arg.Name, Group: arg.Group}
		}
		f := dispatch.NewFunction(cmd.Name, cmd.ReturnType, params, cmd.Alias)
		f.Wrapped = p.profile.IsWrapped(cmd.Name)
		if err := p.model.Add(f); err != nil {
			return err
		}
	}
	return nil
}

// applyFilters removes commands no dispatch is generated for: the literal
// block-list and commands whose parameters reference types from headers
// the generated code cannot include.
func (p *pipeline) applyFilters() {
	for _, cmd := range p.reg.Commands {
		if p.profile.IsBlockedCommand(cmd.Name) {
			p.log.Debug("dropping blocked command", "command", cmd.Name)
			p.model.Drop(cmd.Name)
			continue
		}
		types := make([]string, len(cmd.Params))
		for i, arg := range cmd.Params {
			types[i] = arg.Type
		}
		if p.profile.HasBlockedParamType(types) {
			p.log.Debug("dropping command with unsupported param type", "command", cmd.Name)
			p.model.Drop(cmd.Name)
		}
	}
}

// attach binds one provider spec to one required command. Commands a
// filter removed are skipped without complaint; a command the registry
// never declared at all is a registry consistency fault.
func (p *pipeline) attach(block, name string, spec glprofile.ProviderSpec) error {
	if prefix, ok := p.profile.RequiredPrefix(p.target); ok && !strings.HasPrefix(name, prefix) {
		p.model.Drop(name)
		return nil
	}
	f, ok := p.model.Lookup(name)
	if !ok {
		if p.model.Dropped(name) {
			return nil
		}
		return &UndeclaredCommandError{Block: block, Command: name}
	}
	f.AddBinding(spec.Label, spec.Condition, spec.Loader, f.Name)
	return nil
}

func (p *pipeline) attachFeatures() error {
	for _, feature := range p.reg.Features {
		p.versions = append(p.versions, feature.Name)

		spec, skip, err := p.profile.FeatureProvider(feature.API, feature.Number, feature.Version)
		if err != nil {
			return err
		}
		if skip {
			p.log.Debug("skipping feature family", "feature", feature.Name, "api", feature.API)
			continue
		}
		for _, name := range feature.Commands {
			if err := p.attach(feature.Name, name, spec); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *pipeline) attachExtensions() error {
	for _, ext := range p.reg.Extensions {
		p.extensions = append(p.extensions, ext.Name)

		for _, spec := range p.profile.ExtensionProviders(ext.Name, ext.Supported) {
			for _, name := range ext.Commands {
				if err := p.attach(ext.Name, name, spec); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// fixupBootstrap pins the functions resolution itself depends on to fixed
// loaders, so their resolvers cannot recurse into themselves.
func (p *pipeline) fixupBootstrap() {
	for _, b := range p.profile.Bootstrap {
		f, ok := p.model.Lookup(b.Name)
		if !ok {
			continue
		}
		f.ClearBindings()
		f.AddBinding("always present", "true", b.Loader, f.Name)
	}
}
