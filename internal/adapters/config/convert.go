package config

import (
	"fmt"
	"regexp"
	"strings"

	"go.trai.ch/manifold/internal/core/domain"
	"go.trai.ch/zerr"
)

var (
	validEnvironmentNameRegex = regexp.MustCompile("^[a-z0-9-]+$")

	errNotStringList = zerr.New("expected a list of strings")
)

// converter turns a decoded Manifest into a domain.Manifest.
type converter struct {
	alias string
	order *keyOrder
}

func (c *converter) convert(path string, dto *Manifest) (*domain.Manifest, error) {
	metadata, err := c.convertProject(&dto.Project)
	if err != nil {
		return nil, err
	}

	m := domain.NewManifest(path, metadata)

	if err := c.fillFeature(m.DefaultFeature, dto.defaultTarget(), dto.SystemRequirements, dto.Target, nil); err != nil {
		return nil, err
	}

	for _, name := range orderedKeys(c.order, dto.Feature, "feature") {
		if err := c.convertFeature(m, name, dto.Feature[name]); err != nil {
			return nil, zerr.With(err, "feature", name)
		}
	}

	if err := c.convertFeatureTargets(m, dto); err != nil {
		return nil, err
	}

	for _, name := range orderedKeys(c.order, dto.Environments, "environments") {
		env, err := c.convertEnvironment(m, name, dto.Environments[name])
		if err != nil {
			return nil, zerr.With(err, "environment", name)
		}
		m.AddEnvironment(env)
	}

	return m, nil
}

func (c *converter) convertProject(dto *ProjectDTO) (domain.ProjectMetadata, error) {
	if strings.TrimSpace(dto.Name) == "" {
		return domain.ProjectMetadata{}, domain.ErrMissingProjectName
	}

	channels, err := c.convertChannels(dto.Channels)
	if err != nil {
		return domain.ProjectMetadata{}, zerr.With(err, "section", "project")
	}

	platforms, err := convertPlatforms(dto.Platforms)
	if err != nil {
		return domain.ProjectMetadata{}, zerr.With(err, "section", "project")
	}

	return domain.ProjectMetadata{
		Name:          dto.Name,
		Version:       dto.Version,
		Description:   dto.Description,
		Authors:       dto.Authors,
		License:       dto.License,
		Homepage:      dto.Homepage,
		Repository:    dto.Repository,
		Documentation: dto.Documentation,
		Channels:      channels,
		Platforms:     platforms,
	}, nil
}

func (c *converter) convertFeature(m *domain.Manifest, name string, dto *FeatureDTO) error {
	if name == domain.DefaultName {
		return domain.ErrReservedFeatureName
	}
	if dto == nil {
		dto = &FeatureDTO{}
	}

	f := m.AddFeature(name)

	if dto.Channels != nil {
		channels, err := c.convertChannels(*dto.Channels)
		if err != nil {
			return err
		}
		if channels == nil {
			channels = []domain.PrioritizedChannel{}
		}
		f.Channels = channels
	}

	if dto.Platforms != nil {
		platforms, err := convertPlatforms(*dto.Platforms)
		if err != nil {
			return err
		}
		f.Platforms = platforms
	}

	return c.fillFeature(f, dto.defaultTarget(), dto.SystemRequirements, dto.Target, []string{"feature", name})
}

// fillFeature converts the scope-wide sections, the system requirements and the targets of one feature.
// prefix is the table path of the feature, nil for the top level.
func (c *converter) fillFeature(
	f *domain.Feature,
	scopeWide *TargetDTO,
	sysreq *SystemRequirementsDTO,
	targets map[string]*TargetDTO,
	prefix []string,
) error {
	if sysreq != nil {
		reqs, err := convertSystemRequirements(sysreq)
		if err != nil {
			return err
		}
		f.SystemRequirements = reqs
	}

	if err := c.fillTarget(f.Targets.Default(), scopeWide, prefix); err != nil {
		return err
	}

	targetPath := append(clonePath(prefix), "target")
	seen := make(map[domain.TargetSelector]string, len(targets))
	for _, key := range orderedKeys(c.order, targets, targetPath...) {
		selector, err := domain.ParseTargetSelector(key)
		if err != nil {
			return err
		}
		if first, dup := seen[selector]; dup {
			err := zerr.With(domain.ErrDuplicateTargetSection, "selector", selector.String())
			return zerr.With(err, "declared_as", first+", "+key)
		}
		seen[selector] = key

		dto := targets[key]
		if dto == nil {
			continue
		}
		if prefix != nil && dto.Feature != nil {
			return unknownField(append(clonePath(targetPath), key, "feature"))
		}
		if err := c.fillTarget(f.Targets.ForSelector(selector), dto, append(clonePath(targetPath), key)); err != nil {
			return zerr.With(err, "target", selector.String())
		}
	}
	return nil
}

// convertFeatureTargets applies the [target.<selector>.feature.<name>] tables. Each one is the same
// target as [feature.<name>.target.<selector>], so declaring both is a duplicate. A feature that is
// only mentioned here is registered after the declared ones.
func (c *converter) convertFeatureTargets(m *domain.Manifest, dto *Manifest) error {
	for _, key := range orderedKeys(c.order, dto.Target, "target") {
		target := dto.Target[key]
		if target == nil || target.Feature == nil {
			continue
		}
		selector, err := domain.ParseTargetSelector(key)
		if err != nil {
			return err
		}

		featurePath := []string{"target", key, "feature"}
		for _, name := range orderedKeys(c.order, target.Feature, featurePath...) {
			path := append(clonePath(featurePath), name)
			if err := c.fillFeatureTarget(m, selector, name, dto.Feature[name], target.Feature[name], path); err != nil {
				return zerr.With(zerr.With(err, "feature", name), "target", selector.String())
			}
		}
	}
	return nil
}

func (c *converter) fillFeatureTarget(
	m *domain.Manifest,
	selector domain.TargetSelector,
	name string,
	declared *FeatureDTO,
	dto *TargetDTO,
	path []string,
) error {
	if name == domain.DefaultName {
		return domain.ErrReservedFeatureName
	}
	if declared != nil {
		for key := range declared.Target {
			if s, err := domain.ParseTargetSelector(key); err == nil && s == selector {
				err := zerr.With(domain.ErrDuplicateTargetSection, "selector", selector.String())
				return zerr.With(err, "declared_as", "feature."+name+".target."+key)
			}
		}
	}
	if dto == nil {
		dto = &TargetDTO{}
	}
	if dto.Feature != nil {
		return unknownField(append(clonePath(path), "feature"))
	}
	return c.fillTarget(m.AddFeature(name).Targets.ForSelector(selector), dto, path)
}

func unknownField(path []string) error {
	return zerr.With(domain.ErrConfigParseFailed, "unknown_fields", strings.Join(path, "."))
}

func (c *converter) fillTarget(t *domain.Target, dto *TargetDTO, prefix []string) error {
	kinds := []struct {
		kind    domain.SpecType
		section string
		raw     map[string]any
	}{
		{domain.SpecTypeRun, "dependencies", dto.Dependencies},
		{domain.SpecTypeHost, "host-dependencies", dto.HostDependencies},
		{domain.SpecTypeBuild, "build-dependencies", dto.BuildDependencies},
	}
	for _, k := range kinds {
		if k.raw == nil {
			continue
		}
		deps, err := c.convertDependencies(k.raw, append(clonePath(prefix), k.section))
		if err != nil {
			return zerr.With(err, "section", k.section)
		}
		t.Dependencies[k.kind] = deps
	}

	if dto.PyPiDependencies != nil {
		deps, err := c.convertPyPiDependencies(dto.PyPiDependencies, append(clonePath(prefix), "pypi-dependencies"))
		if err != nil {
			return zerr.With(err, "section", "pypi-dependencies")
		}
		t.PyPiDependencies = deps
	}

	for name, raw := range dto.Tasks {
		task, err := convertTask(name, raw)
		if err != nil {
			return err
		}
		t.Tasks[name] = task
	}

	if dto.Activation != nil {
		t.Activation = &domain.Activation{Scripts: dto.Activation.Scripts}
	}
	return nil
}

func (c *converter) convertDependencies(raw map[string]any, path []string) (*domain.Dependencies, error) {
	deps := domain.NewRequirements[domain.NamelessMatchSpec]()
	for _, key := range orderedKeys(c.order, raw, path...) {
		name, err := domain.NormalizePackageName(key)
		if err != nil {
			return nil, err
		}
		spec, err := convertMatchSpec(raw[key])
		if err != nil {
			return nil, zerr.With(err, "package", name)
		}
		deps.Add(name, spec)
	}
	return deps, nil
}

func (c *converter) convertPyPiDependencies(raw map[string]any, path []string) (*domain.PyPiDependencies, error) {
	deps := domain.NewRequirements[domain.PyPiRequirement]()
	for _, key := range orderedKeys(c.order, raw, path...) {
		name, err := domain.NormalizePyPiName(key)
		if err != nil {
			return nil, err
		}
		req, err := convertPyPiRequirement(raw[key])
		if err != nil {
			return nil, zerr.With(err, "package", name)
		}
		deps.Add(name, req)
	}
	return deps, nil
}

func convertMatchSpec(raw any) (domain.NamelessMatchSpec, error) {
	switch v := raw.(type) {
	case string:
		return domain.ParseNamelessMatchSpec(v)
	case map[string]any:
		var spec domain.NamelessMatchSpec
		for key, value := range v {
			s, ok := value.(string)
			if !ok {
				return domain.NamelessMatchSpec{}, zerr.With(domain.ErrInvalidMatchSpec, "field", key)
			}
			switch key {
			case "version":
				spec.Version = strings.TrimSpace(s)
			case "build":
				spec.Build = strings.TrimSpace(s)
			case "channel":
				spec.Channel = strings.TrimSpace(s)
			default:
				return domain.NamelessMatchSpec{}, zerr.With(domain.ErrInvalidMatchSpec, "field", key)
			}
		}
		if strings.ContainsAny(spec.Version, " \t") || strings.ContainsAny(spec.Build, " \t") {
			return domain.NamelessMatchSpec{}, zerr.With(domain.ErrInvalidMatchSpec, "spec", spec.String())
		}
		return spec, nil
	default:
		return domain.NamelessMatchSpec{}, zerr.With(domain.ErrInvalidMatchSpec, "spec", fmt.Sprint(raw))
	}
}

func convertPyPiRequirement(raw any) (domain.PyPiRequirement, error) {
	switch v := raw.(type) {
	case string:
		return domain.NewPyPiRequirement(v, nil)
	case map[string]any:
		var version string
		var extras []string
		for key, value := range v {
			switch key {
			case "version":
				s, ok := value.(string)
				if !ok {
					return domain.PyPiRequirement{}, zerr.With(domain.ErrInvalidPyPiRequirement, "field", key)
				}
				version = s
			case "extras":
				list, err := stringList(value)
				if err != nil {
					return domain.PyPiRequirement{}, zerr.With(domain.ErrInvalidPyPiRequirement, "field", key)
				}
				extras = list
			default:
				return domain.PyPiRequirement{}, zerr.With(domain.ErrInvalidPyPiRequirement, "field", key)
			}
		}
		return domain.NewPyPiRequirement(version, extras)
	default:
		return domain.PyPiRequirement{}, zerr.With(domain.ErrInvalidPyPiRequirement, "requirement", fmt.Sprint(raw))
	}
}

func convertTask(name string, raw any) (domain.Task, error) {
	if strings.TrimSpace(name) == "" || strings.ContainsAny(name, " \t\n") {
		return domain.Task{}, zerr.With(domain.ErrInvalidTaskName, "task_name", name)
	}

	task := domain.Task{Name: domain.NewInternedString(name)}

	switch v := raw.(type) {
	case string:
		task.Command = v
	case map[string]any:
		if err := fillTask(&task, v); err != nil {
			return domain.Task{}, zerr.With(err, "task", name)
		}
		if task.IsAlias() && len(task.Dependencies) == 0 {
			return domain.Task{}, zerr.With(zerr.With(domain.ErrInvalidTask, "task", name), "reason", "needs cmd or depends-on")
		}
	default:
		return domain.Task{}, zerr.With(domain.ErrInvalidTask, "task", name)
	}

	if strings.TrimSpace(task.Command) == "" && task.Command != "" {
		return domain.Task{}, zerr.With(domain.ErrInvalidTask, "task", name)
	}
	return task, nil
}

func fillTask(task *domain.Task, fields map[string]any) error {
	for key, value := range fields {
		switch key {
		case "cmd":
			switch cmd := value.(type) {
			case string:
				task.Command = cmd
			case []any:
				args, err := stringList(cmd)
				if err != nil || len(args) == 0 {
					return zerr.With(domain.ErrInvalidTask, "field", key)
				}
				task.Command = domain.JoinCommand(args)
			default:
				return zerr.With(domain.ErrInvalidTask, "field", key)
			}
		case "depends-on", "depends_on":
			deps, err := stringOrList(value)
			if err != nil {
				return zerr.With(domain.ErrInvalidTask, "field", key)
			}
			task.Dependencies = domain.NewInternedStrings(deps)
		case "cwd":
			cwd, ok := value.(string)
			if !ok {
				return zerr.With(domain.ErrInvalidTask, "field", key)
			}
			task.WorkingDir = cwd
		case "env":
			env, ok := value.(map[string]any)
			if !ok {
				return zerr.With(domain.ErrInvalidTask, "field", key)
			}
			task.Environment = make(map[string]string, len(env))
			for k, v := range env {
				s, ok := v.(string)
				if !ok {
					return zerr.With(zerr.With(domain.ErrInvalidTask, "field", key), "variable", k)
				}
				task.Environment[k] = s
			}
		case "description":
			desc, ok := value.(string)
			if !ok {
				return zerr.With(domain.ErrInvalidTask, "field", key)
			}
			task.Description = desc
		default:
			return zerr.With(domain.ErrInvalidTask, "field", key)
		}
	}
	return nil
}

func (c *converter) convertChannels(raw []any) ([]domain.PrioritizedChannel, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]domain.PrioritizedChannel, 0, len(raw))
	for _, entry := range raw {
		pc, err := c.convertChannel(entry)
		if err != nil {
			return nil, err
		}
		out = append(out, pc)
	}
	return out, nil
}

func (c *converter) convertChannel(raw any) (domain.PrioritizedChannel, error) {
	switch v := raw.(type) {
	case string:
		ch, err := domain.ParseChannel(v, c.alias)
		if err != nil {
			return domain.PrioritizedChannel{}, err
		}
		return domain.PrioritizedChannel{Channel: ch}, nil
	case map[string]any:
		var pc domain.PrioritizedChannel
		name, ok := v["channel"].(string)
		if !ok {
			return domain.PrioritizedChannel{}, zerr.With(domain.ErrInvalidChannel, "field", "channel")
		}
		ch, err := domain.ParseChannel(name, c.alias)
		if err != nil {
			return domain.PrioritizedChannel{}, err
		}
		pc.Channel = ch
		for key, value := range v {
			switch key {
			case "channel":
			case "priority":
				priority, ok := value.(int64)
				if !ok {
					return domain.PrioritizedChannel{}, zerr.With(domain.ErrInvalidChannel, "priority", fmt.Sprint(value))
				}
				p := int(priority)
				pc.Priority = &p
			default:
				return domain.PrioritizedChannel{}, zerr.With(domain.ErrInvalidChannel, "field", key)
			}
		}
		return pc, nil
	default:
		return domain.PrioritizedChannel{}, zerr.With(domain.ErrInvalidChannel, "channel", fmt.Sprint(raw))
	}
}

func convertPlatforms(raw []string) (domain.PlatformSet, error) {
	set := domain.NewPlatformSet()
	for _, s := range raw {
		p, err := domain.ParsePlatform(s)
		if err != nil {
			return nil, err
		}
		set[p] = struct{}{}
	}
	return set, nil
}

func convertSystemRequirements(dto *SystemRequirementsDTO) (domain.SystemRequirements, error) {
	reqs := domain.SystemRequirements{
		Linux:    strings.TrimSpace(dto.Linux),
		MacOS:    strings.TrimSpace(dto.MacOS),
		Cuda:     strings.TrimSpace(dto.Cuda),
		Archspec: strings.TrimSpace(dto.Archspec),
		Unix:     dto.Unix,
		Windows:  dto.Windows,
	}

	versions := []struct{ field, value string }{
		{"linux", reqs.Linux},
		{"macos", reqs.MacOS},
		{"cuda", reqs.Cuda},
	}
	for _, v := range versions {
		if v.value == "" {
			continue
		}
		if err := domain.ValidateVersion(v.value); err != nil {
			return domain.SystemRequirements{}, zerr.With(err, "system_requirement", v.field)
		}
	}

	if dto.LibC != nil {
		libc, err := convertLibC(dto.LibC)
		if err != nil {
			return domain.SystemRequirements{}, zerr.With(err, "system_requirement", "libc")
		}
		reqs.LibC = libc
	}
	return reqs, nil
}

func convertLibC(raw any) (*domain.LibC, error) {
	libc := &domain.LibC{Family: domain.DefaultLibCFamily}
	switch v := raw.(type) {
	case string:
		libc.Version = strings.TrimSpace(v)
	case map[string]any:
		for key, value := range v {
			s, ok := value.(string)
			if !ok {
				return nil, zerr.With(domain.ErrInvalidVersion, "field", key)
			}
			switch key {
			case "family":
				libc.Family = strings.ToLower(strings.TrimSpace(s))
			case "version":
				libc.Version = strings.TrimSpace(s)
			default:
				return nil, zerr.With(domain.ErrInvalidVersion, "field", key)
			}
		}
	default:
		return nil, zerr.With(domain.ErrInvalidVersion, "version", fmt.Sprint(raw))
	}

	if err := domain.ValidateVersion(libc.Version); err != nil {
		return nil, err
	}
	return libc, nil
}

func (c *converter) convertEnvironment(m *domain.Manifest, name string, raw any) (*domain.Environment, error) {
	if !validEnvironmentNameRegex.MatchString(name) {
		return nil, domain.ErrInvalidEnvironmentName
	}

	env := &domain.Environment{Name: name}

	var features []string
	switch v := raw.(type) {
	case []any:
		list, err := stringList(v)
		if err != nil {
			return nil, zerr.With(domain.ErrInvalidEnvironment, "field", "features")
		}
		features = list
	case map[string]any:
		for key, value := range v {
			switch key {
			case "features":
				list, err := stringList(value)
				if err != nil {
					return nil, zerr.With(domain.ErrInvalidEnvironment, "field", key)
				}
				features = list
			case "solve-group", "solve_group":
				group, ok := value.(string)
				if !ok {
					return nil, zerr.With(domain.ErrInvalidEnvironment, "field", key)
				}
				env.SolveGroup = group
			default:
				return nil, zerr.With(domain.ErrInvalidEnvironment, "field", key)
			}
		}
	default:
		return nil, domain.ErrInvalidEnvironment
	}

	seen := make(map[string]struct{}, len(features))
	for _, feature := range features {
		if feature == domain.DefaultName {
			return nil, zerr.With(domain.ErrReservedFeatureName, "feature", feature)
		}
		if _, dup := seen[feature]; dup {
			return nil, zerr.With(domain.ErrDuplicateFeatureReference, "feature", feature)
		}
		seen[feature] = struct{}{}
		if _, ok := m.Feature(domain.NamedFeature(feature)); !ok {
			return nil, zerr.With(domain.ErrUnknownFeature, "feature", feature)
		}
		env.Features = append(env.Features, domain.NamedFeature(feature))
	}
	return env, nil
}

func stringList(raw any) ([]string, error) {
	list, ok := raw.([]any)
	if !ok {
		return nil, errNotStringList
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, errNotStringList
		}
		out = append(out, s)
	}
	return out, nil
}

func stringOrList(raw any) ([]string, error) {
	if s, ok := raw.(string); ok {
		return []string{s}, nil
	}
	return stringList(raw)
}

func clonePath(path []string) []string {
	return append([]string(nil), path...)
}
