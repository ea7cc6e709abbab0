package domain

import "go.trai.ch/zerr"

var (
	// ErrUnsupportedPlatform is returned when a platform is not supported by an environment.
	ErrUnsupportedPlatform = zerr.New("platform is not supported by environment")

	// ErrUnknownTask is returned when a task cannot be found for an environment and platform.
	ErrUnknownTask = zerr.New("unknown task")

	// ErrSystemRequirementsConflict is returned when two system requirement declarations cannot be merged.
	ErrSystemRequirementsConflict = zerr.New("conflicting system requirements")

	// ErrInvalidPlatform is returned when a platform string is not a known platform.
	ErrInvalidPlatform = zerr.New("invalid platform")

	// ErrInvalidTargetSelector is returned when a target selector is neither a platform nor a platform family.
	ErrInvalidTargetSelector = zerr.New("invalid target selector")

	// ErrInvalidChannel is returned when a channel cannot be parsed.
	ErrInvalidChannel = zerr.New("invalid channel")

	// ErrInvalidVersion is returned when a system requirement version is malformed.
	ErrInvalidVersion = zerr.New("invalid version")

	// ErrInvalidMatchSpec is returned when a conda dependency specification is malformed.
	ErrInvalidMatchSpec = zerr.New("invalid match spec")

	// ErrInvalidPyPiRequirement is returned when a pypi requirement is malformed.
	ErrInvalidPyPiRequirement = zerr.New("invalid pypi requirement")

	// ErrInvalidPackageName is returned when a dependency is declared with an empty or malformed name.
	ErrInvalidPackageName = zerr.New("invalid package name")

	// ErrConflictingLockFileFlags is returned when both frozen and locked are requested.
	ErrConflictingLockFileFlags = zerr.New("the --frozen and --locked flags are mutually exclusive")

	// ErrMissingProjectName is returned when the manifest does not declare a project name.
	ErrMissingProjectName = zerr.New("missing project name")

	// ErrUnknownFeature is returned when an environment references a feature that is not declared.
	ErrUnknownFeature = zerr.New("environment references an undeclared feature")

	// ErrReservedFeatureName is returned when a feature is declared with the reserved name "default".
	ErrReservedFeatureName = zerr.New("feature name 'default' is reserved")

	// ErrDuplicateFeatureReference is returned when an environment lists the same feature twice.
	ErrDuplicateFeatureReference = zerr.New("feature is listed more than once")

	// ErrInvalidEnvironmentName is returned when an environment name contains invalid characters.
	ErrInvalidEnvironmentName = zerr.New("environment name can only contain lowercase letters, digits and hyphens")

	// ErrInvalidEnvironment is returned when an environment definition is malformed.
	ErrInvalidEnvironment = zerr.New("invalid environment definition")

	// ErrUnknownEnvironment is returned when a requested environment is not declared.
	ErrUnknownEnvironment = zerr.New("unknown environment")

	// ErrDuplicateTargetSection is returned when the same section of a target is declared twice.
	ErrDuplicateTargetSection = zerr.New("target section is declared more than once")

	// ErrInvalidTask is returned when a task definition is malformed.
	ErrInvalidTask = zerr.New("invalid task definition")

	// ErrInvalidTaskName is returned when a task name is empty or contains whitespace.
	ErrInvalidTaskName = zerr.New("invalid task name")

	// ErrTaskAlreadyExists is returned when attempting to add a task with a name that already exists.
	ErrTaskAlreadyExists = zerr.New("task already exists")

	// ErrMissingDependency is returned when a task references a dependency that doesn't exist in the graph.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrCycleDetected is returned when a cycle is detected in the task dependency graph.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrTaskExecutionFailed is returned when a task execution fails.
	ErrTaskExecutionFailed = zerr.New("task execution failed")

	// ErrConfigReadFailed is returned when the manifest cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read manifest")

	// ErrConfigParseFailed is returned when the manifest cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse manifest")

	// ErrConfigNotFound is returned when no manifest can be found.
	ErrConfigNotFound = zerr.New("could not find manifold.toml")

	// ErrSettingsReadFailed is returned when the user settings file cannot be read.
	ErrSettingsReadFailed = zerr.New("failed to read user settings")

	// ErrInvalidColorMode is returned when a color mode is not one of auto, always or never.
	ErrInvalidColorMode = zerr.New("invalid color mode, expected 'auto', 'always' or 'never'")

	// ErrInvalidOutputFormat is returned when an output format is not supported.
	ErrInvalidOutputFormat = zerr.New("invalid output format, expected 'pretty', 'json' or 'yaml'")

	// ErrStoreCreateFailed is returned when the environment directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create environment directory")

	// ErrStoreReadFailed is returned when the intent snapshot cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read intent snapshot")

	// ErrStoreUnmarshalFailed is returned when the intent snapshot cannot be unmarshaled.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal intent snapshot")

	// ErrStoreMarshalFailed is returned when the intent snapshot cannot be marshaled.
	ErrStoreMarshalFailed = zerr.New("failed to marshal intent snapshot")

	// ErrStoreWriteFailed is returned when the intent snapshot cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write intent snapshot")

	// ErrIntentNotFound is returned in frozen mode when no intent snapshot has ever been persisted.
	ErrIntentNotFound = zerr.New("no persisted intent snapshot, run install without --frozen first")

	// ErrIntentOutOfDate is returned in locked mode when the persisted snapshot differs from the manifest.
	ErrIntentOutOfDate = zerr.New("persisted intent snapshot is out of date with the manifest")

	// ErrWatcherFailed is returned when the manifest watcher cannot be started.
	ErrWatcherFailed = zerr.New("failed to watch manifest")
)
