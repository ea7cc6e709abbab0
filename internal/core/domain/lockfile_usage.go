package domain

// LockFileUsage tells an installer how to reconcile computed configuration with
// what was persisted by an earlier run.
type LockFileUsage uint8

const (
	// LockFileUpdate recomputes and persists. It is the default.
	LockFileUpdate LockFileUsage = iota
	// LockFileLocked fails when the computed configuration and the persisted one disagree.
	LockFileLocked
	// LockFileFrozen skips reconciliation and uses whatever was persisted last.
	LockFileFrozen
)

// NewLockFileUsage maps the frozen and locked flags to a policy.
// Requesting both is an error, requesting neither selects LockFileUpdate.
func NewLockFileUsage(frozen, locked bool) (LockFileUsage, error) {
	switch {
	case frozen && locked:
		return LockFileUpdate, ErrConflictingLockFileFlags
	case frozen:
		return LockFileFrozen, nil
	case locked:
		return LockFileLocked, nil
	default:
		return LockFileUpdate, nil
	}
}

// AllowsLockFileUpdates reports whether the persisted state may be rewritten.
func (u LockFileUsage) AllowsLockFileUpdates() bool {
	return u == LockFileUpdate
}

// ShouldCheckIfOutOfDate reports whether the persisted state must be compared with the computed one.
func (u LockFileUsage) ShouldCheckIfOutOfDate() bool {
	return u != LockFileFrozen
}

// String returns the policy name.
func (u LockFileUsage) String() string {
	switch u {
	case LockFileLocked:
		return "locked"
	case LockFileFrozen:
		return "frozen"
	default:
		return "update"
	}
}
