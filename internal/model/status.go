package model

import (
	"context"
	"fmt"
	"time"
)

// InstallMode selects how code is installed on an instance.
type InstallMode string

const (
	InstallModeInstall   InstallMode = "install"
	InstallModeReinstall InstallMode = "reinstall"
	InstallModeUpgrade   InstallMode = "upgrade"
)

// ParseInstallMode validates a mode; the empty string selects upgrade.
func ParseInstallMode(s string) (InstallMode, error) {
	switch m := InstallMode(s); m {
	case "":
		return InstallModeUpgrade, nil
	case InstallModeInstall, InstallModeReinstall, InstallModeUpgrade:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
	}
}

// SweepFailure records one instance that failed during a fleet sweep.
type SweepFailure struct {
	Principal Principal
	Handle    InstanceHandle
	Context   string
	Error     string
}

// UpgradeStatus is the outcome of the most recent completed upgrade run.
type UpgradeStatus struct {
	Version         uint64
	LastRunAt       time.Time
	Mode            InstallMode
	Failed          []SweepFailure
	SuccessfulCount uint64
}

// BackupStatus is the outcome of the most recent completed backup run.
type BackupStatus struct {
	Run             uint64
	RunID           string
	LastRunAt       time.Time
	Failed          []SweepFailure
	SuccessfulCount uint64
}

// StatusStore keeps the single live status record per sweep kind. Save
// replaces the previous record atomically.
type StatusStore interface {
	GetUpgradeStatus(ctx context.Context) (UpgradeStatus, error)
	SaveUpgradeStatus(ctx context.Context, status UpgradeStatus) error
	GetBackupStatus(ctx context.Context) (BackupStatus, error)
	SaveBackupStatus(ctx context.Context, status BackupStatus) error
}
