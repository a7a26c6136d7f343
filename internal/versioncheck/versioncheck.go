package versioncheck

import (
	"time"

	vcDatamodel "github.com/frahmantamala/chat-admin/internal/core/datamodel/versioncheck"
)

// JobName is the scheduler registration name of the daily check.
const JobName = "version_check"

// Result is the outcome of the latest version check. There is only ever one.
type Result struct {
	CheckedAt       time.Time `json:"checkedAt"`
	CurrentVersion  string    `json:"currentVersion"`
	LatestVersion   string    `json:"latestVersion"`
	UpdateNeeded    bool      `json:"updateNeeded"`
	BannerDismissed bool      `json:"bannerDismissed"`
}

// ShowBanner reports whether admins should still be nagged about an update.
func (r *Result) ShowBanner() bool {
	return r.UpdateNeeded && !r.BannerDismissed
}

// Releases is the payload returned by the remote update service.
type Releases struct {
	Versions []Release `json:"versions"`
}

type Release struct {
	Version  string `json:"version"`
	Security bool   `json:"security"`
	InfoURL  string `json:"infoUrl"`
}

// Activation is the outcome of evaluating the schedule activation policy.
type Activation string

const (
	ActivationScheduled        Activation = "scheduled"
	ActivationAlreadyScheduled Activation = "already_scheduled"
	ActivationUnscheduled      Activation = "unscheduled"
)

func ToDataModel(r *Result) *vcDatamodel.VersionCheck {
	return &vcDatamodel.VersionCheck{
		ID:              vcDatamodel.SingletonID,
		CheckedAt:       r.CheckedAt,
		CurrentVersion:  r.CurrentVersion,
		LatestVersion:   r.LatestVersion,
		UpdateNeeded:    r.UpdateNeeded,
		BannerDismissed: r.BannerDismissed,
	}
}

func FromDataModel(v *vcDatamodel.VersionCheck) *Result {
	return &Result{
		CheckedAt:       v.CheckedAt,
		CurrentVersion:  v.CurrentVersion,
		LatestVersion:   v.LatestVersion,
		UpdateNeeded:    v.UpdateNeeded,
		BannerDismissed: v.BannerDismissed,
	}
}
