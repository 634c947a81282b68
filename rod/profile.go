package rod

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/kmazurek/scorecap"
)

// singletonLockFiles are the files Chromium uses to enforce single-process
// ownership of a profile directory.
var singletonLockFiles = []string{"SingletonLock", "SingletonSocket", "SingletonCookie"}

// loginMarkerFile is the sentinel recording that a login was completed in
// this profile at some point. Checked without starting a browser.
const loginMarkerFile = ".logged_in"

// ReclaimProfile makes the profile directory startable. If the singleton
// lock records a live holder process, ReclaimProfile fails with
// EUNAVAILABLE; a provably dead holder's lock files are removed.
func ReclaimProfile(profileDir string) error {
	lockPath := filepath.Join(profileDir, "SingletonLock")

	target, err := os.Readlink(lockPath)
	if err != nil {
		if _, statErr := os.Lstat(lockPath); os.IsNotExist(statErr) {
			return nil // no lock, nothing to reclaim
		}
		// Lock exists but its holder cannot be determined. Refuse to
		// steal a profile that may be in use.
		return scorecap.Errorf(scorecap.EUNAVAILABLE,
			"profile %s is locked and the holder could not be determined", profileDir)
	}

	pid, ok := lockPID(target)
	if !ok {
		return scorecap.Errorf(scorecap.EUNAVAILABLE,
			"profile %s is locked by an unidentifiable process", profileDir)
	}

	alive, err := process.PidExists(int32(pid))
	if err == nil && alive {
		return scorecap.Errorf(scorecap.EUNAVAILABLE,
			"profile %s is locked by live process %d", profileDir, pid)
	}

	for _, name := range singletonLockFiles {
		_ = os.Remove(filepath.Join(profileDir, name))
	}
	return nil
}

// lockPID parses the pid out of a Chromium SingletonLock target, which
// has the form "hostname-pid".
func lockPID(target string) (int, bool) {
	i := strings.LastIndex(target, "-")
	if i < 0 || i == len(target)-1 {
		return 0, false
	}
	pid, err := strconv.Atoi(target[i+1:])
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}

// Profile exposes the login sentinel of one profile directory behind
// methods, for callers that should not know about directory layout.
type Profile struct {
	Dir string
}

// HasLogin reports whether a login was ever completed in this profile.
func (p Profile) HasLogin() bool { return HasLoginMarker(p.Dir) }

// MarkLoggedIn records a completed login.
func (p Profile) MarkLoggedIn() error { return WriteLoginMarker(p.Dir) }

// ClearLogin forgets any recorded login.
func (p Profile) ClearLogin() error { return ClearLoginMarker(p.Dir) }

// HasLoginMarker reports whether the profile carries the has-ever-logged-in
// sentinel.
func HasLoginMarker(profileDir string) bool {
	_, err := os.Stat(filepath.Join(profileDir, loginMarkerFile))
	return err == nil
}

// WriteLoginMarker records that a login was completed in this profile.
func WriteLoginMarker(profileDir string) error {
	if err := os.MkdirAll(profileDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(profileDir, loginMarkerFile), nil, 0o644)
}

// ClearLoginMarker removes the sentinel. Removing a missing marker is
// not an error.
func ClearLoginMarker(profileDir string) error {
	err := os.Remove(filepath.Join(profileDir, loginMarkerFile))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
