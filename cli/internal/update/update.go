// Package update compares the running version against the latest release.
package update

import (
	"fmt"

	"github.com/hashicorp/go-version"

	"github.com/G4brym/workers-qb/cli/internal/ui"
)

// latestKnown is the newest release the binary knows about; release builds
// stamp it via -ldflags.
var latestKnown = "0.1.0"

// Check reports whether a newer release than currentVersion exists and
// prints upgrade instructions when it does.
func Check(currentVersion string) (bool, error) {
	current, err := version.NewVersion(currentVersion)
	if err != nil {
		return false, fmt.Errorf("invalid version format: %w", err)
	}

	latest, err := version.NewVersion(latestKnown)
	if err != nil {
		return false, fmt.Errorf("invalid latest version format: %w", err)
	}

	if current.LessThan(latest) {
		ui.PrintWarning("A new version is available!")
		ui.PrintInfo("Current version: %s", currentVersion)
		ui.PrintInfo("Latest version:  %s", latestKnown)
		ui.PrintInfo("Update with: go install github.com/G4brym/workers-qb/cli@latest")
		return true, nil
	}
	return false, nil
}
