package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"librieval/internal/config"
	"librieval/internal/services"
	"librieval/internal/services/whisperx"
)

// Requirement defines an external binary a transcription backend relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements lists the binaries needed by the configured backend. Hosted
// and static backends need none.
func Requirements(cfg *config.Config) []Requirement {
	if cfg == nil || cfg.Transcription.Backend != config.BackendWhisperX {
		return nil
	}
	launcher := Requirement{
		Name:        "uvx",
		Command:     whisperx.UVXCommand,
		Description: "Runs WhisperX in an ephemeral Python environment",
	}
	if binary := strings.TrimSpace(cfg.Transcription.WhisperXBinary); binary != "" {
		launcher = Requirement{
			Name:        "WhisperX",
			Command:     binary,
			Description: "Local WhisperX installation",
		}
	}
	return []Requirement{
		launcher,
		{
			Name:        "FFmpeg",
			Command:     "ffmpeg",
			Description: "Decodes audio for WhisperX",
		},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// Verify fails when a required binary of the configured backend is missing.
func Verify(cfg *config.Config) error {
	var missing []string
	for _, status := range CheckBinaries(Requirements(cfg)) {
		if !status.Available && !status.Optional {
			missing = append(missing, fmt.Sprintf("%s (%s)", status.Name, status.Detail))
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return services.Wrap(services.ErrConfiguration, "preflight", cfg.Transcription.Backend,
		"missing dependencies: "+strings.Join(missing, ", "), nil)
}
