package deps

import (
	"os/exec"
	"strings"
)

// ResolveFFmpegPath returns the ffmpeg binary the pipeline will execute. A
// configured path wins; otherwise "ffmpeg" is resolved from PATH.
func ResolveFFmpegPath(configured string) string {
	return resolveBinary(configured, "ffmpeg")
}

// ResolveDemucsPath returns the demucs binary used for vocal separation.
func ResolveDemucsPath(configured string) string {
	return resolveBinary(configured, "demucs")
}

func resolveBinary(configured, fallback string) string {
	if name := strings.TrimSpace(configured); name != "" {
		return name
	}
	if resolved, err := exec.LookPath(fallback); err == nil {
		return resolved
	}
	return fallback
}
