package render

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Job is one demo queued for rendering. Jobs are fire-and-forget: once the
// engine has been launched for a job it leaves the queue for good.
type Job struct {
	ID         string
	Label      string
	SourcePath string
	OutputPath string
}

// NewJob derives a job from a resolved demo path. The output video lands in
// dumpDir under the demo's stem.
func NewJob(demoPath, dumpDir string) Job {
	base := filepath.Base(demoPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		stem = base
	}
	return Job{
		ID:         uuid.NewString(),
		Label:      stem,
		SourcePath: demoPath,
		OutputPath: filepath.Join(dumpDir, stem+".mp4"),
	}
}
