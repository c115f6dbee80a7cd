package history

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Status is the lifecycle state of a render job.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusRunning Status = "running"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Done reports whether the job has finished either way.
func (s Status) Done() bool {
	return s == StatusSuccess || s == StatusFailed
}

// Kind names the render operation a job ran.
type Kind string

const (
	KindCaptions Kind = "captions"
	KindBurn     Kind = "burn_captions"
	KindMerge    Kind = "merge_audio"
	KindConcat   Kind = "concat"
	KindOverlay  Kind = "overlay"
	KindMusic    Kind = "background_music"
	KindScenes   Kind = "merge_scenes"
)

// Label renders the kind for humans, e.g. "Burn Captions".
func (k Kind) Label() string {
	// Casers are stateful and must not be shared.
	return cases.Title(language.English).String(strings.ReplaceAll(string(k), "_", " "))
}

// Job is one recorded render.
type Job struct {
	ID          string
	Kind        Kind
	Status      Status
	Output      string
	Error       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

// Elapsed returns the run time of a finished job, or the time since it was
// created when it is still going.
func (j *Job) Elapsed(now time.Time) time.Duration {
	end := now
	if j.CompletedAt != nil {
		end = *j.CompletedAt
	}
	return end.Sub(j.CreatedAt)
}
