package video

import "time"

// VideoMetadata contains the probed properties shown in a preview
type VideoMetadata struct {
	Resolution string
	Duration   time.Duration
}

// String renders the metadata the way the preview block displays it
func (m VideoMetadata) String() string {
	if m.Resolution == "" {
		return m.Duration.Round(time.Second).String()
	}
	return m.Resolution + ", " + m.Duration.Round(time.Second).String()
}
