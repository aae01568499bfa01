package session

import "fmt"

// Phase is the lifecycle stage of one analysis request
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseProcessing
	PhaseUploading
	PhaseCompleted
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseProcessing:
		return "processing"
	case PhaseUploading:
		return "uploading"
	case PhaseCompleted:
		return "completed"
	case PhaseError:
		return "error"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Status is the user-facing status line
type Status struct {
	Phase Phase
	// Percent is only meaningful while uploading
	Percent int
}

func (s Status) String() string {
	switch s.Phase {
	case PhaseProcessing:
		return "Processing video…"
	case PhaseUploading:
		return fmt.Sprintf("Uploading… %d%%", s.Percent)
	case PhaseCompleted:
		return "Completed"
	case PhaseError:
		return "Error"
	default:
		return ""
	}
}
