package ui

// sessionChangedMsg signals that the controller state moved on and the view needs a new snapshot
type sessionChangedMsg struct{}

// selectFinishedMsg is returned once a dropped or typed path has been selected
type selectFinishedMsg struct {
	Path  string
	Error error
}

// submitFinishedMsg is returned when an upload finished, either way
type submitFinishedMsg struct {
	Error error
}
