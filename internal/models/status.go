package models

// ProcessStatus describes one supervised process.
type ProcessStatus struct {
	Pid     int  `json:"pid"`
	Running bool `json:"running"`
}

// Status is the supervisor's view of its children.
type Status struct {
	Uptime string         `json:"uptime"`
	Worker *ProcessStatus `json:"worker,omitempty"`
	Web    *ProcessStatus `json:"web,omitempty"`
}

// PingLog is the tail of the auto-ping log, newest line last.
type PingLog struct {
	Lines []string `json:"lines"`
}
