package model

type FileNum = uint32
type FileNumToScorePath = map[FileNum]string

type Status string

const (
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
	StatusFailed   Status = "failed"
)

// Outcome records what happened to one input score.
type Outcome struct {
	FileNum FileNum `json:"file_num"`
	Path    string  `json:"path"`
	Status  Status  `json:"status"`
	Parsed  bool    `json:"parsed"`
	Key     string  `json:"key,omitempty"`
	Shift   int     `json:"shift"`
	Symbols int     `json:"symbols"`
	Error   string  `json:"error,omitempty"`
}

type Summary struct {
	Total    int `json:"total"`
	Loaded   int `json:"loaded"`
	Accepted int `json:"accepted"`
	Rejected int `json:"rejected"`
	Failed   int `json:"failed"`
}

type Manifest struct {
	RunID   string             `json:"run_id"`
	Summary Summary            `json:"summary"`
	Files   FileNumToScorePath `json:"files"`
}

// Summarize counts outcomes. A score counts as loaded when it parsed,
// even if it failed later.
func Summarize(outcomes []Outcome) Summary {
	res := Summary{Total: len(outcomes)}
	for _, o := range outcomes {
		if o.Parsed {
			res.Loaded++
		}
		switch o.Status {
		case StatusAccepted:
			res.Accepted++
		case StatusRejected:
			res.Rejected++
		case StatusFailed:
			res.Failed++
		}
	}
	return res
}
