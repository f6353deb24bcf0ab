package model

type EncodeRequest struct {
	Kern string `json:"kern"`
}

type EncodeResponse struct {
	Key     string   `json:"key"`
	Shift   int      `json:"shift"`
	Symbols []string `json:"symbols"`
	Ids     []int    `json:"ids"`
}

type VocabularyResponse struct {
	Symbols []string `json:"symbols"`
}

type ReportResponse struct {
	RunID   string  `json:"run_id"`
	Summary Summary `json:"summary"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
