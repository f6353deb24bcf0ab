package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	outcomes := []Outcome{
		{Status: StatusAccepted, Parsed: true},
		{Status: StatusAccepted, Parsed: true},
		{Status: StatusRejected, Parsed: true},
		{Status: StatusFailed, Parsed: true, Error: "unresolved key"},
		{Status: StatusFailed, Error: "unparsable score"},
	}
	assert.Equal(t, Summary{Total: 5, Loaded: 4, Accepted: 2, Rejected: 1, Failed: 2}, Summarize(outcomes))
	assert.Equal(t, Summary{}, Summarize(nil))
}
