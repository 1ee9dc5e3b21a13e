package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/josephlewis42/myssh/core/logger"
	"github.com/stretchr/testify/assert"
	"sigs.k8s.io/yaml"
)

func TestWriteReport(t *testing.T) {
	var log bytes.Buffer
	recorder := logger.NewJsonLinesLogRecorder(&log)
	first, second := recorder.NewSession(), recorder.NewSession()

	first.Record(&logger.RunCommand{Command: []string{"ls"}, Kind: "plain", Statuses: []int{0}})
	first.Record(&logger.Interrupt{})
	second.Record(&logger.RunCommand{Command: []string{"false"}, Kind: "plain", Statuses: []int{1}})

	cases := map[string]struct {
		session  string
		entries  int
		sessions int
		failed   int
	}{
		"all":     {session: "", entries: 3, sessions: 2, failed: 1},
		"first":   {session: first.SessionID(), entries: 2, sessions: 1, failed: 0},
		"second":  {session: second.SessionID(), entries: 1, sessions: 1, failed: 1},
		"unknown": {session: "nope", entries: 0, sessions: 0, failed: 0},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			var out bytes.Buffer
			assert.Nil(t, writeReport(&out, strings.NewReader(log.String()), tc.session))

			var got struct {
				LogEntries int `json:"log_entries"`
				Sessions   int `json:"sessions"`
				RunCommand struct {
					Failed int `json:"failed"`
				} `json:"run_command_report"`
			}
			assert.Nil(t, yaml.Unmarshal(out.Bytes(), &got))
			assert.Equal(t, tc.entries, got.LogEntries)
			assert.Equal(t, tc.sessions, got.Sessions)
			assert.Equal(t, tc.failed, got.RunCommand.Failed)
		})
	}
}

func TestWriteReport_invalid(t *testing.T) {
	var out bytes.Buffer
	err := writeReport(&out, strings.NewReader("{not json"), "")
	if assert.NotNil(t, err) {
		assert.Contains(t, err.Error(), "reading event log")
	}
}
