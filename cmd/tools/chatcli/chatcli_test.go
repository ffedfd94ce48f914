package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/resume-console/internal/model/chat"
	"github.com/zhouzirui/resume-console/internal/model/jobs"
	"github.com/zhouzirui/resume-console/internal/service/coordinator"
	"github.com/zhouzirui/resume-console/internal/view"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		ok     bool
		action coordinator.Action
		path   string
		quit   bool
	}{
		{name: "blank", input: "   ", ok: false},
		{name: "quit", input: "/quit", ok: true, quit: true},
		{name: "exit", input: "/exit", ok: true, quit: true},
		{name: "jobs", input: "/jobs", ok: true, action: coordinator.ActionSearchJobs},
		{name: "extract with path", input: "/extract  cv.pdf ", ok: true, action: coordinator.ActionExtract, path: "cv.pdf"},
		{name: "extract without path", input: "/extract", ok: true, action: coordinator.ActionExtract},
		{name: "message", input: " any remote roles? ", ok: true, action: coordinator.ActionSendChat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, ok := parseLine(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.quit, l.quit)
			assert.Equal(t, tt.action, l.event.Action)
			assert.Equal(t, tt.path, l.path)
		})
	}

	l, _ := parseLine(" any remote roles? ")
	assert.Equal(t, "any remote roles?", l.event.Message)
}

func TestOpenUpload(t *testing.T) {
	upload, closeFile, err := openUpload("")
	require.NoError(t, err)
	assert.Nil(t, upload)
	closeFile()

	path := filepath.Join(t.TempDir(), "cv.txt")
	require.NoError(t, os.WriteFile(path, []byte("Ada"), 0o600))
	upload, closeFile, err = openUpload(path)
	require.NoError(t, err)
	defer closeFile()
	assert.Equal(t, path, upload.Filename)

	_, _, err = openUpload(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestPrinterWritesOnlyChanges(t *testing.T) {
	var out bytes.Buffer
	p := newPrinter(&out, false)

	user := chat.Entry{Sender: chat.SenderUser, Text: "You: hi"}
	snap := view.Snapshot{
		Status:     view.Status{Text: "Searching jobs..."},
		Transcript: []view.Item{{Kind: view.ItemEntry, Entry: &user}},
	}
	p.print(snap)
	assert.Equal(t, "You: hi\nSearching jobs...\n", out.String())

	out.Reset()
	p.print(snap)
	assert.Empty(t, out.String())

	snap.Status = view.Status{Text: "Error: Bad Request", IsError: true}
	snap.Skills = []string{"Go"}
	snap.Transcript = append(snap.Transcript, view.Item{
		Kind:            view.ItemRecommendations,
		Recommendations: []jobs.Recommendation{{Title: "SRE", Link: "https://example.com/sre"}},
	})
	p.print(snap)
	assert.Equal(t, "Skills: [Go]\n  * SRE <https://example.com/sre>\n! Error: Bad Request\n", out.String())
}

func TestPrinterShowsOutputWhenAsked(t *testing.T) {
	var out bytes.Buffer
	newPrinter(&out, true).print(view.Snapshot{Output: "{\n  \"skills\": []\n}"})
	assert.Equal(t, "{\n  \"skills\": []\n}\n", out.String())
}
