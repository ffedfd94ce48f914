package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zhouzirui/resume-console/internal/config"
	"github.com/zhouzirui/resume-console/internal/service/api"
	"github.com/zhouzirui/resume-console/internal/service/coordinator"
	"github.com/zhouzirui/resume-console/internal/service/session"
	"github.com/zhouzirui/resume-console/internal/view"
)

var errFlowFailed = errors.New("flow failed")

type app struct {
	flows *coordinator.Coordinator
	state *view.State
	store *session.SQLiteStore
}

// newApp wires the flows the same way the web console does, sharing its
// device store so chat turns continue the same session.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	baseURL := cfg.Backend.BaseURL
	if apiBaseURL != "" {
		baseURL = strings.TrimRight(apiBaseURL, "/")
	}

	store, err := session.OpenSQLiteStore(cfg.Session.StorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	client := api.NewClient(baseURL, &api.Options{Timeout: cfg.Backend.Timeout})
	state := view.NewState()
	return &app{
		flows: coordinator.New(client, state, session.NewIdentity(store, cfg.Session.Key), nil),
		state: state,
		store: store,
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// runOnce handles a single event and prints the resulting view.
func runOnce(cmd *cobra.Command, ev coordinator.Event) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.flows.Handle(cmd.Context(), ev); err != nil {
		return err
	}

	snap := a.state.Snapshot()
	newPrinter(cmd.OutOrStdout(), true).print(snap)
	if snap.Status.IsError {
		return errFlowFailed
	}
	return nil
}

// openUpload opens path for extraction. An empty path yields no file, which
// the extraction flow reports on its own.
func openUpload(path string) (*api.Upload, func(), error) {
	if path == "" {
		return nil, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return &api.Upload{Filename: path, Content: f}, func() { _ = f.Close() }, nil
}

// printer writes only what changed between successive snapshots.
type printer struct {
	out        io.Writer
	showOutput bool

	output string
	status view.Status
	skills []string
	shown  int
}

func newPrinter(out io.Writer, showOutput bool) *printer {
	return &printer{out: out, showOutput: showOutput}
}

func (p *printer) print(snap view.Snapshot) {
	if p.showOutput && snap.Output != p.output {
		p.output = snap.Output
		if snap.Output != "" {
			fmt.Fprintln(p.out, snap.Output)
		}
	}

	if !slices.Equal(snap.Skills, p.skills) {
		p.skills = snap.Skills
		fmt.Fprintf(p.out, "Skills: %s\n", view.SkillsText(snap.Skills))
	}

	if p.shown > len(snap.Transcript) {
		p.shown = 0
	}
	for _, item := range snap.Transcript[p.shown:] {
		fmt.Fprint(p.out, view.ItemText(item))
	}
	p.shown = len(snap.Transcript)

	if snap.Status != p.status {
		p.status = snap.Status
		if line := view.StatusText(snap.Status); line != "" {
			fmt.Fprintln(p.out, line)
		}
	}
}
