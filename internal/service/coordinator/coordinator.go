// Package coordinator runs the three user flows (extract, job search, chat)
// against the resume parser service and projects their results onto the view.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/zhouzirui/resume-console/internal/metrics"
	"github.com/zhouzirui/resume-console/internal/model/chat"
	"github.com/zhouzirui/resume-console/internal/model/resume"
	"github.com/zhouzirui/resume-console/internal/service/api"
	"github.com/zhouzirui/resume-console/internal/view"
)

var (
	// ErrTriggerDisabled is returned when an action arrives while its control is disabled.
	ErrTriggerDisabled = errors.New("trigger disabled")
	// ErrUnknownAction is returned for events naming no known action.
	ErrUnknownAction = errors.New("unknown action")
)

// Status and transcript texts.
const (
	msgSelectFile   = "Please select a file."
	msgExtracting   = "Uploading and extracting..."
	msgExtracted    = "Extraction complete"
	msgSearching    = "Searching jobs..."
	msgSearchDone   = "Done"
	userEntryPrefix = "You: "
)

// Backend is the resume parser service.
type Backend interface {
	Extract(ctx context.Context, file api.Upload) (*api.Response, error)
	Jobs(ctx context.Context) (*api.Response, error)
	Chat(ctx context.Context, req chat.Request) (*api.Response, error)
}

// View is the part of the view state the flows drive.
type View interface {
	view.StatusReporter
	view.Renderer
	ClearChatInput()
	ResetExtraction() bool
	BeginExtraction() bool
	EndExtraction()
	JobsEnabled() bool
}

// IdentitySource yields the device session identifier.
type IdentitySource interface {
	Get() string
}

// Coordinator owns the in-flight requests and the gating of their triggers.
type Coordinator struct {
	backend   Backend
	view      View
	sessionID string
	metrics   *metrics.Recorder
}

// New builds a Coordinator. The session identifier is resolved once here and
// reused for every chat turn. rec may be nil.
func New(backend Backend, v View, identity IdentitySource, rec *metrics.Recorder) *Coordinator {
	return &Coordinator{
		backend:   backend,
		view:      v,
		sessionID: identity.Get(),
		metrics:   rec,
	}
}

// SessionID returns the identifier sent with chat turns.
func (c *Coordinator) SessionID() string {
	return c.sessionID
}

// Extract uploads file and renders the extraction result. A nil file is
// reported as a local error without touching the network.
func (c *Coordinator) Extract(ctx context.Context, file *api.Upload) error {
	const flow = "extract"

	if file == nil {
		if !c.view.ResetExtraction() {
			c.metrics.Observe(flow, metrics.OutcomeRejected)
			return ErrTriggerDisabled
		}
		c.metrics.Observe(flow, metrics.OutcomeInvalid)
		c.view.Report(msgSelectFile, true)
		return nil
	}

	// 清空输出与占用触发器在同一把锁内完成，被拒绝的请求不会改动视图。
	if !c.view.BeginExtraction() {
		c.metrics.Observe(flow, metrics.OutcomeRejected)
		return ErrTriggerDisabled
	}
	defer c.view.EndExtraction()

	c.view.Report(msgExtracting, false)

	start := time.Now()
	resp, err := c.backend.Extract(ctx, *file)
	c.metrics.ObserveDuration(flow, time.Since(start))
	if err != nil {
		c.reportTransportError(flow, err)
		return nil
	}

	payload := resume.Parse(resp.Body)
	c.view.ShowOutput(resume.Indent(resp.Body))
	c.view.RenderSkills(payload.Skills())
	c.reportOutcome(flow, resp, payload, msgExtracted)
	return nil
}

// SearchJobs requests recommendations and appends them to the transcript.
// It is blocked while an extraction is running but does not block anything
// itself.
func (c *Coordinator) SearchJobs(ctx context.Context) error {
	const flow = "jobs"

	if !c.view.JobsEnabled() {
		c.metrics.Observe(flow, metrics.OutcomeRejected)
		return ErrTriggerDisabled
	}

	c.view.Report(msgSearching, false)

	start := time.Now()
	resp, err := c.backend.Jobs(ctx)
	c.metrics.ObserveDuration(flow, time.Since(start))
	if err != nil {
		c.reportTransportError(flow, err)
		return nil
	}

	payload := resume.Parse(resp.Body)
	c.view.ShowOutput(resume.Indent(resp.Body))
	if recs, ok := payload.Recommendations(); ok {
		c.view.AppendRecommendations(recs)
	}
	c.reportOutcome(flow, resp, payload, msgSearchDone)
	return nil
}

// SendChat posts message and appends the reply to the transcript. Blank
// messages are dropped silently. Failures are written into the transcript,
// never into the status slot.
func (c *Coordinator) SendChat(ctx context.Context, message string) {
	const flow = "chat"

	msg := strings.TrimSpace(message)
	if msg == "" {
		return
	}

	c.view.ClearChatInput()
	c.view.AppendTranscriptEntry(userEntryPrefix+msg, chat.SenderUser)

	start := time.Now()
	resp, err := c.backend.Chat(ctx, chat.Request{Message: msg, SessionID: c.sessionID})
	c.metrics.ObserveDuration(flow, time.Since(start))
	if err != nil {
		log.Printf("[coordinator] %s failed: %v", flow, err)
		c.metrics.Observe(flow, metrics.OutcomeTransportError)
		c.view.AppendTranscriptEntry("Error: "+err.Error(), chat.SenderAssistant)
		return
	}

	payload := resume.Parse(resp.Body)
	text := payload.Text()
	if text == "" {
		text = resume.Compact(resp.Body)
	}
	c.view.AppendTranscriptEntry(text, chat.SenderAssistant)
	if recs, ok := payload.Recommendations(); ok {
		c.view.AppendRecommendations(recs)
	}

	if resp.OK() {
		c.metrics.Observe(flow, metrics.OutcomeSuccess)
	} else {
		c.metrics.Observe(flow, metrics.OutcomeFailed)
	}
}

func (c *Coordinator) reportOutcome(flow string, resp *api.Response, payload resume.Payload, success string) {
	if resp.OK() {
		c.metrics.Observe(flow, metrics.OutcomeSuccess)
		c.view.Report(success, false)
		return
	}

	detail := payload.Detail()
	if detail == "" {
		detail = resp.StatusText
	}
	log.Printf("[coordinator] %s returned HTTP %d: %s", flow, resp.StatusCode, detail)
	c.metrics.Observe(flow, metrics.OutcomeFailed)
	c.view.Report("Error: "+detail, true)
}

func (c *Coordinator) reportTransportError(flow string, err error) {
	log.Printf("[coordinator] %s failed: %v", flow, err)
	c.metrics.Observe(flow, metrics.OutcomeTransportError)
	c.view.Report(fmt.Sprintf("Failed: %v", err), true)
}
