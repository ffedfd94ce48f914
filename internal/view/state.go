// Package view holds everything the user sees: the status slot, the raw
// output panel, the skill chips, the chat transcript and the enablement of the
// extract and job-search triggers. Flows mutate it only through the
// StatusReporter and Renderer contracts; UI hosts read immutable snapshots.
package view

import (
	"slices"
	"sync"

	"github.com/zhouzirui/resume-console/internal/model/chat"
	"github.com/zhouzirui/resume-console/internal/model/jobs"
)

// SkillsPlaceholder is shown in the skill area when there is nothing to show.
const SkillsPlaceholder = "None yet"

// StatusReporter is the single-slot status indicator.
type StatusReporter interface {
	// Report replaces the status text and its severity. Report("", false) clears it.
	Report(text string, isError bool)
}

// Renderer projects result data onto the view.
type Renderer interface {
	ShowOutput(raw string)
	RenderSkills(skills []string)
	AppendTranscriptEntry(text string, sender chat.Sender)
	AppendRecommendations(recs []jobs.Recommendation)
}

// Status is the content of the status slot.
type Status struct {
	Text    string `json:"text"`
	IsError bool   `json:"isError"`
}

// ItemKind distinguishes transcript items.
type ItemKind string

const (
	ItemEntry           ItemKind = "entry"
	ItemRecommendations ItemKind = "recommendations"
)

// Item is one block in the transcript: a chat entry or a recommendation list.
type Item struct {
	Kind            ItemKind              `json:"kind"`
	Entry           *chat.Entry           `json:"entry,omitempty"`
	Recommendations []jobs.Recommendation `json:"recommendations,omitempty"`
}

// Triggers records which action controls are enabled.
type Triggers struct {
	Extract bool `json:"extract"`
	Jobs    bool `json:"jobs"`
}

// Snapshot is an immutable copy of the view.
type Snapshot struct {
	Version    uint64   `json:"version"`
	Status     Status   `json:"status"`
	Output     string   `json:"output"`
	Skills     []string `json:"skills"`
	Transcript []Item   `json:"transcript"`
	Triggers   Triggers `json:"triggers"`
	ChatInput  string   `json:"chatInput"`
}

// State is the mutable view owned by the coordinator. It is safe for
// concurrent use; the transcript only ever grows.
type State struct {
	mu          sync.Mutex
	snap        Snapshot
	subscribers map[int]chan Snapshot
	nextID      int
}

// NewState returns an empty view with both triggers enabled.
func NewState() *State {
	return &State{
		snap:        Snapshot{Triggers: Triggers{Extract: true, Jobs: true}},
		subscribers: make(map[int]chan Snapshot),
	}
}

// Report implements StatusReporter.
func (s *State) Report(text string, isError bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := Status{Text: text, IsError: isError}
	if s.snap.Status == next {
		return
	}
	s.snap.Status = next
	s.publishLocked()
}

// ShowOutput replaces the raw output panel.
func (s *State) ShowOutput(raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snap.Output == raw {
		return
	}
	s.snap.Output = raw
	s.publishLocked()
}

// RenderSkills replaces the skill area. An empty list shows the placeholder.
func (s *State) RenderSkills(skills []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.Equal(s.snap.Skills, skills) {
		return
	}
	s.snap.Skills = slices.Clone(skills)
	if len(s.snap.Skills) == 0 {
		s.snap.Skills = nil
	}
	s.publishLocked()
}

// AppendTranscriptEntry adds one chat entry to the end of the transcript.
func (s *State) AppendTranscriptEntry(text string, sender chat.Sender) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := chat.Entry{Sender: sender, Text: text}
	s.snap.Transcript = append(s.snap.Transcript, Item{Kind: ItemEntry, Entry: &entry})
	s.publishLocked()
}

// AppendRecommendations adds a recommendation list after the current
// transcript. Empty input is a no-op.
func (s *State) AppendRecommendations(recs []jobs.Recommendation) {
	if len(recs) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.Transcript = append(s.snap.Transcript, Item{Kind: ItemRecommendations, Recommendations: slices.Clone(recs)})
	s.publishLocked()
}

// SetChatInput mirrors what the user has typed so far.
func (s *State) SetChatInput(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snap.ChatInput == text {
		return
	}
	s.snap.ChatInput = text
	s.publishLocked()
}

// ClearChatInput empties the chat input.
func (s *State) ClearChatInput() {
	s.SetChatInput("")
}

// BeginExtraction clears the output panel and status, then disables the
// extract and job-search triggers together, in one step. It returns false,
// changing nothing, when extraction is already disabled.
func (s *State) BeginExtraction() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.snap.Triggers.Extract {
		return false
	}
	s.snap.Output = ""
	s.snap.Status = Status{}
	s.snap.Triggers = Triggers{}
	s.publishLocked()
	return true
}

// ResetExtraction clears the output panel and status without taking the
// triggers. Like BeginExtraction it does nothing and returns false while
// extraction is disabled.
func (s *State) ResetExtraction() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.snap.Triggers.Extract {
		return false
	}
	if s.snap.Output != "" || s.snap.Status != (Status{}) {
		s.snap.Output = ""
		s.snap.Status = Status{}
		s.publishLocked()
	}
	return true
}

// EndExtraction re-enables both triggers.
func (s *State) EndExtraction() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap.Triggers = Triggers{Extract: true, Jobs: true}
	s.publishLocked()
}

// JobsEnabled reports whether the job-search trigger can be used.
func (s *State) JobsEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Triggers.Jobs
}

// Snapshot returns a copy of the current view.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLocked()
}

// Subscribe returns a channel receiving a snapshot after every change,
// starting with the current one. A slow reader only ever sees the latest
// snapshot; flows never block on it. Call cancel to stop receiving.
func (s *State) Subscribe() (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan Snapshot, 1)
	ch <- s.copyLocked()
	s.subscribers[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			s.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

func (s *State) publishLocked() {
	s.snap.Version++
	if len(s.subscribers) == 0 {
		return
	}
	snap := s.copyLocked()
	for _, ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

func (s *State) copyLocked() Snapshot {
	out := s.snap
	out.Skills = slices.Clone(s.snap.Skills)
	out.Transcript = make([]Item, len(s.snap.Transcript))
	for i, item := range s.snap.Transcript {
		if item.Entry != nil {
			entry := *item.Entry
			item.Entry = &entry
		}
		item.Recommendations = slices.Clone(item.Recommendations)
		out.Transcript[i] = item
	}
	return out
}
