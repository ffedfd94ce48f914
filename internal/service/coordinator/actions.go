package coordinator

import (
	"context"
	"fmt"

	"github.com/zhouzirui/resume-console/internal/service/api"
)

// Action names a user-triggerable flow. UI hosts bind their own inputs
// (buttons, routes, commands) to these.
type Action string

const (
	ActionExtract    Action = "extract"
	ActionSearchJobs Action = "jobs"
	ActionSendChat   Action = "chat"
)

// Actions lists every action in display order.
func Actions() []Action {
	return []Action{ActionExtract, ActionSearchJobs, ActionSendChat}
}

// ParseAction validates an action name.
func ParseAction(name string) (Action, error) {
	for _, a := range Actions() {
		if string(a) == name {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, name)
}

// Event is one user action together with its input.
type Event struct {
	Action  Action
	File    *api.Upload // extract
	Message string      // chat
}

// Handle runs the flow for ev to completion.
func (c *Coordinator) Handle(ctx context.Context, ev Event) error {
	switch ev.Action {
	case ActionExtract:
		return c.Extract(ctx, ev.File)
	case ActionSearchJobs:
		return c.SearchJobs(ctx)
	case ActionSendChat:
		c.SendChat(ctx, ev.Message)
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, ev.Action)
	}
}

// Dispatch runs the flow for ev on its own goroutine. The returned channel
// yields the Handle result once and is then closed.
func (c *Coordinator) Dispatch(ctx context.Context, ev Event) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- c.Handle(ctx, ev)
	}()
	return done
}
