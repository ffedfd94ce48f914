package main

import (
	"bufio"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/zhouzirui/resume-console/internal/service/coordinator"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the assistant interactively",
	Long: `Reads one message per line from stdin. Lines starting with a slash are commands:
  /extract <file>  upload a resume
  /jobs            search jobs
  /quit            leave`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

type line struct {
	event coordinator.Event
	path  string
	quit  bool
}

// parseLine maps one line of input to an event. Empty lines are skipped.
func parseLine(text string) (line, bool) {
	text = strings.TrimSpace(text)
	switch {
	case text == "":
		return line{}, false
	case text == "/quit" || text == "/exit":
		return line{quit: true}, true
	case text == "/jobs":
		return line{event: coordinator.Event{Action: coordinator.ActionSearchJobs}}, true
	case text == "/extract" || strings.HasPrefix(text, "/extract "):
		path := strings.TrimSpace(strings.TrimPrefix(text, "/extract"))
		return line{event: coordinator.Event{Action: coordinator.ActionExtract}, path: path}, true
	default:
		return line{event: coordinator.Event{Action: coordinator.ActionSendChat, Message: text}}, true
	}
}

func runChat(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	fmt.Fprintf(out, "session %s\n", a.flows.SessionID())

	p := newPrinter(out, false)
	updates, unsubscribe := a.state.Subscribe()
	printed := make(chan struct{})
	go func() {
		defer close(printed)
		for snap := range updates {
			p.print(snap)
		}
	}()

	// 每条输入各自调度，回复按完成顺序打印。
	var wg sync.WaitGroup
	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		l, ok := parseLine(scanner.Text())
		if !ok {
			continue
		}
		if l.quit {
			break
		}

		ev := l.event
		release := func() {}
		if ev.Action == coordinator.ActionExtract {
			upload, closeFile, err := openUpload(l.path)
			if err != nil {
				fmt.Fprintln(errOut, err)
				continue
			}
			ev.File, release = upload, closeFile
		}

		done := a.flows.Dispatch(cmd.Context(), ev)
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer release()
			if err := <-done; err != nil {
				fmt.Fprintf(errOut, "%s: %v\n", ev.Action, err)
			}
		}()
	}

	wg.Wait()
	unsubscribe()
	<-printed
	p.print(a.state.Snapshot())
	return scanner.Err()
}
