package tui

import (
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wexinc/rizeclone/internal/config"
	"github.com/wexinc/rizeclone/internal/daemon"
)

// Sender delivers messages to a running program. *tea.Program implements it.
type Sender interface {
	Send(msg tea.Msg)
}

// EventForwarder queues daemon events and delivers them to the TUI in order
// from its own goroutine. HandleEvent never blocks, so the daemon may emit
// events from inside a call made by the TUI's Update.
type EventForwarder struct {
	mu      sync.Mutex
	sender  Sender
	queue   []tea.Msg
	wake    chan struct{}
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

// NewEventForwarder creates a forwarder. Messages are held until Attach.
func NewEventForwarder() *EventForwarder {
	f := &EventForwarder{
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go f.run()
	return f
}

// Attach sets the destination and flushes anything queued so far.
func (f *EventForwarder) Attach(s Sender) {
	f.mu.Lock()
	f.sender = s
	f.mu.Unlock()
	f.signal()
}

// HandleEvent queues a daemon event. Use it as daemon Options.OnEvent.
// Samples are dropped; the dashboard refreshes on its own tick.
func (f *EventForwarder) HandleEvent(event daemon.Event) {
	if event.Type == daemon.EventSample {
		return
	}
	f.Send(DaemonEventMsg{Event: event})
}

// Send queues an arbitrary message.
func (f *EventForwarder) Send(msg tea.Msg) {
	f.mu.Lock()
	f.queue = append(f.queue, msg)
	f.mu.Unlock()
	f.signal()
}

func (f *EventForwarder) signal() {
	select {
	case f.wake <- struct{}{}:
	default:
	}
}

func (f *EventForwarder) run() {
	defer close(f.stopped)
	for {
		select {
		case <-f.done:
			return
		case <-f.wake:
		}

		f.mu.Lock()
		sender := f.sender
		var batch []tea.Msg
		if sender != nil {
			batch, f.queue = f.queue, nil
		}
		f.mu.Unlock()

		for _, msg := range batch {
			sender.Send(msg)
		}
	}
}

// Close stops the forwarding goroutine. Queued messages are discarded.
func (f *EventForwarder) Close() {
	f.once.Do(func() {
		close(f.done)
		<-f.stopped
	})
}

// Runner coordinates running the TUI and the daemon together.
type Runner struct {
	model     *Model
	program   *tea.Program
	forwarder *EventForwarder
}

// NewRunner creates a Runner over ctrl. fwd should already be the daemon's
// event handler.
func NewRunner(ctrl Controller, fwd *EventForwarder, cfg *config.Config, version string) *Runner {
	model := New(ctrl)
	model.SetConfig(cfg)
	model.SetVersion(version)

	program := tea.NewProgram(model, tea.WithAltScreen())
	fwd.Attach(program)

	return &Runner{
		model:     model,
		program:   program,
		forwarder: fwd,
	}
}

// Send delivers a message to the TUI without blocking.
func (r *Runner) Send(msg tea.Msg) {
	r.forwarder.Send(msg)
}

// Model returns the TUI model.
func (r *Runner) Model() *Model {
	return r.model
}

// Run runs the daemon in a goroutine and the TUI on the calling goroutine.
// Quitting the TUI cancels the daemon; a daemon failure quits the TUI.
// Run returns once the daemon has flushed and stopped.
func (r *Runner) Run(ctx context.Context, runDaemon func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	daemonDone := make(chan error, 1)
	go func() {
		err := runDaemon(ctx)
		daemonDone <- err
		if err != nil {
			r.forwarder.Send(ErrorMsg{Err: err})
		}
		r.forwarder.Send(QuitMsg{Reason: "tracker stopped"})
	}()

	go func() {
		<-ctx.Done()
		r.forwarder.Send(QuitMsg{Reason: "interrupted"})
	}()

	_, tuiErr := r.program.Run()
	cancel()
	daemonErr := <-daemonDone
	r.forwarder.Close()

	if tuiErr != nil && !errors.Is(tuiErr, tea.ErrProgramKilled) {
		return tuiErr
	}
	if daemonErr != nil && !errors.Is(daemonErr, context.Canceled) {
		return daemonErr
	}
	return nil
}
