package oracle

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"time"
)

// ErrNoScript is returned by Scripted when no script matches a prompt.
var ErrNoScript = errors.New("no scripted response matches prompt")

// Script is one canned oracle answer.
type Script struct {
	// Pattern is matched against the prompt. Empty matches anything.
	Pattern    string
	Response   string
	Err        error
	Delay      time.Duration
	Repeatable bool
}

// Call records one invocation of a Scripted oracle.
type Call struct {
	System string
	Prompt string
}

// Scripted is a deterministic Oracle for tests and offline runs. Scripts are
// consumed in order; repeatable scripts stay in place after matching.
type Scripted struct {
	mu      sync.Mutex
	scripts []Script
	calls   []Call
}

func NewScripted(scripts ...Script) *Scripted {
	return &Scripted{scripts: scripts}
}

func (s *Scripted) Name() string {
	return "scripted"
}

// Reply queues a single response.
func (s *Scripted) Reply(response string) *Scripted {
	return s.Add(Script{Response: response})
}

// Fail queues a single error.
func (s *Scripted) Fail(err error) *Scripted {
	return s.Add(Script{Err: err})
}

func (s *Scripted) Add(script Script) *Scripted {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scripts = append(s.scripts, script)
	return s
}

func (s *Scripted) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

func (s *Scripted) Invoke(ctx context.Context, system, prompt string) (string, error) {
	script, ok := s.next(system, prompt)
	if !ok {
		return "", &Error{Oracle: s.Name(), Detail: "unscripted prompt", Err: ErrNoScript}
	}

	if script.Delay > 0 {
		timer := time.NewTimer(script.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", &Error{Oracle: s.Name(), Detail: "call aborted", Err: ctx.Err()}
		case <-timer.C:
		}
	}

	if script.Err != nil {
		return "", script.Err
	}
	return script.Response, nil
}

func (s *Scripted) next(system, prompt string) (Script, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, Call{System: system, Prompt: prompt})

	for i, script := range s.scripts {
		if script.Pattern != "" {
			matched, err := regexp.MatchString(script.Pattern, prompt)
			if err != nil || !matched {
				continue
			}
		}
		if !script.Repeatable {
			s.scripts = append(s.scripts[:i:i], s.scripts[i+1:]...)
		}
		return script, true
	}
	return Script{}, false
}
