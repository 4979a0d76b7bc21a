/* Copyright 2019 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package sio

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// Stdio is a fairly simple Couplings that reads Inputs (one JSON
// object per line) from stdin and writes Outputs (also as JSON lines)
// to stdout.
//
// Blank lines and lines that start with '#' are ignored.  The line
// "quit" ends input.
type Stdio struct {
	// In is coupled to Host input.
	In io.Reader

	// Out is coupled to Host output.
	Out io.Writer

	// ShellExpand enables input to include inline shell commands
	// delimited by '<<' and '>>'.  Use at your own risk, of
	// course!
	ShellExpand bool

	// Timestamps prepends a timestamp to each output line.
	Timestamps bool

	// EchoInput writes input lines (prepended with "input") to
	// the output.
	EchoInput bool

	// Tags prefixes tags indicating type of output ("input",
	// "output", "error").
	Tags bool

	// PadTags adds some padding to tags.
	PadTags bool

	// Quiet suppresses Outputs that report no changes and no
	// errors.
	Quiet bool

	// InputEOF will be closed on EOF from stdin.
	InputEOF chan bool

	WG sync.WaitGroup

	mu       sync.Mutex
	stop     chan struct{}
	stopOnce sync.Once
}

// NewStdio creates a new Stdio.
//
// In and Out are initialized with os.Stdin and os.Stdout
// respectively.
func NewStdio(shellExpand bool) *Stdio {
	return &Stdio{
		In:          os.Stdin,
		Out:         os.Stdout,
		ShellExpand: shellExpand,
		InputEOF:    make(chan bool),
	}
}

// Start does nothing.
func (s *Stdio) Start(ctx context.Context) error {
	return nil
}

// Stop stops writing output and waits until IO is complete or was
// terminated via its context.
//
// Call Stop after the Host's Loop has returned.
func (s *Stdio) Stop(ctx context.Context) error {
	s.stopOnce.Do(func() {
		if s.stop != nil {
			close(s.stop)
		}
	})
	s.WG.Wait()
	return nil
}

func (s *Stdio) printf(tag, format string, args ...interface{}) {
	if s.PadTags {
		tag = fmt.Sprintf("% 8s", tag)
	}
	if s.Tags {
		format = tag + " " + format
	}
	if s.Timestamps {
		ts := fmt.Sprintf("%-31s", time.Now().UTC().Format(time.RFC3339Nano))
		format = ts + " " + format
	}

	s.mu.Lock()
	fmt.Fprintf(s.Out, format, args...)
	s.mu.Unlock()
}

// IO returns channels for reading from stdin and writing to stdout.
func (s *Stdio) IO(ctx context.Context) (chan *Input, chan *Output, chan bool, error) {
	var (
		in   = make(chan *Input)
		out  = make(chan *Output)
		done = make(chan bool)
	)

	if s.InputEOF == nil {
		s.InputEOF = make(chan bool)
	}
	s.stop = make(chan struct{})
	stop := s.stop

	s.WG.Add(1)
	go func() {
		defer s.WG.Done()
		defer close(s.InputEOF)
		defer close(done)

		lines := bufio.NewScanner(s.In)
		for lines.Scan() {
			line := lines.Text()
			if s.EchoInput {
				s.printf("input", "%s\n", line)
			}
			trimmed := strings.TrimSpace(line)
			if trimmed == "quit" {
				return
			}
			if strings.HasPrefix(trimmed, "#") || len(trimmed) == 0 {
				continue
			}
			if s.ShellExpand {
				var err error
				if line, err = ShellExpand(ctx, line); err != nil {
					log.Printf("stdin error %s", err)
					return
				}
			}

			var input Input
			if err := json.Unmarshal([]byte(line), &input); err != nil {
				s.printf("error", "%s\n", JS(map[string]string{"error": "bad input: " + err.Error()}))
				continue
			}

			select {
			case <-ctx.Done():
				return
			case in <- &input:
			}
		}
		if err := lines.Err(); err != nil {
			log.Printf("stdin error %s", err)
		}
	}()

	s.WG.Add(1)
	go func() {
		defer s.WG.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-stop:
				return
			case o := <-out:
				if o == nil {
					return
				}
				if s.Quiet && len(o.Errors) == 0 && !o.Changed() && o.View == nil && o.Debug == nil {
					continue
				}
				tag := "output"
				if 0 < len(o.Errors) {
					tag = "error"
				}
				s.printf(tag, "%s\n", JS(o))
			}
		}
	}()

	return in, out, done, nil
}
