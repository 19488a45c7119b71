// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package pool runs a fixed set of workers, each bound to its own input queue,
// that share a single output queue.
package pool

import (
	"context"
	"fmt"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/walteh/jetmigrate/pkg/process"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🔧 FileProcessor migrates a single file
type FileProcessor interface {
	Process(ctx context.Context, path string) (*process.Result, error)
}

var _ FileProcessor = (*process.Processor)(nil)

// 📨 Result is what a worker sends for each file it received
type Result struct {
	Worker int             // Index of the worker that handled the file
	Path   string          // Path as dispatched
	Match  *process.Result // Set on success
	Err    error           // Set when the file could not be processed
}

// Size caps a requested worker count to the number of logical CPUs. Zero or
// negative requests mean one worker per CPU.
func Size(requested int) int {
	n := runtime.NumCPU()
	if requested <= 0 || requested > n {
		return n
	}
	return requested
}

// 🏊 Pool is a running set of workers
type Pool struct {
	inputs []chan<- string
	out    chan Result
}

// 🚀 Start launches size workers. Each worker drains its own input queue and
// exits once the queue is closed; Results is closed only after every worker
// has exited. Closing the inputs is the caller's job (see finder.Dispatch).
//
// Results must be consumed concurrently with feeding the inputs, otherwise the
// workers block on send.
func Start(ctx context.Context, proc FileProcessor, size, buffer int) *Pool {
	if size <= 0 {
		size = 1
	}

	p := &Pool{
		inputs: make([]chan<- string, size),
		out:    make(chan Result, buffer),
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < size; i++ {
		in := make(chan string, buffer)
		p.inputs[i] = in

		logger := zerolog.Ctx(ctx).With().Int("worker", i).Logger()
		wctx := logger.WithContext(gctx)

		g.Go(func() error {
			return work(wctx, i, proc, in, p.out)
		})
	}

	go func() {
		// workers never fail the group; per-file errors ride on the results
		_ = g.Wait()
		close(p.out)
	}()

	return p
}

// Inputs returns one send-only queue per worker.
func (p *Pool) Inputs() []chan<- string {
	return p.inputs
}

// Results returns the shared output queue.
func (p *Pool) Results() <-chan Result {
	return p.out
}

func work(ctx context.Context, id int, proc FileProcessor, in <-chan string, out chan<- Result) error {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Msg("worker started")

	handled := 0
	for path := range in {
		res := Result{Worker: id, Path: path}
		res.Match, res.Err = safeProcess(ctx, proc, path)
		if res.Err != nil {
			logger.Debug().Err(res.Err).Str("path", path).Msg("file failed")
		}
		out <- res
		handled++
	}

	logger.Debug().Int("files", handled).Msg("worker finished")
	return nil
}

// safeProcess turns a panic while handling one file into that file's error so
// the worker keeps going.
func safeProcess(ctx context.Context, proc FileProcessor, path string) (res *process.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = errors.Errorf("processing %s: panic: %s", path, fmt.Sprint(r))
		}
	}()

	return proc.Process(ctx, path)
}
