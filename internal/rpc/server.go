package rpc

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// drainCeiling bounds how long Serve waits for in-flight requests to finish
// after its context is cancelled before it returns anyway (spec.md §5).
const drainCeiling = 5 * time.Second

// maxLineBytes bounds one incoming JSON-RPC line, matching the
// indexDocument max-document-size order of magnitude so a malformed giant
// line can't run the reader out of memory.
const maxLineBytes = 10 * 1024 * 1024

// Server reads newline-delimited JSON-RPC requests from in and writes
// newline-delimited responses to out, dispatching to a Handler.
type Server struct {
	in      io.Reader
	out     io.Writer
	handler *Handler

	mu      sync.Mutex // serializes writes to out
	wg      sync.WaitGroup
}

// NewServer builds a Server wired to handler.
func NewServer(in io.Reader, out io.Writer, handler *Handler) *Server {
	return &Server{in: in, out: out, handler: handler}
}

// Serve reads requests until ctx is cancelled or in is exhausted, dispatching
// each to a goroutine so a slow tool call never blocks the read loop. On
// cancellation it waits up to drainCeiling for in-flight calls to finish.
func (s *Server) Serve(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}
			lineCopy := append([]byte(nil), line...)
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				s.handleLine(ctx, lineCopy)
			}()

			select {
			case <-ctx.Done():
				return
			default:
			}
		}
	}()

	select {
	case <-done:
	case <-ctx.Done():
	}

	drained := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-time.After(drainCeiling):
		slog.Warn("rpc server drain ceiling hit, in-flight calls abandoned")
	}

	if err := scanner.Err(); err != nil {
		return err
	}
	return nil
}

func (s *Server) handleLine(ctx context.Context, line []byte) {
	requestID := uuid.New().String()

	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		s.write(newError(nil, ParseError, "invalid JSON"))
		return
	}
	if req.JSONRPC != "2.0" {
		s.write(newError(req.ID, InvalidRequest, "jsonrpc must be \"2.0\""))
		return
	}

	slog.Debug("rpc request received", "request_id", requestID, "method", req.Method)
	resp := s.handler.Handle(ctx, &req)
	slog.Debug("rpc request completed", "request_id", requestID, "method", req.Method)
	if resp != nil {
		s.write(resp)
	}
}

func (s *Server) write(resp *Response) {
	b, err := json.Marshal(resp)
	if err != nil {
		slog.Error("failed to encode rpc response", "error", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.out.Write(b)
	s.out.Write([]byte("\n"))
}
