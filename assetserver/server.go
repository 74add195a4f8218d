// Package assetserver implements the asset engine behind the loadstate
// driver: layered read-only sources, a fixed worker pool, and per-extension
// decoders. Loads are issued from the tick goroutine; workers hand results
// back through atomic per-handle status, so driver polls never block.
package assetserver

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/l1jgo/loadstate"
)

// DefaultWorkers is the pool size used when New is given workers <= 0.
const DefaultWorkers = 4

// ErrClosed is returned by IssueLoad after Close.
var ErrClosed = errors.New("asset server closed")

// entry is the per-handle load record. sources and decode are fixed at issue
// time, before the entry reaches a worker; status and value are the write-back
// fields, both atomic so Status and Asset stay lock-free.
type entry struct {
	handle  loadstate.Handle
	path    string
	sources []fs.FS
	decode  DecodeFunc
	status  atomic.Uint32 // loadstate.Status; zero value is StatusLoading
	value   atomic.Value  // stored before status flips to StatusLoaded
}

// Server loads assets from mounted fs.FS sources on a fixed worker pool.
//
// Mount, RegisterDecoder, IssueLoad, WaitIdle and Close are tick-goroutine
// methods, same single-goroutine convention as the rest of the runtime.
// Status and Asset are safe to call concurrently with the workers.
type Server struct {
	log      *zap.Logger
	sources  []fs.FS
	decoders map[string]DecodeFunc

	handles map[string]loadstate.Handle
	entries []*entry

	jobs    chan *entry
	pending sync.WaitGroup
	workers sync.WaitGroup
	closed  bool
}

// New starts a server with the given worker pool size. Nothing can load
// until at least one source is mounted.
func New(log *zap.Logger, workerCount int) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if workerCount <= 0 {
		workerCount = DefaultWorkers
	}
	s := &Server{
		log: log,
		decoders: map[string]DecodeFunc{
			".yaml": DecodeTable,
			".yml":  DecodeTable,
			".lua":  DecodeScript,
		},
		handles: make(map[string]loadstate.Handle, 64),
		jobs:    make(chan *entry, 128),
	}
	for i := 0; i < workerCount; i++ {
		s.workers.Add(1)
		go s.worker()
	}
	return s
}

// Mount adds a source layer. Sources are searched in mount order, so mount
// the overriding layer (a pack file) before the fallback (a loose directory).
// A load reads the sources mounted when it was issued; mounting later only
// affects later loads.
func (s *Server) Mount(fsys fs.FS) {
	s.sources = append(s.sources, fsys)
}

// RegisterDecoder binds fn to a file extension (with dot, lowercase).
// Extensions without a decoder load as raw bytes. Like sources, the decoder
// is resolved when the load is issued.
func (s *Server) RegisterDecoder(ext string, fn DecodeFunc) {
	s.decoders[ext] = fn
}

// IssueLoad queues an asynchronous load and returns its handle. Paths are
// NFC-normalized and deduplicated: a path already issued returns the same
// handle without loading again.
func (s *Server) IssueLoad(path string) (loadstate.Handle, error) {
	if s.closed {
		return 0, ErrClosed
	}
	path = norm.NFC.String(path)
	if h, ok := s.handles[path]; ok {
		return h, nil
	}
	e := &entry{path: path, sources: s.sources, decode: s.decoderFor(path)}
	s.entries = append(s.entries, e)
	e.handle = loadstate.Handle(len(s.entries))
	s.handles[path] = e.handle

	s.pending.Add(1)
	s.jobs <- e
	return e.handle, nil
}

// Status reports the load state behind h. Handles the server never minted
// report StatusFailed.
func (s *Server) Status(h loadstate.Handle) loadstate.Status {
	if h == 0 || int(h) > len(s.entries) {
		return loadstate.StatusFailed
	}
	return loadstate.Status(s.entries[h-1].status.Load())
}

// Asset returns the decoded value behind h once its load finished.
func (s *Server) Asset(h loadstate.Handle) (any, bool) {
	if s.Status(h) != loadstate.StatusLoaded {
		return nil, false
	}
	return s.entries[h-1].value.Load(), true
}

// WaitIdle blocks until every issued load has finished, loaded or failed.
// Tick loops never call this; it is for tools and tests.
func (s *Server) WaitIdle() {
	s.pending.Wait()
}

// Close drains queued loads and stops the workers. IssueLoad returns
// ErrClosed afterwards.
func (s *Server) Close() {
	if s.closed {
		return
	}
	s.closed = true
	close(s.jobs)
	s.workers.Wait()
}

func (s *Server) worker() {
	defer s.workers.Done()
	for e := range s.jobs {
		s.process(e)
		s.pending.Done()
	}
}

func (s *Server) process(e *entry) {
	raw, err := readFile(e.sources, e.path)
	if err != nil {
		s.log.Warn("asset read failed", zap.String("path", e.path), zap.Error(err))
		e.status.Store(uint32(loadstate.StatusFailed))
		return
	}
	value, err := e.decode(e.path, raw)
	if err != nil {
		s.log.Warn("asset decode failed", zap.String("path", e.path), zap.Error(err))
		e.status.Store(uint32(loadstate.StatusFailed))
		return
	}
	if value == nil {
		// atomic.Value rejects nil
		s.log.Warn("asset decoder returned nil", zap.String("path", e.path))
		e.status.Store(uint32(loadstate.StatusFailed))
		return
	}
	e.value.Store(value)
	e.status.Store(uint32(loadstate.StatusLoaded))
	s.log.Debug("asset loaded", zap.String("path", e.path), zap.Int("bytes", len(raw)))
}

// readFile searches sources in mount order and returns the first hit.
func readFile(sources []fs.FS, path string) ([]byte, error) {
	for _, src := range sources {
		raw, err := fs.ReadFile(src, path)
		if err == nil {
			return raw, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}
	return nil, fmt.Errorf("%s: %w", path, fs.ErrNotExist)
}
