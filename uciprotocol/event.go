package uciprotocol

import "sync"

// EventSink receives everything the engine reports. Methods are called from a
// single dispatch goroutine, one at a time and in the order the events
// happened, so implementations need no locking of their own.
type EventSink interface {
	// EngineReady is called when the handshake completes (uciok).
	EngineReady()
	// BestMove is called when a search ends. ponder is "" when absent.
	BestMove(move, ponder string)
	// CandidateList is called after BestMove when candidates were collected.
	CandidateList(candidates []Candidate)
	// Info is called with raw info lines when verbose output is on.
	Info(line string)
	// Error is called for every failure and every stderr line.
	Error(message string)
	// InitializationFailed is called when the handshake times out.
	InitializationFailed(reason string)
}

// EventType identifies the kind of Event.
type EventType int

const (
	// EventEngineReady indicates the handshake completed.
	EventEngineReady EventType = iota
	// EventBestMove indicates a search finished.
	EventBestMove
	// EventCandidateList carries the ranked candidates of a search.
	EventCandidateList
	// EventInfo carries a raw info line.
	EventInfo
	// EventError carries an error message.
	EventError
	// EventInitializationFailed indicates the handshake timed out.
	EventInitializationFailed
)

// String returns a human-readable event type name.
func (t EventType) String() string {
	switch t {
	case EventEngineReady:
		return "ready"
	case EventBestMove:
		return "bestmove"
	case EventCandidateList:
		return "candidates"
	case EventInfo:
		return "info"
	case EventError:
		return "error"
	case EventInitializationFailed:
		return "init_failed"
	default:
		return "unknown"
	}
}

// Event is a single notification for callers that prefer one callback over
// the EventSink interface.
type Event struct {
	Type EventType

	// For EventBestMove
	Move   string
	Ponder string

	// For EventCandidateList
	Candidates []Candidate

	// For EventInfo
	Line string

	// For EventError and EventInitializationFailed
	Message string
}

// deliver calls the sink method matching e.Type.
func (e Event) deliver(s EventSink) {
	switch e.Type {
	case EventEngineReady:
		s.EngineReady()
	case EventBestMove:
		s.BestMove(e.Move, e.Ponder)
	case EventCandidateList:
		s.CandidateList(e.Candidates)
	case EventInfo:
		s.Info(e.Line)
	case EventError:
		s.Error(e.Message)
	case EventInitializationFailed:
		s.InitializationFailed(e.Message)
	}
}

// EventHandler adapts a single callback function to EventSink.
type EventHandler func(event Event)

// EngineReady implements EventSink.
func (h EventHandler) EngineReady() { h(Event{Type: EventEngineReady}) }

// BestMove implements EventSink.
func (h EventHandler) BestMove(move, ponder string) {
	h(Event{Type: EventBestMove, Move: move, Ponder: ponder})
}

// CandidateList implements EventSink.
func (h EventHandler) CandidateList(candidates []Candidate) {
	h(Event{Type: EventCandidateList, Candidates: candidates})
}

// Info implements EventSink.
func (h EventHandler) Info(line string) { h(Event{Type: EventInfo, Line: line}) }

// Error implements EventSink.
func (h EventHandler) Error(message string) { h(Event{Type: EventError, Message: message}) }

// InitializationFailed implements EventSink.
func (h EventHandler) InitializationFailed(reason string) {
	h(Event{Type: EventInitializationFailed, Message: reason})
}

// NopSink discards every event.
type NopSink struct{}

func (NopSink) EngineReady() {}
func (NopSink) BestMove(string, string) {}
func (NopSink) CandidateList([]Candidate) {}
func (NopSink) Info(string) {}
func (NopSink) Error(string) {}
func (NopSink) InitializationFailed(string) {}

// dispatcher queues events from any goroutine and delivers them to the sink
// from its own goroutine. The queue is unbounded so a slow sink never stalls
// a stream reader.
type dispatcher struct {
	sink EventSink

	mu      sync.Mutex
	queue   []Event
	closed  bool
	wake    chan struct{}
	done    chan struct{}
	onEvent func(EventType)
}

func newDispatcher(sink EventSink, onEvent func(EventType)) *dispatcher {
	if sink == nil {
		sink = NopSink{}
	}
	d := &dispatcher{
		sink:    sink,
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
		onEvent: onEvent,
	}
	go d.run()
	return d
}

// emit queues e. Events emitted after close are dropped.
func (d *dispatcher) emit(e Event) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.queue = append(d.queue, e)
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *dispatcher) run() {
	defer close(d.done)
	for {
		d.mu.Lock()
		batch := d.queue
		d.queue = nil
		closed := d.closed
		d.mu.Unlock()

		for _, e := range batch {
			if d.onEvent != nil {
				d.onEvent(e.Type)
			}
			e.deliver(d.sink)
		}

		if closed && len(batch) == 0 {
			return
		}
		if len(batch) == 0 {
			<-d.wake
		}
	}
}

// close delivers whatever is queued, then stops the dispatch goroutine.
func (d *dispatcher) close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		<-d.done
		return
	}
	d.closed = true
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
	<-d.done
}
