package rodbrowser

import (
	"sync"

	"github.com/go-rod/rod/lib/proto"
	"github.com/iksnae/playlist-scraper/internal"
)

// responseBridge turns DevTools network events into internal.Response
// deliveries. A body is only complete once loading finished, so a response
// is remembered at ResponseReceived and dispatched at LoadingFinished.
type responseBridge struct {
	newResponse func(id proto.NetworkRequestID, url string) internal.Response

	mu       sync.Mutex
	pending  map[proto.NetworkRequestID]string // request id -> response URL
	handlers map[int]func(internal.Response)
	nextID   int
}

func newResponseBridge(newResponse func(id proto.NetworkRequestID, url string) internal.Response) *responseBridge {
	return &responseBridge{
		newResponse: newResponse,
		pending:     make(map[proto.NetworkRequestID]string),
		handlers:    make(map[int]func(internal.Response)),
	}
}

func (b *responseBridge) received(e *proto.NetworkResponseReceived) {
	if e.Response == nil {
		return
	}
	b.mu.Lock()
	b.pending[e.RequestID] = e.Response.URL
	b.mu.Unlock()
}

func (b *responseBridge) finished(e *proto.NetworkLoadingFinished) {
	b.mu.Lock()
	url, ok := b.pending[e.RequestID]
	delete(b.pending, e.RequestID)
	b.mu.Unlock()
	if ok {
		b.dispatch(b.newResponse(e.RequestID, url))
	}
}

func (b *responseBridge) failed(e *proto.NetworkLoadingFailed) {
	b.mu.Lock()
	delete(b.pending, e.RequestID)
	b.mu.Unlock()
}

// subscribe registers handler; handlers run in registration order
func (b *responseBridge) subscribe(handler func(internal.Response)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.handlers[id] = handler
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.handlers, id)
	}
}

func (b *responseBridge) dispatch(resp internal.Response) {
	b.mu.Lock()
	handlers := make([]func(internal.Response), 0, len(b.handlers))
	for id := 0; id < b.nextID; id++ {
		if h, ok := b.handlers[id]; ok {
			handlers = append(handlers, h)
		}
	}
	b.mu.Unlock()
	for _, h := range handlers {
		h(resp)
	}
}
