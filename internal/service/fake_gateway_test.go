package service

import (
	"context"
	"errors"
	"sync"

	"github.com/timmy/dishlingo/internal/domain"
)

var errTransport = errors.New("connection reset by peer")

type reply struct {
	text string
	err  error
}

type recordedCall struct {
	prompt Prompt
	image  domain.ImageInput
	ctxErr error
}

// fakeGateway returns scripted replies per operation. Replies for an
// operation are consumed in order; the last one repeats.
type fakeGateway struct {
	mu      sync.Mutex
	replies map[Operation][]reply
	calls   []recordedCall
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{replies: make(map[Operation][]reply)}
}

func (f *fakeGateway) on(op Operation, text string) *fakeGateway {
	f.replies[op] = append(f.replies[op], reply{text: text})
	return f
}

func (f *fakeGateway) fail(op Operation, err error) *fakeGateway {
	f.replies[op] = append(f.replies[op], reply{err: err})
	return f
}

func (f *fakeGateway) Complete(ctx context.Context, prompt Prompt, image domain.ImageInput) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, recordedCall{prompt: prompt, image: image, ctxErr: ctx.Err()})

	script := f.replies[prompt.Op]
	if len(script) == 0 {
		return "", &GatewayError{Op: prompt.Op, Err: errors.New("no scripted reply")}
	}
	r := script[0]
	if len(script) > 1 {
		f.replies[prompt.Op] = script[1:]
	}
	return r.text, r.err
}

func (f *fakeGateway) count(op Operation) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.prompt.Op == op {
			n++
		}
	}
	return n
}

func (f *fakeGateway) callsFor(op Operation) []recordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []recordedCall
	for _, c := range f.calls {
		if c.prompt.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func images(n int) []domain.ImageInput {
	out := make([]domain.ImageInput, n)
	for i := range out {
		out[i] = domain.ImageInput("data:image/jpeg;base64,/9j/" + string(rune('A'+i)))
	}
	return out
}
