package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"mew.ai/puml-api-gateway/app/domain/common"
)

// EventSink is the client-facing side of a stream. The HTTP layer provides
// an SSE-backed implementation; tests provide an in-memory one.
type EventSink interface {
	// SendDelta delivers one increment. A non-nil error means the client
	// is gone and the stream must be abandoned.
	SendDelta(text string) error
	// SendDone signals successful completion. Called at most once.
	SendDone()
	// SendError signals failure. Called at most once, and never after
	// SendDone.
	SendError(err error)
}

// StreamingService presents a result computed in one synchronous upstream
// call as an incremental stream. The upstream is always invoked
// non-streaming; the finished string is replayed one code point at a time
// with a fixed delay to simulate progressive generation.
type StreamingService struct{}

func NewStreamingService() *StreamingService {
	return &StreamingService{}
}

// StreamResult runs generate, replays its result through sink, and invokes
// onDelivered exactly once after the final increment of a fully delivered
// stream. On generation failure exactly one error signal is sent and zero
// increments; on delivery failure no completion signal is sent and
// onDelivered is skipped, so no partial result is ever registered.
func (s *StreamingService) StreamResult(ctx context.Context, sink EventSink, generate func(ctx context.Context) (string, error), onDelivered func(full string)) *common.Error {
	ctx, cancel := context.WithTimeout(ctx, StreamTimeout)
	defer cancel()

	dataChan := make(chan string, ChannelBufferSize)
	errChan := make(chan error, ErrorBufferSize)

	var wg sync.WaitGroup
	wg.Add(1)
	go s.produceIncrements(ctx, generate, dataChan, errChan, &wg)

	go func() {
		wg.Wait()
		close(dataChan)
		close(errChan)
	}()

	var delivered strings.Builder
	for {
		select {
		case increment, ok := <-dataChan:
			if !ok {
				// Both channels close together, so a buffered generation
				// error may still be pending when this branch wins the
				// select. Drain it before declaring success.
				select {
				case err := <-errChan:
					if err != nil {
						sink.SendError(err)
						return common.NewError("7b2f7e06-93a4-4de8-bb34-df1f29a6a90a", "generation failed: "+err.Error())
					}
				default:
				}
				if ctx.Err() != nil {
					sink.SendError(ctx.Err())
					return common.NewError("e3a6c889-25df-4f70-9a7e-44b9a2f0d80c", "stream timed out: "+ctx.Err().Error())
				}
				// Producer finished cleanly: side effects first, then the
				// completion signal.
				if onDelivered != nil {
					onDelivered(delivered.String())
				}
				sink.SendDone()
				return common.EmptyError
			}
			if err := sink.SendDelta(increment); err != nil {
				cancel()
				sink.SendError(err)
				return common.NewError("1f4c9a0e-6d1b-4f25-a46e-8a10b24c7c31", "stream delivery failed: "+err.Error())
			}
			delivered.WriteString(increment)
		case err, ok := <-errChan:
			if !ok {
				// Closed and drained; disable this arm so its zero value
				// cannot be selected again.
				errChan = nil
				continue
			}
			sink.SendError(err)
			return common.NewError("7b2f7e06-93a4-4de8-bb34-df1f29a6a90a", "generation failed: "+err.Error())
		case <-ctx.Done():
			sink.SendError(ctx.Err())
			return common.NewError("e3a6c889-25df-4f70-9a7e-44b9a2f0d80c", "stream timed out: "+ctx.Err().Error())
		}
	}
}

// produceIncrements runs the blocking generation call and feeds the result
// into dataChan one rune at a time with the inter-increment delay. A failed
// generation emits on errChan before any increment is produced.
func (s *StreamingService) produceIncrements(ctx context.Context, generate func(ctx context.Context) (string, error), dataChan chan<- string, errChan chan<- error, wg *sync.WaitGroup) {
	defer wg.Done()

	result, err := generate(ctx)
	if err != nil {
		errChan <- err
		return
	}

	for _, r := range result {
		select {
		case <-ctx.Done():
			return
		case dataChan <- string(r):
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(IncrementDelay):
		}
	}
}
