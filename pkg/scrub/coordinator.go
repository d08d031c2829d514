package scrub

import (
	"sync"
	"time"

	"github.com/user/framepick/pkg/ports"
)

// DefaultSeekTimeout bounds the wait for the decoder's seek-complete
// signal. Decoders that never signal, or signal slowly, must not stall the
// caller; the cost is an occasional capture taken slightly before the seek
// has visually settled.
const DefaultSeekTimeout = 500 * time.Millisecond

// Coordinator drives the media handle to a requested timestamp and invokes
// the capturer exactly once per request.
type Coordinator struct {
	capturer *Capturer
	timeout  time.Duration
	logger   ports.Logger

	// captureMu serializes captures from overlapping requests, since the
	// capturer's surface is a single shared buffer.
	captureMu sync.Mutex
}

// NewCoordinator creates a Coordinator. A non-positive timeout selects
// DefaultSeekTimeout.
func NewCoordinator(capturer *Capturer, timeout time.Duration, logger ports.Logger) *Coordinator {
	if timeout <= 0 {
		timeout = DefaultSeekTimeout
	}
	return &Coordinator{
		capturer: capturer,
		timeout:  timeout,
		logger:   logger.WithComponent("coordinator"),
	}
}

// SeekAndCapture positions handle at timestamp and captures one frame.
// lastApplied reports the newest request id the session has issued; when it
// no longer matches requestID once the seek settles, the request was
// superseded and no capture happens.
func (c *Coordinator) SeekAndCapture(handle ports.MediaHandle, requestID uint64, timestamp float64, lastApplied func() uint64) (FrameResult, error) {
	settled := handle.Seek(timestamp)

	// Race the seek-complete signal against the fallback timer. The select
	// commits to exactly one branch; stopping the timer after a signal win
	// cancels the fallback instead of leaving it to fire into a request
	// that already captured.
	timer := time.NewTimer(c.timeout)
	select {
	case <-settled:
		timer.Stop()
	case <-timer.C:
		c.logger.Debug("request %d: no seek-complete within %s, capturing current picture", requestID, c.timeout)
	}

	c.captureMu.Lock()
	defer c.captureMu.Unlock()

	if lastApplied() != requestID {
		return FrameResult{}, ErrSuperseded
	}
	return c.capturer.Capture(handle, requestID, timestamp)
}
