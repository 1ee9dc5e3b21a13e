package core

import (
	"context"
	"os"
	"os/signal"
	"sync"
)

type interruptState int

const (
	stateReady interruptState = iota
	stateBusy
)

// Controller turns asynchronous interrupts into cancellation of the current
// read-eval iteration. The interpreter process itself is never terminated by
// an interrupt.
//
// An interrupt only has an effect while the controller is busy, that is after
// the prompt for the iteration has been rendered. Interrupts arriving while
// the loop is between iterations are dropped.
type Controller struct {
	signals chan os.Signal
	done    chan struct{}
	notify  bool
	stop    sync.Once

	mu     sync.Mutex
	state  interruptState
	cancel context.CancelFunc
	// OnInterrupt is called, outside the lock, for every interrupt that
	// cancelled an iteration.
	OnInterrupt func()
}

// NewController creates a controller subscribed to os.Interrupt.
func NewController() *Controller {
	c := newController()
	c.notify = true
	signal.Notify(c.signals, os.Interrupt)
	go c.loop()
	return c
}

// NewManualController creates a controller that only reacts to Interrupt
// calls.
func NewManualController() *Controller {
	return newController()
}

func newController() *Controller {
	return &Controller{
		signals: make(chan os.Signal, 1),
		done:    make(chan struct{}),
	}
}

func (c *Controller) loop() {
	for {
		select {
		case <-c.done:
			return
		case <-c.signals:
			c.handle()
		}
	}
}

func (c *Controller) handle() {
	c.mu.Lock()
	if c.state != stateBusy {
		c.mu.Unlock()
		return
	}
	c.state = stateReady
	if c.cancel != nil {
		c.cancel()
	}
	hook := c.OnInterrupt
	c.mu.Unlock()

	if hook != nil {
		hook()
	}
}

// Ready starts a new iteration. The context of the previous iteration is
// cancelled and any interrupt that arrived since is discarded.
func (c *Controller) Ready(parent context.Context) context.Context {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}
	c.drain()

	ctx, cancel := context.WithCancel(parent)
	c.cancel = cancel
	c.state = stateReady
	return ctx
}

// Busy marks the current iteration as interruptible.
func (c *Controller) Busy() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.drain()
	c.state = stateBusy
}

// Interrupt delivers an interrupt as if the signal had been received. It
// returns once the interrupt has been handled.
func (c *Controller) Interrupt() {
	c.handle()
}

// Stop unsubscribes from signals and cancels the current iteration. It may
// be called more than once.
func (c *Controller) Stop() {
	c.stop.Do(func() {
		if c.notify {
			signal.Stop(c.signals)
			close(c.done)
		}
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
}

func (c *Controller) drain() {
	for {
		select {
		case <-c.signals:
		default:
			return
		}
	}
}
