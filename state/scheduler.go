package state

import (
	"context"
	"fmt"
	"time"
)

// Dispatch queues fun to run on the simulation goroutine without waiting for
// it to complete.
func (e *Env) Dispatch(fun func() error) {
	defer func() {
		if r := recover(); r != nil {
			e.Cancel(fmt.Errorf("panic: %v", r))
		}
	}()
	select {
	case e.DispatchChannel <- fun:
	case <-e.Context.Done():
	}
}

// DispatchWait queues fun to run on the simulation goroutine and waits for it
// to complete.
func (e *Env) DispatchWait(fun func() (any, error)) (any, error) {
	ret := make(chan Pair[any, error], 1)
	e.Dispatch(func() error {
		res, err := fun()
		ret <- Pair[any, error]{res, err}
		return err
	})
	select {
	case res := <-ret:
		return res.V1, res.V2
	case <-e.Context.Done():
		return nil, context.Cause(e.Context)
	}
}

func (e *Env) repeatedTask(fun func() error, delay time.Duration) {
	t := time.NewTicker(delay)
	defer t.Stop()
	for {
		select {
		case <-e.Context.Done():
			return
		case <-t.C:
			e.Dispatch(fun)
		}
	}
}

// RepeatTask dispatches fun every delay until the environment is cancelled.
func (e *Env) RepeatTask(fun func() error, delay time.Duration) {
	go e.repeatedTask(fun, delay)
}
