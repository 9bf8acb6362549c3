package services

import (
	"context"
	"errors"
	"halfway-service/internal/domain"
	"testing"
	"time"
)

func TestSearchRunnerLatestWins(t *testing.T) {
	r := NewSearchRunner(time.Second)
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})

	var delivered []uint64
	deliver := func(seq uint64, places []domain.Place, err error) {
		delivered = append(delivered, seq)
	}

	errA := make(chan error, 1)
	go func() {
		// A ignores cancellation and finishes only after B has completed.
		_, err := r.Run(ctx, func(ctx context.Context) ([]domain.Place, error) {
			close(started)
			<-release
			return []domain.Place{{Name: "A"}}, nil
		}, deliver)
		errA <- err
	}()

	<-started

	placesB, err := r.Run(ctx, func(ctx context.Context) ([]domain.Place, error) {
		return []domain.Place{{Name: "B"}}, nil
	}, deliver)
	if err != nil {
		t.Fatalf("run B: %v", err)
	}
	if len(placesB) != 1 || placesB[0].Name != "B" {
		t.Fatalf("run B = %+v", placesB)
	}

	close(release)
	if err := <-errA; !errors.Is(err, domain.ErrSuperseded) {
		t.Fatalf("run A err = %v, want ErrSuperseded", err)
	}

	if len(delivered) != 1 || delivered[0] != 2 {
		t.Fatalf("delivered = %v, want [2]", delivered)
	}
}

func TestSearchRunnerCancelsPrevious(t *testing.T) {
	r := NewSearchRunner(0)
	ctx := context.Background()

	started := make(chan struct{})
	canceled := make(chan error, 1)

	go func() {
		_, _ = r.Run(ctx, func(ctx context.Context) ([]domain.Place, error) {
			close(started)
			<-ctx.Done()
			canceled <- ctx.Err()
			return nil, ctx.Err()
		}, nil)
	}()

	<-started
	if _, err := r.Run(ctx, func(ctx context.Context) ([]domain.Place, error) { return nil, nil }, nil); err != nil {
		t.Fatalf("run B: %v", err)
	}

	select {
	case err := <-canceled:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("A ctx err = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("previous run was not canceled")
	}
}

func TestSearchRunnerTimeout(t *testing.T) {
	r := NewSearchRunner(20 * time.Millisecond)

	_, err := r.Run(context.Background(), func(ctx context.Context) ([]domain.Place, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}, nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want context.DeadlineExceeded", err)
	}
}

func TestSearchRunnerClose(t *testing.T) {
	r := NewSearchRunner(0)
	started := make(chan struct{})
	errA := make(chan error, 1)

	go func() {
		_, err := r.Run(context.Background(), func(ctx context.Context) ([]domain.Place, error) {
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		}, nil)
		errA <- err
	}()

	<-started
	r.Close()

	if err := <-errA; !errors.Is(err, domain.ErrSessionClosed) {
		t.Fatalf("in-flight err = %v, want ErrSessionClosed", err)
	}
	if _, err := r.Run(context.Background(), func(ctx context.Context) ([]domain.Place, error) { return nil, nil }, nil); !errors.Is(err, domain.ErrSessionClosed) {
		t.Fatalf("after close err = %v, want ErrSessionClosed", err)
	}
}

func TestSearchRunnerCancelSupersedes(t *testing.T) {
	r := NewSearchRunner(0)
	started := make(chan struct{})
	errA := make(chan error, 1)

	go func() {
		_, err := r.Run(context.Background(), func(ctx context.Context) ([]domain.Place, error) {
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		}, nil)
		errA <- err
	}()

	<-started
	r.Cancel()

	if err := <-errA; !errors.Is(err, domain.ErrSuperseded) {
		t.Fatalf("err = %v, want ErrSuperseded", err)
	}

	if _, err := r.Run(context.Background(), func(ctx context.Context) ([]domain.Place, error) { return nil, nil }, nil); err != nil {
		t.Fatalf("runner unusable after Cancel: %v", err)
	}
}
