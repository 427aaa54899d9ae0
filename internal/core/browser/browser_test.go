package browser

import (
	"context"
	"errors"
	"testing"
	"time"

	"hostcraft/internal/logger"
)

func stubSession(browserCloses, driverStops *int) *Session {
	return &Session{
		log:  logger.New("test"),
		opts: Options{NavigationTimeout: time.Second},
		closeBrowser: func() error {
			*browserCloses++
			return nil
		},
		stopDriver: func() error {
			*driverStops++
			return nil
		},
	}
}

func stubManager(s *Session, acquireErr error) *Manager {
	return &Manager{
		log: logger.New("test"),
		acquire: func(context.Context) (*Session, error) {
			if acquireErr != nil {
				return nil, acquireErr
			}
			return s, nil
		},
	}
}

func TestSessionCloseExactlyOnce(t *testing.T) {
	var browserCloses, driverStops int
	s := stubSession(&browserCloses, &driverStops)

	s.Close()
	s.Close()
	s.Close()

	if browserCloses != 1 {
		t.Errorf("browser closes: got %d, want 1", browserCloses)
	}
	if driverStops != 1 {
		t.Errorf("driver stops: got %d, want 1", driverStops)
	}
}

func TestWithSessionReleasesOnSuccess(t *testing.T) {
	var browserCloses, driverStops int
	m := stubManager(stubSession(&browserCloses, &driverStops), nil)

	if err := m.WithSession(context.Background(), func(*Session) error { return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if browserCloses != 1 || driverStops != 1 {
		t.Errorf("releases: got browser=%d driver=%d, want 1/1", browserCloses, driverStops)
	}
}

func TestWithSessionReleasesOnError(t *testing.T) {
	var browserCloses, driverStops int
	m := stubManager(stubSession(&browserCloses, &driverStops), nil)

	wantErr := errors.New("navigation exploded")
	err := m.WithSession(context.Background(), func(*Session) error { return wantErr })
	if !errors.Is(err, wantErr) {
		t.Fatalf("got %v, want the callback error", err)
	}
	if browserCloses != 1 || driverStops != 1 {
		t.Errorf("releases after error: got browser=%d driver=%d, want 1/1", browserCloses, driverStops)
	}
}

func TestWithSessionReleasesOnPanic(t *testing.T) {
	var browserCloses, driverStops int
	m := stubManager(stubSession(&browserCloses, &driverStops), nil)

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("panic must propagate out of WithSession")
			}
		}()
		_ = m.WithSession(context.Background(), func(*Session) error {
			panic("extraction fell over mid-page")
		})
	}()

	if browserCloses != 1 || driverStops != 1 {
		t.Errorf("releases after panic: got browser=%d driver=%d, want 1/1", browserCloses, driverStops)
	}
}

func TestWithSessionAcquireFailure(t *testing.T) {
	m := stubManager(nil, ErrRuntimeUnavailable)

	called := false
	err := m.WithSession(context.Background(), func(*Session) error {
		called = true
		return nil
	})
	if !errors.Is(err, ErrRuntimeUnavailable) {
		t.Fatalf("got %v, want ErrRuntimeUnavailable", err)
	}
	if called {
		t.Error("callback must not run when no session could be acquired")
	}
}
