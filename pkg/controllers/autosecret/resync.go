package autosecret

import (
	"bufio"
	"context"
	"io"

	"github.com/go-logr/logr"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/event"

	autosecretv1alpha1 "autosecret/pkg/api/v1alpha1"
)

// LineTrigger requests a resync for every line read from input. At most one request is pending
// at a time; lines read while one is pending are dropped. The channel is closed at end of input.
//
// The reading goroutine is not tracked: a read blocked on a terminal must never hold up
// process exit.
func LineTrigger(input io.Reader) <-chan struct{} {
	triggers := make(chan struct{}, 1)

	go func() {
		defer close(triggers)

		scanner := bufio.NewScanner(input)
		for scanner.Scan() {
			select {
			case triggers <- struct{}{}:
			default:
			}
		}
	}()

	return triggers
}

// Resyncer turns resync requests into a generic event for every known AutoSecret. It runs as a
// manager.Runnable so it starts after the caches and stops with the manager.
type Resyncer struct {
	reader   client.Reader
	triggers <-chan struct{}
	events   chan event.GenericEvent
	logger   logr.Logger
}

// NewResyncer returns a Resyncer listing AutoSecrets through reader.
func NewResyncer(reader client.Reader, triggers <-chan struct{}) *Resyncer {
	return &Resyncer{
		reader:   reader,
		triggers: triggers,
		events:   make(chan event.GenericEvent),
		logger:   ctrl.Log.WithName("controllers").WithName("resync"),
	}
}

// Events is the channel the controller watches.
func (resyncer *Resyncer) Events() <-chan event.GenericEvent {
	return resyncer.events
}

// Start blocks until ctx is done. A closed trigger channel only disables further resyncs.
func (resyncer *Resyncer) Start(ctx context.Context) error {
	triggers := resyncer.triggers

	for {
		select {
		case <-ctx.Done():
			return nil
		case _, open := <-triggers:
			if !open {
				triggers = nil
				continue
			}
			if err := resyncer.resync(ctx); err != nil {
				resyncer.logger.Error(err, "resync failed")
			}
		}
	}
}

func (resyncer *Resyncer) resync(ctx context.Context) error {
	var autoSecrets autosecretv1alpha1.AutoSecretList

	if err := resyncer.reader.List(ctx, &autoSecrets); err != nil {
		return err
	}

	resyncer.logger.Info("forcing reconciliation of all objects", "count", len(autoSecrets.Items))

	for index := range autoSecrets.Items {
		select {
		case resyncer.events <- event.GenericEvent{Object: &autoSecrets.Items[index]}:
		case <-ctx.Done():
			return nil
		}
	}

	return nil
}
