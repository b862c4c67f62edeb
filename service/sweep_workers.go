package service

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// StatusSweepWorker periodically resets member block statuses whose expiry
// has passed
type StatusSweepWorker struct {
	members  MemberService
	interval time.Duration
}

// NewStatusSweepWorker creates a new status sweep worker
func NewStatusSweepWorker(members MemberService, interval time.Duration) *StatusSweepWorker {
	return &StatusSweepWorker{
		members:  members,
		interval: interval,
	}
}

// Start begins the status sweep worker
func (w *StatusSweepWorker) Start(ctx context.Context) func() {
	stopChan := make(chan struct{})

	go func() {
		log.Infof("Status sweep worker started, running every %v", w.interval)

		for {
			select {
			case <-ctx.Done():
				log.Info("Status sweep worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Status sweep worker shutting down (stop requested)...")
				return
			case <-time.After(w.interval):
				w.runOnce(ctx)
			}
		}
	}()

	// Return cleanup function
	return func() {
		close(stopChan)
	}
}

func (w *StatusSweepWorker) runOnce(ctx context.Context) {
	reset, err := w.members.SweepExpiredStatuses(ctx)
	if err != nil {
		log.Errorf("Error sweeping expired statuses: %v", err)
		return
	}

	if reset > 0 {
		log.WithFields(log.Fields{
			"members_reset": reset,
		}).Info("Expired member statuses cleared")
	}
}

// StaleTicketWorker periodically warns staff about tickets that sat past
// their guild's response deadline
type StaleTicketWorker struct {
	tickets  TicketService
	interval time.Duration
}

// NewStaleTicketWorker creates a new stale ticket worker
func NewStaleTicketWorker(tickets TicketService, interval time.Duration) *StaleTicketWorker {
	return &StaleTicketWorker{
		tickets:  tickets,
		interval: interval,
	}
}

// Start begins the stale ticket worker
func (w *StaleTicketWorker) Start(ctx context.Context) func() {
	stopChan := make(chan struct{})

	go func() {
		log.Infof("Stale ticket worker started, running every %v", w.interval)

		for {
			select {
			case <-ctx.Done():
				log.Info("Stale ticket worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Stale ticket worker shutting down (stop requested)...")
				return
			case <-time.After(w.interval):
				w.runOnce(ctx)
			}
		}
	}()

	// Return cleanup function
	return func() {
		close(stopChan)
	}
}

func (w *StaleTicketWorker) runOnce(ctx context.Context) {
	warned, err := w.tickets.SweepStaleTickets(ctx)
	if err != nil {
		log.Errorf("Error sweeping stale tickets: %v", err)
		return
	}

	if warned > 0 {
		log.WithFields(log.Fields{
			"tickets_warned": warned,
		}).Info("Stale ticket warnings sent")
	}
}
