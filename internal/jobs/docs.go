// Package jobs provides scheduled background tasks for the fulfillment service.
//
// Jobs are cron-based (github.com/robfig/cron/v3, seconds enabled).
//
// # Available Jobs
//
// OutboxRelayJob runs every second by default. Each run relays one batch of
// outbox messages to the configured broker and evicts the cached status of
// the affected orders. Delivery is at least once; consumers dedupe on
// event_id.
//
// # Usage
//
//	job := jobs.NewOutboxRelayJob(relayHandler, relayCmd, jobs.EverySecond, logger)
//	jobManager := jobs.NewJobManager(job)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed run is logged and retried on the next tick. Messages published
// before the failure are marked in that same run.
package jobs
