package main

import (
	"database/sql"
	"log"
	"time"
)

// Notifier delivers a rendered digest to one recipient.
type Notifier interface {
	Name() string
	Send(recipient, text string) error
}

// notifyTarget pairs a notifier with its configured recipient.
type notifyTarget struct {
	notifier  Notifier
	recipient string
}

// notifyTargets builds the configured delivery targets. Both channels are
// optional; an empty slice disables the digest entirely.
func notifyTargets(cfg Config) []notifyTarget {
	var targets []notifyTarget
	if cfg.WhatsAppRecipient != "" {
		targets = append(targets, notifyTarget{
			notifier:  NewWhatsAppNotifier(cfg),
			recipient: cfg.WhatsAppRecipient,
		})
	}
	if cfg.SlackChannelID != "" {
		targets = append(targets, notifyTarget{
			notifier:  NewSlackNotifier(cfg.SlackBotToken),
			recipient: cfg.SlackChannelID,
		})
	}
	return targets
}

// sendDigest fans the digest out to every target. Failures are logged and
// recorded; the snapshot is already persisted by the time this runs, so
// nothing here is fatal and nothing is retried. Returns whether at least one
// delivery succeeded.
func sendDigest(db *sql.DB, targets []notifyTarget, text string, now time.Time) bool {
	sentAny := false
	for _, t := range targets {
		err := t.notifier.Send(t.recipient, text)
		rec := NotificationRecord{
			Channel:   t.notifier.Name(),
			Recipient: t.recipient,
			SentAt:    now,
			OK:        err == nil,
		}
		if err != nil {
			log.Printf("notify %s error: %v", t.notifier.Name(), err)
			rec.Detail = err.Error()
		} else {
			sentAny = true
		}
		if db != nil {
			if dbErr := InsertNotification(db, rec); dbErr != nil {
				log.Printf("record notification: %v", dbErr)
			}
		}
	}
	return sentAny
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
