package main

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at  DATETIME NOT NULL,
		ral_total   INTEGER NOT NULL DEFAULT 0,
		rec_total   INTEGER NOT NULL DEFAULT 0,
		ral_error   TEXT DEFAULT '',
		rec_error   TEXT DEFAULT '',
		digest_sent INTEGER NOT NULL DEFAULT 0,
		created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);

	CREATE TABLE IF NOT EXISTS notifications (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		channel   TEXT NOT NULL,
		recipient TEXT NOT NULL,
		sent_at   DATETIME NOT NULL,
		ok        INTEGER NOT NULL,
		detail    TEXT DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_notifications_sent_at ON notifications(sent_at);
	CREATE INDEX IF NOT EXISTS idx_notifications_channel ON notifications(channel);
	`
	_, err = db.Exec(schema)
	if err != nil {
		return nil, err
	}

	return db, nil
}

func InsertRun(db *sql.DB, run RunRecord) error {
	_, err := db.Exec(
		`INSERT INTO runs (started_at, ral_total, rec_total, ral_error, rec_error, digest_sent)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.StartedAt, run.RALTotal, run.RECTotal, run.RALError, run.RECError, run.DigestSent,
	)
	return err
}

func InsertNotification(db *sql.DB, n NotificationRecord) error {
	_, err := db.Exec(
		`INSERT INTO notifications (channel, recipient, sent_at, ok, detail)
		 VALUES (?, ?, ?, ?, ?)`,
		n.Channel, n.Recipient, n.SentAt, n.OK, n.Detail,
	)
	return err
}

// LastSuccessfulNotification returns the time of the most recent delivered
// notification on any channel. The second return is false when none exists.
func LastSuccessfulNotification(db *sql.DB) (time.Time, bool, error) {
	var at time.Time
	err := db.QueryRow(
		`SELECT sent_at FROM notifications WHERE ok = 1 ORDER BY sent_at DESC LIMIT 1`,
	).Scan(&at)
	if err == sql.ErrNoRows {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return at, true, nil
}

func CountRuns(db *sql.DB) (int, error) {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&count)
	return count, err
}
