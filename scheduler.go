package main

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// StartScheduler runs the pipeline on the configured refresh interval. The
// digest gate inside the pipeline keeps notifications down to one per
// digest interval regardless of how often the data refreshes.
func StartScheduler(cfg Config, p *Pipeline, suppressDigest bool) (*cron.Cron, error) {
	c := cron.New()
	spec := fmt.Sprintf("@every %dm", cfg.UpdateIntervalMinutes)
	_, err := c.AddFunc(spec, func() {
		now := time.Now().In(cfg.Location)
		result, err := p.RunOnce(now, suppressDigest)
		if err != nil {
			log.Printf("scheduled run error: %v", err)
			return
		}
		logRunResult(result)
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	log.Printf("scheduler started: refresh every %dm, digest at most every %dh",
		cfg.UpdateIntervalMinutes, cfg.DigestIntervalHours)
	return c, nil
}

func logRunResult(result RunResult) {
	if result.RALError != nil {
		log.Printf("run RAL error: %v", result.RALError)
	}
	if result.RECError != nil {
		log.Printf("run REC error: %v", result.RECError)
	}
	log.Printf("run complete ral=%d rec=%d entries=%d indexed=%d digest_sent=%v",
		result.Snapshot.RAL.Total, result.Snapshot.REC.Total,
		result.HierarchyEntries, result.IndexSize, result.DigestSent)
}
