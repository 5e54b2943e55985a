package main

import (
	"flag"
	"log"
	"time"
)

func main() {
	once := flag.Bool("once", false, "run a single refresh and exit")
	noNotify := flag.Bool("no-notify", false, "skip the digest notification")
	flag.Parse()

	cfg := LoadConfig()

	db, err := InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to init database: %v", err)
	}
	defer db.Close()

	pipeline, err := NewPipeline(cfg, db)
	if err != nil {
		log.Fatalf("Failed to build pipeline: %v", err)
	}

	log.Println("Starting SIR Monitor...")
	result, err := pipeline.RunOnce(time.Now().In(cfg.Location), *noNotify)
	if err != nil {
		if *once {
			log.Fatalf("Run failed: %v", err)
		}
		log.Printf("initial run error: %v", err)
	} else {
		logRunResult(result)
	}

	if *once {
		return
	}

	if _, err := StartScheduler(cfg, pipeline, *noNotify); err != nil {
		log.Fatalf("Scheduler error: %v", err)
	}
	select {}
}
