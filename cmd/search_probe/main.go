package main

import (
	"context"
	"flag"
	"os"
	"strings"
	"time"

	"bioez-be/internal/bootstrap"
	"bioez-be/internal/config"
	"bioez-be/internal/entity"
	"bioez-be/internal/pkg/logger"
	"bioez-be/pkg/biosearch"

	"github.com/fatih/color"
)

// search_probe runs one query through the configured databases, printing
// every state change as it happens.
func main() {
	query := flag.String("q", "hemoglobin", "search query")
	databases := flag.String("db", "", "comma separated databases (default: SEARCH_DATABASES)")
	noDelay := flag.Bool("no-delay", false, "skip the pause between databases")
	flag.Parse()

	cfg := config.Load()
	if *databases != "" {
		cfg.Search.Databases = strings.Split(*databases, ",")
	}

	ds, err := bootstrap.NewDataSources(cfg, logger.NewNopLogger())
	if err != nil {
		color.Red("Failed to build data sources: %v", err)
		os.Exit(1)
	}

	var delay biosearch.DelayPolicy = biosearch.FixedDelay{Interval: cfg.Search.Delay}
	if *noDelay {
		delay = biosearch.NoDelay{}
	}
	o := biosearch.NewOrchestrator(ds.Sources, delay, cfg.Search.ResultLimit)

	color.Cyan("Searching %q across %s (fixture=%v fallback=%v)\n", *query, strings.Join(o.Databases(), ", "), ds.Fixture, ds.Fallback)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	start := time.Now()
	states, err := o.Run(ctx, *query, func(states []entity.DatabaseState) {
		for _, st := range states {
			if st.IsLoading {
				color.Yellow("  ... %s", st.Database)
			}
		}
	})
	if err != nil {
		color.Red("Search failed: %v", err)
		os.Exit(1)
	}

	color.Cyan("\nResults after %s", time.Since(start).Round(time.Millisecond))
	failed := 0
	for _, st := range states {
		if st.Error != nil {
			failed++
			color.Red("[%s] error: %s", st.Database, *st.Error)
			continue
		}
		color.Green("[%s] %d result(s)", st.Database, len(st.Results))
		for _, r := range st.Results {
			color.White("    %-16s %s", r.Id, r.Title)
		}
	}
	if failed > 0 {
		os.Exit(2)
	}
}
