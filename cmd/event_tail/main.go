package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"bioez-be/internal/config"
	"bioez-be/pkg/events"
	pktNats "bioez-be/pkg/nats"

	"github.com/fatih/color"
)

// event_tail prints workspace events forwarded to NATS, such as completed
// predictions.
func main() {
	eventType := flag.String("type", "", "only this event type (default: all)")
	durable := flag.String("durable", "", "durable consumer name; empty tails new events only")
	flag.Parse()

	cfg := config.Load()
	if cfg.App.NatsURL == "" {
		color.Red("NATS_URL is not set")
		os.Exit(1)
	}

	sub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		color.Red("Failed to connect to NATS: %v", err)
		os.Exit(1)
	}
	defer sub.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	subject := pktNats.SubjectPrefix + ">"
	if *eventType != "" {
		subject = pktNats.Subject(*eventType)
	}

	err = sub.Subscribe(ctx, subject, *durable, func(ctx context.Context, e events.Event) error {
		data, _ := json.MarshalIndent(e.Payload()[events.KeyData], "  ", "  ")
		color.Green("%s  %s  workspace=%s", e.Timestamp().Format("15:04:05"), e.EventType(), events.WorkspaceID(e))
		color.White("  %s", data)
		return nil
	})
	if err != nil {
		color.Red("Subscribe failed: %v", err)
		os.Exit(1)
	}

	color.Cyan("Tailing %s (Ctrl+C to stop)", subject)
	<-ctx.Done()
}
