// maptail follows map events on the bus and prints them, one JSON line per
// event. Useful when debugging why a client's map is out of sync: run it
// next to the API server and watch selections, notices, and viewports flow.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	natsadapter "github.com/samirrijal/begiramap/internal/adapters/nats"
	"github.com/samirrijal/begiramap/internal/core/domain"
	"github.com/samirrijal/begiramap/internal/pkg/config"
)

func main() {
	durable := "maptail"
	if len(os.Args) > 1 {
		durable = os.Args[1]
	}

	cfg, err := config.Load("begiramap-maptail")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer sub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err = sub.SubscribeSelections(ctx, durable+"-sele", func(ctx context.Context, landmarkID string) error {
		if landmarkID == "" {
			fmt.Println(`{"event":"selection","cleared":true}`)
		} else {
			fmt.Printf("{\"event\":\"selection\",\"landmark\":%q}\n", landmarkID)
		}
		return nil
	})
	if err != nil {
		log.Fatalf("subscribe selections: %v", err)
	}

	err = sub.SubscribeNotices(ctx, durable+"-notc", func(ctx context.Context, n domain.Notice) error {
		fmt.Printf("{\"event\":\"notice\",\"level\":%q,\"message\":%q}\n", n.Level, n.Message)
		return nil
	})
	if err != nil {
		log.Fatalf("subscribe notices: %v", err)
	}

	err = sub.SubscribeViewports(ctx, func(ctx context.Context, vp domain.Viewport) error {
		fmt.Printf("{\"event\":\"viewport\",\"lat\":%.5f,\"lon\":%.5f,\"zoom\":%.2f}\n",
			vp.Center.Lat, vp.Center.Lon, vp.Zoom)
		return nil
	})
	if err != nil {
		log.Fatalf("subscribe viewports: %v", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
}
