// Command auditbench floods the async audit publisher to show its
// backpressure behaviour: eligibility events are dropped once the buffer is
// full, compliance events are always written through.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"meridian/internal/platform/logger"
	"meridian/pkg/domain"
	audit "meridian/pkg/platform/audit"
	auditmetrics "meridian/pkg/platform/audit/metrics"
	auditpublisher "meridian/pkg/platform/audit/publisher"
	auditstore "meridian/pkg/platform/audit/store/memory"
)

func main() {
	var (
		buffer      = flag.Int("buffer", 10, "async buffer size")
		flood       = flag.Int("flood", 50, "eligibility events emitted back to back")
		compliance  = flag.Int("compliance", 5, "compliance events emitted during the flood")
		metricsAddr = flag.String("metrics-addr", ":9090", "address for /metrics, empty to disable")
		hold        = flag.Bool("hold", false, "keep serving metrics after the run")
	)
	flag.Parse()

	log := logger.New("debug")
	metrics := auditmetrics.New()
	store := auditstore.NewInMemoryStore()
	publisher := auditpublisher.NewPublisher(
		store,
		auditpublisher.WithAsyncBuffer(*buffer),
		auditpublisher.WithMetrics(metrics),
		auditpublisher.WithPublisherLogger(log),
	)

	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			log.Info("metrics available", "url", "http://localhost"+*metricsAddr+"/metrics")
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				log.Error("metrics server failed", "error", err)
			}
		}()
	}

	ctx := context.Background()
	dealID := domain.NewDealID().String()

	fmt.Printf("\n=== Audit publisher backpressure (buffer=%d) ===\n", *buffer)

	fmt.Printf("1. flooding %d eligibility events...\n", *flood)
	dropped := 0
	for i := 0; i < *flood; i++ {
		if err := publisher.Emit(ctx, eligibilityEvent(dealID, i)); err != nil {
			dropped++
		}
	}
	fmt.Printf("   %d dropped due to full buffer\n", dropped)

	fmt.Printf("2. emitting %d compliance events while the buffer drains...\n", *compliance)
	failed := 0
	for i := 0; i < *compliance; i++ {
		if err := publisher.Emit(ctx, complianceEvent(i)); err != nil {
			failed++
			log.Error("compliance event failed", "error", err)
		}
	}
	fmt.Printf("   %d failed (expected 0)\n", failed)

	publisher.Close()

	events, _ := store.ListAll(ctx)
	byCategory := map[audit.EventCategory]int{}
	for _, e := range events {
		byCategory[e.Category]++
	}
	fmt.Println("3. store contents")
	fmt.Printf("   eligibility: %d of %d\n", byCategory[audit.CategoryEligibility], *flood)
	fmt.Printf("   compliance:  %d of %d\n", byCategory[audit.CategoryCompliance], *compliance)

	if byCategory[audit.CategoryCompliance] != *compliance {
		log.Error("compliance events were lost")
		os.Exit(1)
	}
	if *hold && *metricsAddr != "" {
		fmt.Println("\nFilter with: curl -s http://localhost" + *metricsAddr + "/metrics | grep meridian_audit")
		fmt.Println("Press Ctrl+C to exit...")
		select {}
	}
}

func eligibilityEvent(dealID string, i int) audit.Event {
	return audit.Event{
		Category:   audit.CategoryEligibility,
		InvestorID: domain.NewInvestorID(),
		Subject:    dealID,
		Action:     "eligibility_evaluated",
		Decision:   "allow",
		Reason:     "eligible",
		RequestID:  uuid.NewString(),
		Details:    map[string]string{"seq": fmt.Sprint(i)},
	}
}

func complianceEvent(i int) audit.Event {
	return audit.Event{
		Category:   audit.CategoryCompliance,
		Timestamp:  time.Now(),
		InvestorID: domain.NewInvestorID(),
		Action:     "compliance_status_changed",
		Decision:   "approved",
		Reason:     fmt.Sprintf("bench event %d", i+1),
		ActorID:    "auditbench",
		RequestID:  uuid.NewString(),
	}
}
