package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lovoo/goka"
	"github.com/niksmo/shopsphere/config"
	"github.com/niksmo/shopsphere/internal/adapter"
	"github.com/niksmo/shopsphere/pkg/sigctx"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

const (
	partitions        = 3
	replicationFactor = 3
	deletePolicy      = "delete"
	compactPolicy     = "compact"
	eventsRetention   = "604800000" // 7 days
)

func main() {
	sigCtx, closeApp := sigctx.NotifyContext(context.Background())
	defer closeApp()

	cfg := config.Load()
	if !cfg.BrokerEnabled() {
		fmt.Println("broker.seed_brokers is empty, nothing to create")
		return
	}

	cl := createClient(cfg)
	defer cl.Close()

	eventsTopic := cfg.Broker.Topics.AnalyticsEvents
	counterTable := toGroupTable(cfg.Broker.Consumers.EventCounterGroup)

	printStart(eventsTopic, counterTable)
	defer printComplete(time.Now())

	// regular topics
	err := makeTopics(
		sigCtx, cl, deletePolicy,
		map[string]*string{"retention.ms": ptr(eventsRetention)},
		eventsTopic,
	)
	if err != nil {
		printFail(err)
		return
	}

	// group table topics
	err = makeTopics(sigCtx, cl, compactPolicy, nil, counterTable)
	if err != nil {
		printFail(err)
		return
	}
}

func createClient(cfg config.Config) *kadm.Client {
	opts := []kgo.Opt{kgo.SeedBrokers(cfg.Broker.SeedBrokers...)}
	if cfg.BrokerTLSEnabled() {
		tlsCfg, err := adapter.MakeTLSConfig(
			cfg.Broker.TLS.CA, cfg.Broker.TLS.Cert, cfg.Broker.TLS.Key,
		)
		if err != nil {
			panic(err)
		}
		opts = append(opts, kgo.DialTLSConfig(tlsCfg))
	}

	cl, err := kadm.NewOptClient(opts...)
	if err != nil {
		panic(err) // develop mistake
	}
	return cl
}

func makeTopics(
	ctx context.Context,
	cl *kadm.Client,
	cleanupPolicy string,
	extra map[string]*string,
	topics ...string,
) error {
	minISR := "1"

	config := map[string]*string{
		"cleanup.policy":      &cleanupPolicy,
		"min.insync.replicas": &minISR,
	}
	for k, v := range extra {
		config[k] = v
	}

	responses, err := cl.CreateTopics(
		ctx,
		partitions,
		replicationFactor,
		config,
		topics...,
	)
	if err != nil {
		return err
	}

	var errs []error
	for _, res := range responses.Sorted() {
		if res.Err != nil {
			if errors.Is(res.Err, kerr.TopicAlreadyExists) {
				fmt.Printf("topic: %q already exists\n", res.Topic)
			} else {
				errs = append(errs, res.Err)
			}
			continue
		}
		fmt.Printf("topic: %q successfully created\n", res.Topic)
	}

	return errors.Join(errs...)
}

func printStart(topics ...string) {
	fmt.Println("initializing topics...")
	for _, t := range topics {
		fmt.Printf("\t- %q\n", t)
	}
	fmt.Println()
}

func printComplete(start time.Time) {
	fmt.Printf("\ncomplete in %s\n", time.Since(start))
}

func printFail(err error) {
	fmt.Printf("failed to create topics: \n%s\n", err)
}

func toGroupTable(group string) string {
	return string(goka.GroupTable(goka.Group(group)))
}

func ptr(s string) *string {
	return &s
}
