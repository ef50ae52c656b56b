// Package events defines the test lifecycle events published on the broker.
package events

import (
	"time"

	"github.com/borud/broker"
)

// TopicTests is the broker topic all test lifecycle events are published on.
const TopicTests = "/tests"

// PublishTimeout bounds how long a publisher waits for the broker.
const PublishTimeout = 1 * time.Second

// DeliveryTimeout bounds how long the broker waits on a slow subscriber,
// such as a progress printer writing to a terminal.
const DeliveryTimeout = 1 * time.Second

// Test lifecycle events (published to /tests stream)

// EventTestStarted is published before a test's files are compared
type EventTestStarted struct {
	Name  string
	Files int
}

// EventFileCompared is published after each gold/test pair is compared
type EventFileCompared struct {
	Test       string
	Gold       string
	File       string
	Pass       bool
	Mismatches int
	ErrorKind  string // empty unless the comparison could not complete
}

// EventTestSkipped is published when a test's checks do not run
type EventTestSkipped struct {
	Name   string
	Reason string
}

// EventTestFinished is published when a test's status is final
type EventTestFinished struct {
	Name     string
	Status   string
	Duration time.Duration
}

// NewBroker returns a broker sized for one harness run.
func NewBroker() *broker.Broker {
	return broker.New(broker.Config{
		DownStreamChanLen:  64,
		PublishChanLen:     64,
		SubscribeChanLen:   10,
		UnsubscribeChanLen: 10,
		DeliveryTimeout:    DeliveryTimeout,
	})
}
