package sentry

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"sync"

	"github.com/getsentry/raven-go"

	"github.com/vijayswarnkar21/quatjenkinsplugin/common/taggederr"
	"github.com/vijayswarnkar21/quatjenkinsplugin/common/version"
)

var (
	sentryDsn = ""

	clientOnce   sync.Once
	sentryClient *raven.Client
)

// GetClient returns the process-wide Sentry client, or nil when no DSN was
// configured.
func GetClient() *raven.Client {
	clientOnce.Do(func() {
		if sentryDsn == "" {
			return
		}
		c, err := raven.NewClient(sentryDsn, map[string]string{
			"version": version.GetVersion(),
		})
		if err != nil {
			log.Fatal(err)
		}
		sentryClient = c
	})
	return sentryClient
}

// extractFromTagged unwraps a TaggedErr, merging its tags with the given
// ones. Explicit tags win over tags carried by the error.
func extractFromTagged(err error, tags map[string]string) (error, map[string]string) {
	var te taggederr.TaggedErr
	if !errors.As(err, &te) {
		return err, tags
	}
	merged := te.GetTags()
	for k, v := range tags {
		merged[k] = v
	}
	return te.GetInner(), merged
}

func Error(err error, tags map[string]string) {
	err, tags = extractFromTagged(err, tags)
	if sentryClient := GetClient(); sentryClient != nil {
		sentryClient.CaptureError(err, tags)
	} else {
		log.Printf("[Sentry Error] %s %v", err.Error(), tags)
	}
}

func Message(str string, tags map[string]string) {
	if sentryClient := GetClient(); sentryClient != nil {
		sentryClient.CaptureMessage(str, tags)
	} else {
		log.Printf("[Sentry Message] %s", str)
	}
}

// CapturePanic reports a recovered panic value and blocks until it has been
// delivered. It is a no-op without a configured client.
func CapturePanic(p interface{}) {
	sentryClient := GetClient()
	if sentryClient == nil || p == nil {
		return
	}
	var packet *raven.Packet
	switch rval := p.(type) {
	case error:
		packet = raven.NewPacket(rval.Error(), raven.NewException(rval, raven.NewStacktrace(2, 3, nil)))
	default:
		rvalStr := fmt.Sprint(rval)
		packet = raven.NewPacket(rvalStr, raven.NewException(errors.New(rvalStr), raven.NewStacktrace(2, 3, nil)))
	}
	log.Printf("[sentry] Sending panic to Sentry")
	_, ch := sentryClient.Capture(packet, map[string]string{})
	<-ch
}

func init() {
	flag.StringVar(&sentryDsn, "sentry-dsn", "", "Sentry DSN for reporting errors")
}
