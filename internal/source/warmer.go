package source

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Warmer keeps a source's current bucket populated so client requests
// rarely pay for a cold fetch.
type Warmer struct {
	src   SampleSource
	every time.Duration
	hours int
	log   logrus.FieldLogger
	cron  *cron.Cron
}

func NewWarmer(src SampleSource, every time.Duration, hours int, log logrus.FieldLogger) *Warmer {
	if every <= 0 {
		every = 5 * time.Minute
	}
	return &Warmer{
		src:   src,
		every: every,
		hours: hours,
		log:   log,
		cron:  cron.New(),
	}
}

// Start begins periodic warming and primes the source once right away.
func (w *Warmer) Start() error {
	_, err := w.cron.AddFunc(fmt.Sprintf("@every %s", w.every), w.warm)
	if err != nil {
		return err
	}
	w.cron.Start()

	go w.warm()
	return nil
}

func (w *Warmer) warm() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if _, err := w.src.Latest(ctx, w.hours); err != nil {
		w.log.WithError(err).Warn("forecast warm-up failed")
	}
}

// Stop halts periodic warming. An in-flight warm-up is not interrupted.
func (w *Warmer) Stop() {
	w.cron.Stop()
}
