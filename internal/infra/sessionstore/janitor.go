package sessionstore

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// StartJanitor запускает периодическую очистку истекших сессий.
// schedule в формате cron, например "@every 1m".
func StartJanitor(store *MemoryStore, schedule string, log Logger) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(schedule, func() {
		if evicted := store.EvictExpired(); evicted > 0 {
			log.Info("Session janitor: evicted %d expired sessions", evicted)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("%w: invalid janitor schedule %q: %v", ErrStore, schedule, err)
	}

	c.Start()
	return c, nil
}
