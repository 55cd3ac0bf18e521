package notify

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/tmori/wishnote/internal/push"
)

// dispatch fans every notice out to each of its user's subscriptions.
// Sends run concurrently with a bounded limit and their own timeout so a
// stuck endpoint cannot stall the rest of the sweep. Failures are logged
// and counted but never stop other deliveries.
func (e *Engine) dispatch(ctx context.Context, notices []notice) (sent, failed, expired int) {
	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(e.cfg.SendConcurrency)

	for _, n := range notices {
		for _, sub := range n.subs {
			g.Go(func() error {
				sendCtx, cancel := context.WithTimeout(ctx, e.cfg.SendTimeout)
				defer cancel()

				err := e.sender.Send(sendCtx, &sub, n.payload)

				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					sent++
				case errors.Is(err, push.ErrExpired):
					expired++
					if derr := e.push.DeleteByEndpoint(sub.Endpoint); derr != nil {
						e.logger.Error("prune expired subscription", "subscription_id", sub.ID, "error", derr)
					}
				default:
					failed++
					e.logger.Error("send push", "kind", n.kind, "user_id", n.userID, "subscription_id", sub.ID, "error", err)
				}
				return nil
			})
		}
	}

	g.Wait()
	return sent, failed, expired
}
