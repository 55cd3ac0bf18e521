package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tmori/wishnote/internal/model"
	"github.com/tmori/wishnote/internal/push"
	"github.com/tmori/wishnote/internal/store"
)

// Sender delivers one payload to one subscription endpoint.
type Sender interface {
	Send(ctx context.Context, sub *model.PushSubscription, payload push.Payload) error
}

// Config tunes the engine. Zero values fall back to defaults.
type Config struct {
	DeadlineWindowDays int           // look-ahead for deadline reminders (default 3)
	SendConcurrency    int           // parallel push sends (default 8)
	SendTimeout        time.Duration // per-send budget (default 10s)
	TrashRetentionDays int           // soft-deleted items older than this are purged; 0 disables
	Dedupe             bool          // suppress repeats of the same notice within a day
}

func (c Config) withDefaults() Config {
	if c.DeadlineWindowDays <= 0 {
		c.DeadlineWindowDays = 3
	}
	if c.SendConcurrency <= 0 {
		c.SendConcurrency = 8
	}
	if c.SendTimeout <= 0 {
		c.SendTimeout = 10 * time.Second
	}
	if c.TrashRetentionDays < 0 {
		c.TrashRetentionDays = 0
	}
	return c
}

// Result summarizes one sweep.
type Result struct {
	DeadlineNotices int
	BudgetNotices   int
	Deduped         int
	Sent            int
	Failed          int
	Expired         int
}

// notice is one logical notification owed to one user, fanned out to all
// of the user's subscriptions.
type notice struct {
	userID  string
	kind    string
	refID   string
	payload push.Payload
	subs    []model.PushSubscription
}

// Engine computes which notifications are owed and dispatches them. It is
// stateless across runs apart from the sent-notification ledger.
type Engine struct {
	items   *store.ItemStore
	push    *store.PushStore
	budgets *store.BudgetStore
	sender  Sender
	cfg     Config
	logger  *slog.Logger
}

func NewEngine(items *store.ItemStore, pushStore *store.PushStore, budgets *store.BudgetStore, sender Sender, cfg Config, logger *slog.Logger) *Engine {
	return &Engine{
		items:   items,
		push:    pushStore,
		budgets: budgets,
		sender:  sender,
		cfg:     cfg.withDefaults(),
		logger:  logger,
	}
}

// Run performs one sweep at the injected wall-clock time: it reads items,
// preferences, subscriptions, and budgets, computes every notification
// owed, and dispatches them. Any read failure aborts before anything is
// sent; individual delivery failures are logged and counted, never fatal.
func (e *Engine) Run(ctx context.Context, now time.Time) (*Result, error) {
	prefs, err := e.push.ListPreferences()
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}

	subs, err := e.push.ListAll()
	if err != nil {
		return nil, fmt.Errorf("load subscriptions: %w", err)
	}
	subsByUser := groupSubscriptions(subs)

	deadline, err := e.deadlineNotices(now, prefs, subsByUser)
	if err != nil {
		return nil, err
	}

	budget, err := e.budgetNotices(now, prefs, subsByUser)
	if err != nil {
		return nil, err
	}

	res := &Result{
		DeadlineNotices: len(deadline),
		BudgetNotices:   len(budget),
	}

	notices := append(deadline, budget...)
	day := now.Format("2006-01-02")
	if e.cfg.Dedupe {
		fresh := notices[:0]
		for _, n := range notices {
			sent, err := e.push.WasSent(n.userID, n.kind, n.refID, day)
			if err != nil {
				return nil, fmt.Errorf("check sent ledger: %w", err)
			}
			if sent {
				res.Deduped++
				continue
			}
			fresh = append(fresh, n)
		}
		notices = fresh
	}

	res.Sent, res.Failed, res.Expired = e.dispatch(ctx, notices)

	// Ledger writes happen after dispatch; a failure here means at worst a
	// duplicate on the next run, so it is logged rather than propagated.
	if e.cfg.Dedupe {
		for _, n := range notices {
			if err := e.push.RecordSent(n.userID, n.kind, n.refID, day); err != nil {
				e.logger.Error("record sent notification", "kind", n.kind, "user_id", n.userID, "error", err)
			}
		}
	}

	return res, nil
}

func (e *Engine) deadlineNotices(now time.Time, prefs map[string]model.NotificationPreference, subsByUser map[string][]model.PushSubscription) ([]notice, error) {
	from, to := deadlineWindow(now, e.cfg.DeadlineWindowDays)
	items, err := e.items.ListDueBetween(from, to)
	if err != nil {
		return nil, fmt.Errorf("load due items: %w", err)
	}

	var notices []notice
	for _, item := range items {
		if item.Deadline == nil {
			continue
		}
		if !deadlineEnabled(prefs, item.UserID) {
			continue
		}
		subs := subsByUser[item.UserID]
		if len(subs) == 0 {
			continue
		}

		notices = append(notices, notice{
			userID:  item.UserID,
			kind:    model.NotifKindDeadline,
			refID:   item.ID,
			payload: deadlinePayload(item, daysUntil(now, *item.Deadline)),
			subs:    subs,
		})
	}
	return notices, nil
}

func (e *Engine) budgetNotices(now time.Time, prefs map[string]model.NotificationPreference, subsByUser map[string][]model.PushSubscription) ([]notice, error) {
	month := monthKey(now)

	limits, err := e.budgets.ListByMonth(month)
	if err != nil {
		return nil, fmt.Errorf("load budget limits: %w", err)
	}
	if len(limits) == 0 {
		return nil, nil
	}

	spending, err := e.items.MonthlySpending(month)
	if err != nil {
		return nil, fmt.Errorf("load monthly spending: %w", err)
	}

	var notices []notice
	for _, limit := range limits {
		if !budgetEnabled(prefs, limit.UserID) {
			continue
		}
		subs := subsByUser[limit.UserID]
		if len(subs) == 0 {
			continue
		}
		if limit.Amount <= 0 {
			e.logger.Warn("skipping budget with non-positive amount", "user_id", limit.UserID, "month", month)
			continue
		}

		for _, msg := range budgetMessages(now, month, spending[limit.UserID], limit.Amount) {
			notices = append(notices, notice{
				userID:  limit.UserID,
				kind:    msg.kind,
				refID:   month,
				payload: msg.payload,
				subs:    subs,
			})
		}
	}
	return notices, nil
}

// PurgeTrash permanently removes items soft-deleted longer ago than the
// retention window. A zero retention disables purging.
func (e *Engine) PurgeTrash(now time.Time) (int64, error) {
	if e.cfg.TrashRetentionDays <= 0 {
		return 0, nil
	}
	cutoff := now.AddDate(0, 0, -e.cfg.TrashRetentionDays)
	return e.items.PurgeDeletedBefore(cutoff)
}
