package notify

import (
	"fmt"
	"math"
	"time"

	"github.com/tmori/wishnote/internal/model"
	"github.com/tmori/wishnote/internal/push"
)

// deadlineWindow returns the [from, to] range a deadline must fall in to
// trigger a reminder: the start of today through the start of the day
// `days` ahead, inclusive on both ends.
func deadlineWindow(now time.Time, days int) (from, to time.Time) {
	from = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to = from.AddDate(0, 0, days)
	return from, to
}

// daysUntil counts days remaining until the deadline, rounding partial
// days up: a deadline later today is 1 day away, one three midnights out
// is 3.
func daysUntil(now, deadline time.Time) int {
	return int(math.Ceil(deadline.Sub(now).Hours() / 24))
}

// monthKey formats the "YYYY-MM" billing month for a point in time.
func monthKey(t time.Time) string {
	return t.Format("2006-01")
}

func deadlinePayload(item model.Item, daysLeft int) push.Payload {
	return push.Payload{
		Title: "期限が近づいています",
		Body:  fmt.Sprintf("%s の期限が%d日後です", item.Name, daysLeft),
		Data:  push.PayloadData{ItemID: item.ID},
	}
}

type budgetMessage struct {
	kind    string
	payload push.Payload
}

// budgetMessages builds the budget alerts owed for one user. The Monday
// summary is independent of the thresholds; the exceeded and 50% alerts
// are mutually exclusive, highest severity wins. Callers must guarantee
// amount > 0.
func budgetMessages(now time.Time, month string, spending, amount float64) []budgetMessage {
	data := push.PayloadData{Month: month}

	var msgs []budgetMessage
	if now.Weekday() == time.Monday {
		msgs = append(msgs, budgetMessage{
			kind: model.NotifKindBudgetWeekly,
			payload: push.Payload{
				Title: "今週の予算状況",
				Body:  fmt.Sprintf("今月の合計: %d / %d", int64(math.Round(spending)), int64(math.Round(amount))),
				Data:  data,
			},
		})
	}

	ratio := spending / amount
	switch {
	case ratio >= 1:
		msgs = append(msgs, budgetMessage{
			kind: model.NotifKindBudgetExceeded,
			payload: push.Payload{
				Title: "予算を超えています",
				Body:  "今月の合計が予算を超過しました",
				Data:  data,
			},
		})
	case ratio >= 0.5:
		msgs = append(msgs, budgetMessage{
			kind: model.NotifKindBudgetHalf,
			payload: push.Payload{
				Title: "予算の50%に到達",
				Body:  "今月の合計が予算の50%を超えました",
				Data:  data,
			},
		})
	}
	return msgs
}

// deadlineEnabled reports whether deadline reminders are on for the user.
// No saved preference means enabled.
func deadlineEnabled(prefs map[string]model.NotificationPreference, userID string) bool {
	pref, ok := prefs[userID]
	if !ok {
		return true
	}
	return pref.NotifyDeadline
}

func budgetEnabled(prefs map[string]model.NotificationPreference, userID string) bool {
	pref, ok := prefs[userID]
	if !ok {
		return true
	}
	return pref.NotifyBudget
}

func groupSubscriptions(subs []model.PushSubscription) map[string][]model.PushSubscription {
	byUser := make(map[string][]model.PushSubscription)
	for _, sub := range subs {
		byUser[sub.UserID] = append(byUser[sub.UserID], sub)
	}
	return byUser
}
