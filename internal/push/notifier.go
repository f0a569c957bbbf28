package push

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/tsumuapp/tsumu/internal/store"
)

// Notifier fans a notification out to all of a user's registered devices.
// Sends run in the caller's goroutine via Notify; handlers call it with
// `go` so a slow push service never delays a response.
type Notifier struct {
	service *Service
	subs    *store.PushStore
	logger  *slog.Logger
}

func NewNotifier(svc *Service, subs *store.PushStore, logger *slog.Logger) *Notifier {
	return &Notifier{
		service: svc,
		subs:    subs,
		logger:  logger,
	}
}

// Notify sends the payload to every subscription the user has. Expired
// subscriptions are pruned as the push service reports them gone.
func (n *Notifier) Notify(userID int64, payload Payload) {
	if !n.service.Enabled() {
		return
	}

	subs, err := n.subs.ListByUser(userID)
	if err != nil {
		n.logger.Error("list push subscriptions", "error", err, "user_id", userID)
		return
	}

	for i := range subs {
		if err := n.service.Send(&subs[i], payload); err != nil {
			if errors.Is(err, ErrExpired) {
				n.subs.DeleteByEndpoint(subs[i].Endpoint)
				continue
			}
			n.logger.Warn("send push", "error", err, "user_id", userID)
		}
	}
}

// NotifyStreakMilestone announces a habit streak milestone.
func (n *Notifier) NotifyStreakMilestone(userID int64, habitText string, streak int) {
	n.Notify(userID, Payload{
		Title: "連続記録達成！",
		Body:  fmt.Sprintf("🏆 %s：%d日達成！", habitText, streak),
		URL:   "/",
		Tag:   fmt.Sprintf("streak-%d", streak),
	})
}

// NotifyTitleEarned announces a newly earned title.
func (n *Notifier) NotifyTitleEarned(userID int64, titleName string, bonus int) {
	body := fmt.Sprintf("称号「%s」を獲得しました！", titleName)
	if bonus > 0 {
		body = fmt.Sprintf("称号「%s」を獲得！ボーナス +%dpt", titleName, bonus)
	}
	n.Notify(userID, Payload{
		Title: "新しい称号",
		Body:  body,
		URL:   "/titles",
		Tag:   "title-earned",
	})
}
