package bot

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"solbot/notifications"
)

func (b *Bot) WelcomeText() string {
	return fmt.Sprintf("👋 Welcome %s!\n\nPlease choose an option below:", b.settings.Name)
}

// Keyboard lists the actions offered by the menu. Balances is only shown
// when enabled, though it is always handled.
func (b *Bot) Keyboard() notifications.Keyboard {

	kb := notifications.Keyboard{
		{
			{Text: "🔄 Stake Changes", Data: ActionStakeChanges},
			{Text: "📊 Ranking", Data: ActionRanking},
		},
		{
			{Text: "ℹ️ Epoch Infos", Data: ActionEpochInfo},
			{Text: "🎁 Rewards", Data: ActionRewards},
		},
	}

	if b.settings.BalancesButton {
		kb = append(kb, []notifications.Button{
			{Text: "💰 Balances", Data: ActionBalances},
		})
	}

	return kb
}

// Start sends the menu. The menu stays in the chat.
func (b *Bot) Start(chatID int64) {
	if err := b.replier.Menu(chatID, b.WelcomeText(), b.Keyboard()); err != nil {
		log.WithError(err).WithField("ChatID", chatID).Error("Unable to send menu")
	}
}
