package bot

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"solbot/notifications"
	"solbot/rewards"
	"solbot/solclient"
	"solbot/stakewiz"
	"solbot/util"
)

const (
	ActionStakeChanges = "stakeChanges"
	ActionRanking      = "ranking"
	ActionEpochInfo    = "epochInfos"
	ActionRewards      = "rewards"
	ActionBalances     = "balances"

	CommandStart = "start"

	ErrorMessage = "Error: the action couldn't be processed!"
)

// RPC is the subset of the Solana node API the handlers use
type RPC interface {
	GetBalance(ctx context.Context, address string) (uint64, error)
	GetEpochInfo(ctx context.Context) (*solclient.EpochInfo, error)
	GetLeaderSchedule(ctx context.Context, identity string) (solclient.LeaderSchedule, error)
	GetBlockRewards(ctx context.Context, slot uint64) (*solclient.Block, error)
	GetStakeAccounts(ctx context.Context, voter string) ([]solclient.StakeAccount, error)
	TipDistributionAccount(vote string, epoch uint64) (solclient.PublicKey, error)
}

// Stats is the validator statistics API
type Stats interface {
	GetEpochInfo(ctx context.Context) (*stakewiz.EpochInfo, error)
	GetValidator(ctx context.Context, voteAddress string) (*stakewiz.Validator, error)
}

// Replier delivers bot output to a chat
type Replier interface {
	Reply(chatID int64, text string) error
	Menu(chatID int64, text string, keyboard notifications.Keyboard) error
	Acknowledge(callbackID string) error
}

type Settings struct {
	Identity string
	Vote     string
	Name     string

	SlotDuration          time.Duration
	BalancesButton        bool
	DustFilter            bool
	BlockFetchConcurrency int
}

type handlerFunc func(ctx context.Context) (string, error)

type Bot struct {
	settings Settings
	rpc      RPC
	stats    Stats
	replier  Replier

	cache    *rewards.Cache
	resolver *rewards.Resolver

	handlers map[string]handlerFunc

	wg sync.WaitGroup
}

func New(s Settings, rpc RPC, stats Stats, replier Replier, cache *rewards.Cache) *Bot {

	if s.Name == "" {
		s.Name = "Operators"
	}

	if s.SlotDuration <= 0 {
		s.SlotDuration = util.DefaultSlotDuration
	}

	if cache == nil {
		cache = rewards.NewCache()
	}

	b := &Bot{
		settings: s,
		rpc:      rpc,
		stats:    stats,
		replier:  replier,
		cache:    cache,
	}

	b.resolver = &rewards.Resolver{
		Cache:       cache,
		Fetch:       b.fetchSlotReward,
		Concurrency: s.BlockFetchConcurrency,
	}

	b.handlers = map[string]handlerFunc{
		ActionStakeChanges: b.stakeChanges,
		ActionRanking:      b.ranking,
		ActionEpochInfo:    b.epochInfo,
		ActionRewards:      b.rewards,
		ActionBalances:     b.balances,
	}

	return b
}

// Run consumes events until ctx is cancelled or events is closed. Each
// button press is handled on its own goroutine.
func (b *Bot) Run(ctx context.Context, events <-chan notifications.Event) {

	log.Info("Waiting for chat events")

	for {
		select {
		case <-ctx.Done():
			log.Info("Stopping event loop")
			return

		case ev, ok := <-events:
			if !ok {
				log.Warn("Event stream closed")
				return
			}
			b.handle(ctx, ev)
		}
	}
}

// Wait blocks until in-flight actions have replied
func (b *Bot) Wait() {
	b.wg.Wait()
}

func (b *Bot) handle(ctx context.Context, ev notifications.Event) {

	switch ev.Kind {
	case notifications.CommandEvent:
		if ev.Command != CommandStart {
			log.WithField("Command", ev.Command).Debug("Ignoring command")
			return
		}
		b.Start(ev.ChatID)

	case notifications.CallbackEvent:

		// Acknowledge first so the client stops its spinner
		if err := b.replier.Acknowledge(ev.CallbackID); err != nil {
			log.WithError(err).WithField("Action", ev.Action).Debug("Unable to answer callback")
		}

		body, ok := b.handlers[ev.Action]
		if !ok {
			log.WithFields(log.Fields{
				"Action": ev.Action, "ChatID": ev.ChatID,
			}).Warn("Unknown action")
			return
		}

		// Dispatched actions run to completion; cancelling ctx only stops
		// the event loop
		actionCtx := context.WithoutCancel(ctx)

		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			b.run(actionCtx, ev.Action, ev.ChatID, body)
		}()
	}
}

// run executes one action and replies with its text, or with the generic
// error message if it fails or panics
func (b *Bot) run(ctx context.Context, action string, chatID int64, body handlerFunc) {

	start := time.Now()

	text, err := protect(ctx, body)

	outcome := "ok"
	if err != nil {
		outcome = "error"
		text = ErrorMessage

		log.WithError(err).WithFields(log.Fields{
			"Action": action, "ChatID": chatID,
		}).Error("Action failed")
	}

	observeAction(action, outcome, start)

	if err := b.replier.Reply(chatID, text); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"Action": action, "ChatID": chatID,
		}).Error("Unable to deliver reply")
	}
}

func protect(ctx context.Context, body handlerFunc) (text string, err error) {

	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("panic: %v", r)
		}
	}()

	return body(ctx)
}
