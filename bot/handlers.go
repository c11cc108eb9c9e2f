package bot

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"solbot/rewards"
	"solbot/stake"
	"solbot/util"
)

func (b *Bot) balances(ctx context.Context) (string, error) {

	identity, err := b.rpc.GetBalance(ctx, b.settings.Identity)
	if err != nil {
		return "", errors.Wrap(err, "Unable to fetch identity balance")
	}

	vote, err := b.rpc.GetBalance(ctx, b.settings.Vote)
	if err != nil {
		return "", errors.Wrap(err, "Unable to fetch vote balance")
	}

	return fmt.Sprintf("Identity Balance: %.4f SOL\nVote Balance: %.4f SOL\n",
		util.LamportsToSOL(identity), util.LamportsToSOL(vote)), nil
}

func (b *Bot) rewards(ctx context.Context) (string, error) {

	schedule, err := b.rpc.GetLeaderSchedule(ctx, b.settings.Identity)
	if err != nil {
		return "", errors.Wrap(err, "Unable to fetch leader schedule")
	}

	info, err := b.rpc.GetEpochInfo(ctx)
	if err != nil {
		return "", errors.Wrap(err, "Unable to fetch epoch info")
	}

	collector, err := b.rpc.TipDistributionAccount(b.settings.Vote, info.Epoch)
	if err != nil {
		return "", errors.Wrap(err, "Unable to derive tip distribution account")
	}

	mev, err := b.rpc.GetBalance(ctx, collector.String())
	if err != nil {
		return "", errors.Wrap(err, "Unable to fetch MEV balance")
	}

	slots := rewards.AbsoluteSlots(schedule.SlotsFor(b.settings.Identity), info.BaseSlot())
	b.cache.Observe(info.Epoch, slots)

	records := b.resolver.Resolve(ctx, info.Epoch, info.AbsoluteSlot)

	return rewards.Summarize(records, util.LamportsToSOL(mev)).Report(), nil
}

func (b *Bot) fetchSlotReward(ctx context.Context, slot uint64) (float64, error) {

	block, err := b.rpc.GetBlockRewards(ctx, slot)
	if err != nil {
		return 0, err
	}

	return util.SignedLamportsToSOL(block.LeaderLamports()), nil
}

func (b *Bot) epochInfo(ctx context.Context) (string, error) {

	wiz, err := b.stats.GetEpochInfo(ctx)
	if err != nil {
		return "", errors.Wrap(err, "Unable to fetch epoch countdown")
	}

	schedule, err := b.rpc.GetLeaderSchedule(ctx, b.settings.Identity)
	if err != nil {
		return "", errors.Wrap(err, "Unable to fetch leader schedule")
	}

	info, err := b.rpc.GetEpochInfo(ctx)
	if err != nil {
		return "", errors.Wrap(err, "Unable to fetch epoch info")
	}

	offsets := schedule.SlotsFor(b.settings.Identity)
	current := info.SlotIndex

	nextIn := "-"
	if next, ok := util.SmallestGreaterThan(offsets, current); ok {
		seconds := float64(next-current) * b.settings.SlotDuration.Seconds()
		nextIn = "~" + util.FormatDuration(int64(seconds))
	}

	return fmt.Sprintf("Epoch: %d\nLeader Slots: %d\nRemaining Slots: %d\nNext Slot in: %s\nRemaining Time: %s\n",
		wiz.Epoch,
		len(offsets),
		util.CountGreaterThan(offsets, current),
		nextIn,
		util.FormatDuration(wiz.RemainingWholeSeconds())), nil
}

func (b *Bot) ranking(ctx context.Context) (string, error) {

	v, err := b.stats.GetValidator(ctx, b.settings.Vote)
	if err != nil {
		return "", errors.Wrap(err, "Unable to fetch validator ranking")
	}

	return fmt.Sprintf("Rank: %d\nWiz Score: %s%%\nVote Success: %s%%\nSkip rate: %.2f%%\n",
		v.Rank, util.FormatFloat(v.WizScore), util.FormatFloat(v.VoteSuccess), v.SkipRate), nil
}

func (b *Bot) stakeChanges(ctx context.Context) (string, error) {

	info, err := b.rpc.GetEpochInfo(ctx)
	if err != nil {
		return "", errors.Wrap(err, "Unable to fetch epoch info")
	}

	accounts, err := b.rpc.GetStakeAccounts(ctx, b.settings.Vote)
	if err != nil {
		return "", errors.Wrap(err, "Unable to fetch stake accounts")
	}

	return stake.Classify(accounts, info.Epoch, b.settings.DustFilter).Report(), nil
}
