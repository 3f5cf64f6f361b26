// Package shop implements the Bebits reward shop: a fixed catalog,
// an in-flight admission guard and the atomic redemption transaction.
package shop

import (
	"sort"
	"strings"
)

// Reward is one purchasable item in the shop.
type Reward struct {
	ID    string
	Name  string
	Cost  int64
	Emoji string
	// Notification is the announcement template posted after a
	// successful redemption; "{user}" is replaced with a mention.
	Notification string
}

// catalog is the fixed set of rewards. Order here is authoritative for
// nothing; presentation sorts by cost.
var catalog = map[string]Reward{
	"bite": {
		ID: "bite", Name: "A bite from Beboa", Cost: 1, Emoji: "🦷",
		Notification: "🦷 {user} paid for the privilege of being bitten by Beboa! *chomp*",
	},
	"praise": {
		ID: "praise", Name: "Personal praise from Bebe", Cost: 2, Emoji: "💖",
		Notification: "💖 {user} redeemed personal praise from Bebe! Shower them with love~",
	},
	"degrade": {
		ID: "degrade", Name: "Get degraded by Bebe", Cost: 5, Emoji: "😈",
		Notification: "😈 {user} PAID to get degraded by Bebe. What a little freak~",
	},
	"task": {
		ID: "task", Name: "Give Bebe a task on stream", Cost: 25, Emoji: "📝",
		Notification: "📝 {user} redeemed a stream task! Bebe, your orders await~",
	},
	"scam": {
		ID: "scam", Name: "Get scammed", Cost: 50, Emoji: "🎪",
		Notification: "🎪 {user} spent 50 Bebits on... absolutely nothing. Thanks for the donation! 🐍",
	},
	"toy_5": {
		ID: "toy_5", Name: "Control the toy (5 min)", Cost: 100, Emoji: "🎮",
		Notification: "🎮 {user} redeemed 5 minutes of toy control! Bebe, brace yourself~",
	},
	"voice_short": {
		ID: "voice_short", Name: "Short voice message from Bebe", Cost: 120, Emoji: "🎤",
		Notification: "🎤 {user} redeemed a short voice message from Bebe!",
	},
	"fame": {
		ID: "fame", Name: "Shoutout on stream", Cost: 150, Emoji: "📣",
		Notification: "📣 {user} bought their 15 seconds of fame! Shout them out, Bebe~",
	},
	"toy_15": {
		ID: "toy_15", Name: "Control the toy (15 min)", Cost: 200, Emoji: "🕹️",
		Notification: "🕹️ {user} redeemed 15 WHOLE MINUTES of toy control. Pray for Bebe 🙏",
	},
	"voice_long": {
		ID: "voice_long", Name: "Long voice message from Bebe", Cost: 360, Emoji: "📼",
		Notification: "📼 {user} redeemed a long voice message from Bebe!",
	},
	"gf_day": {
		ID: "gf_day", Name: "Bebe is your GF for a day", Cost: 500, Emoji: "💍",
		Notification: "💍 @everyone {user} redeemed BEBE AS THEIR GF FOR A DAY! The ultimate prize has been claimed!",
	},
}

// ByID looks up a reward by its catalog id.
func ByID(id string) (Reward, bool) {
	r, ok := catalog[id]
	return r, ok
}

// SortedByCost returns all rewards ordered from cheapest to priciest.
func SortedByCost() []Reward {
	rewards := make([]Reward, 0, len(catalog))
	for _, r := range catalog {
		rewards = append(rewards, r)
	}
	sort.Slice(rewards, func(i, j int) bool {
		if rewards[i].Cost != rewards[j].Cost {
			return rewards[i].Cost < rewards[j].Cost
		}
		return rewards[i].ID < rewards[j].ID
	})
	return rewards
}

// FormatNotification renders the reward announcement for a user mention.
func (r Reward) FormatNotification(mention string) string {
	return strings.ReplaceAll(r.Notification, "{user}", mention)
}
