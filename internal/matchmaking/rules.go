// Package matchmaking implements C6: the ticket queue, rule evaluation
// against live games, and match/timeout notification.
package matchmaking

import "github.com/galaxyhost/server/internal/game"

// ruleKeyAttr maps a wire rule key (spec.md §6 table) to the game
// attribute it constrains.
var ruleKeyAttr = map[string]string{
	"ME3_gameEnemyTypeRule":   "ME3gameEnemyType",
	"ME3_gameDifficultyRule":  "ME3gameDifficulty",
	"ME3_gameMapMatchRule":    "ME3map",
}

const abstainValue = "abstain"

// BuildRule translates a (rule key, requested values) pair from a
// StartMatchmaking request into a game.Rule. "abstain" means the rule is
// ignored entirely, per spec.md §6.
func BuildRule(ruleKey string, values []string) (game.Rule, bool) {
	attr, ok := ruleKeyAttr[ruleKey]
	if !ok {
		return game.Rule{}, false
	}
	for _, v := range values {
		if v == abstainValue {
			return game.Rule{Attr: attr, Ignored: true}, true
		}
	}
	allowed := make(map[string]struct{}, len(values))
	for _, v := range values {
		allowed[v] = struct{}{}
	}
	return game.Rule{Attr: attr, Allowed: allowed}, true
}
