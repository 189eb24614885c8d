package domain

import (
	"sort"
	"strings"
)

// VoteResult is the derived count for one vote target
type VoteResult struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Votes      int    `json:"votes"`
}

// VoteTally is the outcome of a voting round.
// Winner is nil when nobody voted.
type VoteTally struct {
	Winner  *VoteResult  `json:"winner,omitempty"`
	Results []VoteResult `json:"results"`
}

// Total returns the number of votes counted
func (t *VoteTally) Total() int {
	total := 0
	for _, r := range t.Results {
		total += r.Votes
	}
	return total
}

// TallyVotes counts votes (voter id -> target id) against the players still
// present. Results are ordered by vote count, then nickname. A tie at the
// top is broken with rng, never by arrival order.
func TallyVotes(votes map[string]string, players map[string]*Player, rng Random) *VoteTally {
	counts := make(map[string]int)
	for _, targetID := range votes {
		if _, ok := players[targetID]; !ok {
			continue
		}
		counts[targetID]++
	}

	results := make([]VoteResult, 0, len(counts))
	for targetID, n := range counts {
		results = append(results, VoteResult{
			PlayerID:   targetID,
			PlayerName: players[targetID].Nickname,
			Votes:      n,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Votes != results[j].Votes {
			return results[i].Votes > results[j].Votes
		}
		ni, nj := strings.ToLower(results[i].PlayerName), strings.ToLower(results[j].PlayerName)
		if ni != nj {
			return ni < nj
		}
		return results[i].PlayerID < results[j].PlayerID
	})

	tally := &VoteTally{Results: results}
	if len(results) == 0 {
		return tally
	}

	tied := 1
	for tied < len(results) && results[tied].Votes == results[0].Votes {
		tied++
	}
	pick := 0
	if tied > 1 {
		pick = rng.Intn(tied)
	}
	winner := results[pick]
	tally.Winner = &winner

	return tally
}
