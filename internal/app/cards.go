package app

import (
	"fmt"

	"showtime/internal/domain"
)

// Deck holds the card texts dealt during SELECTION
type Deck struct {
	Characters    []string
	Settings      []string
	Circumstances []string
}

// StandardDeck is dealt in every room
var StandardDeck = Deck{
	Characters: []string{
		// Professions
		"a burned-out dentist", "a substitute teacher", "a lighthouse keeper", "a wedding planner",
		"a mall Santa", "a rookie astronaut", "a retired spy", "a celebrity chef",
		"a nervous magician", "a tax auditor", "a pirate captain", "a night-shift nurse",

		// Creatures
		"a ghost with stage fright", "a vampire on a diet", "a talking parrot", "a lonely robot",
		"a dragon in therapy", "a very polite zombie", "an alien tourist", "a time-traveling knight",

		// Everyday people
		"your overly competitive aunt", "a conspiracy theorist", "a toddler with a lawyer",
		"a motivational speaker", "a mime who breaks the rules", "an influencer", "a grumpy landlord",
	},
	Settings: []string{
		// Indoors
		"a laundromat at 3am", "a sinking cruise ship", "a haunted IKEA", "a dentist's waiting room",
		"a broken elevator", "a museum after closing", "a school talent show", "a karaoke bar",

		// Outdoors
		"a desert gas station", "the top of Mount Everest", "a kiddie pool", "a medieval jousting match",
		"a farmer's market", "a moon base", "a traffic jam", "a lighthouse in a storm",

		// Strange places
		"inside a snow globe", "the DMV in the afterlife", "a submarine with no wifi",
		"a reality TV set", "a wizard's garage sale", "a spaceship bathroom",
	},
	Circumstances: []string{
		// Emergencies
		"the power just went out", "someone swallowed the ring", "the floor is slowly flooding",
		"a bear got in", "the cake is on fire", "nobody remembers the password",

		// Social disasters
		"it is their first date", "they are secretly related", "one of them is a robot and does not know it",
		"they must break up in under a minute", "they both think they won the lottery", "a proposal goes wrong",

		// Deadlines
		"the show starts in five minutes", "the rent is due today", "the aliens land at noon",
		"they have to win the talent show", "the boss is coming over for dinner", "it is the last day on Earth",
	},
}

// MatureDeck extends the standard deck in rooms flagged mature
var MatureDeck = Deck{
	Characters: []string{
		"a hungover best man", "a disgraced televangelist", "a divorce lawyer on vacation",
		"a bartender who has heard everything", "a bachelorette who lost the bride",
	},
	Settings: []string{
		"a Las Vegas chapel", "a walk of shame at sunrise", "a tattoo parlor at closing time",
		"a speakeasy during a raid",
	},
	Circumstances: []string{
		"someone woke up with a new tattoo", "the open bar just closed", "the vows were written drunk",
		"everyone is lying about last night",
	},
}

// LoadingQuips are shown while the writer works. %s is the chosen setting.
var LoadingQuips = []string{
	"The writers are pacing around %s...",
	"Hiring extras for %s...",
	"Building a cardboard set of %s...",
	"Arguing about the lighting in %s...",
	"The lead actor refuses to film in %s...",
	"Rewriting the ending in %s for the third time...",
	"Scouting locations near %s...",
}

// Deal draws a private hand of handSize cards per category. Mature rooms
// draw from both decks.
func Deal(rng domain.Random, isMature bool, handSize int) *domain.CardOptionsPayload {
	characters := StandardDeck.Characters
	settings := StandardDeck.Settings
	circumstances := StandardDeck.Circumstances
	if isMature {
		characters = concat(characters, MatureDeck.Characters)
		settings = concat(settings, MatureDeck.Settings)
		circumstances = concat(circumstances, MatureDeck.Circumstances)
	}

	return &domain.CardOptionsPayload{
		Characters:    draw(rng, characters, handSize),
		Settings:      draw(rng, settings, handSize),
		Circumstances: draw(rng, circumstances, handSize),
	}
}

// LoadingPrompt picks a quip for the LOADING screen
func LoadingPrompt(rng domain.Random, setting string) string {
	return fmt.Sprintf(LoadingQuips[rng.Intn(len(LoadingQuips))], setting)
}

// draw returns n distinct cards using a partial Fisher-Yates shuffle
func draw(rng domain.Random, pool []string, n int) []string {
	if n > len(pool) {
		n = len(pool)
	}
	if n <= 0 {
		return []string{}
	}

	cards := make([]string, len(pool))
	copy(cards, pool)
	for i := 0; i < n; i++ {
		j := i + rng.Intn(len(cards)-i)
		cards[i], cards[j] = cards[j], cards[i]
	}
	return cards[:n]
}

func concat(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}
