package outcome

import (
	"math/rand"
	"strings"

	"sala-quiz-service/internal/domain"
)

// Catalog is the fixed set of prize descriptors eligible on a perfect score.
// Supply is unlimited; selection is uniform with no anti-repetition.
var Catalog = []domain.Reward{
	{
		Key:      "museo",
		Title:    "MUCH · Museo",
		Label:    "Entrada al Museo MUCH",
		Location: "Museo Chiapas (MUCH)",
		Icon:     "🏛️",
	},
	{
		Key:      "planetario",
		Title:    "MUCH · Planetario",
		Label:    "Entrada al Planetario MUCH",
		Location: "Planetario MUCH",
		Icon:     "🔭",
	},
}

const claimAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// newClaimCode builds a short, human-typable claim code like "MUCH-3F9K2A":
// six random base-36 characters, upper-cased. Collision-tolerant enough for
// a single kiosk session; the registration backend deduplicates on redeem.
func newClaimCode(prefix string, rnd *rand.Rand) string {
	code := make([]byte, 6)
	for i := range code {
		code[i] = claimAlphabet[rnd.Intn(len(claimAlphabet))]
	}
	return prefix + "-" + strings.ToUpper(string(code))
}
