package catalog

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/verte-zerg/zigen/internal/model"
)

// KeyboardSequence is the row-major key order used by model.OrderKeyboard.
const KeyboardSequence = "asdfghjklqwertyuiopzxcvbnm"

// Shuffler permutes n elements; *rand.Rand and generator.Generator satisfy it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

type strategy struct {
	// arrange reorders the catalog once, before scheduling starts.
	arrange func(radicals []model.Radical, rnd Shuffler)
	// candidates yields the base candidate order for one selection.
	candidates func(radicals []model.Radical, rnd Shuffler) []int
}

var strategies = map[model.Order]strategy{
	model.OrderAlphabetical: {
		arrange: func(radicals []model.Radical, _ Shuffler) {
			sort.SliceStable(radicals, func(i, j int) bool {
				return radicals[i].Code < radicals[j].Code
			})
		},
		candidates: identity,
	},
	model.OrderFrequency: {
		arrange: func(radicals []model.Radical, _ Shuffler) {
			sort.SliceStable(radicals, func(i, j int) bool {
				return radicals[i].Frequency > radicals[j].Frequency
			})
		},
		candidates: ByFrequency,
	},
	model.OrderKeyboard: {
		arrange: func(radicals []model.Radical, _ Shuffler) {
			sort.SliceStable(radicals, func(i, j int) bool {
				return keyboardLess(radicals[i].Code, radicals[j].Code)
			})
		},
		candidates: identity,
	},
	model.OrderRandom: {
		arrange: func(radicals []model.Radical, rnd Shuffler) {
			rnd.Shuffle(len(radicals), func(i, j int) {
				radicals[i], radicals[j] = radicals[j], radicals[i]
			})
		},
		candidates: func(radicals []model.Radical, rnd Shuffler) []int {
			idx := identity(radicals, nil)
			rnd.Shuffle(len(idx), func(i, j int) {
				idx[i], idx[j] = idx[j], idx[i]
			})
			return idx
		},
	},
}

func strategyFor(order model.Order) strategy {
	if s, ok := strategies[order]; ok {
		return s
	}
	return strategies[model.OrderRandom]
}

// Arrange reorders radicals in place according to order.
func Arrange(radicals []model.Radical, order model.Order, rnd Shuffler) {
	strategyFor(order).arrange(radicals, rnd)
}

// Candidates returns catalog positions in the order a scheduler should
// consider them for the next selection. Random order reshuffles every call.
func Candidates(radicals []model.Radical, order model.Order, rnd Shuffler) []int {
	return strategyFor(order).candidates(radicals, rnd)
}

// ByFrequency returns catalog positions sorted by descending frequency,
// ties kept in catalog order.
func ByFrequency(radicals []model.Radical, _ Shuffler) []int {
	idx := identity(radicals, nil)
	sort.SliceStable(idx, func(i, j int) bool {
		return radicals[idx[i]].Frequency > radicals[idx[j]].Frequency
	})
	return idx
}

func identity(radicals []model.Radical, _ Shuffler) []int {
	idx := make([]int, len(radicals))
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// KeyboardRank is the position of the code's lowercased first character in
// KeyboardSequence, or len(KeyboardSequence) when it is not a letter key.
func KeyboardRank(code string) int {
	r, _ := utf8.DecodeRuneInString(code)
	if r == utf8.RuneError {
		return len(KeyboardSequence)
	}
	pos := strings.IndexRune(KeyboardSequence, unicode.ToLower(r))
	if pos < 0 {
		return len(KeyboardSequence)
	}
	return pos
}

func keyboardLess(a, b string) bool {
	ra, rb := KeyboardRank(a), KeyboardRank(b)
	if ra != rb {
		return ra < rb
	}
	return a < b
}
