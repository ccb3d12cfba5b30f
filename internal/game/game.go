// Package game holds the per-client guessing state: a secret number
// and the number of guesses evaluated against it.
package game

import "math/rand/v2"

// MaxSecret is the inclusive upper bound of the secret.  Secrets are
// drawn uniformly from [0, MaxSecret].
const MaxSecret = 100

// Ordering is the outcome of comparing a guess with the secret.
type Ordering int

const (
	// Lower means the guess was below the secret; the client should
	// guess higher.
	Lower Ordering = iota - 1
	// Equal means the guess matched.
	Equal
	// Higher means the guess was above the secret; the client should
	// guess lower.
	Higher
)

func (o Ordering) String() string {
	switch o {
	case Lower:
		return "lower"
	case Higher:
		return "higher"
	default:
		return "equal"
	}
}

// Hint is the word shown to the player for a wrong guess.
func (o Ordering) Hint() string {
	switch o {
	case Lower:
		return "higher"
	case Higher:
		return "lower"
	default:
		return ""
	}
}

// Game is one round of guessing.  It is not safe for concurrent use;
// the session store serialises access.
type Game struct {
	secret  int
	guesses int
}

// New returns a game with a freshly drawn secret.
func New() *Game {
	return &Game{secret: rand.IntN(MaxSecret + 1)}
}

// NewWithSecret returns a game with a fixed secret.  Intended for
// tests and for replaying a known round.
func NewWithSecret(secret int) *Game {
	return &Game{secret: secret}
}

// Evaluate counts the guess and compares it with the secret.  It
// returns the ordering and the guess count after the increment.
func (g *Game) Evaluate(guess int) (Ordering, int) {
	g.guesses++

	switch {
	case guess < g.secret:
		return Lower, g.guesses
	case guess > g.secret:
		return Higher, g.guesses
	default:
		return Equal, g.guesses
	}
}

// Guesses returns the number of evaluated guesses.
func (g *Game) Guesses() int { return g.guesses }

// Secret returns the number to be guessed.
func (g *Game) Secret() int { return g.secret }
