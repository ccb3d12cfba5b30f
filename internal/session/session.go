// Package session keeps the game state of every client, keyed by the
// integer id announced in the clientId cookie.
//
// Ids are issued sequentially (highest known id + 1) and sessions live
// for the lifetime of the process.  The store is guarded by a mutex so
// it may be shared between connections served concurrently.
package session

import (
	"math"
	"sync"

	"guessgame/internal/game"
)

// MaxID is the largest id the store issues.  Cookie values are parsed
// as 32-bit integers, so no client can hold a larger one.
const MaxID = math.MaxInt32

// Factory creates the game for a new or reset session.
type Factory func() *game.Game

// Store maps session ids to games.
type Store struct {
	mu      sync.Mutex
	games   map[int]*game.Game
	maxID   int
	newGame Factory
}

// NewStore returns an empty store.  A nil factory draws secrets with
// [game.New].
func NewStore(newGame Factory) *Store {
	if newGame == nil {
		newGame = game.New
	}
	return &Store{
		games:   make(map[int]*game.Game),
		newGame: newGame,
	}
}

// Create issues the next id and starts a game for it.  The first id
// of an empty store is 1.  Once [MaxID] is taken the lowest free id is
// issued instead.
func (s *Store) Create() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.maxID + 1
	if s.maxID >= MaxID {
		id = s.lowestFree()
	}
	s.put(id, s.newGame())
	return id
}

// Ensure starts a game for id unless one already exists.  It reports
// whether a game was created.
func (s *Store) Ensure(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.games[id]; ok {
		return false
	}
	s.put(id, s.newGame())
	return true
}

// Reset replaces the game of id with a fresh one.
func (s *Store) Reset(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(id, s.newGame())
}

// Evaluate applies a guess to the game of id, creating the game first
// if the id is unknown.
func (s *Store) Evaluate(id, guess int) (game.Ordering, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(id).Evaluate(guess)
}

// Guesses returns the guess count of id, creating the game first if
// the id is unknown.
func (s *Store) Guesses(id int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(id).Guesses()
}

// Len returns the number of sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.games)
}

func (s *Store) get(id int) *game.Game {
	g, ok := s.games[id]
	if !ok {
		g = s.newGame()
		s.put(id, g)
	}
	return g
}

func (s *Store) lowestFree() int {
	id := 1
	for {
		if _, ok := s.games[id]; !ok {
			return id
		}
		id++
	}
}

func (s *Store) put(id int, g *game.Game) {
	s.games[id] = g
	if id > s.maxID {
		s.maxID = id
	}
}
