// Package game implements the Liar's Deck environment: a turn-based
// bluffing card game exposed through a reset/step interface for learning
// or scripted agents.
//
// # Basic Usage
//
//	env, err := game.New(game.DefaultConfig(), game.WithSeed(42))
//	if err != nil {
//	    return err
//	}
//	obs := env.Reset(nil)
//	for {
//	    res, err := env.Step(chooseAction(obs))
//	    if err != nil {
//	        return err
//	    }
//	    if res.Done {
//	        break
//	    }
//	    obs = res.Observation
//	}
//
// # Turn Structure
//
// Each Step is one atomic turn:
//   - the action decodes into a Declaration (rank, quantity)
//   - the declarer plays cards: claimed rank first, then Jokers, then
//     random other cards (a bluff)
//   - the next player's ChallengePolicy decides whether to dispute
//   - a challenge puts the at-fault player in front of the Revolver
//   - a player whose hand empties wins outright
//
// # Deterministic Testing
//
// Every random draw (shuffle, bluff card, challenge, chamber) comes from a
// stream seeded at Reset. Passing the same seed replays the same episode:
//
//	seed := int64(7)
//	env.Reset(&seed)
//
// An Environment is not safe for concurrent use. Run one per goroutine.
package game
