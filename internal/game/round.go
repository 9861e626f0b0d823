package game

// resetRoundState clears all per-round fields ahead of a new deal,
// preserving cumulative team scores (§4.6 "New round").
func resetRoundState(g *Game) {
	g.CurrentBid = nil
	g.TrumpSuit = ""
	g.CurrentTrick = nil
	g.LastTrick = nil
	g.RoundTricks = nil
	g.KittyDiscards = nil
	g.Kitty = nil
	g.KittyPhaseCompleted = false
	g.ContractorTeam = NoTeam
	g.OpposingTeamHighBid = 0
	g.RoundScores = map[Team]int{Team1: 0, Team2: 0}
	g.BiddingPasses = 0
	g.Passed = map[SeatPosition]bool{}
}

// finalizeRound applies the round's scoring to cumulative team scores,
// checks for game end, and either starts the next round or finishes
// the game (§4.6).
func finalizeRound(g *Game) []Event {
	contractor := g.ContractorTeam
	opponent := Opponent(contractor)
	bid := g.CurrentBid

	cpts := g.RoundScores[contractor]
	opts := g.RoundScores[opponent]

	contractorDelta := 0
	if bid != nil {
		if cpts >= bid.Points {
			contractorDelta = cpts
		} else {
			contractorDelta = -bid.Points
		}
	}

	opponentDelta := 0
	blocked := g.EnforceOpposingTeamBidRule && g.TeamScores[opponent] >= 100 && g.OpposingTeamHighBid == 0
	if !blocked {
		opponentDelta = opts
	}

	kittyCredit := 0
	if g.KittyEnabled && len(g.KittyDiscards) > 0 {
		for _, c := range g.KittyDiscards {
			kittyCredit += c.Value()
		}
		// Kitty-discard credit to the defending team is applied
		// unconditionally, independent of the opposing-team-bid-rule
		// block above (§9 open question, resolved: kitty credit is not
		// gated by that rule since it is not "card points won in
		// play" but a fixed discard handoff).
		opponentDelta += kittyCredit
	}

	g.TeamScores[contractor] += contractorDelta
	g.TeamScores[opponent] += opponentDelta

	events := []Event{newEvent(g, EventRoundComplete, RoundCompletePayload{
		ContractorTeam:  contractor,
		ContractorDelta: contractorDelta,
		OpponentDelta:   opponentDelta,
		KittyCredit:     kittyCredit,
		ContractMade:    bid != nil && cpts >= bid.Points,
	})}

	round := &Round{
		Index:          g.RoundIndex,
		ContractorTeam: contractor,
		TrumpSuit:      g.TrumpSuit,
		WinningBid:     bid,
		Tricks:         g.RoundTricks,
		TeamScores:     map[Team]int{Team1: g.RoundScores[Team1], Team2: g.RoundScores[Team2]},
	}
	g.Rounds = append(g.Rounds, round)

	if winner, over := gameOver(g); over {
		g.Phase = PhaseFinished
		events = append(events, newEvent(g, EventGameComplete, GameCompletePayload{
			WinningTeam: winner,
			TeamScores:  map[Team]int{Team1: g.TeamScores[Team1], Team2: g.TeamScores[Team2]},
			Reason:      "score_target",
		}))
		return events
	}

	events = append(events, startNewRound(g)...)
	return events
}

// gameOver reports whether either team's cumulative score has reached
// the score target, and if so which team wins. A team falling to
// -scoreTarget causes the other team to win (§4.6, §3 invariant).
func gameOver(g *Game) (Team, bool) {
	for _, t := range []Team{Team1, Team2} {
		if g.TeamScores[t] >= g.ScoreTarget {
			return t, true
		}
		if g.TeamScores[t] <= -g.ScoreTarget {
			return Opponent(t), true
		}
	}
	return NoTeam, false
}

// startNewRound increments the round index, rotates the dealer, deals
// a fresh deck, and returns to bidding (§4.6 "New round").
func startNewRound(g *Game) []Event {
	g.RoundIndex++
	dealer := g.DealerSeat.NextClockwise()
	resetRoundState(g)
	g.DealerSeat = dealer
	for _, p := range g.Seats {
		p.Hand = nil
	}
	Deal(g)
	g.Phase = PhaseBidding
	g.SetCurrentSeat(dealer.NextClockwise())
	return []Event{newEvent(g, EventRoundStart, RoundStartPayload{RoundIndex: g.RoundIndex, DealerSeat: g.DealerSeat})}
}
