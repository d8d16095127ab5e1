package engine

import "fmt"

// Request is one player asking another whether they hold a card of a suit.
type Request struct {
	Asking Player
	Asked  Player
	Suit   Suit
}

func (r Request) String() string {
	return fmt.Sprintf("player %d asks player %d for suit %d", r.Asking, r.Asked, r.Suit)
}

// Response is the answer to a Request.
type Response struct {
	Request
	Accept bool
}

func (r Response) String() string {
	answer := "no"
	if r.Accept {
		answer = "yes"
	}
	return fmt.Sprintf("%s: %s", r.Request, answer)
}

// ProcessRequest checks req against s and returns the intermediate snapshot
// to pass to ProcessResponse.
//
// When the asker is already known to hold a card of the suit, s itself is
// returned unchanged. Otherwise the asker is credited with one card of the
// suit under TagRequested and the result is propagated. s is never modified.
func ProcessRequest(s *Snapshot, req Request) (*Snapshot, error) {
	asking, suit := req.Asking, req.Suit
	s.checkPlayer(req.Asked)

	if s.Excluded(asking, suit) {
		return nil, ruleErrorf(ErrCodeExcludedSuit, asking, suit,
			"player %d cannot hold suit %d due to previous responses", asking, suit)
	}
	if s.TallyKnown(asking, suit) > 0 {
		return s, nil
	}
	if s.unrevealed[suit] == 0 {
		return nil, ruleErrorf(ErrCodeSuitExhausted, asking, suit,
			"player %d cannot hold suit %d because every card of it is revealed", asking, suit)
	}
	if s.unknown[asking] == 0 {
		return nil, ruleErrorf(ErrCodeNoUnknownCards, asking, suit,
			"player %d cannot hold suit %d because all their cards are revealed", asking, suit)
	}

	next := s.Clone()
	next.revealCard(asking, suit, TagRequested, 1)
	if p := next.validate(); p != nil {
		return nil, p.ruleError(req)
	}
	return next, nil
}

// ProcessResponse applies the answer to req and returns the next committed
// snapshot.
//
// s is normally the intermediate returned by ProcessRequest for the same req.
// On error the caller keeps its previously committed snapshot.
func ProcessResponse(s *Snapshot, req Request, accept bool) (*Snapshot, error) {
	asking, asked, suit := req.Asking, req.Asked, req.Suit
	s.checkPlayer(asking)
	next := s.Clone()

	switch {
	case s.TallyKnown(asked, suit) > 0:
		if !accept {
			return nil, ruleErrorf(ErrCodeContradictsKnown, asked, suit,
				"player %d does hold suit %d", asked, suit)
		}
		next.giveCard(asking, asked, suit)

	case accept:
		if next.unknown[asked] == 0 {
			return nil, ruleErrorf(ErrCodeNoUnknownCards, asked, suit,
				"player %d cannot reveal a new card of suit %d: no unknown cards left", asked, suit)
		}
		if next.Excluded(asked, suit) {
			return nil, ruleErrorf(ErrCodeExcludedSuit, asked, suit,
				"player %d cannot reveal a new card of suit %d due to previous responses", asked, suit)
		}
		if next.unrevealed[suit] == 0 {
			return nil, ruleErrorf(ErrCodeSuitExhausted, asked, suit,
				"player %d cannot reveal a new card of suit %d because every card of it is revealed", asked, suit)
		}
		next.unknown[asked]--
		// Credit before the unrevealed update so auto-exclusion sees the asker's card.
		next.known[next.pairIndex(asking, suit)*TagCount+int(TagHandOff)]++
		next.updateUnrevealed(suit, 1)

	default:
		next.exclude[next.pairIndex(asked, suit)] = true
	}

	next.turn++
	if p := next.validate(); p != nil {
		return nil, p.ruleError(req)
	}
	return next, nil
}

// giveCard moves one settled card of suit from asked to asking.
func (s *Snapshot) giveCard(asking, asked Player, suit Suit) {
	base := s.pairIndex(asked, suit) * TagCount
	found := false
	for t := 0; t < TagCount; t++ {
		if s.known[base+t] > 0 {
			s.known[base+t]--
			found = true
			break
		}
	}
	invariant(found, "player %d holds no settled card of suit %d", asked, suit)
	s.known[s.pairIndex(asking, suit)*TagCount+int(TagHandOff)]++

	// Once a suit is fully attributed, a holder who hands off their last card
	// of it is certified empty.
	if s.unrevealed[suit] == 0 && s.TallyKnown(asked, suit) == 0 {
		s.exclude[s.pairIndex(asked, suit)] = true
	}
}
