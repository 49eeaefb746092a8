package game

import "strings"

// StartGame moves a lobby into its first submitting phase. Host-only; the
// room needs at least one player.
func (reg *Registry) StartGame(code, connID string) (*RoundStart, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	r, ok := reg.store.Get(normalize(code))
	if !ok {
		return nil, ErrRoomNotFound
	}
	if connID != r.HostConnID {
		return nil, ErrNotHost
	}
	if r.Phase != PhaseLobby {
		return nil, ErrWrongPhase
	}
	if len(r.Players) == 0 {
		return nil, ErrNoPlayers
	}
	return reg.startRound(r), nil
}

// NextRound starts another round from the results screen. Host-only.
func (reg *Registry) NextRound(code, connID string) (*RoundStart, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	r, ok := reg.store.Get(normalize(code))
	if !ok {
		return nil, ErrRoomNotFound
	}
	if connID != r.HostConnID {
		return nil, ErrNotHost
	}
	if r.Phase != PhaseResults {
		return nil, ErrWrongPhase
	}
	return reg.startRound(r), nil
}

func (reg *Registry) startRound(r *Room) *RoundStart {
	r.Phase = PhaseSubmitting
	r.CurrentRound++
	r.Submissions = nil
	r.Votes = make(map[string]string)
	r.CurrentImage = reg.picker.RoundImage(r.Code, r.CurrentRound)
	return &RoundStart{
		GameState:    PhaseSubmitting,
		CurrentImage: r.CurrentImage,
		Round:        r.CurrentRound,
	}
}

// SubmitCaption records one caption per player per round. Once every player
// has submitted, the room flips to voting and the non-nil VotingStart carries
// the captions to put up for a vote.
func (reg *Registry) SubmitCaption(code, connID, caption string) (*SubmissionProgress, *VotingStart, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	r, ok := reg.store.Get(normalize(code))
	if !ok {
		return nil, nil, ErrRoomNotFound
	}
	if r.Phase != PhaseSubmitting {
		return nil, nil, ErrWrongPhase
	}
	p := r.playerByConn(connID)
	if p == nil {
		return nil, nil, ErrUnknownPlayer
	}
	for _, s := range r.Submissions {
		if s.PlayerID == connID {
			return nil, nil, ErrAlreadySubmitted
		}
	}
	r.Submissions = append(r.Submissions, Submission{
		PlayerID:   connID,
		PlayerName: p.Name,
		Caption:    strings.TrimSpace(caption),
	})

	progress := &SubmissionProgress{
		PlayerName:       p.Name,
		TotalSubmissions: len(r.Submissions),
		TotalPlayers:     len(r.Players),
	}

	if len(r.Submissions) < len(r.Players) {
		return progress, nil, nil
	}

	r.Phase = PhaseVoting
	r.Votes = make(map[string]string)
	entries := make([]VotingEntry, 0, len(r.Submissions))
	for _, s := range r.Submissions {
		entries = append(entries, VotingEntry{Caption: s.Caption, PlayerID: s.PlayerID})
	}
	return progress, &VotingStart{GameState: PhaseVoting, Submissions: entries}, nil
}

// VoteCaption records a vote. Re-voting replaces the voter's previous choice.
// When every player has voted the round is tallied and the non-nil
// RoundResults carries the reveal payload.
func (reg *Registry) VoteCaption(code, connID, votedForID string) (*VoteProgress, *RoundResults, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	r, ok := reg.store.Get(normalize(code))
	if !ok {
		return nil, nil, ErrRoomNotFound
	}
	if r.Phase != PhaseVoting {
		return nil, nil, ErrWrongPhase
	}
	if r.playerByConn(connID) == nil {
		return nil, nil, ErrUnknownPlayer
	}
	if votedForID == connID {
		return nil, nil, ErrSelfVote
	}
	r.Votes[connID] = votedForID

	progress := &VoteProgress{
		VotesReceived: len(r.Votes),
		TotalPlayers:  len(r.Players),
	}

	if len(r.Votes) < len(r.Players) {
		return progress, nil, nil
	}
	return progress, reg.tally(r), nil
}

// tally counts votes, applies them to cumulative scores, and picks the round
// winner. Ties break toward the earliest-submitted caption, which makes the
// outcome deterministic regardless of vote arrival order.
func (reg *Registry) tally(r *Room) *RoundResults {
	counts := make(map[string]int)
	for _, votedFor := range r.Votes {
		counts[votedFor]++
	}

	for playerID, n := range counts {
		r.Scores[playerID] += n
		if p := r.playerByConn(playerID); p != nil {
			p.Score = r.Scores[playerID]
		}
	}

	var winner *Player
	var winningCaption string
	best := 0
	voteCounts := make([]VoteCount, 0, len(r.Submissions))
	for _, s := range r.Submissions {
		n := counts[s.PlayerID]
		if n > 0 {
			voteCounts = append(voteCounts, VoteCount{
				PlayerName: s.PlayerName,
				Caption:    s.Caption,
				Votes:      n,
			})
		}
		if n > best {
			best = n
			winner = r.playerByConn(s.PlayerID)
			winningCaption = s.Caption
		}
	}

	allScores := make([]ScoreEntry, 0, len(r.Players))
	for _, p := range r.Players {
		allScores = append(allScores, ScoreEntry{Name: p.Name, Score: p.Score})
	}

	r.Phase = PhaseResults

	var winnerCopy *Player
	if winner != nil {
		w := *winner
		winnerCopy = &w
	}
	return &RoundResults{
		Round:          r.CurrentRound,
		GameState:      PhaseResults,
		Winner:         winnerCopy,
		WinningCaption: winningCaption,
		AllScores:      allScores,
		VoteCounts:     voteCounts,
	}
}
