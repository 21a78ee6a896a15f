package game

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"time"

	"wargames/utils"
)

type Phase int

const (
	ReinforcePhase Phase = iota
	AttackPhase
	FortifyPhase
	GameOverPhase
)

var phaseNames = []string{"reinforce", "attack", "fortify", "gameOver"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("Phase(%d)", int(p))
	}
	return phaseNames[p]
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	for i, name := range phaseNames {
		if name == string(text) {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", text)
}

// AttackResult is the outcome of one standard or special attack.
type AttackResult struct {
	From       int
	To         int
	AttackDice []int // Sorted descending; a special attack keeps only the first rolls
	DefendDice []int
	AttackLoss int
	DefendLoss int
	Conquered  bool  // Whether To changed hands
	Special    bool
	Captured   []int // Every territory taken by this attack
}

func (r *AttackResult) copy() *AttackResult {
	if r == nil {
		return nil
	}
	c := *r
	c.AttackDice = append([]int(nil), r.AttackDice...)
	c.DefendDice = append([]int(nil), r.DefendDice...)
	c.Captured = append([]int(nil), r.Captured...)
	return &c
}

// GameState represents the dynamic state of the game. Everything except the map and the rules changes during play.
type GameState struct {
	Map                   *Map            // Reference to the static game map
	Rules                 Rules           // The set of game rules to apply
	TroopCounts           []int           // Troop counts per territory, indexed by territory ID
	Ownership             []Faction       // Owner per territory, indexed by territory ID
	CurrentPlayer         Faction         // The faction whose turn it is
	ActivePlayers         []Faction       // Factions still holding territory, in turn order
	Phase                 Phase           // The current phase of the turn
	Reinforcements        int             // Troops left to place this turn
	TurnNumber            int             // Completed rotations plus one
	SpecialAttacks        map[Faction]int // Special attack entitlements
	LastSpecialAttackTurn map[Faction]int // Turn of the last special attack, 0 if never
	Human                 Faction         // Human controlled faction, None for all-AI games
	Winner                Faction         // None until the game is decided
	LastAttack            *AttackResult   // Overwritten by each attack

	rng Randomizer
}

type options struct {
	human     Faction
	rng       Randomizer
	troopsMin int
	troopsMax int
}

type Option func(*options)

// WithHuman marks a faction as human controlled.
func WithHuman(f Faction) Option {
	return func(o *options) {
		o.human = f
	}
}

// WithRandomizer sets the source for dice and initial troop counts.
func WithRandomizer(r Randomizer) Option {
	return func(o *options) {
		o.rng = r
	}
}

// WithInitialTroops sets the inclusive band of starting troops per territory.
func WithInitialTroops(min, max int) Option {
	return func(o *options) {
		o.troopsMin = min
		o.troopsMax = max
	}
}

// NewGameState deals the board by alignment and opens NATO's first reinforcement phase.
func NewGameState(m *Map, rules Rules, opts ...Option) *GameState {
	o := options{
		human:     None,
		troopsMin: 3,
		troopsMax: 5,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = NewRandomizer(uint64(time.Now().UnixNano()))
	}
	if o.troopsMax < o.troopsMin {
		o.troopsMax = o.troopsMin
	}

	numTerritories := len(m.Territories)
	gs := &GameState{
		Map:                   m,
		Rules:                 rules,
		TroopCounts:           make([]int, numTerritories),
		Ownership:             make([]Faction, numTerritories),
		Phase:                 ReinforcePhase,
		TurnNumber:            1,
		SpecialAttacks:        make(map[Faction]int),
		LastSpecialAttackTurn: make(map[Faction]int),
		Human:                 o.human,
		Winner:                None,
		rng:                   o.rng,
	}
	for _, t := range m.Territories {
		gs.Ownership[t.ID] = t.Alignment
		gs.TroopCounts[t.ID] = o.troopsMin + o.rng.Intn(o.troopsMax-o.troopsMin+1)
	}
	for _, f := range Factions {
		gs.SpecialAttacks[f] = INITIAL_SPECIAL_ATTACKS
		gs.LastSpecialAttackTurn[f] = 0
	}
	gs.ActivePlayers = utils.Filter(Factions, func(f Faction) bool { return gs.TerritoriesOwned(f) > 0 })
	if len(gs.ActivePlayers) > 0 {
		gs.CurrentPlayer = gs.ActivePlayers[0]
	}
	gs.Reinforcements = gs.ComputeReinforcement(gs.CurrentPlayer)
	gs.settleOwnership()
	return gs
}

func (gs GameState) Copy() *GameState {
	troopCountsCopy := make([]int, len(gs.TroopCounts))
	copy(troopCountsCopy, gs.TroopCounts)

	ownershipCopy := make([]Faction, len(gs.Ownership))
	copy(ownershipCopy, gs.Ownership)

	activeCopy := make([]Faction, len(gs.ActivePlayers))
	copy(activeCopy, gs.ActivePlayers)

	specialCopy := make(map[Faction]int, len(gs.SpecialAttacks))
	for f, n := range gs.SpecialAttacks {
		specialCopy[f] = n
	}
	lastSpecialCopy := make(map[Faction]int, len(gs.LastSpecialAttackTurn))
	for f, n := range gs.LastSpecialAttackTurn {
		lastSpecialCopy[f] = n
	}

	return &GameState{
		Map:                   gs.Map,   // Map is immutable
		Rules:                 gs.Rules, // Rules are immutable
		TroopCounts:           troopCountsCopy,
		Ownership:             ownershipCopy,
		CurrentPlayer:         gs.CurrentPlayer,
		ActivePlayers:         activeCopy,
		Phase:                 gs.Phase,
		Reinforcements:        gs.Reinforcements,
		TurnNumber:            gs.TurnNumber,
		SpecialAttacks:        specialCopy,
		LastSpecialAttackTurn: lastSpecialCopy,
		Human:                 gs.Human,
		Winner:                gs.Winner,
		LastAttack:            gs.LastAttack.copy(),
		rng:                   gs.rng,
	}
}

// SetRandomizer replaces the dice source, e.g. on a copy used for simulation.
func (gs *GameState) SetRandomizer(r Randomizer) {
	gs.rng = r
}

func (gs GameState) Hash() StateHash {
	hasher := fnv.New64a()
	write := func(v int) {
		binary.Write(hasher, binary.LittleEndian, int64(v))
	}

	write(int(gs.CurrentPlayer))
	write(int(gs.Phase))
	write(gs.Reinforcements)
	write(gs.TurnNumber)
	write(int(gs.Winner))
	for _, count := range gs.TroopCounts {
		write(count)
	}
	for _, owner := range gs.Ownership {
		write(int(owner))
	}
	for _, f := range gs.ActivePlayers {
		write(int(f))
	}
	// Fixed order, map iteration is random
	for _, f := range Factions {
		write(gs.SpecialAttacks[f])
		write(gs.LastSpecialAttackTurn[f])
	}
	if gs.LastAttack != nil {
		write(gs.LastAttack.From)
		write(gs.LastAttack.To)
		write(gs.LastAttack.AttackLoss)
		write(gs.LastAttack.DefendLoss)
	}

	return StateHash(hasher.Sum64())
}

// IsHuman reports whether f is driven by external input rather than the AI.
func (gs *GameState) IsHuman(f Faction) bool {
	return f != None && f == gs.Human
}

func (gs *GameState) IsOver() bool {
	return gs.Phase == GameOverPhase
}

// Halt ends the game without a winner, e.g. when a turn limit runs out.
func (gs *GameState) Halt() {
	if gs.Phase == GameOverPhase {
		return
	}
	gs.Phase = GameOverPhase
	gs.Winner = None
	gs.Reinforcements = 0
}

// IsBorder reports whether a territory touches at least one territory of another faction.
func (gs *GameState) IsBorder(id int) bool {
	for _, adjID := range gs.Map.Territories[id].AdjacentIDs {
		if gs.Ownership[adjID] != gs.Ownership[id] {
			return true
		}
	}
	return false
}

func (gs *GameState) checkPhase(p Phase) error {
	if gs.Phase == GameOverPhase {
		return ErrGameOver
	}
	if gs.Phase != p {
		return fmt.Errorf("%w: %s", ErrWrongPhase, gs.Phase)
	}
	return nil
}

// PlaceReinforcement puts one troop on a territory of the current player.
func (gs *GameState) PlaceReinforcement(id int) error {
	if err := gs.checkPhase(ReinforcePhase); err != nil {
		return err
	}
	if !gs.Map.Valid(id) {
		return ErrUnknownTerritory
	}
	if gs.Reinforcements <= 0 {
		return ErrNoReinforcements
	}
	if gs.Ownership[id] != gs.CurrentPlayer {
		return ErrNotOwner
	}

	gs.TroopCounts[id]++
	gs.Reinforcements--
	if gs.Reinforcements == 0 {
		gs.Phase = AttackPhase
	}
	return nil
}

// EndAttackPhase moves from attack to fortify.
func (gs *GameState) EndAttackPhase() error {
	if err := gs.checkPhase(AttackPhase); err != nil {
		return err
	}
	gs.Phase = FortifyPhase
	return nil
}

func (gs *GameState) validateFortify(from, to, count int) (int, error) {
	if err := gs.checkPhase(FortifyPhase); err != nil {
		return 0, err
	}
	if !gs.Map.Valid(from) || !gs.Map.Valid(to) {
		return 0, ErrUnknownTerritory
	}
	if gs.Ownership[from] != gs.CurrentPlayer || gs.Ownership[to] != gs.CurrentPlayer {
		return 0, ErrNotOwner
	}
	if !gs.Map.AreAdjacent(from, to) {
		return 0, ErrNotAdjacent
	}
	if gs.TroopCounts[from] <= 1 {
		return 0, ErrInsufficientTroops
	}
	actual := min(count, gs.TroopCounts[from]-1)
	if actual <= 0 {
		return 0, ErrInvalidCount
	}
	return actual, nil
}

func (gs *GameState) CanFortify(from, to int) bool {
	_, err := gs.validateFortify(from, to, 1)
	return err == nil
}

// Fortify moves up to count troops between adjacent territories, always leaving one behind.
// It returns the number of troops actually moved.
func (gs *GameState) Fortify(from, to, count int) (int, error) {
	actual, err := gs.validateFortify(from, to, count)
	if err != nil {
		return 0, err
	}
	gs.TroopCounts[from] -= actual
	gs.TroopCounts[to] += actual
	return actual, nil
}

// EndTurn hands the turn to the next faction that still holds territory.
func (gs *GameState) EndTurn() error {
	if gs.Phase == GameOverPhase {
		return ErrGameOver
	}

	n := len(gs.ActivePlayers)
	start := utils.FindIndex(gs.ActivePlayers, gs.CurrentPlayer)
	next, wrapped := gs.CurrentPlayer, false
	for step := 1; step <= n; step++ {
		if start+step >= n {
			wrapped = true
		}
		candidate := gs.ActivePlayers[(start+step)%n]
		if gs.TerritoriesOwned(candidate) > 0 {
			next = candidate
			break
		}
	}

	gs.settleOwnership()
	if gs.Phase == GameOverPhase {
		return nil
	}

	gs.CurrentPlayer = next
	if wrapped {
		gs.TurnNumber++
		if gs.TurnNumber > 1 && gs.TurnNumber%SPECIAL_ATTACK_INTERVAL == 1 {
			for _, f := range Factions {
				gs.SpecialAttacks[f]++
			}
		}
	}
	gs.Reinforcements = gs.ComputeReinforcement(gs.CurrentPlayer)
	gs.Phase = ReinforcePhase
	return nil
}

// settleOwnership drops eliminated factions and ends the game once a single faction remains.
func (gs *GameState) settleOwnership() {
	gs.ActivePlayers = utils.Filter(gs.ActivePlayers, func(f Faction) bool {
		return gs.TerritoriesOwned(f) > 0
	})
	if len(gs.ActivePlayers) == 1 {
		gs.Winner = gs.ActivePlayers[0]
		gs.Phase = GameOverPhase
		gs.Reinforcements = 0
	}
}
