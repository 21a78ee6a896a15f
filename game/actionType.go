package game

import "fmt"

// ActionType represents the type of action a player can perform.
type ActionType int

const (
	ReinforceAction ActionType = iota
	AttackAction
	SpecialAttackAction
	FortifyAction
	EndPhaseAction
	EndTurnAction
)

var actionTypeNames = []string{"reinforce", "attack", "special_attack", "fortify", "end_phase", "end_turn"}

func (t ActionType) String() string {
	if t < 0 || int(t) >= len(actionTypeNames) {
		return fmt.Sprintf("ActionType(%d)", int(t))
	}
	return actionTypeNames[t]
}

func (t ActionType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *ActionType) UnmarshalText(text []byte) error {
	for i, name := range actionTypeNames {
		if name == string(text) {
			*t = ActionType(i)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownAction, text)
}

// Action is one decision by a player. Reinforce uses To only; end actions use no fields.
type Action struct {
	Type      ActionType `json:"type"`
	From      int        `json:"from"`
	To        int        `json:"to"`
	NumTroops int        `json:"numTroops,omitempty"`
}

func NewReinforceAction(territory int) Action {
	return Action{Type: ReinforceAction, From: -1, To: territory}
}

func NewAttackAction(from, to int) Action {
	return Action{Type: AttackAction, From: from, To: to}
}

func NewSpecialAttackAction(from, to int) Action {
	return Action{Type: SpecialAttackAction, From: from, To: to}
}

func NewFortifyAction(from, to, numTroops int) Action {
	return Action{Type: FortifyAction, From: from, To: to, NumTroops: numTroops}
}

func NewEndPhaseAction() Action {
	return Action{Type: EndPhaseAction, From: -1, To: -1}
}

func NewEndTurnAction() Action {
	return Action{Type: EndTurnAction, From: -1, To: -1}
}

func (a Action) String() string {
	switch a.Type {
	case ReinforceAction:
		return fmt.Sprintf("reinforce %d", a.To)
	case AttackAction, SpecialAttackAction:
		return fmt.Sprintf("%s %d->%d", a.Type, a.From, a.To)
	case FortifyAction:
		return fmt.Sprintf("fortify %d->%d x%d", a.From, a.To, a.NumTroops)
	default:
		return a.Type.String()
	}
}
