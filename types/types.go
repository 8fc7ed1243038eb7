// Package types defines the shared data structures for the bossfight engine.
// This package contains only type definitions, no logic.
package types

// Participant identifiers. They double as the target descriptors a
// participant writes on its TARGET line.
const (
	PlayerA = "player a"
	PlayerB = "player b"
	Boss    = "boss"
	Self    = "self"
)

// Role distinguishes adventurers from the boss-controller.
type Role string

const (
	RoleAdventurer    Role = "adventurer"
	RoleDungeonMaster Role = "dungeon_master"
)

// Condition governs when an action is legal.
type Condition string

const (
	CondNone      Condition = "None"
	CondSpellSlot Condition = "spell-slot"
	CondAdjacency Condition = "adjacency"
	CondPotions   Condition = "potions"
)

// Coord is a 0-based cell on the 5×5 dungeon grid. Row 0 is "A", Col 0 is "1".
type Coord struct {
	Row int `json:"row" yaml:"row"`
	Col int `json:"col" yaml:"col"`
}

// ActionDef is one named capability on a sheet.
type ActionDef struct {
	Name      string    `json:"name" yaml:"name"`
	Dice      string    `json:"dice" yaml:"dice"` // "NdM"
	Type      string    `json:"type" yaml:"type"` // damage/effect tag, e.g. "Fire", "Healing"
	Condition Condition `json:"condition" yaml:"condition"`
}

// Sheet is the static capability sheet of a class or boss.
type Sheet struct {
	ClassName  string      `json:"class_name" yaml:"class_name"`
	Size       string      `json:"size" yaml:"size"`
	Stamina    int         `json:"stamina" yaml:"stamina"`
	HitPoints  int         `json:"hit_points" yaml:"hit_points"`
	ArmorClass int         `json:"armor_class" yaml:"armor_class"`
	Resistance string      `json:"resistance,omitempty" yaml:"resistance,omitempty"`
	SpellSlots int         `json:"spell_slots" yaml:"spell_slots"`
	Difficulty string      `json:"difficulty,omitempty" yaml:"difficulty,omitempty"`
	Actions    []ActionDef `json:"actions" yaml:"actions"`
}

// Layout is the immutable dungeon snapshot for one scenario.
type Layout struct {
	PlayerA Coord    `json:"player_a" yaml:"player_a"`
	PlayerB Coord    `json:"player_b" yaml:"player_b"`
	Boss    Coord    `json:"boss" yaml:"boss"`
	Blocked [2]Coord `json:"blocked" yaml:"blocked"`
}

// LayoutLabels is a Layout written with grid labels ("A1"), as stored in
// instance files.
type LayoutLabels struct {
	PlayerA string    `json:"player_a" yaml:"player_a"`
	PlayerB string    `json:"player_b" yaml:"player_b"`
	Boss    string    `json:"boss" yaml:"boss"`
	Blocked [2]string `json:"blocked" yaml:"blocked"`
}

// Instance is one playable scenario: classes, boss and dungeon.
type Instance struct {
	ID         int          `json:"game_id" yaml:"game_id"`
	Experiment string       `json:"experiment" yaml:"experiment"`
	Mode       string       `json:"mode" yaml:"mode"`
	Seed       int64        `json:"seed" yaml:"seed"`
	ClassA     string       `json:"player_a_class" yaml:"player_a_class"`
	ClassB     string       `json:"player_b_class" yaml:"player_b_class"`
	SheetA     Sheet        `json:"player_a_sheet" yaml:"player_a_sheet"`
	SheetB     Sheet        `json:"player_b_sheet" yaml:"player_b_sheet"`
	BossSheet  Sheet        `json:"boss_sheet" yaml:"boss_sheet"`
	Dungeon    LayoutLabels `json:"dungeon" yaml:"dungeon"`
	MaxRounds  int          `json:"max_rounds,omitempty" yaml:"max_rounds,omitempty"`
	Potions    int          `json:"potions,omitempty" yaml:"potions,omitempty"`
}

// Message is one role-tagged entry in a participant's conversation history.
type Message struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// ActionRecord is the validated form of one utterance.
type ActionRecord struct {
	Actor      string `json:"actor"`
	Move       Coord  `json:"move"`
	Stayed     bool   `json:"stayed"`
	Action     string `json:"action"`
	DamageType string `json:"damage_type,omitempty"`
	Target     string `json:"target,omitempty"` // participant ID, or "self"
	TargetPos  Coord  `json:"target_pos"`
	Roll       int    `json:"roll"`
	Idle       bool   `json:"idle"` // "do nothing"
}

// EventAction is the typed payload of a transcript event.
type EventAction struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// Call records the prompt/response pair behind a received message.
type Call struct {
	Prompt      string `json:"prompt"`
	RawResponse string `json:"raw_response"`
}

// Event is one transcript record emitted by the engine.
type Event struct {
	Round  int         `json:"round"`
	From   string      `json:"from"`
	To     string      `json:"to"`
	Action EventAction `json:"action"`
	Call   *Call       `json:"call,omitempty"`
}

// CombatantView is a read-only snapshot of one participant.
type CombatantView struct {
	ID         string `json:"id"`
	Role       Role   `json:"role"`
	Sheet      Sheet  `json:"sheet"`
	Pos        Coord  `json:"pos"`
	HP         int    `json:"hp"`
	SpellSlots int    `json:"spell_slots"`
}

// View is the board as seen by the participant about to act.
type View struct {
	Self       string          `json:"self"`
	Round      int             `json:"round"`
	Potions    int             `json:"potions"`
	Blocked    []Coord         `json:"blocked"`
	Combatants []CombatantView `json:"combatants"`
}

// Request is what the engine hands a text-generation collaborator.
type Request struct {
	Participant string    // participant ID
	Round       int       // 1-based round index
	History     []Message // full conversation so far, newest last
	View        View
}

// Participant is the mutable per-combatant record for one scenario.
type Participant struct {
	ID         string    `json:"id"`    // PlayerA, PlayerB or Boss
	Label      string    `json:"label"` // transcript name, e.g. "Player 1"
	Role       Role      `json:"role"`
	Sheet      Sheet     `json:"sheet"`
	Pos        Coord     `json:"pos"`
	HP         int       `json:"hp"`
	SpellSlots int       `json:"spell_slots"`
	History    []Message `json:"-"`
}

// Phase is the scenario state machine's current state.
type Phase string

const (
	PhaseSetup   Phase = "setup"
	PhaseRound   Phase = "round_in_progress"
	PhaseWon     Phase = "won"
	PhaseLost    Phase = "lost"
	PhaseAborted Phase = "aborted"
)

// Scenario is the shared mutable state of one running scenario.
type Scenario struct {
	Phase           Phase
	Round           int // 0 before the first round
	MaxRounds       int
	Potions         int // shared by both adventurers
	Blocked         [2]Coord
	Participants    [3]Participant // PlayerA, PlayerB, Boss in turn order
	Reprompts       int
	PlayedRounds    int
	CompletedRounds int
	AbortReason     string
	LastRound       []ActionRecord // validated records of the previous round
}
