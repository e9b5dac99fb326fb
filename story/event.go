package story

// EventFamily famiglia di appartenenza di un evento
type EventFamily string

const (
	FamilyAnnounce EventFamily = "announce"
	FamilyOrder    EventFamily = "order"
	FamilyExtra    EventFamily = "extra"
)

// EventName nome di un evento, come appare nel tag dell'archivio
type EventName string

const (
	NameStartEntry   EventName = "startEntry"
	NameOnStage      EventName = "onStage"
	NameStartMirror  EventName = "startMirror"
	NameOpenRole     EventName = "openRole"
	NameMurdered     EventName = "murdered"
	NameStartAssault EventName = "startAssault"
	NameSurvivor     EventName = "survivor"
	NameCounting     EventName = "counting"
	NameSuddenDeath  EventName = "suddenDeath"
	NameNoMurder     EventName = "noMurder"
	NameWinVillage   EventName = "winVillage"
	NameWinWolf      EventName = "winWolf"
	NameWinHamster   EventName = "winHamster"
	NamePlayerList   EventName = "playerList"
	NamePanic        EventName = "panic"
	NameExecution    EventName = "execution"
	NameVanish       EventName = "vanish"
	NameCheckout     EventName = "checkout"
	NameShortMember  EventName = "shortMember"
	NameAskEntry     EventName = "askEntry"
	NameAskCommit    EventName = "askCommit"
	NameNoComment    EventName = "noComment"
	NameStayEpilogue EventName = "stayEpilogue"
	NameGameOver     EventName = "gameOver"
	NameJudge        EventName = "judge"
	NameGuard        EventName = "guard"
	NameCounting2    EventName = "counting2"
	NameAssault      EventName = "assault"
)

// EventBase campi comuni a tutti gli eventi della cronaca
type EventBase struct {
	ID           string      `json:"elementId"`
	Family       EventFamily `json:"eventFamily"`
	Name         EventName   `json:"eventName"`
	MessageLines []string    `json:"messageLines"`
}

// ElementID restituisce l'id dell'elemento
func (e *EventBase) ElementID() string { return e.ID }

// Player voce di un PlayerList: chi giocava quale avatar e con quale ruolo
type Player struct {
	PlayerID string `json:"playerId"`
	AvatarID string `json:"avatarId"`
	Survive  bool   `json:"survive"`
	Role     Role   `json:"role"`
	URI      string `json:"uri,omitempty"`
}

// === Famiglia announce ===

// StartEntry apertura delle iscrizioni al villaggio
type StartEntry struct{ EventBase }

// OnStage ingresso in scena di un personaggio
type OnStage struct {
	EventBase
	EntryNo  int    `json:"entryNo"`
	AvatarID string `json:"avatarId"`
}

// StartMirror inizio della partita: ognuno scopre il proprio ruolo
type StartMirror struct{ EventBase }

// OpenRole annuncio della composizione dei ruoli
type OpenRole struct {
	EventBase
	RoleHeads map[string]int `json:"roleHeads"`
}

// Murdered vittime dell'attacco notturno
type Murdered struct {
	EventBase
	AvatarIDs []string `json:"avatarIds"`
}

// StartAssault inizio degli attacchi: prima vittima trovata
type StartAssault struct{ EventBase }

// Survivor elenco dei sopravvissuti alla giornata
type Survivor struct {
	EventBase
	AvatarIDs []string `json:"avatarIds"`
}

// Counting esito della votazione; la vittima può mancare in caso di parità
type Counting struct {
	EventBase
	Victim string            `json:"victim,omitempty"`
	Votes  map[string]string `json:"votes"`
}

// SuddenDeath morte improvvisa di un personaggio
type SuddenDeath struct {
	EventBase
	AvatarID string `json:"avatarId"`
}

// NoMurder notte senza vittime
type NoMurder struct{ EventBase }

// WinVillage vittoria del villaggio
type WinVillage struct{ EventBase }

// WinWolf vittoria dei lupi
type WinWolf struct{ EventBase }

// WinHamster vittoria dell'uomo criceto
type WinHamster struct{ EventBase }

// PlayerList rivelazione finale di giocatori e ruoli
type PlayerList struct {
	EventBase
	Players []*Player `json:"players"`
}

// Panic il villaggio è nel panico
type Panic struct{ EventBase }

// Execution esecuzione con conteggio delle nomine
type Execution struct {
	EventBase
	Victim    string         `json:"victim"`
	Nominated map[string]int `json:"nominated"`
}

// Vanish sparizione di un personaggio
type Vanish struct {
	EventBase
	AvatarID string `json:"avatarId"`
}

// Checkout abbandono di un personaggio durante il prologo
type Checkout struct {
	EventBase
	AvatarID string `json:"avatarId"`
}

// ShortMember partecipanti insufficienti
type ShortMember struct{ EventBase }

// === Famiglia order ===

// AskEntry invito a iscriversi
type AskEntry struct{ EventBase }

// AskCommit invito a votare e usare le abilità
type AskCommit struct{ EventBase }

// NoComment elenco di chi non ha ancora parlato
type NoComment struct{ EventBase }

// StayEpilogue invito a restare per l'epilogo
type StayEpilogue struct{ EventBase }

// GameOver fine della partita
type GameOver struct{ EventBase }

// === Famiglia extra ===

// Judge divinazione dell'indovino
type Judge struct {
	EventBase
	ByWhom string `json:"byWhom"`
	Target string `json:"target"`
}

// Guard protezione del guardiano
type Guard struct {
	EventBase
	ByWhom string `json:"byWhom"`
	Target string `json:"target"`
}

// Counting2 dettaglio dei voti in caso di ballottaggio
type Counting2 struct {
	EventBase
	Votes map[string]string `json:"votes"`
}

// Assault attacco di un lupo
type Assault struct {
	EventBase
	ByWhom string `json:"byWhom"`
	Target string `json:"target"`
	XName  string `json:"xname"`
	Time   int    `json:"time"`
}
