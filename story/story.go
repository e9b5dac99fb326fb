package story

// Role ruolo di un personaggio, come appare nell'attributo "role" dell'archivio
type Role string

const (
	RoleInnocent Role = "innocent"
	RoleWolf     Role = "wolf"
	RoleSeer     Role = "seer"
	RoleShaman   Role = "shaman"
	RoleMadman   Role = "madman"
	RoleHunter   Role = "hunter"
	RoleFrater   Role = "frater"
	RoleHamster  Role = "hamster"
)

// PeriodType tipo di un periodo (giornata)
type PeriodType string

const (
	PeriodPrologue PeriodType = "prologue"
	PeriodProgress PeriodType = "progress"
	PeriodEpilogue PeriodType = "epilogue"
)

// TalkType canale di un discorso
type TalkType string

const (
	TalkPublic  TalkType = "public"
	TalkPrivate TalkType = "private"
	TalkWolf    TalkType = "wolf"
	TalkGrave   TalkType = "grave"
)

// Avatar identità fissa di un personaggio del villaggio
type Avatar struct {
	AvatarID    string `json:"avatarId"`
	FullName    string `json:"fullName"`
	ShortName   string `json:"shortName"`
	FaceIconURI string `json:"faceIconURI,omitempty"`
}

// Story è l'intera cronaca di un villaggio, immutabile dopo il parsing
type Story struct {
	VillageFullName string    `json:"villageFullName"`
	BaseURI         string    `json:"baseURI"`
	LandID          string    `json:"landId,omitempty"`
	GraveIconURI    string    `json:"graveIconURI"`
	AvatarList      []*Avatar `json:"avatarList"`
	Periods         []*Period `json:"periods"`
}

// Period una giornata della cronaca con i suoi elementi in ordine documentale
type Period struct {
	Type     PeriodType `json:"type"`
	Day      int        `json:"day"`
	Elements []Element  `json:"elements"`
}

// Element è un elemento della cronaca: un discorso oppure un evento
type Element interface {
	ElementID() string
}

// Talk è un discorso di un personaggio
type Talk struct {
	ID           string   `json:"elementId"`
	TalkType     TalkType `json:"talkType"`
	AvatarID     string   `json:"avatarId"`
	XName        string   `json:"xname"`
	Time         int      `json:"time"` // millisecondi dalla mezzanotte
	TalkNo       int      `json:"talkNo,omitempty"`
	MessageLines []string `json:"messageLines"`
}

// ElementID restituisce l'id dell'elemento
func (t *Talk) ElementID() string { return t.ID }
