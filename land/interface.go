package land

// Rules descrive le differenze di regolamento tra i server (land)
// su cui una cronaca può essere stata giocata
type Rules interface {
	// LandID identificatore del land
	LandID() string

	// MadmanHearsWolves indica se il folle sente i sussurri dei lupi
	MadmanHearsWolves() bool

	// WolfJudgeMessage testo della divinazione quando il bersaglio è un lupo
	WolfJudgeMessage(fullName string) string

	// NonWolfJudgeMessage testo della divinazione quando il bersaglio non è un lupo
	NonWolfJudgeMessage(fullName string) string

	// HunterKnowsGuardResult indica se il guardiano viene a sapere
	// di aver sventato un attacco
	HunterKnowsGuardResult() bool
}
