package land

import "fmt"

// wolfcRules variante in cui il folle sente i sussurri dei lupi
type wolfcRules struct {
	defaultRules
}

func (wolfcRules) LandID() string { return "wolfc" }

func (wolfcRules) MadmanHearsWolves() bool { return true }

// wolfeRules variante con il testo di divinazione in negativo
type wolfeRules struct {
	defaultRules
}

func (wolfeRules) LandID() string { return "wolfe" }

func (wolfeRules) NonWolfJudgeMessage(fullName string) string {
	return fmt.Sprintf("%s は人狼ではないようだ。", fullName)
}

// wolfgRules variante in cui il guardiano non conosce l'esito della protezione
type wolfgRules struct {
	defaultRules
}

func (wolfgRules) LandID() string { return "wolfg" }

func (wolfgRules) HunterKnowsGuardResult() bool { return false }

func init() {
	RegisterRules(wolfcRules{})
	RegisterRules(wolfeRules{})
	RegisterRules(wolfgRules{})
}
