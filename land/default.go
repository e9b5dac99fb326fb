package land

import "fmt"

// defaultRules regolamento di base, valido per i land senza varianti note
type defaultRules struct{}

func (defaultRules) LandID() string { return "" }

func (defaultRules) MadmanHearsWolves() bool { return false }

func (defaultRules) WolfJudgeMessage(fullName string) string {
	return fmt.Sprintf("%s は人狼のようだ。", fullName)
}

func (defaultRules) NonWolfJudgeMessage(fullName string) string {
	return fmt.Sprintf("%s は人間のようだ。", fullName)
}

func (defaultRules) HunterKnowsGuardResult() bool { return true }
