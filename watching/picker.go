package watching

import (
	"fmt"
	"math/rand"
	"sort"

	"moltonf-server/story"
)

// Team schieramento scelto per un nuovo workspace
type Team string

const (
	TeamVillager Team = "villager"
	TeamWolf     Team = "wolf"
	TeamHamster  Team = "hamster"
	TeamAnything Team = "anything"
)

// RoleOption criterio di scelta del ruolo dentro uno schieramento
type RoleOption string

const (
	OptionInnocent        RoleOption = "innocent"
	OptionSeer            RoleOption = "seer"
	OptionShaman          RoleOption = "shaman"
	OptionHunter          RoleOption = "hunter"
	OptionFrater          RoleOption = "frater"
	OptionWolf            RoleOption = "wolf"
	OptionMadman          RoleOption = "madman"
	OptionLongestSurvivor RoleOption = "longestSurvivor"
	OptionAnything        RoleOption = "anything"
)

var villagerRoles = []story.Role{
	story.RoleInnocent, story.RoleSeer, story.RoleShaman, story.RoleHunter, story.RoleFrater,
}

var wolfRoles = []story.Role{story.RoleWolf, story.RoleMadman}

// TeamOptions elenca gli schieramenti proponibili per la cronaca
func TeamOptions(characterMap *story.CharacterMap) []Team {
	options := []Team{TeamVillager, TeamWolf}
	for _, ch := range characterMap.Characters() {
		if ch.Role == story.RoleHamster {
			options = append(options, TeamHamster)
			break
		}
	}
	return append(options, TeamAnything)
}

// VillagerRoleOptions elenca i criteri proponibili per il lato villaggio
func VillagerRoleOptions(characterMap *story.CharacterMap) []RoleOption {
	var options []RoleOption
	for _, role := range villagerRoles {
		if hasRole(characterMap, role) {
			options = append(options, RoleOption(role))
		}
	}
	return append(options, OptionLongestSurvivor, OptionAnything)
}

// WolfRoleOptions elenca i criteri proponibili per il lato lupi
func WolfRoleOptions(characterMap *story.CharacterMap) []RoleOption {
	var options []RoleOption
	for _, role := range wolfRoles {
		if hasRole(characterMap, role) {
			options = append(options, RoleOption(role))
		}
	}
	return append(options, OptionLongestSurvivor, OptionAnything)
}

func hasRole(characterMap *story.CharacterMap, role story.Role) bool {
	for _, ch := range characterMap.Characters() {
		if ch.Role == role {
			return true
		}
	}
	return false
}

// PickCharacter sceglie a caso un personaggio coerente con schieramento
// e criterio. Restituisce nil se nessun personaggio soddisfa i vincoli.
func PickCharacter(characterMap *story.CharacterMap, team Team, roleOption RoleOption) *story.Character {
	characters := shuffleCharacters(characterMap)

	switch team {
	case TeamVillager:
		switch roleOption {
		case OptionInnocent, OptionSeer, OptionShaman, OptionHunter, OptionFrater:
			return findByRole(characters, story.Role(roleOption))
		case OptionLongestSurvivor:
			return longestSurvivor(characters, villagerRoles)
		case OptionAnything:
			return findByRoles(characters, villagerRoles)
		default:
			return nil
		}

	case TeamWolf:
		switch roleOption {
		case OptionWolf, OptionMadman:
			return findByRole(characters, story.Role(roleOption))
		case OptionLongestSurvivor:
			return longestSurvivor(characters, wolfRoles)
		case OptionAnything:
			return findByRoles(characters, wolfRoles)
		default:
			return nil
		}

	case TeamHamster:
		return findByRole(characters, story.RoleHamster)

	case TeamAnything:
		if len(characters) > 0 {
			return characters[0]
		}
		return nil

	default:
		return nil
	}
}

func shuffleCharacters(characterMap *story.CharacterMap) []*story.Character {
	characters := characterMap.Characters()
	rand.Shuffle(len(characters), func(i, j int) {
		characters[i], characters[j] = characters[j], characters[i]
	})
	return characters
}

func findByRole(characters []*story.Character, role story.Role) *story.Character {
	for _, ch := range characters {
		if ch.Role == role {
			return ch
		}
	}
	return nil
}

func findByRoles(characters []*story.Character, roles []story.Role) *story.Character {
	for _, ch := range characters {
		for _, role := range roles {
			if ch.Role == role {
				return ch
			}
		}
	}
	return nil
}

func longestSurvivor(characters []*story.Character, roles []story.Role) *story.Character {
	var candidates []*story.Character
	for _, ch := range characters {
		for _, role := range roles {
			if ch.Role == role {
				candidates = append(candidates, ch)
				break
			}
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].AliveUntil > candidates[j].AliveUntil
	})
	return candidates[0]
}

// RoleDisplayName etichetta da mostrare per la combinazione scelta
func RoleDisplayName(team Team, roleOption RoleOption) string {
	switch team {
	case TeamVillager:
		switch roleOption {
		case OptionInnocent:
			return "ただの村人"
		case OptionSeer:
			return "占い師"
		case OptionShaman:
			return "霊能者"
		case OptionHunter:
			return "狩人"
		case OptionFrater:
			return "共有者"
		default:
			return "村人側"
		}
	case TeamWolf:
		switch roleOption {
		case OptionWolf:
			return "人狼"
		case OptionMadman:
			return "狂人"
		default:
			return "人狼側"
		}
	case TeamHamster:
		return "ハムスター人間"
	default:
		return ""
	}
}

// DefaultWorkspaceName nome proposto per un nuovo workspace
func DefaultWorkspaceName(s *story.Story, team Team, roleOption RoleOption) string {
	name := ""
	if s != nil {
		name = s.VillageFullName
	}
	if role := RoleDisplayName(team, roleOption); role != "" {
		name += fmt.Sprintf("（%s）", role)
	}
	return name
}
