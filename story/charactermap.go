package story

// Character stato derivato di un personaggio: ruolo e ultima giornata
// in cui risulta vivo
type Character struct {
	Avatar     *Avatar `json:"avatar"`
	Role       Role    `json:"role"`
	AliveUntil int     `json:"aliveUntil"`
}

// CharacterMap indicizza i personaggi per avatarId, preservando
// l'ordine dell'avatarList
type CharacterMap struct {
	characters map[string]*Character
	order      []string
}

// NewCharacterMap costruisce la mappa dei personaggi scorrendo la cronaca.
// Ogni personaggio parte come semplice villico vivo fino al giorno 1;
// gli eventi survivor aggiornano l'ultima giornata di sopravvivenza e il
// playerList finale rivela i ruoli
func NewCharacterMap(s *Story) *CharacterMap {
	cm := &CharacterMap{
		characters: make(map[string]*Character),
	}
	for _, avatar := range s.AvatarList {
		cm.characters[avatar.AvatarID] = &Character{
			Avatar:     avatar,
			Role:       RoleInnocent,
			AliveUntil: 1,
		}
		cm.order = append(cm.order, avatar.AvatarID)
	}

	for _, period := range s.Periods {
		for _, element := range period.Elements {
			switch e := element.(type) {
			case *Survivor:
				for _, avatarID := range e.AvatarIDs {
					if character, ok := cm.characters[avatarID]; ok {
						character.AliveUntil = period.Day
					}
				}
			case *PlayerList:
				for _, player := range e.Players {
					character, ok := cm.characters[player.AvatarID]
					if !ok {
						continue
					}
					character.Role = player.Role
					if player.Survive {
						character.AliveUntil = period.Day
					}
				}
			}
		}
	}

	return cm
}

// Get restituisce una copia del personaggio con l'avatarId dato, o nil
// se assente. La mappa costruita è congelata: l'unico modo di aggiornarla
// è ricostruirla con NewCharacterMap
func (cm *CharacterMap) Get(avatarID string) *Character {
	character, ok := cm.characters[avatarID]
	if !ok {
		return nil
	}
	copied := *character
	return &copied
}

// Characters restituisce copie dei personaggi nell'ordine dell'avatarList
func (cm *CharacterMap) Characters() []*Character {
	result := make([]*Character, 0, len(cm.order))
	for _, avatarID := range cm.order {
		copied := *cm.characters[avatarID]
		result = append(result, &copied)
	}
	return result
}
