package models

// Factions is the fixed list of armies a player or a match side may record.
var Factions = []string{
	"Empire of Man",
	"Dwarfen Mountain Holds",
	"Kingdom of Bretonnia",
	"Wood Elf Realms",
	"High Elf Realms",
	"Orc & Goblin Tribes",
	"Warriors of Chaos",
	"Beastmen Brayheards",
	"Tomb Kings of Khemri",
	"Skaven",
	"Ogre Kingdoms",
	"Lizardmen",
	"Chaos Dwarfs",
	"Dark Elves",
	"Daemons of Chaos",
	"Vampire Counts",
}

func IsKnownFaction(name string) bool {
	for _, f := range Factions {
		if f == name {
			return true
		}
	}
	return false
}
