package bancho

import "strings"

// Mods is the client's gameplay modifier bitset.
type Mods int32

const (
	ModNoFail      Mods = 1 << 0
	ModEasy        Mods = 1 << 1
	ModTouchscreen Mods = 1 << 2
	ModHidden      Mods = 1 << 3
	ModHardRock    Mods = 1 << 4
	ModSuddenDeath Mods = 1 << 5
	ModDoubleTime  Mods = 1 << 6
	ModRelax       Mods = 1 << 7
	ModHalfTime    Mods = 1 << 8
	ModNightcore   Mods = 1 << 9
	ModFlashlight  Mods = 1 << 10
	ModAutoplay    Mods = 1 << 11
	ModSpunOut     Mods = 1 << 12
	ModAutopilot   Mods = 1 << 13
	ModPerfect     Mods = 1 << 14
	ModKey4        Mods = 1 << 15
	ModKey5        Mods = 1 << 16
	ModKey6        Mods = 1 << 17
	ModKey7        Mods = 1 << 18
	ModKey8        Mods = 1 << 19
	ModFadeIn      Mods = 1 << 20
	ModRandom      Mods = 1 << 21
	ModCinema      Mods = 1 << 22
	ModTarget      Mods = 1 << 23
	ModKey9        Mods = 1 << 24
	ModKeyCoop     Mods = 1 << 25
	ModKey1        Mods = 1 << 26
	ModKey3        Mods = 1 << 27
	ModKey2        Mods = 1 << 28
	ModScoreV2     Mods = 1 << 29
	ModMirror      Mods = 1 << 30

	// ModSpeedChanging are the mods that stay on the match under freemods.
	ModSpeedChanging Mods = ModDoubleTime | ModNightcore | ModHalfTime
)

var modNames = []struct {
	mod  Mods
	name string
}{
	{ModNoFail, "NF"}, {ModEasy, "EZ"}, {ModTouchscreen, "TD"},
	{ModHidden, "HD"}, {ModHardRock, "HR"}, {ModSuddenDeath, "SD"},
	{ModNightcore, "NC"}, {ModDoubleTime, "DT"}, {ModRelax, "RX"},
	{ModHalfTime, "HT"}, {ModFlashlight, "FL"}, {ModAutoplay, "AU"},
	{ModSpunOut, "SO"}, {ModAutopilot, "AP"}, {ModPerfect, "PF"},
	{ModFadeIn, "FI"}, {ModRandom, "RN"}, {ModCinema, "CN"},
	{ModTarget, "TP"}, {ModScoreV2, "V2"}, {ModMirror, "MR"},
	{ModKey1, "1K"}, {ModKey2, "2K"}, {ModKey3, "3K"}, {ModKey4, "4K"},
	{ModKey5, "5K"}, {ModKey6, "6K"}, {ModKey7, "7K"}, {ModKey8, "8K"},
	{ModKey9, "9K"}, {ModKeyCoop, "CO"},
}

// String renders the bitset as +HDDT style shorthand ("NM" when empty).
func (m Mods) String() string {
	if m == 0 {
		return "NM"
	}
	var sb strings.Builder
	for _, e := range modNames {
		if m&e.mod != 0 {
			// NC implies DT on the wire; show only NC
			if e.mod == ModDoubleTime && m&ModNightcore != 0 {
				continue
			}
			sb.WriteString(e.name)
		}
	}
	return sb.String()
}

// ParseMods parses "HDDT" / "+HDDT" shorthand into a bitset.
// Unknown pairs are ignored.
func ParseMods(s string) Mods {
	s = strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(s), "+"))
	var m Mods
	for i := 0; i+2 <= len(s); i += 2 {
		pair := s[i : i+2]
		for _, e := range modNames {
			if e.name == pair {
				m |= e.mod
				break
			}
		}
	}
	if m&ModNightcore != 0 {
		m |= ModDoubleTime
	}
	return m
}

// ParseNamedMod parses a single long-form mod word as the client writes
// it in /np actions, e.g. "HardRock" or "DoubleTime". Unknown names
// parse to zero.
func ParseNamedMod(name string) Mods {
	switch strings.ToLower(name) {
	case "nofail":
		return ModNoFail
	case "easy":
		return ModEasy
	case "hidden":
		return ModHidden
	case "hardrock":
		return ModHardRock
	case "suddendeath":
		return ModSuddenDeath
	case "doubletime":
		return ModDoubleTime
	case "relax":
		return ModRelax
	case "halftime":
		return ModHalfTime
	case "nightcore":
		return ModNightcore | ModDoubleTime
	case "flashlight":
		return ModFlashlight
	case "spunout":
		return ModSpunOut
	case "autopilot":
		return ModAutopilot
	case "perfect":
		return ModPerfect
	default:
		return 0
	}
}
