package bancho

import "strings"

// countryList is the client's country enum, indexed by wire value.
// "xx" (index 0) is the unknown-country sentinel.
var countryList = []string{
	"xx", "oc", "eu", "ad", "ae", "af", "ag", "ai", "al", "am", "an", "ao",
	"aq", "ar", "as", "at", "au", "aw", "az", "ba", "bb", "bd", "be", "bf",
	"bg", "bh", "bi", "bj", "bm", "bn", "bo", "br", "bs", "bt", "bv", "bw",
	"by", "bz", "ca", "cc", "cd", "cf", "cg", "ch", "ci", "ck", "cl", "cm",
	"cn", "co", "cr", "cu", "cv", "cx", "cy", "cz", "de", "dj", "dk", "dm",
	"do", "dz", "ec", "ee", "eg", "eh", "er", "es", "et", "fi", "fj", "fk",
	"fm", "fo", "fr", "fx", "ga", "gb", "gd", "ge", "gf", "gh", "gi", "gl",
	"gm", "gn", "gp", "gq", "gr", "gs", "gt", "gu", "gw", "gy", "hk", "hm",
	"hn", "hr", "ht", "hu", "id", "ie", "il", "in", "io", "iq", "ir", "is",
	"it", "jm", "jo", "jp", "ke", "kg", "kh", "ki", "km", "kn", "kp", "kr",
	"kw", "ky", "kz", "la", "lb", "lc", "li", "lk", "lr", "ls", "lt", "lu",
	"lv", "ly", "ma", "mc", "md", "mg", "mh", "mk", "ml", "mm", "mn", "mo",
	"mp", "mq", "mr", "ms", "mt", "mu", "mv", "mw", "mx", "my", "mz", "na",
	"nc", "ne", "nf", "ng", "ni", "nl", "no", "np", "nr", "nu", "nz", "om",
	"pa", "pe", "pf", "pg", "ph", "pk", "pl", "pm", "pn", "pr", "ps", "pt",
	"pw", "py", "qa", "re", "ro", "ru", "rw", "sa", "sb", "sc", "sd", "se",
	"sg", "sh", "si", "sj", "sk", "sl", "sm", "sn", "so", "sr", "st", "sv",
	"sy", "sz", "tc", "td", "tf", "tg", "th", "tj", "tk", "tm", "tn", "to",
	"tl", "tr", "tt", "tv", "tw", "tz", "ua", "ug", "um", "us", "uy", "uz",
	"va", "vc", "ve", "vg", "vi", "vn", "vu", "wf", "ws", "ye", "yt", "rs",
	"za", "zm", "me", "zw", "a1", "a2", "o1", "ax", "gg", "im", "je", "bl",
	"mf",
}

var countryCodes = func() map[string]uint8 {
	m := make(map[string]uint8, len(countryList))
	for i, c := range countryList {
		m[c] = uint8(i)
	}
	return m
}()

// CountryCode returns the wire value for an ISO 3166-1 alpha-2 code
// (case-insensitive); unknown codes map to the "xx" sentinel (0).
func CountryCode(iso string) uint8 {
	return countryCodes[strings.ToLower(iso)]
}
