package content

// Holiday is one entry of the fixed holiday catalog home kitchen posts
// are filed under.
type Holiday struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
	Icon string `json:"icon"`
}

// Holidays is the catalog. Post documents store the holiday by Name.
var Holidays = []Holiday{
	{Name: "New Year", Slug: "new-year", Icon: "🎆"},
	{Name: "Valentine's", Slug: "valentines", Icon: "💝"},
	{Name: "Lunar New Year", Slug: "lunar-new-year", Icon: "🧧"},
	{Name: "Easter Day", Slug: "easter", Icon: "🐰"},
	{Name: "Dragon Boat", Slug: "dragon-boat", Icon: "🐉"},
	{Name: "Mother's/Father's Day", Slug: "parents-day", Icon: "👨‍👩‍👧‍👦"},
	{Name: "Independence Day", Slug: "independence-day", Icon: "🎆"},
	{Name: "Birthday", Slug: "birthday", Icon: "🎂"},
	{Name: "Mid Autumn", Slug: "mid-autumn", Icon: "🥮"},
	{Name: "Halloween", Slug: "halloween", Icon: "🎃"},
	{Name: "Thanksgiving", Slug: "thanksgiving", Icon: "🦃"},
	{Name: "Christmas Day", Slug: "christmas", Icon: "🎄"},
}

// HolidayBySlug resolves a catalog entry from its URL slug.
func HolidayBySlug(slug string) (Holiday, bool) {
	for _, h := range Holidays {
		if h.Slug == slug {
			return h, true
		}
	}
	return Holiday{}, false
}
