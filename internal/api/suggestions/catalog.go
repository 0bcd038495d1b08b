package suggestions

import (
	"encoding/hex"
	"strings"
	"unicode"

	"github.com/samber/lo"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

type destinationEntry struct {
	key     string
	aliases []string
	seeds   []types.TripActivity
}

// Catalog is a static, read-only lookup of activity suggestions per destination.
type Catalog struct {
	entries []destinationEntry
}

// NewCatalog returns the built-in catalog.
func NewCatalog() *Catalog {
	return &Catalog{entries: builtinDestinations}
}

var folder = cases.Fold()

// Normalize strips accents, folds case and collapses whitespace so that "Lisboa",
// " LISBOA " and "lisboa" compare equal.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return strings.Join(strings.Fields(folder.String(stripped)), " ")
}

// SeedID is the stable identity of a suggestion: blake2b-128 over the normalized
// destination key and the lower-cased title.
func SeedID(destinationKey, title string) string {
	h, _ := blake2b.New(16, nil)
	h.Write([]byte(Normalize(destinationKey) + "|" + strings.ToLower(strings.TrimSpace(title))))
	return hex.EncodeToString(h.Sum(nil))
}

// SuggestionsFor returns the seeds for a destination. Matching tries the catalog key,
// then aliases, then any key or alias contained in the query ("lisbon, portugal").
// Unknown destinations yield an empty slice.
func (c *Catalog) SuggestionsFor(destination string) []types.TripActivitySeed {
	entry, ok := c.match(destination)
	if !ok {
		return []types.TripActivitySeed{}
	}
	return lo.Map(entry.seeds, func(a types.TripActivity, _ int) types.TripActivitySeed {
		return types.TripActivitySeed{ID: SeedID(entry.key, a.Title), TripActivity: a}
	})
}

func (c *Catalog) match(destination string) (destinationEntry, bool) {
	q := Normalize(destination)
	if q == "" {
		return destinationEntry{}, false
	}
	names := func(e destinationEntry) []string { return append([]string{e.key}, e.aliases...) }

	if e, ok := lo.Find(c.entries, func(e destinationEntry) bool { return lo.Contains(names(e), q) }); ok {
		return e, true
	}
	head := strings.TrimSpace(strings.SplitN(q, ",", 2)[0])
	if e, ok := lo.Find(c.entries, func(e destinationEntry) bool { return lo.Contains(names(e), head) }); ok {
		return e, true
	}
	return lo.Find(c.entries, func(e destinationEntry) bool {
		return lo.SomeBy(names(e), func(n string) bool { return containsWord(q, n) })
	})
}

func containsWord(haystack, needle string) bool {
	idx := strings.Index(haystack, needle)
	if idx < 0 {
		return false
	}
	before := idx == 0 || !isWordByte(haystack[idx-1])
	end := idx + len(needle)
	after := end == len(haystack) || !isWordByte(haystack[end])
	return before && after
}

func isWordByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}

func seed(title, desc string, slot types.TimeSlot, place string, lat, lng, cost float64, cat types.CostCategory, minutes int) types.TripActivity {
	return types.TripActivity{
		Title: title, Description: desc, TimeSlot: slot, LocationName: place,
		Latitude: lat, Longitude: lng, EstimatedCost: cost, CostCategory: cat, DurationMinutes: minutes,
	}
}

var builtinDestinations = []destinationEntry{
	{
		key:     "lisbon",
		aliases: []string{"lisboa", "lisbonne"},
		seeds: []types.TripActivity{
			seed("Belém Tower", "16th-century fortification on the Tagus", types.TimeSlotMorning, "Belém", 38.6916, -9.2160, 10, types.CostCategoryActivity, 60),
			seed("Pastéis de Belém", "The original custard tarts", types.TimeSlotMorning, "Belém", 38.6975, -9.2033, 6, types.CostCategoryFood, 30),
			seed("Tram 28", "Historic tram through Alfama and Graça", types.TimeSlotAfternoon, "Martim Moniz", 38.7167, -9.1357, 3, types.CostCategoryTransport, 45),
			seed("São Jorge Castle", "Moorish castle with city views", types.TimeSlotAfternoon, "Alfama", 38.7139, -9.1335, 15, types.CostCategoryActivity, 90),
			seed("Fado dinner", "Traditional fado with dinner", types.TimeSlotEvening, "Alfama", 38.7110, -9.1300, 45, types.CostCategoryFood, 120),
			seed("LX Factory", "Design shops in a converted mill", types.TimeSlotAfternoon, "Alcântara", 38.7036, -9.1786, 25, types.CostCategoryShopping, 90),
		},
	},
	{
		key:     "porto",
		aliases: []string{"oporto"},
		seeds: []types.TripActivity{
			seed("Livraria Lello", "Neo-gothic bookshop", types.TimeSlotMorning, "Baixa", 41.1469, -8.6149, 8, types.CostCategoryActivity, 45),
			seed("Port wine cellar tour", "Tasting in Vila Nova de Gaia", types.TimeSlotAfternoon, "Vila Nova de Gaia", 41.1370, -8.6130, 20, types.CostCategoryActivity, 90),
			seed("Francesinha", "Porto's signature sandwich", types.TimeSlotEvening, "Baixa", 41.1496, -8.6109, 14, types.CostCategoryFood, 60),
			seed("Douro river cruise", "Six bridges cruise", types.TimeSlotAfternoon, "Ribeira", 41.1408, -8.6133, 18, types.CostCategoryTransport, 60),
		},
	},
	{
		key:     "paris",
		aliases: []string{"parigi"},
		seeds: []types.TripActivity{
			seed("Louvre Museum", "Home of the Mona Lisa", types.TimeSlotMorning, "1st arrondissement", 48.8606, 2.3376, 22, types.CostCategoryActivity, 180),
			seed("Seine river cruise", "Sightseeing boat along the Seine", types.TimeSlotAfternoon, "Pont de l'Alma", 48.8629, 2.3006, 17, types.CostCategoryTransport, 60),
			seed("Eiffel Tower summit", "Top-floor views over Paris", types.TimeSlotEvening, "Champ de Mars", 48.8584, 2.2945, 36, types.CostCategoryActivity, 120),
			seed("Bistro dinner in Le Marais", "Classic French bistro", types.TimeSlotEvening, "Le Marais", 48.8579, 2.3622, 40, types.CostCategoryFood, 90),
			seed("Galeries Lafayette", "Department store under the glass dome", types.TimeSlotAfternoon, "Boulevard Haussmann", 48.8738, 2.3320, 50, types.CostCategoryShopping, 90),
		},
	},
	{
		key:     "barcelona",
		aliases: []string{"barcelone"},
		seeds: []types.TripActivity{
			seed("Sagrada Família", "Gaudí's basilica", types.TimeSlotMorning, "Eixample", 41.4036, 2.1744, 26, types.CostCategoryActivity, 120),
			seed("Park Güell", "Mosaic terraces above the city", types.TimeSlotAfternoon, "Gràcia", 41.4145, 2.1527, 10, types.CostCategoryActivity, 90),
			seed("La Boqueria", "Market lunch off La Rambla", types.TimeSlotAfternoon, "La Rambla", 41.3817, 2.1716, 20, types.CostCategoryFood, 60),
			seed("Tapas in El Born", "Evening tapas crawl", types.TimeSlotEvening, "El Born", 41.3851, 2.1834, 35, types.CostCategoryFood, 120),
		},
	},
	{
		key:     "rome",
		aliases: []string{"roma"},
		seeds: []types.TripActivity{
			seed("Colosseum", "Flavian amphitheatre and Forum", types.TimeSlotMorning, "Celio", 41.8902, 12.4922, 18, types.CostCategoryActivity, 150),
			seed("Vatican Museums", "Sistine Chapel included", types.TimeSlotMorning, "Vatican City", 41.9065, 12.4536, 20, types.CostCategoryActivity, 180),
			seed("Trevi Fountain", "Baroque fountain, bring a coin", types.TimeSlotEvening, "Trevi", 41.9009, 12.4833, 0, types.CostCategoryOther, 30),
			seed("Trastevere dinner", "Roman trattoria dinner", types.TimeSlotEvening, "Trastevere", 41.8897, 12.4695, 35, types.CostCategoryFood, 90),
		},
	},
	{
		key:     "tokyo",
		aliases: []string{"tokio"},
		seeds: []types.TripActivity{
			seed("Tsukiji Outer Market", "Street food breakfast", types.TimeSlotMorning, "Tsukiji", 35.6655, 139.7707, 25, types.CostCategoryFood, 90),
			seed("Senso-ji", "Tokyo's oldest temple", types.TimeSlotMorning, "Asakusa", 35.7148, 139.7967, 0, types.CostCategoryActivity, 60),
			seed("Shibuya Sky", "Rooftop view over the scramble crossing", types.TimeSlotEvening, "Shibuya", 35.6585, 139.7021, 15, types.CostCategoryActivity, 60),
			seed("Akihabara", "Electronics and anime shops", types.TimeSlotAfternoon, "Akihabara", 35.6984, 139.7731, 40, types.CostCategoryShopping, 120),
			seed("Izakaya dinner", "Small plates in Shinjuku", types.TimeSlotEvening, "Shinjuku", 35.6938, 139.7034, 30, types.CostCategoryFood, 90),
		},
	},
	{
		key:     "new york",
		aliases: []string{"nyc", "new york city", "manhattan"},
		seeds: []types.TripActivity{
			seed("Central Park walk", "Bethesda Terrace to Bow Bridge", types.TimeSlotMorning, "Central Park", 40.7736, -73.9712, 0, types.CostCategoryActivity, 90),
			seed("Metropolitan Museum of Art", "Fifth Avenue museum", types.TimeSlotAfternoon, "Upper East Side", 40.7794, -73.9632, 30, types.CostCategoryActivity, 180),
			seed("Staten Island Ferry", "Free ferry past the Statue of Liberty", types.TimeSlotAfternoon, "Whitehall Terminal", 40.7015, -74.0132, 0, types.CostCategoryTransport, 60),
			seed("Broadway show", "Evening show in the Theater District", types.TimeSlotEvening, "Theater District", 40.7590, -73.9845, 120, types.CostCategoryActivity, 150),
		},
	},
	{
		key:     "london",
		aliases: []string{"londres", "londra"},
		seeds: []types.TripActivity{
			seed("British Museum", "World history collections", types.TimeSlotMorning, "Bloomsbury", 51.5194, -0.1270, 0, types.CostCategoryActivity, 150),
			seed("Borough Market", "Lunch at the food market", types.TimeSlotAfternoon, "Southwark", 51.5055, -0.0910, 18, types.CostCategoryFood, 60),
			seed("Thames Clipper", "River bus to Greenwich", types.TimeSlotAfternoon, "Westminster Pier", 51.5014, -0.1235, 10, types.CostCategoryTransport, 45),
			seed("West End theatre", "Evening show", types.TimeSlotEvening, "Covent Garden", 51.5117, -0.1240, 75, types.CostCategoryActivity, 150),
		},
	},
}
