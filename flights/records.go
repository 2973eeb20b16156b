package flights

// Record is one flight observation, either a row of the historical dataset
// or an inference request. Departure timestamps are kept in the dataset's
// raw "2006-01-02 15:04:05" layout; ActualDeparture is only present on
// training data.
type Record struct {
	Opera     string
	TipoVuelo string
	Mes       int

	ScheduledDeparture string
	ActualDeparture    string
}

const (
	FlightTypeInternational = "I"
	FlightTypeNational      = "N"
)

// airlines is the closed set of carriers present in the historical dataset.
var airlines = map[string]struct{}{
	"Aerolineas Argentinas":    {},
	"Aeromexico":               {},
	"Air Canada":               {},
	"Air France":               {},
	"Alitalia":                 {},
	"American Airlines":        {},
	"Austral":                  {},
	"Avianca":                  {},
	"British Airways":          {},
	"Copa Air":                 {},
	"Delta Air":                {},
	"Gol Trans":                {},
	"Grupo LATAM":              {},
	"Iberia":                   {},
	"JetSmart SPA":             {},
	"K.L.M.":                   {},
	"Lacsa":                    {},
	"Latin American Wings":     {},
	"Oceanair Linhas Aereas":   {},
	"Plus Ultra Lineas Aereas": {},
	"Qantas Airways":           {},
	"Sky Airline":              {},
	"United Airlines":          {},
}

// ValidAirline reports whether name belongs to the closed airline set.
func ValidAirline(name string) bool {
	_, ok := airlines[name]
	return ok
}

func ValidFlightType(t string) bool {
	return t == FlightTypeInternational || t == FlightTypeNational
}

func ValidMonth(m int) bool {
	return m >= 1 && m <= 12
}
