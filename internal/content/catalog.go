// Package content holds the static reference material the conversation
// engine looks up: the disease encyclopedia, the clinic directory, and the
// emergency contact. It is data, not engine logic; bot variants differ only
// in what they load here.
package content

import "math"

// Disease is one encyclopedia entry.
type Disease struct {
	Key      string
	Name     string
	Symptoms string
	Info     string
}

// Clinic is one entry in a city's directory.
type Clinic struct {
	Name    string
	Address string
	Phone   string
}

// City groups the clinics of one metropolitan area.
type City struct {
	Key     string
	Name    string
	Lat     float64
	Lon     float64
	Clinics []Clinic
}

// nearestCityMaxKm bounds how far a shared location may be from a listed
// city before the lookup is considered a miss.
const nearestCityMaxKm = 300.0

type Catalog struct {
	diseases     map[string]Disease
	diseaseOrder []string
	cities       map[string]City
	cityOrder    []string
	emergency    string
}

// NewCatalog returns the built-in reference content.
func NewCatalog() *Catalog {
	c := &Catalog{
		diseases:  make(map[string]Disease),
		cities:    make(map[string]City),
		emergency: "911",
	}
	for _, d := range []Disease{
		{Key: "clamidia", Name: "Clamidia", Symptoms: "Secreción anormal, dolor al orinar, dolor abdominal", Info: "Infección bacteriana tratable."},
		{Key: "gonorrea", Name: "Gonorrea", Symptoms: "Secreción purulenta, dolor al orinar", Info: "Infección bacteriana, requiere antibióticos."},
		{Key: "herpes", Name: "Herpes genital", Symptoms: "Ampollas dolorosas, picazón, ardor", Info: "Infección viral crónica."},
		{Key: "vph", Name: "VPH", Symptoms: "Verrugas genitales, a menudo asintomático", Info: "Virus común, algunas cepas causan cáncer."},
		{Key: "sifilis", Name: "Sífilis", Symptoms: "Úlcera indolora, erupciones, fiebre", Info: "Infección bacteriana por etapas, tratable con antibióticos."},
		{Key: "tricomoniasis", Name: "Tricomoniasis", Symptoms: "Flujo con mal olor, irritación, picazón", Info: "Infección parasitaria curable."},
	} {
		c.diseases[d.Key] = d
		c.diseaseOrder = append(c.diseaseOrder, d.Key)
	}
	for _, city := range []City{
		{
			Key: "ciudad_mexico", Name: "Ciudad de México", Lat: 19.4326, Lon: -99.1332,
			Clinics: []Clinic{
				{Name: "Clínica Condesa", Address: "Av. Insurgentes Sur 136, Roma Norte", Phone: "55-4114-4000"},
				{Name: "Centro de Salud Del Valle", Address: "Av. Universidad 1321, Del Valle", Phone: "55-5534-3428"},
			},
		},
		{
			Key: "guadalajara", Name: "Guadalajara", Lat: 20.6597, Lon: -103.3496,
			Clinics: []Clinic{
				{Name: "Unidad de VIH e ITS Guadalajara", Address: "Calle Hospital 278, El Retiro", Phone: "33-3614-0273"},
			},
		},
		{
			Key: "monterrey", Name: "Monterrey", Lat: 25.6866, Lon: -100.3161,
			Clinics: []Clinic{
				{Name: "Centro Comunitario de Salud Sexual", Address: "Av. Constitución 2100, Centro", Phone: "81-8345-1177"},
			},
		},
	} {
		c.cities[city.Key] = city
		c.cityOrder = append(c.cityOrder, city.Key)
	}
	return c
}

// Disease looks up one encyclopedia entry by key.
func (c *Catalog) Disease(key string) (Disease, bool) {
	d, ok := c.diseases[key]
	return d, ok
}

// Diseases returns the encyclopedia in fixed order.
func (c *Catalog) Diseases() []Disease {
	out := make([]Disease, 0, len(c.diseaseOrder))
	for _, k := range c.diseaseOrder {
		out = append(out, c.diseases[k])
	}
	return out
}

// Clinics returns the directory for one city.
func (c *Catalog) Clinics(cityKey string) ([]Clinic, bool) {
	city, ok := c.cities[cityKey]
	if !ok {
		return nil, false
	}
	return city.Clinics, true
}

// Cities returns the directory in fixed order.
func (c *Catalog) Cities() []City {
	out := make([]City, 0, len(c.cityOrder))
	for _, k := range c.cityOrder {
		out = append(out, c.cities[k])
	}
	return out
}

// NearestCity resolves shared coordinates to the closest listed city. The
// second return is false when no city is within range.
func (c *Catalog) NearestCity(lat, lon float64) (City, bool) {
	var best City
	bestKm := math.Inf(1)
	for _, k := range c.cityOrder {
		city := c.cities[k]
		if d := haversineKm(lat, lon, city.Lat, city.Lon); d < bestKm {
			best, bestKm = city, d
		}
	}
	if bestKm > nearestCityMaxKm {
		return City{}, false
	}
	return best, true
}

// EmergencyNumber is the number shown in emergency directives.
func (c *Catalog) EmergencyNumber() string {
	return c.emergency
}

func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKm = 6371.0
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := rad(lat2 - lat1)
	dLon := rad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}
