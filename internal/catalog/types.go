package catalog

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// ---- TMDB response types ----

// DiscoverResponse is the TMDB discover/movie response.
type DiscoverResponse struct {
	Page         int        `json:"page"`
	Results      []RawMovie `json:"results"`
	TotalPages   int        `json:"total_pages"`
	TotalResults int        `json:"total_results"`
}

// RawMovie is a movie as listed by discover. Runtime is only present on
// detail responses.
type RawMovie struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	ReleaseDate  string  `json:"release_date"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	VoteAverage  float64 `json:"vote_average"`
	GenreIDs     []int   `json:"genre_ids"`
	Runtime      int     `json:"runtime"`
	Adult        bool    `json:"adult"`
}

// MovieDetails is the movie/{id} response with release_dates appended.
type MovieDetails struct {
	ID           int          `json:"id"`
	Title        string       `json:"title"`
	Overview     string       `json:"overview"`
	ReleaseDate  string       `json:"release_date"`
	PosterPath   string       `json:"poster_path"`
	BackdropPath string       `json:"backdrop_path"`
	VoteAverage  float64      `json:"vote_average"`
	Genres       []Genre      `json:"genres"`
	Runtime      int          `json:"runtime"`
	ReleaseDates ReleaseDates `json:"release_dates"`
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type ReleaseDates struct {
	Results []CountryReleaseDates `json:"results"`
}

type CountryReleaseDates struct {
	Country      string        `json:"iso_3166_1"`
	ReleaseDates []ReleaseDate `json:"release_dates"`
}

type ReleaseDate struct {
	Certification string `json:"certification"`
	ReleaseDate   string `json:"release_date"`
	Type          int    `json:"type"`
}

// Certification returns the first non-empty certification for region,
// then defaultRegion, then the first country (by code) that has one.
func (d *MovieDetails) Certification(region, defaultRegion string) string {
	byCountry := make(map[string]string, len(d.ReleaseDates.Results))
	for _, c := range d.ReleaseDates.Results {
		for _, rd := range c.ReleaseDates {
			if cert := strings.TrimSpace(rd.Certification); cert != "" {
				byCountry[c.Country] = cert
				break
			}
		}
	}
	if len(byCountry) == 0 {
		return ""
	}

	key, ok := resolveRegion(byCountry, region, defaultRegion)
	if !ok {
		return ""
	}
	return byCountry[key]
}

// WatchProvidersResponse is the movie/{id}/watch/providers response.
type WatchProvidersResponse struct {
	ID      int                        `json:"id"`
	Results map[string]RegionProviders `json:"results"`
}

type RegionProviders struct {
	Link     string     `json:"link"`
	Flatrate []Provider `json:"flatrate"`
	Rent     []Provider `json:"rent"`
	Buy      []Provider `json:"buy"`
}

type Provider struct {
	ProviderID   int    `json:"provider_id"`
	ProviderName string `json:"provider_name"`
}

// Platforms maps the flatrate providers of the resolved region onto
// platform keys. Unmapped provider ids are dropped.
func (w *WatchProvidersResponse) Platforms(region, defaultRegion string) map[string]bool {
	platforms := make(map[string]bool)
	if w == nil || len(w.Results) == 0 {
		return platforms
	}

	key, ok := resolveRegion(w.Results, region, defaultRegion)
	if !ok {
		return platforms
	}

	for _, p := range w.Results[key].Flatrate {
		if platform, ok := providerPlatforms[p.ProviderID]; ok {
			platforms[platform] = true
		}
	}
	return platforms
}

type CertificationListResponse struct {
	Certifications map[string][]CertificationEntry `json:"certifications"`
}

type CertificationEntry struct {
	Certification string `json:"certification"`
	Meaning       string `json:"meaning"`
	Order         int    `json:"order"`
}

// providerPlatforms maps TMDB watch provider ids to platform keys.
var providerPlatforms = map[int]string{
	8:    "netflix",
	1796: "netflix",
	337:  "disney",
	9:    "amazon",
	119:  "amazon",
	384:  "hbo",
	1899: "hbo",
	15:   "hulu",
	350:  "apple",
	2:    "apple",
	531:  "paramount",
	386:  "peacock",
	387:  "peacock",
}

// PlatformForProvider returns the platform key for a TMDB provider id.
func PlatformForProvider(providerID int) (string, bool) {
	platform, ok := providerPlatforms[providerID]
	return platform, ok
}

func resolveRegion[V any](byRegion map[string]V, region, defaultRegion string) (string, bool) {
	if _, ok := byRegion[region]; ok && region != "" {
		return region, true
	}
	if _, ok := byRegion[defaultRegion]; ok && defaultRegion != "" {
		return defaultRegion, true
	}

	keys := make([]string, 0, len(byRegion))
	for k := range byRegion {
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return "", false
	}
	sort.Strings(keys)
	return keys[0], true
}

// ---- Request parameters ----

// DiscoverParams are the filters accepted by discover/movie. Zero values
// are omitted from the query.
type DiscoverParams struct {
	SortBy               string
	IncludeAdult         bool
	MinRating            float64
	Certification        string
	CertificationCountry string
	MaxRuntime           int
	GenreIDs             []string
	Page                 int
}

// Values encodes the params as TMDB query parameters. Genres are joined
// with "|" which TMDB treats as OR.
func (p DiscoverParams) Values() url.Values {
	v := url.Values{}

	sortBy := p.SortBy
	if sortBy == "" {
		sortBy = "popularity.desc"
	}
	v.Set("sort_by", sortBy)
	v.Set("include_adult", strconv.FormatBool(p.IncludeAdult))

	if p.MinRating > 0 {
		v.Set("vote_average.gte", strconv.FormatFloat(p.MinRating, 'f', -1, 64))
	}
	if p.Certification != "" {
		v.Set("certification", p.Certification)
		if p.CertificationCountry != "" {
			v.Set("certification_country", p.CertificationCountry)
		}
	}
	if p.MaxRuntime > 0 {
		v.Set("with_runtime.lte", strconv.Itoa(p.MaxRuntime))
	}
	if len(p.GenreIDs) > 0 {
		v.Set("with_genres", strings.Join(p.GenreIDs, "|"))
	}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	return v
}
