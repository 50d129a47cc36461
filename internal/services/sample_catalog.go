package services

import (
	"context"

	"github.com/temcen/popcornpick/pkg/models"
)

// CandidateSource supplies raw candidate movies for a household query.
type CandidateSource interface {
	Name() string
	FetchCandidates(ctx context.Context, constraints *HouseholdConstraints, answers *models.QuestionnaireAnswers) ([]models.Movie, error)
}

// SampleSource serves the built-in sample catalog. The query only shapes a
// remote catalog request, so every sample movie is returned and the filter
// does the work.
type SampleSource struct{}

func NewSampleSource() *SampleSource {
	return &SampleSource{}
}

func (s *SampleSource) Name() string { return "sample" }

func (s *SampleSource) FetchCandidates(ctx context.Context, _ *HouseholdConstraints, _ *models.QuestionnaireAnswers) ([]models.Movie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return SampleMovies(), nil
}

// SampleMovies returns a fresh copy of the sample catalog.
func SampleMovies() []models.Movie {
	movies := make([]models.Movie, len(sampleMovies))
	for i, m := range sampleMovies {
		movies[i] = m.Snapshot()
	}
	return movies
}

func ratings(violence, language, sexual, frightening int) *models.ContentRatings {
	return &models.ContentRatings{
		Violence:      violence,
		Language:      language,
		SexualContent: sexual,
		Frightening:   frightening,
	}
}

var sampleMovies = []models.Movie{
	{
		ID:             1,
		Title:          "The Incredibles",
		Overview:       "A family of undercover superheroes, while trying to live the quiet suburban life, are forced into action to save the world.",
		PosterPath:     "https://images.pexels.com/photos/2774556/pexels-photo-2774556.jpeg",
		BackdropPath:   "https://images.pexels.com/photos/436413/pexels-photo-436413.jpeg",
		ReleaseDate:    "2004-11-05",
		VoteAverage:    8.0,
		GenreIDs:       []int{16, 10751, 28, 12},
		Runtime:        115,
		Providers:      map[string]bool{"disney": true},
		ContentRatings: ratings(2, 1, 1, 2),
	},
	{
		ID:             2,
		Title:          "Finding Nemo",
		Overview:       "After his son is captured in the Great Barrier Reef and taken to Sydney, a timid clownfish sets out on a journey to bring him home.",
		PosterPath:     "https://images.pexels.com/photos/3374937/pexels-photo-3374937.jpeg",
		BackdropPath:   "https://images.pexels.com/photos/3374946/pexels-photo-3374946.jpeg",
		ReleaseDate:    "2003-05-30",
		VoteAverage:    8.1,
		GenreIDs:       []int{16, 10751, 12},
		Runtime:        100,
		Providers:      map[string]bool{"disney": true, "netflix": true},
		ContentRatings: ratings(1, 1, 1, 2),
	},
	{
		ID:             3,
		Title:          "Toy Story",
		Overview:       "A cowboy doll is profoundly threatened and jealous when a new spaceman figure supplants him as top toy in a boy's room.",
		PosterPath:     "https://images.pexels.com/photos/163036/mario-luigi-yoschi-figures-163036.jpeg",
		BackdropPath:   "https://images.pexels.com/photos/163036/mario-luigi-yoschi-figures-163036.jpeg",
		ReleaseDate:    "1995-11-22",
		VoteAverage:    8.3,
		GenreIDs:       []int{16, 10751, 35},
		Runtime:        81,
		Providers:      map[string]bool{"disney": true},
		ContentRatings: ratings(1, 1, 1, 2),
	},
	{
		ID:             4,
		Title:          "How to Train Your Dragon",
		Overview:       "A hapless young Viking who aspires to hunt dragons becomes the unlikely friend of a young dragon himself.",
		PosterPath:     "https://images.pexels.com/photos/1661535/pexels-photo-1661535.jpeg",
		BackdropPath:   "https://images.pexels.com/photos/1661535/pexels-photo-1661535.jpeg",
		ReleaseDate:    "2010-03-26",
		VoteAverage:    7.8,
		GenreIDs:       []int{16, 10751, 12, 14},
		Runtime:        98,
		Providers:      map[string]bool{"netflix": true},
		ContentRatings: ratings(2, 1, 1, 2),
	},
	{
		ID:             5,
		Title:          "The Princess Bride",
		Overview:       "While home sick in bed, a young boy's grandfather reads him the story of a farmboy-turned-pirate who encounters numerous obstacles on the quest to be reunited with his true love.",
		PosterPath:     "https://images.pexels.com/photos/1152994/pexels-photo-1152994.jpeg",
		BackdropPath:   "https://images.pexels.com/photos/1152994/pexels-photo-1152994.jpeg",
		ReleaseDate:    "1987-09-25",
		VoteAverage:    7.7,
		GenreIDs:       []int{12, 35, 10749, 14},
		Runtime:        98,
		Providers:      map[string]bool{"netflix": true, "amazon": true},
		ContentRatings: ratings(2, 1, 1, 2),
	},
	{
		ID:             6,
		Title:          "The Lego Movie",
		Overview:       "An ordinary LEGO construction worker is recruited to join a quest to stop an evil tyrant from gluing the LEGO universe into eternal stasis.",
		PosterPath:     "https://images.pexels.com/photos/163036/mario-luigi-yoschi-figures-163036.jpeg",
		BackdropPath:   "https://images.pexels.com/photos/163036/mario-luigi-yoschi-figures-163036.jpeg",
		ReleaseDate:    "2014-02-07",
		VoteAverage:    7.7,
		GenreIDs:       []int{16, 10751, 35, 12},
		Runtime:        100,
		Providers:      map[string]bool{"hbo": true},
		ContentRatings: ratings(1, 1, 1, 1),
	},
	{
		ID:             7,
		Title:          "Night at the Museum",
		Overview:       "A newly recruited night security guard at the Museum of Natural History discovers that an ancient curse causes the animals and exhibits on display to come to life and wreak havoc.",
		PosterPath:     "https://images.pexels.com/photos/2372978/pexels-photo-2372978.jpeg",
		BackdropPath:   "https://images.pexels.com/photos/2372978/pexels-photo-2372978.jpeg",
		ReleaseDate:    "2006-12-22",
		VoteAverage:    6.7,
		GenreIDs:       []int{35, 12, 14, 10751},
		Runtime:        108,
		Providers:      map[string]bool{"disney": true},
		ContentRatings: ratings(2, 1, 1, 2),
	},
	{
		ID:             8,
		Title:          "The Neverending Story",
		Overview:       "A troubled boy dives into a wondrous fantasy world through the pages of a mysterious book.",
		PosterPath:     "https://images.pexels.com/photos/2099691/pexels-photo-2099691.jpeg",
		BackdropPath:   "https://images.pexels.com/photos/2099691/pexels-photo-2099691.jpeg",
		ReleaseDate:    "1984-07-20",
		VoteAverage:    7.4,
		GenreIDs:       []int{12, 14, 10751},
		Runtime:        102,
		Providers:      map[string]bool{"netflix": true, "hbo": true},
		ContentRatings: ratings(2, 1, 1, 3),
	},
	{
		ID:             9,
		Title:          "The Iron Giant",
		Overview:       "A young boy befriends a giant robot from outer space that a paranoid government agent wants to destroy.",
		PosterPath:     "https://images.pexels.com/photos/2085831/pexels-photo-2085831.jpeg",
		BackdropPath:   "https://images.pexels.com/photos/2085831/pexels-photo-2085831.jpeg",
		ReleaseDate:    "1999-08-06",
		VoteAverage:    8.0,
		GenreIDs:       []int{16, 10751, 878},
		Runtime:        86,
		Providers:      map[string]bool{"hbo": true},
		ContentRatings: ratings(2, 1, 1, 2),
	},
	{
		ID:             10,
		Title:          "The Wizard of Oz",
		Overview:       "Dorothy Gale is swept away from a farm in Kansas to a magical land of Oz in a tornado and embarks on a quest with her new friends to see the Wizard.",
		PosterPath:     "https://images.pexels.com/photos/2873486/pexels-photo-2873486.jpeg",
		BackdropPath:   "https://images.pexels.com/photos/2873486/pexels-photo-2873486.jpeg",
		ReleaseDate:    "1939-08-25",
		VoteAverage:    7.6,
		GenreIDs:       []int{12, 14, 10751},
		Runtime:        102,
		Providers:      map[string]bool{"hbo": true, "amazon": true},
		ContentRatings: ratings(1, 1, 1, 2),
	},
}
