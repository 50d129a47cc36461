package models

type Option struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ValueOption struct {
	Value interface{} `json:"value"`
	Label string      `json:"label"`
}

var GenreOptions = []Option{
	{ID: "28", Name: "Action"},
	{ID: "12", Name: "Adventure"},
	{ID: "16", Name: "Animation"},
	{ID: "35", Name: "Comedy"},
	{ID: "80", Name: "Crime"},
	{ID: "99", Name: "Documentary"},
	{ID: "18", Name: "Drama"},
	{ID: "10751", Name: "Family"},
	{ID: "14", Name: "Fantasy"},
	{ID: "36", Name: "History"},
	{ID: "27", Name: "Horror"},
	{ID: "10402", Name: "Music"},
	{ID: "9648", Name: "Mystery"},
	{ID: "10749", Name: "Romance"},
	{ID: "878", Name: "Science Fiction"},
	{ID: "10770", Name: "TV Movie"},
	{ID: "53", Name: "Thriller"},
	{ID: "10752", Name: "War"},
	{ID: "37", Name: "Western"},
}

// PlatformOptions is ordered; PlatformName looks names up by key.
var PlatformOptions = []Option{
	{ID: "netflix", Name: "Netflix"},
	{ID: "disney", Name: "Disney+"},
	{ID: "amazon", Name: "Amazon Prime"},
	{ID: "hbo", Name: "HBO Max"},
	{ID: "hulu", Name: "Hulu"},
	{ID: "apple", Name: "Apple TV+"},
	{ID: "paramount", Name: "Paramount+"},
	{ID: "peacock", Name: "Peacock"},
}

var MoodOptions = []Option{
	{ID: "happy", Name: "Happy/Fun"},
	{ID: "relaxed", Name: "Relaxed/Chill"},
	{ID: "excited", Name: "Excited/Adventurous"},
	{ID: "thoughtful", Name: "Thoughtful/Dramatic"},
	{ID: "nostalgic", Name: "Nostalgic"},
	{ID: "inspired", Name: "Inspired/Motivated"},
	{ID: "surprised", Name: "Surprised/Unexpected"},
	{ID: "scared", Name: "Scary/Thrilling"},
}

var DurationOptions = []ValueOption{
	{Value: 90, Label: "Less than 90 minutes"},
	{Value: 120, Label: "Less than 2 hours"},
	{Value: 150, Label: "Less than 2.5 hours"},
	{Value: NoDurationLimit, Label: "Any length"},
}

var RatingOptions = []ValueOption{
	{Value: 7.5, Label: "7.5+"},
	{Value: 8.0, Label: "8+"},
	{Value: 8.5, Label: "8.5+"},
	{Value: 9.0, Label: "9+"},
	{Value: 0, Label: "Any rating"},
}

var CertificationOptions = []ValueOption{
	{Value: "G", Label: "G - General Audiences"},
	{Value: "PG", Label: "PG - Parental Guidance Suggested"},
	{Value: "PG-13", Label: "PG-13 - Parents Strongly Cautioned"},
	{Value: "R", Label: "R - Restricted"},
	{Value: "NC-17", Label: "NC-17 - Adults Only"},
	{Value: "", Label: "Any certification"},
}

var LanguageOptions = []Option{
	{ID: "en", Name: "English"},
	{ID: "fr", Name: "French"},
	{ID: "es", Name: "Spanish"},
	{ID: "de", Name: "German"},
	{ID: "it", Name: "Italian"},
	{ID: "ja", Name: "Japanese"},
	{ID: "ko", Name: "Korean"},
	{ID: "zh", Name: "Chinese"},
	{ID: "hi", Name: "Hindi"},
	{ID: "ru", Name: "Russian"},
}

var platformNames = func() map[string]string {
	names := make(map[string]string, len(PlatformOptions))
	for _, p := range PlatformOptions {
		names[p.ID] = p.Name
	}
	return names
}()

// PlatformName returns the display name for a platform key.
func PlatformName(id string) (string, bool) {
	name, ok := platformNames[id]
	return name, ok
}
