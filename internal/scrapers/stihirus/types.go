package stihirus

// AuthorIdentity is the canonical identity an identifier resolves to. It is
// created once per resolution and never changed afterwards.
type AuthorIdentity struct {
	AuthorId            int64  `json:"authorId"`
	Username            string `json:"username"`
	CanonicalProfileUrl string `json:"profileUrl"`
}

type AuthorStats struct {
	// the site's own declared count, it may differ from the number of poems
	// that can actually be retrieved
	PoemsDeclared   int `json:"poems"`
	ReviewsSent     int `json:"reviewsSent"`
	ReviewsReceived int `json:"reviewsReceived"`
}

type Collection struct {
	Name string `json:"name"`
	Url  string `json:"url"`
}

// ProfileFields is everything the profile page says about an author.
type ProfileFields struct {
	DisplayName   string       `json:"displayName"`
	Description   string       `json:"description"`
	AvatarUrl     *string      `json:"avatarUrl"`
	HeaderUrl     *string      `json:"headerUrl"`
	Status        string       `json:"status"`
	LastVisitText string       `json:"lastVisit"`
	IsPremium     bool         `json:"isPremium"`
	Stats         AuthorStats  `json:"stats"`
	Collections   []Collection `json:"collections"`
}

type AuthorProfile struct {
	AuthorIdentity
	CanonicalUsername string `json:"canonicalUsername"`
	ProfileFields
	Poems []Poem `json:"poems"`
}

type Rubric struct {
	Name string  `json:"name"`
	Url  *string `json:"url"`
}

type Contest struct {
	Id   int64  `json:"id"`
	Name string `json:"name"`
}

type HolidaySection struct {
	Id    int64   `json:"id"`
	Url   *string `json:"url"`
	Title string  `json:"title"`
}

type PoemAuthor struct {
	Id         int64   `json:"id"`
	Username   string  `json:"username"`
	ProfileUrl *string `json:"profileUrl"`
}

type UniquenessStatus int

const (
	UniquenessUnknown   UniquenessStatus = -1
	UniquenessNotUnique UniquenessStatus = 0
	UniquenessUnique    UniquenessStatus = 1
)

type Poem struct {
	Id               int64            `json:"id"`
	Title            string           `json:"title"`
	Text             string           `json:"text"`
	CreatedText      string           `json:"created"`
	Rubric           Rubric           `json:"rubric"`
	CollectionName   *string          `json:"collection"`
	Rating           int              `json:"rating"`
	CommentsCount    int              `json:"commentsCount"`
	ImageUrl         *string          `json:"imageUrl"`
	HasCertificate   bool             `json:"hasCertificate"`
	Gifts            []string         `json:"gifts"`
	UniquenessStatus UniquenessStatus `json:"uniquenessStatus"`
	Contest          *Contest         `json:"contest"`
	HolidaySection   *HolidaySection  `json:"holidaySection"`
	Author           *PoemAuthor      `json:"author"`
}

type RubricFilter struct {
	Id    int64  `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type DateFilter struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Count int `json:"count"`
}

type AuthorFilters struct {
	Rubrics []RubricFilter `json:"rubrics"`
	Dates   []DateFilter   `json:"dates"`
}

// FilterOptions narrows the poems returned for an author, zero fields are
// not applied.
type FilterOptions struct {
	RubricId int64
	Year     int
	Month    int
}

func (f FilterOptions) Active() bool {
	return f.RubricId != 0 || f.Year != 0 || f.Month != 0
}

func (f FilterOptions) Validate() error {
	if f.RubricId < 0 {
		return invalidInput("invalid rubric id %d", f.RubricId)
	}
	if f.Year < 0 {
		return invalidInput("invalid year %d", f.Year)
	}
	if f.Month != 0 && (f.Month < 1 || f.Month > 12) {
		return invalidInput("invalid month %d, expected 1..12", f.Month)
	}
	return nil
}

type HomepageAuthor struct {
	Username          string  `json:"username"`
	CanonicalUsername string  `json:"canonicalUsername"`
	ProfileUrl        string  `json:"profileUrl"`
	AvatarUrl         *string `json:"avatarUrl"`
	PoemsCount        *int    `json:"poemsCount"`
	Rating            *int    `json:"rating"`
}

type HomepagePoem struct {
	Id               int64  `json:"id"`
	Title            string `json:"title"`
	Url              string `json:"url"`
	AuthorUsername   string `json:"authorUsername"`
	AuthorProfileUrl string `json:"authorProfileUrl"`
	Rating           *int   `json:"rating"`
	CommentsCount    *int   `json:"commentsCount"`
}

type Homepage struct {
	RecommendedAuthors []HomepageAuthor `json:"recommendedAuthors"`
	WeeklyRatedAuthors []HomepageAuthor `json:"weeklyRatedAuthors"`
	ActiveAuthors      []HomepageAuthor `json:"activeAuthors"`
	PromoPoems         []HomepagePoem   `json:"promoPoems"`
}
