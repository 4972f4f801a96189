package model

// Certification values allowed for the movies.certification enum column.
const (
    CertificationG    = "G"
    CertificationPG   = "PG"
    CertificationPG13 = "PG13"
    CertificationR    = "R"
    CertificationNC17 = "NC17"
)

// ValidCertification reports whether s is one of the allowed enum values.
func ValidCertification(s string) bool {
    switch s {
    case CertificationG, CertificationPG, CertificationPG13, CertificationR, CertificationNC17:
        return true
    }
    return false
}

// Country mirrors the `countries` table. Name may be empty because only
// the ISO code is required when a country is first referenced by a movie.
type Country struct {
    ID   uint64 // countries.id
    Code string // countries.code (unique, e.g. "US")
    Name string // countries.name (optional)
}

// Genre mirrors the `genres` table.
type Genre struct {
    ID   uint64 // genres.id
    Name string // genres.name (unique)
}

// Actor mirrors the `actors` table.
type Actor struct {
    ID   uint64 // actors.id
    Name string // actors.name (unique)
}

// Director mirrors the `directors` table.
type Director struct {
    ID   uint64 // directors.id
    Name string // directors.name (unique)
}

// Language mirrors the `languages` table.
type Language struct {
    ID   uint64 // languages.id
    Name string // languages.name (unique)
}

// Movie mirrors the `movies` table. Monetary and rating columns are
// DECIMAL in MySQL and carried as float64 here; the database rounds on
// write. The (Name, Year, Duration) triple is unique.
type Movie struct {
    ID            uint64  // movies.id
    UUID          string  // movies.uuid (unique)
    Name          string  // movies.name
    Year          int     // movies.year
    Duration      int     // movies.duration (minutes)
    IMDB          float64 // movies.imdb
    IMDBVotes     int     // movies.imdb_votes
    Description   string  // movies.description
    Budget        float64 // movies.budget
    Revenue       float64 // movies.revenue
    Certification string  // movies.certification enum
    Price         float64 // movies.price
    CountryID     uint64  // movies.country_id -> countries.id
}
