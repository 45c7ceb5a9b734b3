// Package candidate scores and orders profiles to show a requester.
package candidate

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/oggyb/muzz-realtime/internal/db"
)

const earthRadiusKm = 6371.0

// Profile is the part of a stored profile ranking looks at.
type Profile struct {
	Identity    string
	FirstName   string
	Gender      string
	Preferences []string
	Interests   []string
	BirthDate   *time.Time
	Latitude    *float64
	Longitude   *float64
}

func FromDB(p db.Profile) Profile {
	return Profile{
		Identity:    p.Username,
		FirstName:   p.FirstName,
		Gender:      p.Gender,
		Preferences: p.SexualPreferences,
		Interests:   p.Interests,
		BirthDate:   p.BirthDate,
		Latitude:    p.Latitude,
		Longitude:   p.Longitude,
	}
}

// Filters are all optional. A zero value filters nothing but the requester.
type Filters struct {
	MinAge        int
	MaxAge        int
	MaxDistanceKm int
	Interests     []string
	// Exclude holds identities the requester already liked or matched.
	Exclude map[string]struct{}
}

// Candidate is a ranked profile.
type Candidate struct {
	Profile
	Score      float64
	Age        *int
	DistanceKm *int
}

// Rank filters candidates for requester and orders them by common-interest
// score, highest first. Ties keep input order. The result depends only on
// the arguments.
func Rank(requester Profile, candidates []Profile, f Filters, now time.Time) []Candidate {
	mine := normalizedSet(requester.Interests)
	wanted := normalizedSet(f.Interests)

	out := make([]Candidate, 0, len(candidates))
	for _, p := range candidates {
		if p.Identity == requester.Identity {
			continue
		}
		if _, skip := f.Exclude[p.Identity]; skip {
			continue
		}

		c := Candidate{Profile: p}

		if p.BirthDate != nil {
			age := AgeAt(*p.BirthDate, now)
			c.Age = &age
		}
		if f.MinAge > 0 || f.MaxAge > 0 {
			if c.Age == nil {
				continue
			}
			if f.MinAge > 0 && *c.Age < f.MinAge {
				continue
			}
			if f.MaxAge > 0 && *c.Age > f.MaxAge {
				continue
			}
		}

		if hasLocation(requester) && hasLocation(p) {
			d := int(math.Round(DistanceKm(*requester.Latitude, *requester.Longitude, *p.Latitude, *p.Longitude)))
			c.DistanceKm = &d
		}
		if f.MaxDistanceKm > 0 {
			if c.DistanceKm == nil || *c.DistanceKm > f.MaxDistanceKm {
				continue
			}
		}

		if len(wanted) > 0 && !intersects(wanted, normalizedSet(p.Interests)) {
			continue
		}

		if !compatible(requester, p) {
			continue
		}

		c.Score = score(mine, p.Interests)
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// AgeAt returns full years between birth and now.
func AgeAt(birth, now time.Time) int {
	birth, now = birth.UTC(), now.UTC()
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age
}

// DistanceKm is the haversine great-circle distance.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLon := (lon2 - lon1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Normalize strips one leading '#' and lower-cases.
func Normalize(tag string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
}

func normalizedSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		if n := Normalize(t); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

func intersects(a, b map[string]struct{}) bool {
	for k := range a {
		if _, ok := b[k]; ok {
			return true
		}
	}
	return false
}

func score(mine map[string]struct{}, theirs []string) float64 {
	if len(mine) == 0 {
		return 0
	}
	common := 0
	for k := range normalizedSet(theirs) {
		if _, ok := mine[k]; ok {
			common++
		}
	}
	return float64(common) / float64(len(mine))
}

func hasLocation(p Profile) bool { return p.Latitude != nil && p.Longitude != nil }

// compatible checks declared preferences both ways. An unknown gender or an
// empty preference list accepts anyone.
func compatible(a, b Profile) bool {
	return accepts(a.Preferences, b.Gender) && accepts(b.Preferences, a.Gender)
}

func accepts(prefs []string, gender string) bool {
	if len(prefs) == 0 || gender == "" {
		return true
	}
	for _, p := range prefs {
		if strings.EqualFold(p, gender) {
			return true
		}
	}
	return false
}
