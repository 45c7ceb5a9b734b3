package db

import (
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var seedInterests = []string{
	"#vegan", "#geek", "#piercing", "#hiking", "#music",
	"#travel", "#cooking", "#gaming", "#art", "#yoga",
}

// seedCenter is roughly Paris; profiles are scattered within ~60km of it.
const (
	seedCenterLat = 48.8566
	seedCenterLon = 2.3522
)

// SeedTestData resets the database and populates it with demo profiles, likes
// and the matches those likes imply.
//
// Behavior:
//  1. Clears messages, matches, likes and profiles.
//  2. Creates 20 profiles (10 male, 10 female) with hashed passwords, interests,
//     birth dates between 18 and 45 years ago and a location around seedCenter.
//  3. Generates ~200 likes; every 3rd like is reciprocated.
//  4. Inserts a canonical Match row for every mutual pair, so the seeded data
//     already satisfies "match iff both likes".
//
// Compatible with both MySQL and SQLite.
func SeedTestData(db *gorm.DB, log *slog.Logger) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	// --- Fresh start ---
	for _, table := range []string{"messages", "matches", "likes", "profiles"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	switch db.Dialector.Name() {
	case "mysql":
		db.Exec("ALTER TABLE profiles AUTO_INCREMENT = 1")
		db.Exec("ALTER TABLE messages AUTO_INCREMENT = 1")
	case "sqlite":
		db.Exec("DELETE FROM sqlite_sequence WHERE name IN ('profiles', 'messages')")
	}
	log.Info("cleared existing data")

	// bcrypt is slow on purpose, one hash is enough for demo accounts
	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	// --- Seed profiles ---
	profiles := make([]Profile, 0, 20)
	for i := 1; i <= 20; i++ {
		gender, prefs := "male", []string{"female"}
		if i > 10 {
			gender, prefs = "female", []string{"male"}
		}
		birth := time.Now().UTC().AddDate(-(18 + r.Intn(28)), -r.Intn(12), -r.Intn(28))
		lat := seedCenterLat + (r.Float64()-0.5)*1.0
		lon := seedCenterLon + (r.Float64()-0.5)*1.0

		profiles = append(profiles, Profile{
			Username:          fmt.Sprintf("user%d", i),
			Email:             fmt.Sprintf("user%d@example.com", i),
			PasswordHash:      string(hash),
			FirstName:         strings.ToUpper(fmt.Sprintf("u%d", i)),
			Gender:            gender,
			SexualPreferences: prefs,
			Interests:         pickInterests(r),
			BirthDate:         &birth,
			Latitude:          &lat,
			Longitude:         &lon,
		})
	}
	if err := db.Create(&profiles).Error; err != nil {
		return fmt.Errorf("failed to seed profiles: %w", err)
	}
	log.Info("seeded profiles", "count", len(profiles))

	// --- Seed likes (~200) ---
	insertLike := func(liker, liked string) error {
		return db.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&Like{Liker: liker, Liked: liked}).Error
	}

	counter := 0
	for a := range profiles {
		for j := 0; j < 12; j++ { // each user looks at ~12 others
			b := r.Intn(len(profiles))
			if a == b || profiles[a].Gender == profiles[b].Gender {
				continue
			}
			liker, liked := profiles[a].Username, profiles[b].Username

			if err := insertLike(liker, liked); err != nil {
				return fmt.Errorf("failed to seed like: %w", err)
			}
			// guarantee mutual likes every 3rd pair
			if counter%3 == 0 {
				if err := insertLike(liked, liker); err != nil {
					return fmt.Errorf("failed to seed like: %w", err)
				}
			}
			counter++
		}
	}

	// --- Derive matches from mutual likes ---
	var pairs []struct {
		Liker string
		Liked string
	}
	err = db.Table("likes l1").
		Select("l1.liker, l1.liked").
		Joins("JOIN likes l2 ON l2.liker = l1.liked AND l2.liked = l1.liker").
		Where("l1.liker < l1.liked").
		Scan(&pairs).Error
	if err != nil {
		return fmt.Errorf("failed to find mutual likes: %w", err)
	}
	for _, p := range pairs {
		m := Match{UserA: p.Liker, UserB: p.Liked, MatchedAt: time.Now().UTC()}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&m).Error; err != nil {
			return fmt.Errorf("failed to seed match: %w", err)
		}
	}
	log.Info("seeded likes", "count", counter, "matches", len(pairs))

	return nil
}

func pickInterests(r *rand.Rand) []string {
	n := 1 + r.Intn(5) // the profile form caps interests at 5
	perm := r.Perm(len(seedInterests))
	out := make([]string, 0, n)
	for _, idx := range perm[:n] {
		out = append(out, seedInterests[idx])
	}
	return out
}
