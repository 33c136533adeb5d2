// Package main seeds a data directory with demo users and lessons.
//
// Lessons go through the lesson service so the query index stays in step
// with the store.
//
// Usage:
//
//	DATA_PATH=~/LessonsServer/data go run ./cmd/seed
//	DATA_PATH=~/LessonsServer/data go run ./cmd/seed -lessons 50 -private 0.3
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/listenupapp/lessons-server/internal/domain"
	"github.com/listenupapp/lessons-server/internal/logger"
	"github.com/listenupapp/lessons-server/internal/search"
	"github.com/listenupapp/lessons-server/internal/service"
	"github.com/listenupapp/lessons-server/internal/store"
)

var (
	lessonCount  = flag.Int("lessons", 24, "Number of lessons to create")
	privateShare = flag.Float64("private", 0.25, "Fraction of lessons created as Private")
	password     = flag.String("password", "password123", "Password for the seeded accounts")
)

var (
	categories = []string{"Career", "Relationships", "Health", "Mindset", "Money"}
	tones      = []string{"Motivational", "Reflective", "Gratitude", "Realization", "Sad"}
	titles     = []string{
		"What losing a job taught me",
		"Saying no without guilt",
		"Small habits, big change",
		"The cost of waiting",
		"Asking for help",
		"Forgiving myself",
		"Learning C++ (the hard way)",
		"Money is a tool",
	}
)

type seedUser struct {
	email, name string
	role        domain.Role
	premium     bool
}

var seedUsers = []seedUser{
	{"admin@lessons.test", "Ada Admin", domain.RoleAdmin, true},
	{"pro@lessons.test", "Pat Premium", domain.RoleUser, true},
	{"reader@lessons.test", "Rey Reader", domain.RoleUser, false},
}

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/LessonsServer/data")
	}
	fmt.Printf("Seeding data directory: %s\n", dataPath)

	slogger := logger.Discard().Logger

	st, err := store.New(filepath.Join(dataPath, "db"), slogger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	index, err := search.NewLessonIndex(search.Options{DataPath: filepath.Join(dataPath, "search"), Logger: slogger})
	if err != nil {
		log.Fatalf("Failed to open lesson index: %v", err)
	}
	defer index.Close()
	st.SetLessonIndexer(index)

	ctx := context.Background()
	users := service.NewUserService(st, slogger)
	lessons := service.NewLessonService(st, index, slogger)

	authors := make([]*domain.User, 0, len(seedUsers))
	for _, su := range seedUsers {
		user, err := ensureUser(ctx, st, users, su)
		if err != nil {
			log.Fatalf("Failed to seed user %s: %v", su.email, err)
		}
		authors = append(authors, user)
	}

	rng := rand.New(rand.NewPCG(42, 7))
	created := 0
	for n := range *lessonCount {
		author := authors[rng.IntN(len(authors))]

		visibility := domain.VisibilityPublic
		if rng.Float64() < *privateShare {
			visibility = domain.VisibilityPrivate
		}
		access := domain.AccessFree
		if author.IsPremium && rng.IntN(4) == 0 {
			access = domain.AccessPremium
		}

		lesson, err := lessons.Create(ctx, author, service.CreateLessonRequest{
			Title:         fmt.Sprintf("%s #%d", titles[n%len(titles)], n+1),
			Description:   "A short story about something that changed how I see things.",
			Category:      categories[rng.IntN(len(categories))],
			EmotionalTone: tones[rng.IntN(len(tones))],
			Visibility:    visibility,
			AccessLevel:   access,
		})
		if err != nil {
			log.Printf("Failed to create lesson %d: %v", n+1, err)
			continue
		}
		created++

		// Spread a few likes so most-saved ordering has something to sort.
		for _, liker := range authors {
			if rng.IntN(2) == 0 {
				if _, err := lessons.ToggleLike(ctx, liker, lesson.ID); err != nil {
					log.Printf("Failed to like lesson %s: %v", lesson.ID, err)
				}
			}
		}
	}

	fmt.Printf("Created %d lessons for %d users\n", created, len(authors))
	for _, su := range seedUsers {
		fmt.Printf("  %-22s role=%-5s premium=%v\n", su.email, su.role, su.premium)
	}
}

func ensureUser(ctx context.Context, st *store.Store, users *service.UserService, su seedUser) (*domain.User, error) {
	user, _, err := users.CreateIfAbsent(ctx, service.CreateUserRequest{
		Email:       su.email,
		DisplayName: su.name,
		Password:    *password,
	})
	if err != nil {
		return nil, err
	}
	if su.role != domain.RoleUser && user.Role != su.role {
		if user, err = st.SetUserRole(ctx, user.ID, su.role); err != nil {
			return nil, err
		}
	}
	if su.premium && !user.IsPremium {
		if user, err = st.MarkUserPremium(ctx, user.Email, user.CreatedAt); err != nil {
			return nil, err
		}
	}
	return user, nil
}
