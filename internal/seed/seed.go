// Package seed fills the store with fake organizations, users, memberships, polls and votes.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/emilythestrangee/civic-polls/backend/internal/auth"
	"github.com/emilythestrangee/civic-polls/backend/internal/models"
	"github.com/emilythestrangee/civic-polls/backend/internal/store"
)

// Password is shared by every seeded user.
const Password = "5309"

var pollOptions = []string{"for", "against"}

// Counts is how many records of each kind to create.
type Counts struct {
	Users         int
	Organizations int
	Memberships   int
	Polls         int
	Votes         int
}

func DefaultCounts() Counts {
	return Counts{Users: 50, Organizations: 10, Memberships: 100, Polls: 50, Votes: 200}
}

// Result holds the created records.
type Result struct {
	Users         []models.User
	Organizations []models.Organization
	Memberships   []models.Membership
	Polls         []models.Poll
	Votes         []models.Vote
}

// Seeder creates fake records through the store. A fixed seed yields the same data every run.
type Seeder struct {
	store *store.Store
	faker *gofakeit.Faker
}

func New(s *store.Store, seed uint64) *Seeder {
	return &Seeder{store: s, faker: gofakeit.New(seed)}
}

// Run creates counts records. Votes go through the vote recorder, so picking the same
// (poll, user) twice overwrites the earlier vote and Result.Votes may hold fewer distinct votes.
func (s *Seeder) Run(ctx context.Context, counts Counts) (*Result, error) {
	res := &Result{}

	hash, err := auth.HashPassword(Password)
	if err != nil {
		return nil, err
	}

	for i := 0; i < counts.Users; i++ {
		user := models.User{
			Name:                truncate(s.faker.Name(), 70),
			Phone:               truncate(s.faker.Phone(), 15),
			Email:               fmt.Sprintf("member%d@civicpolls.test", i),
			CommunicationMedium: s.faker.RandomString([]string{models.MediumPhone, models.MediumEmail}),
			ImageURL:            s.faker.URL(),
			PasswordHash:        hash,
		}
		if err := s.store.Users.Create(ctx, &user); err != nil {
			return nil, fmt.Errorf("seeding user %d: %w", i, err)
		}
		res.Users = append(res.Users, user)
	}

	for i := 0; i < counts.Organizations; i++ {
		org := models.Organization{
			Title:       truncate(s.sentence(5), 70),
			Description: truncate(s.sentence(12), 150),
			ImageURL:    s.faker.URL() + "/images",
		}
		if err := s.store.Organizations.Create(ctx, &org); err != nil {
			return nil, fmt.Errorf("seeding organization %d: %w", i, err)
		}
		res.Organizations = append(res.Organizations, org)
	}

	if len(res.Users) > 0 && len(res.Organizations) > 0 {
		for i := 0; i < counts.Memberships; i++ {
			m := models.Membership{
				OrganizationID: pick(s.faker, res.Organizations).ID,
				UserID:         pick(s.faker, res.Users).ID,
			}
			if err := s.store.Memberships.Create(ctx, &m); err != nil {
				return nil, fmt.Errorf("seeding membership %d: %w", i, err)
			}
			res.Memberships = append(res.Memberships, m)
		}
	}

	if len(res.Organizations) > 0 {
		for i := 0; i < counts.Polls; i++ {
			poll := models.Poll{
				OrganizationID: pick(s.faker, res.Organizations).ID,
				Title:          truncate(s.sentence(5), 70),
				Description:    truncate(s.sentence(15), 200),
				Options:        append([]string(nil), pollOptions...),
			}
			if err := s.store.Polls.Create(ctx, &poll); err != nil {
				return nil, fmt.Errorf("seeding poll %d: %w", i, err)
			}
			res.Polls = append(res.Polls, poll)
		}
	}

	if len(res.Polls) > 0 && len(res.Users) > 0 {
		for i := 0; i < counts.Votes; i++ {
			vote, err := s.store.Votes.Record(ctx,
				pick(s.faker, res.Polls).ID,
				pick(s.faker, res.Users).ID,
				s.faker.RandomString(pollOptions),
			)
			if err != nil {
				return nil, fmt.Errorf("seeding vote %d: %w", i, err)
			}
			res.Votes = append(res.Votes, *vote)
		}
	}

	slog.Info("seeded database",
		"users", len(res.Users),
		"organizations", len(res.Organizations),
		"memberships", len(res.Memberships),
		"polls", len(res.Polls),
		"votes", len(res.Votes),
	)
	return res, nil
}

func (s *Seeder) sentence(words int) string {
	parts := make([]string, words)
	for i := range parts {
		parts[i] = s.faker.Word()
	}
	return strings.Join(parts, " ") + "."
}

func pick[T any](f *gofakeit.Faker, items []T) T {
	return items[f.Number(0, len(items)-1)]
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
