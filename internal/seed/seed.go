// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"tapforward/internal/fingerprint"
	"tapforward/internal/models"
	"tapforward/internal/token"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumMessages int
	ShouldClean bool
}

// Seeder populates the database with demo creators, messages, and forward
// trees with views, so the analytics dashboard has something to show.
type Seeder struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewSeeder creates a new Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes previously seeded rows, children first.
func (s *Seeder) ClearAll() error {
	for _, table := range []string{"forward_views", "forwards", "messages", "subscriptions", "users"} {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

// Run seeds users, messages, and a forward tree with views per message.
func (s *Seeder) Run(opts Options) error {
	log.Printf("Seeding %d users and %d messages...", opts.NumUsers, opts.NumMessages)

	users, err := s.seedUsers(opts.NumUsers)
	if err != nil {
		return err
	}
	if err := s.seedSubscriptions(users); err != nil {
		return err
	}

	for i := 0; i < opts.NumMessages; i++ {
		owner := users[s.rng.Intn(len(users))]
		message, err := s.seedMessage(owner)
		if err != nil {
			return err
		}
		if err := s.seedForwardTree(message); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedUsers(n int) ([]*models.User, error) {
	// One shared hash; per-user bcrypt would make big seeds crawl.
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		user := &models.User{
			Username: fmt.Sprintf("%s%d", gofakeit.Username(), i),
			Email:    fmt.Sprintf("seed%d.%s", i, gofakeit.Email()),
			Password: string(hashed),
		}
		if err := s.db.Create(user).Error; err != nil {
			return nil, fmt.Errorf("create seed user: %w", err)
		}
		users = append(users, user)
	}
	return users, nil
}

func (s *Seeder) seedSubscriptions(users []*models.User) error {
	plans := []models.Plan{models.PlanFree, models.PlanGrowth, models.PlanPro}
	for _, user := range users {
		// Most seeded users stay on the free default.
		if s.rng.Intn(100) >= 30 {
			continue
		}
		sub := &models.Subscription{
			UserID: user.ID,
			Plan:   plans[1+s.rng.Intn(2)],
			Status: models.SubscriptionStatusActive,
		}
		if err := s.db.Create(sub).Error; err != nil {
			return fmt.Errorf("create seed subscription: %w", err)
		}
	}
	return nil
}

func (s *Seeder) seedMessage(owner *models.User) (*models.Message, error) {
	suffix, err := token.New(6)
	if err != nil {
		return nil, err
	}
	message := &models.Message{
		Slug:          fmt.Sprintf("%s-%s", gofakeit.Word(), suffix),
		Title:         gofakeit.Sentence(4),
		Content:       gofakeit.Paragraph(1, 3, 8, "\n"),
		UnlocksNeeded: models.ClampUnlocksNeeded(1 + s.rng.Intn(5)),
		UserID:        owner.ID,
		CreatedAt:     time.Now().Add(-time.Duration(s.rng.Intn(36)) * time.Hour),
	}
	if err := s.db.Create(message).Error; err != nil {
		return nil, fmt.Errorf("create seed message: %w", err)
	}
	return message, nil
}

// seedForwardTree builds a small sharing tree under the message: one root
// per sharer, some children hanging off earlier forwards, and a sprinkle of
// unique views so some forwards end up unlocked.
func (s *Seeder) seedForwardTree(message *models.Message) error {
	forwards := make([]*models.Forward, 0, 8)

	roots := 1 + s.rng.Intn(2)
	children := s.rng.Intn(6)
	for i := 0; i < roots+children; i++ {
		var parentID *uint
		if i >= roots && len(forwards) > 0 {
			parentID = &forwards[s.rng.Intn(len(forwards))].ID
		}

		code, err := token.NewCode()
		if err != nil {
			return err
		}
		fp := fingerprint.Resolve(gofakeit.IPv4Address(), gofakeit.UserAgent())
		fwd := &models.Forward{
			MessageID:       message.ID,
			ParentID:        parentID,
			AnonFingerprint: &fp,
			UniqueCode:      code,
		}
		if err := s.db.Create(fwd).Error; err != nil {
			return fmt.Errorf("create seed forward: %w", err)
		}
		forwards = append(forwards, fwd)

		views := s.rng.Intn(message.UnlocksNeeded + 2)
		for v := 0; v < views; v++ {
			view := &models.ForwardView{
				ForwardID:         fwd.ID,
				ViewerFingerprint: fingerprint.Resolve(gofakeit.IPv4Address(), gofakeit.UserAgent()),
			}
			if err := s.db.Create(view).Error; err != nil {
				return fmt.Errorf("create seed view: %w", err)
			}
		}
	}
	return nil
}
