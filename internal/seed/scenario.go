package seed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"snapshare/internal/models"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

// Scenario is a hand-written data set, usually kept next to the demo
// environment as YAML. Users are referenced by email everywhere else.
//
//	users:
//	  - name: Ada Lovelace
//	    email: ada@example.com
//	posts:
//	  - author: ada@example.com
//	    caption: First light
//	    liked_by: [grace@example.com]
//	    comments:
//	      - author: grace@example.com
//	        text: Lovely
//	follows:
//	  - follower: grace@example.com
//	    following: ada@example.com
type Scenario struct {
	Users   []ScenarioUser   `yaml:"users"`
	Posts   []ScenarioPost   `yaml:"posts"`
	Follows []ScenarioFollow `yaml:"follows"`
}

type ScenarioUser struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
	Bio   string `yaml:"bio"`
	Image string `yaml:"image"`
}

type ScenarioPost struct {
	Author   string            `yaml:"author"`
	Caption  string            `yaml:"caption"`
	ImageURL string            `yaml:"image_url"`
	AgeHours int               `yaml:"age_hours"`
	LikedBy  []string          `yaml:"liked_by"`
	Comments []ScenarioComment `yaml:"comments"`
}

type ScenarioComment struct {
	Author string `yaml:"author"`
	Text   string `yaml:"text"`
}

type ScenarioFollow struct {
	Follower  string `yaml:"follower"`
	Following string `yaml:"following"`
}

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes YAML and checks that every reference names a
// declared user.
func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	if err := sc.validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (sc *Scenario) validate() error {
	if len(sc.Users) == 0 {
		return errors.New("scenario declares no users")
	}
	known := make(map[string]bool, len(sc.Users))
	for i := range sc.Users {
		u := &sc.Users[i]
		u.Email = models.NormalizeEmail(u.Email)
		if u.Email == "" || strings.TrimSpace(u.Name) == "" {
			return fmt.Errorf("user #%d needs a name and an email", i+1)
		}
		if known[u.Email] {
			return fmt.Errorf("user %s declared twice", u.Email)
		}
		known[u.Email] = true
	}

	ref := func(what, email string) error {
		if !known[models.NormalizeEmail(email)] {
			return fmt.Errorf("%s references unknown user %q", what, email)
		}
		return nil
	}
	for i, p := range sc.Posts {
		where := fmt.Sprintf("post #%d", i+1)
		if err := ref(where, p.Author); err != nil {
			return err
		}
		if strings.TrimSpace(p.Caption) == "" && p.ImageURL == "" {
			return fmt.Errorf("%s has neither caption nor image", where)
		}
		for _, liker := range p.LikedBy {
			if err := ref(where+" like", liker); err != nil {
				return err
			}
		}
		for _, c := range p.Comments {
			if err := ref(where+" comment", c.Author); err != nil {
				return err
			}
			if strings.TrimSpace(c.Text) == "" {
				return fmt.Errorf("%s has an empty comment", where)
			}
		}
	}
	for i, fl := range sc.Follows {
		where := fmt.Sprintf("follow #%d", i+1)
		if err := ref(where, fl.Follower); err != nil {
			return err
		}
		if err := ref(where, fl.Following); err != nil {
			return err
		}
		if models.NormalizeEmail(fl.Follower) == models.NormalizeEmail(fl.Following) {
			return fmt.Errorf("%s is a self-follow", where)
		}
	}
	return nil
}

// ApplyScenario writes sc through a Factory. Users that already exist are
// reused, so a scenario can be applied on top of random seed data.
func ApplyScenario(ctx context.Context, db *gorm.DB, sc *Scenario, opts Options) (*Summary, error) {
	if err := sc.validate(); err != nil {
		return nil, err
	}
	f := NewFactory(db, opts)
	summary := &Summary{}
	byEmail := make(map[string]*models.User, len(sc.Users))

	for _, su := range sc.Users {
		var existing models.User
		if !opts.DryRun {
			err := db.WithContext(ctx).Where("email = ?", su.Email).First(&existing).Error
			if err == nil {
				byEmail[su.Email] = &existing
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
		}

		user, err := f.CreateUser(ctx, func(u *models.User) {
			u.Name = strings.TrimSpace(su.Name)
			u.Email = su.Email
			if su.Bio != "" {
				u.Bio = su.Bio
			}
			if su.Image != "" {
				u.Image = su.Image
			}
		})
		if err != nil {
			return nil, fmt.Errorf("create user %s: %w", su.Email, err)
		}
		byEmail[su.Email] = user
		summary.Users++
	}
	lookup := func(email string) *models.User { return byEmail[models.NormalizeEmail(email)] }

	for _, sp := range sc.Posts {
		post, err := f.CreatePost(ctx, lookup(sp.Author), func(p *models.Post) {
			p.Caption = strings.TrimSpace(sp.Caption)
			p.ImageURL = sp.ImageURL
			p.CreatedAt = time.Now().Add(-time.Duration(sp.AgeHours) * time.Hour)
		})
		if err != nil {
			return nil, fmt.Errorf("create post by %s: %w", sp.Author, err)
		}
		summary.Posts++

		for _, liker := range sp.LikedBy {
			if err := f.CreateLike(ctx, post, lookup(liker)); err != nil {
				return nil, err
			}
			summary.Likes++
		}
		for _, c := range sp.Comments {
			text := strings.TrimSpace(c.Text)
			if _, err := f.CreateComment(ctx, post, lookup(c.Author), func(c *models.Comment) { c.Text = text }); err != nil {
				return nil, err
			}
			summary.Comments++
		}
	}

	for _, fl := range sc.Follows {
		created, err := f.CreateFollow(ctx, lookup(fl.Follower), lookup(fl.Following))
		if err != nil {
			return nil, err
		}
		if created {
			summary.Follows++
		}
	}
	return summary, nil
}
