// Package fixtures generates random, reproducible blog posts for seeding
// stores and building request payloads.
package fixtures

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/Pallinder/go-randomdata"
	"go.hacdias.com/posts/core"
)

// randomdata keeps its source in a package variable.
var randomdataMu sync.Mutex

type Generator struct {
	mu   sync.Mutex
	seed int64
	rand *rand.Rand
	now  func() time.Time
}

// New returns a generator whose output is fully determined by seed and by
// the clock. Use [Generator.WithClock] to pin the clock as well.
func New(seed int64) *Generator {
	return &Generator{
		seed: seed,
		rand: rand.New(rand.NewSource(seed)),
		now:  time.Now,
	}
}

// NewRandom returns a generator with a seed taken from the clock. The seed
// is available from [Generator.Seed] to reproduce the output.
func NewRandom() *Generator {
	return New(time.Now().UnixNano())
}

func (g *Generator) Seed() int64 {
	return g.seed
}

func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Post returns a post with a random author, title, content and a creation
// date within the last day. The identifier is left empty.
func (g *Generator) Post() core.Post {
	g.mu.Lock()
	defer g.mu.Unlock()

	gender := randomdata.Male
	if g.rand.Intn(2) == 1 {
		gender = randomdata.Female
	}

	var p core.Post
	g.with(func() {
		p = core.Post{
			Author: core.Author{
				FirstName: randomdata.FirstName(gender),
				LastName:  randomdata.LastName(),
			},
			Title:   g.sentence(),
			Content: randomdata.Paragraph(),
			Created: g.recent(),
		}
	})

	return p
}

func (g *Generator) Posts(n int) []core.Post {
	posts := make([]core.Post, 0, n)
	for i := 0; i < n; i++ {
		posts = append(posts, g.Post())
	}
	return posts
}

// Patch returns a partial update that changes the title and the content.
func (g *Generator) Patch() core.Patch {
	g.mu.Lock()
	defer g.mu.Unlock()

	var title, content string
	g.with(func() {
		title = g.sentence()
		content = randomdata.Paragraph()
	})

	return core.Patch{
		Title:   &title,
		Content: &content,
	}
}

func (g *Generator) with(fn func()) {
	randomdataMu.Lock()
	defer randomdataMu.Unlock()

	randomdata.CustomRand(g.rand)
	fn()
}

func (g *Generator) sentence() string {
	n := 3 + g.rand.Intn(5)
	words := make([]string, 0, n)
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			words = append(words, randomdata.Adjective())
		} else {
			words = append(words, randomdata.Noun())
		}
	}

	s := strings.Join(words, " ")
	return strings.ToUpper(s[:1]) + s[1:] + "."
}

func (g *Generator) recent() time.Time {
	ago := time.Duration(g.rand.Int63n(int64(24 * time.Hour)))
	// Millisecond precision survives every store driver.
	return g.now().Add(-ago).UTC().Truncate(time.Millisecond)
}
