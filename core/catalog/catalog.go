// Package catalog holds the static course content: the lesson curriculum
// and the achievement definitions. The content is a fixed data set shipped
// with the binary; nothing here is persisted.
package catalog

import (
	"embed"
	"encoding/json"
	"math/rand"

	"github.com/pkg/errors"
)

//go:embed assets/lessons.json assets/achievements.json
var assetsFS embed.FS

type (
	Quiz struct {
		Question      string   `json:"question"`
		Options       []string `json:"options"`
		CorrectAnswer int      `json:"correctAnswer"`
	}

	Lesson struct {
		ID      string `json:"id"`
		Title   string `json:"title"`
		Points  int    `json:"points"`
		Content string `json:"content"` // HTML
		Hint    string `json:"hint"`
		Quiz    Quiz   `json:"quiz"`
	}

	Achievement struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	}

	Catalog struct {
		lessons      []Lesson
		lessonsByID  map[string]Lesson
		achievements []Achievement
	}
)

// New loads the embedded course content.
func New() (*Catalog, error) {
	c := &Catalog{lessonsByID: make(map[string]Lesson)}

	data, err := assetsFS.ReadFile("assets/lessons.json")
	if err != nil {
		return nil, errors.Wrap(err, "reading lessons asset")
	}
	if err = json.Unmarshal(data, &c.lessons); err != nil {
		return nil, errors.Wrap(err, "parsing lessons asset")
	}

	data, err = assetsFS.ReadFile("assets/achievements.json")
	if err != nil {
		return nil, errors.Wrap(err, "reading achievements asset")
	}
	if err = json.Unmarshal(data, &c.achievements); err != nil {
		return nil, errors.Wrap(err, "parsing achievements asset")
	}

	for _, lsn := range c.lessons {
		if _, dup := c.lessonsByID[lsn.ID]; dup {
			return nil, errors.Errorf("duplicate lesson id %q", lsn.ID)
		}
		c.lessonsByID[lsn.ID] = lsn
	}
	return c, nil
}

func (c *Catalog) Lessons() []Lesson           { return c.lessons }
func (c *Catalog) Achievements() []Achievement { return c.achievements }

func (c *Catalog) Lesson(id string) (Lesson, bool) {
	lsn, ok := c.lessonsByID[id]
	return lsn, ok
}

// RandomQuiz returns `count` lessons drawn uniformly without repetition.
// Asking for more lessons than the catalog holds returns the whole catalog,
// shuffled.
func (c *Catalog) RandomQuiz(count int) []Lesson {
	if count < 0 {
		count = 0
	}
	shuffled := make([]Lesson, len(c.lessons))
	copy(shuffled, c.lessons)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if count > len(shuffled) {
		count = len(shuffled)
	}
	return shuffled[:count]
}
