package workspace

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed questions.yaml
var questionsYAML []byte

// ArchivedCategory holds questions answered in this workspace.
const ArchivedCategory = "Archived Questions"

// Question is an industry question with its answer.
type Question struct {
	ID       int    `json:"id" yaml:"id"`
	Category string `json:"category" yaml:"category"`
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
}

type questionBank struct {
	mu     sync.RWMutex
	list   []Question
	nextID int
}

func loadQuestions() (*questionBank, error) {
	var doc struct {
		Questions []Question `yaml:"questions"`
	}
	if err := yaml.Unmarshal(questionsYAML, &doc); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	b := &questionBank{list: doc.Questions}
	for _, q := range b.list {
		if q.ID >= b.nextID {
			b.nextID = q.ID + 1
		}
	}
	return b, nil
}

// add puts an answered question at the front of the archive.
func (b *questionBank) add(question, answer string) Question {
	b.mu.Lock()
	defer b.mu.Unlock()
	q := Question{ID: b.nextID, Category: ArchivedCategory, Question: question, Answer: answer}
	b.nextID++
	b.list = append([]Question{q}, b.list...)
	return q
}

func (b *questionBank) filter(category string) []Question {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []Question
	for _, q := range b.list {
		if category == "" || q.Category == category {
			out = append(out, q)
		}
	}
	return out
}

func (b *questionBank) categories() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	seen := make(map[string]bool)
	var out []string
	for _, q := range b.list {
		if !seen[q.Category] {
			seen[q.Category] = true
			out = append(out, q.Category)
		}
	}
	return out
}
