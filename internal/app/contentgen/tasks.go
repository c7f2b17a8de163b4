package contentgen

import (
	"context"
	"fmt"
)

// TutorMode selects the persona of the AI tutor.
type TutorMode string

const (
	TutorTeen     TutorMode = "teen"
	TutorAcademic TutorMode = "academic"
	TutorPro      TutorMode = "pro"
)

var tutorPrompts = map[TutorMode]string{
	TutorTeen:     "You are a friendly Gen-Z study buddy. Explain things casually with emojis, keep answers short and hype the student up.",
	TutorAcademic: "You are a rigorous academic tutor. Explain concepts precisely, cite the underlying principles, and check understanding with a follow-up question.",
	TutorPro:      "You are a concise professional mentor. Give direct, structured answers focused on exam performance.",
}

// QuizItem is one generated multiple-choice question.
type QuizItem struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      int      `json:"answer"`
	Explanation string   `json:"explanation"`
}

// RoadmapNode is one stage of a study roadmap.
type RoadmapNode struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Topics     []string `json:"topics"`
	Difficulty string   `json:"difficulty"`
}

// EssayReport is a structured essay grade.
type EssayReport struct {
	Score      int      `json:"score"`
	GoodPoints []string `json:"goodPoints"`
	BadPoints  []string `json:"badPoints"`
	Suggestion string   `json:"suggestion"`
}

// Flashcard is a front/back study card.
type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// TutorChat answers a student message in the selected persona, with
// optional prior turns for context.
func (c *Client) TutorChat(ctx context.Context, mode TutorMode, history []Message, message string) (string, error) {
	system, ok := tutorPrompts[mode]
	if !ok {
		system = tutorPrompts[TutorTeen]
	}
	msgs := append([]Message{{Role: "system", Content: system}}, history...)
	msgs = append(msgs, Message{Role: "user", Content: message})
	return c.ChatWithRetry(ctx, "tutor_chat", msgs, 0.7)
}

// GenerateQuiz produces count multiple-choice questions for a subject.
func (c *Client) GenerateQuiz(ctx context.Context, subject, difficulty string, count int) ([]QuizItem, error) {
	if count <= 0 {
		count = 10
	}
	prompt := fmt.Sprintf(
		`Generate %d multiple-choice questions about %q at %s difficulty. `+
			`Respond with ONLY a JSON array of objects: `+
			`{"question": string, "options": [4 strings], "answer": index 0-3, "explanation": string}.`,
		count, subject, difficulty)

	text, err := c.ChatWithRetry(ctx, "quiz", []Message{{Role: "user", Content: prompt}}, 0.3)
	if err != nil {
		return nil, err
	}
	var items []QuizItem
	if err := parseStructured(text, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GenerateRoadmap produces an ordered study roadmap for a subject.
func (c *Client) GenerateRoadmap(ctx context.Context, grade, subject string) ([]RoadmapNode, error) {
	prompt := fmt.Sprintf(
		`Build an exam-prep roadmap for grade %s %s. Respond with ONLY JSON: `+
			`{"roadmap": [{"id": string, "title": string, "topics": [strings], "difficulty": "easy"|"medium"|"hard"}]}.`,
		grade, subject)

	text, err := c.ChatWithRetry(ctx, "roadmap", []Message{{Role: "user", Content: prompt}}, 0.3)
	if err != nil {
		return nil, err
	}
	var wrapper struct {
		Roadmap []RoadmapNode `json:"roadmap"`
	}
	if err := parseStructured(text, &wrapper); err != nil {
		return nil, err
	}
	return wrapper.Roadmap, nil
}

// GradeEssay scores an essay and returns structured feedback.
func (c *Client) GradeEssay(ctx context.Context, essay string) (*EssayReport, error) {
	prompt := `Grade the following essay on a 0-100 scale. Respond with ONLY JSON: ` +
		`{"score": int, "goodPoints": [strings], "badPoints": [strings], "suggestion": string}.` +
		"\n\nEssay:\n" + essay

	text, err := c.ChatWithRetry(ctx, "essay", []Message{{Role: "user", Content: prompt}}, 0.2)
	if err != nil {
		return nil, err
	}
	var report EssayReport
	if err := parseStructured(text, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// GenerateFlashcards turns study notes into front/back cards.
func (c *Client) GenerateFlashcards(ctx context.Context, notes string, count int) ([]Flashcard, error) {
	if count <= 0 {
		count = 8
	}
	prompt := fmt.Sprintf(
		`Turn these notes into %d flashcards. Respond with ONLY a JSON array of {"front": string, "back": string}.`+"\n\nNotes:\n%s",
		count, notes)

	text, err := c.ChatWithRetry(ctx, "flashcards", []Message{{Role: "user", Content: prompt}}, 0.3)
	if err != nil {
		return nil, err
	}
	var cards []Flashcard
	if err := parseStructured(text, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// MindMap renders a text outline mind map for a topic.
func (c *Client) MindMap(ctx context.Context, topic string) (string, error) {
	prompt := fmt.Sprintf("Create a text mind map (indented outline, unicode branches) for the topic %q.", topic)
	return c.ChatWithRetry(ctx, "mindmap", []Message{{Role: "user", Content: prompt}}, 0.5)
}

// Summarize condenses study material into key points.
func (c *Client) Summarize(ctx context.Context, content string) (string, error) {
	prompt := "Summarize the following study material into short bullet points a student can revise from:\n\n" + content
	return c.ChatWithRetry(ctx, "summarize", []Message{{Role: "user", Content: prompt}}, 0.3)
}

// MotivationQuote returns one short motivational line for the student.
func (c *Client) MotivationQuote(ctx context.Context, name string) (string, error) {
	prompt := fmt.Sprintf("Write one short, punchy motivational study quote addressed to %s. No preamble.", name)
	return c.ChatWithRetry(ctx, "quote", []Message{{Role: "user", Content: prompt}}, 0.9)
}

// RoastOrToast playfully roasts (or celebrates) a study record.
func (c *Client) RoastOrToast(ctx context.Context, roast bool, summary string) (string, error) {
	style := "celebrate warmly"
	if roast {
		style = "roast playfully, never cruelly"
	}
	prompt := fmt.Sprintf("Here is a student's study record: %s. In 2-3 sentences, %s.", summary, style)
	return c.ChatWithRetry(ctx, "roast_toast", []Message{{Role: "user", Content: prompt}}, 0.9)
}
