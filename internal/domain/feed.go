package domain

import "time"

// ─── Feed Types ─────────────────────────────────────────────────────────────

// PostType categorizes feed posts.
type PostType string

const (
	PostKnowledge PostType = "knowledge"
	PostStory     PostType = "story"
	PostMeme      PostType = "meme"
	PostEvent     PostType = "event"
)

// Post is a local feed entry.
type Post struct {
	ID         string    `json:"id"`
	UID        string    `json:"uid"`
	UserName   string    `json:"user_name"`
	Avatar     string    `json:"avatar"`
	Content    string    `json:"content"`
	Category   string    `json:"category"`
	Type       PostType  `json:"type"`
	CreatedAt  time.Time `json:"created_at"`
	Likes      int       `json:"likes"`
	Comments   []Comment `json:"comments"`
	AIAnalysis string    `json:"ai_analysis,omitempty"`
}

// Comment is a reply attached to a post.
type Comment struct {
	ID        string    `json:"id"`
	UserName  string    `json:"user_name"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ─── Focus Sessions ─────────────────────────────────────────────────────────

// FocusSession records one completed focus-timer run.
type FocusSession struct {
	ID          int64     `json:"id"`
	Subject     string    `json:"subject"`
	Minutes     int       `json:"minutes"`
	CompletedAt time.Time `json:"completed_at"`
}

// ─── Leaderboard ────────────────────────────────────────────────────────────

// LeaderboardEntry ranks a name by experience.
type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	Name       string `json:"name"`
	Experience int64  `json:"experience"`
	Title      string `json:"title"`
	IsYou      bool   `json:"is_you"`
}
