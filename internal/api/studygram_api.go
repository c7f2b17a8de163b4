package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/studygram-app/studygram/internal/app/contentgen"
	"github.com/studygram-app/studygram/internal/app/progression"
	"github.com/studygram-app/studygram/internal/domain"
)

// ─── Profile & Session ──────────────────────────────────────────────────────

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.session.Profile()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profileView(p))
}

func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}
	p, err := s.session.Init(req.Name)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, profileView(p))
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	p, report, err := s.session.StartSession()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"profile": profileView(p),
		"session": report,
	})
}

// profileView augments the stored record with derived level data.
func profileView(p *domain.UserProfile) map[string]any {
	level := progression.LevelFor(p.Experience)
	return map[string]any{
		"profile": p,
		"level": map[string]any{
			"title":        level.Title,
			"icon":         level.Icon,
			"tier":         progression.LevelIndex(p.Experience),
			"progress_pct": progression.ProgressPct(p.Experience),
			"exp_to_next":  progression.ExperienceToNext(p.Experience),
		},
	}
}

// ─── Progression ────────────────────────────────────────────────────────────

func (s *Server) handleGrantExperience(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount int64  `json:"amount"`
		Source string `json:"source"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.Source == "" {
		req.Source = "manual"
	}
	p, lu, err := s.session.GrantExperience(req.Amount, req.Source)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"profile":  profileView(p),
		"level_up": lu,
	})
}

func (s *Server) handleRecordProgress(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type   string `json:"type"`
		Amount int    `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Type == "" {
		writeError(w, http.StatusBadRequest, "type is required")
		return
	}
	p, completed, err := s.session.RecordProgress(domain.QuestType(req.Type), req.Amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"quests":    p.DailyQuests,
		"completed": completed,
	})
}

func (s *Server) handleListQuests(w http.ResponseWriter, r *http.Request) {
	p, err := s.session.Profile()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"quests": p.DailyQuests})
}

func (s *Server) handleClaimQuest(w http.ResponseWriter, r *http.Request) {
	p, result, err := s.session.ClaimQuest(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"profile": profileView(p),
		"claim":   result,
	})
}

func (s *Server) handleListBadges(w http.ResponseWriter, r *http.Request) {
	p, err := s.session.Profile()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	type badgeView struct {
		domain.BadgeDef
		Unlocked bool `json:"unlocked"`
	}
	var out []badgeView
	for _, b := range progression.AllBadges() {
		out = append(out, badgeView{BadgeDef: b, Unlocked: p.HasBadge(b.ID)})
	}
	writeJSON(w, http.StatusOK, map[string]any{"badges": out})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	p, err := s.session.Profile()
	if err != nil {
		writeDomainError(w, err)
		return
	}

	// Rank the local profile against feed authors; posts carry no
	// experience so authors get a like-derived score.
	entries := []domain.LeaderboardEntry{{
		Name:       p.Name,
		Experience: p.Experience,
		Title:      progression.LevelFor(p.Experience).Title,
		IsYou:      true,
	}}
	posts, err := s.db.ListPosts(100)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	seen := map[string]int{}
	for _, post := range posts {
		if post.UID == p.UID {
			continue
		}
		if i, ok := seen[post.UserName]; ok {
			entries[i].Experience += int64(post.Likes) * 10
			continue
		}
		seen[post.UserName] = len(entries)
		entries = append(entries, domain.LeaderboardEntry{
			Name:       post.UserName,
			Experience: int64(post.Likes) * 10,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Experience > entries[j].Experience
	})
	for i := range entries {
		entries[i].Rank = i + 1
		entries[i].Title = progression.LevelFor(entries[i].Experience).Title
	}
	writeJSON(w, http.StatusOK, map[string]any{"leaderboard": entries})
}

// ─── Gems ───────────────────────────────────────────────────────────────────

func (s *Server) handleGemsLedger(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := s.gems.History(limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	balance, err := s.gems.Balance()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"balance": balance,
		"entries": entries,
	})
}

// ─── Feed ───────────────────────────────────────────────────────────────────

func (s *Server) handleListFeed(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	posts, err := s.db.ListPosts(limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content  string `json:"content"`
		Category string `json:"category"`
		Type     string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}
	p, err := s.session.Profile()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if req.Type == "" {
		req.Type = string(domain.PostKnowledge)
	}
	post := domain.Post{
		ID:        uuid.NewString(),
		UID:       p.UID,
		UserName:  p.Name,
		Avatar:    p.Avatar,
		Content:   req.Content,
		Category:  req.Category,
		Type:      domain.PostType(req.Type),
		CreatedAt: time.Now(),
	}
	if err := s.db.CreatePost(post); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

func (s *Server) handleLikePost(w http.ResponseWriter, r *http.Request) {
	likes, err := s.db.LikePost(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"likes": likes})
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}
	p, err := s.session.Profile()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	c := domain.Comment{
		ID:        uuid.NewString(),
		UserName:  p.Name,
		Content:   req.Content,
		CreatedAt: time.Now(),
	}
	if err := s.db.AddComment(chi.URLParam(r, "id"), c); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// ─── Focus ──────────────────────────────────────────────────────────────────

func (s *Server) handleCompleteFocus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Subject string `json:"subject"`
		Minutes int    `json:"minutes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Minutes <= 0 {
		writeError(w, http.StatusBadRequest, "minutes must be positive")
		return
	}
	p, fs, err := s.session.CompleteFocus(req.Subject, req.Minutes)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"session": fs,
		"profile": profileView(p),
	})
}

func (s *Server) handleFocusStats(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	today, err := s.db.FocusMinutesSince(startOfDay)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	week, err := s.db.FocusMinutesSince(startOfDay.AddDate(0, 0, -6))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	recent, err := s.db.ListFocusSessions(20)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"today_minutes": today,
		"week_minutes":  week,
		"recent":        recent,
	})
}

// ─── Quiz ───────────────────────────────────────────────────────────────────

func (s *Server) handleGenerateQuiz(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Subject    string `json:"subject"`
		Difficulty string `json:"difficulty"`
		Count      int    `json:"count"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Subject == "" {
		writeError(w, http.StatusBadRequest, "subject is required")
		return
	}
	if req.Difficulty == "" {
		req.Difficulty = "medium"
	}
	items, err := s.content.GenerateQuiz(r.Context(), req.Subject, req.Difficulty, req.Count)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"questions": items})
}

func (s *Server) handleSubmitQuiz(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Topic   string `json:"topic"`
		Correct int    `json:"correct"`
		Total   int    `json:"total"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Total <= 0 {
		writeError(w, http.StatusBadRequest, "total must be positive")
		return
	}
	p, lu, err := s.session.SubmitQuiz(req.Topic, req.Correct, req.Total)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"profile":  profileView(p),
		"level_up": lu,
	})
}

// ─── Tutor & Tools ──────────────────────────────────────────────────────────

// respondText runs a content task, counts the AI interaction on success,
// and writes a {"text": ...} body.
func (s *Server) respondText(w http.ResponseWriter, text string, err error) {
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if _, err := s.session.RecordAIInteraction(); err != nil && !errorsIsNoProfile(err) {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

func errorsIsNoProfile(err error) bool {
	// Tools work without a profile; only quest progress is skipped.
	return errors.Is(err, domain.ErrNoProfile)
}

func (s *Server) handleTutorChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode    string               `json:"mode"`
		Message string               `json:"message"`
		History []contentgen.Message `json:"history"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	text, err := s.content.TutorChat(r.Context(), contentgen.TutorMode(req.Mode), req.History, req.Message)
	s.respondText(w, text, err)
}

func (s *Server) handleEssay(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Essay string `json:"essay"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Essay == "" {
		writeError(w, http.StatusBadRequest, "essay is required")
		return
	}
	report, err := s.content.GradeEssay(r.Context(), req.Essay)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if _, err := s.session.RecordAIInteraction(); err != nil && !errorsIsNoProfile(err) {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleRoadmap(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Grade   string `json:"grade"`
		Subject string `json:"subject"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Subject == "" {
		writeError(w, http.StatusBadRequest, "subject is required")
		return
	}
	nodes, err := s.content.GenerateRoadmap(r.Context(), req.Grade, req.Subject)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"roadmap": nodes})
}

func (s *Server) handleMindMap(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Topic string `json:"topic"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Topic == "" {
		writeError(w, http.StatusBadRequest, "topic is required")
		return
	}
	text, err := s.content.MindMap(r.Context(), req.Topic)
	s.respondText(w, text, err)
}

func (s *Server) handleFlashcards(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Notes string `json:"notes"`
		Count int    `json:"count"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Notes == "" {
		writeError(w, http.StatusBadRequest, "notes are required")
		return
	}
	cards, err := s.content.GenerateFlashcards(r.Context(), req.Notes, req.Count)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"flashcards": cards})
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Content == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}
	text, err := s.content.Summarize(r.Context(), req.Content)
	s.respondText(w, text, err)
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	name := "student"
	if p, err := s.session.Profile(); err == nil {
		name = p.Name
	}
	text, err := s.content.MotivationQuote(r.Context(), name)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

func (s *Server) handleRoast(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Roast bool `json:"roast"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	p, err := s.session.Profile()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	summary := fmt.Sprintf("%s: level %s, %d exp, %d day streak, %d quizzes completed, %d lifetime focus minutes",
		p.Name, progression.LevelFor(p.Experience).Title, p.Experience, p.StreakCount,
		p.CompletedQuizCount, p.LifetimeFocusMinutes)
	text, err := s.content.RoastOrToast(r.Context(), req.Roast, summary)
	s.respondText(w, text, err)
}

// ─── Notifications ──────────────────────────────────────────────────────────

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	pending, err := s.notify.Pending()
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": pending})
}

func (s *Server) handleNotificationShown(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := s.notify.MarkShown([]int64{id}); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
