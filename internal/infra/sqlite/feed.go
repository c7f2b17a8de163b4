package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/studygram-app/studygram/internal/domain"
)

// ─── Posts ──────────────────────────────────────────────────────────────────

// CreatePost stores a new feed post.
func (d *DB) CreatePost(p domain.Post) error {
	_, err := d.db.Exec(
		`INSERT INTO posts (id, uid, user_name, avatar, content, category, type, created_at, likes, ai_analysis)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.UID, p.UserName, p.Avatar, p.Content, p.Category,
		string(p.Type), p.CreatedAt.Unix(), p.Likes, p.AIAnalysis,
	)
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

// GetPost returns one post with its comments, or domain.ErrPostNotFound.
func (d *DB) GetPost(id string) (*domain.Post, error) {
	var p domain.Post
	var created int64
	err := d.db.QueryRow(
		`SELECT id, uid, user_name, avatar, content, category, type, created_at, likes, ai_analysis
		 FROM posts WHERE id = ?`, id,
	).Scan(&p.ID, &p.UID, &p.UserName, &p.Avatar, &p.Content, &p.Category,
		&p.Type, &created, &p.Likes, &p.AIAnalysis)
	if err == sql.ErrNoRows {
		return nil, domain.ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	p.CreatedAt = time.Unix(created, 0)

	comments, err := d.postComments(p.ID)
	if err != nil {
		return nil, err
	}
	p.Comments = comments
	return &p, nil
}

// ListPosts returns recent posts with comments, newest first.
func (d *DB) ListPosts(limit int) ([]domain.Post, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.db.Query(
		`SELECT id, uid, user_name, avatar, content, category, type, created_at, likes, ai_analysis
		 FROM posts ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		var p domain.Post
		var created int64
		if err := rows.Scan(&p.ID, &p.UID, &p.UserName, &p.Avatar, &p.Content,
			&p.Category, &p.Type, &created, &p.Likes, &p.AIAnalysis); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		p.CreatedAt = time.Unix(created, 0)
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range posts {
		comments, err := d.postComments(posts[i].ID)
		if err != nil {
			return nil, err
		}
		posts[i].Comments = comments
	}
	return posts, nil
}

// LikePost increments a post's like counter.
func (d *DB) LikePost(id string) (int, error) {
	res, err := d.db.Exec(`UPDATE posts SET likes = likes + 1 WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("like post: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return 0, domain.ErrPostNotFound
	}
	var likes int
	if err := d.db.QueryRow(`SELECT likes FROM posts WHERE id = ?`, id).Scan(&likes); err != nil {
		return 0, fmt.Errorf("read likes: %w", err)
	}
	return likes, nil
}

// AddComment attaches a comment to an existing post.
func (d *DB) AddComment(postID string, c domain.Comment) error {
	var exists int
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM posts WHERE id = ?`, postID).Scan(&exists); err != nil {
		return fmt.Errorf("add comment: %w", err)
	}
	if exists == 0 {
		return domain.ErrPostNotFound
	}
	_, err := d.db.Exec(
		`INSERT INTO comments (id, post_id, user_name, content, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		c.ID, postID, c.UserName, c.Content, c.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("add comment: %w", err)
	}
	return nil
}

func (d *DB) postComments(postID string) ([]domain.Comment, error) {
	rows, err := d.db.Query(
		`SELECT id, user_name, content, created_at FROM comments
		 WHERE post_id = ? ORDER BY created_at ASC`, postID,
	)
	if err != nil {
		return nil, fmt.Errorf("post comments: %w", err)
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		var c domain.Comment
		var created int64
		if err := rows.Scan(&c.ID, &c.UserName, &c.Content, &created); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		c.CreatedAt = time.Unix(created, 0)
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
