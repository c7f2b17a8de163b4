package sqlite

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/studygram-app/studygram/internal/domain"
)

// profileKey is the fixed store key holding the single user profile.
const profileKey = "profile"

// SaveProfile serializes the whole profile and writes it in one statement.
// The profile is always persisted as a complete record, never field by field.
func (d *DB) SaveProfile(p *domain.UserProfile) error {
	if p == nil {
		return fmt.Errorf("save profile: nil profile")
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	if err := d.SetValue(profileKey, string(data)); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// LoadProfile reads the stored profile. Absent and corrupt records both
// return (nil, nil): a record that cannot be decoded, or whose schema
// version is from a newer build, is treated as missing so the caller can
// start fresh rather than crash on every launch.
func (d *DB) LoadProfile() (*domain.UserProfile, error) {
	raw, err := d.GetValue(profileKey)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if raw == "" {
		return nil, nil
	}

	var p domain.UserProfile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		log.Printf("profile record corrupt, treating as absent: %v", err)
		return nil, nil
	}
	if p.Version == 0 {
		// Records written before versioning carry no schemaVersion field.
		p.Version = 1
	}
	if p.Version > domain.SchemaVersion {
		log.Printf("profile schema version %d is newer than supported %d, treating as absent",
			p.Version, domain.SchemaVersion)
		return nil, nil
	}
	return &p, nil
}

// CreateProfile seeds and persists a brand-new profile with the given
// starting quest set. Fails with domain.ErrProfileExists when one is
// already stored.
func (d *DB) CreateProfile(name string, quests []domain.Quest, now time.Time) (*domain.UserProfile, error) {
	existing, err := d.LoadProfile()
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrProfileExists
	}

	p := &domain.UserProfile{
		Version:     domain.SchemaVersion,
		UID:         uuid.NewString(),
		Name:        name,
		Avatar:      "🎓",
		Experience:  0,
		Gems:        50,
		StreakCount: 1,
		DailyQuests: quests,
		Skills: domain.UserSkills{
			CriticalThinking: 10, Focus: 10, Creativity: 10,
			Knowledge: 10, Discipline: 10,
		},
	}
	p.SetLastLogin(now)

	if err := d.SaveProfile(p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteProfile removes the stored profile record.
func (d *DB) DeleteProfile() error {
	_, err := d.db.Exec(`DELETE FROM store WHERE key = ?`, profileKey)
	return err
}
