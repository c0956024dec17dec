// SkillBridge - Volunteer and Mentor Project Matching Platform
// Copyright 2026 SkillBridge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skillbridge/skillbridge

package store

import (
	"context"
	"fmt"
)

// Write helpers for tests and development tooling. The service itself only
// reads; skill and membership writes belong to the wider platform.

// InsertUser inserts a user row.
func (s *Store) InsertUser(ctx context.Context, id int64, name, email, headline, avatarURL string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, headline, avatar_url)
		VALUES (?, ?, ?, ?, ?)`, id, name, email, headline, avatarURL)
	if err != nil {
		return fmt.Errorf("insert user %d: %w", id, err)
	}
	return nil
}

// InsertSkill inserts a skill row.
func (s *Store) InsertSkill(ctx context.Context, id int64, name string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO skills (id, name) VALUES (?, ?)`, id, name)
	if err != nil {
		return fmt.Errorf("insert skill %d: %w", id, err)
	}
	return nil
}

// AddUserSkill links a skill to a user profile.
func (s *Store) AddUserSkill(ctx context.Context, userID, skillID int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_skills (user_id, skill_id) VALUES (?, ?)`, userID, skillID)
	if err != nil {
		return fmt.Errorf("add skill %d to user %d: %w", skillID, userID, err)
	}
	return nil
}

// InsertProject inserts a project row.
func (s *Store) InsertProject(ctx context.Context, id int64, name, description, status string, creatorID int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (id, name, description, status, creator_id)
		VALUES (?, ?, ?, ?, ?)`, id, name, description, status, creatorID)
	if err != nil {
		return fmt.Errorf("insert project %d: %w", id, err)
	}
	return nil
}

// AddProjectSkill links a skill to a project.
func (s *Store) AddProjectSkill(ctx context.Context, projectID, skillID int64, mandatory bool) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO project_skills (project_id, skill_id, mandatory)
		VALUES (?, ?, ?)`, projectID, skillID, mandatory)
	if err != nil {
		return fmt.Errorf("add skill %d to project %d: %w", skillID, projectID, err)
	}
	return nil
}

// AddProjectMember records a membership in any role and status.
func (s *Store) AddProjectMember(ctx context.Context, projectID, userID int64, role, status string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO project_members (project_id, user_id, role, status)
		VALUES (?, ?, ?, ?)`, projectID, userID, role, status)
	if err != nil {
		return fmt.Errorf("add user %d to project %d: %w", userID, projectID, err)
	}
	return nil
}

// InsertCategory inserts a category row.
func (s *Store) InsertCategory(ctx context.Context, id int64, name string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (id, name) VALUES (?, ?)`, id, name)
	if err != nil {
		return fmt.Errorf("insert category %d: %w", id, err)
	}
	return nil
}

// AddProjectCategory links a category to a project.
func (s *Store) AddProjectCategory(ctx context.Context, projectID, categoryID int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO project_categories (project_id, category_id)
		VALUES (?, ?)`, projectID, categoryID)
	if err != nil {
		return fmt.Errorf("add category %d to project %d: %w", categoryID, projectID, err)
	}
	return nil
}
