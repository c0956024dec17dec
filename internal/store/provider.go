// SkillBridge - Volunteer and Mentor Project Matching Platform
// Copyright 2026 SkillBridge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/skillbridge/skillbridge

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/skillbridge/skillbridge/internal/recommend"
)

// Statuses a project may be in to appear in the candidate universe.
// Completed, archived, and cancelled projects are not recommendable.
const (
	StatusActive     = "active"
	StatusInProgress = "in_progress"
)

// Member roles and the status that makes a member publicly visible.
const (
	RoleVolunteer = "volunteer"
	RoleMentor    = "mentor"

	MemberStatusActive = "active"
)

// GetUserSkills returns the skills registered on a user profile. A missing
// user yields recommend.ErrNotFound; a user with no skills yields an empty
// slice.
func (s *Store) GetUserSkills(ctx context.Context, userID int64) ([]recommend.Skill, error) {
	defer observe("user_skills", time.Now())

	if err := s.userExists(ctx, userID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.name
		FROM user_skills us
		JOIN skills s ON s.id = us.skill_id
		WHERE us.user_id = ?
		ORDER BY s.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query user %d skills: %w", userID, err)
	}
	defer rows.Close()

	var skills []recommend.Skill
	for rows.Next() {
		var sk recommend.Skill
		if err := rows.Scan(&sk.ID, &sk.Name); err != nil {
			return nil, fmt.Errorf("scan user %d skill: %w", userID, err)
		}
		skills = append(skills, sk)
	}
	return skills, rows.Err()
}

// GetProjectSkills returns a project's scoring view. A missing project
// yields recommend.ErrNotFound.
func (s *Store) GetProjectSkills(ctx context.Context, projectID int64) (*recommend.ProjectSkillSet, error) {
	defer observe("project_skills", time.Now())

	set := &recommend.ProjectSkillSet{ProjectID: projectID}
	err := s.db.QueryRowContext(ctx,
		`SELECT name FROM projects WHERE id = ?`, projectID).Scan(&set.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("project", projectID)
	}
	if err != nil {
		return nil, fmt.Errorf("query project %d: %w", projectID, err)
	}

	set.Skills, err = s.projectSkills(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return set, nil
}

// GetEligibleProjects returns every recommendable project (active or in
// progress) with its skill set, in one round trip.
func (s *Store) GetEligibleProjects(ctx context.Context) ([]recommend.ProjectSkillSet, error) {
	defer observe("eligible_projects", time.Now())

	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.name, s.id, s.name, ps.mandatory
		FROM projects p
		LEFT JOIN project_skills ps ON ps.project_id = p.id
		LEFT JOIN skills s ON s.id = ps.skill_id
		WHERE p.status IN (?, ?)
		ORDER BY p.id, s.id`, StatusActive, StatusInProgress)
	if err != nil {
		return nil, fmt.Errorf("query eligible projects: %w", err)
	}
	defer rows.Close()

	var (
		universe []recommend.ProjectSkillSet
		current  *recommend.ProjectSkillSet
	)
	for rows.Next() {
		var (
			projID    int64
			projName  string
			skillID   sql.NullInt64
			skillName sql.NullString
			mandatory sql.NullBool
		)
		if err := rows.Scan(&projID, &projName, &skillID, &skillName, &mandatory); err != nil {
			return nil, fmt.Errorf("scan eligible project: %w", err)
		}

		if current == nil || current.ProjectID != projID {
			universe = append(universe, recommend.ProjectSkillSet{ProjectID: projID, Name: projName})
			current = &universe[len(universe)-1]
		}
		if skillID.Valid {
			current.Skills = append(current.Skills, recommend.ProjectSkill{
				ID:        skillID.Int64,
				Name:      skillName.String,
				Mandatory: mandatory.Bool,
			})
		}
	}
	return universe, rows.Err()
}

// GetExcludedProjects returns the IDs of projects the user created or has
// any membership record in, regardless of membership status.
func (s *Store) GetExcludedProjects(ctx context.Context, userID int64) (map[int64]struct{}, error) {
	defer observe("excluded_projects", time.Now())

	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM projects WHERE creator_id = ?
		UNION
		SELECT project_id FROM project_members WHERE user_id = ?`, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("query user %d exclusions: %w", userID, err)
	}
	defer rows.Close()

	excluded := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan exclusion: %w", err)
		}
		excluded[id] = struct{}{}
	}
	return excluded, rows.Err()
}

// GetProjectDetail returns the enriched project view: creator, categories,
// skills, and active members split by role. Member fields are limited to
// the public profile surface.
func (s *Store) GetProjectDetail(ctx context.Context, projectID int64) (*recommend.ProjectDetail, error) {
	defer observe("project_detail", time.Now())

	detail := &recommend.ProjectDetail{ID: projectID}
	err := s.db.QueryRowContext(ctx, `
		SELECT p.name, p.description, p.status, p.created_at,
		       u.id, u.name, u.headline, u.avatar_url
		FROM projects p
		JOIN users u ON u.id = p.creator_id
		WHERE p.id = ?`, projectID).Scan(
		&detail.Name, &detail.Description, &detail.Status, &detail.CreatedAt,
		&detail.Creator.ID, &detail.Creator.Name, &detail.Creator.Headline, &detail.Creator.AvatarURL,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("project", projectID)
	}
	if err != nil {
		return nil, fmt.Errorf("query project %d detail: %w", projectID, err)
	}

	if detail.Skills, err = s.projectSkills(ctx, projectID); err != nil {
		return nil, err
	}
	if detail.Categories, err = s.projectCategories(ctx, projectID); err != nil {
		return nil, err
	}
	if detail.Volunteers, err = s.projectMembers(ctx, projectID, RoleVolunteer); err != nil {
		return nil, err
	}
	if detail.Mentors, err = s.projectMembers(ctx, projectID, RoleMentor); err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *Store) userExists(ctx context.Context, userID int64) error {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM users WHERE id = ?`, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return notFound("user", userID)
	}
	if err != nil {
		return fmt.Errorf("query user %d: %w", userID, err)
	}
	return nil
}

func (s *Store) projectSkills(ctx context.Context, projectID int64) ([]recommend.ProjectSkill, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.name, ps.mandatory
		FROM project_skills ps
		JOIN skills s ON s.id = ps.skill_id
		WHERE ps.project_id = ?
		ORDER BY s.id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("query project %d skills: %w", projectID, err)
	}
	defer rows.Close()

	var skills []recommend.ProjectSkill
	for rows.Next() {
		var sk recommend.ProjectSkill
		if err := rows.Scan(&sk.ID, &sk.Name, &sk.Mandatory); err != nil {
			return nil, fmt.Errorf("scan project %d skill: %w", projectID, err)
		}
		skills = append(skills, sk)
	}
	return skills, rows.Err()
}

func (s *Store) projectCategories(ctx context.Context, projectID int64) ([]recommend.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name
		FROM project_categories pc
		JOIN categories c ON c.id = pc.category_id
		WHERE pc.project_id = ?
		ORDER BY c.id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("query project %d categories: %w", projectID, err)
	}
	defer rows.Close()

	var cats []recommend.Category
	for rows.Next() {
		var c recommend.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan project %d category: %w", projectID, err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func (s *Store) projectMembers(ctx context.Context, projectID int64, role string) ([]recommend.PublicUser, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.name, u.headline, u.avatar_url
		FROM project_members pm
		JOIN users u ON u.id = pm.user_id
		WHERE pm.project_id = ? AND pm.role = ? AND pm.status = ?
		ORDER BY u.id`, projectID, role, MemberStatusActive)
	if err != nil {
		return nil, fmt.Errorf("query project %d members: %w", projectID, err)
	}
	defer rows.Close()

	var members []recommend.PublicUser
	for rows.Next() {
		var m recommend.PublicUser
		if err := rows.Scan(&m.ID, &m.Name, &m.Headline, &m.AvatarURL); err != nil {
			return nil, fmt.Errorf("scan project %d member: %w", projectID, err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}
