package user

import (
	"context"
	"fmt"
	"strings"

	"neighborly/models"
)

// MaxSkillLength bounds a single skill name.
const MaxSkillLength = 40

// NormalizeSkill trims a skill name and lowercases it for comparison.
func NormalizeSkill(name string) (string, error) {
	skill := strings.ToLower(strings.Join(strings.Fields(name), " "))
	if skill == "" {
		return "", &models.FormError{Field: "skill", Message: "skill cannot be empty"}
	}
	if len(skill) > MaxSkillLength {
		return "", &models.FormError{Field: "skill", Message: fmt.Sprintf("skill must be at most %d characters", MaxSkillLength)}
	}
	return skill, nil
}

func (s *DefaultUserService) ListSkills(ctx context.Context, appCtx *models.AppContext) ([]string, error) {
	if err := requireAuth(appCtx); err != nil {
		return nil, err
	}
	skills, err := s.Backend.GetSkills(ctx, appCtx.Token, appCtx.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load skills: %w", err)
	}
	if skills == nil {
		skills = []string{}
	}
	return skills, nil
}

// AddSkill appends name unless an equal skill is already listed.
func (s *DefaultUserService) AddSkill(ctx context.Context, appCtx *models.AppContext, name string) ([]string, error) {
	skill, err := NormalizeSkill(name)
	if err != nil {
		return nil, err
	}
	current, err := s.ListSkills(ctx, appCtx)
	if err != nil {
		return nil, err
	}
	for _, existing := range current {
		if strings.EqualFold(strings.TrimSpace(existing), skill) {
			return current, nil
		}
	}
	return s.writeSkills(ctx, appCtx, append(current, skill))
}

func (s *DefaultUserService) RemoveSkill(ctx context.Context, appCtx *models.AppContext, name string) ([]string, error) {
	skill, err := NormalizeSkill(name)
	if err != nil {
		return nil, err
	}
	current, err := s.ListSkills(ctx, appCtx)
	if err != nil {
		return nil, err
	}
	kept := make([]string, 0, len(current))
	for _, existing := range current {
		if !strings.EqualFold(strings.TrimSpace(existing), skill) {
			kept = append(kept, existing)
		}
	}
	if len(kept) == len(current) {
		return current, nil
	}
	return s.writeSkills(ctx, appCtx, kept)
}

func (s *DefaultUserService) writeSkills(ctx context.Context, appCtx *models.AppContext, skills []string) ([]string, error) {
	saved, err := s.Backend.SetSkills(ctx, appCtx.Token, appCtx.UserID, skills)
	if err != nil {
		return nil, fmt.Errorf("failed to save skills: %w", err)
	}
	return saved, nil
}
