package admin

import (
	"neighborly/models"
)

const legalUpdated = "2025-01-15T00:00:00Z"

// GetLegalSections returns all legal documents.
func (a *DefaultAdminService) GetLegalSections() []models.LegalSection {
	return []models.LegalSection{
		{
			ID:       "tos",
			Title:    "Terms of Service",
			Summary:  "These terms govern your use of the Neighborly platform.",
			Content:  termsOfService,
			Audience: models.AudienceAll,
			Version:  "v1.0",
			Updated:  legalUpdated,
		},
		{
			ID:       "privacy",
			Title:    "Privacy Policy",
			Summary:  "How Neighborly collects and uses personal data.",
			Content:  privacyPolicy,
			Audience: models.AudienceAll,
			Version:  "v1.0",
			Updated:  legalUpdated,
		},
		{
			ID:       "posting",
			Title:    "Task Posting Guidelines",
			Summary:  "What may be posted and how budgets are handled.",
			Content:  postingGuidelines,
			Audience: models.RolePoster,
			Version:  "v1.0",
			Updated:  legalUpdated,
		},
		{
			ID:       "neighbors",
			Title:    "Neighbor Code of Conduct",
			Summary:  "Rules every neighbor accepting tasks must follow.",
			Content:  neighborConduct,
			Audience: models.RoleNeighbor,
			Version:  "v1.0",
			Updated:  legalUpdated,
		},
	}
}

// GetLegalSectionsFor returns legal documents relevant to the specified role.
// Admins see everything.
func (a *DefaultAdminService) GetLegalSectionsFor(role string) []models.LegalSection {
	all := a.GetLegalSections()
	if role == models.RoleAdmin {
		return all
	}
	var filtered []models.LegalSection
	for _, section := range all {
		if section.Audience == models.AudienceAll || section.Audience == role {
			filtered = append(filtered, section)
		}
	}
	return filtered
}

const termsOfService = `Welcome to Neighborly. By using the platform you agree to these Terms of Service.

1. Eligibility: You must be 18+ to post or accept tasks.
2. Platform Use: Neighborly connects people who need help with neighbors who offer it.
3. Liability: Neighborly is a facilitator; neighbors are independent.
4. Disputes: Report disputes within 48 hours of task completion.`

const privacyPolicy = `Neighborly collects only the data needed to match tasks with neighbors.

1. Data We Collect: Name, email, phone, approximate location, skills.
2. How We Use It: Matching, notifications, account security.
3. Rights: You can request data deletion at any time.`

const postingGuidelines = `1. Describe the task honestly, including size and materials.
2. Set a fair budget; it is shown to neighbors before they accept.
3. Illegal, hazardous, or discriminatory requests are removed.`

const neighborConduct = `All neighbors agree to:

- Accept only tasks they can complete safely.
- Keep the availability calendar accurate.
- Respect the time, property, and privacy of posters.

Violations may result in suspension.`
