package prompts

import (
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

// SectionPrompts holds one chat template per content section. Each prompt
// scopes the model to that section's purpose and length, and every prompt
// carries the locality-only rule: never a precise address.
type SectionPrompts struct {
	templates map[string]prompt.ChatTemplate
}

// Section keys accepted by the synthesis stage.
const (
	SectionTitle       = "title"
	SectionDescription = "description"
	SectionAmenities   = "amenities"
	SectionHouseRules  = "house_rules"
	SectionLocalArea   = "local_area"
	SectionHostBio     = "host_bio"
	SectionSentiment   = "review_sentiment"
	SectionSEO         = "seo_keywords"
)

func AllSections() []string {
	return []string{
		SectionTitle, SectionDescription, SectionAmenities, SectionHouseRules,
		SectionLocalArea, SectionHostBio, SectionSentiment, SectionSEO,
	}
}

func IsKnownSection(key string) bool {
	for _, s := range AllSections() {
		if s == key {
			return true
		}
	}
	return false
}

const outputContract = `# Output Contract
Return ONLY a JSON object with this exact shape, no markdown fences, no commentary:
{{"content": "<the written section>", "suggestions": ["<improvement tip>", ...], "score": <integer 0-100>}}

**IMPORTANT**: "content" must be plain text ready to publish. "score" rates the original content's quality.
**ALWAYS**: Mention only the general locality (neighborhood, town, region). NEVER include a street address, unit number, or anything that pinpoints the property.`

func NewSectionPrompts() *SectionPrompts {
	sp := &SectionPrompts{templates: map[string]prompt.ChatTemplate{}}

	sp.templates[SectionTitle] = sectionTemplate(
		`Write one listing title of at most 50 characters. Lead with the property's strongest hook (view, style, or standout amenity). No emoji, no ALL CAPS.`)
	sp.templates[SectionDescription] = sectionTemplate(
		`Write a listing description of 120-200 words in warm, concrete language. Open with the experience of arriving, cover the space and its best amenities, close with the locality's appeal.`)
	sp.templates[SectionAmenities] = sectionTemplate(
		`Write an amenities highlight of 60-100 words. Group the listed amenities into 3-4 guest benefits rather than enumerating them. Do not invent amenities that are not in the data.`)
	sp.templates[SectionHouseRules] = sectionTemplate(
		`Write house rules of 80-120 words in a firm but welcoming tone, appropriate for this property type and typical guests. Standard structure: check-in/out, quiet hours, smoking, pets, parties.`)
	sp.templates[SectionLocalArea] = sectionTemplate(
		`Write a local-area guide of 100-160 words covering the kind of food, nature and activities a guest finds near this locality. Stay at neighborhood/town granularity.`)
	sp.templates[SectionHostBio] = sectionTemplate(
		`Write a host bio of 60-100 words in first person, grounded in the host data provided. If the host is a Superhost, mention it once, naturally.`)
	sp.templates[SectionSentiment] = sectionTemplate(
		`Summarize the guest reviews in 80-140 words: overall sentiment, the two themes guests praise most, and one recurring niggle if any exists. Quote at most one short phrase.`)
	sp.templates[SectionSEO] = sectionTemplate(
		`Write an SEO snippet: a meta description of at most 155 characters, then a line starting "Keywords: " with 6-10 comma-separated search phrases a traveler would type for this property type and locality.`)

	return sp
}

// Get returns the template for a section key, or nil if unknown.
func (sp *SectionPrompts) Get(key string) prompt.ChatTemplate {
	return sp.templates[key]
}

func sectionTemplate(task string) prompt.ChatTemplate {
	return prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(`# Your Role
You are a senior short-term-rental copywriter producing guest-facing listing content.

# Your Task
`+task+`

`+outputContract),
		schema.UserMessage(`# Property Data
Name: {property_name}
Type: {property_type} (category: {property_category})
Locality: {location}
Overall rating: {overall_rating} from {total_review_count} reviews
Amenities: {amenities}
Host: {host_name} (superhost: {is_superhost})
Host bio on file: {host_bio}

# Guest Reviews (may be empty)
{reviews}

# Existing Content For This Section (may be empty)
{original_content}

Write the section now. Return only the JSON object.`),
	)
}

// ImprovementsTemplate asks the model to diff original vs synthesized
// content. Best-effort secondary call; its failure never fails a section.
func ImprovementsTemplate() prompt.ChatTemplate {
	return prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(`You compare two versions of rental listing copy.
Return ONLY a JSON object: {{"suggestions": ["<what changed and why it helps>", ...], "score": <integer 0-100 rating the original>}}.
At most 4 suggestions, each one sentence.`),
		schema.UserMessage(`# Original
{original_content}

# Rewritten
{synthesized_content}

Summarize what improved. Return only the JSON object.`),
	)
}
