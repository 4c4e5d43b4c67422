package prompt

import "github.com/otherjamesbrown/meetflow/pkg/classify"

// Structured output templates per category. Categories without a dedicated
// template use genericTemplate. Omit-if-absent guidance lives in the
// formatting rules, not in code.
var sectionTemplates = map[classify.Category]string{
	classify.CategoryOneOnOne: `
## 1:1 Meeting Summary

## Discussion Highlights
- **Performance/Development:** [Key points about growth, achievements, or areas for improvement]
- **Current Projects:** [Status updates on key initiatives]
- **Challenges/Blockers:** [Any issues raised and support needed]

## Coaching & Development
- **Strengths Demonstrated:** [Specific examples]
- **Growth Areas:** [Skills or behaviors to develop]
- **Career Progression:** [Any discussions about next steps]

## Action Items
- [ ] **[Manager Action]** - Due: [Date]
- [ ] **[Employee Action]** - Due: [Date]

## Follow-up for Next 1:1
- [Topics to revisit]
- [Progress to check]

## Manager Notes (Confidential)
- [Any observations about engagement, motivation, or concerns]
`,

	classify.CategoryForecast: `
## Forecast Call Summary

## Pipeline Summary
- **Committed:** €[Amount] ([X] deals)
- **Best Case:** €[Amount] ([X] deals)
- **Pipeline Coverage:** [X:1 ratio]

## Key Deals
| Deal | Value | Stage | Close Date | Risk Level | Next Steps |
|------|-------|-------|------------|------------|------------|
| [Customer] | €[Value] | [Stage] | [Date] | [H/M/L] | [Action] |

## Changes Since Last Forecast
- **New Additions:** [Deals added to forecast]
- **Slipped Deals:** [Deals pushed out with reasons]
- **Lost/Removed:** [Deals removed with reasons]

## Risk Assessment
- **High Risk Deals:** [List with mitigation plans]
- **Dependencies:** [Technical, legal, or commercial blockers]

## Resource Requirements
- **SE Capacity:** [Any resource constraints]
- **Technical Support:** [Specialist needs]

## Action Items
- [ ] **[Task]** - Owner: [Name] - Due: [Date]

## Commitments Made
- [Specific commitments for the period]
`,

	classify.CategoryTeamMeeting: `
## Team Meeting Summary

## Team Updates
- **Wins/Successes:** [Celebrate achievements]
- **Current Priorities:** [Top 3-5 team focuses]

## Project Status
| Project | Owner | Status | Next Milestone | Risks |
|---------|-------|---------|----------------|-------|
| [Name] | [SE] | [RAG] | [Date/Action] | [Issues] |

## Cross-functional Topics
- **Product Updates:** [Relevant product changes]
- **Process Changes:** [Any new procedures]
- **Training Needs:** [Skills gaps identified]

## Team Health
- **Morale Indicators:** [Observations]
- **Workload Balance:** [Any concerns]

## Action Items
- [ ] **[Task]** - Owner: [Name] - Due: [Date]

## Next Meeting Focus
- [Topics for next sync]
`,
}

const genericTemplate = `
## Meeting Summary

## Key Discussion Points
- **[Topic 1]:** [Summary and outcome]
- **[Topic 2]:** [Summary and outcome]

## Decisions Made
- [List key decisions with rationale]

## Action Items
- [ ] **[Task]** - Owner: [Name] - Due: [Date]

## Next Steps
- [Follow-up actions or meetings]
`

// SectionTemplate returns the structured output template for a category.
func SectionTemplate(category classify.Category) string {
	if t, ok := sectionTemplates[category]; ok {
		return t
	}
	return genericTemplate
}

// Worked input/output example pairs, defined only where a short example
// meaningfully constrains the output shape. Categories without one
// contribute nothing to the prompt.
var workedExamples = map[classify.Category]string{
	classify.CategoryForecast: `
**Example input fragment:** "We're committing the Acme renewal at 120K, close date end of month. Globex slipped to next quarter, legal is stuck on data residency."

**Example output fragment:**
## Pipeline Summary
- **Committed:** €120K (1 deal)

## Changes Since Last Forecast
- **Slipped Deals:** Globex pushed to next quarter (legal blocked on data residency)
`,

	classify.CategoryOneOnOne: `
**Example input fragment:** "You handled the outage call really well. Let's get you on the architecture certification before the next review cycle."

**Example output fragment:**
## Coaching & Development
- **Strengths Demonstrated:** Calm incident handling on the outage call

## Action Items
- [ ] **Enrol in architecture certification** - Due: before next review cycle
`,
}

// WorkedExample returns the example pair for a category, or "" when the
// category has none.
func WorkedExample(category classify.Category) string {
	return workedExamples[category]
}

// formattingRules is appended to every composed (non-custom) user prompt.
const formattingRules = `---
**Formatting Guidelines:**
- Use consistent ## headers for ALL main sections (never mix ## and ###)
- Bold important labels using **text**
- Use tables where appropriate
- Include checkbox format (- [ ]) for all action items
- If information isn't mentioned, omit the section
- Keep language professional but conversational
- Use British English spelling
- IMPORTANT: All section headers must be ## (level 2) - no ### headers`
