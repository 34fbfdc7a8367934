package analyze

import "fmt"

const (
	recapSystem = "You are an expert literary assistant. Always respond in Markdown format."
	xraySystem  = "You are an expert literary assistant. You strictly follow Markdown formatting rules."
)

const recapTemplate = `You are an expert literary assistant. Provide a narrative recap for the book '''%s''' by '''%s''' at %d%% progress.

CHAPTER CONTEXT: %s

INSTRUCTIONS:
- Briefly summarize the contents of this specific chapter using rich text formatting.
- NO SPOILERS. Only consider this content.
- Match the tone and energy of the book (funny, dark, exciting fantasy, etc.).
- Use **Bolding** for names/locations and *Italics* for major plot points.
- Answer with an entertaining tone and high-quality detail.

TEXT:
%s`

const xrayTemplate = `Perform a **Deep X-Ray Analysis** for the chapter **%s** of **%s**.

CRITICAL FORMATTING RULES:
1. Use Markdown headers starting with ` + "`###`" + `.
2. Use ` + "`*`" + ` (bullets) for lists.
3. Use ` + "`**`" + ` (bold) for names.
4. Use ` + "`_`" + ` and ` + "`<u>`" + ` combined for relationships.

REQUIRED STRUCTURE:

### Characters
* **Name** — [Description] _<u>relationship</u>_

### Locations
* **Place** — [Description] _<u>significance</u>_

### Timeline
* **Scene:** [One-sentence summary of specific event in this chapter]

### Re-immersion
* **Current Conflict:** [1 sentence]
* **Mystery:** [1 sentence]

TEXT TO ANALYZE:
%s`

// RecapRequest builds the narrative-recap request for one chapter.
// progress is how far through the book the reader is, in percent.
func RecapRequest(chapter, book, author, text string, progress int) Request {
	return Request{
		System:  recapSystem,
		Prompt:  fmt.Sprintf(recapTemplate, book, author, progress, chapter, text),
		Chapter: chapter,
		Book:    book,
		Author:  author,
	}
}

// XRayRequest builds the structured X-Ray request for one chapter.
func XRayRequest(chapter, book, author, text string) Request {
	return Request{
		System:  xraySystem,
		Prompt:  fmt.Sprintf(xrayTemplate, chapter, book, text),
		Chapter: chapter,
		Book:    book,
		Author:  author,
	}
}
