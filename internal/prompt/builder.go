// File path: internal/prompt/builder.go

// Package prompt renders domain state into model instructions. Every
// function here is a pure function of its inputs; no model calls, no clocks,
// no randomness, so prompts are exactly reproducible in tests.
package prompt

import (
	"fmt"
	"strings"

	"github.com/b08x/script-craft-v2/internal/document"
	"github.com/b08x/script-craft-v2/internal/llm"
	"github.com/b08x/script-craft-v2/internal/persona"
	"github.com/b08x/script-craft-v2/internal/script"
	"github.com/b08x/script-craft-v2/internal/session"
)

// MaxInlineChars caps raw source text embedded in analysis prompts so a
// large upload cannot grow a prompt without bound.
const MaxInlineChars = 30000

// PersonaProfile serializes one persona as the bullet list the model sees.
// Binary context attachments are referenced by name and type only; text
// attachments embed their decoded content.
func PersonaProfile(p persona.Persona) string {
	var b strings.Builder
	fmt.Fprintf(&b, "### %s (id: %s)\n", p.Name, p.ID)
	fmt.Fprintf(&b, "- Role: %s\n", p.Role)
	if p.CommunicationStyle != "" {
		fmt.Fprintf(&b, "- Communication style: %s\n", p.CommunicationStyle)
	}
	if p.ExpertiseLevel != "" {
		fmt.Fprintf(&b, "- Expertise level: %s\n", p.ExpertiseLevel)
	}
	if len(p.PersonalityTraits) > 0 {
		fmt.Fprintf(&b, "- Personality traits: %s\n", strings.Join(p.PersonalityTraits, ", "))
	}
	writeOptional(&b, "Quirks", p.Quirks)
	writeOptional(&b, "Motivations", p.Motivations)
	writeOptional(&b, "Backstory", p.Backstory)
	writeOptional(&b, "Emotional range", p.EmotionalRange)
	writeSpeakingPatterns(&b, p.SpeakingPatterns)
	if p.ContextFile != nil {
		writeContextFile(&b, "Voice reference", p.ContextFile)
	}
	return b.String()
}

func writeOptional(b *strings.Builder, label, value string) {
	if strings.TrimSpace(value) != "" {
		fmt.Fprintf(b, "- %s: %s\n", label, value)
	}
}

func writeSpeakingPatterns(b *strings.Builder, sp persona.SpeakingPatterns) {
	descriptors := make([]string, 0, 6)
	if sp.SentenceLength != "" {
		descriptors = append(descriptors, sp.SentenceLength+" sentences")
	}
	if sp.VocabularyComplexity != "" {
		descriptors = append(descriptors, sp.VocabularyComplexity+" vocabulary")
	}
	if sp.HumorLevel != "" {
		descriptors = append(descriptors, sp.HumorLevel+" humor")
	}
	if len(descriptors) > 0 {
		fmt.Fprintf(b, "- Speaking patterns: %s\n", strings.Join(descriptors, ", "))
	}
	writeOptional(b, "Filler words", sp.FillerWords)
	writeOptional(b, "Pauses", sp.Pauses)
	writeOptional(b, "Speech impediments", sp.Impediments)
	if sp.ContextFile != nil {
		writeContextFile(b, "Speaking reference", sp.ContextFile)
	}
}

func writeContextFile(b *strings.Builder, label string, cf *persona.ContextFile) {
	if strings.TrimSpace(cf.Text) != "" {
		fmt.Fprintf(b, "- %s (%s, %s):\n%s\n", label, cf.Name, cf.MIME, Truncate(cf.Text, MaxInlineChars))
		return
	}
	// Audio/video reference: name and type only, never the bytes.
	fmt.Fprintf(b, "- %s attached: %s (%s)\n", label, cf.Name, cf.MIME)
}

// KnowledgeBase serializes a persona's source documents into delimited
// blocks with metadata and topics, or guidance text when none are attached.
func KnowledgeBase(p persona.Persona) string {
	completed := make([]document.SourceDocument, 0, len(p.SourceDocuments))
	for _, doc := range p.SourceDocuments {
		if doc.Status == document.StatusCompleted {
			completed = append(completed, doc)
		}
	}
	if len(completed) == 0 {
		return fmt.Sprintf("%s has no source documents. Draw on the persona description alone and avoid inventing citations.\n", p.Name)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Knowledge base for %s:\n", p.Name)
	for _, doc := range completed {
		fmt.Fprintf(&b, "--- document: %s ---\n", doc.Name)
		if m := doc.Metadata; m != nil {
			if m.Author != "" {
				fmt.Fprintf(&b, "Author: %s\n", m.Author)
			}
			if m.Date != "" {
				fmt.Fprintf(&b, "Date: %s\n", m.Date)
			}
			if m.Domain != "" {
				fmt.Fprintf(&b, "Domain: %s\n", m.Domain)
			}
		}
		if len(doc.Topics) > 0 {
			fmt.Fprintf(&b, "Topics: %s\n", strings.Join(doc.Topics, ", "))
		}
		fmt.Fprintf(&b, "%s\n--- end document ---\n", Truncate(doc.Content, MaxInlineChars))
	}
	return b.String()
}

// scriptFormatConstraint spells out the exact JSON shape with a concrete
// example built from real persona ids, so placeholder ids never leak into
// output.
func scriptFormatConstraint(personas []persona.Persona) string {
	var b strings.Builder
	b.WriteString("Respond with a JSON array only. Each element must be an object with exactly two keys: ")
	b.WriteString(`"speakerId" (one of the persona ids above, as a string) and "line" (the spoken dialogue).` + "\n")
	b.WriteString("Example:\n[\n")
	for i := 0; i < 2 && i < len(personas); i++ {
		fmt.Fprintf(&b, "  {\"speakerId\": %q, \"line\": \"...\"}", personas[i].ID)
		if i == 0 && len(personas) > 1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("]\nDo not invent speaker ids and do not add commentary outside the JSON.\n")
	return b.String()
}

// Script builds the whole-script generation prompt.
func Script(personas []persona.Persona, settings session.GenerationSettings, showIntro, instruction string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a %d-minute %s dialogue between %d speakers at a %s complexity level.\n\n",
		settings.DialogueLengthMinutes, settings.ConversationStyle, len(personas), settings.ComplexityLevel)
	b.WriteString("## Speakers\n\n")
	for _, p := range personas {
		b.WriteString(PersonaProfile(p))
		b.WriteString("\n")
	}
	b.WriteString("## Knowledge bases\n\n")
	for _, p := range personas {
		b.WriteString(KnowledgeBase(p))
		b.WriteString("\n")
	}
	if strings.TrimSpace(showIntro) != "" {
		fmt.Fprintf(&b, "## Show intro\n\nThe dialogue follows this scripted introduction:\n%s\n\n", showIntro)
	}
	if strings.TrimSpace(instruction) != "" {
		fmt.Fprintf(&b, "## Direction\n\n%s\n\n", instruction)
	}
	b.WriteString("## Output format\n\n")
	b.WriteString(scriptFormatConstraint(personas))
	return b.String()
}

// NextLine builds the single-next-line prompt for the given speaker.
func NextLine(personas []persona.Persona, settings session.GenerationSettings, history []script.Line, speaker persona.Persona, instruction string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Continue a %s dialogue with one more line, spoken by %s.\n\n", settings.ConversationStyle, speaker.Name)
	b.WriteString("## Speakers\n\n")
	for _, p := range personas {
		b.WriteString(PersonaProfile(p))
		b.WriteString("\n")
	}
	b.WriteString(KnowledgeBase(speaker))
	b.WriteString("\n## Conversation so far\n\n")
	b.WriteString(Transcript(personas, history))
	if strings.TrimSpace(instruction) != "" {
		fmt.Fprintf(&b, "\n## Direction\n\n%s\n", instruction)
	}
	fmt.Fprintf(&b, "\nRespond with a JSON object only: {\"line\": \"...\"} holding the next line for %s. No other keys, no commentary.\n", speaker.Name)
	return b.String()
}

// Revise builds the line-revision prompt.
func Revise(speaker persona.Persona, line script.Line, instruction string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Rewrite one line of dialogue spoken by %s.\n\n", speaker.Name)
	b.WriteString(PersonaProfile(speaker))
	fmt.Fprintf(&b, "\nCurrent line:\n%s\n\nRevision request: %s\n", line.Text, instruction)
	b.WriteString("\nRespond with a JSON object only: {\"line\": \"...\"} containing the rewritten line. Keep the speaker's voice.\n")
	return b.String()
}

// Transcript renders script history with speaker names for prompts.
func Transcript(personas []persona.Persona, lines []script.Line) string {
	names := make(map[string]string, len(personas))
	for _, p := range personas {
		names[p.ID] = p.Name
	}
	var b strings.Builder
	for _, line := range lines {
		name := names[line.SpeakerID]
		if name == "" {
			name = line.SpeakerID
		}
		fmt.Fprintf(&b, "%s: %s\n", name, line.Text)
	}
	if b.Len() == 0 {
		return "(the conversation has not started)\n"
	}
	return b.String()
}

// PersonaAnalysis builds the transcript-to-persona analysis prompt.
func PersonaAnalysis(transcript string) string {
	var b strings.Builder
	b.WriteString("Analyze the speaking style in the transcript below and describe the speaker as a dialogue persona.\n")
	b.WriteString("Infer name (or invent a fitting one), role, communication style, expertise level, personality traits, quirks, motivations, backstory, emotional range and speaking patterns.\n")
	b.WriteString("Respond with a single JSON object matching the requested schema, nothing else.\n\nTranscript:\n")
	b.WriteString(Truncate(transcript, MaxInlineChars))
	b.WriteString("\n")
	return b.String()
}

// DocumentAnalysis builds the multi-part document analysis request: an
// instruction part plus either inline text or the raw binary for PDFs.
func DocumentAnalysis(name string, kind document.Kind, data []byte, text string) []llm.Part {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze the document %q for use as dialogue reference material.\n", name)
	b.WriteString("Extract the full text, author/date/domain metadata where evident, the overall topic list, and a chunked breakdown where each chunk covers one coherent passage with its topics.\n")
	b.WriteString("Respond with a single JSON object matching the requested schema.\n")
	if kind == document.KindPDF {
		return []llm.Part{
			llm.TextPart(b.String()),
			llm.BlobPart("application/pdf", data),
		}
	}
	b.WriteString("\nDocument text:\n")
	b.WriteString(Truncate(text, MaxInlineChars))
	b.WriteString("\n")
	return []llm.Part{llm.TextPart(b.String())}
}

// Topics builds the standalone topic-extraction prompt.
func Topics(text string) string {
	var b strings.Builder
	b.WriteString("List the main topics covered by the text below as a JSON array of short strings. Respond with the array only.\n\nText:\n")
	b.WriteString(Truncate(text, MaxInlineChars))
	b.WriteString("\n")
	return b.String()
}

// Truncate caps text at max characters, marking the cut.
func Truncate(text string, max int) string {
	if max <= 0 || len(text) <= max {
		return text
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "\n[truncated]"
}
