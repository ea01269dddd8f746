// File path: internal/document/types.go
package document

// Processing limits enforced before any model call.
const (
	MaxFileBytes   = 10 << 20
	MaxPerPersona  = 3
	MaxInlineRunes = 30000
)

type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// Metadata holds the descriptive fields the analysis model extracts from a
// source document.
type Metadata struct {
	Author   string `json:"author,omitempty"`
	Date     string `json:"date,omitempty"`
	Domain   string `json:"domain,omitempty"`
	FileType string `json:"fileType,omitempty"`
}

// Chunk is one model-delimited passage of a source document with its topics.
type Chunk struct {
	ID      string   `json:"id"`
	Content string   `json:"content"`
	Topics  []string `json:"topics,omitempty"`
}

// SourceDocument is reference material attributed to one persona's knowledge
// base. Status transitions processing -> completed|error exactly once; the
// content is immutable afterwards except for removal.
type SourceDocument struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Content  string    `json:"content"`
	Metadata *Metadata `json:"metadata,omitempty"`
	Chunks   []Chunk   `json:"chunks,omitempty"`
	Topics   []string  `json:"topics,omitempty"`
	Status   Status    `json:"processingStatus"`
	Error    string    `json:"error,omitempty"`
}

// Input is an uploaded file before ingestion.
type Input struct {
	Name string
	MIME string
	Data []byte
}

// Kind classifies an upload by how its text is obtained.
type Kind int

const (
	KindUnsupported Kind = iota
	KindText
	KindMarkdown
	KindPDF
	KindWord
)
