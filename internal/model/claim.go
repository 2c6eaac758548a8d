package model

// ClaimKind categorizes what kind of token the miner matched
type ClaimKind string

const (
	KindQuoted   ClaimKind = "quoted"   // Quoted title or phrase
	KindDate     ClaimKind = "date"     // Year or month name
	KindNumber   ClaimKind = "number"   // Numeric or spelled-out quantity
	KindEntity   ClaimKind = "entity"   // Capitalized multi-word run
	KindSentence ClaimKind = "sentence" // Whole declarative sentence fallback
)

// Claim is a discrete, checkable span of the answer text.
// Start/End are byte offsets into the normalized answer; End is exclusive.
type Claim struct {
	ID    string    `json:"id"`
	Text  string    `json:"text"`
	Start int       `json:"start"`
	End   int       `json:"end"`
	Kind  ClaimKind `json:"kind"`
}

// Status is the claim-level verdict derived from its evidence items.
type Status string

const (
	StatusPending   Status = "pending" // Not evaluated yet
	StatusSupported Status = "supported"
	StatusUnknown   Status = "unknown"
)

// EvidenceLabel is the per-chunk verdict from the evidence scorer.
type EvidenceLabel string

const (
	LabelSupported     EvidenceLabel = "supported"
	LabelContradiction EvidenceLabel = "contradiction"
	LabelUnknown       EvidenceLabel = "unknown"
)

// EvidenceItem is one scored candidate chunk for a claim.
// Derived per retrieval call, never persisted.
type EvidenceItem struct {
	Idx     int           `json:"idx"`     // Chunk index within the document
	Text    string        `json:"text"`    // Chunk text
	Score   float64       `json:"score"`   // Cosine similarity to the claim
	Overlap float64       `json:"overlap"` // Lexical overlap ratio (0..1)
	Label   EvidenceLabel `json:"label"`
}
