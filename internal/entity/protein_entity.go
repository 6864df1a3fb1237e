package entity

import (
	"fmt"
	"time"
)

type SequenceFormat string

const (
	FormatNone  SequenceFormat = ""
	FormatFasta SequenceFormat = "fasta"
	FormatPdb   SequenceFormat = "pdb"
	FormatRaw   SequenceFormat = "raw"
)

func (f SequenceFormat) Valid() bool {
	switch f {
	case FormatFasta, FormatPdb, FormatRaw:
		return true
	}
	return false
}

// ReliableConfidence is the threshold above which a confidence score is shown as reliable.
const ReliableConfidence = 90

// ProteinFile describes the uploaded file backing the current protein session.
type ProteinFile struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType,omitempty"`
}

type ProteinSession struct {
	File     *ProteinFile   `json:"file"`
	Sequence string         `json:"sequence"`
	Format   SequenceFormat `json:"format"`
}

type PredictionOptions struct {
	IncludeDomains      *bool    `json:"includeDomains,omitempty"`
	IncludeStructure    *bool    `json:"includeStructure,omitempty"`
	ConfidenceThreshold *float64 `json:"confidenceThreshold,omitempty"`
}

type PredictionRequest struct {
	Sequence string             `json:"sequence"`
	Format   SequenceFormat     `json:"format"`
	Options  *PredictionOptions `json:"options,omitempty"`
}

type ProteinDomain struct {
	Name       string  `json:"name"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Confidence float64 `json:"confidence"`
	Function   string  `json:"function,omitempty"`
}

type GoTerm struct {
	Id       string `json:"id"`
	Term     string `json:"term"`
	Evidence string `json:"evidence"`
}

type LiteratureReference struct {
	Id      string   `json:"id"`
	Title   string   `json:"title"`
	Authors []string `json:"authors"`
	Journal string   `json:"journal,omitempty"`
	Year    int      `json:"year,omitempty"`
	Doi     string   `json:"doi,omitempty"`
	Url     string   `json:"url"`
}

// PredictionResult is immutable once created by the prediction service.
type PredictionResult struct {
	Id          string                `json:"id"`
	ProteinName string                `json:"proteinName"`
	Function    string                `json:"function"`
	Confidence  float64               `json:"confidence"`
	Domains     []ProteinDomain       `json:"domains"`
	Structure   string                `json:"structure,omitempty"`
	GoTerms     []GoTerm              `json:"goTerms,omitempty"`
	Literature  []LiteratureReference `json:"literature"`
	CreatedAt   time.Time             `json:"createdAt"`
}

func (r PredictionResult) IsReliable() bool {
	return r.Confidence > ReliableConfidence
}

// Validate checks the invariants a prediction must satisfy before it is accepted.
func (r PredictionResult) Validate() error {
	if r.Id == "" {
		return fmt.Errorf("prediction result has no id")
	}
	if r.Confidence < 0 || r.Confidence > 100 {
		return fmt.Errorf("prediction confidence %.2f outside [0,100]", r.Confidence)
	}
	for _, d := range r.Domains {
		if d.Start > d.End {
			return fmt.Errorf("domain %q has start %d after end %d", d.Name, d.Start, d.End)
		}
		if d.Confidence < 0 || d.Confidence > 100 {
			return fmt.Errorf("domain %q confidence %.2f outside [0,100]", d.Name, d.Confidence)
		}
	}
	return nil
}

// HistoryEntry indexes a past prediction result.
type HistoryEntry struct {
	Id          string    `json:"id"`
	ProteinName string    `json:"proteinName"`
	Timestamp   time.Time `json:"timestamp"`
	ResultId    string    `json:"resultId"`
}
