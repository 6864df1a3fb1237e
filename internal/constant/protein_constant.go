package constant

import "time"

const (
	ProteinStorageName = "bioez-protein-storage"
	ChatStorageName    = "bioez-chat-storage"
	PersistVersion     = 0

	// MaxPredictionHistory caps the persisted prediction history, newest first.
	MaxPredictionHistory = 50

	MaxUploadBytes = 10 * 1024 * 1024

	PredictionTimeout = 30 * time.Second
	DatabaseTimeout   = 10 * time.Second
	LLMTimeout        = 60 * time.Second

	MissingSequenceMessage = "No protein sequence provided for prediction"
)

var AllowedUploadExtensions = []string{".fasta", ".fa", ".pdb", ".txt"}
