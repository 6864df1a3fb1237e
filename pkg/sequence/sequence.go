// Package sequence validates uploaded protein files and works out what kind
// of sequence or structure text they hold.
package sequence

import (
	"bufio"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"bioez-be/internal/constant"
	"bioez-be/internal/entity"
	"bioez-be/internal/pkg/apperror"

	"github.com/gabriel-vasile/mimetype"
)

const (
	CodeUnsupportedFile = "UNSUPPORTED_FILE"
	CodeFileTooLarge    = "FILE_TOO_LARGE"
	CodeEmptyFile       = "EMPTY_FILE"
	CodeNotText         = "NOT_TEXT"
)

// Upload is a file as received from the client, before decoding.
type Upload struct {
	Name        string
	Size        int64
	ContentType string
	Data        []byte
}

// Decoded is an accepted upload.
type Decoded struct {
	File     entity.ProteinFile
	Sequence string
	Format   entity.SequenceFormat
}

// CheckFile rejects names and sizes that can never be accepted. It runs
// before the body is read.
func CheckFile(name string, size int64) error {
	ext := strings.ToLower(filepath.Ext(name))
	allowed := false
	for _, a := range constant.AllowedUploadExtensions {
		if ext == a {
			allowed = true
			break
		}
	}
	if !allowed {
		return apperror.Validation(CodeUnsupportedFile,
			fmt.Sprintf("Invalid file type. Please upload a %s file.", strings.Join(constant.AllowedUploadExtensions, ", "))).
			WithDetail("file", name)
	}
	if size > constant.MaxUploadBytes {
		return apperror.Validation(CodeFileTooLarge, "File is too large. Maximum size is 10MB.").
			WithDetail("size", size)
	}
	return nil
}

// Decode validates an upload and returns its text and detected format.
func Decode(u Upload) (*Decoded, error) {
	size := u.Size
	if size == 0 {
		size = int64(len(u.Data))
	}
	if err := CheckFile(u.Name, size); err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(u.Data))) == 0 {
		return nil, apperror.Validation(CodeEmptyFile, "The uploaded file is empty.")
	}
	if !isText(u.Data) {
		return nil, apperror.Validation(CodeNotText, "The uploaded file is not a text file.").
			WithDetail("detected", mimetype.Detect(u.Data).String())
	}

	text := string(u.Data)
	return &Decoded{
		File: entity.ProteinFile{
			Name:        u.Name,
			Size:        size,
			ContentType: mimetype.Detect(u.Data).String(),
		},
		Sequence: text,
		Format:   DetectFormat(u.Name, text),
	}, nil
}

func isText(data []byte) bool {
	if !utf8.Valid(data) {
		return false
	}
	for m := mimetype.Detect(data); m != nil; m = m.Parent() {
		if m.Is("text/plain") {
			return true
		}
	}
	return false
}

// DetectFormat classifies text as pdb, fasta or raw. The .pdb extension wins
// over content.
func DetectFormat(name, text string) entity.SequenceFormat {
	if strings.EqualFold(filepath.Ext(name), ".pdb") {
		return entity.FormatPdb
	}

	firstLine := ""
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), constant.MaxUploadBytes)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if firstLine == "" {
			firstLine = line
		}
		if isStructureRecord(line) {
			return entity.FormatPdb
		}
	}
	if strings.HasPrefix(firstLine, ">") {
		return entity.FormatFasta
	}
	return entity.FormatRaw
}

func isStructureRecord(line string) bool {
	return strings.HasPrefix(line, "ATOM") ||
		strings.HasPrefix(line, "HETATM") ||
		strings.HasPrefix(line, "HEADER")
}
