package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fadedpez/aceshigh/pkg/entities"
)

// Common storage errors
var (
	ErrClosed    = errors.New("hand writer is closed")
	ErrBadRecord = errors.New("malformed crib hand record")
)

const fieldSeparator = "|"

// HandWriter defines the interface for collecting crib hands outside the repository
type HandWriter interface {
	// WriteHands appends records in order
	WriteHands(ctx context.Context, hands []*entities.CribHandRecord) error

	// Close flushes pending records and releases the underlying resource
	Close() error
}

// Options represents storage configuration options
type Options struct {
	Path     string
	Truncate bool // Start a new file instead of appending
}

// NewOptions creates a new Options with default values
func NewOptions() *Options {
	return &Options{
		Path: "data/cribbage_hands.txt",
	}
}

// FormatLine renders a record as full|kept|cut|discarded|pre_cut_score|score
func FormatLine(h *entities.CribHandRecord) string {
	return strings.Join([]string{
		h.FullHand.String(),
		h.KeptHand.String(),
		h.Cut.String(),
		h.Discarded.String(),
		strconv.Itoa(h.PreCutScore),
		strconv.Itoa(h.Score),
	}, fieldSeparator)
}

// ParseLine reads a line produced by FormatLine
func ParseLine(line string) (*entities.CribHandRecord, error) {
	fields := strings.Split(strings.TrimSpace(line), fieldSeparator)
	if len(fields) != 6 {
		return nil, fmt.Errorf("%w: expected 6 fields, got %d", ErrBadRecord, len(fields))
	}

	hands := make([]entities.Hand, 0, 3)
	for _, i := range []int{0, 1, 3} {
		hand, err := entities.ParseHand(fields[i])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadRecord, err)
		}
		hands = append(hands, hand)
	}

	cut, err := entities.ParseCard(fields[2])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRecord, err)
	}

	preCut, err := strconv.Atoi(fields[4])
	if err != nil {
		return nil, fmt.Errorf("%w: pre-cut score: %v", ErrBadRecord, err)
	}
	score, err := strconv.Atoi(fields[5])
	if err != nil {
		return nil, fmt.Errorf("%w: score: %v", ErrBadRecord, err)
	}

	return &entities.CribHandRecord{
		FullHand:    hands[0],
		KeptHand:    hands[1],
		Cut:         cut,
		Discarded:   hands[2],
		PreCutScore: preCut,
		Score:       score,
	}, nil
}
