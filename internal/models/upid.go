package models

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/Siddarth2230/upid/pkg/upid"
)

// MaxBatch bounds the number of identifiers issued by one request.
const MaxBatch = 1000

// Record is an issued identifier as stored in the upids table. Prefix
// holds the padded form, e.g. "abzz".
type Record struct {
	ID        upid.UPID `json:"id" db:"id"`
	Prefix    string    `json:"prefix" db:"prefix"`
	Label     string    `json:"label,omitempty" db:"label"`
	IssuedAt  time.Time `json:"issued_at" db:"issued_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type IssueRequest struct {
	Prefix      string `json:"prefix"`
	TimestampMs *int64 `json:"timestamp_ms,omitempty"`
	Label       string `json:"label,omitempty" validate:"max=256"`
	Count       int    `json:"count,omitempty" validate:"omitempty,min=1,max=1000"`
}

type IssueResponse struct {
	IDs []Record `json:"ids"`
}

type ListResponse struct {
	Items []Record `json:"items"`
	Count int      `json:"count"`
}

// Decoded is the field breakdown of an identifier.
type Decoded struct {
	ID           string    `json:"id"`
	Canonical    string    `json:"canonical"`
	Prefix       string    `json:"prefix"`
	PaddedPrefix string    `json:"padded_prefix"`
	Timestamp    time.Time `json:"timestamp"`
	Milliseconds int64     `json:"milliseconds"`
	Random       string    `json:"random"`
	Version      uint8     `json:"version"`
	UUID         string    `json:"uuid"`
	Hex          string    `json:"hex"`
}

func NewDecoded(id upid.UPID) Decoded {
	return Decoded{
		ID:           id.String(),
		Canonical:    id.Canonical(),
		Prefix:       id.Prefix(),
		PaddedPrefix: id.PaddedPrefix(),
		Timestamp:    id.Time(),
		Milliseconds: id.Milliseconds(),
		Random:       fmt.Sprintf("%016x", id.Random()),
		Version:      id.Version(),
		UUID:         id.UUID().String(),
		Hex:          hex.EncodeToString(id[:]),
	}
}
