// Package journal reads the append-only chunks produced by the (out of
// scope) harvester: line-delimited JSON user/key records, optionally
// LZMA/xz-compressed, living in a directory named keys-NNNN.json[.xz].
package journal

import (
	"encoding/json"
	"fmt"
)

// User carries the identity and optional profile fields of one harvested
// account. ID, Login, CreatedAt and UpdatedAt are required (see
// Record.Validate); the profile fields describe what the harvester happened
// to see on the user's profile at collection time.
type User struct {
	ID         int64  `json:"id"`
	Login      string `json:"login"`
	Name       string `json:"name,omitempty"`
	Email      string `json:"email,omitempty"`
	Company    string `json:"company,omitempty"`
	Bio        string `json:"bio,omitempty"`
	Location   string `json:"location,omitempty"`
	WebsiteURL string `json:"websiteUrl,omitempty"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

// Record is one line of a journal chunk: a user and the authorized_keys
// lines published on their account. Keys are kept as raw lines — parsing
// into moduli is sshkey's job, not this package's.
type Record struct {
	User User     `json:"user"`
	Keys []string `json:"keys"`
}

// Validate checks the required fields for a journal
// record. It does not validate the key lines themselves — that happens one
// key at a time in sshkey.Parse, where a bad key is a skip, not a fatal
// error.
func (r Record) Validate() error {
	if r.User.ID <= 0 {
		return fmt.Errorf("journal: record has non-positive user.id %d", r.User.ID)
	}
	if r.User.Login == "" {
		return fmt.Errorf("journal: record for user.id %d is missing login", r.User.ID)
	}
	if r.User.CreatedAt == "" || r.User.UpdatedAt == "" {
		return fmt.Errorf("journal: record for user.id %d is missing createdAt/updatedAt", r.User.ID)
	}
	return nil
}

// decode unmarshals one JSON line into a validated Record. A decode or
// validation failure is always fatal to the audit ("a bad
// journal record indicates corruption and invalidates statistics").
func decode(line []byte) (Record, error) {
	var rec Record
	if err := json.Unmarshal(line, &rec); err != nil {
		return Record{}, fmt.Errorf("journal: decode record: %w", err)
	}
	if err := rec.Validate(); err != nil {
		return Record{}, err
	}
	return rec, nil
}
