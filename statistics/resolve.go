package statistics

import (
	"strings"

	"github.com/kitaplik/circulation-ledger-go/textfold"
)

// Resolution is the outcome of ResolveStudent.
//
// Key is the canonical key the entry should live under from now on.
// Previous is the key the entry was actually found under when that differs
// from Key; the caller must delete Previous and reinsert at Key so the
// document converges toward one canonical key per person. IsNew marks a
// freshly created zeroed entry.
type Resolution struct {
	Key      string
	Previous string
	Entry    StudentCounters
	IsNew    bool
}

// ResolveStudent locates the counters for a free-text person name among
// the existing entries. It is a pure lookup: the map is never mutated.
//
// Matching falls back through three tiers, because the name spelled at
// return time may not match how the person was recorded at borrow time:
//
//  1. exact match on the normalized key;
//  2. a scan for an entry whose reconstructed "name surname" folds to the
//     same key, or - when the input has no surname part - an entry with an
//     empty surname whose bare name matches the input's single token;
//  3. a fresh zeroed entry.
//
// No tier ever fails: imperfect identity resolution degrades to a new
// counter bucket instead of failing the underlying operation.
func ResolveStudent(students map[string]StudentCounters, input string) Resolution {
	first, surname := SplitName(input)
	key := textfold.Key(input)

	if entry, ok := students[key]; ok {
		return Resolution{Key: key, Entry: entry}
	}

	for existingKey, entry := range students {
		reconstructed := textfold.Key(entry.Name + " " + entry.Surname)

		bareNameMatch := surname == "" && entry.Surname == "" && textfold.Key(entry.Name) == key

		if reconstructed == key || bareNameMatch {
			return Resolution{Key: key, Previous: existingKey, Entry: entry}
		}
	}

	return Resolution{
		Key:   key,
		Entry: StudentCounters{Name: first, Surname: surname},
		IsNew: true,
	}
}

// SplitName splits a free-text name into its first token and the rest
// joined as the surname, preserving display casing.
func SplitName(input string) (first, surname string) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return "", ""
	}

	return fields[0], strings.Join(fields[1:], " ")
}
