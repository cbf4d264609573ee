// Package repository orchestrates validate -> derive -> persist -> audit for
// each record kind. Derived fields are computed here, before a document ever
// reaches a store; stores stay a dumb persistence boundary.
//
// Concurrency model: every operation is an independent unit of work against
// shared storage with last-write-wins semantics. There is no optimistic
// concurrency token and no transaction spanning validate+persist+audit.
package repository

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/funsideofwine/guardian-grc/validation"
)

// Fields a patch may never overwrite. Identity and provenance are stamped by
// the system exactly once.
var protectedFields = map[string]bool{
	"id":             true,
	"_id":            true,
	"createdAt":      true,
	"incidentNumber": true,
}

// mergePatch applies a full-document partial update: existing is serialized,
// patch keys overwrite top-level fields (null deletes one), and the merged
// document is decoded into out. Unknown keys are dropped by the decode.
func mergePatch(existing interface{}, patch map[string]interface{}, out interface{}) error {
	base, err := json.Marshal(existing)
	if err != nil {
		return err
	}
	doc := map[string]interface{}{}
	if err := json.Unmarshal(base, &doc); err != nil {
		return err
	}
	for k, v := range patch {
		if protectedFields[k] {
			continue
		}
		if v == nil {
			delete(doc, k)
			continue
		}
		doc[k] = v
	}
	merged, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return json.Unmarshal(merged, out)
}

// badPatch wraps a merge failure (e.g. a malformed date string) as a
// validation error so callers report it as a 400, not a 500.
func badPatch(err error) error {
	verr := &validation.ValidationError{}
	verr.Add("body", fmt.Sprintf("patch cannot be applied: %v", err))
	return verr
}

// patchKeys renders the patched field names for change-history details.
func patchKeys(patch map[string]interface{}) string {
	keys := make([]string, 0, len(patch))
	for k := range patch {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := ""
	for i, k := range keys {
		if i > 0 {
			out += ", "
		}
		out += k
	}
	return out
}
