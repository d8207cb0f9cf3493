// Vibeyf - Mood-Aware Music Recommendation
// Copyright 2026 The Vibeyf Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vibeyf-ai/vibeyf

package similarity

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"strconv"

	"github.com/vibeyf-ai/vibeyf/internal/catalog"
)

// Fingerprint identifies a catalog text set embedded by a given model. It is
// the SHA-256 of the (type, id, text) triples in key order, NUL separated,
// followed by the model identity and dimension.
func Fingerprint(texts map[catalog.Key]string, model string, dim int) string {
	h := sha256.New()
	sep := []byte{0}
	for _, k := range sortedKeys(texts) {
		h.Write([]byte(k.Type))
		h.Write(sep)
		h.Write([]byte(k.ID))
		h.Write(sep)
		h.Write([]byte(texts[k]))
		h.Write(sep)
	}
	h.Write([]byte(model))
	h.Write(sep)
	h.Write([]byte(strconv.Itoa(dim)))
	return hex.EncodeToString(h.Sum(nil))
}

func sortedKeys(texts map[catalog.Key]string) []catalog.Key {
	keys := make([]catalog.Key, 0, len(texts))
	for k := range texts {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b catalog.Key) int {
		return a.Compare(b)
	})
	return keys
}
