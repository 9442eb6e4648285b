// SPDX-FileCopyrightText: 2021 The Go-SSB Authors
//
// SPDX-License-Identifier: MIT

package opengroup

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ValidationData returns the bytes that are signed for msg under the passed signature version.
//
// It is the concatenation, without separators, of the trimmed body, the timestamp,
// the quote (timestamp, quotee, trimmed body and its server id if known),
// the server ids of all attachments in ascending order and the version.
// Numbers are written in decimal.
func ValidationData(msg Message, version uint64) ([]byte, error) {
	var buf bytes.Buffer

	writeString := func(field, s string) error {
		if !utf8.ValidString(s) {
			return Error{
				Code:  ErrorCodePayloadEncoding,
				Field: field,
				Cause: fmt.Errorf("not valid utf-8"),
			}
		}
		buf.WriteString(s)
		return nil
	}
	writeUint := func(v uint64) {
		buf.WriteString(strconv.FormatUint(v, 10))
	}

	if err := writeString("body", trimWhitespace(msg.body)); err != nil {
		return nil, err
	}
	writeUint(msg.timestamp)

	if q := msg.quote; q != nil {
		writeUint(q.QuotedMessageTimestamp)
		if err := writeString("quote.author", q.QuoteePublicKey); err != nil {
			return nil, err
		}
		if err := writeString("quote.text", trimWhitespace(q.QuotedMessageBody)); err != nil {
			return nil, err
		}
		if q.QuotedMessageServerID != nil {
			writeUint(*q.QuotedMessageServerID)
		}
	}

	for _, id := range sortedAttachmentIDs(msg.attachments) {
		writeUint(id)
	}

	writeUint(version)

	return buf.Bytes(), nil
}

func sortedAttachmentIDs(as []Attachment) []uint64 {
	ids := make([]uint64, len(as))
	for i, a := range as {
		ids[i] = a.ServerID
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// trimWhitespace strips whitespace and newlines from both ends.
// The Unicode White_Space set is exactly the separators (Zs, Zl, Zp) plus U+0009 to U+000D and U+0085.
func trimWhitespace(s string) string {
	return strings.TrimSpace(s)
}
