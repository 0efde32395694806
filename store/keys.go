/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package store

import (
	"encoding/binary"

	"github.com/hypermodeinc/s2geo/x"
)

const (
	// ByteGeometry is the key prefix of id -> geometry entries.
	ByteGeometry = byte(0x01)
	// ByteTerm is the key prefix of term -> id postings.
	ByteTerm = byte(0x02)

	termSep = byte(0x00)
	idLen   = 8
)

// GeometryKey returns the key holding the geometry of id.
func GeometryKey(id uint64) []byte {
	buf := make([]byte, 1+idLen)
	buf[0] = ByteGeometry
	binary.BigEndian.PutUint64(buf[1:], id)
	return buf
}

// TermPrefix returns the prefix shared by all postings of term. Ids follow in big endian
// so that iteration yields them sorted.
func TermPrefix(term string) []byte {
	buf := make([]byte, 0, 2+len(term)+idLen)
	buf = append(buf, ByteTerm)
	buf = append(buf, term...)
	return append(buf, termSep)
}

// PostingKey returns the key recording that id has term.
func PostingKey(term string, id uint64) []byte {
	buf := TermPrefix(term)
	var b [idLen]byte
	binary.BigEndian.PutUint64(b[:], id)
	return append(buf, b[:]...)
}

// parsePostingID returns the id of a posting key.
func parsePostingID(key []byte) uint64 {
	x.AssertTruef(len(key) >= 2+idLen && key[0] == ByteTerm, "Invalid posting key: %x", key)
	return binary.BigEndian.Uint64(key[len(key)-idLen:])
}
