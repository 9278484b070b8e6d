package service

import (
	"crypto/subtle"
	"encoding/binary"

	"github.com/ynpsss/labrador/internal/envelope/domain"
)

const (
	// framePrefixSize is the size of the random prefix at the start of
	// every message frame.
	framePrefixSize = 16

	// frameHeaderSize is the prefix plus the 4-byte big-endian content
	// length field.
	frameHeaderSize = framePrefixSize + 4
)

// encodeFrame builds the plaintext frame of the message path:
//
//	random prefix (16) || content length (4, big-endian) || content || recipientID
//
// The length field always equals the exact byte length of content. The
// recipient identity has no length prefix; on decode it is delimited by the
// total frame length.
func encodeFrame(content, recipientID []byte, random RandomSource) ([]byte, error) {
	frame := make([]byte, frameHeaderSize, frameHeaderSize+len(content)+len(recipientID))
	if err := random.Read(frame[:framePrefixSize]); err != nil {
		return nil, err
	}

	binary.BigEndian.PutUint32(frame[framePrefixSize:frameHeaderSize], uint32(len(content)))
	frame = append(frame, content...)
	frame = append(frame, recipientID...)
	return frame, nil
}

// decodeFrame extracts the content from a frame and verifies the trailing
// recipient identity against expectedID.
//
// Returns ErrFrameTruncated when the frame is shorter than its own length
// field implies, and ErrIdentityMismatch when the trailing identity differs
// from expectedID. The identity comparison is constant-time.
func decodeFrame(frame, expectedID []byte) ([]byte, error) {
	if len(frame) < frameHeaderSize {
		return nil, domain.ErrFrameTruncated
	}

	contentLen := int(binary.BigEndian.Uint32(frame[framePrefixSize:frameHeaderSize]))
	if contentLen < 0 || len(frame)-frameHeaderSize < contentLen {
		return nil, domain.ErrFrameTruncated
	}

	content := frame[frameHeaderSize : frameHeaderSize+contentLen]
	fromID := frame[frameHeaderSize+contentLen:]

	if len(fromID) != len(expectedID) || subtle.ConstantTimeCompare(fromID, expectedID) != 1 {
		return nil, domain.ErrIdentityMismatch
	}

	return content, nil
}
