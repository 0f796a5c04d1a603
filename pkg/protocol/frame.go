package protocol

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	pk "github.com/Tnze/go-mc/net/packet"
	"github.com/klauspost/compress/zlib"
)

const (
	// MaxFrameLength bounds the outer length prefix (21 bits, as vanilla).
	MaxFrameLength = 1<<21 - 1
	// MaxDataLength bounds the inflated size of a compressed frame.
	MaxDataLength = 1 << 23

	// CompressionDisabled is the threshold before SetCompression arrives.
	CompressionDisabled int32 = -1
)

var zlibWriters = sync.Pool{
	New: func() any { return zlib.NewWriter(nil) },
}

// Serialize frames p for the wire. threshold follows the SetCompression
// convention: -1 disables the compression header, otherwise bodies of at
// least threshold bytes are deflated.
func Serialize(p pk.Packet, threshold int32) ([]byte, error) {
	var body bytes.Buffer
	if _, err := pk.VarInt(p.ID).WriteTo(&body); err != nil {
		return nil, err
	}
	body.Write(p.Data)

	inner := &body
	switch {
	case threshold < 0:
	case int64(body.Len()) < int64(threshold):
		inner = new(bytes.Buffer)
		pk.VarInt(0).WriteTo(inner)
		inner.Write(body.Bytes())
	default:
		inner = new(bytes.Buffer)
		pk.VarInt(int32(body.Len())).WriteTo(inner)
		zw := zlibWriters.Get().(*zlib.Writer)
		zw.Reset(inner)
		if _, err := zw.Write(body.Bytes()); err != nil {
			zlibWriters.Put(zw)
			return nil, fmt.Errorf("deflate: %w", err)
		}
		if err := zw.Close(); err != nil {
			zlibWriters.Put(zw)
			return nil, fmt.Errorf("deflate: %w", err)
		}
		zlibWriters.Put(zw)
	}

	if inner.Len() > MaxFrameLength {
		return nil, fmt.Errorf("frame too large: %d bytes", inner.Len())
	}

	out := bytes.NewBuffer(make([]byte, 0, inner.Len()+MaxVarIntLen))
	pk.VarInt(int32(inner.Len())).WriteTo(out)
	out.Write(inner.Bytes())
	return out.Bytes(), nil
}

// SplitFrame looks for one complete frame at the start of buf. It returns the
// frame payload (without the length prefix) and the total number of bytes
// the frame occupies. n is 0 when buf does not yet hold a whole frame.
func SplitFrame(buf []byte) (payload []byte, n int, err error) {
	length, ln, ok, err := PeekVarInt(buf)
	if err != nil {
		return nil, 0, DecodeError("frame length", err)
	}
	if !ok {
		return nil, 0, nil
	}
	if length < 0 || length > MaxFrameLength {
		return nil, 0, DecodeError("frame length", fmt.Errorf("invalid length %d", length))
	}
	total := ln + int(length)
	if len(buf) < total {
		return nil, 0, nil
	}
	return buf[ln:total], total, nil
}

// ParsePayload strips the optional compression header from a frame payload
// and splits it into packet id and field bytes.
func ParsePayload(payload []byte, threshold int32) (pk.Packet, error) {
	body := payload
	if threshold >= 0 {
		dataLen, n, err := readVarInt(payload)
		if err != nil {
			return pk.Packet{}, fmt.Errorf("data length: %w", err)
		}
		rest := payload[n:]
		switch {
		case dataLen == 0:
			body = rest
		case dataLen < 0 || dataLen > MaxDataLength:
			return pk.Packet{}, fmt.Errorf("invalid data length %d", dataLen)
		case dataLen < threshold:
			return pk.Packet{}, fmt.Errorf("compressed size %d below threshold %d", dataLen, threshold)
		default:
			inflated, err := inflate(rest, int(dataLen))
			if err != nil {
				return pk.Packet{}, err
			}
			body = inflated
		}
	}

	id, n, err := readVarInt(body)
	if err != nil {
		return pk.Packet{}, fmt.Errorf("packet id: %w", err)
	}
	return pk.Packet{ID: id, Data: body[n:]}, nil
}

func inflate(src []byte, size int) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("inflate: %w", err)
	}
	defer zr.Close()

	out := make([]byte, 0, size)
	buf := bytes.NewBuffer(out)
	if _, err := io.Copy(buf, io.LimitReader(zr, int64(size)+1)); err != nil {
		return nil, fmt.Errorf("inflate: %w", err)
	}
	if buf.Len() != size {
		return nil, fmt.Errorf("inflate: got %d bytes, header says %d", buf.Len(), size)
	}
	return buf.Bytes(), nil
}
