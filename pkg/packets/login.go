package packets

import (
	"bytes"
	"io"

	pk "github.com/Tnze/go-mc/net/packet"
)

// NextStateLogin is the SetProtocol next state for a login connection.
const NextStateLogin = 2

// C2SSetProtocol is the handshake (Handshake 0x00).
type C2SSetProtocol struct {
	ProtocolVersion int32
	ServerHost      string
	ServerPort      uint16
	NextState       int32
}

func (*C2SSetProtocol) ID() int32 { return 0x00 }

func (p *C2SSetProtocol) Encode(w io.Writer) error {
	return writeFields(w,
		pk.VarInt(p.ProtocolVersion),
		pk.String(p.ServerHost),
		pk.UnsignedShort(p.ServerPort),
		pk.VarInt(p.NextState),
	)
}

func (p *C2SSetProtocol) Decode(r *bytes.Reader) error {
	return readFields(r,
		(*pk.VarInt)(&p.ProtocolVersion),
		(*pk.String)(&p.ServerHost),
		(*pk.UnsignedShort)(&p.ServerPort),
		(*pk.VarInt)(&p.NextState),
	)
}

// C2SLoginStart (Login 0x00).
type C2SLoginStart struct {
	Username string
}

func (*C2SLoginStart) ID() int32 { return 0x00 }

func (p *C2SLoginStart) Encode(w io.Writer) error {
	return writeFields(w, pk.String(p.Username))
}

func (p *C2SLoginStart) Decode(r *bytes.Reader) error {
	return readFields(r, (*pk.String)(&p.Username))
}

// S2CLoginDisconnect (Login 0x00). Reason is a JSON chat component.
type S2CLoginDisconnect struct {
	Reason string
}

func (*S2CLoginDisconnect) ID() int32 { return 0x00 }

func (p *S2CLoginDisconnect) Encode(w io.Writer) error {
	return writeFields(w, pk.String(p.Reason))
}

func (p *S2CLoginDisconnect) Decode(r *bytes.Reader) error {
	return readFields(r, (*pk.String)(&p.Reason))
}

// Text returns the reason as plain text.
func (p *S2CLoginDisconnect) Text() string { return PlainText(p.Reason) }

// S2CLoginSuccess (Login 0x02). UUID is the hyphenated string form.
type S2CLoginSuccess struct {
	UUID     string
	Username string
}

func (*S2CLoginSuccess) ID() int32 { return 0x02 }

func (p *S2CLoginSuccess) Encode(w io.Writer) error {
	return writeFields(w, pk.String(p.UUID), pk.String(p.Username))
}

func (p *S2CLoginSuccess) Decode(r *bytes.Reader) error {
	return readFields(r, (*pk.String)(&p.UUID), (*pk.String)(&p.Username))
}

// S2CSetCompression (Login 0x03).
type S2CSetCompression struct {
	Threshold int32
}

func (*S2CSetCompression) ID() int32 { return 0x03 }

func (p *S2CSetCompression) Encode(w io.Writer) error {
	return writeFields(w, pk.VarInt(p.Threshold))
}

func (p *S2CSetCompression) Decode(r *bytes.Reader) error {
	return readFields(r, (*pk.VarInt)(&p.Threshold))
}
