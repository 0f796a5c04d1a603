package packets

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/Tnze/go-mc/nbt"
	pk "github.com/Tnze/go-mc/net/packet"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-mclib/legacy/pkg/protocol"
)

var thresholds = []int32{-1, 0, 64, 256, 10_000_000}

func pkPacket(id int32, data []byte) pk.Packet { return pk.Packet{ID: id, Data: data} }

// roundTrip frames p, splits the frame back out and decodes it.
func roundTrip(t *testing.T, state protocol.State, bound protocol.Bound, p Packet, threshold int32) Packet {
	t.Helper()
	raw, err := Marshal(p)
	require.NoError(t, err)
	frame, err := protocol.Serialize(raw, threshold)
	require.NoError(t, err)

	payload, n, err := protocol.SplitFrame(frame)
	require.NoError(t, err)
	require.Equal(t, len(frame), n, "frame length")

	parsed, err := protocol.ParsePayload(payload, threshold)
	require.NoError(t, err)
	got, err := Decode(state, bound, parsed)
	require.NoError(t, err)
	return got
}

func TestServerboundRoundTrip(t *testing.T) {
	cases := []struct {
		state protocol.State
		p     Packet
	}{
		{protocol.StateHandshake, &C2SSetProtocol{ProtocolVersion: protocol.Version, ServerHost: "127.0.0.1", ServerPort: 25565, NextState: NextStateLogin}},
		{protocol.StateLogin, &C2SLoginStart{Username: "bot"}},
		{protocol.StatePlay, &C2SKeepAlive{KeepAliveID: -559038737}},
		{protocol.StatePlay, &C2SChat{Message: "hello"}},
		{protocol.StatePlay, &C2SChat{Message: strings.Repeat("x", MaxChatLength)}},
		{protocol.StatePlay, &C2SUseEntity{Target: 42, Type: UseEntityAttack}},
		{protocol.StatePlay, &C2SUseEntity{Target: 42, Type: UseEntityInteractAt, TargetX: 0.5, TargetY: 1, TargetZ: -0.5}},
		{protocol.StatePlay, &C2SPlayerPositionAndLook{X: 1.5, Y: 64, Z: -3.25, Yaw: 90, Pitch: -10, OnGround: true}},
		{protocol.StatePlay, &C2SPlayerDigging{Status: DigStarted, Location: BlockPos{X: -10, Y: 64, Z: 300}, Face: 1}},
		{protocol.StatePlay, &C2SHeldItemChange{Slot: 4}},
		{protocol.StatePlay, &C2SAnimation{}},
		{protocol.StatePlay, &C2SClientSettings{Locale: "en_US", ViewDistance: 8, ChatColors: true, SkinParts: SkinPartsAll}},
		{protocol.StatePlay, &C2SClientStatus{Action: StatusRespawn}},
	}

	for _, tc := range cases {
		for _, threshold := range thresholds {
			t.Run(fmt.Sprintf("%T/%d", tc.p, threshold), func(t *testing.T) {
				got := roundTrip(t, tc.state, protocol.Serverbound, tc.p, threshold)
				assert.Equal(t, tc.p, got)
			})
		}
	}
}

func TestClientboundDecode(t *testing.T) {
	sword := &Item{ID: 276, Count: 1, Damage: 3}
	cases := []Packet{
		&S2CKeepAlive{KeepAliveID: 7},
		&S2CJoinGame{EntityID: 7, GameMode: 1, Dimension: -1, Difficulty: 2, MaxPlayers: 20, LevelType: "default"},
		&S2CChat{Message: `{"text":"hi"}`, Position: ChatPositionSystem},
		&S2CEntityEquipment{EntityID: 7, Slot: EquipmentHelmet, Item: sword},
		&S2CSpawnPosition{Location: BlockPos{X: -100, Y: 70, Z: 12345}},
		&S2CUpdateHealth{Health: 0, Food: 20, FoodSaturation: 5},
		&S2CRespawn{Dimension: 1, GameMode: 2, LevelType: "flat"},
		&S2CPlayerPositionAndLook{X: 1, Y: 2, Z: 3, Yaw: 4, Pitch: 5, Flags: RelativeX | RelativePitch},
		&S2CSpawnPlayer{
			EntityID:   9,
			PlayerUUID: uuid.MustParse("069a79f4-44e9-4726-a5be-fca90e38aaf5"),
			X:          32, Y: 64 * 32, Z: -16,
			Metadata: Metadata{{Index: 6, Type: MetaFloat, Value: float32(20)}},
		},
		&S2CSpawnObject{EntityID: 10, Type: ObjectItemStack, X: 1, Y: 2, Z: 3, Data: 1, VelocityX: 100},
		&S2CSpawnObject{EntityID: 11, Type: 60, X: 1, Y: 2, Z: 3},
		&S2CSpawnMob{EntityID: 12, Type: MobSheep, Metadata: Metadata{{Index: 16, Type: MetaByte, Value: int8(0x13)}}},
		&S2CSpawnExperienceOrb{EntityID: 13, X: 1, Y: 2, Z: 3, Count: 5},
		&S2CDestroyEntities{EntityIDs: []int32{1, 2, 300000}},
		&S2CEntityTeleport{EntityID: 4, X: 64, Y: 32, Z: -32, Yaw: -128, OnGround: true},
		&S2CEntityMetadata{EntityID: 4, Metadata: Metadata{
			{Index: 0, Type: MetaByte, Value: int8(2)},
			{Index: 2, Type: MetaString, Value: "Bob"},
			{Index: 10, Type: MetaSlot, Value: sword},
			{Index: 11, Type: MetaPosition, Value: Vec3i{1, 2, 3}},
		}},
		&S2CSetSlot{WindowID: 0, Slot: 36, Item: sword},
		&S2CSetSlot{WindowID: -1, Slot: -1},
		&S2CWindowItems{WindowID: 0, Items: []*Item{nil, sword, nil}},
		&S2CScoreboardObjective{Name: "o1", Mode: ObjectiveAdd, Value: "Kills", Type: ObjectiveInteger},
		&S2CScoreboardObjective{Name: "o1", Mode: ObjectiveRemove},
		&S2CUpdateScore{Player: "p1", Action: ScoreUpsert, Objective: "o1", Value: 5},
		&S2CUpdateScore{Player: "p1", Action: ScoreRemove},
		&S2CDisplayScoreboard{Position: DisplaySidebar, ScoreName: "o1"},
		&S2CTeams{Name: "red", Mode: TeamCreate, DisplayName: "Red", Prefix: "[R]", NameTagVisibility: "always", Color: 12, Players: []string{"a", "b"}},
		&S2CTeams{Name: "red", Mode: TeamRemove},
		&S2CTeams{Name: "red", Mode: TeamRemovePlayers, Players: []string{"a"}},
		&S2CKickDisconnect{Reason: `{"text":"bye"}`},
		&S2CSetCompressionPlay{Threshold: 256},
	}

	for _, p := range cases {
		t.Run(fmt.Sprintf("%T", p), func(t *testing.T) {
			got := roundTrip(t, protocol.StatePlay, protocol.Clientbound, p, 64)
			assert.Equal(t, p, got)
		})
	}
}

func TestDecodeUnknownPacket(t *testing.T) {
	_, err := Decode(protocol.StatePlay, protocol.Clientbound, pkPacket(0x7E, nil))
	require.ErrorIs(t, err, ErrUnknownPacket)

	// EncryptionRequest is deliberately not registered.
	_, err = Decode(protocol.StateLogin, protocol.Clientbound, pkPacket(0x01, nil))
	require.ErrorIs(t, err, ErrUnknownPacket)
}

func TestDecodeTruncatedBody(t *testing.T) {
	_, err := Decode(protocol.StatePlay, protocol.Clientbound, pkPacket(0x01, []byte{0, 0}))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnknownPacket)
}

func TestDecodeBadStringLength(t *testing.T) {
	tests := []struct {
		name string
		body []byte
		want string
	}{
		{"negative", []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x0F}, "negative string length"},
		{"past end of body", []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x07, 'h', 'i'}, "exceeds remaining"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Chat: string message, byte position
			_, err := Decode(protocol.StatePlay, protocol.Clientbound, pkPacket(0x02, tt.body))
			require.Error(t, err)
			assert.NotErrorIs(t, err, ErrUnknownPacket)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDecodeMetadataBadStringLength(t *testing.T) {
	// EntityMetadata: VarInt id, then a string entry (type 4, index 2)
	body := []byte{0x05, 4<<5 | 2, 0xFF, 0xFF, 0xFF, 0xFF, 0x0F}
	_, err := Decode(protocol.StatePlay, protocol.Clientbound, pkPacket(0x1C, body))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative string length")
}

func TestLookup(t *testing.T) {
	state, bound, ok := Lookup(&S2CLoginSuccess{})
	require.True(t, ok)
	assert.Equal(t, protocol.StateLogin, state)
	assert.Equal(t, protocol.Clientbound, bound)

	p, ok := New(protocol.StatePlay, protocol.Serverbound, 0x16)
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf(&C2SClientStatus{}), reflect.TypeOf(p))
}

func TestBlockPosPacking(t *testing.T) {
	for _, pos := range []BlockPos{
		{0, 0, 0},
		{1, 2, 3},
		{-1, -1, -1},
		{-30_000_000, 255, 30_000_000},
	} {
		assert.Equal(t, pos, unpackBlockPos(pos.pack()))
	}
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Server closed", PlainText(`{"text":"Server closed"}`))
	assert.Equal(t, "ab", PlainText(`{"text":"a","extra":[{"text":"b","color":"red"}]}`))
	assert.Equal(t, "not json", PlainText("not json"))
}

func TestItemDisplayName(t *testing.T) {
	var buf bytes.Buffer
	tag := map[string]any{"display": map[string]any{"Name": "Excalibur"}}
	require.NoError(t, nbt.NewEncoder(&buf).Encode(tag, ""))

	var raw nbt.RawMessage
	_, err := nbt.NewDecoder(&buf).Decode(&raw)
	require.NoError(t, err)

	it := &Item{ID: 276, Count: 1, NBT: raw}
	assert.Equal(t, "Excalibur", it.DisplayName())

	var out bytes.Buffer
	require.NoError(t, writeItem(&out, it))
	back, err := readItem(bytes.NewReader(out.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "Excalibur", back.DisplayName())

	assert.Equal(t, "", (&Item{ID: 1}).DisplayName())
	assert.Equal(t, "", (*Item)(nil).DisplayName())
}

func TestMetadataAccessors(t *testing.T) {
	md := Metadata{
		{Index: 0, Type: MetaByte, Value: int8(1)},
		{Index: 6, Type: MetaFloat, Value: float32(10)},
	}
	b, ok := md.Byte(0)
	assert.True(t, ok)
	assert.Equal(t, int8(1), b)

	_, ok = md.Byte(6)
	assert.False(t, ok, "wrong type")

	_, ok = md.Int(3)
	assert.False(t, ok, "missing index")
}
